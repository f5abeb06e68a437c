package topics

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	apperrors "github.com/yanqian/slidegen/pkg/errors"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Trending is one ranked topic.
type Trending struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}

// Store keeps topic counters keyed by canonical form.
type Store interface {
	Increment(ctx context.Context, canonical, display string) error
	Top(ctx context.Context, limit int) ([]Trending, error)
}

// Service counts generated topics and ranks them.
type Service interface {
	Track(ctx context.Context, topic string) error
	Trending(ctx context.Context, limit int) ([]Trending, error)
}

type service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a Service backed by store.
func NewService(store Store, logger *slog.Logger) Service {
	return &service{store: store, logger: logger.With("component", "topics.service")}
}

func (s *service) Track(ctx context.Context, topic string) error {
	canonical := Canonical(topic)
	if canonical == "" {
		return nil
	}
	if err := s.store.Increment(ctx, canonical, strings.TrimSpace(topic)); err != nil {
		return apperrors.Wrap("topics_error", "failed to record topic", err)
	}
	return nil
}

func (s *service) Trending(ctx context.Context, limit int) ([]Trending, error) {
	items, err := s.store.Top(ctx, ClampLimit(limit))
	if err != nil {
		return nil, apperrors.Wrap("topics_error", "failed to load trending topics", err)
	}
	if items == nil {
		items = []Trending{}
	}
	return items, nil
}

// ClampLimit maps non-positive values to DefaultLimit and caps at MaxLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// Canonical lowercases the topic, drops punctuation and collapses whitespace.
func Canonical(topic string) string {
	lowered := strings.ToLower(strings.TrimSpace(topic))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		// punctuation and whitespace both separate words
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(builder.String())
}
