package history

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/yanqian/slidegen/pkg/errors"
)

// ListLimit caps how many entries a listing returns.
const ListLimit = 100

// AnonymousUserID owns entries recorded while authentication is disabled.
const AnonymousUserID int64 = 0

// Entry is one generated presentation.
type Entry struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"-"`
	Title            string    `json:"title"`
	TemplateID       string    `json:"template_id"`
	PresentationType string    `json:"presentation_type"`
	Audience         string    `json:"audience"`
	Duration         int       `json:"duration"`
	Tone             string    `json:"tone"`
	Industry         string    `json:"industry"`
	OutputFilename   string    `json:"output_filename"`
	SlideCount       int       `json:"slide_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// Repository persists entries.
type Repository interface {
	Insert(ctx context.Context, entry Entry) (Entry, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]Entry, error)
}

// Service records and lists a user's presentations.
type Service interface {
	Record(ctx context.Context, entry Entry) (Entry, error)
	List(ctx context.Context, userID int64) ([]Entry, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *slog.Logger
}

// NewService constructs the history service.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With("component", "history.service"),
	}
}

func (s *service) Record(ctx context.Context, entry Entry) (Entry, error) {
	if entry.Title == "" || entry.OutputFilename == "" {
		return Entry{}, apperrors.Wrap("invalid_input", "title and output filename are required", nil)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	saved, err := s.repo.Insert(ctx, entry)
	if err != nil {
		return Entry{}, apperrors.Wrap("history_error", "failed to record presentation", err)
	}
	s.logger.Debug("presentation recorded", "id", saved.ID, "user_id", saved.UserID, "filename", saved.OutputFilename)
	return saved, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]Entry, error) {
	entries, err := s.repo.ListByUser(ctx, userID, ListLimit)
	if err != nil {
		return nil, apperrors.Wrap("history_error", "failed to load presentations", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
