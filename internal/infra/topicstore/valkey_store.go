package topicstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/slidegen/internal/domain/topics"
)

// ValkeyStore ranks canonical topics in a sorted set and keeps the first display form seen for each
// in a hash.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "slidegen:topics"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Increment bumps the count and records display once. Both commands are pipelined; any failure is returned.
func (s *ValkeyStore) Increment(ctx context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	cmds := valkey.Commands{
		s.client.B().Zincrby().Key(s.rankKey()).Increment(1).Member(canonical).Build(),
	}
	if display != "" {
		cmds = append(cmds, s.client.B().Hsetnx().Key(s.displayKey()).Field(canonical).Value(display).Build())
	}
	var errs []error
	for i, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			op := "zincrby"
			if i > 0 {
				op = "hsetnx display"
			}
			errs = append(errs, fmt.Errorf("%s %q: %w", op, canonical, err))
		}
	}
	return errors.Join(errs...)
}

func (s *ValkeyStore) Top(ctx context.Context, limit int) ([]topics.Trending, error) {
	if limit <= 0 {
		limit = topics.DefaultLimit
	}
	entries, err := s.client.Do(ctx,
		s.client.B().Zrevrange().Key(s.rankKey()).Start(0).Stop(int64(limit-1)).Withscores().Build()).AsZScores()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	members := make([]string, len(entries))
	for i, entry := range entries {
		members[i] = entry.Member
	}
	displays, err := s.client.Do(ctx, s.client.B().Hmget().Key(s.displayKey()).Field(members...).Build()).ToArray()
	if err != nil && !valkey.IsValkeyNil(err) {
		return nil, err
	}

	out := make([]topics.Trending, 0, len(entries))
	for i, entry := range entries {
		name := entry.Member
		if i < len(displays) {
			if display, err := displays[i].ToString(); err == nil && display != "" {
				name = display
			}
		}
		out = append(out, topics.Trending{Topic: name, Count: int64(entry.Score)})
	}
	return out, nil
}

func (s *ValkeyStore) rankKey() string {
	return s.prefix + ":rank"
}

func (s *ValkeyStore) displayKey() string {
	return s.prefix + ":display"
}

var _ topics.Store = (*ValkeyStore)(nil)
