// Package store persists the whole goal collection as one JSON block under a
// single key of a durable key-value backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arnold/habitus-api/internal/kv"
	"github.com/arnold/habitus-api/internal/models"
)

const DefaultKey = "mockGoals"

type Local struct {
	kv   kv.Store
	key  string
	seed bool
	now  func() time.Time
	log  *slog.Logger
}

type Option func(*Local)

func WithKey(key string) Option {
	return func(l *Local) { l.key = key }
}

// WithSeed controls whether an absent block is initialised with example goals.
func WithSeed(seed bool) Option {
	return func(l *Local) { l.seed = seed }
}

func WithClock(now func() time.Time) Option {
	return func(l *Local) { l.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Local) { l.log = log }
}

// NewLocal wraps store. A nil store behaves as "no storage available": Load
// returns an empty collection and Save is a no-op.
func NewLocal(store kv.Store, opts ...Option) *Local {
	l := &Local{
		kv:   store,
		key:  DefaultKey,
		seed: true,
		now:  time.Now,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Local) Key() string {
	return l.key
}

// Load returns the stored collection. An absent block yields the seed set
// (saved once so ids and timestamps stay stable) or an empty collection; a
// malformed block degrades the same way without being overwritten.
func (l *Local) Load(ctx context.Context) ([]models.Goal, error) {
	if l.kv == nil {
		return []models.Goal{}, nil
	}

	data, err := l.kv.Get(ctx, l.key)
	if errors.Is(err, kv.ErrNotFound) {
		if !l.seed {
			return []models.Goal{}, nil
		}
		goals := SeedGoals(l.now())
		if err := l.Save(ctx, goals); err != nil {
			l.log.Warn("failed to persist seed goals", "key", l.key, "error", err)
		}
		return goals, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}

	var goals []models.Goal
	if err := json.Unmarshal(data, &goals); err != nil {
		l.log.Warn("stored goals are malformed, ignoring them", "key", l.key, "error", err)
		if l.seed {
			return SeedGoals(l.now()), nil
		}
		return []models.Goal{}, nil
	}
	if goals == nil {
		goals = []models.Goal{}
	}
	return goals, nil
}

// Save overwrites the stored block with the full collection.
func (l *Local) Save(ctx context.Context, goals []models.Goal) error {
	if l.kv == nil {
		return nil
	}
	if goals == nil {
		goals = []models.Goal{}
	}

	data, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("encode goals: %w", err)
	}
	if err := l.kv.Set(ctx, l.key, data); err != nil {
		return fmt.Errorf("save goals: %w", err)
	}
	return nil
}
