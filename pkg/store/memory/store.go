// Package memory provides an in-memory Store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps questions and tags in maps guarded by a mutex.
type Store struct {
	mu        sync.RWMutex
	nextID    int64
	questions map[string]store.Question
	tags      map[string][]string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:    1,
		questions: make(map[string]store.Question),
		tags:      make(map[string][]string),
	}
}

// Find returns the question with the given url.
func (s *Store) Find(ctx context.Context, url string) (*store.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[url]
	if !ok {
		return nil, errors.NewNotFoundError("question", url)
	}
	return &q, nil
}

// List returns all questions ordered by url.
func (s *Store) List(ctx context.Context) ([]store.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out, nil
}

// Tags returns the tags of a question.
func (s *Store) Tags(ctx context.Context, url string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.questions[url]; !ok {
		return nil, errors.NewNotFoundError("question", url)
	}
	return append([]string(nil), s.tags[url]...), nil
}

// Count returns the number of questions.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}

// Insert stores q and its tags.
func (s *Store) Insert(ctx context.Context, q *store.Question, tags []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[q.URL]; ok {
		return errors.NewStoreError("insert", q.URL, errors.ErrAlreadyExists)
	}
	q.ID = s.nextID
	s.nextID++
	s.questions[q.URL] = *q
	s.tags[q.URL] = append([]string(nil), tags...)
	return nil
}

// UpdateDetails replaces the details of a question.
func (s *Store) UpdateDetails(ctx context.Context, url, details string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[url]
	if !ok {
		return errors.NewNotFoundError("question", url)
	}
	q.Details = details
	s.questions[url] = q
	return nil
}

// Purge removes everything.
func (s *Store) Purge(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = make(map[string]store.Question)
	s.tags = make(map[string][]string)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
