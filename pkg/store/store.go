// Package store defines the persistent record store of the wikiarguments
// front end: questions keyed by their motion id (the url column) and the
// search tags attached to them.
package store

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// Question is one stored record.
type Question struct {
	ID             int64     `json:"question_id" yaml:"question_id"`
	URL            string    `json:"url" yaml:"url"`
	Title          string    `json:"title" yaml:"title"`
	Details        string    `json:"details" yaml:"details"`
	DateAdded      time.Time `json:"date_added" yaml:"date_added"`
	Score          int       `json:"score" yaml:"score"`
	ScoreTrending  int       `json:"score_trending" yaml:"score_trending"`
	ScoreTop       int       `json:"score_top" yaml:"score_top"`
	UserID         int       `json:"user_id" yaml:"user_id"`
	GroupID        int       `json:"group_id" yaml:"group_id"`
	Type           int       `json:"type" yaml:"type"`
	Flags          int       `json:"flags" yaml:"flags"`
	AdditionalData string    `json:"additional_data" yaml:"additional_data"`
}

// Reader is the read side of a Store.
type Reader interface {
	// Find returns the question with the given url or an error satisfying
	// errors.IsNotFound.
	Find(ctx context.Context, url string) (*Question, error)

	// List returns all questions ordered by url.
	List(ctx context.Context) ([]Question, error)

	// Tags returns the tags of the question with the given url in insertion order.
	Tags(ctx context.Context, url string) ([]string, error)

	// Count returns the number of stored questions.
	Count(ctx context.Context) (int, error)
}

// Writer is the write side of a Store.
type Writer interface {
	// Insert stores q and its tags atomically and sets q.ID.
	Insert(ctx context.Context, q *Question, tags []string) error

	// UpdateDetails replaces the details of an existing question.
	UpdateDetails(ctx context.Context, url, details string) error

	// Purge deletes all tags and questions.
	Purge(ctx context.Context) error
}

// Store is a persistent record store.
type Store interface {
	Reader
	Writer
	io.Closer
}

type additionalData struct {
	Tags []string `json:"tags"`
}

// AdditionalData encodes the tag list stored with each question.
func AdditionalData(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(additionalData{Tags: tags})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeAdditionalData returns the tags stored in a question's additional data.
func DecodeAdditionalData(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var d additionalData
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		return nil, err
	}
	return d.Tags, nil
}
