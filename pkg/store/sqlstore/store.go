// Package sqlstore implements store.Store on database/sql. Queries are built
// with squirrel so the same code serves SQLite and Postgres; only the
// placeholder format and the embedded migrations differ per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/store"
	"github.com/piratetools42/antragsbuch/pkg/store/sqlstore/migrations"
)

// Dialect describes the SQL flavor of a database.
type Dialect struct {
	Name        string
	Placeholder sq.PlaceholderFormat
}

// Supported dialects.
var (
	SQLite   = Dialect{Name: "sqlite", Placeholder: sq.Question}
	Postgres = Dialect{Name: "postgres", Placeholder: sq.Dollar}
)

var _ store.Store = (*Store)(nil)

// questionColumns is the column order used by scanQuestion.
var questionColumns = []string{
	"question_id", "title", "url", "details", "date_added",
	"score", "score_trending", "score_top",
	"user_id", "group_id", "type", "flags", "additional_data",
}

// Store is a SQL backed store.Store.
type Store struct {
	db      *sql.DB
	dialect Dialect
	sb      sq.StatementBuilderType
}

// New wraps db and applies pending migrations. The caller keeps ownership of
// db if New fails.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	s := &Store{
		db:      db,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
	}
	if err := s.migrate(ctx); err != nil {
		return nil, errors.WrapResource("migrate", "store", dialect.Name, err)
	}
	return s, nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(ctx context.Context) error {
	fsys, err := migrations.For(s.dialect.Name)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at BIGINT  NOT NULL
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	query, args, err := s.sb.Select("COALESCE(MAX(version), 0)").From("schema_migrations").ToSql()
	if err != nil {
		return err
	}
	var current int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(ctx, version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) apply(ctx context.Context, version int, content string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range strings.Split(content, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	query, args, err := s.sb.Insert("schema_migrations").
		Columns("version", "applied_at").
		Values(version, time.Now().Unix()).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (store.Question, error) {
	var (
		q     store.Question
		added int64
	)
	err := row.Scan(&q.ID, &q.Title, &q.URL, &q.Details, &added,
		&q.Score, &q.ScoreTrending, &q.ScoreTop,
		&q.UserID, &q.GroupID, &q.Type, &q.Flags, &q.AdditionalData)
	if err != nil {
		return store.Question{}, err
	}
	q.DateAdded = time.Unix(added, 0).UTC()
	return q, nil
}

// Find returns the question with the given url.
func (s *Store) Find(ctx context.Context, url string) (*store.Question, error) {
	query, args, err := s.sb.Select(questionColumns...).
		From("questions").
		Where(sq.Eq{"url": url}).
		ToSql()
	if err != nil {
		return nil, errors.NewStoreError("find", url, err)
	}

	q, err := scanQuestion(s.db.QueryRowContext(ctx, query, args...))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("question", url)
	}
	if err != nil {
		return nil, errors.NewStoreError("find", url, err)
	}
	return &q, nil
}

// List returns all questions ordered by url.
func (s *Store) List(ctx context.Context) ([]store.Question, error) {
	query, args, err := s.sb.Select(questionColumns...).
		From("questions").
		OrderBy("url").
		ToSql()
	if err != nil {
		return nil, errors.NewStoreError("list", "", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreError("list", "", err)
	}
	defer rows.Close()

	var out []store.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, errors.NewStoreError("list", "", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError("list", "", err)
	}
	return out, nil
}

// Tags returns the tags of a question in insertion order.
func (s *Store) Tags(ctx context.Context, url string) ([]string, error) {
	q, err := s.Find(ctx, url)
	if err != nil {
		return nil, err
	}

	query, args, err := s.sb.Select("tag").
		From("tags").
		Where(sq.Eq{"question_id": q.ID}).
		OrderBy("tag_id").
		ToSql()
	if err != nil {
		return nil, errors.NewStoreError("tags", url, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreError("tags", url, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, errors.NewStoreError("tags", url, err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError("tags", url, err)
	}
	return tags, nil
}

// Count returns the number of questions.
func (s *Store) Count(ctx context.Context) (int, error) {
	query, args, err := s.sb.Select("COUNT(*)").From("questions").ToSql()
	if err != nil {
		return 0, errors.NewStoreError("count", "", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.NewStoreError("count", "", err)
	}
	return n, nil
}

// Insert stores q and its tags in one transaction.
func (s *Store) Insert(ctx context.Context, q *store.Question, tags []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStoreError("insert", q.URL, err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := s.sb.Insert("questions").
		Columns(questionColumns[1:]...).
		Values(q.Title, q.URL, q.Details, q.DateAdded.Unix(),
			q.Score, q.ScoreTrending, q.ScoreTop,
			q.UserID, q.GroupID, q.Type, q.Flags, q.AdditionalData).
		Suffix("RETURNING question_id").
		ToSql()
	if err != nil {
		return errors.NewStoreError("insert", q.URL, err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return errors.NewStoreError("insert", q.URL, err)
	}

	if len(tags) > 0 {
		insert := s.sb.Insert("tags").Columns("tag", "question_id", "group_id")
		for _, tag := range tags {
			insert = insert.Values(tag, id, q.GroupID)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return errors.NewStoreError("insert", q.URL, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.NewStoreError("insert", q.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStoreError("insert", q.URL, err)
	}
	q.ID = id
	return nil
}

// UpdateDetails replaces the details of a question.
func (s *Store) UpdateDetails(ctx context.Context, url, details string) error {
	query, args, err := s.sb.Update("questions").
		Set("details", details).
		Where(sq.Eq{"url": url}).
		ToSql()
	if err != nil {
		return errors.NewStoreError("update", url, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.NewStoreError("update", url, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewStoreError("update", url, err)
	}
	if n == 0 {
		return errors.NewNotFoundError("question", url)
	}
	return nil
}

// Purge deletes all tags and questions.
func (s *Store) Purge(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStoreError("purge", "", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"tags", "questions"} {
		query, args, err := s.sb.Delete(table).ToSql()
		if err != nil {
			return errors.NewStoreError("purge", "", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.NewStoreError("purge", "", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStoreError("purge", "", err)
	}
	return nil
}
