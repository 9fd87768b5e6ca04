// Package stores implements persistence interfaces on top of the local SQLite database.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/promptshelf/internal/core/prompt"
	"github.com/colonyops/promptshelf/internal/data/db"
)

// PromptStore implements prompt.Store using SQLite.
type PromptStore struct {
	db *db.DB
}

var _ prompt.Store = (*PromptStore)(nil)

// NewPromptStore creates a SQLite-backed prompt store.
func NewPromptStore(database *db.DB) *PromptStore {
	return &PromptStore{db: database}
}

// Create inserts a prompt and its tags.
func (s *PromptStore) Create(ctx context.Context, p prompt.Prompt) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO prompts (id, title, content, seq, created_at, updated_at)
			VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM prompts), ?, ?)`,
			p.ID, p.Title, p.Content, p.CreatedAt.UnixNano(), p.UpdatedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("insert prompt %q: %w", p.ID, err)
		}
		return writeTags(ctx, tx, p.ID, p.Tags)
	})
}

// Get returns a prompt by ID.
func (s *PromptStore) Get(ctx context.Context, id string) (prompt.Prompt, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM prompts WHERE id = ?`, id)

	p, err := scanPrompt(row)
	if err != nil {
		if IsNotFoundError(err) {
			return prompt.Prompt{}, prompt.ErrNotFound
		}
		return prompt.Prompt{}, fmt.Errorf("get prompt %q: %w", id, err)
	}

	tags, err := s.tagsFor(ctx, []string{id})
	if err != nil {
		return prompt.Prompt{}, err
	}
	p.Tags = tags[id]
	return p, nil
}

// List returns prompts oldest first, filtered by opts.
func (s *PromptStore) List(ctx context.Context, opts prompt.ListOptions) ([]prompt.Prompt, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM prompts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		prompts []prompt.Prompt
		ids     []string
	)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	tags, err := s.tagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range prompts {
		prompts[i].Tags = tags[prompts[i].ID]
	}

	return prompt.Filter(prompts, opts), nil
}

// Update replaces title, content, tags, and updated_at.
func (s *PromptStore) Update(ctx context.Context, p prompt.Prompt) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE prompts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
			p.Title, p.Content, p.UpdatedAt.UnixNano(), p.ID,
		)
		if err != nil {
			return fmt.Errorf("update prompt %q: %w", p.ID, err)
		}
		if err := requireRow(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM prompt_tags WHERE prompt_id = ?`, p.ID); err != nil {
			return fmt.Errorf("clear tags %q: %w", p.ID, err)
		}
		return writeTags(ctx, tx, p.ID, p.Tags)
	})
}

// Delete removes a prompt and its tags.
func (s *PromptStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete prompt %q: %w", id, err)
	}
	return requireRow(res)
}

// Tags returns distinct tags in first-seen order, oldest prompt first.
func (s *PromptStore) Tags(ctx context.Context) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT t.tag
		FROM prompt_tags t
		JOIN prompts p ON p.id = t.prompt_id
		GROUP BY t.tag
		ORDER BY MIN(p.seq * 1000 + t.position)`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *PromptStore) tagsFor(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT prompt_id, tag FROM prompt_tags WHERE prompt_id IN (`+placeholders+`) ORDER BY prompt_id, position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out[id] = append(out[id], tag)
	}
	return out, rows.Err()
}

func writeTags(ctx context.Context, tx *sql.Tx, id string, tags []string) error {
	for i, tag := range tags {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO prompt_tags (prompt_id, tag, position) VALUES (?, ?, ?)`, id, tag, i)
		if err != nil {
			return fmt.Errorf("insert tag %q for %q: %w", tag, id, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPrompt(row scanner) (prompt.Prompt, error) {
	var (
		p                    prompt.Prompt
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &createdAt, &updatedAt); err != nil {
		return prompt.Prompt{}, err
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return p, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return prompt.ErrNotFound
	}
	return nil
}
