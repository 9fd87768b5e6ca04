// Package prompt defines saved prompt records and their storage interface.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"github.com/samber/lo"

	"github.com/colonyops/promptshelf/internal/core/validate"
)

// Limits enforced by Validate.
const (
	MaxContentSize = 64 << 10
	MaxTags        = 32
	MaxTagLength   = 64
)

// ErrNotFound is returned when a prompt does not exist.
var ErrNotFound = errors.New("prompt not found")

// Prompt is a saved prompt with free-form tags.
type Prompt struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks field constraints and returns all violations at once.
func (p *Prompt) Validate() error {
	return criterio.ValidateStruct(
		validate.RequiredField("title", p.Title),
		criterio.Run("content", p.Content, validate.All(validate.Required, validate.MaxBytes(MaxContentSize))),
		validateTags(p.Tags),
	)
}

var tagLength = validate.MaxBytes(MaxTagLength)

func validateTags(tags []string) error {
	var errs criterio.FieldErrorsBuilder
	if len(tags) > MaxTags {
		errs = errs.Append("tags", fmt.Errorf("at most %d tags allowed, got %d", MaxTags, len(tags)))
	}
	for i, t := range tags {
		if err := tagLength(t); err != nil {
			errs = errs.Append(fmt.Sprintf("tags[%d]", i), err)
		}
	}
	return errs.ToError()
}

// NormalizeTags trims and lower-cases tags, drops blanks, and removes
// duplicates keeping the first occurrence.
func NormalizeTags(tags []string) []string {
	cleaned := lo.FilterMap(tags, func(t string, _ int) (string, bool) {
		t = strings.ToLower(strings.TrimSpace(t))
		return t, t != ""
	})
	return lo.Uniq(cleaned)
}

// HasTag reports whether the prompt carries a tag matching the doublestar
// pattern. An empty pattern matches every prompt.
func (p *Prompt) HasTag(pattern string) bool {
	if pattern == "" {
		return true
	}
	return lo.ContainsBy(p.Tags, func(t string) bool {
		ok, err := doublestar.Match(pattern, t)
		return err == nil && ok
	})
}

// ValidatePattern reports whether a tag pattern is well formed.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid tag pattern %q", pattern)
	}
	return nil
}

// ListOptions filters List results.
type ListOptions struct {
	// TagPattern is a doublestar glob matched against each tag.
	TagPattern string
	// Limit caps the number of results; zero means no limit.
	Limit int
}

// Filter applies opts to prompts already in store order.
func Filter(prompts []Prompt, opts ListOptions) []Prompt {
	out := lo.Filter(prompts, func(p Prompt, _ int) bool {
		return p.HasTag(opts.TagPattern)
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// DistinctTags returns every tag in first-seen order across prompts.
func DistinctTags(prompts []Prompt) []string {
	return lo.Uniq(lo.FlatMap(prompts, func(p Prompt, _ int) []string {
		return p.Tags
	}))
}

// Store persists prompts.
type Store interface {
	// Create inserts a new prompt. The ID must already be set.
	Create(ctx context.Context, p Prompt) error
	// Get returns ErrNotFound if the prompt does not exist.
	Get(ctx context.Context, id string) (Prompt, error)
	// List returns prompts oldest first.
	List(ctx context.Context, opts ListOptions) ([]Prompt, error)
	// Update replaces title, content, tags, and updated_at.
	Update(ctx context.Context, p Prompt) error
	// Delete returns ErrNotFound if the prompt does not exist.
	Delete(ctx context.Context, id string) error
	// Tags returns distinct tags in first-seen order, oldest prompt first.
	Tags(ctx context.Context) ([]string, error)
}
