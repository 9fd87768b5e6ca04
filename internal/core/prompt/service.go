package prompt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/promptshelf/internal/core/idgen"
	"github.com/colonyops/promptshelf/internal/core/logging"
	"github.com/colonyops/promptshelf/internal/core/tagcolor"
)

// Service orchestrates prompt operations over a Store.
type Service struct {
	store  Store
	ids    idgen.Generator
	colors *tagcolor.Allocator
	log    zerolog.Logger
	now    func() time.Time
}

// NewService creates a prompt service. colors may be nil when tag colors are
// not needed.
func NewService(store Store, ids idgen.Generator, colors *tagcolor.Allocator, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		ids:    ids,
		colors: colors,
		log:    log,
		now:    time.Now,
	}
}

// Draft is the user-provided part of a prompt.
type Draft struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Add validates and stores a new prompt.
func (s *Service) Add(ctx context.Context, d Draft) (Prompt, error) {
	now := s.now().UTC()
	p := Prompt{
		ID:        s.ids.NewID(),
		Title:     strings.TrimSpace(d.Title),
		Content:   d.Content,
		Tags:      NormalizeTags(d.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := p.Validate(); err != nil {
		return Prompt{}, err
	}

	ctx = logging.WithPromptID(ctx, p.ID)
	if err := s.store.Create(ctx, p); err != nil {
		return Prompt{}, fmt.Errorf("create prompt: %w", err)
	}

	if s.colors != nil {
		s.colors.Preload(p.Tags)
	}

	s.log.Info().Ctx(ctx).Strs("tags", p.Tags).Msg("prompt created")
	return p, nil
}

// Get returns a single prompt.
func (s *Service) Get(ctx context.Context, id string) (Prompt, error) {
	return s.store.Get(ctx, id)
}

// List returns prompts matching opts.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Prompt, error) {
	if err := ValidatePattern(opts.TagPattern); err != nil {
		return nil, err
	}
	return s.store.List(ctx, opts)
}

// Tags returns every stored tag in store order and makes sure each has a color.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.store.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if s.colors != nil {
		s.colors.Preload(tags)
	}
	return tags, nil
}

// Retag replaces the tags of an existing prompt.
func (s *Service) Retag(ctx context.Context, id string, tags []string) (Prompt, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return Prompt{}, err
	}

	p.Tags = NormalizeTags(tags)
	p.UpdatedAt = s.now().UTC()
	if err := p.Validate(); err != nil {
		return Prompt{}, err
	}

	ctx = logging.WithPromptID(ctx, id)
	if err := s.store.Update(ctx, p); err != nil {
		return Prompt{}, fmt.Errorf("update prompt: %w", err)
	}

	if s.colors != nil {
		s.colors.Preload(p.Tags)
	}

	s.log.Debug().Ctx(ctx).Strs("tags", p.Tags).Msg("prompt retagged")
	return p, nil
}

// Remove deletes a prompt. Colors assigned to its tags are kept.
func (s *Service) Remove(ctx context.Context, id string) error {
	ctx = logging.WithPromptID(ctx, id)
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Ctx(ctx).Msg("prompt removed")
	return nil
}

// WarmColors loads every stored tag into the allocator in store order, so the
// color layout only depends on the stored data.
func (s *Service) WarmColors(ctx context.Context) error {
	if s.colors == nil {
		return nil
	}

	tags, err := s.store.Tags(ctx)
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}

	s.colors.Preload(tags)
	s.log.Debug().Int("tags", len(tags)).Msg("tag colors warmed")
	return nil
}
