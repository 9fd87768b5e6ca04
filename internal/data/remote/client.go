// Package remote implements prompt.Store against a hosted PostgREST-style backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/colonyops/promptshelf/internal/core/prompt"
)

const table = "prompts"

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: status %d", e.Status)
	}
	return fmt.Sprintf("remote: status %d: %s", e.Status, e.Message)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client talks to {BaseURL}/rest/v1/prompts.
type Client struct {
	base   *url.URL
	apiKey string
	http   *http.Client
	log    zerolog.Logger
}

var _ prompt.Store = (*Client)(nil)

// New creates a client. BaseURL must be an absolute http(s) URL.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{base: u, apiKey: opts.APIKey, http: hc, log: opts.Logger}, nil
}

type row struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRow(p prompt.Prompt) row {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return row{ID: p.ID, Title: p.Title, Content: p.Content, Tags: tags, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

// Create inserts a prompt.
func (c *Client) Create(ctx context.Context, p prompt.Prompt) error {
	_, err := c.do(ctx, http.MethodPost, nil, toRow(p), "return=minimal")
	return err
}

// Get fetches a prompt by ID.
func (c *Client) Get(ctx context.Context, id string) (prompt.Prompt, error) {
	q := url.Values{"id": {"eq." + id}, "select": {"*"}}
	body, err := c.do(ctx, http.MethodGet, q, nil, "")
	if err != nil {
		return prompt.Prompt{}, err
	}

	prompts := parsePrompts(body)
	if len(prompts) == 0 {
		return prompt.Prompt{}, prompt.ErrNotFound
	}
	return prompts[0], nil
}

// List fetches every prompt oldest first and filters locally.
func (c *Client) List(ctx context.Context, opts prompt.ListOptions) ([]prompt.Prompt, error) {
	all, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	return prompt.Filter(all, opts), nil
}

// Update patches title, content, tags, and updated_at.
func (c *Client) Update(ctx context.Context, p prompt.Prompt) error {
	q := url.Values{"id": {"eq." + p.ID}}
	patch := map[string]any{
		"title":      p.Title,
		"content":    p.Content,
		"tags":       toRow(p).Tags,
		"updated_at": p.UpdatedAt,
	}

	body, err := c.do(ctx, http.MethodPatch, q, patch, "return=representation")
	if err != nil {
		return err
	}
	if len(gjson.ParseBytes(body).Array()) == 0 {
		return prompt.ErrNotFound
	}
	return nil
}

// Delete removes a prompt.
func (c *Client) Delete(ctx context.Context, id string) error {
	q := url.Values{"id": {"eq." + id}}
	body, err := c.do(ctx, http.MethodDelete, q, nil, "return=representation")
	if err != nil {
		return err
	}
	if len(gjson.ParseBytes(body).Array()) == 0 {
		return prompt.ErrNotFound
	}
	return nil
}

// Tags returns distinct tags in first-seen order, oldest prompt first.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	all, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	return prompt.DistinctTags(all), nil
}

func (c *Client) all(ctx context.Context) ([]prompt.Prompt, error) {
	q := url.Values{"select": {"*"}, "order": {"created_at.asc,id.asc"}}
	body, err := c.do(ctx, http.MethodGet, q, nil, "")
	if err != nil {
		return nil, err
	}
	return parsePrompts(body), nil
}

func (c *Client) do(ctx context.Context, method string, query url.Values, payload any, prefer string) ([]byte, error) {
	u := c.base.JoinPath("rest", "v1", table)
	u.RawQuery = query.Encode()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("remote request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: gjson.GetBytes(body, "message").String(),
		}
	}
	return body, nil
}

func parsePrompts(body []byte) []prompt.Prompt {
	items := gjson.ParseBytes(body).Array()
	out := make([]prompt.Prompt, 0, len(items))
	for _, item := range items {
		p := prompt.Prompt{
			ID:        item.Get("id").String(),
			Title:     item.Get("title").String(),
			Content:   item.Get("content").String(),
			CreatedAt: item.Get("created_at").Time().UTC(),
			UpdatedAt: item.Get("updated_at").Time().UTC(),
		}
		for _, t := range item.Get("tags").Array() {
			p.Tags = append(p.Tags, t.String())
		}
		out = append(out, p)
	}
	return out
}
