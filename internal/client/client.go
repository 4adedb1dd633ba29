// Package client is a typed Go client of the Fairway API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fairway/backend/internal/feed"
	"fairway/backend/internal/models"
	"fairway/backend/internal/repository"
	"fairway/backend/internal/service"
	"fairway/backend/internal/settings"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client calls the API on behalf of one user.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the API rooted at baseURL (e.g. http://localhost:8080/api/v1).
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case []byte:
		rdr, contentType = bytes.NewReader(b), "application/json"
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return err
		}
		rdr, contentType = bytes.NewReader(raw), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func confirm() url.Values { return url.Values{"confirm": {"true"}} }

// Feed fetches one page of the ranked feed. A zero limit uses the configured feed limit.
func (c *Client) Feed(ctx context.Context, offset, limit int) (*service.FeedPage, error) {
	q := url.Values{"offset": {strconv.Itoa(offset)}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var page service.FeedPage
	if err := c.do(ctx, http.MethodGet, "/feed", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Round(ctx context.Context, id string) (*feed.RoundView, error) {
	var r feed.RoundView
	if err := c.do(ctx, http.MethodGet, "/rounds/"+url.PathEscape(id), nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) ToggleReaction(ctx context.Context, roundID string, t models.ReactionType) (*service.ReactionResult, error) {
	var res service.ReactionResult
	path := "/rounds/" + url.PathEscape(roundID) + "/reactions/" + url.PathEscape(string(t))
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Comments(ctx context.Context, roundID string) ([]feed.CommentView, error) {
	var list []feed.CommentView
	if err := c.do(ctx, http.MethodGet, "/rounds/"+url.PathEscape(roundID)+"/comments", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) AddComment(ctx context.Context, roundID, content string) (*feed.CommentView, error) {
	var v feed.CommentView
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/rounds/"+url.PathEscape(roundID)+"/comments", nil, body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteComment deletes one of the caller's comments. The caller is expected to have
// asked the user for confirmation already.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/comments/"+url.PathEscape(commentID), confirm(), nil, nil)
}

func (c *Client) FeedSettings(ctx context.Context) (*settings.FeedSettings, error) {
	var s settings.FeedSettings
	if err := c.do(ctx, http.MethodGet, "/admin/settings/feed", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ReplaceFeedSettings(ctx context.Context, s settings.FeedSettings) (*settings.FeedSettings, error) {
	var out settings.FeedSettings
	if err := c.do(ctx, http.MethodPut, "/admin/settings/feed", nil, s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchFeedSettings sends a JSON merge patch, e.g. {"discoveryRatio":0.5}.
func (c *Client) PatchFeedSettings(ctx context.Context, patch []byte) (*settings.FeedSettings, error) {
	var out settings.FeedSettings
	if err := c.do(ctx, http.MethodPatch, "/admin/settings/feed", nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Dashboard(ctx context.Context) (repository.Row, error) {
	var row repository.Row
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard", nil, nil, &row); err != nil {
		return nil, err
	}
	return row, nil
}
