// Package client is the Go counterpart of the browser data service: a thin
// HTTP client for the Starflix API that can fall back to an on-device cache
// when the network is down. The cache is never a second source of truth;
// queued writes are replayed through the API by Reconcile.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SajidCurious/starflix/internal/models"
	"github.com/SajidCurious/starflix/internal/store"
)

// ErrDuplicate mirrors the server's conflict outcome for a double add.
var ErrDuplicate = errors.New("already in list")

// ErrNotFound mirrors the server's 404 outcome.
var ErrNotFound = errors.New("not found")

const (
	ListFavourites = "favourites"
	ListWatchlist  = "watchlist"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Offline *Offline
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope covers every payload key the API returns; unused keys stay zero.
type envelope struct {
	Success    bool                  `json:"success"`
	Error      string                `json:"error"`
	Message    string                `json:"message"`
	User       *models.User          `json:"user"`
	Favourites []models.LibraryEntry `json:"favourites"`
	Watchlist  []models.LibraryEntry `json:"watchlist"`
	Reviews    []models.Review       `json:"reviews"`
	Review     *models.Review        `json:"review"`
	Status     string                `json:"status"`
}

// call performs one API request. A non-nil error with a nil envelope means
// the network itself failed; that is the trigger for offline fallback.
func (c *Client) call(ctx context.Context, method, path string, body any) (*envelope, int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, 0, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, res.StatusCode, err
	}
	return &env, res.StatusCode, nil
}

// Health checks the API's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	env, status, err := c.call(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK || env.Status != "OK" {
		return fmt.Errorf("health check failed: status %d", status)
	}
	return nil
}

// GetOrCreateUser resolves the external identity to the internal user.
func (c *Client) GetOrCreateUser(ctx context.Context, externalID string, p store.Profile) (*models.User, error) {
	body := map[string]any{
		"externalId": externalID,
		"email":      p.Email,
		"name":       p.Name,
		"avatar":     p.Avatar,
	}
	env, _, err := c.call(ctx, http.MethodPost, "/api/user", body)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, errors.New(env.Error)
	}
	return env.User, nil
}

// Library lists the user's favourites or watchlist. On a network failure it
// serves the offline copy when one is configured.
func (c *Client) Library(ctx context.Context, list, externalID string) ([]models.LibraryEntry, error) {
	env, _, err := c.call(ctx, http.MethodGet, "/api/"+list+"/"+externalID, nil)
	if err != nil {
		if c.Offline != nil {
			return c.Offline.Library(list, externalID)
		}
		return nil, err
	}
	if !env.Success {
		return nil, errors.New(env.Error)
	}
	entries := env.Favourites
	if list == ListWatchlist {
		entries = env.Watchlist
	}
	if c.Offline != nil {
		_ = c.Offline.Sync(list, externalID, entries)
	}
	return entries, nil
}

// AddToLibrary adds an item. A duplicate reports ErrDuplicate. On a network
// failure the write lands in the offline cache and is queued for Reconcile.
func (c *Client) AddToLibrary(ctx context.Context, list, externalID string, item models.LibraryEntry, p store.Profile) error {
	body := map[string]any{"item": item, "profile": p}
	env, _, err := c.call(ctx, http.MethodPost, "/api/"+list+"/"+externalID, body)
	if err != nil {
		if c.Offline != nil {
			return c.Offline.QueueAdd(list, externalID, item, p)
		}
		return err
	}
	if !env.Success {
		if env.Message != "" {
			return ErrDuplicate
		}
		return errors.New(env.Error)
	}
	return nil
}

// RemoveFromLibrary removes an item; removing an absent item succeeds.
func (c *Client) RemoveFromLibrary(ctx context.Context, list, externalID string, itemID int64) error {
	path := fmt.Sprintf("/api/%s/%s/%d", list, externalID, itemID)
	env, status, err := c.call(ctx, http.MethodDelete, path, nil)
	if err != nil {
		if c.Offline != nil {
			return c.Offline.QueueRemove(list, externalID, itemID)
		}
		return err
	}
	if !env.Success {
		if status == http.StatusNotFound {
			return ErrNotFound
		}
		return errors.New(env.Error)
	}
	return nil
}

// Contains reports membership via the list endpoint.
func (c *Client) Contains(ctx context.Context, list, externalID string, itemID int64) (bool, error) {
	entries, err := c.Library(ctx, list, externalID)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.MovieID == itemID {
			return true, nil
		}
	}
	return false, nil
}

// Reviews lists the user's reviews, falling back to the offline copy.
func (c *Client) Reviews(ctx context.Context, externalID string) ([]models.Review, error) {
	env, _, err := c.call(ctx, http.MethodGet, "/api/reviews/"+externalID, nil)
	if err != nil {
		if c.Offline != nil {
			return c.Offline.Reviews(externalID)
		}
		return nil, err
	}
	if !env.Success {
		return nil, errors.New(env.Error)
	}
	if c.Offline != nil {
		_ = c.Offline.SyncReviews(externalID, env.Reviews)
	}
	return env.Reviews, nil
}

// ReviewInput is the create payload for a review.
type ReviewInput struct {
	MovieID     int64  `json:"movieId"`
	MovieTitle  string `json:"movieTitle"`
	MoviePoster string `json:"moviePoster"`
	Rating      int    `json:"rating"`
	ReviewText  string `json:"reviewText"`
}

// CreateReview submits a review. On a network failure the review is queued.
func (c *Client) CreateReview(ctx context.Context, externalID string, in ReviewInput, p store.Profile) (*models.Review, error) {
	body := map[string]any{"item": in, "profile": p}
	env, _, err := c.call(ctx, http.MethodPost, "/api/reviews/"+externalID, body)
	if err != nil {
		if c.Offline != nil {
			return nil, c.Offline.QueueReview(externalID, in, p)
		}
		return nil, err
	}
	if !env.Success {
		return nil, errors.New(env.Error)
	}
	return env.Review, nil
}

// UpdateReview rewrites an existing review's rating and text.
func (c *Client) UpdateReview(ctx context.Context, externalID, reviewID string, rating int, text string) (*models.Review, error) {
	body := map[string]any{"rating": rating, "reviewText": text}
	env, status, err := c.call(ctx, http.MethodPut, "/api/reviews/"+externalID+"/"+reviewID, body)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		if status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, errors.New(env.Error)
	}
	return env.Review, nil
}

// DeleteReview removes a review the user owns.
func (c *Client) DeleteReview(ctx context.Context, externalID, reviewID string) error {
	env, status, err := c.call(ctx, http.MethodDelete, "/api/reviews/"+externalID+"/"+reviewID, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		if status == http.StatusNotFound {
			return ErrNotFound
		}
		return errors.New(env.Error)
	}
	return nil
}

// HasReviewed reports whether the user already reviewed the item.
func (c *Client) HasReviewed(ctx context.Context, externalID string, movieID int64) (bool, error) {
	reviews, err := c.Reviews(ctx, externalID)
	if err != nil {
		return false, err
	}
	for _, r := range reviews {
		if r.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}

// Reconcile replays queued offline writes through the API in order. A write
// the server rejects as a duplicate counts as reconciled. Replay stops at
// the first network failure so ordering is preserved for the next attempt.
func (c *Client) Reconcile(ctx context.Context) error {
	if c.Offline == nil {
		return nil
	}
	// Replay without offline fallback: a failed replay must stay queued,
	// not re-queue itself.
	direct := &Client{BaseURL: c.BaseURL, HTTP: c.HTTP}
	pending := c.Offline.Pending()
	for i, m := range pending {
		var err error
		switch m.Op {
		case opAdd:
			err = direct.AddToLibrary(ctx, m.List, m.ExternalID, *m.Item, m.Profile)
			if errors.Is(err, ErrDuplicate) {
				err = nil
			}
		case opRemove:
			err = direct.RemoveFromLibrary(ctx, m.List, m.ExternalID, m.ItemID)
			if errors.Is(err, ErrNotFound) {
				err = nil
			}
		case opReview:
			_, err = direct.CreateReview(ctx, m.ExternalID, *m.Review, m.Profile)
		}
		if err != nil {
			c.Offline.SetPending(pending[i:])
			return err
		}
	}
	return c.Offline.SetPending(nil)
}
