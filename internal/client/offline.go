package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SajidCurious/starflix/internal/models"
	"github.com/SajidCurious/starflix/internal/store"
)

const (
	opAdd    = "add"
	opRemove = "remove"
	opReview = "review"
)

// Mutation is one queued offline write, replayed by Reconcile.
type Mutation struct {
	Op         string               `json:"op"`
	List       string               `json:"list,omitempty"`
	ExternalID string               `json:"externalId"`
	Item       *models.LibraryEntry `json:"item,omitempty"`
	ItemID     int64                `json:"itemId,omitempty"`
	Review     *ReviewInput         `json:"review,omitempty"`
	Profile    store.Profile        `json:"profile"`
	QueuedAt   time.Time            `json:"queuedAt"`
}

type offlineState struct {
	Lists   map[string]map[string][]models.LibraryEntry `json:"lists"`
	Reviews map[string][]models.Review                  `json:"reviews"`
	Pending []Mutation                                  `json:"pending"`
}

// Offline is a JSON-file mirror of the user's library shapes, used only when
// the API is unreachable. Reads serve the last synced copy; writes apply
// locally and queue for replay.
type Offline struct {
	mu   sync.Mutex
	path string
}

func NewOffline(path string) *Offline {
	return &Offline{path: path}
}

func (o *Offline) load() (*offlineState, error) {
	st := &offlineState{
		Lists:   map[string]map[string][]models.LibraryEntry{},
		Reviews: map[string][]models.Review{},
	}
	b, err := os.ReadFile(o.path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, st); err != nil {
		return nil, err
	}
	if st.Lists == nil {
		st.Lists = map[string]map[string][]models.LibraryEntry{}
	}
	if st.Reviews == nil {
		st.Reviews = map[string][]models.Review{}
	}
	return st, nil
}

func (o *Offline) save(st *offlineState) error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
		return err
	}
	tmp := o.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, o.path)
}

// Library returns the cached copy of the user's list.
func (o *Offline) Library(list, externalID string) ([]models.LibraryEntry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, err := o.load()
	if err != nil {
		return nil, err
	}
	entries := st.Lists[list][externalID]
	if entries == nil {
		entries = []models.LibraryEntry{}
	}
	return entries, nil
}

// Reviews returns the cached copy of the user's reviews.
func (o *Offline) Reviews(externalID string) ([]models.Review, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, err := o.load()
	if err != nil {
		return nil, err
	}
	reviews := st.Reviews[externalID]
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// QueueAdd applies the add locally (same dedup rule as the server) and
// queues it for replay.
func (o *Offline) QueueAdd(list, externalID string, item models.LibraryEntry, p store.Profile) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, err := o.load()
	if err != nil {
		return err
	}
	if st.Lists[list] == nil {
		st.Lists[list] = map[string][]models.LibraryEntry{}
	}
	for _, e := range st.Lists[list][externalID] {
		if e.MovieID == item.MovieID {
			return ErrDuplicate
		}
	}
	item.AddedAt = time.Now().UTC()
	if item.MediaType == "" {
		item.MediaType = "movie"
	}
	st.Lists[list][externalID] = append([]models.LibraryEntry{item}, st.Lists[list][externalID]...)
	st.Pending = append(st.Pending, Mutation{
		Op: opAdd, List: list, ExternalID: externalID,
		Item: &item, Profile: p, QueuedAt: time.Now().UTC(),
	})
	return o.save(st)
}

// QueueRemove applies the removal locally and queues it for replay.
func (o *Offline) QueueRemove(list, externalID string, itemID int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, err := o.load()
	if err != nil {
		return err
	}
	entries := st.Lists[list][externalID]
	kept := entries[:0]
	for _, e := range entries {
		if e.MovieID != itemID {
			kept = append(kept, e)
		}
	}
	if st.Lists[list] == nil {
		st.Lists[list] = map[string][]models.LibraryEntry{}
	}
	st.Lists[list][externalID] = kept
	st.Pending = append(st.Pending, Mutation{
		Op: opRemove, List: list, ExternalID: externalID,
		ItemID: itemID, QueuedAt: time.Now().UTC(),
	})
	return o.save(st)
}

// QueueReview stores the review locally and queues it for replay. The
// server assigns the real id on reconcile.
func (o *Offline) QueueReview(externalID string, in ReviewInput, p store.Profile) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, err := o.load()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	local := models.Review{
		MovieID:     in.MovieID,
		MovieTitle:  in.MovieTitle,
		MoviePoster: in.MoviePoster,
		Rating:      in.Rating,
		ReviewText:  in.ReviewText,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	st.Reviews[externalID] = append([]models.Review{local}, st.Reviews[externalID]...)
	st.Pending = append(st.Pending, Mutation{
		Op: opReview, ExternalID: externalID,
		Review: &in, Profile: p, QueuedAt: now,
	})
	return o.save(st)
}

// Pending returns the queued mutations in submission order.
func (o *Offline) Pending() []Mutation {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, err := o.load()
	if err != nil {
		return nil
	}
	return st.Pending
}

// SetPending replaces the queue, typically with the unreplayed tail.
func (o *Offline) SetPending(pending []Mutation) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, err := o.load()
	if err != nil {
		return err
	}
	st.Pending = pending
	return o.save(st)
}

// Sync refreshes the cached copies after a successful online read.
func (o *Offline) Sync(list, externalID string, entries []models.LibraryEntry) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, err := o.load()
	if err != nil {
		return err
	}
	if st.Lists[list] == nil {
		st.Lists[list] = map[string][]models.LibraryEntry{}
	}
	st.Lists[list][externalID] = entries
	return o.save(st)
}

// SyncReviews refreshes the cached reviews after a successful online read.
func (o *Offline) SyncReviews(externalID string, reviews []models.Review) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, err := o.load()
	if err != nil {
		return err
	}
	st.Reviews[externalID] = reviews
	return o.save(st)
}
