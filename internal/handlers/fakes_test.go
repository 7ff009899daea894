package handlers

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SajidCurious/starflix/internal/models"
	"github.com/SajidCurious/starflix/internal/store"
)

// In-memory stands-ins for the Mongo stores, mirroring their contracts:
// atomic-enough for single-goroutine tests, same sentinel errors.

func postBody(s string) io.Reader { return strings.NewReader(s) }

type memUsers struct {
	byExternal map[string]*models.User
	created    int
}

func newMemUsers() *memUsers {
	return &memUsers{byExternal: map[string]*models.User{}}
}

func (m *memUsers) GetOrCreate(_ context.Context, externalID string, p store.Profile) (*models.User, error) {
	if p.Email == "" {
		p.Email = "unknown@starflix.local"
	}
	if p.Name == "" {
		p.Name = "User"
	}
	now := time.Now().UTC()
	if u, ok := m.byExternal[externalID]; ok {
		u.Email = p.Email
		u.Name = p.Name
		u.Avatar = p.Avatar
		u.UpdatedAt = now
		return u, nil
	}
	u := &models.User{
		ID:         primitive.NewObjectID(),
		ExternalID: externalID,
		Email:      p.Email,
		Name:       p.Name,
		Avatar:     p.Avatar,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.byExternal[externalID] = u
	m.created++
	return u, nil
}

func (m *memUsers) ByExternalID(_ context.Context, externalID string) (*models.User, error) {
	u, ok := m.byExternal[externalID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

type memLibrary struct {
	name    string
	entries map[primitive.ObjectID][]models.LibraryEntry
}

func newMemLibrary(name string) *memLibrary {
	return &memLibrary{name: name, entries: map[primitive.ObjectID][]models.LibraryEntry{}}
}

func (m *memLibrary) Name() string { return m.name }

func (m *memLibrary) List(_ context.Context, userID primitive.ObjectID) ([]models.LibraryEntry, error) {
	out := append([]models.LibraryEntry{}, m.entries[userID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out, nil
}

func (m *memLibrary) Add(_ context.Context, userID primitive.ObjectID, entry models.LibraryEntry) error {
	for _, e := range m.entries[userID] {
		if e.MovieID == entry.MovieID {
			return store.ErrDuplicate
		}
	}
	entry.AddedAt = time.Now().UTC()
	if entry.MediaType == "" {
		entry.MediaType = "movie"
	}
	m.entries[userID] = append(m.entries[userID], entry)
	return nil
}

func (m *memLibrary) Remove(_ context.Context, userID primitive.ObjectID, movieID int64) error {
	kept := m.entries[userID][:0]
	for _, e := range m.entries[userID] {
		if e.MovieID != movieID {
			kept = append(kept, e)
		}
	}
	m.entries[userID] = kept
	return nil
}

type memReviews struct {
	reviews []models.Review
}

func newMemReviews() *memReviews { return &memReviews{} }

func (m *memReviews) Create(_ context.Context, r *models.Review) error {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.CreatedAt = now
	r.UpdatedAt = now
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *memReviews) List(_ context.Context, userID primitive.ObjectID) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range m.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memReviews) Update(_ context.Context, userID, reviewID primitive.ObjectID, rating int, text string) (*models.Review, error) {
	for i := range m.reviews {
		if m.reviews[i].ID == reviewID && m.reviews[i].UserID == userID {
			m.reviews[i].Rating = rating
			m.reviews[i].ReviewText = text
			m.reviews[i].UpdatedAt = time.Now().UTC()
			r := m.reviews[i]
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memReviews) Delete(_ context.Context, userID, reviewID primitive.ObjectID) error {
	for i := range m.reviews {
		if m.reviews[i].ID == reviewID && m.reviews[i].UserID == userID {
			m.reviews = append(m.reviews[:i], m.reviews[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
