package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SajidCurious/starflix/internal/models"
)

// Library is one user-owned list of catalog items. Favourites and watchlist
// are two instances of this store over different collections; the contract
// is identical.
type Library struct {
	c    *mongo.Collection
	name string
}

func NewLibrary(m *Mongo, name string) *Library {
	return &Library{c: m.Collection(name), name: name}
}

// Name returns the list name ("favourites" or "watchlist").
func (s *Library) Name() string { return s.name }

// List returns the user's entries, newest first. A user or list that does
// not exist yet reads as an empty list, never an error.
func (s *Library) List(ctx context.Context, userID primitive.ObjectID) ([]models.LibraryEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc models.LibraryDoc
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.LibraryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	entries := doc.Movies
	if entries == nil {
		entries = []models.LibraryEntry{}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})
	return entries, nil
}

// Add appends the entry unless an entry with the same catalog id is already
// present, in which case it returns ErrDuplicate. Membership is enforced by
// a guarded $push on the array, not by loading and saving the document, so
// concurrent adds for the same user cannot lose updates.
func (s *Library) Add(ctx context.Context, userID primitive.ObjectID, entry models.LibraryEntry) error {
	now := time.Now().UTC()
	entry.AddedAt = now
	if entry.MediaType == "" {
		entry.MediaType = "movie"
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	// Make sure the list document exists. The unique index on user_id keeps
	// concurrent upserts from creating two documents.
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": bson.M{
			"user_id":    userID,
			"movies":     []models.LibraryEntry{},
			"updated_at": now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "movies.movie_id": bson.M{"$ne": entry.MovieID}},
		bson.M{
			"$push": bson.M{"movies": entry},
			"$set":  bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrDuplicate
	}
	return nil
}

// Remove pulls the entry by catalog id. Removing an item that is not in the
// list is a silent success.
func (s *Library) Remove(ctx context.Context, userID primitive.ObjectID, movieID int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$pull": bson.M{"movies": bson.M{"movie_id": movieID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

// Contains reports whether the item is in the user's list.
func (s *Library) Contains(ctx context.Context, userID primitive.ObjectID, movieID int64) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := s.c.CountDocuments(ctx, bson.M{"user_id": userID, "movies.movie_id": movieID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
