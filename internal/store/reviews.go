package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SajidCurious/starflix/internal/models"
)

type Reviews struct {
	c *mongo.Collection
}

func NewReviews(m *Mongo) *Reviews {
	return &Reviews{c: m.Collection("reviews")}
}

// Create inserts the review and fills in its generated id and timestamps.
// A user may review the same title more than once; the store deliberately
// does not enforce one review per (user, item).
func (s *Reviews) Create(ctx context.Context, r *models.Review) error {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.c.InsertOne(ctx, r)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		r.ID = id
	}
	return nil
}

// List returns the user's reviews, newest first.
func (s *Reviews) List(ctx context.Context, userID primitive.ObjectID) ([]models.Review, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Update rewrites the rating and text of a review the user owns. The filter
// carries both the review id and the owner, so touching another user's
// review reads as ErrNotFound whether or not the review exists.
func (s *Reviews) Update(ctx context.Context, userID, reviewID primitive.ObjectID, rating int, text string) (*models.Review, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"rating":      rating,
		"review_text": text,
		"updated_at":  time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var r models.Review
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": reviewID, "user_id": userID}, update, opts).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes a review the user owns; same ownership rule as Update.
func (s *Reviews) Delete(ctx context.Context, userID, reviewID primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": reviewID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// HasReviewed reports whether the user has at least one review for the item.
func (s *Reviews) HasReviewed(ctx context.Context, userID primitive.ObjectID, movieID int64) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := s.c.CountDocuments(ctx, bson.M{"user_id": userID, "movie_id": movieID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
