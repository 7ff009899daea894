package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SajidCurious/starflix/internal/models"
)

// Placeholders for profile fields the identity provider did not supply.
const (
	placeholderEmail = "unknown@starflix.local"
	placeholderName  = "User"
)

// Profile carries the fields the identity provider knows about a user.
type Profile struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type Users struct {
	c *mongo.Collection
}

func NewUsers(m *Mongo) *Users {
	return &Users{c: m.Collection("users")}
}

// GetOrCreate resolves an external identity to the internal user record,
// creating it on first sight. The whole operation is a single upsert, so
// concurrent first-time logins cannot create two records. Profile fields are
// refreshed on every call (last write from the identity provider wins).
func (s *Users) GetOrCreate(ctx context.Context, externalID string, p Profile) (*models.User, error) {
	if p.Email == "" {
		p.Email = placeholderEmail
	}
	if p.Name == "" {
		p.Name = placeholderName
	}
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"email":      p.Email,
			"name":       p.Name,
			"avatar":     p.Avatar,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"external_id": externalID,
			"created_at":  now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"external_id": externalID}, update, opts).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ByExternalID looks up a user without creating one.
func (s *Users) ByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var u models.User
	err := s.c.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
