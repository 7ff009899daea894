package handlers

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SajidCurious/starflix/internal/httpx"
	"github.com/SajidCurious/starflix/internal/models"
	"github.com/SajidCurious/starflix/internal/store"
)

// The handlers depend on these narrow views of the store so tests can swap
// in in-memory fakes without a running database. Only the operations the
// routes call belong here; membership lookups like Contains and HasReviewed
// stay on the concrete stores.

type UserStore interface {
	GetOrCreate(ctx context.Context, externalID string, p store.Profile) (*models.User, error)
	ByExternalID(ctx context.Context, externalID string) (*models.User, error)
}

type LibraryStore interface {
	Name() string
	List(ctx context.Context, userID primitive.ObjectID) ([]models.LibraryEntry, error)
	Add(ctx context.Context, userID primitive.ObjectID, entry models.LibraryEntry) error
	Remove(ctx context.Context, userID primitive.ObjectID, movieID int64) error
}

type ReviewStore interface {
	Create(ctx context.Context, r *models.Review) error
	List(ctx context.Context, userID primitive.ObjectID) ([]models.Review, error)
	Update(ctx context.Context, userID, reviewID primitive.ObjectID, rating int, text string) (*models.Review, error)
	Delete(ctx context.Context, userID, reviewID primitive.ObjectID) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// serverError maps an unexpected failure to a 500. The underlying message
// leaks only outside production.
func serverError(w http.ResponseWriter, err error, prod bool) {
	msg := "Internal server error"
	if !prod {
		msg = err.Error()
	}
	httpx.Error(w, http.StatusInternalServerError, msg)
}
