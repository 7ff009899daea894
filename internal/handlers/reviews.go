package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SajidCurious/starflix/internal/httpx"
	"github.com/SajidCurious/starflix/internal/models"
	"github.com/SajidCurious/starflix/internal/store"
	"github.com/SajidCurious/starflix/internal/validate"
)

type ReviewHandler struct {
	Users   UserStore
	Reviews ReviewStore
	Owner   func(http.Handler) http.Handler
	Prod    bool
}

func NewReviewHandler(users UserStore, reviews ReviewStore, owner func(http.Handler) http.Handler, prod bool) *ReviewHandler {
	return &ReviewHandler{Users: users, Reviews: reviews, Owner: owner, Prod: prod}
}

func (h *ReviewHandler) Routes(r chi.Router) {
	// Inline so the check runs after the route match, with externalId set.
	if h.Owner != nil {
		r = r.With(h.Owner)
	}
	r.Get("/{externalId}", h.list)
	r.Post("/{externalId}", h.create)
	r.Put("/{externalId}/{reviewId}", h.update)
	r.Delete("/{externalId}/{reviewId}", h.delete)
}

func (h *ReviewHandler) list(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalId")

	user, err := h.Users.ByExternalID(r.Context(), externalID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.OK(w, map[string]any{"reviews": []models.Review{}})
		return
	}
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}

	reviews, err := h.Reviews.List(r.Context(), user.ID)
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}
	httpx.OK(w, map[string]any{"reviews": reviews})
}

func (h *ReviewHandler) create(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalId")

	type itemT struct {
		MovieID     int64  `json:"movieId" validate:"required,gt=0"`
		MovieTitle  string `json:"movieTitle"`
		MoviePoster string `json:"moviePoster"`
		Rating      int    `json:"rating" validate:"required,gte=1,lte=5"`
		ReviewText  string `json:"reviewText" validate:"required"`
	}
	type bodyT struct {
		Item    itemT         `json:"item"`
		Profile store.Profile `json:"profile"`
	}
	var b bodyT
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Map(b.Item); errs != nil {
		httpx.Error(w, http.StatusBadRequest, validate.Flatten(errs))
		return
	}

	user, err := h.Users.GetOrCreate(r.Context(), externalID, b.Profile)
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}

	review := &models.Review{
		UserID:      user.ID,
		MovieID:     b.Item.MovieID,
		MovieTitle:  b.Item.MovieTitle,
		MoviePoster: b.Item.MoviePoster,
		Rating:      b.Item.Rating,
		ReviewText:  b.Item.ReviewText,
	}
	if err := h.Reviews.Create(r.Context(), review); err != nil {
		serverError(w, err, h.Prod)
		return
	}
	httpx.OK(w, map[string]any{"review": review})
}

func (h *ReviewHandler) update(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalId")

	user, err := h.Users.ByExternalID(r.Context(), externalID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}

	reviewID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewId"))
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Review not found")
		return
	}

	type bodyT struct {
		Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
		ReviewText string `json:"reviewText" validate:"required"`
	}
	var b bodyT
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Map(b); errs != nil {
		httpx.Error(w, http.StatusBadRequest, validate.Flatten(errs))
		return
	}

	review, err := h.Reviews.Update(r.Context(), user.ID, reviewID, b.Rating, b.ReviewText)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Review not found")
		return
	}
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}
	httpx.OK(w, map[string]any{"review": review})
}

func (h *ReviewHandler) delete(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalId")

	user, err := h.Users.ByExternalID(r.Context(), externalID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}

	reviewID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewId"))
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Review not found")
		return
	}

	err = h.Reviews.Delete(r.Context(), user.ID, reviewID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Review not found")
		return
	}
	if err != nil {
		serverError(w, err, h.Prod)
		return
	}
	httpx.OK(w, map[string]any{"message": "Review deleted"})
}
