package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SajidCurious/starflix/internal/models"
	"github.com/SajidCurious/starflix/internal/store"
)

func reviewRouter(users *memUsers, reviews *memReviews) *chi.Mux {
	h := NewReviewHandler(users, reviews, nil, false)
	r := chi.NewRouter()
	r.Route("/api/reviews", h.Routes)
	return r
}

func reviewPayload(movieID int64, rating int, text string) string {
	return fmt.Sprintf(
		`{"item": {"movieId": %d, "movieTitle": "Inception", "rating": %d, "reviewText": %q}}`,
		movieID, rating, text)
}

func TestReviewCreateRatingBoundaries(t *testing.T) {
	cases := []struct {
		rating int
		want   int
	}{
		{0, http.StatusBadRequest},
		{1, http.StatusOK},
		{5, http.StatusOK},
		{6, http.StatusBadRequest},
	}
	for _, tc := range cases {
		router := reviewRouter(newMemUsers(), newMemReviews())
		w := postJSON(t, router, "/api/reviews/abc", reviewPayload(42, tc.rating, "great"))
		assert.Equalf(t, tc.want, w.Code, "rating %d", tc.rating)
	}
}

func TestReviewCreateRejectsEmptyText(t *testing.T) {
	router := reviewRouter(newMemUsers(), newMemReviews())
	w := postJSON(t, router, "/api/reviews/abc", reviewPayload(42, 3, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewCreateAndList(t *testing.T) {
	users := newMemUsers()
	reviews := newMemReviews()
	router := reviewRouter(users, reviews)

	w := postJSON(t, router, "/api/reviews/abc", reviewPayload(42, 4, "solid"))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	review := body["review"].(map[string]any)
	assert.Equal(t, float64(42), review["movieId"])
	assert.NotEmpty(t, review["id"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reviews/abc", nil))
	body = decodeBody(t, w)
	assert.Len(t, body["reviews"], 1)
}

func TestReviewListUnknownUserIsEmpty(t *testing.T) {
	router := reviewRouter(newMemUsers(), newMemReviews())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reviews/nobody", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, []any{}, body["reviews"])
}

func TestReviewUpdateByNonOwnerIs404(t *testing.T) {
	users := newMemUsers()
	reviews := newMemReviews()
	router := reviewRouter(users, reviews)

	owner, err := users.GetOrCreate(context.Background(), "owner", store.Profile{})
	require.NoError(t, err)
	_, err = users.GetOrCreate(context.Background(), "intruder", store.Profile{})
	require.NoError(t, err)

	review := &models.Review{UserID: owner.ID, MovieID: 42, Rating: 3, ReviewText: "mine"}
	require.NoError(t, reviews.Create(context.Background(), review))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut,
		"/api/reviews/intruder/"+review.ID.Hex(),
		postBody(`{"rating": 1, "reviewText": "vandalism"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The owner's review is untouched.
	got, err := reviews.Update(context.Background(), owner.ID, review.ID, 3, "mine")
	require.NoError(t, err)
	assert.Equal(t, "mine", got.ReviewText)
}

func TestReviewDeleteByNonOwnerIs404(t *testing.T) {
	users := newMemUsers()
	reviews := newMemReviews()
	router := reviewRouter(users, reviews)

	owner, err := users.GetOrCreate(context.Background(), "owner", store.Profile{})
	require.NoError(t, err)
	_, err = users.GetOrCreate(context.Background(), "intruder", store.Profile{})
	require.NoError(t, err)

	review := &models.Review{UserID: owner.ID, MovieID: 42, Rating: 3, ReviewText: "mine"}
	require.NoError(t, reviews.Create(context.Background(), review))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/reviews/intruder/"+review.ID.Hex(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	list, err := reviews.List(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReviewUpdateByOwner(t *testing.T) {
	users := newMemUsers()
	reviews := newMemReviews()
	router := reviewRouter(users, reviews)

	owner, err := users.GetOrCreate(context.Background(), "owner", store.Profile{})
	require.NoError(t, err)
	review := &models.Review{UserID: owner.ID, MovieID: 42, Rating: 3, ReviewText: "fine"}
	require.NoError(t, reviews.Create(context.Background(), review))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut,
		"/api/reviews/owner/"+review.ID.Hex(),
		postBody(`{"rating": 5, "reviewText": "rewatched, changed my mind"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	updated := body["review"].(map[string]any)
	assert.Equal(t, float64(5), updated["rating"])
}

func TestReviewDeleteUnknownIDIs404(t *testing.T) {
	users := newMemUsers()
	router := reviewRouter(users, newMemReviews())
	_, err := users.GetOrCreate(context.Background(), "abc", store.Profile{})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/reviews/abc/not-a-hex-id", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
