package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SajidCurious/starflix/internal/cache"
	"github.com/SajidCurious/starflix/internal/httpx"
	"github.com/SajidCurious/starflix/internal/tmdb"
	"github.com/SajidCurious/starflix/internal/validate"
)

// CatalogHandler proxies the movie-metadata API for the browsing UI so the
// TMDB key stays server-side. Responses are cached briefly; the catalog is
// read-only reference data.
type CatalogHandler struct {
	TMDB  *tmdb.Client
	Cache *cache.TTLCache[string, []byte]
}

func NewCatalogHandler(t *tmdb.Client) *CatalogHandler {
	return &CatalogHandler{TMDB: t, Cache: cache.NewTTL[string, []byte](60 * time.Second)}
}

func (h *CatalogHandler) available(w http.ResponseWriter) bool {
	if h.TMDB == nil {
		httpx.Error(w, http.StatusServiceUnavailable, "catalog unavailable")
		return false
	}
	return true
}

func (h *CatalogHandler) writeCached(w http.ResponseWriter, key string) bool {
	if b, ok := h.Cache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=60")
		_, _ = w.Write(b)
		return true
	}
	return false
}

func (h *CatalogHandler) writeAndCache(w http.ResponseWriter, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "encoding failed")
		return
	}
	h.Cache.Set(key, b)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	_, _ = w.Write(b)
}

// Search handles GET /api/search/movies?q=&page=.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		httpx.Error(w, http.StatusBadRequest, "q is required")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	key := "search:" + r.URL.RawQuery
	if h.writeCached(w, key) {
		return
	}
	res, err := h.TMDB.SearchMovies(r.Context(), q, page)
	if err != nil {
		httpx.Error(w, http.StatusBadGateway, err.Error())
		return
	}
	h.writeAndCache(w, key, res)
}

// Movie handles GET /api/movies/{id}.
func (h *CatalogHandler) Movie(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	key := "movie:" + chi.URLParam(r, "id")
	if h.writeCached(w, key) {
		return
	}
	mv, err := h.TMDB.GetMovie(r.Context(), id)
	if err != nil {
		httpx.Error(w, http.StatusBadGateway, err.Error())
		return
	}
	h.writeAndCache(w, key, mv)
}

// Trending handles GET /api/trending?window=day|week&page=.
func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	type qT struct {
		Window string `validate:"omitempty,oneof=day week"`
		Page   int    `validate:"omitempty,gte=1,lte=1000"`
	}
	q := qT{Window: r.URL.Query().Get("window")}
	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			q.Page = n
		}
	}
	if errs := validate.Map(q); errs != nil {
		httpx.Error(w, http.StatusBadRequest, validate.Flatten(errs))
		return
	}

	key := "trending:" + r.URL.RawQuery
	if h.writeCached(w, key) {
		return
	}
	res, err := h.TMDB.Trending(r.Context(), q.Window, q.Page)
	if err != nil {
		httpx.Error(w, http.StatusBadGateway, err.Error())
		return
	}
	h.writeAndCache(w, key, res)
}
