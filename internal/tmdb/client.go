package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is a thin wrapper over the TMDB REST API. It is an external
// collaborator: nothing here is cached or persisted, callers decide that.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
	GenreIDs     []int64 `json:"genre_ids,omitempty"`
	MediaType    string  `json:"media_type,omitempty"`
}

type PageResponse struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages,omitempty"`
	TotalResults int     `json:"total_results,omitempty"`
	Results      []Movie `json:"results"`
}

func New(apiKey, base string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.APIKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// SearchMovies queries TMDB movie search.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*PageResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	if page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	var out PageResponse
	if err := c.get(ctx, "/search/movie", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMovie fetches a single movie by its TMDB id.
func (c *Client) GetMovie(ctx context.Context, id int64) (*Movie, error) {
	var out Movie
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Trending fetches trending titles for a window of "day" or "week".
func (c *Client) Trending(ctx context.Context, window string, page int) (*PageResponse, error) {
	if window == "" {
		window = "day"
	}
	params := url.Values{}
	if page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	var out PageResponse
	if err := c.get(ctx, "/trending/all/"+window, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
