package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the internal record behind an identity-provider account. The
// external id issued by the provider is the natural key; the Mongo _id is
// what library and review documents reference.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExternalID string             `bson:"external_id" json:"externalId"`
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name" json:"name"`
	Avatar     string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// LibraryEntry is a catalog item denormalized into a user's favourites or
// watchlist. Field names mirror the TMDB payload so the frontend can render
// entries without a second lookup.
type LibraryEntry struct {
	MovieID      int64     `bson:"movie_id" json:"id"`
	Title        string    `bson:"title,omitempty" json:"title,omitempty"`
	Name         string    `bson:"name,omitempty" json:"name,omitempty"`
	PosterPath   string    `bson:"poster_path,omitempty" json:"poster_path,omitempty"`
	BackdropPath string    `bson:"backdrop_path,omitempty" json:"backdrop_path,omitempty"`
	ReleaseDate  string    `bson:"release_date,omitempty" json:"release_date,omitempty"`
	FirstAirDate string    `bson:"first_air_date,omitempty" json:"first_air_date,omitempty"`
	VoteAverage  float64   `bson:"vote_average,omitempty" json:"vote_average,omitempty"`
	Overview     string    `bson:"overview,omitempty" json:"overview,omitempty"`
	GenreIDs     []int64   `bson:"genre_ids,omitempty" json:"genre_ids,omitempty"`
	MediaType    string    `bson:"media_type" json:"media_type"`
	AddedAt      time.Time `bson:"added_at" json:"addedAt"`
}

// DisplayTitle prefers the movie title and falls back to the TV name.
func (e LibraryEntry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Name
}

// LibraryDoc is the per-user document backing one list. All entries live in
// the embedded array so membership can be enforced with guarded array
// updates instead of read-modify-write.
type LibraryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Movies    []LibraryEntry     `bson:"movies"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"-"`
	MovieID     int64              `bson:"movie_id" json:"movieId"`
	MovieTitle  string             `bson:"movie_title,omitempty" json:"movieTitle,omitempty"`
	MoviePoster string             `bson:"movie_poster,omitempty" json:"moviePoster,omitempty"`
	Rating      int                `bson:"rating" json:"rating"`
	ReviewText  string             `bson:"review_text" json:"reviewText"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
