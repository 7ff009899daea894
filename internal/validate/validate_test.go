package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ratingT struct {
	Rating int    `validate:"required,gte=1,lte=5"`
	Text   string `validate:"required"`
}

func TestMapValidStruct(t *testing.T) {
	assert.Nil(t, Map(ratingT{Rating: 3, Text: "fine"}))
}

func TestMapReportsFieldErrors(t *testing.T) {
	errs := Map(ratingT{Rating: 6})
	assert.Equal(t, "must be <= 5", errs["rating"])
	assert.Equal(t, "is required", errs["text"])
}

func TestMapRatingBoundaries(t *testing.T) {
	assert.Nil(t, Map(ratingT{Rating: 1, Text: "t"}))
	assert.Nil(t, Map(ratingT{Rating: 5, Text: "t"}))
	assert.NotNil(t, Map(ratingT{Rating: 0, Text: "t"}))
	assert.NotNil(t, Map(ratingT{Rating: 6, Text: "t"}))
}

func TestFlatten(t *testing.T) {
	assert.Empty(t, Flatten(nil))
	out := Flatten(map[string]string{"rating": "must be >= 1"})
	assert.Equal(t, "rating must be >= 1", out)
}
