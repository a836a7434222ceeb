package domain

import (
	"github.com/google/uuid"
)

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is one user's score for a card. A card holds at most one Rating
// per user.
type Rating struct {
	UserID uuid.UUID `json:"user_id"`
	Value  int       `json:"value"`
}

// ValidateRatingValue rejects values outside [MinRating, MaxRating].
func ValidateRatingValue(value int) error {
	if value < MinRating || value > MaxRating {
		return NewValidationError("rating", "must be an integer between 1 and 5", nil)
	}
	return nil
}

// ApplyRating upserts userID's rating on c: an existing entry is
// overwritten, otherwise a new entry is appended.
func ApplyRating(c *Card, userID uuid.UUID, value int) error {
	if userID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", nil)
	}
	if err := ValidateRatingValue(value); err != nil {
		return err
	}

	for i := range c.Ratings {
		if c.Ratings[i].UserID == userID {
			c.Ratings[i].Value = value
			return nil
		}
	}
	c.Ratings = append(c.Ratings, Rating{UserID: userID, Value: value})
	return nil
}

// AverageRating is the arithmetic mean of every rating on c, or exactly 0
// when c has none.
func AverageRating(c *Card) float64 {
	if len(c.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range c.Ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(c.Ratings))
}

// RatingBy returns userID's rating on c, if any.
func RatingBy(c *Card, userID uuid.UUID) (int, bool) {
	for _, r := range c.Ratings {
		if r.UserID == userID {
			return r.Value, true
		}
	}
	return 0, false
}
