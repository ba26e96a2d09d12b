package entity

import "math"

const (
	// MinRating is the lowest accepted review rating.
	MinRating = 1
	// MaxRating is the highest accepted review rating.
	MaxRating = 5
)

// RatingSummary is the derived aggregate stored on a restaurant.
type RatingSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// ValidRating reports whether the rating is within the accepted range.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// SummarizeRatings folds ratings into a count and a mean rounded to two decimals.
func SummarizeRatings(ratings []int) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	mean := float64(sum) / float64(len(ratings))

	return RatingSummary{
		Count:   len(ratings),
		Average: math.Round(mean*100) / 100,
	}
}
