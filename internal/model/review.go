package model

import "time"

// Review is a client's rating of a service. CreatedAt is assigned by
// the server on insert and never updated afterwards.
type Review struct {
	ID        uint64    `json:"id"`
	ClientID  uint64    `json:"client"`
	ServiceID uint64    `json:"service"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"date"`
}

// ReviewStats aggregates the caller's visible reviews.
type ReviewStats struct {
	TotalReviews        int      `json:"total_reviews"`
	AvgRating           *float64 `json:"avg_rating"`
	FiveStarReviews     int      `json:"five_star_reviews"`
	OneStarReviews      int      `json:"one_star_reviews"`
	MostReviewedService *string  `json:"most_reviewed_service"`
}
