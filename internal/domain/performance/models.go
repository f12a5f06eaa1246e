package performance

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	Rating     int       `json:"performance_rating"`
	Attendance string    `json:"attendance"`
	ReviewDate time.Time `json:"review_date"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateInput struct {
	Name       string `json:"name" validate:"required,max=200"`
	Role       string `json:"role" validate:"max=200"`
	Department string `json:"department" validate:"max=200"`
	Rating     int    `json:"performance_rating" validate:"required,min=1,max=5"`
	Attendance string `json:"attendance" validate:"max=200"`
	ReviewDate string `json:"review_date" validate:"required"`
}

type Summary struct {
	Count              int            `json:"count"`
	AverageRating      float64        `json:"averageRating"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
}
