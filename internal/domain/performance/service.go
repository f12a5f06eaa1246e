package performance

import (
	"context"
	"strconv"
	"strings"
	"time"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) List(ctx context.Context) ([]Review, error) {
	return s.Store.List(ctx)
}

func (s *Service) Create(ctx context.Context, review Review) (Review, error) {
	review.Name = strings.TrimSpace(review.Name)
	if review.Name == "" {
		return Review{}, ErrNameRequired
	}
	if review.Rating < MinRating || review.Rating > MaxRating {
		return Review{}, ErrInvalidRating
	}
	review.ReviewDate = time.Date(review.ReviewDate.Year(), review.ReviewDate.Month(), review.ReviewDate.Day(), 0, 0, 0, 0, time.UTC)
	return s.Store.Create(ctx, review)
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	reviews, err := s.Store.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return buildSummary(reviews), nil
}

func buildSummary(reviews []Review) Summary {
	summary := Summary{
		Count:              len(reviews),
		RatingDistribution: map[string]int{},
	}
	total := 0
	for _, r := range reviews {
		summary.RatingDistribution[strconv.Itoa(r.Rating)]++
		total += r.Rating
	}
	if len(reviews) > 0 {
		summary.AverageRating = float64(total) / float64(len(reviews))
	}
	return summary
}
