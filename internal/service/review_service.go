package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linchh/campus-carpool/internal/eligibility"
	"github.com/linchh/campus-carpool/internal/model"
)

type ReviewService struct {
	reviews  ReviewStore
	carpools CarpoolStore
	users    UserStore
}

func NewReviewService(reviews ReviewStore, carpools CarpoolStore, users UserStore) *ReviewService {
	return &ReviewService{reviews: reviews, carpools: carpools, users: users}
}

// Add rates the driver of an arrived carpool the critic rode in. The carpool
// reference comes in explicitly with the request; nothing is carried over
// from earlier requests.
func (s *ReviewService) Add(ctx context.Context, critic model.Principal, carpoolID uuid.UUID, score int, content string) (*model.Review, error) {
	if !critic.IsStudent() {
		return nil, ErrPermissionDenied
	}
	if err := validateReviewBody(score, content); err != nil {
		return nil, err
	}

	cp, err := s.carpools.GetByID(ctx, carpoolID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	already, err := s.reviews.Exists(ctx, critic.ID, carpoolID)
	if err != nil {
		return nil, err
	}
	if err := eligibility.CanReview(critic, *cp, already); err != nil {
		return nil, err
	}
	if cp.Driver == nil {
		// Arrived implies an assigned driver; guard against corrupt rows.
		return nil, fmt.Errorf("carpool %s arrived without a driver", cp.ID)
	}

	return s.reviews.Create(ctx, model.Review{
		CarpoolID: carpoolID,
		CriticID:  critic.ID,
		RateeID:   cp.Driver.ID,
		Score:     score,
		Content:   strings.TrimSpace(content),
	})
}

// Update edits the critic's own review and refreshes its timestamp.
func (s *ReviewService) Update(ctx context.Context, critic model.Principal, reviewID uuid.UUID, score int, content string) (*model.Review, error) {
	if err := validateReviewBody(score, content); err != nil {
		return nil, err
	}
	review, err := s.getOwned(ctx, critic, reviewID)
	if err != nil {
		return nil, err
	}
	return s.reviews.Update(ctx, review.ID, score, strings.TrimSpace(content))
}

func (s *ReviewService) Delete(ctx context.Context, critic model.Principal, reviewID uuid.UUID) error {
	review, err := s.getOwned(ctx, critic, reviewID)
	if err != nil {
		return err
	}
	return s.reviews.Delete(ctx, review.ID)
}

func (s *ReviewService) getOwned(ctx context.Context, critic model.Principal, reviewID uuid.UUID) (*model.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if review.CriticID != critic.ID {
		return nil, ErrPermissionDenied
	}
	return review, nil
}

// Drivers returns the driver directory with aggregate scores.
func (s *ReviewService) Drivers(ctx context.Context) ([]model.DriverSummary, error) {
	return s.users.ListDrivers(ctx)
}

type DriverReviews struct {
	Driver  model.Principal
	Score   *int
	Reviews []model.Review
}

// ForDriver returns a driver's reviews together with the aggregate score.
func (s *ReviewService) ForDriver(ctx context.Context, driverID uuid.UUID) (*DriverReviews, error) {
	driver, err := s.users.GetByID(ctx, driverID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !driver.IsDriver() {
		return nil, ErrNotFound
	}

	reviews, err := s.reviews.ListForDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	score, err := s.reviews.DriverScore(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return &DriverReviews{Driver: *driver, Score: score, Reviews: reviews}, nil
}

func validateReviewBody(score int, content string) error {
	if score < model.MinReviewScore || score > model.MaxReviewScore {
		return fmt.Errorf("%w: score must be between %d and %d",
			ErrInvalidInput, model.MinReviewScore, model.MaxReviewScore)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	return nil
}
