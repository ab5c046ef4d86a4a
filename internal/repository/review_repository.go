package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linchh/campus-carpool/internal/model"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewSelect = `
	SELECT
		rv.id,
		rv.carpool_id,
		rv.critic_id,
		p.name AS critic_name,
		rv.ratee_id,
		rv.score,
		rv.content,
		rv.created_at AS time
	FROM reviews rv
	JOIN profiles p ON p.user_id = rv.critic_id
`

func (r *ReviewRepository) Create(ctx context.Context, review model.Review) (*model.Review, error) {
	var inserted struct{ ID uuid.UUID }
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO reviews (carpool_id, critic_id, ratee_id, score, content)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, review.CarpoolID, review.CriticID, review.RateeID, review.Score, review.Content).Scan(&inserted).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, inserted.ID)
}

func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Raw(reviewSelect+" WHERE rv.id = ? LIMIT 1", id).Scan(&review).Error; err != nil {
		return nil, err
	}
	if review.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &review, nil
}

// Update rewrites score and content and refreshes the timestamp.
func (r *ReviewRepository) Update(ctx context.Context, id uuid.UUID, score int, content string) (*model.Review, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE reviews
		SET score = ?, content = ?, created_at = NOW()
		WHERE id = ?
	`, score, content, id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM reviews WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReviewRepository) ListForDriver(ctx context.Context, driverID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).Raw(reviewSelect+`
		WHERE rv.ratee_id = ?
		ORDER BY rv.created_at DESC
	`, driverID).Scan(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Exists reports whether the critic already reviewed this carpool.
func (r *ReviewRepository) Exists(ctx context.Context, criticID, carpoolID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM reviews WHERE critic_id = ? AND carpool_id = ?
	`, criticID, carpoolID).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DriverScore recomputes the aggregate as the rounded mean over all reviews
// naming the driver as ratee. Nil when there are none.
func (r *ReviewRepository) DriverScore(ctx context.Context, driverID uuid.UUID) (*int, error) {
	var row struct {
		AvgScore    *float64
		ReviewCount int64
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT AVG(score) AS avg_score, COUNT(*) AS review_count
		FROM reviews
		WHERE ratee_id = ?
	`, driverID).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ReviewCount == 0 || row.AvgScore == nil {
		return nil, nil
	}
	score := model.RoundHalfUp(*row.AvgScore)
	return &score, nil
}
