package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// RatingRepository handles persistence for ratings.
type RatingRepository struct {
	db *pgxpool.Pool
}

// NewRatingRepository constructs a RatingRepository.
func NewRatingRepository(db *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{db: db}
}

// Exists reports whether userID already rated eventID.
func (r *RatingRepository) Exists(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ratings WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check rating: %w", err)
	}
	return exists, nil
}

// Create inserts a rating. A concurrent duplicate surfaces as ErrAlreadyRated.
func (r *RatingRepository) Create(ctx context.Context, rating *model.Rating) (*model.Rating, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO ratings (user_id, event_id, score)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		rating.UserID, rating.EventID, rating.Score,
	).Scan(&rating.ID)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, ErrAlreadyRated
		}
		if isPgError(err, pgForeignKeyViolation) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("insert rating: %w", err)
	}
	return rating, nil
}

// List returns ratings, restricted to one event when eventID is non-zero.
func (r *RatingRepository) List(ctx context.Context, eventID int64) ([]model.Rating, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, event_id, score
		 FROM ratings
		 WHERE $1::bigint = 0 OR event_id = $1
		 ORDER BY id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	ratings := []model.Rating{}
	for rows.Next() {
		var rt model.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.EventID, &rt.Score); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}
