package repository

import (
	"context"
	"errors"
	"fmt"

	"whats-poppin/internal/data/entity"
	"whats-poppin/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	FindByVenueID(ctx context.Context, venueID uuid.UUID) ([]*entity.Review, error)
	FindByUserAndVenue(ctx context.Context, userID, venueID uuid.UUID) (*entity.Review, error)
	// Upsert writes the user's single review for a venue, keeping the
	// existing row ID when one is already there.
	Upsert(ctx context.Context, review *entity.Review) (*entity.Review, error)
	Delete(ctx context.Context, userID, venueID uuid.UUID) error
	StatsByVenue(ctx context.Context, venueID uuid.UUID) (*entity.ReviewStats, error)
}

const reviewColumns = `id, venue_id, user_id, rating, comment, created_at, updated_at`

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.VenueID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByVenueID(ctx context.Context, venueID uuid.UUID) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE venue_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, venueID)
	if err != nil {
		r.log.Error("Failed to find reviews by venue",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
		)
		return nil, fmt.Errorf("find reviews by venue %s: %w", venueID.String(), err)
	}
	defer rows.Close()

	reviews := []*entity.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) FindByUserAndVenue(ctx context.Context, userID, venueID uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 AND venue_id = $2`

	review, err := scanReview(r.db.QueryRow(ctx, query, userID, venueID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and venue",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("venue_id", venueID.String()),
		)
		return nil, fmt.Errorf("find review for user %s venue %s: %w", userID.String(), venueID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) Upsert(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	query := `
		INSERT INTO reviews (id, venue_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT reviews_venue_user_key
		DO UPDATE SET rating = EXCLUDED.rating,
		              comment = EXCLUDED.comment,
		              updated_at = EXCLUDED.updated_at
		RETURNING ` + reviewColumns

	saved, err := scanReview(r.db.QueryRow(ctx, query,
		review.ID,
		review.VenueID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	))
	if err != nil {
		r.log.Error("Failed to upsert review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("venue_id", review.VenueID.String()),
		)
		return nil, fmt.Errorf("upsert review for venue %s: %w", review.VenueID.String(), err)
	}

	return saved, nil
}

func (r *reviewRepository) Delete(ctx context.Context, userID, venueID uuid.UUID) error {
	query := `DELETE FROM reviews WHERE user_id = $1 AND venue_id = $2`

	result, err := r.db.Exec(ctx, query, userID, venueID)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("venue_id", venueID.String()),
		)
		return fmt.Errorf("delete review for venue %s: %w", venueID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *reviewRepository) StatsByVenue(ctx context.Context, venueID uuid.UUID) (*entity.ReviewStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8
		FROM reviews
		WHERE venue_id = $1
	`

	var stats entity.ReviewStats
	err := r.db.QueryRow(ctx, query, venueID).Scan(&stats.ReviewCount, &stats.AverageRating)
	if err != nil {
		r.log.Error("Failed to get review stats",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
		)
		return nil, fmt.Errorf("review stats for venue %s: %w", venueID.String(), err)
	}

	return &stats, nil
}
