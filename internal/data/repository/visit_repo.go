package repository

import (
	"context"
	"errors"
	"fmt"

	"whats-poppin/internal/data/entity"
	"whats-poppin/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VisitRepository interface {
	// Record bumps the venue's traffic counter and stores the visit together,
	// returning the venue's category.
	Record(ctx context.Context, visit *entity.VenueVisit) (entity.VenueCategory, error)
}

type visitRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVisitRepository(db database.PgxIface, log *zap.Logger) VisitRepository {
	return &visitRepository{
		db:  db,
		log: log.With(zap.String("repository", "visit")),
	}
}

func (r *visitRepository) Record(ctx context.Context, visit *entity.VenueVisit) (entity.VenueCategory, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin record visit: %w", err)
	}
	defer tx.Rollback(ctx)

	// the counter goes first so a missing venue is reported before the
	// visit insert trips the foreign key
	var category string
	err = tx.QueryRow(ctx, `
		UPDATE venues SET traffic_count = traffic_count + 1
		WHERE id = $1
		RETURNING category::text
	`, visit.VenueID).Scan(&category)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("bump traffic for venue %s: %w", visit.VenueID.String(), err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO venue_visits (id, venue_id, user_latitude, user_longitude, visited_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		visit.ID,
		visit.VenueID,
		visit.UserLatitude,
		visit.UserLongitude,
		visit.VisitedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert visit",
			zap.Error(err),
			zap.String("venue_id", visit.VenueID.String()),
		)
		return "", fmt.Errorf("insert visit for venue %s: %w", visit.VenueID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit visit for venue %s: %w", visit.VenueID.String(), err)
	}

	return entity.VenueCategory(category), nil
}
