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

type VenueRepository interface {
	Create(ctx context.Context, venue *entity.Venue) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.VenueWithStats, error)
	FindByCategory(ctx context.Context, category entity.VenueCategory) ([]*entity.VenueWithStats, error)
	FindTrending(ctx context.Context, limit int) ([]*entity.VenueWithStats, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// the enum column is read as text so it scans straight into VenueCategory
const venueStatsSelect = `
	SELECT v.id, v.name, v.category::text, v.address, v.description,
	       v.latitude, v.longitude, v.image_url, v.is_hidden_gem,
	       v.submitted_by, v.traffic_count, v.created_at, v.updated_at,
	       COUNT(r.id), COALESCE(AVG(r.rating), 0)::float8
	FROM venues v
	LEFT JOIN reviews r ON r.venue_id = v.id
`

type venueRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVenueRepository(db database.PgxIface, log *zap.Logger) VenueRepository {
	return &venueRepository{
		db:  db,
		log: log.With(zap.String("repository", "venue")),
	}
}

func scanVenueWithStats(row pgx.Row) (*entity.VenueWithStats, error) {
	var v entity.VenueWithStats
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Category,
		&v.Address,
		&v.Description,
		&v.Latitude,
		&v.Longitude,
		&v.ImageURL,
		&v.IsHiddenGem,
		&v.SubmittedBy,
		&v.TrafficCount,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.ReviewCount,
		&v.AverageRating,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *venueRepository) Create(ctx context.Context, venue *entity.Venue) error {
	query := `
		INSERT INTO venues (id, name, category, address, description, latitude, longitude,
		                    image_url, is_hidden_gem, submitted_by, created_at, updated_at)
		VALUES ($1, $2, $3::text::venue_category, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		venue.ID,
		venue.Name,
		string(venue.Category),
		venue.Address,
		venue.Description,
		venue.Latitude,
		venue.Longitude,
		venue.ImageURL,
		venue.IsHiddenGem,
		venue.SubmittedBy,
		venue.CreatedAt,
		venue.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create venue",
			zap.Error(err),
			zap.String("name", venue.Name),
			zap.String("category", string(venue.Category)),
		)
		return fmt.Errorf("create venue %s: %w", venue.Name, err)
	}

	return nil
}

func (r *venueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.VenueWithStats, error) {
	query := venueStatsSelect + `WHERE v.id = $1 GROUP BY v.id`

	venue, err := scanVenueWithStats(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find venue by ID",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return nil, fmt.Errorf("find venue by ID %s: %w", id.String(), err)
	}

	return venue, nil
}

func (r *venueRepository) FindByCategory(ctx context.Context, category entity.VenueCategory) ([]*entity.VenueWithStats, error) {
	query := venueStatsSelect + `
		WHERE v.category = $1::text::venue_category
		GROUP BY v.id
		ORDER BY v.name
	`
	return r.list(ctx, "find venues by category "+string(category), query, string(category))
}

func (r *venueRepository) FindTrending(ctx context.Context, limit int) ([]*entity.VenueWithStats, error) {
	query := venueStatsSelect + `
		GROUP BY v.id
		ORDER BY v.traffic_count DESC, v.name
		LIMIT $1
	`
	return r.list(ctx, "find trending venues", query, limit)
}

func (r *venueRepository) list(ctx context.Context, op, query string, args ...any) ([]*entity.VenueWithStats, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list venues", zap.Error(err), zap.String("op", op))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	venues := []*entity.VenueWithStats{}
	for rows.Next() {
		venue, err := scanVenueWithStats(rows)
		if err != nil {
			r.log.Error("Failed to scan venue row", zap.Error(err))
			return nil, fmt.Errorf("scan venue row: %w", err)
		}
		venues = append(venues, venue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venue rows: %w", err)
	}

	return venues, nil
}

func (r *venueRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM venues WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check venue",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return false, fmt.Errorf("check venue %s: %w", id.String(), err)
	}
	return exists, nil
}
