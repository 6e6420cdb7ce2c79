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

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
	SetStripeCustomerID(ctx context.Context, userID uuid.UUID, customerID string) error
}

type profileRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProfileRepository(db database.PgxIface, log *zap.Logger) ProfileRepository {
	return &profileRepository{
		db:  db,
		log: log.With(zap.String("repository", "profile")),
	}
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	query := `
		SELECT id, user_id, display_name, avatar_url, stripe_customer_id, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var p entity.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.DisplayName,
		&p.AvatarURL,
		&p.StripeCustomerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find profile",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find profile for user %s: %w", userID.String(), err)
	}

	return &p, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, avatar_url = $3, updated_at = $4
		WHERE user_id = $1
	`

	result, err := r.db.Exec(ctx, query,
		profile.UserID,
		profile.DisplayName,
		profile.AvatarURL,
		profile.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update profile",
			zap.Error(err),
			zap.String("user_id", profile.UserID.String()),
		)
		return fmt.Errorf("update profile for user %s: %w", profile.UserID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SetStripeCustomerID upserts so that users created outside register still get a profile.
func (r *profileRepository) SetStripeCustomerID(ctx context.Context, userID uuid.UUID, customerID string) error {
	query := `
		INSERT INTO profiles (user_id, stripe_customer_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET stripe_customer_id = EXCLUDED.stripe_customer_id, updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query, userID, customerID)
	if err != nil {
		r.log.Error("Failed to store customer id",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("set customer id for user %s: %w", userID.String(), err)
	}

	return nil
}
