package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"whats-poppin/internal/data/entity"
	"whats-poppin/internal/data/repository"
	"whats-poppin/internal/dto/request"
	"whats-poppin/pkg/cache"
	"whats-poppin/pkg/queue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VisitMessage is the queued form of one venue visit.
type VisitMessage struct {
	ID        uuid.UUID `json:"id"`
	VenueID   uuid.UUID `json:"venue_id"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	VisitedAt time.Time `json:"visited_at"`
}

type VisitService interface {
	RecordVisit(ctx context.Context, venueID string, req *request.RecordVisitRequest) error
	// HandleMessage stores a queued visit; it matches queue.HandlerFunc.
	HandleMessage(ctx context.Context, body []byte) error
}

type visitService struct {
	repo      *repository.Repository
	publisher queue.Publisher
	cache     cache.Cache
	queueName string
	log       *zap.Logger
}

func NewVisitService(repo *repository.Repository, publisher queue.Publisher, c cache.Cache, queueName string, log *zap.Logger) VisitService {
	return &visitService{
		repo:      repo,
		publisher: publisher,
		cache:     c,
		queueName: queueName,
		log:       log.With(zap.String("service", "visit")),
	}
}

func (s *visitService) RecordVisit(ctx context.Context, venueID string, req *request.RecordVisitRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	id, err := uuid.Parse(venueID)
	if err != nil {
		return invalid("invalid venue ID format")
	}

	exists, err := s.repo.Venue.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check venue: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: venue %s", ErrNotFound, venueID)
	}

	msg := VisitMessage{
		ID:        uuid.New(),
		VenueID:   id,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		VisitedAt: time.Now().UTC(),
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, s.queueName, msg)
		if err == nil {
			return nil
		}
		s.log.Warn("Failed to publish visit, recording directly",
			zap.Error(err),
			zap.String("venue_id", venueID),
		)
	}

	return s.store(ctx, msg)
}

func (s *visitService) HandleMessage(ctx context.Context, body []byte) error {
	var msg VisitMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("decode visit message: %w", err)
	}
	if msg.VenueID == uuid.Nil {
		return errors.New("visit message without venue_id")
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.VisitedAt.IsZero() {
		msg.VisitedAt = time.Now().UTC()
	}
	return s.store(ctx, msg)
}

func (s *visitService) store(ctx context.Context, msg VisitMessage) error {
	category, err := s.repo.Visit.Record(ctx, &entity.VenueVisit{
		ID:            msg.ID,
		VenueID:       msg.VenueID,
		UserLatitude:  msg.Latitude,
		UserLongitude: msg.Longitude,
		VisitedAt:     msg.VisitedAt,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: venue %s", ErrNotFound, msg.VenueID)
	}
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}

	// category listings carry traffic_count
	key := categoryCacheKey(category)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("Venue cache invalidation failed", zap.Error(err), zap.String("key", key))
	}
	return nil
}
