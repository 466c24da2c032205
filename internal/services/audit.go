package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"health-insurance-web/internal/gate"
	"health-insurance-web/internal/models"
)

const (
	DefaultEventLimit = 50
	MaxEventLimit     = 500
)

// AuthEventService keeps the auth_events audit table.
type AuthEventService struct {
	db *gorm.DB
}

func NewAuthEventService(db *gorm.DB) *AuthEventService {
	return &AuthEventService{db: db}
}

func (s *AuthEventService) Record(ctx context.Context, ev gate.Event) error {
	row := models.AuthEvent{
		ID:        uuid.NewString(),
		Role:      ev.Role,
		UID:       ev.UID,
		Email:     ev.Email,
		Kind:      ev.Kind,
		Reason:    ev.Reason.String(),
		CreatedAt: ev.At,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}
	return nil
}

// Recent returns the newest events first. limit is clamped to MaxEventLimit;
// zero or less means DefaultEventLimit.
func (s *AuthEventService) Recent(ctx context.Context, limit int) ([]models.AuthEvent, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	if limit > MaxEventLimit {
		limit = MaxEventLimit
	}

	var events []models.AuthEvent
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	return events, nil
}

// Handle is a session subscriber.
func (s *AuthEventService) Handle(ev gate.Event) {
	if err := s.Record(context.Background(), ev); err != nil {
		log.Error().Err(err).Str("kind", ev.Kind).Str("uid", ev.UID).Msg("auth event not recorded")
	}
}
