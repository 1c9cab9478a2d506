package services

import (
	"context"
	"fmt"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

// Notifier is the SMS delivery collaborator contract.
type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

type SMSService struct {
	userRepo     domain.UserRepository
	notifier     Notifier
	entitlements EntitlementPolicy
}

func NewSMSService(userRepo domain.UserRepository, notifier Notifier, policy EntitlementPolicy) *SMSService {
	if policy == nil {
		policy = DefaultEntitlements
	}
	return &SMSService{
		userRepo:     userRepo,
		notifier:     notifier,
		entitlements: policy,
	}
}

// UpdatePhone stores the delivery number. SMS reminders are a pro
// capability, checked here at the boundary.
func (s *SMSService) UpdatePhone(ctx context.Context, userID, phone string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !s.entitlements(user.Tier).SMSReminders {
		return nil, domain.ErrProFeature
	}

	if err := user.SetPhone(phone); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("sms service: failed to store phone: %w", err)
	}

	return user, nil
}

func (s *SMSService) SendTest(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.entitlements(user.Tier).SMSReminders {
		return domain.ErrProFeature
	}

	if user.Phone == "" {
		return domain.ErrInvalidPhone
	}

	if err := s.notifier.Send(ctx, user.Phone, "This is a test message from Hydration Habit Ping! 💧"); err != nil {
		return fmt.Errorf("sms service: test send failed: %w", err)
	}

	return nil
}
