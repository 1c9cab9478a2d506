package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

var (
	ErrCheckoutFailed = errors.New("failed to create checkout session")
	ErrWebhookInvalid = errors.New("webhook signature verification failed")
)

// Webhook event types the service reacts to. Anything else is
// acknowledged and ignored.
const (
	WebhookCheckoutCompleted   = "checkout.session.completed"
	WebhookSubscriptionUpdated = "customer.subscription.updated"
	WebhookSubscriptionDeleted = "customer.subscription.deleted"
)

type WebhookEvent struct {
	Type               string
	UserID             string
	CustomerID         string
	SubscriptionActive bool
}

// PaymentProvider is the billing collaborator contract. The Stripe
// adapter implements it; the core never touches billing state.
type PaymentProvider interface {
	EnsureCustomer(ctx context.Context, email, userID string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID, userID, priceID string) (string, error)
	ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error)
}

type BillingService struct {
	provider PaymentProvider
	userRepo domain.UserRepository
}

func NewBillingService(provider PaymentProvider, userRepo domain.UserRepository) *BillingService {
	return &BillingService{
		provider: provider,
		userRepo: userRepo,
	}
}

// CreateCheckoutSession returns the hosted checkout URL for upgrading
// the user to pro, creating the billing customer on first use.
func (s *BillingService) CreateCheckoutSession(ctx context.Context, userID, priceID string) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customerID, err = s.provider.EnsureCustomer(ctx, user.Email, user.ID)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
		}

		user.StripeCustomerID = customerID
		if err := s.userRepo.Update(ctx, user); err != nil {
			return "", fmt.Errorf("billing service: failed to store customer id: %w", err)
		}
	}

	url, err := s.provider.CreateCheckoutSession(ctx, customerID, user.ID, priceID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	return url, nil
}

// HandleWebhook verifies and applies a billing callback. Completed
// checkouts flip the user to pro, subscription updates track the
// subscription status, cancelled subscriptions flip back to free.
// Events for users we cannot find are acknowledged and dropped so the
// provider stops retrying them.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhookEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookInvalid, err)
	}

	switch event.Type {
	case WebhookCheckoutCompleted:
		user, err := s.userRepo.GetByID(ctx, event.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				log.Printf("Billing: ignoring %s for unknown user %q", event.Type, event.UserID)
				return nil
			}
			return err
		}
		user.Upgrade(event.CustomerID)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return fmt.Errorf("billing service: failed to upgrade user: %w", err)
		}
		log.Printf("Billing: user %s upgraded to pro", user.ID)

	case WebhookSubscriptionUpdated, WebhookSubscriptionDeleted:
		user, err := s.userRepo.GetByStripeCustomerID(ctx, event.CustomerID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				log.Printf("Billing: ignoring %s for unknown customer %q", event.Type, event.CustomerID)
				return nil
			}
			return err
		}

		active := event.Type == WebhookSubscriptionUpdated && event.SubscriptionActive
		if active {
			user.Upgrade(event.CustomerID)
		} else {
			user.Downgrade()
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return fmt.Errorf("billing service: failed to update user tier: %w", err)
		}
		log.Printf("Billing: user %s is now %s", user.ID, user.Tier)

	default:
		log.Printf("Billing: ignoring webhook event type %q", event.Type)
	}

	return nil
}
