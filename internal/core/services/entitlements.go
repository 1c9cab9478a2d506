package services

import "github.com/hydroping/hydration-ping-engine/internal/core/domain"

// Entitlements is the capability set a subscription tier grants. The
// scheduling core never sees it; gating happens at this layer only.
type Entitlements struct {
	MaxActiveSchedules int
	SMSReminders       bool
}

// EntitlementPolicy maps a tier flag to its capabilities.
type EntitlementPolicy func(tier string) Entitlements

// DefaultEntitlements is the shipped free/pro split.
func DefaultEntitlements(tier string) Entitlements {
	if tier == domain.TierPro {
		return Entitlements{
			MaxActiveSchedules: 3,
			SMSReminders:       true,
		}
	}
	return Entitlements{
		MaxActiveSchedules: 1,
		SMSReminders:       false,
	}
}
