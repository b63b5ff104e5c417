package models

import "time"

type Plan string

const (
	PlanFree  Plan = "free"
	PlanBasic Plan = "basic"
	PlanPro   Plan = "pro"
)

// SubscriptionStatus mirrors the billing provider's subscription status
// vocabulary. Values outside the constants below are stored verbatim.
type SubscriptionStatus string

const (
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionUnpaid   SubscriptionStatus = "unpaid"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

type Account struct {
	ID                     string             `json:"id"`
	Email                  string             `json:"email"`
	Plan                   Plan               `json:"plan"`
	CreditsUsed            int                `json:"credits_used"`
	CreditsLimit           int                `json:"credits_limit"`
	LastResetDate          *time.Time         `json:"last_reset_date,omitempty"`
	NextResetDate          *time.Time         `json:"next_reset_date,omitempty"`
	BillingCustomerRef     *string            `json:"billing_customer_ref,omitempty"`
	BillingSubscriptionRef *string            `json:"billing_subscription_ref,omitempty"`
	SubscriptionStatus     SubscriptionStatus `json:"subscription_status"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

func (a *Account) CustomerRef() string {
	if a.BillingCustomerRef == nil {
		return ""
	}
	return *a.BillingCustomerRef
}

func (a *Account) SubscriptionRef() string {
	if a.BillingSubscriptionRef == nil {
		return ""
	}
	return *a.BillingSubscriptionRef
}
