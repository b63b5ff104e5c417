package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AccountDB struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID                     string             `bun:"id,pk" json:"id"`
	Email                  string             `bun:"email,notnull,unique" json:"email"`
	Plan                   Plan               `bun:"plan,notnull,default:'free'" json:"plan"`
	CreditsUsed            int                `bun:"credits_used,notnull,default:0" json:"credits_used"`
	CreditsLimit           int                `bun:"credits_limit,notnull,default:10" json:"credits_limit"`
	LastResetDate          *time.Time         `bun:"last_reset_date" json:"last_reset_date"`
	NextResetDate          *time.Time         `bun:"next_reset_date" json:"next_reset_date"`
	BillingCustomerRef     *string            `bun:"billing_customer_ref,unique" json:"billing_customer_ref"`
	BillingSubscriptionRef *string            `bun:"billing_subscription_ref" json:"billing_subscription_ref"`
	SubscriptionStatus     SubscriptionStatus `bun:"subscription_status,notnull,default:'inactive'" json:"subscription_status"`
	CreatedAt              time.Time          `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt              time.Time          `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (a *AccountDB) ToAccount() *Account {
	return &Account{
		ID:                     a.ID,
		Email:                  a.Email,
		Plan:                   a.Plan,
		CreditsUsed:            a.CreditsUsed,
		CreditsLimit:           a.CreditsLimit,
		LastResetDate:          a.LastResetDate,
		NextResetDate:          a.NextResetDate,
		BillingCustomerRef:     a.BillingCustomerRef,
		BillingSubscriptionRef: a.BillingSubscriptionRef,
		SubscriptionStatus:     a.SubscriptionStatus,
		CreatedAt:              a.CreatedAt,
		UpdatedAt:              a.UpdatedAt,
	}
}

func AccountFromDomain(a *Account) *AccountDB {
	return &AccountDB{
		ID:                     a.ID,
		Email:                  a.Email,
		Plan:                   a.Plan,
		CreditsUsed:            a.CreditsUsed,
		CreditsLimit:           a.CreditsLimit,
		LastResetDate:          a.LastResetDate,
		NextResetDate:          a.NextResetDate,
		BillingCustomerRef:     a.BillingCustomerRef,
		BillingSubscriptionRef: a.BillingSubscriptionRef,
		SubscriptionStatus:     a.SubscriptionStatus,
		CreatedAt:              a.CreatedAt,
		UpdatedAt:              a.UpdatedAt,
	}
}

type SummaryDB struct {
	bun.BaseModel `bun:"table:summaries,alias:s"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OwnerID     string     `bun:"owner_id,notnull" json:"owner_id"`
	Owner       *AccountDB `bun:"rel:belongs-to,join:owner_id=id"`
	SourceRef   string     `bun:"source_ref,notnull" json:"source_ref"`
	Text        string     `bun:"summary_text,notnull" json:"summary_text"`
	DisplayName string     `bun:"display_name,notnull" json:"display_name"`
	FileName    string     `bun:"file_name" json:"file_name"`
	Status      string     `bun:"status,notnull,default:'completed'" json:"status"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (s *SummaryDB) ToSummary() *Summary {
	return &Summary{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		SourceRef:   s.SourceRef,
		Text:        s.Text,
		DisplayName: s.DisplayName,
		FileName:    s.FileName,
		CreatedAt:   s.CreatedAt,
	}
}

func SummaryFromDomain(s *Summary) *SummaryDB {
	return &SummaryDB{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		SourceRef:   s.SourceRef,
		Text:        s.Text,
		DisplayName: s.DisplayName,
		FileName:    s.FileName,
		Status:      "completed",
		CreatedAt:   s.CreatedAt,
	}
}
