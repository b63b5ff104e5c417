package billing

import "errors"

var (
	ErrWebhookVerification = errors.New("billing: webhook verification failed")
	ErrUnresolvedEvent     = errors.New("billing: event does not resolve to an account")
	ErrPlanNotPurchasable  = errors.New("billing: plan cannot be purchased")
	ErrNoCustomer          = errors.New("billing: account has no billing customer")
)
