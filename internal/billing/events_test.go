package billing_test

import (
	"errors"
	"testing"

	"github.com/Suraj182004/saaraansh/internal/billing"
	"github.com/stripe/stripe-go/v84/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func signed(t *testing.T, payload string) (body []byte, header string) {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  testWebhookSecret,
	})
	return sp.Payload, sp.Header
}

func TestVerifyWebhookSignatureRejectsTampering(t *testing.T) {
	body, header := signed(t, `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)

	if _, err := billing.VerifyWebhookSignature(body, header, testWebhookSecret); err != nil {
		t.Fatalf("VerifyWebhookSignature() error = %v", err)
	}

	tampered := append([]byte{}, body...)
	tampered[len(tampered)-2] = ' '
	if _, err := billing.VerifyWebhookSignature(tampered, header, testWebhookSecret); !errors.Is(err, billing.ErrWebhookVerification) {
		t.Errorf("tampered payload error = %v, want ErrWebhookVerification", err)
	}
	if _, err := billing.VerifyWebhookSignature(body, header, "whsec_other"); !errors.Is(err, billing.ErrWebhookVerification) {
		t.Errorf("wrong secret error = %v, want ErrWebhookVerification", err)
	}
	if _, err := billing.VerifyWebhookSignature(body, "", testWebhookSecret); !errors.Is(err, billing.ErrWebhookVerification) {
		t.Errorf("missing header error = %v, want ErrWebhookVerification", err)
	}
}

func TestEventFromStripe(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    billing.Event
		handled bool
	}{
		{
			name: "checkout completed prefers customer details email",
			payload: `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{
				"id":"cs_1","customer":"cus_1","subscription":"sub_1","customer_email":"old@example.com",
				"customer_details":{"email":"buyer@example.com"}}}}`,
			want: billing.Event{
				ID: "evt_1", Type: billing.EventCheckoutCompleted,
				CustomerRef: "cus_1", SubscriptionRef: "sub_1", Email: "buyer@example.com",
			},
			handled: true,
		},
		{
			name: "subscription updated carries price and status",
			payload: `{"id":"evt_2","object":"event","type":"customer.subscription.updated","data":{"object":{
				"id":"sub_1","customer":"cus_1","status":"past_due","items":{"data":[{"price":{"id":"price_pro"}}]}}}}`,
			want: billing.Event{
				ID: "evt_2", Type: billing.EventSubscriptionUpdated,
				CustomerRef: "cus_1", SubscriptionRef: "sub_1", PriceRef: "price_pro", Status: "past_due",
			},
			handled: true,
		},
		{
			name: "subscription deleted",
			payload: `{"id":"evt_3","object":"event","type":"customer.subscription.deleted","data":{"object":{
				"id":"sub_1","customer":"cus_1","status":"canceled","items":{"data":[]}}}}`,
			want: billing.Event{
				ID: "evt_3", Type: billing.EventSubscriptionDeleted,
				CustomerRef: "cus_1", SubscriptionRef: "sub_1", Status: "canceled",
			},
			handled: true,
		},
		{
			name:    "unhandled type",
			payload: `{"id":"evt_4","object":"event","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`,
			handled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, header := signed(t, tt.payload)
			stripeEvent, err := billing.VerifyWebhookSignature(body, header, testWebhookSecret)
			if err != nil {
				t.Fatalf("VerifyWebhookSignature() error = %v", err)
			}

			got, handled, err := billing.EventFromStripe(stripeEvent)
			if err != nil {
				t.Fatalf("EventFromStripe() error = %v", err)
			}
			if handled != tt.handled {
				t.Fatalf("handled = %v, want %v", handled, tt.handled)
			}
			if handled && got != tt.want {
				t.Errorf("EventFromStripe() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
