package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Suraj182004/saaraansh/internal/api"
	"github.com/Suraj182004/saaraansh/internal/auth"
	"github.com/Suraj182004/saaraansh/internal/billing"
	"github.com/Suraj182004/saaraansh/internal/gcs"
	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/models"
	"github.com/Suraj182004/saaraansh/internal/pipeline"
	"github.com/Suraj182004/saaraansh/internal/summary"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
)

const (
	webhookSecret = "whsec_api_test"
	maxUpload     = 1024
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type fakeVerifier struct{}

func (fakeVerifier) VerifyToken(token string) (*auth.User, error) {
	id, ok := strings.CutPrefix(token, "tok_")
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &auth.User{ID: id, Email: id + "@example.com", EmailVerified: true}, nil
}

type fakeIngester struct {
	result *pipeline.Result
	err    error
	got    []pipeline.Upload
}

func (f *fakeIngester) Ingest(_ context.Context, up pipeline.Upload) (*pipeline.Result, error) {
	f.got = append(f.got, up)
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	res.SourceRef = up.SourceRef
	res.FileName = up.FileName
	return &res, nil
}

type fakeUploader struct {
	uploads int
	content []byte
}

func (f *fakeUploader) Upload(_ context.Context, ownerID, fileName string, r io.Reader) (string, error) {
	f.uploads++
	f.content, _ = io.ReadAll(r)
	return gcs.SourceRef("bucket", "uploads/"+ownerID+"/"+fileName), nil
}

func (f *fakeUploader) SignedUploadURL(ownerID string) (*gcs.SignedUpload, error) {
	object := "uploads/" + ownerID + "/signed.pdf"
	return &gcs.SignedUpload{URL: "https://storage.example/" + object, ObjectName: object, SourceRef: gcs.SourceRef("bucket", object)}, nil
}

type fakeCheckout struct {
	plan models.Plan
	err  error
}

func (f *fakeCheckout) StartCheckout(_ context.Context, acct *models.Account, plan models.Plan) (*billing.CheckoutSession, error) {
	f.plan = plan
	if f.err != nil {
		return nil, f.err
	}
	return &billing.CheckoutSession{ID: "cs_1", URL: "https://checkout.example/cs_1"}, nil
}

func (f *fakeCheckout) OpenPortal(_ context.Context, acct *models.Account) (string, error) {
	if acct.CustomerRef() == "" {
		return "", billing.ErrNoCustomer
	}
	return "https://portal.example/" + acct.CustomerRef(), nil
}

type testVerifier struct{}

func (testVerifier) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	return billing.VerifyWebhookSignature(payload, signature, webhookSecret)
}

type staticPrices struct{}

func (staticPrices) RetrieveSubscriptionPrice(context.Context, string) (string, error) {
	return "price_pro", nil
}

var testSources = api.SourcePolicy{Bucket: "bucket", UploadHosts: []string{"files.example"}}

type env struct {
	handler  http.Handler
	ledger   *ledger.Ledger
	store    *summary.MemoryStore
	ingester *fakeIngester
	uploader *fakeUploader
	checkout *fakeCheckout
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		ledger:   ledger.New(ledger.NewMemoryRepository()),
		store:    summary.NewMemoryStore(),
		ingester: &fakeIngester{result: &pipeline.Result{SummaryID: uuid.New(), Text: "# EXECUTIVE SUMMARY"}},
		uploader: &fakeUploader{},
		checkout: &fakeCheckout{},
	}
	reconciler := billing.NewReconciler(e.ledger, staticPrices{}, billing.NewPriceTable("price_basic", "price_pro"))

	handlers := &api.Handlers{
		Account:   api.NewAccountHandler(e.ledger),
		Summaries: api.NewSummaryHandler(e.ingester, e.store, e.uploader, nil, testSources, maxUpload),
		Uploads:   api.NewUploadHandler(e.uploader, maxUpload),
		Billing:   api.NewBillingHandler(e.checkout, testVerifier{}, reconciler),
	}
	e.handler = api.SetupRoutes(handlers,
		auth.NewMiddleware(fakeVerifier{}).RequireAuth,
		ledger.Middleware(e.ledger, nil),
		[]string{"http://localhost:3000"},
	)
	return e
}

func (e *env) do(t *testing.T, method, path, user string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if user != "" {
		req.Header.Set("Authorization", "Bearer tok_"+user)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func multipartBody(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	fw.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestRequiresAuthentication(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/api/v1/account", "/api/v1/summaries"} {
		rec := e.do(t, http.MethodGet, path, "", nil, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("invalid token status = %d, want 401", rec.Code)
	}
}

func TestErrorResponsesCarryTraceID(t *testing.T) {
	e := newEnv(t)

	for name, rec := range map[string]*httptest.ResponseRecorder{
		"auth":    e.do(t, http.MethodGet, "/api/v1/account", "", nil, ""),
		"handler": e.do(t, http.MethodGet, "/api/v1/summaries/not-a-uuid", "user_1", nil, ""),
		"source":  e.do(t, http.MethodPost, "/api/v1/summaries/ingest", "user_1", strings.NewReader(`{"url":"https://attacker.example/a.pdf"}`), "application/json"),
	} {
		if rec.Code < 400 {
			t.Errorf("%s: status = %d, want an error", name, rec.Code)
			continue
		}
		got := decode[map[string]string](t, rec)
		if got["traceId"] == "" || got["traceId"] != rec.Header().Get("X-Trace-Id") {
			t.Errorf("%s: traceId = %q, X-Trace-Id = %q", name, got["traceId"], rec.Header().Get("X-Trace-Id"))
		}
	}
}

func TestEmailHeldByAnotherAccountIsConflict(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	if _, err := e.ledger.EnsureAccount(ctx, "user_old", ledger.EmailProviderFunc(func(context.Context, string) (string, error) {
		return "user_1@example.com", nil
	})); err != nil {
		t.Fatalf("EnsureAccount() error = %v", err)
	}

	rec := e.do(t, http.MethodGet, "/api/v1/account", "user_1", nil, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", rec.Code, rec.Body)
	}
	if got := decode[map[string]string](t, rec); got["error"] != "email_in_use" || got["traceId"] == "" {
		t.Errorf("error body = %v", got)
	}
}

func TestGetAccountCreatesFreeAccount(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/api/v1/account", "user_1", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	got := decode[api.AccountResponse](t, rec)
	if got.Plan != "free" || got.CreditsLimit != 10 || got.Remaining != 10 || got.Unlimited {
		t.Errorf("account = %+v", got)
	}
	if got.Email != "user_1@example.com" || got.NextResetDate == nil {
		t.Errorf("account email/reset = %q/%v", got.Email, got.NextResetDate)
	}

	rec = e.do(t, http.MethodGet, "/api/v1/account/credits", "user_1", nil, "")
	if credits := decode[map[string]bool](t, rec); !credits["hasCredit"] {
		t.Errorf("hasCredit = false for a new account")
	}
}

func TestUploadRunsPipeline(t *testing.T) {
	e := newEnv(t)
	body, ct := multipartBody(t, "board-minutes.pdf", samplePDF)

	rec := e.do(t, http.MethodPost, "/api/v1/summaries", "user_1", body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if e.uploader.uploads != 1 || !bytes.Equal(e.uploader.content, samplePDF) {
		t.Fatalf("uploader got %d uploads", e.uploader.uploads)
	}
	if len(e.ingester.got) != 1 {
		t.Fatalf("ingester calls = %d, want 1", len(e.ingester.got))
	}
	up := e.ingester.got[0]
	if up.OwnerID != "user_1" || up.FileName != "board-minutes.pdf" || !strings.HasPrefix(up.SourceRef, "gs://bucket/") {
		t.Errorf("ingested upload = %+v", up)
	}
	if up.Emails == nil {
		t.Errorf("upload has no email provider")
	}
}

func TestUploadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    int
	}{
		{name: "not a pdf", content: []byte("hello, this is plain text"), want: http.StatusUnsupportedMediaType},
		{name: "too large", content: append(append([]byte{}, samplePDF...), bytes.Repeat([]byte("x"), maxUpload)...), want: http.StatusRequestEntityTooLarge},
		{name: "empty", content: nil, want: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			body, ct := multipartBody(t, "doc.pdf", tt.content)

			rec := e.do(t, http.MethodPost, "/api/v1/summaries", "user_1", body, ct)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
			if e.uploader.uploads != 0 || len(e.ingester.got) != 0 {
				t.Errorf("rejected file reached storage or the pipeline")
			}
		})
	}
}

func TestPipelineErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		kind error
		want int
		code string
	}{
		{pipeline.ErrCreditsExhausted, http.StatusPaymentRequired, "credits_exhausted"},
		{pipeline.ErrFetchFailed, http.StatusBadGateway, "fetch_failed"},
		{pipeline.ErrEmptyDocument, http.StatusUnprocessableEntity, "empty_document"},
		{pipeline.ErrNoExtractableText, http.StatusUnprocessableEntity, "no_extractable_text"},
		{pipeline.ErrSummarizationFailed, http.StatusServiceUnavailable, "summarization_failed"},
		{pipeline.ErrPersistenceFailed, http.StatusInternalServerError, "persistence_failed"},
		{pipeline.ErrAccountingFailed, http.StatusInternalServerError, "accounting_failed"},
		{ledger.ErrLedgerUnavailable, http.StatusInternalServerError, "ledger_unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			e := newEnv(t)
			e.ingester.err = &pipeline.StageError{
				Stage: "test", Kind: tt.kind, FileName: "scan.pdf", SourceRef: "https://files.example/scan.pdf",
				Err: errors.New("cause"),
			}

			rec := e.do(t, http.MethodPost, "/api/v1/summaries/ingest", "user_1",
				strings.NewReader(`{"url":"https://files.example/scan.pdf","name":"scan.pdf"}`), "application/json")
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			got := decode[api.ErrorResponse](t, rec)
			if got.Error != tt.code || got.FileName != "scan.pdf" || got.SourceRef == "" || got.Message == "" {
				t.Errorf("error body = %+v", got)
			}
			if got.TraceID == "" || got.TraceID != rec.Header().Get("X-Trace-Id") {
				t.Errorf("traceId = %q, X-Trace-Id = %q", got.TraceID, rec.Header().Get("X-Trace-Id"))
			}
		})
	}
}

func TestIngestNormalisesUploadResponse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantURL  string
		wantName string
		wantCode int
	}{
		{
			name:     "array with ufsUrl",
			body:     `[{"ufsUrl":"https://files.example/a.pdf","name":"a.pdf"}]`,
			wantURL:  "https://files.example/a.pdf",
			wantName: "a.pdf",
			wantCode: http.StatusCreated,
		},
		{
			name:     "object with fileUrl and default name",
			body:     `{"fileUrl":"https://files.example/b.pdf"}`,
			wantURL:  "https://files.example/b.pdf",
			wantName: "document.pdf",
			wantCode: http.StatusCreated,
		},
		{
			name:     "own gs object",
			body:     `{"url":"gs://bucket/uploads/user_1/x.pdf","fileName":"x.pdf"}`,
			wantURL:  "gs://bucket/uploads/user_1/x.pdf",
			wantName: "x.pdf",
			wantCode: http.StatusCreated,
		},
		{name: "another owner's object", body: `{"url":"gs://bucket/uploads/user_2/x.pdf"}`, wantCode: http.StatusBadRequest},
		{name: "own prefix in a foreign bucket", body: `{"url":"gs://elsewhere/uploads/user_1/x.pdf"}`, wantCode: http.StatusBadRequest},
		{name: "unlisted https host", body: `{"url":"https://attacker.example/x.pdf"}`, wantCode: http.StatusBadRequest},
		{name: "plain http", body: `{"url":"http://169.254.169.254/latest"}`, wantCode: http.StatusBadRequest},
		{name: "no url", body: `[{"name":"a.pdf"}]`, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			rec := e.do(t, http.MethodPost, "/api/v1/summaries/ingest", "user_1", strings.NewReader(tt.body), "application/json")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body)
			}
			if tt.wantCode != http.StatusCreated {
				if len(e.ingester.got) != 0 {
					t.Errorf("pipeline ran for a rejected source")
				}
				return
			}
			up := e.ingester.got[0]
			if up.SourceRef != tt.wantURL || up.FileName != tt.wantName {
				t.Errorf("upload = %q/%q, want %q/%q", up.SourceRef, up.FileName, tt.wantURL, tt.wantName)
			}
		})
	}
}

func TestSummariesAreOwnerScoped(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	var ids []uuid.UUID
	for _, name := range []string{"first", "second"} {
		id, err := e.store.Create(ctx, summary.NewSummary{OwnerID: "user_1", SourceRef: "gs://b/" + name, Text: name, DisplayName: name})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, id)
	}
	otherID, _ := e.store.Create(ctx, summary.NewSummary{OwnerID: "user_2", SourceRef: "gs://b/other", Text: "other"})

	rec := e.do(t, http.MethodGet, "/api/v1/summaries", "user_1", nil, "")
	list := decode[[]api.SummaryResponse](t, rec)
	if len(list) != 2 || list[0].ID != ids[0] || list[1].ID != ids[1] {
		t.Fatalf("list = %+v", list)
	}

	rec = e.do(t, http.MethodGet, "/api/v1/summaries?order=desc", "user_1", nil, "")
	list = decode[[]api.SummaryResponse](t, rec)
	if len(list) != 2 || list[0].ID != ids[1] {
		t.Errorf("descending list = %+v", list)
	}

	rec = e.do(t, http.MethodGet, "/api/v1/summaries/"+ids[0].String(), "user_1", nil, "")
	if rec.Code != http.StatusOK || decode[api.SummaryResponse](t, rec).Summary != "first" {
		t.Errorf("own summary status = %d", rec.Code)
	}

	foreign := e.do(t, http.MethodGet, "/api/v1/summaries/"+otherID.String(), "user_1", nil, "")
	missing := e.do(t, http.MethodGet, "/api/v1/summaries/"+uuid.NewString(), "user_1", nil, "")
	if foreign.Code != http.StatusNotFound || missing.Code != http.StatusNotFound {
		t.Fatalf("foreign = %d, missing = %d; want 404 for both", foreign.Code, missing.Code)
	}
	if foreign.Body.String() != missing.Body.String() {
		t.Errorf("foreign and missing responses differ: %s vs %s", foreign.Body, missing.Body)
	}
}

func TestSignedURL(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/uploads/signed-url", "user_1",
		strings.NewReader(`{"contentType":"application/pdf","length":512}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	got := decode[gcs.SignedUpload](t, rec)
	if !strings.HasPrefix(got.SourceRef, "gs://bucket/uploads/user_1/") || got.URL == "" {
		t.Errorf("signed upload = %+v", got)
	}

	for _, body := range []string{
		`{"contentType":"text/csv","length":512}`,
		`{"contentType":"application/pdf","length":0}`,
		`not json`,
	} {
		rec := e.do(t, http.MethodPost, "/api/v1/uploads/signed-url", "user_1", strings.NewReader(body), "application/json")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}

	rec = e.do(t, http.MethodPost, "/api/v1/uploads/signed-url", "user_1",
		strings.NewReader(`{"contentType":"application/pdf","length":4096}`), "application/json")
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized status = %d, want 413", rec.Code)
	}
}

func TestCheckoutValidatesPlan(t *testing.T) {
	e := newEnv(t)

	for _, body := range []string{`{"plan":"free"}`, `{"plan":"enterprise"}`, `{}`} {
		rec := e.do(t, http.MethodPost, "/api/v1/billing/checkout", "user_1", strings.NewReader(body), "application/json")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}

	rec := e.do(t, http.MethodPost, "/api/v1/billing/checkout", "user_1", strings.NewReader(`{"plan":"pro"}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	got := decode[map[string]string](t, rec)
	if got["url"] != "https://checkout.example/cs_1" || got["sessionId"] != "cs_1" || e.checkout.plan != models.PlanPro {
		t.Errorf("checkout = %v for plan %s", got, e.checkout.plan)
	}

	e.checkout.err = errors.New("stripe down")
	rec = e.do(t, http.MethodPost, "/api/v1/billing/checkout", "user_1", strings.NewReader(`{"plan":"basic"}`), "application/json")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("provider failure status = %d, want 502", rec.Code)
	}
}

func TestPortalRequiresCustomer(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/billing/portal", "user_1", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without a customer", rec.Code)
	}

	if err := e.ledger.BindBillingCustomerRef(context.Background(), "user_1", "cus_9"); err != nil {
		t.Fatalf("BindBillingCustomerRef() error = %v", err)
	}
	rec = e.do(t, http.MethodPost, "/api/v1/billing/portal", "user_1", nil, "")
	if got := decode[map[string]string](t, rec); rec.Code != http.StatusOK || got["url"] != "https://portal.example/cus_9" {
		t.Errorf("portal = %d %v", rec.Code, got)
	}
}

func signedWebhook(t *testing.T, e *env, payload string, secret string) *httptest.ResponseRecorder {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: []byte(payload), Secret: secret})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook", bytes.NewReader(sp.Payload))
	req.Header.Set("Stripe-Signature", sp.Header)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhookAppliesCheckout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.do(t, http.MethodGet, "/api/v1/account", "user_1", nil, "")
	if err := e.ledger.BindBillingCustomerRef(ctx, "user_1", "cus_1"); err != nil {
		t.Fatalf("BindBillingCustomerRef() error = %v", err)
	}

	payload := `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1","customer":"cus_1","subscription":"sub_1"}}}`
	rec := signedWebhook(t, e, payload, webhookSecret)
	if rec.Code != http.StatusOK || !decode[map[string]bool](t, rec)["received"] {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	acct, _ := e.ledger.GetAccount(ctx, "user_1")
	if acct.Plan != models.PlanPro || acct.SubscriptionStatus != models.SubscriptionActive || acct.SubscriptionRef() != "sub_1" {
		t.Errorf("account = %s/%s/%s", acct.Plan, acct.SubscriptionStatus, acct.SubscriptionRef())
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodGet, "/api/v1/account", "user_1", nil, "")
	_ = e.ledger.BindBillingCustomerRef(context.Background(), "user_1", "cus_1")

	payload := `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"customer":"cus_1","subscription":"sub_1"}}}`
	rec := signedWebhook(t, e, payload, "whsec_wrong")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if acct, _ := e.ledger.GetAccount(context.Background(), "user_1"); acct.Plan != models.PlanFree {
		t.Errorf("plan = %s after rejected webhook", acct.Plan)
	}
}

func TestWebhookAcknowledgesUnresolvedAndUnknownEvents(t *testing.T) {
	e := newEnv(t)

	for _, payload := range []string{
		`{"id":"evt_2","object":"event","type":"customer.subscription.deleted","data":{"object":{"id":"sub_unknown","customer":"cus_x"}}}`,
		`{"id":"evt_3","object":"event","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`,
	} {
		if rec := signedWebhook(t, e, payload, webhookSecret); rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 for %s", rec.Code, payload)
		}
	}
}

func TestHealthzAndCORS(t *testing.T) {
	e := newEnv(t)

	if rec := e.do(t, http.MethodGet, "/healthz", "", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/account", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
