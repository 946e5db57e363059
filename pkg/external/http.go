package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

const requestTimeout = 10 * time.Second

func postJSON(ctx context.Context, client *http.Client, url string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// HTTPDocumentGenerator calls the document-generation collaborator.
type HTTPDocumentGenerator struct {
	baseURL string
	client  *http.Client
}

func NewHTTPDocumentGenerator(baseURL string) *HTTPDocumentGenerator {
	return &HTTPDocumentGenerator{baseURL: baseURL, client: &http.Client{Timeout: requestTimeout}}
}

func (g *HTTPDocumentGenerator) GenerateLease(ctx context.Context, t *models.Tenancy) (string, error) {
	req := map[string]interface{}{
		"tenancy_id":       t.ID,
		"property_id":      t.PropertyID,
		"landlord_id":      t.LandlordID,
		"tenant_id":        t.TenantID,
		"monthly_rent":     t.MonthlyRent,
		"security_deposit": t.SecurityDeposit,
		"start_date":       t.StartDate,
		"end_date":         t.EndDate,
		"custom_clauses":   t.CustomClauses,
	}
	var resp struct {
		DocumentPath string `json:"document_path"`
	}
	if err := postJSON(ctx, g.client, g.baseURL+"/generate", req, &resp); err != nil {
		return "", fmt.Errorf("document generation failed: %w", err)
	}
	if resp.DocumentPath == "" {
		return "", fmt.Errorf("document generation returned empty path")
	}
	return resp.DocumentPath, nil
}

// HTTPPaymentGateway calls the payment collaborator's checkout API.
type HTTPPaymentGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPPaymentGateway(baseURL string) *HTTPPaymentGateway {
	return &HTTPPaymentGateway{baseURL: baseURL, client: &http.Client{Timeout: requestTimeout}}
}

func (g *HTTPPaymentGateway) CreateCheckout(ctx context.Context, tenancyID, reference string, amountCents int64) (string, error) {
	req := map[string]interface{}{
		"tenancy_id":   tenancyID,
		"reference":    reference,
		"amount_cents": amountCents,
	}
	var resp struct {
		CheckoutURL string `json:"checkout_url"`
	}
	if err := postJSON(ctx, g.client, g.baseURL+"/checkouts", req, &resp); err != nil {
		return "", fmt.Errorf("payment checkout failed: %w", err)
	}
	return resp.CheckoutURL, nil
}

// HTTPCreditChecker starts an async credit check; the result comes back
// on our credit-check webhook.
type HTTPCreditChecker struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCreditChecker(baseURL string) *HTTPCreditChecker {
	return &HTTPCreditChecker{baseURL: baseURL, client: &http.Client{Timeout: requestTimeout}}
}

func (c *HTTPCreditChecker) Request(ctx context.Context, applicationID, tenantID string) error {
	req := map[string]interface{}{
		"application_id": applicationID,
		"tenant_id":      tenantID,
	}
	if err := postJSON(ctx, c.client, c.baseURL+"/checks", req, nil); err != nil {
		return fmt.Errorf("credit check request failed: %w", err)
	}
	return nil
}

// HTTPNotifier dispatches notifications to the notification
// collaborator.
type HTTPNotifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{baseURL: baseURL, client: &http.Client{Timeout: requestTimeout}}
}

func (n *HTTPNotifier) Send(ctx context.Context, recipientID, event string, payload map[string]interface{}) error {
	req := map[string]interface{}{
		"recipient_id": recipientID,
		"event":        event,
		"payload":      payload,
	}
	if err := postJSON(ctx, n.client, n.baseURL+"/notifications", req, nil); err != nil {
		return fmt.Errorf("notification dispatch failed: %w", err)
	}
	return nil
}

// ================= log-only fallbacks =================

// LogCollaborators is the development stand-in used when no collaborator
// URLs are configured: every call is logged and succeeds.
type LogCollaborators struct {
	Log *slog.Logger
}

func NewLogCollaborators(log *slog.Logger) *LogCollaborators {
	return &LogCollaborators{Log: log}
}

func (l *LogCollaborators) GenerateLease(ctx context.Context, t *models.Tenancy) (string, error) {
	path := fmt.Sprintf("leases/%s.pdf", t.ID)
	l.Log.InfoContext(ctx, "stub document generation", "tenancy", t.ID, "path", path)
	return path, nil
}

func (l *LogCollaborators) CreateCheckout(ctx context.Context, tenancyID, reference string, amountCents int64) (string, error) {
	l.Log.InfoContext(ctx, "stub payment checkout", "tenancy", tenancyID, "reference", reference, "amount_cents", amountCents)
	return "https://pay.example.test/checkout/" + reference, nil
}

func (l *LogCollaborators) Request(ctx context.Context, applicationID, tenantID string) error {
	l.Log.InfoContext(ctx, "stub credit check", "application", applicationID, "tenant", tenantID)
	return nil
}

func (l *LogCollaborators) Send(ctx context.Context, recipientID, event string, payload map[string]interface{}) error {
	l.Log.InfoContext(ctx, "stub notification", "recipient", recipientID, "event", event)
	return nil
}
