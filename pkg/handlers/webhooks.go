package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/config"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/workflow"
)

// WebhookHandler receives callbacks from the payment gateway and the
// credit checker. Both are authenticated by an HMAC-SHA256 signature
// over the raw body.
type WebhookHandler struct {
	cfg          *config.Config
	gate         *workflow.ApplicationGate
	orchestrator *workflow.LeaseOrchestrator
	log          *slog.Logger
}

func NewWebhookHandler(cfg *config.Config, gate *workflow.ApplicationGate, orchestrator *workflow.LeaseOrchestrator, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, gate: gate, orchestrator: orchestrator, log: log}
}

type paymentWebhookPayload struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

type creditWebhookPayload struct {
	ApplicationID string `json:"application_id"`
	Passed        bool   `json:"passed"`
}

// Payment marks the referenced payment as paid. Replays are absorbed.
func (h *WebhookHandler) Payment(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readSigned(w, r, h.cfg.PaymentWebhookSecret)
	if !ok {
		return
	}
	var payload paymentWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Reference == "" {
		utils.WriteBadRequestResponse(w, "Invalid payload")
		return
	}
	if payload.Status != "paid" {
		h.log.Info("ignoring payment webhook", "reference", payload.Reference, "status", payload.Status)
		utils.WriteSuccessResponse(w, map[string]string{"status": "ignored"})
		return
	}
	if err := h.orchestrator.HandlePaymentPaid(r.Context(), payload.Reference); err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"status": "processed"})
}

// CreditCheck applies the checker's verdict to the application.
func (h *WebhookHandler) CreditCheck(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readSigned(w, r, h.cfg.CreditWebhookSecret)
	if !ok {
		return
	}
	var payload creditWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.ApplicationID == "" {
		utils.WriteBadRequestResponse(w, "Invalid payload")
		return
	}
	if err := h.gate.HandleCreditResult(r.Context(), payload.ApplicationID, payload.Passed); err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"status": "processed"})
}

// readSigned reads the raw body and verifies its X-Webhook-Signature
// header against the shared secret. An empty secret disables
// verification for local development.
func (h *WebhookHandler) readSigned(w http.ResponseWriter, r *http.Request, secret string) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.WriteBadRequestResponse(w, "Failed to read body")
		return nil, false
	}
	defer r.Body.Close()

	if secret == "" {
		return body, true
	}
	signature := r.Header.Get("X-Webhook-Signature")
	if signature == "" {
		utils.WriteUnauthorizedResponse(w, "Missing signature")
		return nil, false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		h.log.Warn("webhook signature mismatch", "path", r.URL.Path)
		utils.WriteUnauthorizedResponse(w, "Invalid signature")
		return nil, false
	}
	return body, true
}
