// Package external holds the clients for the collaborators the workflow
// delegates to: document generation, payment checkout, credit checks
// and notification dispatch. The workflow owns only status bookkeeping;
// everything behind these interfaces is someone else's system.
package external

import (
	"context"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

// DocumentGenerator renders a lease document for a tenancy and returns
// a stored-document reference. Expected to be idempotent by tenancy id.
type DocumentGenerator interface {
	GenerateLease(ctx context.Context, t *models.Tenancy) (path string, err error)
}

// PaymentGateway creates a checkout for a tenancy payment. The
// reference is caller-supplied; the gateway's webhook echoes it back so
// the result can be mapped to a (tenancy, payment type) pair.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, tenancyID, reference string, amountCents int64) (checkoutURL string, err error)
}

// CreditChecker starts an asynchronous credit check for an application.
// The result arrives later on the credit-check webhook.
type CreditChecker interface {
	Request(ctx context.Context, applicationID, tenantID string) error
}

// Notifier dispatches a fire-and-forget message to a user. No delivery
// guarantee is assumed; failures are logged by callers, never
// propagated.
type Notifier interface {
	Send(ctx context.Context, recipientID, event string, payload map[string]interface{}) error
}
