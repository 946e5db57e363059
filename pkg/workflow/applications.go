package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/external"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

// ApplicationGate decides who may apply and runs the submission
// pipeline. Eligibility is a disjunction: either a viewing with the
// application_sent flag, or a live invite for the pair.
type ApplicationGate struct {
	store    database.Store
	credit   external.CreditChecker
	notifier external.Notifier
	log      *slog.Logger
}

func NewApplicationGate(store database.Store, credit external.CreditChecker, notifier external.Notifier, log *slog.Logger) *ApplicationGate {
	return &ApplicationGate{store: store, credit: credit, notifier: notifier, log: log}
}

// SubmitInput carries the tenant's screening answers plus the optional
// invite they are redeeming.
type SubmitInput struct {
	Employer       string
	AnnualIncome   int64
	ReferenceName  string
	ReferenceEmail string
	InviteID       string
}

// CanApply reports whether the tenant may currently apply for the
// property.
func (g *ApplicationGate) CanApply(ctx context.Context, tenantID, propertyID string) (bool, error) {
	sent, inv, err := g.gate(tenantID, propertyID)
	if err != nil {
		return false, err
	}
	return sent || inv != nil, nil
}

// Submit runs the full submission: gate check, screening upsert, invite
// consumption, destructive application replacement and the credit-check
// dispatch. The gate is evaluated before any write so an ineligible
// tenant leaves no trace.
func (g *ApplicationGate) Submit(ctx context.Context, tenantID, propertyID string, in SubmitInput) (*models.Application, error) {
	prop, err := g.store.GetProperty(propertyID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if existing, err := g.store.FindApplicationForPair(tenantID, propertyID); err != nil {
		return nil, err
	} else if existing != nil && existing.Status.Terminal() {
		return nil, fmt.Errorf("%w: application already %s", ErrPreconditionFailed, existing.Status)
	}

	sent, invite, err := g.gate(tenantID, propertyID)
	if err != nil {
		return nil, err
	}
	if in.InviteID != "" {
		named, err := g.store.GetInvite(in.InviteID)
		if err != nil {
			return nil, mapNotFound(err)
		}
		if named.TenantID != tenantID || named.PropertyID != propertyID {
			return nil, ErrNotFound
		}
		if named.Live(time.Now()) {
			invite = named
		}
	}
	if !sent && invite == nil {
		return nil, fmt.Errorf("%w: no completed viewing or live invite", ErrPreconditionFailed)
	}

	profile := &models.ScreeningProfile{
		TenantID:         tenantID,
		Employer:         in.Employer,
		AnnualIncome:     in.AnnualIncome,
		ReferenceName:    in.ReferenceName,
		ReferenceEmail:   in.ReferenceEmail,
		IsTenantScreened: true,
	}
	if err := g.store.UpsertScreeningProfile(profile); err != nil {
		return nil, err
	}

	// Consume the invite before writing the application so a token can
	// never open the gate twice. If the consume race is lost, the
	// viewing path must stand on its own.
	if invite != nil {
		ok, err := g.store.ConsumeInvite(invite.ID, time.Now())
		if err != nil {
			return nil, err
		}
		if !ok && !sent {
			return nil, fmt.Errorf("%w: invite already used", ErrPreconditionFailed)
		}
	}

	app := &models.Application{
		TenantID:   tenantID,
		LandlordID: prop.LandlordID,
		PropertyID: propertyID,
		Status:     models.ApplicationSubmitted,
	}
	if err := g.store.ReplaceApplication(app); err != nil {
		return nil, err
	}

	g.dispatchCreditCheck(ctx, app)

	notify(g.log, g.notifier, prop.LandlordID, "application.submitted", map[string]interface{}{
		"application_id": app.ID,
		"property_id":    propertyID,
		"tenant_id":      tenantID,
	})
	return g.store.GetApplication(app.ID)
}

// dispatchCreditCheck asks the external checker to screen the tenant.
// Dispatch failure leaves the application in submitted; the check can
// be retried out of band and the submission itself has succeeded.
func (g *ApplicationGate) dispatchCreditCheck(ctx context.Context, app *models.Application) {
	if g.credit == nil {
		return
	}
	if err := g.credit.Request(ctx, app.ID, app.TenantID); err != nil {
		g.log.Warn("credit check dispatch failed", "application_id", app.ID, "error", err)
		return
	}
	if _, err := g.store.AdvanceApplication(app.ID, models.ApplicationSubmitted, models.ApplicationPendingCredit); err != nil {
		g.log.Warn("could not mark application pending credit check", "application_id", app.ID, "error", err)
	}
}

// HandleCreditResult applies the checker's webhook verdict. A pass
// returns the application to the landlord's queue; a fail declines it.
func (g *ApplicationGate) HandleCreditResult(ctx context.Context, applicationID string, passed bool) error {
	to := models.ApplicationDeclined
	if passed {
		to = models.ApplicationPending
	}
	ok, err := g.store.AdvanceApplication(applicationID, models.ApplicationPendingCredit, to)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := g.store.GetApplication(applicationID); err != nil {
			return mapNotFound(err)
		}
		return fmt.Errorf("%w: application is not awaiting a credit check", ErrPreconditionFailed)
	}
	return nil
}

// Decide records the landlord's accept/decline verdict. Terminal
// statuses are final; a second decision is rejected.
func (g *ApplicationGate) Decide(ctx context.Context, landlordID, applicationID string, to models.ApplicationStatus) (*models.Application, error) {
	if !to.Terminal() {
		return nil, fmt.Errorf("%w: decision must be accepted or declined", ErrPreconditionFailed)
	}
	ok, err := g.store.DecideApplication(applicationID, landlordID, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		app, err := g.store.GetApplication(applicationID)
		if err != nil {
			return nil, mapNotFound(err)
		}
		if app.LandlordID != landlordID {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: application already %s", ErrPreconditionFailed, app.Status)
	}
	app, err := g.store.GetApplication(applicationID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	notify(g.log, g.notifier, app.TenantID, "application.decided", map[string]interface{}{
		"application_id": applicationID,
		"status":         app.Status,
	})
	return app, nil
}

// Get returns the application if the caller is a party to it.
func (g *ApplicationGate) Get(ctx context.Context, actorID, applicationID string) (*models.Application, error) {
	app, err := g.store.GetApplication(applicationID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if app.TenantID != actorID && app.LandlordID != actorID {
		return nil, ErrNotFound
	}
	return app, nil
}

// ListForLandlord returns applications across the landlord's
// properties.
func (g *ApplicationGate) ListForLandlord(ctx context.Context, landlordID string) ([]models.Application, error) {
	return g.store.ListApplicationsByLandlord(landlordID)
}

// ListForTenant returns the tenant's applications.
func (g *ApplicationGate) ListForTenant(ctx context.Context, tenantID string) ([]models.Application, error) {
	return g.store.ListApplicationsByTenant(tenantID)
}

// Screening returns the tenant's stored screening profile, or nil if
// they have never applied.
func (g *ApplicationGate) Screening(ctx context.Context, tenantID string) (*models.ScreeningProfile, error) {
	profile, err := g.store.GetScreeningProfile(tenantID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

func (g *ApplicationGate) gate(tenantID, propertyID string) (sent bool, invite *models.ApplicationInvite, err error) {
	viewing, err := g.store.FindViewingForPair(propertyID, tenantID)
	if err != nil {
		return false, nil, err
	}
	if viewing != nil && viewing.ApplicationSent {
		sent = true
	}
	invite, err = g.store.FindLiveInvite(propertyID, tenantID, time.Now())
	if err != nil {
		return false, nil, err
	}
	return sent, invite, nil
}
