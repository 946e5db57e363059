package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/config"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/external"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/middleware"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/workflow"
)

// Collaborators bundles the external services the workflow delegates
// to.
type Collaborators struct {
	Documents external.DocumentGenerator
	Payments  external.PaymentGateway
	Credit    external.CreditChecker
	Notifier  external.Notifier
	Storage   external.DocumentStorage
}

// NewRouter wires the full API surface.
func NewRouter(cfg *config.Config, store database.Store, collab Collaborators, log *slog.Logger) http.Handler {
	jwtService := utils.NewJWTService(cfg.JWTSecret)

	ledger := workflow.NewSlotLedger(store, collab.Notifier, log)
	tracker := workflow.NewViewingTracker(store, collab.Notifier, log)
	issuer := workflow.NewInvitationIssuer(store, collab.Notifier, cfg.InviteValidity, log)
	gate := workflow.NewApplicationGate(store, collab.Credit, collab.Notifier, log)
	orchestrator := workflow.NewLeaseOrchestrator(store, collab.Documents, collab.Payments, collab.Storage, collab.Notifier, log)
	presence := workflow.NewPresence(store, cfg.PresenceThreshold)

	authHandler := NewAuthHandler(store, jwtService)
	propertyHandler := NewPropertyHandler(store)
	slotHandler := NewSlotHandler(ledger)
	viewingHandler := NewViewingHandler(tracker)
	inviteHandler := NewInviteHandler(issuer)
	applicationHandler := NewApplicationHandler(gate)
	tenancyHandler := NewTenancyHandler(orchestrator)
	webhookHandler := NewWebhookHandler(cfg, gate, orchestrator, log)
	presenceHandler := NewPresenceHandler(presence)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := store.HealthCheck(); err != nil {
			utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "Store unavailable")
			return
		}
		utils.WriteSuccessResponse(w, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.With(middleware.AuthMiddleware(cfg)).Get("/me", authHandler.Me)
		})

		// Webhooks authenticate by signature, not bearer token.
		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/payments", webhookHandler.Payment)
			r.Post("/credit-check", webhookHandler.CreditCheck)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg))

			r.Route("/properties", func(r chi.Router) {
				r.With(middleware.RequireRole(models.RoleLandlord)).Post("/", propertyHandler.Create)
				r.Get("/mine", propertyHandler.ListMine)
				r.Get("/{propertyID}", propertyHandler.Get)

				r.Get("/{propertyID}/slots", slotHandler.ListAvailable)
				r.With(middleware.RequireRole(models.RoleLandlord)).Post("/{propertyID}/slots", slotHandler.Create)
				r.With(middleware.RequireRole(models.RoleTenant)).Delete("/{propertyID}/booking", slotHandler.Cancel)

				r.With(middleware.RequireRole(models.RoleTenant)).Post("/{propertyID}/viewings", viewingHandler.Request)
				r.With(middleware.RequireRole(models.RoleLandlord)).Post("/{propertyID}/invites", inviteHandler.Create)

				r.Get("/{propertyID}/applications/eligibility", applicationHandler.CanApply)
				r.With(middleware.RequireRole(models.RoleTenant)).Post("/{propertyID}/applications", applicationHandler.Submit)
			})

			r.Route("/slots", func(r chi.Router) {
				r.With(middleware.RequireRole(models.RoleTenant)).Post("/{slotID}/book", slotHandler.Book)
				r.With(middleware.RequireRole(models.RoleTenant)).Post("/reschedule", slotHandler.Reschedule)
			})

			r.Route("/viewings", func(r chi.Router) {
				r.Get("/", viewingHandler.List)
				r.With(middleware.RequireRole(models.RoleLandlord)).Post("/{viewingID}/complete", viewingHandler.Complete)
				r.With(middleware.RequireRole(models.RoleLandlord)).Post("/{viewingID}/confirm", viewingHandler.Confirm)
				r.With(middleware.RequireRole(models.RoleLandlord)).Post("/{viewingID}/application-access", viewingHandler.SendApplicationAccess)
				r.With(middleware.RequireRole(models.RoleTenant)).Post("/{viewingID}/cancel", viewingHandler.Cancel)
			})

			r.Get("/invites/{token}", inviteHandler.Redeem)

			r.Route("/applications", func(r chi.Router) {
				r.Get("/", applicationHandler.List)
				r.Get("/screening", applicationHandler.Screening)
				r.Get("/{applicationID}", applicationHandler.Get)
				r.With(middleware.RequireRole(models.RoleLandlord)).Put("/{applicationID}/decision", applicationHandler.Decide)
			})

			r.Route("/tenancies", func(r chi.Router) {
				r.Get("/", tenancyHandler.List)
				r.With(middleware.RequireRole(models.RoleLandlord)).Post("/", tenancyHandler.Start)
				r.Get("/{tenancyID}", tenancyHandler.Get)
				r.With(middleware.RequireRole(models.RoleLandlord)).Post("/{tenancyID}/document", tenancyHandler.GenerateDocument)
				r.Get("/{tenancyID}/document/url", tenancyHandler.DocumentURL)
				r.With(middleware.RequireRole(models.RoleTenant)).Post("/{tenancyID}/sign/tenant", tenancyHandler.TenantSign)
				r.With(middleware.RequireRole(models.RoleLandlord)).Post("/{tenancyID}/sign/landlord", tenancyHandler.LandlordSign)
				r.With(middleware.RequireRole(models.RoleLandlord)).Post("/{tenancyID}/payments/initial", tenancyHandler.RequestInitialPayment)
			})

			r.Route("/presence", func(r chi.Router) {
				r.Post("/heartbeat", presenceHandler.Heartbeat)
				r.Get("/{userID}", presenceHandler.Status)
			})
		})
	})

	return r
}
