package main

import (
	"net/http"

	httphandlers "giveflow/internal/interfaces/http"
	"giveflow/internal/shared/config"
	"giveflow/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Provider webhook (authenticated by HMAC signature, not JWT)
	mux.HandleFunc("/api/webhooks/payment", deps.WebhookHandler.HandleEvent)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("POST /api/donors", authMiddleware(http.HandlerFunc(deps.DonorHandler.HandleCreateDonor)))
	mux.Handle("GET /api/donors", authMiddleware(http.HandlerFunc(deps.DonorHandler.HandleListDonors)))
	mux.Handle("GET /api/donors/{id}", authMiddleware(http.HandlerFunc(deps.DonorHandler.HandleGetDonor)))

	mux.Handle("POST /api/organizations", authMiddleware(http.HandlerFunc(deps.OrganizationHandler.HandleCreateOrganization)))
	mux.Handle("GET /api/organizations", authMiddleware(http.HandlerFunc(deps.OrganizationHandler.HandleListOrganizations)))
	mux.Handle("GET /api/organizations/{id}", authMiddleware(http.HandlerFunc(deps.OrganizationHandler.HandleGetOrganization)))
	mux.Handle("GET /api/organizations/{id}/balance", authMiddleware(http.HandlerFunc(deps.OrganizationHandler.HandleGetBalance)))

	mux.Handle("POST /api/donations", authMiddleware(http.HandlerFunc(deps.DonationHandler.HandleCreateDonation)))
	mux.Handle("GET /api/donations", authMiddleware(http.HandlerFunc(deps.DonationHandler.HandleListDonations)))
	mux.Handle("GET /api/donations/{externalRef}", authMiddleware(http.HandlerFunc(deps.DonationHandler.HandleGetDonation)))

	mux.Handle("GET /api/subscriptions", authMiddleware(http.HandlerFunc(deps.SubscriptionHandler.HandleListSubscriptions)))
	mux.Handle("GET /api/subscriptions/{externalRef}", authMiddleware(http.HandlerFunc(deps.SubscriptionHandler.HandleGetSubscription)))

	mux.Handle("POST /api/reconcile", authMiddleware(http.HandlerFunc(deps.ReconcileHandler.HandleReconcile)))

	// Apply global middleware
	handler := middleware.RequestID(middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(middleware.Tracing(mux))))
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	return handler
}
