package main

import (
	"log"

	"giveflow/internal/domain/reconcile"
	"giveflow/internal/infrastructure/payment"
	"giveflow/internal/infrastructure/postgres"
	httphandlers "giveflow/internal/interfaces/http"
	"giveflow/internal/shared/auth"
	"giveflow/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler         *httphandlers.AuthHandler
	DonorHandler        *httphandlers.DonorHandler
	OrganizationHandler *httphandlers.OrganizationHandler
	DonationHandler     *httphandlers.DonationHandler
	SubscriptionHandler *httphandlers.SubscriptionHandler
	ReconcileHandler    *httphandlers.ReconcileHandler
	WebhookHandler      *httphandlers.WebhookHandler

	// Auth
	JWT *auth.JWT

	// Reconciliation core
	ReconcileService *reconcile.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize repositories
	donorRepo := postgres.NewDonorRepository(db)
	orgRepo := postgres.NewOrganizationRepository(db)
	donationRepo := postgres.NewDonationRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	operatorRepo := postgres.NewOperatorRepository(db)

	// Initialize payment provider client and reconciliation service
	providerClient := payment.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey)
	reconcileService := reconcile.NewService(providerClient, donationRepo, subscriptionRepo, donorRepo, orgRepo)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(operatorRepo, jwt)
	donorHandler := httphandlers.NewDonorHandler(donorRepo)
	orgHandler := httphandlers.NewOrganizationHandler(orgRepo)
	donationHandler := httphandlers.NewDonationHandler(donationRepo, donorRepo, orgRepo)
	subscriptionHandler := httphandlers.NewSubscriptionHandler(subscriptionRepo)
	reconcileHandler := httphandlers.NewReconcileHandler(reconcileService)
	webhookHandler := httphandlers.NewWebhookHandler(reconcileService, cfg.Provider.WebhookSecret)

	return &Dependencies{
		DB:                  db,
		AuthHandler:         authHandler,
		DonorHandler:        donorHandler,
		OrganizationHandler: orgHandler,
		DonationHandler:     donationHandler,
		SubscriptionHandler: subscriptionHandler,
		ReconcileHandler:    reconcileHandler,
		WebhookHandler:      webhookHandler,
		JWT:                 jwt,
		ReconcileService:    reconcileService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
