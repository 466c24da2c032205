package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"health-insurance-web/internal/config"
	"health-insurance-web/internal/gate"
	"health-insurance-web/internal/handlers"
	"health-insurance-web/internal/identity"
	"health-insurance-web/internal/routes"
	"health-insurance-web/internal/services"
	"health-insurance-web/internal/store"
)

// Events each background subscriber may hold before new ones are dropped.
const subscriberQueue = 256

func main() {
	// 1. Config and logging
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Firebase
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID},
		option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize firebase app")
	}

	idp, err := identity.New(ctx, app, cfg.Firebase.APIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize identity client")
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize firestore")
	}
	defer fs.Close()
	profiles := store.NewProfileStore(fs)

	// 3. Session hub and its subscribers
	sessions := gate.NewSessions()

	if fcm, err := app.Messaging(ctx); err != nil {
		log.Warn().Err(err).Msg("messaging unavailable, admin notifications disabled")
	} else {
		defer sessions.SubscribeAsync(services.NewAdminNotifier(fcm, cfg.Firebase.AdminTopic).Handle, subscriberQueue)()
	}

	var events handlers.AuthEventLister
	if cfg.DatabaseDSN != "" {
		db, err := config.ConnectDB(cfg.DatabaseDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		log.Info().Msg("connected to database")

		audit := services.NewAuthEventService(db)
		defer sessions.SubscribeAsync(audit.Handle, subscriberQueue)()
		events = audit
	} else {
		log.Warn().Msg("DATABASE_DSN not set, auth event log disabled")
	}

	// 4. Services and handlers
	gateSvc := gate.NewService(idp, profiles, sessions, gate.Options{
		AdminLandingSuffix: cfg.AdminLandingSuffix,
		ResetContinueURL:   cfg.ResetContinueURL(),
	})

	mailer := services.NewEmailService(cfg.SMTP)
	if !mailer.IsConfigured() {
		log.Warn().Msg("SMTP not configured, contact form messages will fail")
	}

	h := handlers.NewHandler(gateSvc,
		services.NewContactService(mailer, cfg.SupportEmail),
		profiles,
		events,
		handlers.SessionConfig{Secret: cfg.JWTSecret, TTL: cfg.SessionTTL, Secure: cfg.IsProduction()},
		handlers.SiteConfig{FirebaseAPIKey: cfg.Firebase.APIKey, FirebaseProjectID: cfg.Firebase.ProjectID},
	)

	// 5. Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := routes.SetupRoutes(r, h, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to set up routes")
	}

	// 6. Run until signalled
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
