package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/handlers/anomalies"
	"github.com/de-tools/finops-dashboard/pkg/handlers/dashboard"
	"github.com/de-tools/finops-dashboard/pkg/handlers/integrations"
	"github.com/de-tools/finops-dashboard/pkg/handlers/preferences"
	"github.com/de-tools/finops-dashboard/pkg/handlers/session"
	"github.com/de-tools/finops-dashboard/pkg/handlers/spend"
	workflowhandler "github.com/de-tools/finops-dashboard/pkg/handlers/workflow"
	finopsmiddleware "github.com/de-tools/finops-dashboard/pkg/server/middleware"
	"github.com/de-tools/finops-dashboard/pkg/services/access"
	"github.com/de-tools/finops-dashboard/pkg/services/anomaly"
	"github.com/de-tools/finops-dashboard/pkg/services/financials"
	prefservice "github.com/de-tools/finops-dashboard/pkg/services/preferences"
	"github.com/de-tools/finops-dashboard/pkg/services/workflow"
	"github.com/de-tools/finops-dashboard/pkg/store/memory"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Store       memory.Store
	Sessions    *access.Registry
	Financials  financials.Service
	Anomalies   anomaly.Service
	Workflow    workflow.Service
	Preferences prefservice.Service
	Dashboard   dashboard.Feed
	Gatherer    prometheus.Gatherer
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) (*WebAPI, error) {
	router, err := ConfigureRouter(logger, config)
	if err != nil {
		return nil, err
	}

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}, nil
}

func ConfigureRouter(logger zerolog.Logger, config Config) (http.Handler, error) {
	deps := config.Dependencies
	if deps.Store == nil || deps.Sessions == nil || deps.Financials == nil || deps.Anomalies == nil ||
		deps.Workflow == nil || deps.Preferences == nil || deps.Dashboard == nil {
		return nil, fmt.Errorf("incomplete server dependencies")
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	spendHandler := spend.NewHandler(deps.Store, deps.Financials, deps.Workflow)
	anomalyHandler := anomalies.NewHandler(deps.Anomalies)
	integrationHandler := integrations.NewHandler(deps.Store, deps.Workflow)
	workflowHandler := workflowhandler.NewHandler(deps.Workflow)
	sessionHandler := session.NewHandler()
	prefsHandler := preferences.NewHandler(deps.Preferences)
	dashboardHandler := dashboard.NewHandler(deps.Dashboard)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(finopsmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", finopsmiddleware.SessionHeader},
		ExposedHeaders: []string{finopsmiddleware.SessionHeader},
	}).Handler)
	router.Use(finopsmiddleware.Metrics)

	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(finopsmiddleware.Session(deps.Sessions))

		r.Get("/squads", spendHandler.ListSquads)
		r.Get("/squads/{squad}/financials", spendHandler.GetFinancials)
		r.Get("/charges", spendHandler.ListCharges)
		r.Put("/charges/{id}/cost-center", spendHandler.UpdateCostCenter)

		r.Get("/anomalies", anomalyHandler.ListAnomalies)
		r.Put("/anomalies/{id}/status", anomalyHandler.SetStatus)
		r.Post("/anomalies/{id}/acknowledge", anomalyHandler.Acknowledge)
		r.Post("/anomalies/{id}/resolve", anomalyHandler.Resolve)

		r.Get("/integrations", integrationHandler.ListIntegrations)
		r.Post("/integrations/refresh", integrationHandler.RefreshAll)
		r.Post("/integrations/{id}/connect", integrationHandler.Connect)
		r.Post("/integrations/{id}/refresh", integrationHandler.Refresh)

		r.Get("/annotations", workflowHandler.ListAnnotations)
		r.Post("/annotations", workflowHandler.CreateAnnotation)
		r.Get("/chargebacks", workflowHandler.ListChargebacks)
		r.Post("/chargebacks", workflowHandler.CreateChargeback)
		r.Get("/activity", workflowHandler.ListActivity)

		r.Get("/session", sessionHandler.GetSession)
		r.Put("/session/role", sessionHandler.SetRole)
		r.Get("/session/can/{action}", sessionHandler.Can)

		r.Get("/preferences/{slot}", prefsHandler.Get)
		r.Put("/preferences/{slot}", prefsHandler.Save)
		r.Delete("/preferences/{slot}", prefsHandler.Reset)

		r.Get("/dashboard", dashboardHandler.Overview)
		r.Post("/dashboard/refresh", dashboardHandler.Refresh)
		r.Post("/dashboard/refresh/{feed}", dashboardHandler.RefreshFeed)
	})

	return router, nil
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
