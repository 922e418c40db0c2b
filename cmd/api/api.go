package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"studiobook/docs"
	"studiobook/internal/auth"
	"studiobook/internal/booking"
	"studiobook/internal/mailer"
	"studiobook/internal/notifications"
	"studiobook/internal/ratelimiter"
	"studiobook/internal/store"
	"studiobook/internal/tenant"
)

type application struct {
	config        config
	logger        *zap.SugaredLogger
	tenants       *tenant.Registry
	codes         booking.CodeGenerator
	push          notifications.PushSender
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	clock         booking.Clock
}

type config struct {
	addr        string
	env         string
	apiURL      string
	frontendURL string
	db          dbConfig
	mail        mailConfig
	auth        authConfig
	booking     booking.Policy
	rateLimiter ratelimiter.Config
	codeSalt    string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret        string
	refreshSecret string
	iss           string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	maxOpenConns int32
	maxIdleTime  string
}

// bookingService builds the lifecycle engine on top of a tenant's data
// handle. The engine itself is stateless; everything tenant-specific lives
// in the storage it is handed.
func (app *application) bookingService(st *store.Storage) *booking.Service {
	return booking.NewService(st.Rooms, st.Reservations, app.codes, app.config.booking, app.clock)
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Tenant-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Everything below operates on one studio, resolved from the
		// X-Tenant-ID header.
		r.Group(func(r chi.Router) {
			r.Use(app.TenantMiddleware)

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", app.listRoomsHandler)
				r.Get("/{roomID}", app.getRoomHandler)
				r.Get("/{roomID}/availability", app.availabilityHandler)
			})

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)

				r.Route("/reservations", func(r chi.Router) {
					r.Post("/", app.createReservationHandler)
					r.Get("/", app.listMyReservationsHandler)
					r.Get("/{reservationID}", app.getReservationHandler)
					r.Post("/{reservationID}/cancel", app.cancelReservationHandler)
					r.Patch("/{reservationID}/reschedule", app.rescheduleReservationHandler)
				})

				r.Route("/push-tokens", func(r chi.Router) {
					r.Post("/", app.savePushTokenHandler)
					r.Delete("/", app.removePushTokenHandler)
				})
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
