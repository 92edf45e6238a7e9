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

	"himalayanbjj/docs" //this is required to generate swagger docs
	"himalayanbjj/internal/mailer"
	"himalayanbjj/internal/payments"
	"himalayanbjj/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config      config
	logger      *zap.SugaredLogger
	payments    *payments.PaymentManager
	webhooks    *payments.WebhookVerifier
	mailer      mailer.Client
	rateLimiter ratelimiter.Limiter
}

type config struct {
	addr           string
	env            string
	apiURL         string
	frontendURL    string
	allowedOrigins []string
	stripe         stripeConfig
	mail           mailConfig
	auth           authConfig
	rateLimiter    ratelimiter.Config
}

type stripeConfig struct {
	secretKey     string
	webhookSecret string
	timeout       time.Duration
}

type authConfig struct {
	basic basicConfig
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail   string
	studioInbox string
	mailtrap    mailTrapConfig
}

type mailTrapConfig struct {
	apiKey string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)

	// The Stripe secret sits behind these routes, so origins are listed
	// explicitly and never wildcarded.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.notFoundResponse(w, r, fmt.Errorf("no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Get("/ping", app.pingHandler)

	docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.apiURL)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

	r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

	r.Route("/programs", func(r chi.Router) {
		r.Get("/", app.listProgramsHandler)
		r.Get("/{programID}", app.getProgramHandler)
	})

	// purchase and form routes hit Stripe or the mail server
	r.Group(func(r chi.Router) {
		r.Use(app.RateLimiterMiddleware)

		r.Post("/create-payment-intent", app.createPaymentIntentHandler)
		r.Post("/create-checkout-session", app.createCheckoutSessionHandler)
		r.Post("/api/create-checkout-session", app.apiCreateCheckoutSessionHandler)

		r.Get("/checkout-session/{sessionID}", app.checkoutSessionStatusHandler)

		r.Post("/contact", app.contactHandler)
		r.Post("/signup", app.signupHandler)
	})

	r.Post("/webhook", app.webhookHandler)

	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
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
