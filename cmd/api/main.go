package main

import (
	"expvar"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"himalayanbjj/internal/mailer"
	"himalayanbjj/internal/payments"
	"himalayanbjj/internal/ratelimiter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:5175",
	"http://localhost:5176",
	"https://bjj-himalayan-bjj.vercel.app",
	"https://himalayan-bjj.vercel.app",
	"https://himalayan-bjj.com",
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return fallback
}

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	// Default values
	defaultRequests := 20
	defaultEnabled := true

	// Retrieve request count with error handling
	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil && parsedVal > 0 {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	// Retrieve enabled flag with error handling
	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            time.Minute,
		Enabled:              enabled,
	}
}

// LoadStripeTimeout reads STRIPE_TIMEOUT as a Go duration ("8s").
func LoadStripeTimeout() time.Duration {
	val, exists := os.LookupEnv("STRIPE_TIMEOUT")
	if !exists {
		return payments.DefaultTimeout
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		fmt.Println("Invalid STRIPE_TIMEOUT, defaulting to", payments.DefaultTimeout)
		return payments.DefaultTimeout
	}
	return d
}

// LoadAllowedOrigins reads ALLOWED_ORIGINS as a comma separated list. A "*"
// entry is dropped.
func LoadAllowedOrigins() []string {
	val := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS"))
	if val == "" {
		return defaultAllowedOrigins
	}

	var origins []string
	for _, o := range strings.Split(val, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || strings.Contains(o, "*") {
			continue
		}
		origins = append(origins, o)
	}
	if len(origins) == 0 {
		return defaultAllowedOrigins
	}
	return origins
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	logger := zap.New(core)

	return logger.Sugar(), nil
}

var version = "1.0.0"

//	@title			Himalayan BJJ Payments API
//	@description	Checkout and payment endpoints for the Himalayan BJJ website.

//	@contact.name	Himalayan BJJ
//	@contact.url	https://himalayan-bjj.com

//	@BasePath	/

func main() {
	// .env is optional; on Vercel and in containers the environment is set directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Println("Error loading .env file:", err)
	}

	cfg := config{
		addr:           getString("ADDR", ":4242"),
		env:            getString("ENV", "development"),
		apiURL:         getString("EXTERNAL_URL", "localhost:4242"),
		frontendURL:    getString("FRONTEND_URL", "https://himalayan-bjj.com"),
		allowedOrigins: LoadAllowedOrigins(),
		stripe: stripeConfig{
			secretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			timeout:       LoadStripeTimeout(),
		},
		mail: mailConfig{
			fromEmail:   getString("MAIL_FROM_EMAIL", "no-reply@himalayan-bjj.com"),
			studioInbox: getString("STUDIO_INBOX", "info@himalayan-bjj.com"),
			mailtrap: mailTrapConfig{
				apiKey: os.Getenv("MAILTRAP_API_KEY"),
			},
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Stripe. A missing or bad key does not stop the server: /ping reports
	// it and purchases fail with stripe_not_initialized.
	hasCredential := cfg.stripe.secretKey != ""
	var provider payments.Provider
	stripeProvider, err := payments.NewStripeProvider(cfg.stripe.secretKey, cfg.stripe.timeout, logger)
	if err != nil {
		logger.Errorw("stripe not initialized", "error", err)
	} else {
		provider = stripeProvider
		logger.Infow("stripe initialized", "key_prefix", keyPrefix(cfg.stripe.secretKey), "timeout", cfg.stripe.timeout)
	}
	paymentManager := payments.NewPaymentManager(provider, hasCredential)

	webhooks := payments.NewWebhookVerifier(cfg.stripe.webhookSecret)
	if !webhooks.Enabled() {
		logger.Warn("STRIPE_WEBHOOK_SECRET not set, /webhook is disabled")
	}

	// Mailer
	var mail mailer.Client
	mailtrap, err := mailer.NewMailTrapClient(cfg.mail.mailtrap.apiKey, cfg.mail.fromEmail)
	if err != nil {
		logger.Warnw("mailtrap not configured, form notifications are only logged", "error", err)
		mail = mailer.NewLogClient(logger)
	} else {
		mail = mailtrap
	}

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)
	go func() {
		ticker := time.NewTicker(cfg.rateLimiter.TimeFrame)
		defer ticker.Stop()
		for range ticker.C {
			rateLimiter.Sweep()
		}
	}()

	app := &application{
		config:      cfg,
		logger:      logger,
		payments:    paymentManager,
		webhooks:    webhooks,
		mailer:      mail,
		rateLimiter: rateLimiter,
	}

	//Metrics collected http://localhost:4242/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("gateway", expvar.Func(func() any {
		return paymentManager.Ping()
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}

// keyPrefix returns enough of a key to tell test and live keys apart.
func keyPrefix(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:8] + "..."
}
