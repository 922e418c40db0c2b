package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/9ssi7/exponent"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"studiobook/internal/auth"
	"studiobook/internal/booking"
	"studiobook/internal/mailer"
	"studiobook/internal/notifications"
	"studiobook/internal/ratelimiter"
	"studiobook/internal/refcode"
	"studiobook/internal/tenant"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

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
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// LoadBookingPolicy reads the tunable booking rules, falling back to the
// studio defaults for anything unset.
func LoadBookingPolicy() booking.Policy {
	policy := booking.DefaultPolicy()

	if val, exists := os.LookupEnv("BOOKING_CANCEL_NOTICE_HOURS"); exists {
		if hours, err := strconv.Atoi(val); err == nil && hours >= 0 {
			policy.CancelNotice = time.Duration(hours) * time.Hour
		} else {
			fmt.Println("Invalid BOOKING_CANCEL_NOTICE_HOURS, keeping default")
		}
	}
	if val, exists := os.LookupEnv("BOOKING_DEPOSIT_PERCENT"); exists {
		if pct, err := strconv.ParseFloat(val, 64); err == nil && pct >= 0 && pct <= 100 {
			policy.DepositPercent = pct
		} else {
			fmt.Println("Invalid BOOKING_DEPOSIT_PERCENT, keeping default")
		}
	}
	if val, exists := os.LookupEnv("BOOKING_SLOT_MINUTES"); exists {
		if minutes, err := strconv.Atoi(val); err == nil && minutes > 0 {
			policy.SlotDuration = time.Duration(minutes) * time.Minute
		} else {
			fmt.Println("Invalid BOOKING_SLOT_MINUTES, keeping default")
		}
	}
	if val, exists := os.LookupEnv("BOOKING_MAX_RANGE_DAYS"); exists {
		if days, err := strconv.Atoi(val); err == nil && days > 0 {
			policy.MaxRangeDays = days
		} else {
			fmt.Println("Invalid BOOKING_MAX_RANGE_DAYS, keeping default")
		}
	}

	return policy
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

var version = "0.3.0"

//	@title			StudioBook API
//	@description	Room booking and availability engine for recording studios.

//	@contact.name	API Support

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	maxOpenConnsStr := os.Getenv("DB_MAX_OPEN_CONNS")
	maxOpenConns, err := strconv.Atoi(maxOpenConnsStr)
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_OPEN_CONNS: %v", err)
	}

	cfg := config{
		addr:        os.Getenv("ADDR"),
		env:         os.Getenv("ENV"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		apiURL:      os.Getenv("EXTERNAL_URL"),
		db: dbConfig{
			maxOpenConns: int32(maxOpenConns),
			maxIdleTime:  os.Getenv("DB_MAX_IDLE_TIME"),
		},
		mail: mailConfig{
			fromEmail: os.Getenv("SMTP_FROM_EMAIL"),
			smtp: smtpConfig{
				host:     os.Getenv("SMTP_HOST"),
				port:     587,
				username: os.Getenv("SMTP_USERNAME"),
				password: os.Getenv("SMTP_PASSWORD"),
			},
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret:        os.Getenv("AUTH_TOKEN_SECRET"),
				refreshSecret: os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				iss:           "StudioBook",
			},
		},
		booking:     LoadBookingPolicy(),
		rateLimiter: LoadRateLimiterConfig(),
		codeSalt:    os.Getenv("RESERVATION_CODE_SALT"),
	}

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// One studio per database; pools open lazily on first request.
	dsns, err := tenant.ParseDSNMap(os.Getenv("TENANTS"))
	if err != nil {
		logger.Fatal(err)
	}
	if len(dsns) == 0 {
		logger.Fatal("TENANTS is empty, nothing to serve")
	}
	registry := tenant.NewRegistry(dsns, cfg.db.maxOpenConns, cfg.db.maxIdleTime)
	defer registry.Close()
	logger.Infow("tenant registry configured", "tenants", len(dsns))

	codes, err := refcode.New(cfg.codeSalt)
	if err != nil {
		logger.Fatal(err)
	}

	expoClient := exponent.NewClient()
	push := notifications.NewExpoSender(expoClient)

	mailClient, err := mailer.NewMailClient(
		cfg.mail.smtp.host,
		cfg.mail.smtp.port,
		cfg.mail.smtp.username,
		cfg.mail.smtp.password,
		cfg.mail.fromEmail,
	)
	if err != nil {
		logger.Fatal(err)
	}

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.refreshSecret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		tenants:       registry,
		codes:         codes,
		push:          push,
		mailer:        mailClient,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
		clock:         booking.RealClock(),
	}

	// Metrics collected at /v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	app.advanceReservationsEvery30Mins()

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
