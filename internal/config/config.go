package config

import "os"

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	Debug       bool

	MailAPIURL string
	MailAPIKey string
	MailFrom   string

	PaymentAPIURL string
	PaymentAPIKey string
}

// Load reads configuration from environment variables.
func Load() Config {
	addr := os.Getenv("MARKETPLACE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "no-reply@marketplace.local"
	}

	return Config{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		Debug:         os.Getenv("APP_DEBUG") == "1",
		MailAPIURL:    os.Getenv("MAIL_API_URL"),
		MailAPIKey:    os.Getenv("MAIL_API_KEY"),
		MailFrom:      from,
		PaymentAPIURL: os.Getenv("PAYMENT_API_URL"),
		PaymentAPIKey: os.Getenv("PAYMENT_API_KEY"),
	}
}
