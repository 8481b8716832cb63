package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr          string
	MongoURI          string
	MongoDatabase     string
	JWTSecret         string
	JWTIssuer         string
	AccessTokenTTL    time.Duration
	PaymentAPIBaseURL string
	PaymentSecretKey  string
	PaymentTimeout    time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		MongoURI:          getenv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:     getenv("MONGODB_DATABASE", "epicescape"),
		JWTSecret:         getenv("JWT_SECRET", "dev-secret"),
		JWTIssuer:         getenv("JWT_ISSUER", "epicescape-server"),
		AccessTokenTTL:    getenvDuration("ACCESS_TOKEN_TTL", time.Hour),
		PaymentAPIBaseURL: getenv("PAYMENT_API_BASE_URL", "https://api.stripe.com"),
		PaymentSecretKey:  getenv("PAYMENT_SECRET_KEY", ""),
		PaymentTimeout:    getenvDuration("PAYMENT_TIMEOUT", 10*time.Second),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
