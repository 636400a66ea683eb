package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	MongoURI          string
	MongoDatabase     string
	ServiceName       string
	JaegerAddress     string
	PaymentGatewayURL string
	LogFilePath       string
}

func LoadConfig() *Config {
	// Missing .env is fine in containers, env vars come from the runtime.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              os.Getenv("PORT"),
		MongoURI:          os.Getenv("MONGO_DB_URI"),
		MongoDatabase:     os.Getenv("MONGO_DB_NAME"),
		ServiceName:       "marketplace-service",
		JaegerAddress:     os.Getenv("JAEGER_ADDRESS"),
		PaymentGatewayURL: os.Getenv("PAYMENT_GATEWAY_URL"),
		LogFilePath:       os.Getenv("LOG_FILE_PATH"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "Marketplace"
	}
	if cfg.LogFilePath == "" {
		cfg.LogFilePath = "/marketplace-service/logs/logfile.log"
	}
	return cfg
}
