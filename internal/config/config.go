package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// PostPaymentAction decides the order status applied once a charge succeeds.
type PostPaymentAction string

const (
	PostPaymentProcessing PostPaymentAction = "processing"
	PostPaymentCompleted  PostPaymentAction = "completed"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	Monei MoneiConfig
}

// MoneiConfig carries every gateway setting as an explicit value. Core
// operations receive this struct instead of reading ambient options.
type MoneiConfig struct {
	AccountID     string
	APIKey        string
	SigningSecret string
	ShopName      string
	TestMode      bool
	Tokenization  bool
	PostPayment   PostPaymentAction

	// Shopper-facing URLs handed to the gateway with each charge.
	CallbackURL string
	CompleteURL string
	CancelURL   string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Monei: MoneiConfig{
			AccountID:     os.Getenv("MONEI_ACCOUNT_ID"),
			APIKey:        os.Getenv("MONEI_APIKEY"),
			SigningSecret: os.Getenv("MONEI_SIGNING_SECRET"),
			ShopName:      os.Getenv("MONEI_SHOP_NAME"),
			TestMode:      os.Getenv("MONEI_TEST_MODE") == "yes",
			Tokenization:  os.Getenv("MONEI_TOKENIZATION") == "yes",
			PostPayment:   postPaymentAction(os.Getenv("MONEI_POST_PAYMENT")),
			CallbackURL:   os.Getenv("MONEI_CALLBACK_URL"),
			CompleteURL:   os.Getenv("MONEI_COMPLETE_URL"),
			CancelURL:     os.Getenv("MONEI_CANCEL_URL"),
		},
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func postPaymentAction(raw string) PostPaymentAction {
	if raw == string(PostPaymentCompleted) {
		return PostPaymentCompleted
	}
	return PostPaymentProcessing
}
