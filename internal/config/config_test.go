package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("MONEI_ACCOUNT_ID", "acc-001")
		t.Setenv("MONEI_APIKEY", "monei_secret")
		t.Setenv("MONEI_SIGNING_SECRET", "sign_secret")
		t.Setenv("MONEI_SHOP_NAME", "My Shop")
		t.Setenv("MONEI_TEST_MODE", "yes")
		t.Setenv("MONEI_TOKENIZATION", "no")
		t.Setenv("MONEI_POST_PAYMENT", "completed")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "acc-001", cfg.Monei.AccountID)
		assert.Equal(t, "monei_secret", cfg.Monei.APIKey)
		assert.Equal(t, "sign_secret", cfg.Monei.SigningSecret)
		assert.Equal(t, "My Shop", cfg.Monei.ShopName)
		assert.True(t, cfg.Monei.TestMode)
		assert.False(t, cfg.Monei.Tokenization)
		assert.Equal(t, PostPaymentCompleted, cfg.Monei.PostPayment)
	})

	t.Run("Post payment defaults to processing", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("MONEI_POST_PAYMENT", "something-else")

		cfg := LoadConfig()

		assert.Equal(t, PostPaymentProcessing, cfg.Monei.PostPayment)
	})
}
