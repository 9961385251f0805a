package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Shopify     ShopifyConfig
	PriceBandit PriceBanditConfig
	API         APIConfig
	Timing      TimingConfig
	LogLevel    string
}

type ShopifyConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
	// HTTPTimeout bounds every Shopify call; zero means no timeout
	HTTPTimeout time.Duration
}

// PriceBanditConfig is used to notify the PriceBandit service after a product is saved.
// An empty BaseURL disables the notification.
type PriceBanditConfig struct {
	BaseURL    string // e.g. http://pricebandit:5000
	ServiceKey string // PRICE_BANDIT_SERVICE_KEY
}

type APIConfig struct {
	KeyHash string // API_KEY_HASH: bcrypt hash of the bearer key; empty disables auth
}

// TimingConfig holds the pauses Shopify needs between dependent steps
type TimingConfig struct {
	MediaAttachDelay     time.Duration
	MediaUploadDelay     time.Duration
	MetafieldSettleDelay time.Duration
	VariantIndexDelay    time.Duration
	VerifyTimeout        time.Duration
}

// DefaultTiming returns the pauses used in production
func DefaultTiming() TimingConfig {
	return TimingConfig{
		MediaAttachDelay:     time.Second,
		MediaUploadDelay:     2 * time.Second,
		MetafieldSettleDelay: 500 * time.Millisecond,
		VariantIndexDelay:    2 * time.Second,
		VerifyTimeout:        25 * time.Second,
	}
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-10")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	defaults := DefaultTiming()
	durations := map[string]time.Duration{}
	for key, def := range map[string]time.Duration{
		"SHOPIFY_HTTP_TIMEOUT":   0,
		"MEDIA_ATTACH_DELAY":     defaults.MediaAttachDelay,
		"MEDIA_UPLOAD_DELAY":     defaults.MediaUploadDelay,
		"METAFIELD_SETTLE_DELAY": defaults.MetafieldSettleDelay,
		"VARIANT_INDEX_DELAY":    defaults.VariantIndexDelay,
		"VERIFY_TIMEOUT":         defaults.VerifyTimeout,
	} {
		d, err := getDurationOrViper(key, def)
		if err != nil {
			return nil, err
		}
		durations[key] = d
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Shopify: ShopifyConfig{
			ShopDomain:  strings.TrimSpace(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", "")),
			AccessToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_ACCESS_TOKEN", "")),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2024-10"),
			HTTPTimeout: durations["SHOPIFY_HTTP_TIMEOUT"],
		},
		PriceBandit: PriceBanditConfig{
			BaseURL:    strings.TrimSpace(getEnvOrViper("PRICE_BANDIT_URL", "")),
			ServiceKey: strings.TrimSpace(getEnvOrViper("PRICE_BANDIT_SERVICE_KEY", "")),
		},
		API: APIConfig{
			KeyHash: strings.TrimSpace(getEnvOrViper("API_KEY_HASH", "")),
		},
		Timing: TimingConfig{
			MediaAttachDelay:     durations["MEDIA_ATTACH_DELAY"],
			MediaUploadDelay:     durations["MEDIA_UPLOAD_DELAY"],
			MetafieldSettleDelay: durations["METAFIELD_SETTLE_DELAY"],
			VariantIndexDelay:    durations["VARIANT_INDEX_DELAY"],
			VerifyTimeout:        durations["VERIFY_TIMEOUT"],
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Shopify.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if cfg.Shopify.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

// getDurationOrViper accepts Go durations ("1500ms", "2s")
func getDurationOrViper(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getEnvOrViper(key, ""))
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, raw)
	}
	return d, nil
}
