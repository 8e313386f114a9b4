package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the gateway service.
// Values come from config.defaults.yaml (if present) overridden by
// environment variables; the WhatsApp credentials are usually supplied
// through the environment (or a .env file loaded before Load is called).
type Config struct {
	ServerPort int    `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	WhatsAppAPIVersion    string `mapstructure:"WHATSAPP_API_VERSION"`
	WhatsAppAPIBaseURL    string `mapstructure:"WHATSAPP_API_BASE_URL"`
	WhatsAppPhoneNumberID string `mapstructure:"WHATSAPP_PHONE_NUMBER_ID"`
	WhatsAppAccessToken   string `mapstructure:"WHATSAPP_ACCESS_TOKEN"`
	WhatsAppVerifyToken   string `mapstructure:"WHATSAPP_VERIFY_TOKEN"`
}

// Load reads configuration for the named service. A missing config file is
// not an error; defaults plus environment variables are enough to start.
// Missing WhatsApp credentials are also not fatal here; the service must
// come up without them so the /health endpoint can report what is absent.
func Load(serviceName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WHATSAPP_API_VERSION", "v19.0")
	v.SetDefault("WHATSAPP_API_BASE_URL", "https://graph.facebook.com")
	v.SetDefault("WHATSAPP_PHONE_NUMBER_ID", "")
	v.SetDefault("WHATSAPP_ACCESS_TOKEN", "")
	v.SetDefault("WHATSAPP_VERIFY_TOKEN", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Configuration file not found for %s; using defaults and environment variables.", serviceName)
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MissingCredentials returns the names of required WhatsApp settings that
// are unset. A non-empty result means outbound sends and webhook
// verification cannot work yet, but the process itself keeps running.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.WhatsAppPhoneNumberID == "" {
		missing = append(missing, "WHATSAPP_PHONE_NUMBER_ID")
	}
	if c.WhatsAppAccessToken == "" {
		missing = append(missing, "WHATSAPP_ACCESS_TOKEN")
	}
	if c.WhatsAppVerifyToken == "" {
		missing = append(missing, "WHATSAPP_VERIFY_TOKEN")
	}
	return missing
}
