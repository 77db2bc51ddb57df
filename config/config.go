package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// EnvPrefix is prepended to every environment override, e.g. CITYCOUNT_UPSTREAM_URL.
const EnvPrefix = "CITYCOUNT"

const (
	ExtractionPattern    = "pattern"
	ExtractionStructural = "structural"
)

type Config struct {
	Mode     string `mapstructure:"mode" validate:"required,oneof=development production"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Enabled bool   `mapstructure:"enabled"`
			Port    string `mapstructure:"port" validate:"omitempty,numeric"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort" validate:"required,numeric"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout" validate:"gt=0"`
		Swagger  bool          `mapstructure:"swagger"`
	} `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
}

// UpstreamConfig describes the city list endpoint the service proxies.
type UpstreamConfig struct {
	URL         string        `mapstructure:"url" validate:"required,url"`
	APIKey      string        `mapstructure:"apiKey"`
	APIKeyParam string        `mapstructure:"apiKeyParam" validate:"required_with=APIKey"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Extraction  string        `mapstructure:"extraction" validate:"required,oneof=pattern structural"`
	NamePath    string        `mapstructure:"namePath" validate:"required_if=Extraction structural"`
	CacheTTL    time.Duration `mapstructure:"cacheTTL" validate:"gte=0"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// APP_ENV picks the run mode the same way it picks the log handler.
	if err := v.BindEnv("mode", EnvPrefix+"_MODE", "APP_ENV"); err != nil {
		return Config{}, fmt.Errorf("failed to bind mode env: %w", err)
	}

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	// Variables from the dotenv file feed the env overrides above; values
	// already present in the environment win.
	if dotenv := v.GetString("dotenv"); dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil {
			fmt.Printf("Warning: %s file not found or error loading: %s\n", dotenv, err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err = Validate(config); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// Validate checks the loaded configuration against its struct tags.
func Validate(config Config) error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
