package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvironmentPlaceholder is substituted in parameter names.
const EnvironmentPlaceholder = "{environment}"

type DBConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type ParameterStoreConfig struct {
	ConnectionStringParameterName string `mapstructure:"connection_string_parameter_name"`
	APIKeyParameterName           string `mapstructure:"api_key_parameter_name"`
}

type Config struct {
	Environment    string               `mapstructure:"environment"`
	HTTPAddr       string               `mapstructure:"http_addr"`
	LogLevel       string               `mapstructure:"log_level"`
	DatabaseURL    string               `mapstructure:"database_url"`
	DB             DBConfig             `mapstructure:"db"`
	APIKey         string               `mapstructure:"api_key"`
	AWSRegion      string               `mapstructure:"aws_region"`
	ParameterStore ParameterStoreConfig `mapstructure:"parameter_store"`
	AMQPURL        string               `mapstructure:"amqp_url"`
}

// Load reads .env, an optional config.yaml and the process environment.
// Environment variables win: DB_HOST overrides db.host and so on.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on OS environment variables")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("database_url", "")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.name", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("api_key", "")
	v.SetDefault("aws_region", "")
	v.SetDefault("parameter_store.connection_string_parameter_name", "/acme/{environment}/connection-string")
	v.SetDefault("parameter_store.api_key_parameter_name", "/acme/{environment}/api-key")
	v.SetDefault("amqp_url", "")
}

// IsDevelopment reports whether secrets come from local configuration.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "development")
}

// DSN returns database_url when set, otherwise a postgres URL built from db.*.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     c.DB.Host + ":" + c.DB.Port,
		Path:     "/" + c.DB.Name,
		RawQuery: "sslmode=" + c.DB.SSLMode,
	}
	return u.String()
}

// ParameterName expands the environment placeholder in name.
func (c *Config) ParameterName(name string) string {
	return strings.ReplaceAll(name, EnvironmentPlaceholder, strings.ToLower(strings.TrimSpace(c.Environment)))
}
