package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	Group    string
	Consumer string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

type SecurityConfig struct {
	JWTSecret          string
	SessionTTL         time.Duration
	ConfirmationTTL    time.Duration
	PasswordResetTTL   time.Duration
	OnboardingTTL      time.Duration
	TempPasswordLength int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type FrontendConfig struct {
	BaseURL         string
	CustomerBaseURL string
}

type DefaultAdminConfig struct {
	Email    string
	Password string
}

type MaintenanceConfig struct {
	UnverifiedMaxAge time.Duration
	ClaimInterval    time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	SMTP             SMTPConfig
	Frontend         FrontendConfig
	DefaultAdmin     DefaultAdminConfig
	Maintenance      MaintenanceConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("AUTO2G")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "accounts:maintenance")
	v.SetDefault("redis.group", "maintenance-workers")
	v.SetDefault("redis.consumer", "worker-1")

	v.SetDefault("storage.bucket", "auto2g-media")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.sessionttl", "240h") // 10 days
	v.SetDefault("security.confirmationttl", "2h")
	v.SetDefault("security.passwordresetttl", "30m")
	v.SetDefault("security.onboardingttl", "2h")
	v.SetDefault("security.temppasswordlength", 10)

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.fromname", "Auto2G")

	v.SetDefault("frontend.baseurl", "http://localhost:3000")
	v.SetDefault("frontend.customerbaseurl", "http://localhost:3001")

	v.SetDefault("maintenance.unverifiedmaxage", "720h") // 30 days
	v.SetDefault("maintenance.claiminterval", "60s")
}
