package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultSymbolMosaicID        = "44FD959F9F2ECF4D"
	DefaultSymbolEpochAdjustment = 1615853188
	DefaultSymbolFeeMultiplier   = 100
	DefaultMaxRepsPerWorkout     = 2000

	DefaultClearHistoryRateLimitPerMin = 5
	DefaultSuzuriUserID                = "temple010101"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port" validate:"required,min=1,max=65535"`
	MetricsHost string `toml:"metrics_host"`
	MetricsPort int    `toml:"metrics_port" validate:"required,min=1,max=65535,nefield=Port"`

	// logging
	LogLevel      string `toml:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`
	// peers allowed to set X-Real-Ip / X-Forwarded-For, ips or cidrs
	TrustedProxies []string `toml:"trusted_proxies" validate:"dive,cidr|ip"`

	// symbol ledger
	SymbolNodeURL         string        `toml:"symbol_node_url" validate:"required,url"`
	SymbolMosaicID        string        `toml:"symbol_mosaic_id" validate:"required,hexadecimal,len=16"`
	SymbolFeeMultiplier   uint32        `toml:"symbol_fee_multiplier"`
	SymbolEpochAdjustment int64         `toml:"symbol_epoch_adjustment" validate:"gt=0"`
	SymbolRequestTimeout  time.Duration `toml:"symbol_request_timeout"`

	// gemini
	GeminiModel           string `toml:"gemini_model"`
	GeminiMaxOutputTokens int    `toml:"gemini_max_output_tokens" validate:"gte=0"`

	// rewards
	MaxRepsPerWorkout              int `toml:"max_reps_per_workout" validate:"gt=0"`
	SendTransactionRateLimitPerMin int `toml:"send_transaction_rate_limit_per_min" validate:"gte=0"`
	ClearHistoryRateLimitPerMin    int `toml:"clear_history_rate_limit_per_min" validate:"gte=0"`
	// bounds the history write and event publish after a transfer is announced
	RewardRecordTimeout time.Duration `toml:"reward_record_timeout" validate:"gte=0"`

	// postgres
	DBHost string `toml:"db_host" validate:"required"`
	DBPort string `toml:"db_port" validate:"required,numeric"`
	DBName string `toml:"db_name" validate:"required"`

	// redis
	RedisHost string `toml:"redis_host" validate:"required"`
	RedisPort string `toml:"redis_port" validate:"required,numeric"`

	// suzuri
	SuzuriEndpoint string        `toml:"suzuri_endpoint" validate:"omitempty,url"`
	SuzuriUserID   string        `toml:"suzuri_user_id" validate:"required"`
	SuzuriCacheTTL time.Duration `toml:"suzuri_cache_ttl"`

	// kafka, optional
	KafkaBrokers     []string `toml:"kafka_brokers" validate:"dive,hostname_port"`
	KafkaRewardTopic string   `toml:"kafka_reward_topic" validate:"required_with=KafkaBrokers"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

var validate = validator.New()

// Load reads the section of env from the TOML file at path, fills in defaults and validates it.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return t.load(env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.load(env)
}

func (t *Toml) load(env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	cfg.applyDefaults()
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SymbolMosaicID == "" {
		c.SymbolMosaicID = DefaultSymbolMosaicID
	}
	if c.SymbolEpochAdjustment == 0 {
		c.SymbolEpochAdjustment = DefaultSymbolEpochAdjustment
	}
	if c.SymbolFeeMultiplier == 0 {
		c.SymbolFeeMultiplier = DefaultSymbolFeeMultiplier
	}
	if c.SymbolRequestTimeout == 0 {
		c.SymbolRequestTimeout = 15 * time.Second
	}
	if c.MaxRepsPerWorkout == 0 {
		c.MaxRepsPerWorkout = DefaultMaxRepsPerWorkout
	}
	if c.ClearHistoryRateLimitPerMin == 0 {
		c.ClearHistoryRateLimitPerMin = DefaultClearHistoryRateLimitPerMin
	}
	if c.RewardRecordTimeout == 0 {
		c.RewardRecordTimeout = 5 * time.Second
	}
	if c.SuzuriUserID == "" {
		c.SuzuriUserID = DefaultSuzuriUserID
	}
	if c.SuzuriCacheTTL == 0 {
		c.SuzuriCacheTTL = 10 * time.Minute
	}
}
