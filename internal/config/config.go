package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store       StoreConfig    `yaml:"store" mapstructure:"store"`
	Attom       ProviderCreds  `yaml:"attom" mapstructure:"attom"`
	Repliers    ProviderCreds  `yaml:"repliers" mapstructure:"repliers"`
	DealMachine ProviderCreds  `yaml:"dealmachine" mapstructure:"dealmachine"`
	Fetch       FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Scoring     ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	Populate    PopulateConfig `yaml:"populate" mapstructure:"populate"`
	Geocode     GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Server      ServerConfig   `yaml:"server" mapstructure:"server"`
	Log         LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // postgres | sqlite
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ProviderCreds holds one lead provider's credentials and endpoint.
type ProviderCreds struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// FetchConfig configures the shared provider HTTP client.
type FetchConfig struct {
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries    int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	UserAgent     string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxResponseMB int     `yaml:"max_response_mb" mapstructure:"max_response_mb"`
}

// ScoringConfig holds the deal-scoring tunables. Defaults live in
// scoring.DefaultConfig; an optional standalone YAML file can override them
// (see scoring.LoadTunables).
type ScoringConfig struct {
	MAOMultiplier        float64 `yaml:"mao_multiplier" mapstructure:"mao_multiplier"`
	DefaultAssignmentFee float64 `yaml:"default_assignment_fee" mapstructure:"default_assignment_fee"`
	DefaultClosingCosts  float64 `yaml:"default_closing_costs" mapstructure:"default_closing_costs"`

	// Repair cost per sqft by condition.
	RepairCostExcellent float64 `yaml:"repair_cost_excellent" mapstructure:"repair_cost_excellent"`
	RepairCostGood      float64 `yaml:"repair_cost_good" mapstructure:"repair_cost_good"`
	RepairCostAverage   float64 `yaml:"repair_cost_average" mapstructure:"repair_cost_average"`
	RepairCostFair      float64 `yaml:"repair_cost_fair" mapstructure:"repair_cost_fair"`
	RepairCostPoor      float64 `yaml:"repair_cost_poor" mapstructure:"repair_cost_poor"`
	RepairCostDefault   float64 `yaml:"repair_cost_default" mapstructure:"repair_cost_default"`
	RepairFloor         float64 `yaml:"repair_floor" mapstructure:"repair_floor"`
	RepairNoSqftDefault float64 `yaml:"repair_no_sqft_default" mapstructure:"repair_no_sqft_default"`

	// ARV fallbacks.
	AssessedValueMultiplier float64 `yaml:"assessed_value_multiplier" mapstructure:"assessed_value_multiplier"`
	AnnualAppreciation      float64 `yaml:"annual_appreciation" mapstructure:"annual_appreciation"`
	YearsSinceSale          int     `yaml:"years_since_sale" mapstructure:"years_since_sale"`

	// Composite score weights (sum to 1.0).
	SpreadWeight float64 `yaml:"spread_weight" mapstructure:"spread_weight"`
	ARVWeight    float64 `yaml:"arv_weight" mapstructure:"arv_weight"`
	EquityWeight float64 `yaml:"equity_weight" mapstructure:"equity_weight"`

	AbsenteeBonus float64 `yaml:"absentee_bonus" mapstructure:"absentee_bonus"`

	// Reference year for the age-banding condition heuristic.
	ReferenceYear int `yaml:"reference_year" mapstructure:"reference_year"`
}

// PopulateConfig configures campaign population runs.
type PopulateConfig struct {
	DefaultLimit   int `yaml:"default_limit" mapstructure:"default_limit"`
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency"`
}

// GeocodeConfig configures the geocoder.
type GeocodeConfig struct {
	Provider         string `yaml:"provider" mapstructure:"provider"` // "stub" only for now
	BatchConcurrency int    `yaml:"batch_concurrency" mapstructure:"batch_concurrency"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Provider credentials default to empty so the keys are
	// registered and env-only values survive Unmarshal.
	v.SetDefault("attom.api_key", "")
	v.SetDefault("attom.base_url", "")
	v.SetDefault("repliers.api_key", "")
	v.SetDefault("repliers.base_url", "")
	v.SetDefault("dealmachine.api_key", "")
	v.SetDefault("dealmachine.base_url", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadgen.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.rate_per_sec", 5)
	v.SetDefault("fetch.rate_burst", 5)
	v.SetDefault("fetch.user_agent", "leadgen-cli/1.0")
	v.SetDefault("fetch.max_response_mb", 10)
	v.SetDefault("populate.default_limit", 100)
	v.SetDefault("populate.max_concurrency", 3)
	v.SetDefault("geocode.provider", "stub")
	v.SetDefault("geocode.batch_concurrency", 8)

	v.SetDefault("scoring.mao_multiplier", 0.70)
	v.SetDefault("scoring.default_assignment_fee", 5000)
	v.SetDefault("scoring.default_closing_costs", 3000)
	v.SetDefault("scoring.repair_cost_excellent", 0)
	v.SetDefault("scoring.repair_cost_good", 10)
	v.SetDefault("scoring.repair_cost_average", 25)
	v.SetDefault("scoring.repair_cost_fair", 40)
	v.SetDefault("scoring.repair_cost_poor", 60)
	v.SetDefault("scoring.repair_cost_default", 30)
	v.SetDefault("scoring.repair_floor", 5000)
	v.SetDefault("scoring.repair_no_sqft_default", 15000)
	v.SetDefault("scoring.assessed_value_multiplier", 1.15)
	v.SetDefault("scoring.annual_appreciation", 0.03)
	v.SetDefault("scoring.years_since_sale", 5)
	v.SetDefault("scoring.spread_weight", 0.5)
	v.SetDefault("scoring.arv_weight", 0.3)
	v.SetDefault("scoring.equity_weight", 0.2)
	v.SetDefault("scoring.absentee_bonus", 5)
	v.SetDefault("scoring.reference_year", 2024)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
