package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del backtester.
type Config struct {
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Feed      FeedConfig      `yaml:"feed"`
	Strategy  StrategyConfig  `yaml:"strategy"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// PortfolioConfig parametriza el ledger. Capital y trade amount son
// siempre explícitos acá, nunca globals.
type PortfolioConfig struct {
	InitialCapital float64  `yaml:"initial_capital"`
	TradeAmount    float64  `yaml:"trade_amount"`
	FeeRate        *float64 `yaml:"fee_rate"` // omitido = 0.001; 0 explícito desactiva fees
}

// FeedConfig controla la descarga de velas.
type FeedConfig struct {
	BaseURL  string `yaml:"base_url"` // vacío = Binance de producción
	Symbol   string `yaml:"symbol"`
	Interval string `yaml:"interval"`
	Limit    int    `yaml:"limit"`
}

// StrategyConfig controla la fuente de señales de cruce incorporada.
type StrategyConfig struct {
	FastWindow int `yaml:"fast_window"`
	SlowWindow int `yaml:"slow_window"`
}

// StorageConfig controla dónde se persisten los runs.
type StorageConfig struct {
	DSN          string `yaml:"dsn"`           // ruta al archivo SQLite, o ":memory:"
	SnapshotPath string `yaml:"snapshot_path"` // snapshot JSON del ledger, opcional
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben las keys del YAML que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		cfg.Feed.BaseURL = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Portfolio.InitialCapital <= 0 {
		cfg.Portfolio.InitialCapital = 5
	}
	if cfg.Portfolio.TradeAmount <= 0 {
		cfg.Portfolio.TradeAmount = 1000
	}
	if cfg.Portfolio.FeeRate == nil {
		fee := 0.001 // 0.1%, la comisión spot estándar de Binance
		cfg.Portfolio.FeeRate = &fee
	}
	if cfg.Feed.Symbol == "" {
		cfg.Feed.Symbol = "XRPBTC"
	}
	if cfg.Feed.Interval == "" {
		cfg.Feed.Interval = "1m"
	}
	if cfg.Feed.Limit <= 0 {
		cfg.Feed.Limit = 500
	}
	if cfg.Strategy.FastWindow <= 0 {
		cfg.Strategy.FastWindow = 7
	}
	if cfg.Strategy.SlowWindow <= cfg.Strategy.FastWindow {
		cfg.Strategy.SlowWindow = 25
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "cryptoledger.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
