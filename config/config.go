package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/nhaugen/kraftpris-go/logging"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
	// Clients must present this key as access_token header or query param
	ApiKey string `mapstructure:"api_key"`
}

type AppConfigDatabase struct {
	Path string
	// How many days daily backup files should be stored before they gets deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

type AppConfigEnergyPrice struct {
	Url   string `mapstructure:"url"`   // ENTSO-E transparency platform base URL, default when empty
	Token string `mapstructure:"token"` // ENTSO-E security token
	Area  string `mapstructure:"area"`  // Bidding zone, e.g. "10YNO-2--------T" for NO2
	RunAt string `mapstructure:"run_at"`
}

func (e AppConfigEnergyPrice) GetRunAt() string {
	if e.RunAt == "" {
		// Day-ahead auction results are published around 13:00 CET
		return "15 13 * * *"
	}
	return e.RunAt
}

type AppConfigExchangeRate struct {
	Url string `mapstructure:"url"` // Norges Bank API base URL, default when empty
}

type AppConfigPricing struct {
	VatRate *float64 `mapstructure:"vat_rate"` // VAT on the energy price, default 0.25
}

func (p AppConfigPricing) GetVatRate() float64 {
	if p.VatRate == nil {
		return 0.25
	}
	return *p.VatRate
}

type AppConfigCache struct {
	TtlSeconds *int `mapstructure:"ttl_seconds"` // Day-ahead cache TTL, default 600
	MaxEntries *int `mapstructure:"max_entries"` // Day-ahead cache capacity, default 1024
}

func (c AppConfigCache) GetTtlSeconds() int {
	if c.TtlSeconds == nil {
		return 600
	}
	return *c.TtlSeconds
}

func (c AppConfigCache) GetMaxEntries() int {
	if c.MaxEntries == nil {
		return 1024
	}
	return *c.MaxEntries
}

type AppConfigMqtt struct {
	Host     string // Leave empty to disable the MQTT price feed
	Port     int16
	Username string
	Password string
	Topic    *string `mapstructure:"topic"`
}

func (m AppConfigMqtt) GetTopic() string {
	if m.Topic == nil {
		return "kraftpris/day_ahead"
	}
	return *m.Topic
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return "JSON"
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return "TEXT"
	}
	return "JSON"
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api          AppConfigApi
	Database     AppConfigDatabase
	EnergyPrice  AppConfigEnergyPrice  `mapstructure:"energy_price"`
	ExchangeRate AppConfigExchangeRate `mapstructure:"exchange_rate"`
	Pricing      AppConfigPricing
	Cache        AppConfigCache
	Mqtt         AppConfigMqtt
	Logging      AppConfigLogging
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		slog.Default().Info("config file changed, restart to apply", slog.String("file", e.Name))
	})
	viper.WatchConfig()

	return &c, nil
}
