package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Cron      CronConfig      `mapstructure:"cron"`
	YouTube   YouTubeConfig   `mapstructure:"youtube"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Enrich    EnrichConfig    `mapstructure:"enrich"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Discovery string `mapstructure:"discovery"`
	Cleanup   string `mapstructure:"cleanup"`
}

type YouTubeConfig struct {
	// APIKeys is the rotation set; the service refuses to start when empty.
	APIKeys        []string      `mapstructure:"api_keys"`
	SearchTimeout  time.Duration `mapstructure:"search_timeout"`
	ChannelTimeout time.Duration `mapstructure:"channel_timeout"`
	RegionCode     string        `mapstructure:"region_code"`
}

type DiscoveryConfig struct {
	QueryWorkers   int           `mapstructure:"query_workers"`
	BatchSize      int           `mapstructure:"batch_size"`
	MaxResults     int           `mapstructure:"max_results"`
	MaxSongs       int           `mapstructure:"max_songs"`
	RecencyDays    int           `mapstructure:"recency_days"`
	MinSubscribers int64         `mapstructure:"min_subscribers"`
	SearchDelay    time.Duration `mapstructure:"search_delay"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

type EnrichConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.discovery", "@every 6h")
	v.SetDefault("cron.cleanup", "@every 24h")
	v.SetDefault("youtube.search_timeout", "10s")
	v.SetDefault("youtube.channel_timeout", "8s")
	v.SetDefault("youtube.region_code", "KE")
	v.SetDefault("discovery.query_workers", 3)
	v.SetDefault("discovery.batch_size", 5)
	v.SetDefault("discovery.max_results", 50)
	v.SetDefault("discovery.max_songs", 50)
	v.SetDefault("discovery.recency_days", 30)
	v.SetDefault("discovery.min_subscribers", 10000)
	v.SetDefault("discovery.search_delay", "1s")
	v.SetDefault("discovery.cache_ttl", "24h")
	v.SetDefault("enrich.enabled", false)
	v.SetDefault("enrich.model", "")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
