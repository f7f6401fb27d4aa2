package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Ticker TickerConfig `mapstructure:"ticker"`
	Live   LiveConfig   `mapstructure:"live"`
	Clock  ClockConfig  `mapstructure:"clock"`
	Logger LoggerConfig `mapstructure:"logger"`
}

type AppConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"` // e.g., "local", "prod"
}

// RedisConfig backs the session store. When disabled, sessions live in process
// memory. SessionTTL applies to both.
type RedisConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type KafkaConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Brokers     []string `mapstructure:"brokers"`
	Topic       string   `mapstructure:"topic"`
	GroupID     string   `mapstructure:"group_id"`     // consumer group of `tickerd tail`
	TailWorkers int      `mapstructure:"tail_workers"` // records are sharded by symbol
}

type TickerConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	InstrumentsFile string        `mapstructure:"instruments_file"`
}

type LiveConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	Cycle      time.Duration `mapstructure:"cycle"`
	PriceFloor float64       `mapstructure:"price_floor"`
}

type ClockConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timezone string        `mapstructure:"timezone"`
	Label    string        `mapstructure:"label"`
}

type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // "json" or "console"
}

// LoadConfig reads configuration from an optional file, the .env file, environment variables, and defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()

	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, relying on System Env Vars")
	}

	setDefaults(v)

	for _, p := range paths {
		if p == "" {
			continue
		}
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", p, err)
		}
	}

	// "app.port" -> "APP_PORT"
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v, "app.port", "app.env")
	bindEnv(v, "redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.session_ttl")
	bindEnv(v, "kafka.enabled", "kafka.brokers", "kafka.topic", "kafka.group_id", "kafka.tail_workers")
	bindEnv(v, "ticker.interval", "ticker.instruments_file")
	bindEnv(v, "live.interval", "live.cycle", "live.price_floor")
	bindEnv(v, "clock.interval", "clock.timezone", "clock.label")
	bindEnv(v, "logger.level", "logger.encoding")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", ":8080")
	v.SetDefault("app.env", "local")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.session_ttl", 30*time.Minute)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "ticker_frames")
	v.SetDefault("kafka.group_id", "tickerd-tail")
	v.SetDefault("kafka.tail_workers", 4)

	v.SetDefault("ticker.interval", 4500*time.Millisecond)
	v.SetDefault("ticker.instruments_file", "")

	v.SetDefault("live.interval", 2600*time.Millisecond)
	v.SetDefault("live.cycle", 42*time.Second)
	v.SetDefault("live.price_floor", 0.5)

	v.SetDefault("clock.interval", time.Second)
	v.SetDefault("clock.timezone", "Asia/Kolkata")
	v.SetDefault("clock.label", "IST")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
}

// Validate checks the values that would otherwise break the timers or the feed.
func (c *Config) Validate() error {
	var errs []error
	if c.Ticker.Interval <= 0 {
		errs = append(errs, errors.New("ticker.interval must be positive"))
	}
	if c.Live.Interval <= 0 {
		errs = append(errs, errors.New("live.interval must be positive"))
	}
	if c.Live.Cycle <= 0 {
		errs = append(errs, errors.New("live.cycle must be positive"))
	}
	if c.Live.PriceFloor <= 0 {
		errs = append(errs, errors.New("live.price_floor must be positive"))
	}
	if c.Clock.Interval <= 0 {
		errs = append(errs, errors.New("clock.interval must be positive"))
	}
	if c.Redis.SessionTTL <= 0 {
		errs = append(errs, errors.New("redis.session_ttl must be positive"))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka brokers cannot be empty"))
	}
	if c.Kafka.TailWorkers <= 0 {
		errs = append(errs, errors.New("kafka.tail_workers must be positive"))
	}
	return errors.Join(errs...)
}

// bindEnv is a helper to bind multiple keys at once
func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			log.Printf("Could not bind env var for key %s: %v", key, err)
		}
	}
}
