package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DatabaseDriver represents supported database drivers
type DatabaseDriver string

const (
	DriverMySQL    DatabaseDriver = "mysql"
	DriverPostgres DatabaseDriver = "postgres"
	DriverMongoDB  DatabaseDriver = "mongodb"
	DriverSQLite   DatabaseDriver = "sqlite"
)

// ActivationSink selects where activation events are published
type ActivationSink string

const (
	SinkQueue ActivationSink = "queue"
	SinkKafka ActivationSink = "kafka"
	SinkBoth  ActivationSink = "both"
)

// Config holds all application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler"`
	Activation    ActivationConfig    `mapstructure:"activation"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Admin         AdminConfig         `mapstructure:"admin"`
	Registration  RegistrationConfig  `mapstructure:"registration"`
	GraphQL       GraphQLConfig       `mapstructure:"graphql"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string          `mapstructure:"host"`
	Port            int             `mapstructure:"port"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration   `mapstructure:"idle_timeout"`
	AllowedOrigins  []string        `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig throttles the public registration endpoints per client IP
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Rate    int           `mapstructure:"rate"`
	Period  time.Duration `mapstructure:"period"`
	Burst   int           `mapstructure:"burst"`
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// sqlite file path; ":memory:" for an ephemeral database
	Path string `mapstructure:"path"`
	// MongoDB-specific settings
	AuthSource string `mapstructure:"auth_source"`
	ReplicaSet string `mapstructure:"replica_set"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig holds JWT token settings
type JWTConfig struct {
	Secret               string        `mapstructure:"secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	Issuer               string        `mapstructure:"issuer"`
}

// LogConfig holds logger settings. Level may be changed at runtime by
// editing the config file.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	Encoding    string `mapstructure:"encoding"`
}

// ObservabilityConfig holds metrics and tracing settings
type ObservabilityConfig struct {
	MetricsEnabled bool    `mapstructure:"metrics_enabled"`
	MetricsPath    string  `mapstructure:"metrics_path"`
	TracingEnabled bool    `mapstructure:"tracing_enabled"`
	ExporterType   string  `mapstructure:"exporter_type"`
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure   bool    `mapstructure:"otlp_insecure"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// ActivationConfig controls how approved applications become trainer accounts
type ActivationConfig struct {
	Sink          ActivationSink `mapstructure:"sink"`
	SweepSchedule string         `mapstructure:"sweep_schedule"`
	BatchSize     int            `mapstructure:"batch_size"`
	// FastPath dispatches right after approval instead of waiting for the sweep
	FastPath bool `mapstructure:"fast_path"`
}

// UsesQueue reports whether events go to the job queue
func (c *ActivationConfig) UsesQueue() bool {
	return c.Sink == SinkQueue || c.Sink == SinkBoth
}

// UsesKafka reports whether events go to Kafka
func (c *ActivationConfig) UsesKafka() bool {
	return c.Sink == SinkKafka || c.Sink == SinkBoth
}

// KafkaConfig holds the activation topic writer settings
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	ClientID     string        `mapstructure:"client_id"`
	RequiredAcks int           `mapstructure:"required_acks"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AdminConfig seeds the first administrator account
type AdminConfig struct {
	Email     string `mapstructure:"email"`
	Password  string `mapstructure:"password"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
}

// Enabled reports whether bootstrap credentials were supplied
func (c *AdminConfig) Enabled() bool {
	return c.Email != "" && c.Password != ""
}

// RegistrationConfig holds registration policy
type RegistrationConfig struct {
	MinimumAge int `mapstructure:"minimum_age"`
	// BcryptCost is clamped to bcrypt's accepted range.
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// GraphQLConfig holds the admin GraphQL endpoint settings
type GraphQLConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Path             string `mapstructure:"path"`
	EnablePlayground bool   `mapstructure:"enable_playground"`
	PlaygroundPath   string `mapstructure:"playground_path"`
}

// Loader reads configuration and keeps watching the file for changes.
type Loader struct {
	v *viper.Viper
}

// NewLoader prepares a viper instance with file paths, env binding and defaults
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fithub/")

	v.SetEnvPrefix("FITHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return &Loader{v: v}
}

// SetConfigFile reads an explicit file instead of searching the default paths
func (l *Loader) SetConfigFile(path string) {
	l.v.SetConfigFile(path)
}

// Load reads configuration from file and environment variables
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Watch calls onChange with the re-read configuration each time the config
// file changes. Invalid edits are reported through onError and ignored.
// It does nothing when no config file was found.
func (l *Loader) Watch(onChange func(*Config), onError func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.decode()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}

// Load reads configuration using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fithub-onboarding")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", true)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rate", 30)
	v.SetDefault("server.rate_limit.period", time.Minute)
	v.SetDefault("server.rate_limit.burst", 10)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.name", "fithub")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "fithub.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_token_duration", time.Hour)
	v.SetDefault("jwt.refresh_token_duration", 30*24*time.Hour)
	v.SetDefault("jwt.issuer", "fithub")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.encoding", "json")

	v.SetDefault("observability.metrics_enabled", true)
	v.SetDefault("observability.metrics_path", "/metrics")
	v.SetDefault("observability.tracing_enabled", false)
	v.SetDefault("observability.exporter_type", "stdout")
	v.SetDefault("observability.otlp_endpoint", "localhost:4317")
	v.SetDefault("observability.otlp_insecure", true)
	v.SetDefault("observability.sampling_rate", 1.0)

	setJobDefaults(v)

	v.SetDefault("activation.sink", SinkQueue)
	v.SetDefault("activation.sweep_schedule", "@every 30s")
	v.SetDefault("activation.batch_size", 50)
	v.SetDefault("activation.fast_path", true)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "fithub.trainer.activations")
	v.SetDefault("kafka.client_id", "fithub-onboarding")
	v.SetDefault("kafka.required_acks", -1)
	v.SetDefault("kafka.batch_timeout", 10*time.Millisecond)
	v.SetDefault("kafka.write_timeout", 10*time.Second)

	v.SetDefault("admin.first_name", "Platform")
	v.SetDefault("admin.last_name", "Admin")

	v.SetDefault("registration.minimum_age", 13)
	v.SetDefault("registration.bcrypt_cost", 12)

	v.SetDefault("graphql.enabled", true)
	v.SetDefault("graphql.path", "/graphql")
	v.SetDefault("graphql.enable_playground", false)
	v.SetDefault("graphql.playground_path", "/playground")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	switch DatabaseDriver(c.Database.Driver) {
	case DriverMySQL, DriverPostgres, DriverMongoDB:
		if c.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Activation.Sink {
	case SinkQueue, SinkKafka, SinkBoth:
	default:
		return fmt.Errorf("unsupported activation sink %q", c.Activation.Sink)
	}
	if c.Activation.UsesKafka() && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required when activation sink is %q", c.Activation.Sink)
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.Rate <= 0 || c.Server.RateLimit.Period <= 0) {
		return fmt.Errorf("rate limit needs a positive rate and period")
	}
	if c.Registration.MinimumAge < 0 {
		return fmt.Errorf("registration minimum age must not be negative")
	}
	return nil
}

// DSN returns the database connection string for SQL databases.
func (c *DatabaseConfig) DSN() string {
	switch DatabaseDriver(c.Driver) {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.Name)
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	case DriverSQLite:
		return c.Path
	default:
		return ""
	}
}

// MongoURI returns the MongoDB connection URI.
func (c *DatabaseConfig) MongoURI() string {
	uri := fmt.Sprintf("mongodb://%s:%d/%s", c.Host, c.Port, c.Name)
	if c.User != "" && c.Password != "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.Name)
	}

	var params []string
	if c.AuthSource != "" {
		params = append(params, "authSource="+c.AuthSource)
	}
	if c.ReplicaSet != "" {
		params = append(params, "replicaSet="+c.ReplicaSet)
	}
	if len(params) > 0 {
		uri += "?" + strings.Join(params, "&")
	}
	return uri
}

// IsMongoDB returns true if MongoDB driver is configured.
func (c *DatabaseConfig) IsMongoDB() bool {
	return c.Driver == string(DriverMongoDB)
}

// IsSQL returns true for any gorm-backed driver.
func (c *DatabaseConfig) IsSQL() bool {
	switch DatabaseDriver(c.Driver) {
	case DriverMySQL, DriverPostgres, DriverSQLite:
		return true
	}
	return false
}
