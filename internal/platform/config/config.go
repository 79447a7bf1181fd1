package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration, parsed from the environment so
// main stays lean.
type Config struct {
	Server    Server          `envPrefix:"SERVER_"`
	Log       LogConfig       `envPrefix:"LOG_"`
	Kafka     KafkaConfig     `envPrefix:"KAFKA_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Postgres  PostgresConfig  `envPrefix:"POSTGRES_"`
	Inspector InspectorConfig `envPrefix:"INSPECTOR_"`
	Geo       GeoConfig       `envPrefix:"GEO_"`
	Auth      AuthConfig      `envPrefix:"AUTH_"`
	Otel      OtelConfig      `envPrefix:"OTEL_"`
	Audit     AuditConfig     `envPrefix:"AUDIT_"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"ADDR" envDefault:":8022"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// KafkaConfig lists the brokers and the compacted command topics. Each topic
// carries one command family for one domain.
type KafkaConfig struct {
	Brokers      []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	ClientID     string   `env:"CLIENT_ID" envDefault:"fraudgate"`
	CreateTopics bool     `env:"CREATE_TOPICS" envDefault:"false"`
	Partitions   int32    `env:"TOPIC_PARTITIONS" envDefault:"1"`
	Replication  int16    `env:"TOPIC_REPLICATION" envDefault:"1"`

	TopicRule              string `env:"TOPIC_RULE" envDefault:"template"`
	TopicBinding           string `env:"TOPIC_BINDING" envDefault:"template_reference"`
	TopicGroup             string `env:"TOPIC_GROUP" envDefault:"group_list"`
	TopicGroupReference    string `env:"TOPIC_GROUP_REFERENCE" envDefault:"group_reference"`
	TopicP2PRule           string `env:"TOPIC_P2P_RULE" envDefault:"template_p2p"`
	TopicP2PBinding        string `env:"TOPIC_P2P_BINDING" envDefault:"template_p2p_reference"`
	TopicP2PGroup          string `env:"TOPIC_P2P_GROUP" envDefault:"group_p2p_list"`
	TopicP2PGroupReference string `env:"TOPIC_P2P_GROUP_REFERENCE" envDefault:"group_p2p_reference"`
}

// RedisConfig configures the shared Redis client. An empty URL disables Redis
// and in-memory stores are used instead.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"20"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"2s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"200ms"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"200ms"`
}

// PostgresConfig points at the analytics database that owns the payment
// history and the black/white lists. An empty DSN disables both adapters.
type PostgresConfig struct {
	DSN             string        `env:"DSN"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
}

// InspectorConfig tunes the request path.
type InspectorConfig struct {
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT" envDefault:"1500ms"`
	CallTimeout         time.Duration `env:"CALL_TIMEOUT" envDefault:"300ms"`
	EscalationWindow    time.Duration `env:"ESCALATION_WINDOW" envDefault:"10m"`
	EscalationThreshold int           `env:"ESCALATION_THRESHOLD" envDefault:"1"`
	RecencyCapacity     int           `env:"RECENCY_CAPACITY" envDefault:"100000"`
}

// GeoConfig points at the geo IP service.
type GeoConfig struct {
	URL      string        `env:"URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"1h"`
}

// AuthConfig protects the inspector API with HMAC-signed service tokens. An
// empty signing key disables authentication (local development only).
type AuthConfig struct {
	SigningKey string `env:"SIGNING_KEY"`
	Audience   string `env:"AUDIENCE" envDefault:"fraud-inspector"`
}

// OtelConfig enables OTLP/HTTP trace export. Tracing stays off without an
// endpoint.
type OtelConfig struct {
	Enabled     bool    `env:"ENABLED" envDefault:"true"`
	Endpoint    string  `env:"ENDPOINT"`
	ServiceName string  `env:"SERVICE_NAME" envDefault:"fraudgate"`
	SampleRatio float64 `env:"SAMPLE_RATIO" envDefault:"0.1"`
}

// AuditConfig controls publishing of inspection results to Kafka.
type AuditConfig struct {
	Enabled       bool          `env:"ENABLED" envDefault:"true"`
	Topic         string        `env:"TOPIC" envDefault:"result"`
	BufferSize    int           `env:"BUFFER_SIZE" envDefault:"10000"`
	BatchSize     int           `env:"BATCH_SIZE" envDefault:"200"`
	FlushInterval time.Duration `env:"FLUSH_INTERVAL" envDefault:"500ms"`
	LowSampleRate float64       `env:"LOW_SAMPLE_RATE" envDefault:"1"`
}

// FromEnv parses the process configuration.
func FromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.Inspector.RequestTimeout <= 0 {
		return fmt.Errorf("INSPECTOR_REQUEST_TIMEOUT must be positive")
	}
	if c.Inspector.CallTimeout <= 0 || c.Inspector.CallTimeout > c.Inspector.RequestTimeout {
		return fmt.Errorf("INSPECTOR_CALL_TIMEOUT must be positive and not exceed INSPECTOR_REQUEST_TIMEOUT")
	}
	if c.Inspector.EscalationThreshold < 1 {
		return fmt.Errorf("INSPECTOR_ESCALATION_THRESHOLD must be at least 1")
	}
	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATIO must be within [0, 1]")
	}
	if c.Audit.Enabled {
		if c.Audit.Topic == "" {
			return fmt.Errorf("AUDIT_TOPIC is required when auditing is enabled")
		}
		if c.Audit.BatchSize < 1 || c.Audit.BufferSize < c.Audit.BatchSize {
			return fmt.Errorf("AUDIT_BATCH_SIZE must be positive and not exceed AUDIT_BUFFER_SIZE")
		}
		if c.Audit.LowSampleRate < 0 || c.Audit.LowSampleRate > 1 {
			return fmt.Errorf("AUDIT_LOW_SAMPLE_RATE must be within [0, 1]")
		}
	}
	return nil
}
