package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Runtime holds the settings every binary reads.
type Runtime struct {
	Environment string `env:"ENVIRONMENT, default=development"`
	LogLevel    string `env:"LOG_LEVEL,   default=info"`
}

// Development reports whether the binary runs in the development environment.
func (r Runtime) Development() bool {
	return r.Environment == "development"
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URL,   default=mongodb://localhost:27017"`
	Database string `env:"DATABASE_NAME, default=cityfix"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type JWTConfig struct {
	Secret        string `env:"JWT_SECRET, required"`
	Algorithm     string `env:"JWT_ALGORITHM,      default=HS256"`
	ExpireMinutes int    `env:"JWT_EXPIRE_MINUTES, default=1440"`
}

// TTL returns the token lifetime.
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpireMinutes) * time.Minute
}

type AuthConfig struct {
	Name             string        `env:"SERVICE_NAME, default=auth-service"`
	Port             string        `env:"SERVICE_PORT, default=8001"`
	BcryptRounds     int           `env:"BCRYPT_ROUNDS,      default=12"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=15m"`

	Runtime Runtime
	Mongo   MongoConfig
	Redis   RedisConfig
	JWT     JWTConfig
}

type AdminConfig struct {
	Name string `env:"SERVICE_NAME, default=admin-service"`
	Port string `env:"SERVICE_PORT, default=8002"`

	Runtime Runtime
	Mongo   MongoConfig
	JWT     JWTConfig
}

type TicketConfig struct {
	Name string `env:"SERVICE_NAME, default=ticket-service"`
	Port string `env:"SERVICE_PORT, default=8003"`

	Runtime Runtime
	Mongo   MongoConfig
	JWT     JWTConfig
}

type MediaConfig struct {
	Name           string `env:"SERVICE_NAME,     default=media-service"`
	Port           string `env:"SERVICE_PORT,     default=8004"`
	Storage        string `env:"MEDIA_STORAGE,    default=local"`
	UploadDir      string `env:"UPLOAD_DIR,       default=/app/uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES, default=10485760"`

	Runtime Runtime
	Mongo   MongoConfig
	S3      S3Config
}

type S3Config struct {
	Endpoint        string `env:"S3_ENDPOINT"`
	Region          string `env:"S3_REGION,         default=us-east-1"`
	Bucket          string `env:"S3_BUCKET,         default=cityfix-media"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE, default=true"`
}

type GeoConfig struct {
	Name            string        `env:"SERVICE_NAME,     default=geo-service"`
	Port            string        `env:"SERVICE_PORT,     default=8005"`
	NominatimURL    string        `env:"NOMINATIM_URL,    default=https://nominatim.openstreetmap.org"`
	GeocoderTimeout time.Duration `env:"GEOCODER_TIMEOUT, default=10s"`

	Runtime Runtime
	Mongo   MongoConfig
}

type NotificationConfig struct {
	Name            string `env:"SERVICE_NAME,     default=notification-service"`
	Port            string `env:"SERVICE_PORT,     default=8006"`
	AMQPURL         string `env:"AMQP_URL"`
	AMQPExchange    string `env:"AMQP_EXCHANGE,    default=cityfix.notifications"`
	DispatchWorkers int    `env:"DISPATCH_WORKERS, default=4"`

	Runtime Runtime
	Mongo   MongoConfig
}

type GatewayConfig struct {
	Name            string        `env:"SERVICE_NAME,             default=orchestrator"`
	Port            string        `env:"SERVICE_PORT,             default=8007"`
	UpstreamTimeout time.Duration `env:"GATEWAY_UPSTREAM_TIMEOUT, default=30s"`
	HealthTimeout   time.Duration `env:"GATEWAY_HEALTH_TIMEOUT,   default=5s"`

	AuthURL         string `env:"AUTH_SERVICE_URL,         default=http://auth-service:8001"`
	AdminURL        string `env:"ADMIN_SERVICE_URL,        default=http://admin-service:8002"`
	TicketURL       string `env:"TICKET_SERVICE_URL,       default=http://ticket-service:8003"`
	MediaURL        string `env:"MEDIA_SERVICE_URL,        default=http://media-service:8004"`
	GeoURL          string `env:"GEO_SERVICE_URL,          default=http://geo-service:8005"`
	NotificationURL string `env:"NOTIFICATION_SERVICE_URL, default=http://notification-service:8006"`

	Runtime Runtime
}

// Load reads one of the config structs from environment variables using
// go-envconfig.
func Load[T any](ctx context.Context) (*T, error) {
	var cfg T
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// LoadWith is Load with an explicit lookuper, used by tests.
func LoadWith[T any](ctx context.Context, l envconfig.Lookuper) (*T, error) {
	var cfg T
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
