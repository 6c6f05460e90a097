package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// DefaultPrefix — префикс переменных окружения сервиса.
const DefaultPrefix = "TICKET"

type HTTP struct {
	Addr              string        `default:":8080" envconfig:"ADDR" validate:"required"`
	GinMode           string        `default:"debug" envconfig:"GIN_MODE" validate:"oneof=debug release test"`
	ReadTimeout       time.Duration `default:"10s" envconfig:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `default:"10s" envconfig:"WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `default:"5s" envconfig:"READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `default:"60s" envconfig:"IDLE_TIMEOUT"`
	HandlerTimeout    time.Duration `default:"3s" envconfig:"HANDLER_TIMEOUT" validate:"gt=0"`
	GracefulTimeout   time.Duration `default:"10s" envconfig:"GRACEFUL_TIMEOUT" validate:"gt=0"`
	// пусто — CORS выключен
	CORSOrigins []string `envconfig:"CORS_ORIGINS" validate:"dive,required"`
}

type Metrics struct {
	Addr string `default:":2112" envconfig:"ADDR"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"tickets-app" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"jaeger:4318" envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

type Kafka struct {
	Enabled        bool          `default:"true" envconfig:"ENABLED"`
	Brokers        []string      `default:"kafka:9092" envconfig:"BROKERS" validate:"required_if=Enabled true,dive,required"`
	Topic          string        `default:"ticket-purchases" envconfig:"TOPIC" validate:"required_if=Enabled true"`
	GroupID        string        `default:"tickets" envconfig:"GROUP_ID" validate:"required_if=Enabled true"`
	StartOffset    string        `default:"last" envconfig:"START_OFFSET"`
	ProcessTimeout time.Duration `default:"5s" envconfig:"PROCESS_TIMEOUT" validate:"gt=0"`
	RetryInitial   time.Duration `default:"1s" envconfig:"RETRY_INITIAL" validate:"gt=0"`
	RetryMax       time.Duration `default:"30s" envconfig:"RETRY_MAX" validate:"gtefield=RetryInitial"`

	PaymentsTopic     string `default:"ticket-payments" envconfig:"PAYMENTS_TOPIC"`
	ReservationsTopic string `default:"seat-reservations" envconfig:"RESERVATIONS_TOPIC"`
}

// Gateway — куда уходят оплата и бронирование: log (только журнал) или kafka.
type Gateway struct {
	Mode string `default:"log" envconfig:"MODE" validate:"oneof=log kafka"`
}

type Logger struct {
	IsProd bool   `default:"false" envconfig:"IS_PROD"`
	File   string `envconfig:"FILE"` // пусто — только stdout
}

type Config struct {
	HTTP    HTTP
	Metrics Metrics
	Tracing Tracing
	Kafka   Kafka
	Gateway Gateway
	Logger  Logger
}

// Load — конфигурация из окружения с префиксом TICKET.
func Load() (Config, error) {
	return LoadWithPrefix(DefaultPrefix)
}

// LoadWithPrefix — загрузка и проверка конфигурации с произвольным префиксом.
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate — проверка значений по тегам validate.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Gateway.Mode == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("invalid config: gateway mode kafka requires brokers")
	}
	return nil
}
