package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	defaultProcessTimeout = 5 * time.Second
	defaultRetryInitial   = time.Second
	retryMaxFactor        = 30 // RetryMax по умолчанию, в единицах RetryInitial
)

// ConsumerConfig — параметры чтения команд покупки.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first | last (регистр и пробелы не важны)

	ProcessTimeout time.Duration // таймаут обработки одного сообщения
	RetryInitial   time.Duration // начальная пауза после ошибки FetchMessage
	RetryMax       time.Duration // верхняя граница паузы
}

// withDefaults — копия с заполненными таймаутами.
// RetryMax меньше RetryInitial заменяется на retryMaxFactor*RetryInitial.
func (c ConsumerConfig) withDefaults() ConsumerConfig {
	if c.ProcessTimeout <= 0 {
		c.ProcessTimeout = defaultProcessTimeout
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = defaultRetryInitial
	}
	if c.RetryMax < c.RetryInitial {
		c.RetryMax = retryMaxFactor * c.RetryInitial
	}
	return c
}

// startOffset: "first" читает с начала, всё остальное с конца.
func (c *ConsumerConfig) startOffset() int64 {
	if strings.EqualFold(strings.TrimSpace(c.StartOffset), "first") {
		return kafka.FirstOffset
	}
	return kafka.LastOffset
}

// ReaderConfig — конфигурация kafka.Reader с ручным коммитом оффсетов (CommitInterval = 0).
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	return kafka.ReaderConfig{
		Brokers:     c.Brokers,
		GroupID:     c.GroupID,
		Topic:       c.Topic,
		StartOffset: c.startOffset(),
	}
}

// ProducerConfig — параметры публикации событий оплаты и бронирования.
type ProducerConfig struct {
	Brokers []string
	Topic   string
}

func (c *ProducerConfig) writer() *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  c.Topic,
		Balancer:               &kafka.Hash{}, // события одного аккаунта — в одну партицию
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}
