package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_tickets/internal/ports"
	"github.com/Gunvolt24/wb_tickets/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

var _ ports.MessageConsumer = (*Consumer)(nil)

// reader — часть kafka.Reader, нужная консьюмеру.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// messageHandler — разбор и исполнение команды покупки (usecase.TicketService).
type messageHandler interface {
	PurchaseFromMessage(ctx context.Context, raw []byte) error
}

// Consumer читает команды покупки из топика и передаёт их в messageHandler.
type Consumer struct {
	reader         reader
	service        messageHandler
	log            ports.Logger
	processTimeout time.Duration
	retryInitial   time.Duration
	retryMax       time.Duration
	jitterRand     *rand.Rand
	closeOnce      sync.Once
}

func NewConsumer(cfg *ConsumerConfig, service messageHandler, log ports.Logger) *Consumer {
	c := cfg.withDefaults()
	return &Consumer{
		reader:         kafka.NewReader(c.ReaderConfig()),
		service:        service,
		log:            log,
		processTimeout: c.ProcessTimeout,
		retryInitial:   c.RetryInitial,
		retryMax:       c.RetryMax,
		jitterRand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run — цикл до отмены ctx: fetch, покупка, коммит.
// Оффсет коммитится при любом исходе покупки: повтор после сбоя мог бы списать оплату второй раз.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "purchase consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	for {
		msg, err := c.fetch(ctx, rc.Topic)
		if err != nil {
			c.log.Infof(ctx, "purchase consumer stopped topic=%s: %v", rc.Topic, err)
			return err
		}
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		res := c.handleMessage(ctx, rc.Topic, &msg)
		metrics.KafkaMessagesHandled.WithLabelValues(rc.Topic, string(res)).Inc()
		c.commitSafely(ctx, &msg)
	}
}

// fetch — следующее сообщение; ошибки брокера повторяются с экспоненциальной паузой и equal-jitter.
// Возвращает ошибку только после отмены ctx.
func (c *Consumer) fetch(ctx context.Context, topic string) (kafka.Message, error) {
	retry := c.retryInitial
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err == nil {
			return msg, nil
		}
		if ctx.Err() != nil {
			return kafka.Message{}, ctx.Err()
		}

		metrics.KafkaFetchRetries.WithLabelValues(topic).Inc()
		sleep := c.withJitterEqual(retry)
		c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", err, sleep)
		if !c.sleepWithBackoff(ctx, sleep) {
			return kafka.Message{}, ctx.Err()
		}
		retry = c.nextBackoff(retry)
	}
}

func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}
