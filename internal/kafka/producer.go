package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_tickets/internal/ports"
	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_tickets/pkg/metrics"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const headerRequestID = "request_id"

// writer — минимальный контракт над kafka.Writer.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher — синхронная публикация JSON-событий в один топик.
type Publisher struct {
	writer    writer
	topic     string
	log       ports.Logger
	closeOnce sync.Once
}

func NewPublisher(cfg *ProducerConfig, log ports.Logger) *Publisher {
	return &Publisher{writer: cfg.writer(), topic: cfg.Topic, log: log}
}

// Publish — событие с ключом по аккаунту; ошибка записи возвращается вызывающему.
func (p *Publisher) Publish(ctx context.Context, accountID int64, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(accountID, 10)),
		Value: value,
		Time:  time.Now().UTC(),
	}
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		msg.Headers = append(msg.Headers, kafka.Header{Key: headerRequestID, Value: []byte(rid)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	metrics.KafkaMessagesPublished.WithLabelValues(p.topic).Inc()
	p.log.Debugf(ctx, "event published topic=%s account=%d", p.topic, accountID)
	return nil
}

func (p *Publisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}

// PaymentEvent — запрос на списание суммы с аккаунта.
type PaymentEvent struct {
	ID        string `json:"id"`
	AccountID int64  `json:"account_id"`
	Amount    int    `json:"amount"`
}

// ReservationEvent — запрос на бронирование мест.
type ReservationEvent struct {
	ID        string `json:"id"`
	AccountID int64  `json:"account_id"`
	Seats     int    `json:"seats"`
}

// Проверка, что шлюзы удовлетворяют портам внешних сервисов.
var (
	_ ports.TicketPaymentService   = (*PaymentGateway)(nil)
	_ ports.SeatReservationService = (*SeatReservationGateway)(nil)
)

// PaymentGateway — платёжный сервис поверх топика оплат.
type PaymentGateway struct {
	pub *Publisher
}

func NewPaymentGateway(pub *Publisher) *PaymentGateway { return &PaymentGateway{pub: pub} }

func (g *PaymentGateway) MakePayment(ctx context.Context, accountID int64, amount int) error {
	return g.pub.Publish(ctx, accountID, PaymentEvent{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Amount:    amount,
	})
}

// SeatReservationGateway — бронирование мест поверх топика бронирований.
type SeatReservationGateway struct {
	pub *Publisher
}

func NewSeatReservationGateway(pub *Publisher) *SeatReservationGateway {
	return &SeatReservationGateway{pub: pub}
}

func (g *SeatReservationGateway) ReserveSeat(ctx context.Context, accountID int64, seats int) error {
	return g.pub.Publish(ctx, accountID, ReservationEvent{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Seats:     seats,
	})
}
