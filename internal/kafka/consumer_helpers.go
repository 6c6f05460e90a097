package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_tickets/pkg/httpx"
	"github.com/Gunvolt24/wb_tickets/pkg/validate"
	"github.com/segmentio/kafka-go"
)

// Результат обработки сообщения.
type outcome string

const (
	outcomeProcessed outcome = "processed"
	outcomeMalformed outcome = "malformed"
	outcomeRejected  outcome = "rejected"
	outcomeFailed    outcome = "failed"
)

// commitTimeout — ограничение на коммит оффсета после остановки Run.
const commitTimeout = 5 * time.Second

// handleMessage обрабатывает одно сообщение и классифицирует исход для метрик и логов.
// Начатая покупка не прерывается отменой ctx: ограничение только processTimeout.
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) outcome {
	ctxTimeout, cancel := context.WithTimeout(messageContext(context.WithoutCancel(ctx), msg), c.processTimeout)
	err := c.service.PurchaseFromMessage(ctxTimeout, msg.Value)
	cancel()

	switch {
	case err == nil:
		c.log.Debugf(ctx, "purchase done topic=%s partition=%d offset=%d", topic, msg.Partition, msg.Offset)
		return outcomeProcessed
	case errors.Is(err, validate.ErrMalformedCommand):
		c.log.Warnf(ctx, "malformed message offset=%d: %v (skipped)", msg.Offset, err)
		return outcomeMalformed
	case errors.Is(err, domain.ErrInvalidPurchase):
		c.log.Warnf(ctx, "purchase rejected offset=%d: %v (skipped)", msg.Offset, err)
		return outcomeRejected
	default:
		// сбой оплаты или бронирования: без повтора, оплата могла пройти
		c.log.Errorf(ctx, "purchase failed offset=%d: %v (not retried)", msg.Offset, err)
		return outcomeFailed
	}
}

// messageContext — request_id из заголовка сообщения; без заголовка генерируется новый.
func messageContext(ctx context.Context, msg *kafka.Message) context.Context {
	var raw string
	for _, h := range msg.Headers {
		if h.Key == headerRequestID {
			raw = string(h.Value)
			break
		}
	}
	return ctxmeta.WithRequestID(ctx, httpx.NormalizeRequestID(raw))
}

// commitSafely коммитит оффсет и логирует ошибку.
// Коммит переживает отмену ctx, иначе обработанная покупка придёт повторно.
func (c *Consumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()
	if commitErr := c.reader.CommitMessages(commitCtx, *msg); commitErr != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, commitErr)
	}
}

// sleepWithBackoff ждет backoff или останавливается по контексту.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// nextBackoff возвращает следующее время ожидания повтора с учетом retryMax.
func (c *Consumer) nextBackoff(current time.Duration) time.Duration {
	current *= 2
	if current > c.retryMax {
		return c.retryMax
	}
	return current
}

// withJitterEqual — половина задержки фиксирована, вторая половина случайна.
func (c *Consumer) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	jitter := time.Duration(c.jitterRand.Int63n(int64(d-half) + 1))
	return half + jitter
}
