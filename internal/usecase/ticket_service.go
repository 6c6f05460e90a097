package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_tickets/pkg/metrics"
	"github.com/Gunvolt24/wb_tickets/pkg/validate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Проверка, что TicketService удовлетворяет порту для транспортных слоёв.
var _ ports.TicketPurchaser = (*TicketService)(nil)

const tracerName = "github.com/Gunvolt24/wb_tickets/internal/usecase"

// TicketService — прикладная логика покупки билетов (без знаний о транспорте).
// Не хранит состояния между вызовами, безопасен для конкурентного использования.
type TicketService struct {
	payment   ports.TicketPaymentService   // платёжный шлюз
	seats     ports.SeatReservationService // бронирование мест
	validator ports.PurchaseValidator      // проверка правил покупки
	log       ports.Logger
	tracer    trace.Tracer
}

// NewTicketService — DI-конструктор.
func NewTicketService(
	payment ports.TicketPaymentService,
	seats ports.SeatReservationService,
	validator ports.PurchaseValidator,
	log ports.Logger,
) *TicketService {
	return &TicketService{
		payment:   payment,
		seats:     seats,
		validator: validator,
		log:       log,
		tracer:    otel.Tracer(tracerName),
	}
}

// Purchase — покупка билетов:
//  1. проверка аккаунта, списка и правил (отказ — *domain.PurchaseError, внешние сервисы не вызываются);
//  2. расчёт суммы и количества мест;
//  3. оплата, затем бронирование; каждое ровно один раз.
//
// Ошибка оплаты прерывает покупку до бронирования. Повторов и отката нет.
func (s *TicketService) Purchase(
	ctx context.Context,
	accountID int64,
	requests ...*domain.TicketTypeRequest,
) (domain.Summary, error) {
	ctx, span := s.tracer.Start(ctxmeta.WithAccountID(ctx, accountID), "TicketService.Purchase",
		trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()

	summary, err := s.calculate(ctx, accountID, requests)
	if err != nil {
		s.reject(ctx, span, accountID, err)
		return domain.Summary{}, err
	}
	span.SetAttributes(attribute.Int("purchase.amount", summary.Amount), attribute.Int("purchase.seats", summary.Seats))

	if err := s.payment.MakePayment(ctx, accountID, summary.Amount); err != nil {
		s.fail(ctx, span, "payment", accountID, err)
		return domain.Summary{}, fmt.Errorf("make payment: %w", err)
	}

	if err := s.seats.ReserveSeat(ctx, accountID, summary.Seats); err != nil {
		s.fail(ctx, span, "reservation", accountID, err)
		return domain.Summary{}, fmt.Errorf("reserve seats: %w", err)
	}

	metrics.PurchasesTotal.WithLabelValues("completed").Inc()
	metrics.TicketsSold.WithLabelValues(domain.TicketTypeAdult.String()).Add(float64(summary.Tickets.Adult))
	metrics.TicketsSold.WithLabelValues(domain.TicketTypeChild.String()).Add(float64(summary.Tickets.Child))
	metrics.TicketsSold.WithLabelValues(domain.TicketTypeInfant.String()).Add(float64(summary.Tickets.Infant))

	s.log.Infof(ctx, "purchase completed account=%d amount=%d seats=%d", accountID, summary.Amount, summary.Seats)
	return summary, nil
}

// Quote — те же проверки и расчёт, что у Purchase, без оплаты и бронирования.
func (s *TicketService) Quote(
	ctx context.Context,
	accountID int64,
	requests ...*domain.TicketTypeRequest,
) (domain.Summary, error) {
	summary, err := s.calculate(ctx, accountID, requests)
	if err != nil {
		s.log.Debugf(ctx, "quote rejected account=%d reason=%v", accountID, err)
		return domain.Summary{}, err
	}
	s.log.Debugf(ctx, "quote account=%d amount=%d seats=%d", accountID, summary.Amount, summary.Seats)
	return summary, nil
}

// PurchaseFromMessage — покупка по команде из Kafka (raw JSON).
// Неразборчивое сообщение — validate.ErrMalformedCommand, отказ — domain.ErrInvalidPurchase.
func (s *TicketService) PurchaseFromMessage(ctx context.Context, raw []byte) error {
	cmd, err := validate.DecodePurchaseCommand(raw)
	if err != nil {
		s.log.Warnf(ctx, "purchase command rejected: %v", err)
		return err
	}
	_, err = s.Purchase(ctx, cmd.AccountID, cmd.Requests()...)
	return err
}

// calculate — проверка и расчёт суммы/мест.
func (s *TicketService) calculate(
	ctx context.Context,
	accountID int64,
	requests []*domain.TicketTypeRequest,
) (domain.Summary, error) {
	counts, err := s.validator.Validate(ctx, accountID, requests)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.NewSummary(accountID, counts), nil
}

// reject — учёт отказа по правилам покупки.
func (s *TicketService) reject(ctx context.Context, span trace.Span, accountID int64, err error) {
	reason := "Unknown"
	if r, ok := domain.ReasonOf(err); ok {
		reason = r.Code()
	}
	metrics.PurchasesTotal.WithLabelValues("rejected").Inc()
	metrics.PurchaseRejections.WithLabelValues(reason).Inc()
	span.SetAttributes(attribute.String("purchase.rejection", reason))
	span.SetStatus(codes.Error, reason)

	if errors.Is(err, domain.ErrInvalidPurchase) {
		s.log.Warnf(ctx, "purchase rejected account=%d reason=%s: %v", accountID, reason, err)
		return
	}
	// валидатор вернул не отказ, а сбой
	s.log.Errorf(ctx, "purchase validation failed account=%d err=%v", accountID, err)
}

// fail — учёт сбоя внешнего сервиса.
func (s *TicketService) fail(ctx context.Context, span trace.Span, stage string, accountID int64, err error) {
	metrics.PurchasesTotal.WithLabelValues("failed").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, stage+" failed")
	s.log.Errorf(ctx, "%s failed account=%d err=%v", stage, accountID, err)
}
