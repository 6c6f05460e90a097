package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/kafka/mocks"
	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_tickets/pkg/validate"
)

type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...any) {}
func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// runAsync запускает Consumer.Run в отдельном горутине и возвращает канал с ошибкой.
func runAsync(ctx context.Context, c *Consumer) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()
	return errCh
}

func newTestConsumer(r reader, s messageHandler) *Consumer {
	return &Consumer{
		reader: r, service: s, log: nopLogger{},
		processTimeout: 30 * time.Millisecond,
		retryInitial:   5 * time.Millisecond,
		retryMax:       10 * time.Millisecond,
		jitterRand:     rand.New(rand.NewSource(1)),
	}
}

// Успешная обработка + коммит
func TestRun_OK_Commits(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockmessageHandler(ctrl)

	rc := kafka.ReaderConfig{Topic: "ticket-purchases", GroupID: "g1", Brokers: []string{"b:9092"}}
	r.EXPECT().Config().Return(rc).AnyTimes()
	// 1-й цикл: сообщение обрабатывается
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{Offset: 1, Value: []byte("ok")}, nil)
	s.EXPECT().PurchaseFromMessage(gomock.Any(), []byte("ok")).Return(nil)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil)
	// 2-й fetch блокируется до отмены контекста
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})

	c := newTestConsumer(r, s)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := runAsync(ctx, c)

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for Run to stop")
	}
}

// Неразборчивое сообщение => тоже коммитим (чтобы не ретраить мусор)
func TestRun_MalformedCommand_Commits(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockmessageHandler(ctrl)

	rc := kafka.ReaderConfig{Topic: "ticket-purchases", GroupID: "g1", Brokers: []string{"b:9092"}}
	r.EXPECT().Config().Return(rc).AnyTimes()

	// 1-й цикл: получили сообщение, сервис вернул validate.ErrMalformedCommand, выполняем CommitMessages
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{Offset: 7, Value: []byte("bad")}, nil)
	s.EXPECT().PurchaseFromMessage(gomock.Any(), []byte("bad")).Return(fmt.Errorf("%w: invalid json", validate.ErrMalformedCommand))
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil)

	// 2-й fetch будет ждать отмены
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})

	c := newTestConsumer(r, s)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := runAsync(ctx, c)

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for Run to stop")
	}
}

// Сбой оплаты/бронирования => тоже коммитим: повтор может списать оплату второй раз
func TestRun_CollaboratorFailure_Commits(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockmessageHandler(ctrl)

	rc := kafka.ReaderConfig{Topic: "ticket-purchases", GroupID: "g1", Brokers: []string{"b:9092"}}
	r.EXPECT().Config().Return(rc).AnyTimes()

	// 1-й цикл: сервис упал ошибкой платёжного шлюза, оффсет всё равно коммитится ровно один раз
	msg := kafka.Message{Offset: 2, Value: []byte("x")}
	r.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil)
	s.EXPECT().PurchaseFromMessage(gomock.Any(), []byte("x")).Return(errors.New("make payment: broker down"))
	r.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil).Times(1)

	// 2-й fetch блокируется до отмены
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})

	c := newTestConsumer(r, s)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := runAsync(ctx, c)

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for Run to stop")
	}
}

// Ошибки FetchMessage ретраятся; по отмене контекста — корректный выход
func TestRun_FetchError_RetryThenStopOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockmessageHandler(ctrl)

	rc := kafka.ReaderConfig{Topic: "ticket-purchases", GroupID: "g1", Brokers: []string{"b:9092"}}
	r.EXPECT().Config().Return(rc).AnyTimes()

	// Всегда возвращаем ошибку брокера; Consumer будет ждать по backoff и ретраить,
	// пока не отменится контекст
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(_ context.Context) (kafka.Message, error) {
			return kafka.Message{}, errors.New("broker error")
		}).AnyTimes()

	c := newTestConsumer(r, s)

	// Короткий таймаут, чтобы быстро выйти
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	if err := c.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}
}

// CommitMessages вернул ошибку — получаем предупреждение; цикл живёт дальше
func TestRun_CommitWarnOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockmessageHandler(ctrl)

	rc := kafka.ReaderConfig{Topic: "ticket-purchases", GroupID: "g1", Brokers: []string{"b:9092"}}
	r.EXPECT().Config().Return(rc).AnyTimes()

	// 1-й цикл: сервис работает, но CommitMessages возвращает ошибку — не должен падать
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{Offset: 3, Value: []byte("ok")}, nil)
	s.EXPECT().PurchaseFromMessage(gomock.Any(), []byte("ok")).Return(nil)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).
		Return(errors.New("temporary"))

	// 2-й fetch блокируется до отмены
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})

	c := newTestConsumer(r, s)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := runAsync(ctx, c)

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for Run to stop")
	}
}

// Остановка посреди покупки: покупка доживает до конца, оффсет коммитится
func TestRun_CancelDuringPurchase_StillCommits(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockmessageHandler(ctrl)

	rc := kafka.ReaderConfig{Topic: "ticket-purchases", GroupID: "g1", Brokers: []string{"b:9092"}}
	r.EXPECT().Config().Return(rc).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msg := kafka.Message{Offset: 11, Value: []byte("buy")}
	r.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil)
	s.EXPECT().PurchaseFromMessage(gomock.Any(), []byte("buy")).
		DoAndReturn(func(pctx context.Context, _ []byte) error {
			cancel() // сигнал остановки пришёл между оплатой и бронированием
			if err := pctx.Err(); err != nil {
				t.Errorf("purchase ctx must survive shutdown, got %v", err)
			}
			if _, ok := pctx.Deadline(); !ok {
				t.Errorf("purchase ctx must keep process timeout")
			}
			return nil
		})
	r.EXPECT().CommitMessages(gomock.Any(), msg).
		DoAndReturn(func(cctx context.Context, _ ...kafka.Message) error {
			if err := cctx.Err(); err != nil {
				t.Errorf("commit ctx must survive shutdown, got %v", err)
			}
			return nil
		}).Times(1)
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(fctx context.Context) (kafka.Message, error) {
			return kafka.Message{}, fctx.Err()
		}).AnyTimes()

	c := newTestConsumer(r, s)

	select {
	case err := <-runAsync(ctx, c):
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for Run to stop")
	}
}

// 5) Проверка Close() прокидывает вызов в reader.Close()
func TestClose_DelegatesToReader(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockmessageHandler(ctrl)

	// Close должен быть вызван и вернуть nil
	r.EXPECT().Close().Return(nil)

	c := newTestConsumer(r, s)
	if err := c.Close(); err != nil {
		t.Fatalf("expected nil from Close, got %v", err)
	}
}

// Отказ по правилам покупки => коммит, без повторной обработки
func TestRun_RejectedPurchase_Commits(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockmessageHandler(ctrl)

	rc := kafka.ReaderConfig{Topic: "ticket-purchases", GroupID: "g1", Brokers: []string{"b:9092"}}
	r.EXPECT().Config().Return(rc).AnyTimes()

	raw := []byte(`{"account_id":1,"tickets":[{"type":"CHILD","quantity":1}]}`)
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 4, Value: raw}, nil),
		s.EXPECT().PurchaseFromMessage(gomock.Any(), raw).Return(domain.NewPurchaseError(domain.ReasonMissingAdult)),
		r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil),
		r.EXPECT().FetchMessage(gomock.Any()).
			DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
				<-ctx.Done()
				return kafka.Message{}, ctx.Err()
			}),
	)

	c := newTestConsumer(r, s)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := runAsync(ctx, c)

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for Run to stop")
	}
}

func TestHandleMessage_Outcomes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want outcome
	}{
		{"ok", nil, outcomeProcessed},
		{"malformed", fmt.Errorf("%w: invalid json", validate.ErrMalformedCommand), outcomeMalformed},
		{"rejected", domain.NewPurchaseError(domain.ReasonExceedsMaximum), outcomeRejected},
		{"failed", errors.New("reserve seats: timeout"), outcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			s := mocks.NewMockmessageHandler(ctrl)
			s.EXPECT().PurchaseFromMessage(gomock.Any(), gomock.Any()).Return(tt.err)

			c := newTestConsumer(mocks.NewMockreader(ctrl), s)
			if got := c.handleMessage(context.Background(), "t", &kafka.Message{Value: []byte("{}")}); got != tt.want {
				t.Fatalf("want %s, got %s", tt.want, got)
			}
		})
	}
}

// request_id из заголовка попадает в контекст обработки
func TestHandleMessage_RequestIDFromHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockmessageHandler(ctrl)
	s.EXPECT().PurchaseFromMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ []byte) error {
			if rid, ok := ctxmeta.RequestIDFromContext(ctx); !ok || rid != "req-9" {
				t.Errorf("want request_id=req-9 in ctx, got %q ok=%v", rid, ok)
			}
			return nil
		})

	c := newTestConsumer(mocks.NewMockreader(ctrl), s)
	msg := kafka.Message{Value: []byte("{}"), Headers: []kafka.Header{{Key: headerRequestID, Value: []byte("req-9")}}}
	c.handleMessage(context.Background(), "t", &msg)
}

func TestNextBackoff_CappedByRetryMax(t *testing.T) {
	c := newTestConsumer(nil, nil)
	if got := c.nextBackoff(5 * time.Millisecond); got != 10*time.Millisecond {
		t.Fatalf("want 10ms, got %s", got)
	}
	if got := c.nextBackoff(10 * time.Millisecond); got != 10*time.Millisecond {
		t.Fatalf("want cap 10ms, got %s", got)
	}
	for i := 0; i < 100; i++ {
		if d := c.withJitterEqual(10 * time.Millisecond); d < 5*time.Millisecond || d > 10*time.Millisecond {
			t.Fatalf("jitter out of range: %s", d)
		}
	}
}

// без заголовка request_id генерируется, чтобы логи одной команды связывались
func TestHandleMessage_RequestIDGenerated(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockmessageHandler(ctrl)
	s.EXPECT().PurchaseFromMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ []byte) error {
			if rid, ok := ctxmeta.RequestIDFromContext(ctx); !ok || len(rid) != 36 {
				t.Errorf("want generated uuid request_id, got %q ok=%v", rid, ok)
			}
			return nil
		})

	c := newTestConsumer(mocks.NewMockreader(ctrl), s)
	c.handleMessage(context.Background(), "t", &kafka.Message{Value: []byte("{}")})
}
