package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Gunvolt24/wb_tickets/config"
	"github.com/Gunvolt24/wb_tickets/internal/gateway"
	"github.com/Gunvolt24/wb_tickets/internal/kafka"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
	rest "github.com/Gunvolt24/wb_tickets/internal/transport/http"
	"github.com/Gunvolt24/wb_tickets/internal/usecase"
	"github.com/Gunvolt24/wb_tickets/pkg/logger"
	"github.com/Gunvolt24/wb_tickets/pkg/metrics"
	"github.com/Gunvolt24/wb_tickets/pkg/telemetry"
	"github.com/Gunvolt24/wb_tickets/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultGracefulTimeout = 5 * time.Second

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger          ports.Logger
	HTTPServer      *http.Server          // API покупок
	MetricsServer   *http.Server          // отдельный /metrics; nil — только на HTTPServer
	KafkaConsumer   ports.MessageConsumer // консьюмер команд покупки; nil — Kafka выключена
	gracefulTimeout time.Duration
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// closers — освобождение ресурсов в порядке, обратном созданию.
type closers []func()

func (c *closers) add(f func()) { *c = append(*c, f) }

func (c closers) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	logg, cleanupLogger, err := logger.NewZapLogger(logger.Options{IsProd: cfg.Logger.IsProd, File: cfg.Logger.File})
	if err != nil {
		return nil, func() {}, err
	}

	var cl closers
	cl.add(func() {
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	})

	metrics.MustRegister()
	cl.add(setupTracing(ctx, cfg, logg))

	payment, seats, closeGateways := collaborators(cfg, logg)
	cl.add(closeGateways)
	ticketService := usecase.NewTicketService(payment, seats, validate.NewPurchaseValidator(), logg)
	logg.Infof(ctx, "gateway mode=%s", cfg.Gateway.Mode)

	app := &App{
		Logger:          logg,
		HTTPServer:      newAPIServer(cfg, ticketService, logg),
		MetricsServer:   newMetricsServer(cfg),
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(&kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.Topic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}, ticketService, logg)
		app.KafkaConsumer = consumer
		cl.add(func() {
			if err := consumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		})
	} else {
		logg.Infof(ctx, "kafka consumer disabled")
	}

	return app, cl.run, nil
}

// setupTracing — OTEL при включённой конфигурации; ошибка настройки не фатальна.
func setupTracing(ctx context.Context, cfg *config.Config, log ports.Logger) func() {
	if !cfg.Tracing.Enabled {
		return func() {}
	}
	shutdown, err := telemetry.SetupTracing(ctx, telemetry.Options{
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Warnf(ctx, "failed to setup tracing: %v", err)
		return func() {}
	}
	log.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
		cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
	return func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warnf(ctx, "shutdown tracing: %v", err)
		}
	}
}

// collaborators — оплата и бронирование по режиму шлюза и функция их закрытия.
func collaborators(cfg *config.Config, log ports.Logger) (ports.TicketPaymentService, ports.SeatReservationService, func()) {
	if cfg.Gateway.Mode != "kafka" {
		return gateway.NewLogPayment(log), gateway.NewLogReservation(log), func() {}
	}

	payPub := kafka.NewPublisher(&kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.PaymentsTopic}, log)
	seatPub := kafka.NewPublisher(&kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.ReservationsTopic}, log)

	closeAll := func() {
		for _, p := range []*kafka.Publisher{payPub, seatPub} {
			if err := p.Close(); err != nil {
				log.Warnf(context.Background(), "kafka publisher close error: %v", err)
			}
		}
	}
	return kafka.NewPaymentGateway(payPub), kafka.NewSeatReservationGateway(seatPub), closeAll
}

func newAPIServer(cfg *config.Config, service ports.TicketPurchaser, log ports.Logger) *http.Server {
	gin.SetMode(cfg.HTTP.GinMode)

	// otelgin только при включённом трейсинге
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	handler := rest.NewHandler(service, log, cfg.HTTP.HandlerTimeout)
	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           rest.NewRouter(handler, otelServiceName, rest.WithCORS(cfg.HTTP.CORSOrigins)),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
}

// newMetricsServer — promhttp на Metrics.Addr; nil, если адрес пуст или совпадает с API.
func newMetricsServer(cfg *config.Config) *http.Server {
	if cfg.Metrics.Addr == "" || cfg.Metrics.Addr == cfg.HTTP.Addr {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
}

// Run — запускает HTTP-серверы и консьюмера; ждёт отмены контекста или фоновой ошибки и останавливает всё.
// Возвращает фоновую ошибку, кроме отмены контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	if a.KafkaConsumer != nil {
		go func() {
			if err := a.KafkaConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	servers := a.servers()
	for _, srv := range servers {
		go func(srv *http.Server) {
			a.Logger.Infof(ctx, "http server starting (addr=%s)", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Errorf(ctx, "background error: %v", err)
			runErr = err
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = defaultGracefulTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server shutdown failed (addr=%s): %v", srv.Addr, err)
		} else {
			a.Logger.Infof(ctx, "http server stopped gracefully (addr=%s)", srv.Addr)
		}
	}

	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return runErr
}

func (a *App) servers() []*http.Server {
	out := []*http.Server{a.HTTPServer}
	if a.MetricsServer != nil {
		out = append(out, a.MetricsServer)
	}
	return out
}
