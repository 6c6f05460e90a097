package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_tickets/pkg/httpx"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Handler — HTTP-обработчики покупки и расчёта стоимости.
type Handler struct {
	service ports.TicketPurchaser
	log     ports.Logger
	timeout time.Duration // таймаут на обработку запроса; 0 — без таймаута
}

func NewHandler(service ports.TicketPurchaser, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{service: service, log: log, timeout: timeout}
}

// RouterOption — необязательная настройка роутера.
type RouterOption func(*routerOptions)

type routerOptions struct {
	corsOrigins []string
}

// WithCORS — разрешённые origin для браузерных клиентов; "*" разрешает все.
func WithCORS(origins []string) RouterOption {
	return func(o *routerOptions) { o.corsOrigins = origins }
}

// NewRouter — gin-роутер с middleware и маршрутами.
// otelServiceName != "" включает otelgin.
func NewRouter(h *Handler, otelServiceName string, opts ...RouterOption) *gin.Engine {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	if len(o.corsOrigins) > 0 {
		r.Use(corsMiddleware(o.corsOrigins))
	}
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	accounts := r.Group("/accounts/:id")
	accounts.POST("/purchases", h.purchase)
	accounts.POST("/quotes", h.quote)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", httpx.HeaderRequestID},
		ExposeHeaders: []string{httpx.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// purchaseRequest — тело запроса покупки; аккаунт берётся из пути.
type purchaseRequest struct {
	Tickets []*domain.TicketLine `json:"tickets"`
}

func (p purchaseRequest) requests() []*domain.TicketTypeRequest {
	return (&domain.PurchaseCommand{Tickets: p.Tickets}).Requests()
}

type serviceCall func(ctx context.Context, accountID int64, requests ...*domain.TicketTypeRequest) (domain.Summary, error)

func (h *Handler) purchase(c *gin.Context) { h.handle(c, "purchase", h.service.Purchase) }
func (h *Handler) quote(c *gin.Context)    { h.handle(c, "quote", h.service.Quote) }

func (h *Handler) handle(c *gin.Context, op string, call serviceCall) {
	accountID := httpx.ParseAccountID(c, "id")

	// неверный аккаунт отклоняется сервисом при любом теле запроса
	var body purchaseRequest
	if accountID >= 1 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
	}

	ctx := ctxmeta.WithAccountID(c.Request.Context(), accountID)
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	summary, err := call(ctx, accountID, body.requests()...)
	if err != nil {
		h.writeError(c, op, accountID, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// writeError — отказ → 422, таймаут → 504, сбой внешнего сервиса → 502.
func (h *Handler) writeError(c *gin.Context, op string, accountID int64, err error) {
	var pe *domain.PurchaseError
	switch {
	case errors.As(err, &pe):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"code": pe.Reason.Code(), "error": pe.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Warnf(c.Request.Context(), "%s timeout account=%d", op, accountID)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "timeout"})
	default:
		h.log.Errorf(c.Request.Context(), "%s failed account=%d err=%v", op, accountID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream service failure"})
	}
}
