package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_purchases_total",
			Help: "Number of purchase attempts by result",
		},
		[]string{"result"}, // completed|rejected|failed
	)
	PurchaseRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_purchase_rejections_total",
			Help: "Number of rejected purchases by reason code",
		},
		[]string{"reason"},
	)
	TicketsSold = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_sold_total",
			Help: "Number of tickets in completed purchases",
		},
		[]string{"type"}, // ADULT|CHILD|INFANT
	)
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_handled_total",
			Help: "Number of purchase commands handled by outcome",
		},
		[]string{"topic", "outcome"}, // processed|malformed|rejected|failed
	)
	KafkaFetchRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_fetch_retries_total",
			Help: "Number of FetchMessage errors followed by a retry",
		},
		[]string{"topic"},
	)
	KafkaMessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_published_total",
			Help: "Number of gateway events written to Kafka",
		},
		[]string{"topic"},
	)
)

var registerOnce sync.Once

// MustRegister — регистрация в глобальном реестре; повторные вызовы ничего не делают.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PurchasesTotal, PurchaseRejections, TicketsSold,
			KafkaMessagesConsumed, KafkaMessagesHandled, KafkaFetchRetries, KafkaMessagesPublished,
		)
	})
}
