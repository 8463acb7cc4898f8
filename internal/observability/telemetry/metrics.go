package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas de negócio
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siged_orders_created_total",
		Help: "Total de pedidos abertos",
	})

	QuotesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siged_quotes_submitted_total",
		Help: "Total de orçamentos enviados",
	})

	PaymentsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siged_payments_confirmed_total",
		Help: "Total de pagamentos confirmados",
	})

	OrdersCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siged_orders_completed_total",
		Help: "Total de pedidos concluídos",
	})

	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siged_messages_sent_total",
		Help: "Total de mensagens trocadas nos pedidos",
	})

	// Métricas de infraestrutura
	WebhooksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siged_payment_webhooks_total",
		Help: "Total de webhooks de pagamento recebidos",
	}, []string{"provider", "result"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siged_notifications_sent_total",
		Help: "Total de notificações enviadas",
	}, []string{"channel", "status"})

	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "siged_database_latency_seconds",
		Help:    "Latência de queries no banco",
		Buckets: prometheus.DefBuckets,
	})
)
