package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatExchanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_chat_exchanges_total",
			Help: "Total number of chat exchanges by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_upstream_requests_total",
			Help: "Total number of upstream API calls by service and outcome",
		},
		[]string{"service", "outcome"},
	)

	ParserFallbackAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_parser_fallback_attempts_total",
			Help: "Upload train attempts by parser strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	DocumentOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_document_operations_total",
			Help: "Knowledge-base document operations by kind and outcome",
		},
		[]string{"operation", "outcome"},
	)
)
