// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PurchasesTotal counts purchase attempts by outcome:
	// purchased, already_owned, insufficient_funds, not_found, error.
	PurchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskagotchi_purchases_total",
		Help: "Item purchase attempts by outcome.",
	}, []string{"result"})

	// CoinsSpentTotal is the sum of item costs debited by purchases.
	CoinsSpentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskagotchi_coins_spent_total",
		Help: "Currency debited by successful purchases.",
	})

	// BalanceAdjustmentsTotal counts balance adjustments by outcome: applied, rejected, error.
	BalanceAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskagotchi_balance_adjustments_total",
		Help: "Wallet balance adjustments by outcome.",
	}, []string{"result"})

	// HTTPRequestsTotal counts served requests by method, route and status class.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskagotchi_http_requests_total",
		Help: "HTTP requests served.",
	}, []string{"method", "route", "status"})
)
