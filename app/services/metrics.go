package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcomes partitioned by result (delivered, degraded)
var dispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "zapform_dispatch_total",
		Help: "Total number of WhatsApp dispatch attempts by outcome",
	},
	[]string{"outcome"},
)

const (
	dispatchDelivered = "delivered"
	dispatchDegraded  = "degraded"
)
