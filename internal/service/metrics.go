package service

import (
	"errors"
	"time"

	"github.com/chronoverse/evcs/internal/command"
	"github.com/chronoverse/evcs/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evcs",
		Name:      "commands_total",
		Help:      "Total number of version commands executed, by entity type, command kind and outcome.",
	}, []string{"entity_type", "command", "status"})

	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "evcs",
		Name:      "command_duration_seconds",
		Help:      "Latency of version commands.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"entity_type", "command"})

	conflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evcs",
		Name:      "conflicts_total",
		Help:      "Optimistic concurrency conflicts, by entity type.",
	}, []string{"entity_type"})
)

// observeCommand 记录命令执行指标
func observeCommand(entityType string, kind command.Kind, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
		if errors.Is(err, domain.ErrConflict) {
			conflictsTotal.WithLabelValues(entityType).Inc()
		}
	}
	commandsTotal.WithLabelValues(entityType, string(kind), status).Inc()
	commandDuration.WithLabelValues(entityType, string(kind)).Observe(elapsed.Seconds())
}
