package service

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var meter = otel.Meter("ctchen222/Todo-List/service")

func newCounter(name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		slog.Warn("failed to create counter, falling back to no-op", "metric", name, "error", err)
		return noop.Int64Counter{}
	}
	return counter
}
