package commandlog

import (
	"context"
	"log/slog"
	"strconv"

	"fraudgate/internal/commandlog/metrics"
	"fraudgate/internal/domain"
	"fraudgate/internal/platform/kafka/consumer"
	"fraudgate/internal/registry"
	dErrors "fraudgate/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Applier

// Applier is the write side of the registry.
type Applier interface {
	ApplyCommand(cmd domain.Command) (registry.ApplyResult, error)
}

// Handler applies the records of one stream to the registry.
type Handler struct {
	stream  Stream
	applier Applier
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler creates a handler for stream.
func NewHandler(stream Stream, applier Applier, logger *slog.Logger, m *metrics.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{stream: stream, applier: applier, logger: logger, metrics: m}
}

// Handle decodes and applies one record. Malformed records are logged,
// counted, and acknowledged so a single bad command never stalls the stream.
func (h *Handler) Handle(ctx context.Context, msg *consumer.Message) error {
	cmd, err := Decode(h.stream, msg.Key, msg.Value)
	if err == nil {
		var result registry.ApplyResult
		result, err = h.applier.ApplyCommand(cmd)
		if err == nil {
			h.metrics.IncrementCommand(msg.Topic, string(result))
			h.metrics.SetAppliedOffset(msg.Topic, strconv.Itoa(int(msg.Partition)), msg.Offset)
			return nil
		}
	}

	if dErrors.HasCode(err, dErrors.CodeMalformedCommand) {
		h.logger.WarnContext(ctx, "dropping malformed command",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
			"error", err,
		)
		h.metrics.IncrementCommand(msg.Topic, "malformed")
		return nil // Commit to avoid redelivery
	}

	h.logger.ErrorContext(ctx, "failed to apply command",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"key", string(msg.Key),
		"error", err,
	)
	return err
}
