package progress

import "go.uber.org/zap"

// ZapSink reports every event as a structured log line, at a level that
// tracks the event's severity: Info for ordinary progress, Warn when
// batch-scoped warnings are present, Error when the event carries a failure.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink wraps log for progress reporting.
func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

func (s *ZapSink) Report(e Event) {
	fields := []zap.Field{
		zap.String("phase", string(e.Phase)),
		zap.Int("processed", e.Processed),
		zap.Int("total", e.Total),
		zap.Int("percentage", e.Percentage),
		zap.Int64("elapsed_ms", e.ElapsedMs),
	}
	if e.Label != "" {
		fields = append(fields, zap.String("label", e.Label))
	}
	if e.BatchNumber > 0 {
		fields = append(fields, zap.Int("batch_number", e.BatchNumber), zap.Int("total_batches", e.TotalBatches))
	}
	if e.EstimatedRemainingMs != nil {
		fields = append(fields, zap.Int64("estimated_remaining_ms", *e.EstimatedRemainingMs))
	}
	if len(e.Warnings) > 0 {
		fields = append(fields, zap.Strings("warnings", e.Warnings))
	}

	switch {
	case e.Error != nil:
		fields = append(fields,
			zap.String("error", e.Error.Message),
			zap.String("error_type", e.Error.Type),
			zap.Bool("recoverable", e.Error.Recoverable),
		)
		s.log.Error("load progress", fields...)
	case len(e.Warnings) > 0:
		s.log.Warn("load progress", fields...)
	default:
		s.log.Info("load progress", fields...)
	}
}
