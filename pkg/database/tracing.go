package database

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/chrimztech/unza-counseling-console/pkg/database"

// TracingHook is a go-redis hook that starts a client span per command or
// pipeline and logs commands slower than the threshold. Command arguments
// are never recorded; they carry session tokens.
type TracingHook struct {
	tracer    trace.Tracer
	threshold time.Duration
	logger    *slog.Logger
}

var _ redis.Hook = (*TracingHook)(nil)

// NewTracingHook creates a hook. A zero threshold or nil logger disables
// slow command logging.
func NewTracingHook(threshold time.Duration, logger *slog.Logger) *TracingHook {
	return &TracingHook{
		tracer:    otel.Tracer(tracerName),
		threshold: threshold,
		logger:    logger,
	}
}

func (h *TracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *TracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		operation := cmd.Name()
		ctx, end := h.start(ctx, operation)
		err := next(ctx, cmd)
		end(err)
		return err
	}
}

func (h *TracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, 0, len(cmds))
		for _, c := range cmds {
			names = append(names, c.Name())
		}
		ctx, end := h.start(ctx, "pipeline", attribute.String("db.redis.commands", strings.Join(names, " ")))
		err := next(ctx, cmds)
		end(err)
		return err
	}
}

// start opens a span for operation. The returned function ends it; a cache
// miss (redis.Nil) is not recorded as an error.
func (h *TracingHook) start(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	begin := time.Now()
	ctx, span := h.tracer.Start(ctx, "redis."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append([]attribute.KeyValue{
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
		}, attrs...)...),
	)

	return ctx, func(err error) {
		failed := err != nil && !errors.Is(err, redis.Nil)
		if failed {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if h.threshold <= 0 || h.logger == nil {
			return
		}
		if elapsed := time.Since(begin); elapsed >= h.threshold {
			logAttrs := []any{
				slog.String("operation", operation),
				slog.Duration("duration", elapsed),
			}
			if failed {
				logAttrs = append(logAttrs, slog.String("error", err.Error()))
			}
			h.logger.WarnContext(ctx, "slow redis command", logAttrs...)
		}
	}
}
