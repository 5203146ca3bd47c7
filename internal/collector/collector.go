package collector

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/invoker"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/logging"
)

// #endregion

var tracer = otel.Tracer("github.com/danielpatrickdp/epistemic-gate/go-controller/internal/collector")

// #region collector

// Collector fans one input out to every configured backend.
type Collector struct {
	invoker   invoker.Invoker
	scheduler Scheduler
	logger    *slog.Logger
}

// New creates a collector. A nil scheduler means Sequential with no spacing.
func New(inv invoker.Invoker, sched Scheduler) *Collector {
	if sched == nil {
		sched = Sequential{}
	}
	return &Collector{
		invoker:   inv,
		scheduler: sched,
		logger:    logging.New("collector"),
	}
}

// #endregion

// #region collect

type slot struct {
	resp ModelResponse
	err  error
	done bool
}

// Collect invokes every backend of b under the scheduler policy. Individual
// failures are logged and skipped; the batch fails with ErrAllBackendsFailed
// only when nothing succeeded.
func (c *Collector) Collect(ctx context.Context, b Batch) (Collection, error) {
	if len(b.Backends) == 0 {
		return Collection{}, ErrNoBackends
	}

	slots := make([]slot, len(b.Backends))
	runErr := c.scheduler.Run(ctx, len(b.Backends), func(ctx context.Context, i int) {
		resp, err := c.invoke(ctx, invoker.Request{
			Backend:         b.Backends[i],
			SystemPrompt:    b.SystemPrompt,
			UserText:        b.UserText,
			MaxOutputTokens: b.MaxOutputTokens,
		})
		slots[i] = slot{resp: resp, err: err, done: true}
	})

	var out Collection
	var errs []error
	for i, s := range slots {
		backend := b.Backends[i]
		switch {
		case !s.done:
			// scheduler stopped before reaching this backend
			err := fmt.Errorf("%s: not invoked: %w", backend, runErr)
			out.Failures = append(out.Failures, BackendFailure{BackendID: backend, Err: err})
			errs = append(errs, err)
		case s.err != nil:
			c.logger.Warn("backend failed, skipping", "backend", backend, "error", s.err)
			out.Failures = append(out.Failures, BackendFailure{BackendID: backend, Err: s.err})
			errs = append(errs, s.err)
		default:
			out.Responses = append(out.Responses, s.resp)
		}
	}

	c.logger.Debug("batch collected",
		"backends", len(b.Backends), "succeeded", len(out.Responses), "failed", len(out.Failures))

	if len(out.Responses) == 0 {
		return out, fmt.Errorf("%w: %w", ErrAllBackendsFailed, errors.Join(errs...))
	}
	return out, nil
}

// #endregion

// #region fallback

// Fallback makes the single degraded call used after a batch failure.
func (c *Collector) Fallback(ctx context.Context, backend, systemPrompt, userText string, maxOutputTokens int) (ModelResponse, error) {
	resp, err := c.invoke(ctx, invoker.Request{
		Backend:         backend,
		SystemPrompt:    systemPrompt,
		UserText:        userText,
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return ModelResponse{}, fmt.Errorf("fallback %s: %w", backend, err)
	}
	return resp, nil
}

// #endregion

// #region invoke

func (c *Collector) invoke(ctx context.Context, req invoker.Request) (ModelResponse, error) {
	ctx, span := tracer.Start(ctx, "collector.invoke", trace.WithAttributes(
		attribute.String("backend", req.Backend),
		attribute.Int("max_output_tokens", req.MaxOutputTokens),
	))
	defer span.End()

	res, err := c.invoker.Invoke(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ModelResponse{}, err
	}
	span.SetAttributes(attribute.Int("output_tokens", res.OutputTokens))

	return ModelResponse{
		BackendID:        req.Backend,
		Text:             res.Text,
		OutputTokenCount: res.OutputTokens,
	}, nil
}

// #endregion
