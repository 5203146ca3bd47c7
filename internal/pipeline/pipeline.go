package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/classify"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/collector"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/divergence"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/gate"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/integrity"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/invoker"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/logging"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/rank"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/resolver"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/session"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/symbolic"
)

var tracer = otel.Tracer("github.com/danielpatrickdp/epistemic-gate/go-controller/internal/pipeline")

// #region options
// Options wires the pipeline. Nil components get defaults; Invoker,
// Backends and DefaultBackend are required.
type Options struct {
	Backends          []string
	DefaultBackend    string
	FallbackMaxTokens int
	SystemPrompt      string

	Invoker   invoker.Invoker
	Scheduler collector.Scheduler
	Sessions  session.Store
	Analyzer  *divergence.Analyzer
	Scorer    *integrity.Scorer
	Ranker    *rank.Ranker
	Gate      *gate.Gate
	Decisions Recorder // optional
	Metrics   *Metrics // optional
}

// #endregion options

// #region pipeline
// Pipeline runs one request through classify, collect, analyze, score,
// rank and gate, then records the turn.
type Pipeline struct {
	opts      Options
	collector *collector.Collector
	logger    *slog.Logger
}

// New builds a pipeline from opts.
func New(opts Options) *Pipeline {
	if opts.FallbackMaxTokens <= 0 {
		opts.FallbackMaxTokens = 150
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore(session.DefaultLimit)
	}
	if opts.Analyzer == nil {
		opts.Analyzer = divergence.NewAnalyzer()
	}
	if opts.Scorer == nil {
		opts.Scorer = integrity.NewScorer(integrity.DefaultWeights())
	}
	if opts.Ranker == nil {
		opts.Ranker = rank.New(rank.Designations{}, nil)
	}
	if opts.Gate == nil {
		opts.Gate = gate.NewGate(gate.DefaultGateConfig(), resolver.New())
	}
	return &Pipeline{
		opts:      opts,
		collector: collector.New(opts.Invoker, opts.Scheduler),
		logger:    logging.New("pipeline"),
	}
}

// Sessions exposes the session store, e.g. for history inspection.
func (p *Pipeline) Sessions() session.Store {
	return p.opts.Sessions
}

// #endregion pipeline

// #region process
// Process handles one request. It fails only when every backend and the
// single-backend fallback failed; that error wraps ErrProcessing.
func (p *Pipeline) Process(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	requestID := uuid.New().String()
	ctx, span := tracer.Start(ctx, "pipeline.process")
	defer span.End()
	span.SetAttributes(attribute.String("request_id", requestID), attribute.String("session_id", req.SessionID))

	log := p.logger.With("request_id", requestID, "session_id", req.SessionID)

	history, err := p.opts.Sessions.Get(ctx, req.SessionID)
	if err != nil {
		log.Warn("history unavailable, continuing without it", "error", err)
		history = nil
	}

	sym := symbolic.Normalize(req.SymbolicContext)
	cls := classify.Classify(req.InputText)
	systemPrompt := symbolic.SystemPrompt(p.opts.SystemPrompt, sym)
	rec := logging.DecisionRecord{
		RequestID:   requestID,
		Input:       req.InputText,
		Mode:        sym.Mode,
		Tone:        sym.Tone,
		Class:       string(cls.Class),
		TokenBudget: cls.TokenBudget,
		Thresholds: logging.RecordThresholds{
			Proceed:        p.opts.Gate.Config().ProceedThreshold,
			Note:           p.opts.Gate.Config().NoteThreshold,
			AmbiguityTopic: p.opts.Gate.Config().AmbiguityTopic,
		},
	}

	// --- Collect ---
	coll, collErr := p.collector.Collect(ctx, collector.Batch{
		Backends:        p.opts.Backends,
		SystemPrompt:    systemPrompt,
		UserText:        req.InputText,
		MaxOutputTokens: cls.TokenBudget,
	})
	res := Result{RequestID: requestID, Class: cls.Class}
	for _, f := range coll.Failures {
		res.FailedBackends = append(res.FailedBackends, f.BackendID)
		rec.Failures = append(rec.Failures, logging.RecordFailure{Backend: f.BackendID, Error: f.Err.Error()})
		if p.opts.Metrics != nil {
			p.opts.Metrics.BackendFailuresTotal.WithLabelValues(f.BackendID).Inc()
		}
	}

	var decision gate.GateDecision
	if collErr != nil {
		// --- Fallback ---
		log.Warn("batch failed, using fallback backend", "backend", p.opts.DefaultBackend, "error", collErr)
		resp, fbErr := p.collector.Fallback(ctx, p.opts.DefaultBackend, systemPrompt, req.InputText, p.opts.FallbackMaxTokens)
		if fbErr != nil {
			err := fmt.Errorf("%w: %w", ErrProcessing, errors.Join(collErr, fbErr))
			p.countFallback("error")
			p.fail(ctx, log, req, rec, err, start)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Result{}, err
		}
		p.countFallback("success")
		decision = p.opts.Gate.Fallback(resp.Text)
		res.FallbackUsed = true
		res.IntegrityScore = integrity.FallbackScore
		res.ChosenBackend = resp.BackendID
		rec.Fallback = true
		rec.Responses = []logging.RecordResponse{{Backend: resp.BackendID, Tokens: resp.OutputTokenCount}}
	} else {
		// --- Analyze, score, rank ---
		metrics := p.opts.Analyzer.Analyze(collector.Texts(coll.Responses))
		score := p.opts.Scorer.Score(metrics)
		sel, _ := p.opts.Ranker.Rank(coll.Responses, cls.Profile)

		// --- Gate ---
		decision = p.opts.Gate.Decide(gate.Input{
			Text:         req.InputText,
			Metrics:      metrics,
			Integrity:    score,
			History:      history,
			ResponseText: sel.Primary.Text,
		})

		res.DivergenceMetrics = metrics
		res.IntegrityScore = score
		res.ChosenBackend = sel.Primary.BackendID
		res.Ranking = sel.Candidates
		for _, c := range sel.Candidates {
			rec.Responses = append(rec.Responses, logging.RecordResponse{
				Backend: c.Response.BackendID, Tokens: c.Response.OutputTokenCount, Quality: c.Breakdown.Total,
			})
		}
		rec.TiedCandidates = sel.Tied
		if p.opts.Metrics != nil {
			p.opts.Metrics.IntegrityScore.Observe(score)
			p.opts.Metrics.TopicDivergence.Observe(metrics.TopicDivergence)
		}
	}

	res.Disposition = decision.Disposition
	res.EpistemicReason = decision.Reason
	res.ResponseText = decision.ResponseText
	res.Note = decision.Note
	res.ClarificationText = decision.ClarificationText
	res.ConsensusStrength = decision.ConsensusStrength
	res.Resolution = decision.Resolution
	if res.Disposition == gate.Clarify {
		res.ChosenBackend = ""
	}

	span.SetAttributes(
		attribute.String("disposition", string(res.Disposition)),
		attribute.Float64("integrity", res.IntegrityScore),
		attribute.Bool("fallback", res.FallbackUsed),
	)

	p.appendTurn(ctx, log, req, res)
	p.record(ctx, log, req, finishRecord(rec, res, decision))
	if p.opts.Metrics != nil {
		p.opts.Metrics.RequestsTotal.WithLabelValues(string(res.Disposition), string(res.EpistemicReason)).Inc()
		p.opts.Metrics.ProcessDuration.Observe(time.Since(start).Seconds())
	}

	log.Info("request processed",
		"disposition", res.Disposition,
		"reason", res.EpistemicReason,
		"integrity", res.IntegrityScore,
		"backend", res.ChosenBackend,
		"fallback", res.FallbackUsed,
	)
	return res, nil
}

// #endregion process

// #region helpers
func finishRecord(rec logging.DecisionRecord, res Result, d gate.GateDecision) logging.DecisionRecord {
	m := res.DivergenceMetrics
	rec.Metrics = logging.RecordMetrics{
		LengthVariance:      m.LengthVariance,
		SentimentDivergence: m.SentimentDivergence,
		TopicDivergence:     m.TopicDivergence,
		ToneConsistency:     m.ToneConsistency,
	}
	rec.Integrity = res.IntegrityScore
	rec.Disposition = string(res.Disposition)
	rec.Reason = string(d.Reason)
	rec.EpistemicReason = string(d.EpistemicReason)
	rec.ChosenBackend = res.ChosenBackend
	if d.Resolution != nil {
		rec.Resolution = &logging.RecordResolution{
			Resolvable: d.Resolution.Resolvable,
			ReasonCode: string(d.Resolution.ReasonCode),
			Confidence: d.Resolution.Confidence,
		}
	}
	return rec
}

// appendTurn stores the exchange; failures are logged, never surfaced.
func (p *Pipeline) appendTurn(ctx context.Context, log *slog.Logger, req Request, res Result) {
	turn := session.Turn{
		UserText:      req.InputText,
		AssistantText: res.Text(),
		Metadata: map[string]string{
			"request_id":  res.RequestID,
			"disposition": string(res.Disposition),
			"reason":      string(res.EpistemicReason),
			"integrity":   strconv.FormatFloat(res.IntegrityScore, 'f', 3, 64),
			"backend":     res.ChosenBackend,
			"fallback":    strconv.FormatBool(res.FallbackUsed),
		},
	}
	if err := p.opts.Sessions.Append(ctx, req.SessionID, turn); err != nil {
		log.Warn("append turn failed", "error", err)
	}
}

// record writes the provenance entry; failures are logged, never surfaced.
func (p *Pipeline) record(ctx context.Context, log *slog.Logger, req Request, rec logging.DecisionRecord) {
	if p.opts.Decisions == nil {
		return
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		log.Warn("marshal decision record failed", "error", err)
	}
	err = p.opts.Decisions.Record(ctx, logging.DecisionEntry{
		RequestID:     rec.RequestID,
		SessionID:     req.SessionID,
		Disposition:   rec.Disposition,
		Reason:        rec.Reason,
		Integrity:     rec.Integrity,
		Fallback:      rec.Fallback,
		ChosenBackend: rec.ChosenBackend,
		PayloadJSON:   string(payload),
	})
	if err != nil {
		log.Warn("decision log write failed", "error", err)
	}
}

// fail records a total failure.
func (p *Pipeline) fail(ctx context.Context, log *slog.Logger, req Request, rec logging.DecisionRecord, err error, start time.Time) {
	log.Error("request failed", "error", err)
	rec.Disposition = "error"
	rec.Reason = err.Error()
	p.record(ctx, log, req, rec)
	if p.opts.Metrics != nil {
		p.opts.Metrics.RequestsTotal.WithLabelValues("error", "").Inc()
		p.opts.Metrics.ProcessDuration.Observe(time.Since(start).Seconds())
	}
}

func (p *Pipeline) countFallback(result string) {
	if p.opts.Metrics != nil {
		p.opts.Metrics.FallbacksTotal.WithLabelValues(result).Inc()
	}
}

// #endregion helpers
