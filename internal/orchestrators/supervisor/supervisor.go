// Package supervisor drives one orchestration run: it alternates between
// asking the oracle for a directive and dispatching the named capability,
// folding each result back into the conversation state. Every run
// terminates: the turn budget bounds cooperative stalls, the context
// deadline bounds wall-clock time, and both exits still produce a
// best-effort answer from whatever artifacts accumulated.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/gabrielblins/pokemon-agent-system/internal/capabilities"
	"github.com/gabrielblins/pokemon-agent-system/internal/clients/oracle"
	"github.com/gabrielblins/pokemon-agent-system/internal/conversation"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
	"github.com/gabrielblins/pokemon-agent-system/internal/pkg/clock"
	"github.com/gabrielblins/pokemon-agent-system/internal/pkg/idgen"
)

// phase names one state of the run loop.
type phase string

const (
	phaseStart             phase = "START"
	phaseAwaitingDirective phase = "AWAITING_DIRECTIVE"
	phaseDispatching       phase = "DISPATCHING"
	phaseFolding           phase = "FOLDING"
	phaseDone              phase = "DONE"
	phaseAborted           phase = "ABORTED"
)

const (
	// DefaultMaxTurns bounds capability turns per run.
	DefaultMaxTurns = 8
	// DefaultOracleRetries is how many times a failed Decide call is
	// retried with identical state before the run aborts.
	DefaultOracleRetries = 2
)

// RunInput starts an orchestration run.
type RunInput struct {
	Query string
}

// RunOutput is the run's outcome. Answer is always populated: the final
// answer on a clean finish, a best-effort summary of collected artifacts on
// a budget or deadline exit (Degraded is true in that case).
type RunOutput struct {
	RunID     string
	Answer    string
	Degraded  bool
	TurnCount int
	Artifacts map[conversation.ArtifactKey]any
}

// Service is the session driver entry point.
type Service interface {
	Run(ctx context.Context, input *RunInput) (*RunOutput, error)
}

// Config holds the supervisor's dependencies.
type Config struct {
	Oracle      oracle.Client
	Registry    capabilities.Registry
	IDGenerator idgen.Generator
	Clock       clock.Clock
	Logger      *slog.Logger

	// MaxTurns bounds capability turns per run (optional, defaults to 8)
	MaxTurns int
	// OracleRetries bounds Decide retries per turn (optional, defaults to 2)
	OracleRetries int
}

// Validate ensures all required dependencies are provided and sets
// defaults for the optional knobs.
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Oracle == nil {
		vb.RequiredField("Oracle")
	}
	if cfg.Registry == nil {
		vb.RequiredField("Registry")
	}
	if cfg.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.OracleRetries <= 0 {
		cfg.OracleRetries = DefaultOracleRetries
	}
	return nil
}

type service struct {
	oracle        oracle.Client
	registry      capabilities.Registry
	idGen         idgen.Generator
	clock         clock.Clock
	logger        *slog.Logger
	maxTurns      int
	oracleRetries int
}

// New creates a supervisor with the provided config.
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &service{
		oracle:        cfg.Oracle,
		registry:      cfg.Registry,
		idGen:         cfg.IDGenerator,
		clock:         cfg.Clock,
		logger:        cfg.Logger,
		maxTurns:      cfg.MaxTurns,
		oracleRetries: cfg.OracleRetries,
	}, nil
}

// Ensure service implements Service
var _ Service = (*service)(nil)

// Run executes the loop until a terminal phase. An aborted run returns both
// the error and an output carrying the degraded answer, so callers can
// still surface whatever was collected.
func (s *service) Run(ctx context.Context, input *RunInput) (*RunOutput, error) {
	if input == nil || input.Query == "" {
		return nil, errors.InvalidArgument("query is required")
	}

	runID := s.idGen.Generate()
	state := conversation.NewState(runID, input.Query)
	started := s.clock.Now()

	s.transition(ctx, state, phaseStart, phaseAwaitingDirective)

	for {
		if err := ctx.Err(); err != nil {
			return s.abort(ctx, state, started,
				errors.WrapWithCode(err, errors.CodeDeadlineExceeded, "run deadline exceeded"))
		}
		if state.TurnCount >= s.maxTurns {
			s.logger.WarnContext(ctx, "turn budget exhausted",
				slog.String("run_id", runID),
				slog.Int("max_turns", s.maxTurns))
			return s.finish(ctx, state, started, degradedAnswer(state), true), nil
		}

		directive, err := s.decide(ctx, state)
		if err != nil {
			return s.abort(ctx, state, started, err)
		}
		state.Append(conversation.Turn{
			Actor:   conversation.ActorSupervisor,
			Content: directive.String(),
		})

		if directive.Capability == conversation.TagRespond {
			return s.finish(ctx, state, started, directive.Instruction, false), nil
		}

		s.transition(ctx, state, phaseAwaitingDirective, phaseDispatching)

		handler, ok := s.registry.Lookup(directive.Capability)
		if !ok {
			return s.abort(ctx, state, started,
				errors.Internal("oracle routed to unknown capability").
					WithMeta("capability", string(directive.Capability)))
		}

		result := s.dispatch(ctx, state, directive, handler)

		s.transition(ctx, state, phaseDispatching, phaseFolding)
		state.Append(conversation.Turn{
			Actor:   conversation.ActorFor(directive.Capability),
			Content: result.Summary(),
			Payload: result.Artifacts(),
		})
		state.MergeArtifacts(result.Artifacts())
		state.TurnCount++

		s.transition(ctx, state, phaseFolding, phaseAwaitingDirective)
	}
}

// decide asks the oracle for the next directive, retrying transient
// failures with identical state.
func (s *service) decide(ctx context.Context, state *conversation.State) (*conversation.Directive, error) {
	attempts := s.oracleRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeDeadlineExceeded, "run deadline exceeded")
		}

		directive, err := s.oracle.Decide(ctx, state)
		if err == nil {
			if !conversation.ValidTag(directive.Capability) {
				return nil, errors.Internal("oracle routed to unknown capability").
					WithMeta("capability", string(directive.Capability))
			}
			return directive, nil
		}
		lastErr = err

		s.logger.WarnContext(ctx, "oracle decide failed",
			slog.String("run_id", state.RunID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}

	return nil, errors.WrapWithCodef(lastErr, errors.CodeUnavailable,
		"oracle unavailable after %d attempts", attempts)
}

// dispatch runs the handler. A handler error is a recoverable turn outcome:
// it becomes a failure artifact for the oracle to see, never an abort.
func (s *service) dispatch(ctx context.Context, state *conversation.State, directive *conversation.Directive, handler capabilities.Handler) *conversation.Result {
	result, err := handler.Handle(ctx, state, directive.Instruction)
	if err != nil {
		s.logger.WarnContext(ctx, "capability handler failed",
			slog.String("run_id", state.RunID),
			slog.String("capability", string(directive.Capability)),
			slog.String("error", err.Error()))

		reason := string(directive.Capability) + " failed: " + err.Error()
		return conversation.Continue(reason, map[conversation.ArtifactKey]any{
			conversation.ArtifactHandlerFailure: reason,
		})
	}
	return result
}

func (s *service) finish(ctx context.Context, state *conversation.State, started time.Time, answer string, degraded bool) *RunOutput {
	s.transition(ctx, state, phaseFolding, phaseDone)
	s.logger.InfoContext(ctx, "run finished",
		slog.String("run_id", state.RunID),
		slog.Int("turns", state.TurnCount),
		slog.Bool("degraded", degraded),
		slog.Duration("elapsed", s.clock.Now().Sub(started)))

	return &RunOutput{
		RunID:     state.RunID,
		Answer:    answer,
		Degraded:  degraded,
		TurnCount: state.TurnCount,
		Artifacts: state.Artifacts,
	}
}

func (s *service) abort(ctx context.Context, state *conversation.State, started time.Time, err error) (*RunOutput, error) {
	s.transition(ctx, state, phaseAwaitingDirective, phaseAborted)
	s.logger.ErrorContext(ctx, "run aborted",
		slog.String("run_id", state.RunID),
		slog.Int("turns", state.TurnCount),
		slog.String("error", err.Error()),
		slog.Duration("elapsed", s.clock.Now().Sub(started)))

	out := &RunOutput{
		RunID:     state.RunID,
		Degraded:  true,
		TurnCount: state.TurnCount,
		Artifacts: state.Artifacts,
	}
	if len(state.Artifacts) > 0 {
		out.Answer = degradedAnswer(state)
	}
	return out, err
}

func (s *service) transition(ctx context.Context, state *conversation.State, from, to phase) {
	s.logger.DebugContext(ctx, "phase transition",
		slog.String("run_id", state.RunID),
		slog.String("from", string(from)),
		slog.String("to", string(to)))
}
