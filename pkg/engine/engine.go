package engine

import (
	"context"

	"github.com/limaJavier/invigilation/pkg/allocation"
	"github.com/limaJavier/invigilation/pkg/model"
	"github.com/limaJavier/invigilation/pkg/report"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Engine runs an allocation and derives the full result from it
type Engine struct {
	policy model.Policy
	logger zerolog.Logger
}

type Option func(*Engine)

func WithPolicy(policy model.Policy) Option {
	return func(engine *Engine) {
		engine.policy = policy
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(engine *Engine) {
		engine.logger = logger
	}
}

func New(options ...Option) *Engine {
	engine := &Engine{
		policy: model.DefaultPolicy(),
		logger: zerolog.Nop(),
	}
	for _, option := range options {
		option(engine)
	}
	return engine
}

// Run allocates duties for the input and reports on them. The result is built from scratch on every call and is
// only returned once complete; a cancelled ctx yields its error and no result
func (engine *Engine) Run(ctx context.Context, modelInput model.ModelInput) (model.AssignmentResult, error) {
	allocator := allocation.NewGreedyAllocator(
		allocation.WithPolicy(engine.policy),
		allocation.WithLogger(engine.logger),
	)

	//** Allocate
	allocated, err := allocator.Allocate(ctx, modelInput)
	if err != nil {
		return model.AssignmentResult{}, err
	}

	result := model.AssignmentResult{
		Assignments:     allocated.Assignments,
		Errors:          allocated.Errors,
		Warnings:        allocated.Warnings,
		IncompleteSlots: allocated.IncompleteSlots,
		Violations:      allocated.Violations,
		DutyOverview:    make([]model.FacultyDutyOverview, 0),
	}
	if len(allocated.Errors) > 0 {
		return result, nil
	}

	//** Report
	built := report.Build(modelInput, allocated.Assignments)
	result.Violations = append(result.Violations, built.Violations...)
	result.DutyOverview = built.Overview
	result.Errors = append(result.Errors, report.Problems(allocated.Assignments, modelInput)...)

	capacities, err := report.Capacity(modelInput)
	if err != nil {
		engine.logger.Warn().Err(err).Msg("capacity analysis skipped")
	} else {
		result.Warnings = append(result.Warnings, report.Underfilled(capacities, allocated.Assignments)...)
	}

	result.Success = allocated.Success() &&
		len(result.Errors) == 0 &&
		!lo.SomeBy(built.Violations, func(violation model.Violation) bool {
			return violation.Id.Blocking()
		})

	engine.logger.Info().
		Bool("success", result.Success).
		Int("assignments", len(result.Assignments)).
		Int("incomplete", len(result.IncompleteSlots)).
		Int("violations", len(result.Violations)).
		Int("warnings", len(result.Warnings)).
		Msg("allocation completed")

	return result, nil
}
