package allocation

import (
	"context"

	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type Allocator interface {
	// Builds a complete duty schedule for the input. The returned error is only non-nil when ctx is done, in which
	// case the allocation is discarded
	Allocate(ctx context.Context, modelInput model.ModelInput) (Allocation, error)
}

// Allocation is the raw output of an allocator: the duties it placed and every place it fell short
type Allocation struct {
	Assignments     []model.Assignment
	IncompleteSlots []model.IncompleteSlot
	Violations      []model.Violation
	Warnings        []string
	Errors          []string // Structural problems that prevented the allocation
}

func (allocation Allocation) Success() bool {
	return len(allocation.Errors) == 0 &&
		len(allocation.IncompleteSlots) == 0 &&
		!lo.SomeBy(allocation.Violations, func(violation model.Violation) bool {
			return violation.Id.Blocking()
		})
}

type Option func(*greedyAllocator)

func WithPolicy(policy model.Policy) Option {
	return func(allocator *greedyAllocator) {
		allocator.policy = policy
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(allocator *greedyAllocator) {
		allocator.logger = logger
	}
}

func NewGreedyAllocator(options ...Option) Allocator {
	allocator := &greedyAllocator{
		policy: model.DefaultPolicy(),
		logger: zerolog.Nop(),
	}
	for _, option := range options {
		option(allocator)
	}
	return allocator
}
