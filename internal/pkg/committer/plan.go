// Package committer collects Spanner mutations into plans and applies each
// plan atomically.
//
// Repositories return mutations instead of writing them. A caller gathers
// every mutation that must land together into one CommitPlan and hands it
// to Committer.Apply:
//
//	plan := committer.NewPlan()
//	plan.Add(productMut)
//	plan.AddMultiple(historyMuts)
//	return comm.Apply(ctx, plan)
//
// Either all mutations of a plan are committed or none are.
package committer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
)

// DefaultMaxMutations bounds the rows written by a single commit.
const DefaultMaxMutations = 2000

// ErrPlanTooLarge is returned when a plan cannot fit in one commit.
var ErrPlanTooLarge = errors.New("commit plan exceeds mutation limit")

// CommitPlan is a typed wrapper around Spanner mutations.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Applier is the subset of *spanner.Client used to commit.
type Applier interface {
	Apply(ctx context.Context, ms []*spanner.Mutation, opts ...spanner.ApplyOption) (time.Time, error)
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client       Applier
	maxMutations int
}

// NewCommitter creates a new Committer with DefaultMaxMutations.
func NewCommitter(client Applier) *Committer {
	return &Committer{client: client, maxMutations: DefaultMaxMutations}
}

// WithMaxMutations returns a copy of the committer using a different limit.
func (c *Committer) WithMaxMutations(n int) *Committer {
	cp := *c
	if n > 0 {
		cp.maxMutations = n
	}
	return &cp
}

// Apply executes the CommitPlan atomically within a Spanner transaction.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil // Nothing to commit
	}
	if plan.Count() > c.maxMutations {
		return fmt.Errorf("%w: %d > %d", ErrPlanTooLarge, plan.Count(), c.maxMutations)
	}

	_, err := c.client.Apply(ctx, plan.Mutations())
	if err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}

	return nil
}

// ApplyAll packs whole plans into as few commits as the limit allows. A plan
// is never split across commits, so each stays atomic. It returns the number
// of plans committed before the first failure.
func (c *Committer) ApplyAll(ctx context.Context, plans []*CommitPlan) (int, error) {
	committed := 0
	batch := NewPlan()
	pending := 0

	flush := func() error {
		if batch.IsEmpty() {
			return nil
		}
		if _, err := c.client.Apply(ctx, batch.Mutations()); err != nil {
			return fmt.Errorf("failed to apply commit batch: %w", err)
		}
		committed += pending
		batch = NewPlan()
		pending = 0
		return nil
	}

	for _, plan := range plans {
		if plan.Count() > c.maxMutations {
			if err := flush(); err != nil {
				return committed, err
			}
			return committed, fmt.Errorf("%w: %d > %d", ErrPlanTooLarge, plan.Count(), c.maxMutations)
		}
		if batch.Count()+plan.Count() > c.maxMutations {
			if err := flush(); err != nil {
				return committed, err
			}
		}
		batch.AddMultiple(plan.Mutations())
		pending++
	}
	if err := flush(); err != nil {
		return committed, err
	}
	return committed, nil
}
