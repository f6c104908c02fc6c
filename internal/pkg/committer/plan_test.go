package committer

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingApplier struct {
	calls  [][]*spanner.Mutation
	failAt int // 1-based call that fails, 0 for never
}

func (r *recordingApplier) Apply(_ context.Context, ms []*spanner.Mutation, _ ...spanner.ApplyOption) (time.Time, error) {
	r.calls = append(r.calls, ms)
	if r.failAt == len(r.calls) {
		return time.Time{}, errors.New("aborted")
	}
	return time.Now(), nil
}

func planOf(n int) *CommitPlan {
	plan := NewPlan()
	for i := 0; i < n; i++ {
		plan.Add(spanner.Delete("products", spanner.Key{i}))
	}
	return plan
}

func TestCommitPlan(t *testing.T) {
	plan := NewPlan()
	assert.True(t, plan.IsEmpty())

	plan.Add(nil)
	assert.True(t, plan.IsEmpty())

	plan.AddMultiple([]*spanner.Mutation{spanner.Delete("products", spanner.Key{"a"}), nil})
	assert.Equal(t, 1, plan.Count())
}

func TestCommitter_Apply(t *testing.T) {
	t.Run("empty plan is a no-op", func(t *testing.T) {
		applier := &recordingApplier{}
		require.NoError(t, NewCommitter(applier).Apply(context.Background(), NewPlan()))
		assert.Empty(t, applier.calls)
	})

	t.Run("single commit", func(t *testing.T) {
		applier := &recordingApplier{}
		require.NoError(t, NewCommitter(applier).Apply(context.Background(), planOf(3)))
		require.Len(t, applier.calls, 1)
		assert.Len(t, applier.calls[0], 3)
	})

	t.Run("oversized plan is rejected", func(t *testing.T) {
		applier := &recordingApplier{}
		err := NewCommitter(applier).WithMaxMutations(2).Apply(context.Background(), planOf(3))
		assert.ErrorIs(t, err, ErrPlanTooLarge)
		assert.Empty(t, applier.calls)
	})

	t.Run("client error is wrapped", func(t *testing.T) {
		applier := &recordingApplier{failAt: 1}
		err := NewCommitter(applier).Apply(context.Background(), planOf(1))
		assert.ErrorContains(t, err, "aborted")
	})
}

func TestCommitter_ApplyAll(t *testing.T) {
	t.Run("packs plans without splitting", func(t *testing.T) {
		applier := &recordingApplier{}
		comm := NewCommitter(applier).WithMaxMutations(5)

		n, err := comm.ApplyAll(context.Background(), []*CommitPlan{planOf(2), planOf(2), planOf(3), planOf(1)})
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		require.Len(t, applier.calls, 2)
		assert.Len(t, applier.calls[0], 4)
		assert.Len(t, applier.calls[1], 4)
	})

	t.Run("reports progress on failure", func(t *testing.T) {
		applier := &recordingApplier{failAt: 2}
		comm := NewCommitter(applier).WithMaxMutations(2)

		n, err := comm.ApplyAll(context.Background(), []*CommitPlan{planOf(2), planOf(2), planOf(2)})
		assert.Error(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("oversized plan stops the run", func(t *testing.T) {
		applier := &recordingApplier{}
		comm := NewCommitter(applier).WithMaxMutations(2)

		n, err := comm.ApplyAll(context.Background(), []*CommitPlan{planOf(1), planOf(3)})
		assert.ErrorIs(t, err, ErrPlanTooLarge)
		assert.Equal(t, 1, n)
	})
}
