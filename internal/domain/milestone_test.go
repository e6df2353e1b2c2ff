package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schedule(now time.Time) []Milestone {
	return []Milestone{
		{ID: 0, Amount: 500, Deadline: now.Add(24 * time.Hour)},
		{ID: 1, Amount: 500, Deadline: now.Add(48 * time.Hour)},
	}
}

func TestValidateSchedule(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, ValidateSchedule(schedule(testNow), 1000, nil, testNow))
	})

	t.Run("empty", func(t *testing.T) {
		assert.ErrorIs(t, ValidateSchedule(nil, 1000, nil, testNow), ErrNoMilestonesSpecified)
	})

	t.Run("too many", func(t *testing.T) {
		ms := make([]Milestone, MaxMilestones+1)
		for i := range ms {
			ms[i] = Milestone{ID: uint32(i), Amount: 1, Deadline: testNow.Add(time.Hour)}
		}
		assert.ErrorIs(t, ValidateSchedule(ms, uint64(len(ms)), nil, testNow), ErrTooManyMilestones)
	})

	t.Run("duplicate id", func(t *testing.T) {
		ms := schedule(testNow)
		ms[1].ID = ms[0].ID
		assert.ErrorIs(t, ValidateSchedule(ms, 1000, nil, testNow), ErrDuplicateMilestone)
	})

	t.Run("zero amount", func(t *testing.T) {
		ms := schedule(testNow)
		ms[0].Amount = 0
		assert.ErrorIs(t, ValidateSchedule(ms, 500, nil, testNow), ErrInvalidMilestoneAmount)
	})

	t.Run("pre-completed", func(t *testing.T) {
		ms := schedule(testNow)
		ms[0].Completed = true
		assert.ErrorIs(t, ValidateSchedule(ms, 1000, nil, testNow), ErrMilestoneAlreadyCompleted)
	})

	t.Run("deadline in the past", func(t *testing.T) {
		ms := schedule(testNow)
		ms[0].Deadline = testNow.Add(-time.Hour)
		assert.ErrorIs(t, ValidateSchedule(ms, 1000, nil, testNow), ErrInvalidMilestoneDeadline)
	})

	t.Run("deadline past flow end", func(t *testing.T) {
		ms := schedule(testNow)
		end := testNow.Add(36 * time.Hour)
		assert.ErrorIs(t, ValidateSchedule(ms, 1000, &end, testNow), ErrInvalidMilestoneDeadline)
	})

	t.Run("sum mismatch", func(t *testing.T) {
		assert.ErrorIs(t, ValidateSchedule(schedule(testNow), 900, nil, testNow), ErrMilestoneTotalMismatch)
	})
}

func TestMarkCompleted(t *testing.T) {
	ms := schedule(testNow)

	m, err := MarkCompleted(ms, 0)
	require.NoError(t, err)
	assert.True(t, ms[0].Completed)
	assert.Equal(t, uint64(500), m.Amount)

	_, err = MarkCompleted(ms, 0)
	assert.ErrorIs(t, err, ErrMilestoneAlreadyCompleted)

	_, err = MarkCompleted(ms, 99)
	assert.ErrorIs(t, err, ErrMilestoneNotFound)
}

func TestAdjustMilestone(t *testing.T) {
	amount := func(v uint64) *uint64 { return &v }
	deadline := func(d time.Time) *time.Time { return &d }

	t.Run("amount within goal", func(t *testing.T) {
		ms := schedule(testNow)
		require.NoError(t, AdjustMilestone(ms, 0, amount(400), nil, 1000, nil, testNow))
		assert.Equal(t, uint64(400), ms[0].Amount)
	})

	t.Run("amount pushing total past goal", func(t *testing.T) {
		ms := schedule(testNow)
		err := AdjustMilestone(ms, 0, amount(600), nil, 1000, nil, testNow)
		assert.ErrorIs(t, err, ErrInvalidMilestoneAdjustment)
		assert.Equal(t, uint64(500), ms[0].Amount, "failed adjustment must not apply")
	})

	t.Run("deadline must precede flow end", func(t *testing.T) {
		ms := schedule(testNow)
		end := testNow.Add(72 * time.Hour)
		err := AdjustMilestone(ms, 0, nil, deadline(end), 1000, &end, testNow)
		assert.ErrorIs(t, err, ErrInvalidMilestoneDeadline, "deadline equal to end is rejected")

		require.NoError(t, AdjustMilestone(ms, 0, nil, deadline(end.Add(-time.Hour)), 1000, &end, testNow))
	})

	t.Run("deadline in the past", func(t *testing.T) {
		ms := schedule(testNow)
		err := AdjustMilestone(ms, 0, nil, deadline(testNow.Add(-time.Hour)), 1000, nil, testNow)
		assert.ErrorIs(t, err, ErrInvalidMilestoneDeadline)
	})

	t.Run("completed milestone is immutable", func(t *testing.T) {
		ms := schedule(testNow)
		_, err := MarkCompleted(ms, 1)
		require.NoError(t, err)
		err = AdjustMilestone(ms, 1, amount(100), nil, 1000, nil, testNow)
		assert.ErrorIs(t, err, ErrMilestoneAlreadyCompleted)
	})

	t.Run("failed deadline check leaves amount untouched", func(t *testing.T) {
		ms := schedule(testNow)
		err := AdjustMilestone(ms, 0, amount(400), deadline(testNow.Add(-time.Hour)), 1000, nil, testNow)
		assert.ErrorIs(t, err, ErrInvalidMilestoneDeadline)
		assert.Equal(t, uint64(500), ms[0].Amount, "checks run before any effect")
	})
}
