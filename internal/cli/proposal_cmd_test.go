package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okoyedan/fundflow/internal/domain"
)

func actionFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Uint32("complete-milestone", 0, "")
	flags.Bool("cancel-flow", false, "")
	flags.Uint32("adjust-milestone", 0, "")
	flags.Uint64("new-amount", 0, "")
	flags.String("new-deadline", "", "")
	flags.String("extend-to", "", "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestBuildAction_CompleteMilestone(t *testing.T) {
	flags := actionFlags(t, "--complete-milestone=2")

	action, err := buildAction(flags, 2, 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.MilestoneCompletion{MilestoneID: 2}, action)
}

func TestBuildAction_CancelFlow(t *testing.T) {
	flags := actionFlags(t, "--cancel-flow")

	action, err := buildAction(flags, 0, 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.FlowCancellation{}, action)
}

func TestBuildAction_AdjustMilestone(t *testing.T) {
	flags := actionFlags(t, "--adjust-milestone=1", "--new-amount=250", "--new-deadline=2026-10-01")

	action, err := buildAction(flags, 1, 250, "2026-10-01", "")
	require.NoError(t, err)

	adj, ok := action.(domain.MilestoneAdjustment)
	require.True(t, ok)
	assert.Equal(t, uint32(1), adj.MilestoneID)
	require.NotNil(t, adj.NewAmount)
	assert.Equal(t, uint64(250), *adj.NewAmount)
	require.NotNil(t, adj.NewDeadline)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), adj.NewDeadline.UTC())
}

func TestBuildAction_AdjustMilestoneNeedsChange(t *testing.T) {
	flags := actionFlags(t, "--adjust-milestone=1")

	_, err := buildAction(flags, 1, 0, "", "")
	assert.Error(t, err)
}

func TestBuildAction_ExtendFunding(t *testing.T) {
	flags := actionFlags(t)

	action, err := buildAction(flags, 0, 0, "", "2027-01-15")
	require.NoError(t, err)

	ext, ok := action.(domain.FlowFundingExtension)
	require.True(t, ok)
	assert.Equal(t, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC), ext.NewEndDate.UTC())
}

func TestBuildAction_NoSelector(t *testing.T) {
	flags := actionFlags(t)

	_, err := buildAction(flags, 0, 0, "", "")
	assert.Error(t, err)
}

func TestBuildAction_BadDates(t *testing.T) {
	t.Run("adjust deadline", func(t *testing.T) {
		flags := actionFlags(t, "--adjust-milestone=0", "--new-deadline=october")
		_, err := buildAction(flags, 0, 0, "october", "")
		assert.Error(t, err)
	})

	t.Run("extension date", func(t *testing.T) {
		flags := actionFlags(t)
		_, err := buildAction(flags, 0, 0, "", "soon")
		assert.Error(t, err)
	})
}
