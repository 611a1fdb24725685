package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bnema/wallet-resources/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSteps(results map[string]error, names ...string) []application.RefreshStep {
	steps := make([]application.RefreshStep, 0, len(names))
	for _, name := range names {
		err := results[name]
		steps = append(steps, application.RefreshStep{Name: name, Poll: func(context.Context) error { return err }})
	}
	return steps
}

func TestFetchProgressModelShowsCurrentMarket(t *testing.T) {
	m := newFetchProgressModel(context.Background(), "Fetching", fixedSteps(nil, "PowerUp", "REX"))
	assert.Contains(t, m.View(), "Fetching PowerUp (1/2)")

	next, cmd := m.Update(stepDoneMsg{index: 0})
	require.NotNil(t, cmd)
	m = next.(fetchProgressModel)
	assert.Contains(t, m.View(), "✓ PowerUp")
	assert.Contains(t, m.View(), "Fetching REX (2/2)")
}

func TestFetchProgressModelIgnoresOutOfOrderResults(t *testing.T) {
	m := newFetchProgressModel(context.Background(), "Fetching", fixedSteps(nil, "PowerUp", "REX"))

	next, cmd := m.Update(stepDoneMsg{index: 1})
	assert.Nil(t, cmd)
	assert.Empty(t, next.(fetchProgressModel).results)
}

func TestRunFetchSpinnerJoinsStepErrors(t *testing.T) {
	down := errors.New("rexpool unreachable")
	var out bytes.Buffer

	err := runFetchSpinner(context.Background(), &out, "Fetching",
		fixedSteps(map[string]error{"REX": down}, "PowerUp", "REX", "balances"))
	require.Error(t, err)
	assert.ErrorIs(t, err, down)
	assert.Contains(t, out.String(), "✓ PowerUp")
	assert.Contains(t, out.String(), "✗ REX: rexpool unreachable")
	assert.Contains(t, out.String(), "✓ balances")
}

func TestRunFetchSpinnerWithoutSteps(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, runFetchSpinner(context.Background(), &out, "Fetching", nil))
}
