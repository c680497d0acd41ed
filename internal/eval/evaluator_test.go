package eval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariunbolor/cozmo-tools/internal/eval"
	"github.com/ariunbolor/cozmo-tools/internal/sim"
	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
)

func newEvaluator(t *testing.T) *eval.Evaluator {
	t.Helper()
	rt := fsm.NewRuntime(nil)
	rt.Start()
	t.Cleanup(rt.Stop)

	e, err := eval.New(eval.Bindings{Session: sim.New(), Runtime: rt}.Binder())
	require.NoError(t, err)
	return e
}

func TestEvaluateExpression(t *testing.T) {
	e := newEvaluator(t)

	res, err := e.Evaluate(context.Background(), "6 * 7")
	require.NoError(t, err)
	assert.True(t, res.HasValue)
	assert.Equal(t, 42, res.Value)
	assert.Equal(t, 42, e.Ans())
}

func TestNamespacePersistsAcrossLines(t *testing.T) {
	e := newEvaluator(t)
	ctx := context.Background()

	require.NoError(t, e.EvaluateStatement(ctx, "var counter = 10"))
	res, err := e.Evaluate(ctx, "counter + 1")
	require.NoError(t, err)
	assert.Equal(t, 11, res.Value)
}

func TestStatementResetsAns(t *testing.T) {
	e := newEvaluator(t)
	ctx := context.Background()

	_, err := e.Evaluate(ctx, "1 + 1")
	require.NoError(t, err)
	require.Equal(t, 2, e.Ans())

	require.NoError(t, e.EvaluateStatement(ctx, "var scratch = 0"))
	assert.Nil(t, e.Ans())
}

func TestAnsReachableFromNamespace(t *testing.T) {
	e := newEvaluator(t)
	ctx := context.Background()

	_, err := e.Evaluate(ctx, "19 + 4")
	require.NoError(t, err)

	res, err := e.Evaluate(ctx, "ans()")
	require.NoError(t, err)
	assert.Equal(t, 23, res.Value)
}

func TestSessionHandlesAreBound(t *testing.T) {
	e := newEvaluator(t)

	res, err := e.Evaluate(context.Background(), "charger.Pose().X")
	require.NoError(t, err)
	assert.Equal(t, float64(-100), res.Value)
}

func TestEvaluateErrorSurfaces(t *testing.T) {
	e := newEvaluator(t)

	_, err := e.Evaluate(context.Background(), "no_such_name + 1")
	assert.Error(t, err)
}

func TestResetDiscardsAns(t *testing.T) {
	e := newEvaluator(t)

	_, err := e.Evaluate(context.Background(), "5")
	require.NoError(t, err)
	e.Reset()
	assert.Nil(t, e.Ans())
}
