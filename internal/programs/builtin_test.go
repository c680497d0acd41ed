package programs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariunbolor/cozmo-tools/internal/loader"
	"github.com/ariunbolor/cozmo-tools/internal/programs"
	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
)

func TestPatrolRegistersAndRuns(t *testing.T) {
	rt := fsm.NewRuntime(nil)
	rt.Start()
	t.Cleanup(rt.Stop)

	src := loader.NewMemorySource()
	programs.Register(src, rt)
	ldr := loader.New(nil, src)

	inst, _, err := ldr.LoadAndValidate(context.Background(), "patrol")
	require.NoError(t, err)
	assert.Equal(t, "patrol", inst.Name())

	inst.Start()
	assert.True(t, inst.Running())

	// The scan loop advances past the first announcement on its own.
	comp, ok := inst.(fsm.Composite)
	require.True(t, ok)
	children := comp.Children()
	require.Len(t, children, 3)
	assert.Eventually(t, func() bool {
		return children[1].Running()
	}, time.Second, 5*time.Millisecond, "left completes and right starts")

	inst.Stop()
	assert.False(t, inst.Running())
	for _, c := range children {
		assert.False(t, c.Running())
	}
}
