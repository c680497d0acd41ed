package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariunbolor/cozmo-tools/internal/eval"
	"github.com/ariunbolor/cozmo-tools/internal/loader"
	"github.com/ariunbolor/cozmo-tools/internal/sim"
	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

const patrolSource = `
import (
	"cozmo"
	"fsm"
)

func patrol() fsm.StateNode {
	return fsm.NewNode(cozmo.Runtime, "patrol")
}
`

const badShapeSource = `
func badshape(n int) int {
	return n
}
`

const noConstructSource = `
func somethingElse() int {
	return 1
}
`

func writeProgram(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name+".go")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func newFsFixture(t *testing.T) (*loader.Loader, *loader.FsSource, string) {
	t.Helper()
	rt := fsm.NewRuntime(nil)
	rt.Start()
	t.Cleanup(rt.Stop)

	dir := t.TempDir()
	binder := eval.Bindings{Session: sim.New(), Runtime: rt}.Binder()
	src := loader.NewFsSource(dir, binder, nil)
	return loader.New(nil, src), src, dir
}

func TestLoadAndValidate(t *testing.T) {
	ldr, _, dir := newFsFixture(t)
	writeProgram(t, dir, "patrol", patrolSource)

	inst, def, err := ldr.LoadAndValidate(context.Background(), "patrol")
	require.NoError(t, err)
	require.NotNil(t, inst)
	assert.Equal(t, "patrol", inst.Name())
	assert.False(t, inst.Running(), "instances come back constructed but not started")
	assert.Equal(t, 1, def.Version)
}

func TestReloadBumpsVersionAndYieldsFreshInstances(t *testing.T) {
	ldr, _, dir := newFsFixture(t)
	writeProgram(t, dir, "patrol", patrolSource)
	ctx := context.Background()

	first, def1, err := ldr.LoadAndValidate(ctx, "patrol")
	require.NoError(t, err)
	second, def2, err := ldr.LoadAndValidate(ctx, "patrol")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Name(), second.Name())
	assert.Equal(t, def1.Version+1, def2.Version)
}

func TestPathLookingNameIsRejectedWithoutLoading(t *testing.T) {
	ldr, _, dir := newFsFixture(t)
	writeProgram(t, dir, "drive", patrolSource)

	for _, name := range []string{"drive.py", "drive.go", "drive.fsm"} {
		_, _, err := ldr.LoadAndValidate(context.Background(), name)
		var pathErr *loader.PathError
		require.ErrorAs(t, err, &pathErr, name)
		assert.Equal(t, "drive", pathErr.Suggest)
		assert.Contains(t, err.Error(), `runfsm("drive")`)
	}

	_, _, err := ldr.LoadAndValidate(context.Background(), "dir/prog")
	var pathErr *loader.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Empty(t, pathErr.Suggest)
}

func TestMissingProgram(t *testing.T) {
	ldr, _, _ := newFsFixture(t)
	_, _, err := ldr.LoadAndValidate(context.Background(), "ghost")
	assert.ErrorIs(t, err, ports.ErrProgramNotFound)
}

func TestShapeValidation(t *testing.T) {
	ldr, _, dir := newFsFixture(t)
	writeProgram(t, dir, "badshape", badShapeSource)
	writeProgram(t, dir, "absent", noConstructSource)

	for _, name := range []string{"badshape", "absent"} {
		_, _, err := ldr.LoadAndValidate(context.Background(), name)
		var shapeErr *loader.ShapeError
		require.ErrorAs(t, err, &shapeErr, name)
		assert.Equal(t, name, shapeErr.Name)
	}
}

func TestStalenessWarning(t *testing.T) {
	_, src, dir := newFsFixture(t)
	goPath := writeProgram(t, dir, "patrol", patrolSource)
	fsmPath := filepath.Join(dir, "patrol.fsm")
	require.NoError(t, os.WriteFile(fsmPath, []byte("patrol dsl"), 0644))

	// .fsm older than .go: no warning.
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(fsmPath, old, old))
	def, err := src.Resolve(context.Background(), "patrol")
	require.NoError(t, err)
	assert.Empty(t, def.Warnings)

	// .fsm newer than .go: advisory warning, load still succeeds.
	newer := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(goPath, old, old))
	require.NoError(t, os.Chtimes(fsmPath, newer, newer))
	def, err = src.Resolve(context.Background(), "patrol")
	require.NoError(t, err)
	require.Len(t, def.Warnings, 1)
	assert.Contains(t, def.Warnings[0], "genfsm")

	inst, err := def.Construct()
	require.NoError(t, err)
	assert.Equal(t, "patrol", inst.Name())
}

func TestHotReloadPicksUpEdits(t *testing.T) {
	ldr, _, dir := newFsFixture(t)
	ctx := context.Background()

	writeProgram(t, dir, "patrol", patrolSource)
	_, _, err := ldr.LoadAndValidate(ctx, "patrol")
	require.NoError(t, err)

	// Break the file; the next load must see the edit.
	writeProgram(t, dir, "patrol", noConstructSource)
	_, _, err = ldr.LoadAndValidate(ctx, "patrol")
	var shapeErr *loader.ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestMemorySource(t *testing.T) {
	rt := fsm.NewRuntime(nil)
	rt.Start()
	t.Cleanup(rt.Stop)

	src := loader.NewMemorySource()
	src.Register("demo", func() (fsm.StateNode, error) {
		return fsm.NewNode(rt, "demo"), nil
	})
	ldr := loader.New(nil, src)

	inst, def, err := ldr.LoadAndValidate(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", inst.Name())
	assert.Equal(t, 1, def.Version)

	_, def, err = ldr.LoadAndValidate(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, 2, def.Version)

	_, _, err = ldr.LoadAndValidate(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrProgramNotFound)
}

func TestSourceOrderFirstResolveWins(t *testing.T) {
	rt := fsm.NewRuntime(nil)
	rt.Start()
	t.Cleanup(rt.Stop)

	dir := t.TempDir()
	writeProgram(t, dir, "patrol", patrolSource)
	fsSrc := loader.NewFsSource(dir, eval.Bindings{Runtime: rt}.Binder(), nil)

	memSrc := loader.NewMemorySource()
	memSrc.Register("patrol", func() (fsm.StateNode, error) {
		return fsm.NewNode(rt, "builtin-patrol"), nil
	})

	ldr := loader.New(nil, fsSrc, memSrc)
	inst, _, err := ldr.LoadAndValidate(context.Background(), "patrol")
	require.NoError(t, err)
	// The on-disk definition shadows the built-in; the loader retags the
	// instance with the requested name either way.
	assert.Equal(t, "patrol", inst.Name())
}
