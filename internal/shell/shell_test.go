package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariunbolor/cozmo-tools/internal/loader"
	"github.com/ariunbolor/cozmo-tools/internal/programs"
	"github.com/ariunbolor/cozmo-tools/internal/sim"
	"github.com/ariunbolor/cozmo-tools/internal/supervisor"
	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

// scriptReader feeds a canned sequence of prompt results. Scripts must end
// with an "exit" line; after that any further prompt reports EOF.
type scriptReader struct {
	steps []func() (string, error)
}

func line(s string) func() (string, error) {
	return func() (string, error) { return s, nil }
}

func fail(err error) func() (string, error) {
	return func() (string, error) { return "", err }
}

func (r *scriptReader) Prompt(string) (string, error) {
	if len(r.steps) == 0 {
		return "", io.EOF
	}
	step := r.steps[0]
	r.steps = r.steps[1:]
	return step()
}

func (r *scriptReader) AppendHistory(string) {}
func (r *scriptReader) Close() error         { return nil }

type fakeViewer struct {
	started   int
	shutdowns int
}

func (v *fakeViewer) EnsureStarted(context.Context) (string, error) {
	v.started++
	return "127.0.0.1:9999", nil
}

func (v *fakeViewer) Shutdown(context.Context) error {
	v.shutdowns++
	return nil
}

type memHistory struct {
	saved [][]string
	err   error
}

func (h *memHistory) Save(ctx context.Context, lines []string) error {
	if h.err != nil {
		return h.err
	}
	h.saved = append(h.saved, append([]string(nil), lines...))
	return nil
}

func (h *memHistory) Load(ctx context.Context) ([]string, error) { return nil, h.err }

func newTestShell(t *testing.T, opts ...Option) (*Shell, *sim.Session, *bytes.Buffer) {
	t.Helper()
	rt := fsm.NewRuntime(nil)
	rt.Start()
	t.Cleanup(rt.Stop)

	session := sim.New()
	sup := supervisor.New(rt, session, nil)

	memSrc := loader.NewMemorySource()
	programs.Register(memSrc, rt)
	ldr := loader.New(nil, memSrc)

	buf := &bytes.Buffer{}
	opts = append([]Option{WithOutput(buf)}, opts...)
	sh, err := New(session, sup, ldr, rt, opts...)
	require.NoError(t, err)
	return sh, session, buf
}

func TestShellEscapeIsNeverEvaluated(t *testing.T) {
	sh, _, buf := newTestShell(t)
	sh.Dispatch(context.Background(), "!echo 2+2")
	assert.Contains(t, buf.String(), "2+2", "the remainder runs as a command, not an expression")
	assert.NotContains(t, buf.String(), "4")
}

func TestShellEscapeFailureIsReported(t *testing.T) {
	sh, _, buf := newTestShell(t)
	sh.Dispatch(context.Background(), "!false")
	assert.Contains(t, buf.String(), "shell command failed")
}

func TestTextMsgWithNoProgram(t *testing.T) {
	sh, _, buf := newTestShell(t)
	sh.Dispatch(context.Background(), "tm hello")
	assert.Contains(t, buf.String(), "No state machine running.")
}

func TestShowUsageHint(t *testing.T) {
	sh, _, buf := newTestShell(t)
	sh.Dispatch(context.Background(), "show bogus_option")
	out := buf.String()
	for _, target := range []string{"active", "viewer", "cam_viewer", "particle_viewer", "path_viewer", "worldmap_viewer"} {
		assert.Contains(t, out, target)
	}
}

func TestShowActiveWithNoProgram(t *testing.T) {
	sh, _, buf := newTestShell(t)
	sh.Dispatch(context.Background(), "show active")
	assert.Contains(t, buf.String(), "No state machine present.")
}

func TestShowViewerStartsServerOnce(t *testing.T) {
	viewer := &fakeViewer{}
	sh, _, buf := newTestShell(t, WithViewer(viewer))

	sh.Dispatch(context.Background(), "show viewer")
	sh.Dispatch(context.Background(), "show cam_viewer")
	assert.Equal(t, 2, viewer.started, "EnsureStarted is safe to call per show")
	assert.Contains(t, buf.String(), "http://127.0.0.1:9999/viewer/cam")
}

func TestExpressionPrintsValueAndBlankLine(t *testing.T) {
	sh, _, buf := newTestShell(t)
	sh.Dispatch(context.Background(), "1 + 2")
	assert.Equal(t, "3\n\n", buf.String())
}

func TestEvalErrorKeepsShellUsable(t *testing.T) {
	sh, _, buf := newTestShell(t)
	ctx := context.Background()

	sh.Dispatch(ctx, "no_such_symbol + 1")
	assert.Contains(t, buf.String(), "Error:")

	buf.Reset()
	sh.Dispatch(ctx, "2 * 3")
	assert.Equal(t, "6\n\n", buf.String())
}

func TestCancelledEvaluationPrintsKeyboardInterrupt(t *testing.T) {
	sh, _, buf := newTestShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sh.Dispatch(ctx, "1 + 2")
	assert.Contains(t, buf.String(), "Keyboard interrupt!")
}

func TestAwaitIsAUserVisibleError(t *testing.T) {
	sh, _, buf := newTestShell(t)
	ctx := context.Background()

	sh.Dispatch(ctx, "5 + 5")
	buf.Reset()

	sh.Dispatch(ctx, "await robot.Pose(ctx)")
	assert.Contains(t, buf.String(), "Cannot await here")
	assert.Nil(t, sh.ev.Ans(), "the captured result is discarded")
}

func TestStatementResetsCapturedResult(t *testing.T) {
	sh, _, _ := newTestShell(t)
	ctx := context.Background()

	sh.Dispatch(ctx, "2 * 3")
	assert.Equal(t, 6, sh.ev.Ans())

	sh.Dispatch(ctx, "var scratch = 1")
	assert.Nil(t, sh.ev.Ans())
}

func TestRunFSMStartsProgram(t *testing.T) {
	sh, _, _ := newTestShell(t)
	sh.Dispatch(context.Background(), `runfsm("patrol")`)

	inst, ok := sh.sup.Active()
	require.True(t, ok)
	assert.Equal(t, "patrol", inst.Name())
	assert.Eventually(t, func() bool { return inst.Running() }, time.Second, 5*time.Millisecond)
}

func TestRunFSMSwapReplacesPrevious(t *testing.T) {
	sh, _, _ := newTestShell(t)
	ctx := context.Background()

	sh.Dispatch(ctx, `runfsm("patrol")`)
	first, ok := sh.sup.Active()
	require.True(t, ok)

	sh.Dispatch(ctx, `runfsm("patrol")`)
	second, ok := sh.sup.Active()
	require.True(t, ok)

	assert.NotSame(t, first, second)
	assert.Eventually(t, func() bool { return !first.Running() },
		time.Second, 5*time.Millisecond, "the old instance stops before the new one starts")
}

func TestRunFSMFileNameGuidance(t *testing.T) {
	sh, _, buf := newTestShell(t)
	sh.RunFSM("drive.py")

	assert.Contains(t, buf.String(), `runfsm("drive")`)
	_, ok := sh.sup.Active()
	assert.False(t, ok, "no load is attempted with the file-looking name")
}

func TestRunFSMUnknownProgramLeavesActiveUntouched(t *testing.T) {
	sh, _, buf := newTestShell(t)
	ctx := context.Background()

	sh.Dispatch(ctx, `runfsm("patrol")`)
	active, ok := sh.sup.Active()
	require.True(t, ok)

	buf.Reset()
	sh.RunFSM("ghost")
	assert.Contains(t, buf.String(), "not found")

	still, ok := sh.sup.Active()
	require.True(t, ok)
	assert.Same(t, active, still)
}

func TestTraceFSM(t *testing.T) {
	sh, _, _ := newTestShell(t)
	t.Cleanup(func() { fsm.SetTraceLevel(fsm.TraceOff) })

	assert.Equal(t, 7, sh.TraceFSM(7))
	assert.Equal(t, 7, sh.TraceFSM(-1), "negative level queries without changing")
	assert.Equal(t, fsm.TraceMax, sh.TraceFSM(99))
}

func TestExitStopsProgramViewerAndLoop(t *testing.T) {
	viewer := &fakeViewer{}
	sh, _, buf := newTestShell(t, WithViewer(viewer), WithReader(&scriptReader{steps: []func() (string, error){
		line(`runfsm("patrol")`),
		line("exit"),
	}}))

	require.NoError(t, sh.Run(context.Background()))

	assert.Contains(t, buf.String(), "Stopping patrol.")
	assert.Equal(t, 1, viewer.shutdowns)
	_, ok := sh.sup.Active()
	assert.False(t, ok)
}

func TestInterruptAtPromptStopsProgramNotShell(t *testing.T) {
	var sh *Shell

	// The interrupt arrives only once the program is actually running, the
	// way an operator's Ctrl+C would.
	interruptWhenRunning := func() (string, error) {
		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			if inst, ok := sh.sup.Active(); ok && inst.Running() {
				break
			}
			time.Sleep(2 * time.Millisecond)
		}
		return "", liner.ErrPromptAborted
	}

	var session *sim.Session
	var buf *bytes.Buffer
	sh, session, buf = newTestShell(t, WithReader(&scriptReader{steps: []func() (string, error){
		line(`runfsm("patrol")`),
		interruptWhenRunning,
		line("1 + 1"),
		line("exit"),
	}}))

	require.NoError(t, sh.Run(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "Keyboard interrupt: stopping patrol.")
	assert.Contains(t, out, "2\n\n", "the loop keeps accepting input after the interrupt")
	assert.GreaterOrEqual(t, session.MotorStops(), 1)
}

func TestInterruptWithNothingRunningHintsExit(t *testing.T) {
	sh, _, buf := newTestShell(t, WithReader(&scriptReader{steps: []func() (string, error){
		fail(liner.ErrPromptAborted),
		line("exit"),
	}}))

	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, buf.String(), `Type "exit" to quit.`)
}

func TestChargerWarningIsLatched(t *testing.T) {
	sh, session, buf := newTestShell(t)
	ctx := context.Background()

	session.SetDocked(true)
	sh.guardSession(ctx)
	sh.guardSession(ctx)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("on the charger")), "warn once per docked episode")

	session.SetDocked(false)
	sh.guardSession(ctx)
	session.SetDocked(true)
	sh.guardSession(ctx)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("on the charger")), "re-armed after leaving the charger")
}

func TestGuardSwallowsPoseErrors(t *testing.T) {
	sh, session, buf := newTestShell(t)
	session.SetPoseError(errors.New("link down"))

	assert.NotPanics(t, func() { sh.guardSession(context.Background()) })
	assert.Empty(t, buf.String())
}

func TestHistorySavedEveryCycle(t *testing.T) {
	store := &memHistory{}
	sh, _, _ := newTestShell(t, WithHistoryStore(store), WithReader(&scriptReader{steps: []func() (string, error){
		line("1 + 1"),
		line("exit"),
	}}))

	require.NoError(t, sh.Run(context.Background()))

	require.NotEmpty(t, store.saved)
	last := store.saved[len(store.saved)-1]
	assert.Equal(t, []string{"1 + 1", "exit"}, last)
}

func TestUnwritableHistoryNeverBlocksDispatch(t *testing.T) {
	store := &memHistory{err: errors.New("disk full")}
	sh, _, buf := newTestShell(t, WithHistoryStore(store), WithReader(&scriptReader{steps: []func() (string, error){
		line("1 + 1"),
		line("exit"),
	}}))

	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, buf.String(), "2\n\n")
}

var _ ports.HistoryStore = (*memHistory)(nil)
