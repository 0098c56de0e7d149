package executil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	res, err := ExecRunner{}.Run("sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
}

func TestExecRunnerNonZeroExitIsNotAnError(t *testing.T) {
	res, err := ExecRunner{}.Run("sh", "-c", "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run("definitely-not-a-real-tool-zipl-sync")
	require.Error(t, err)
}

func TestFakeRunnerRecordsCalls(t *testing.T) {
	fake := &FakeRunner{Results: map[string]*Result{
		"zipl": {ExitCode: 1, Stderr: []byte("boom")},
	}}

	res, err := fake.Run("zipl", "-V")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)

	res, err = fake.Run("genprotimg")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)

	require.Len(t, fake.Calls, 2)
	assert.Equal(t, []Call{{Name: "zipl", Args: []string{"-V"}}}, fake.CallsTo("zipl"))
}
