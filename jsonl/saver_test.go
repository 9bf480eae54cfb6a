package jsonl_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/gradeview"
	"github.com/fwojciec/gradeview/jsonl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaver_Save(t *testing.T) {
	t.Parallel()

	t.Run("appends outcome to new file in new directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "results", "run.jsonl")
		outcome := gradeview.Outcome{
			Submission: "alice",
			Exercise:   "Sum",
			Test:       "small",
			Verdict:    gradeview.VerdictFailed,
			Expected:   "4\n",
			Output:     "5\n",
			ExitStatus: gradeview.Exited(0),
		}

		err := jsonl.NewSaver().Save(path, outcome)

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"submission":"alice"`)
		assert.Contains(t, string(content), `"verdict":"FAILED"`)
		assert.Contains(t, string(content), `"exit_status":0`)
		assert.NotContains(t, string(content), `"timed_out"`)
		assert.True(t, strings.HasSuffix(string(content), "}\n"))
	})

	t.Run("appends to existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "existing.jsonl")
		existing := `{"test":"old","verdict":"PERFECT"}` + "\n"
		require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

		saver := jsonl.NewSaver()
		require.NoError(t, saver.Save(path, gradeview.Outcome{Test: "new", Verdict: gradeview.VerdictEmpty}))

		outcomes, err := jsonl.NewLoader().Load(path)
		require.NoError(t, err)
		require.Len(t, outcomes, 2)
		assert.Equal(t, "old", outcomes[0].Test)
		assert.Equal(t, "new", outcomes[1].Test)
		assert.Equal(t, gradeview.VerdictEmpty, outcomes[1].Verdict)
	})

	t.Run("saved outcomes load back", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "round.jsonl")
		gradedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		want := gradeview.Outcome{
			Submission: "bob",
			Exercise:   "Greeting",
			Test:       "test1",
			Verdict:    gradeview.VerdictTimeout,
			Output:     "Hel",
			TimedOut:   true,
			Diff:       "^Hello$  ^Hel$\n",
			GradedAt:   gradedAt,
		}

		require.NoError(t, jsonl.NewSaver().Save(path, want))
		got, err := jsonl.NewLoader().Load(path)

		require.NoError(t, err)
		assert.Equal(t, []gradeview.Outcome{want}, got)
	})
}
