package cli_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/marcelogarciass/dashboard-projeto/pkg/cli"
)

func runPivot(t *testing.T, args ...string) map[string]any {
	t.Helper()
	out := filepath.Join(t.TempDir(), "matrix.json")

	argv := append([]string{"dashboard", "--log-format", "json", "pivot", "-o", out}, args...)
	gt.NoError(t, cli.Run(context.Background(), argv)).Required()

	data, err := os.ReadFile(out)
	gt.NoError(t, err).Required()

	var matrix map[string]any
	gt.NoError(t, json.Unmarshal(data, &matrix)).Required()
	return matrix
}

func TestPivotCommand(t *testing.T) {
	t.Run("default vocabulary", func(t *testing.T) {
		matrix := runPivot(t, "testdata/records.json")

		gt.Equal(t, matrix["columns"], any([]any{"Tarefas pendentes", "Em andamento", "Bug report"}))
		gt.Equal(t, matrix["rows"], any([]any{
			map[string]any{"name": "Alpha", "Em andamento": float64(5)},
			map[string]any{"name": "Beta", "Bug report": float64(1), "Tarefas pendentes": float64(4)},
		}))
	})

	t.Run("custom vocabulary", func(t *testing.T) {
		matrix := runPivot(t, "--status-vocabulary", "testdata/vocabulary.yaml", "testdata/records.json")

		gt.Equal(t, matrix["columns"], any([]any{"Bug report", "Concluído", "Em andamento", "Tarefas pendentes"}))
	})

	t.Run("missing records file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "matrix.json")
		err := cli.Run(context.Background(), []string{"dashboard", "pivot", "-o", out, "testdata/none.json"})
		gt.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{"dashboard", "--log-level", "loud", "pivot", "testdata/records.json"})
		gt.Error(t, err)
	})
}
