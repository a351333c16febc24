package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"portchecker/internal/core/model"
)

func init() {
	pterm.DisableColor()
}

func sampleResults() []*model.TaskResult {
	open := model.NewClosedResult("127.0.0.1", 9001, model.ProtocolTCP)
	open.State = model.PortStateOpen
	open.Reply = "pong"
	open.Elapsed = 3 * time.Millisecond

	closed := model.NewClosedResult("127.0.0.1", 9002, model.ProtocolUDP)
	closed.Error = "i/o timeout"

	return []*model.TaskResult{
		{TaskID: "t1", Status: model.TaskStatusCompleted, Data: open},
		{TaskID: "t1", Status: model.TaskStatusCompleted, Data: closed},
	}
}

func TestConsoleReporter_Lines(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter().WithWriter(&buf)

	for _, res := range sampleResults() {
		require.NoError(t, r.Report(context.Background(), res))
	}
	assert.Equal(t, "TCP port 9001 is open\nUDP port 9002 is closed\n", buf.String())

	buf.Reset()
	r.PrintSummary(ProbeResults(sampleResults()))
	assert.Equal(t, "1/2 ports open\n", buf.String())
}

func TestConsoleReporter_Table(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter().WithWriter(&buf)

	require.NoError(t, r.PrintResults(sampleResults()))
	out := buf.String()
	assert.Contains(t, out, "Protocol")
	assert.Contains(t, out, "9001")
	assert.Contains(t, out, "pong")

	buf.Reset()
	require.NoError(t, r.PrintResults(nil))
	assert.Contains(t, buf.String(), "No results found.")
}

func TestConsoleReporter_IgnoresEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter().WithWriter(&buf)

	require.NoError(t, r.Report(context.Background(), nil))
	require.NoError(t, r.Report(context.Background(), &model.TaskResult{TaskID: "t1"}))
	assert.Empty(t, buf.String())
}

func TestSaveJsonResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, SaveJsonResult(path, ProbeResults(sampleResults())))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "open", got[0]["state"])
	assert.Equal(t, "tcp", got[0]["protocol"])
	assert.Equal(t, "i/o timeout", got[1]["error"])
	assert.NotContains(t, got[1], "reply")
}

func TestSaveYamlResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, SaveYamlResult(path, ProbeResults(sampleResults())))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &got))
	require.Len(t, got, 2)
	assert.Equal(t, 9001, got[0]["port"])
	assert.Equal(t, "udp", got[1]["protocol"])
	assert.Equal(t, "closed", got[1]["state"])
}

func TestSaveCsvResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, SaveCsvResult(path, sampleResults()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := strings.TrimPrefix(string(raw), "\xEF\xBB\xBF")
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Target,Protocol,Port,State,Elapsed,Reply", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "127.0.0.1,TCP,9001,open,"))
	assert.Equal(t, "127.0.0.1,UDP,9002,closed,N/A,", lines[2])

	assert.Error(t, SaveCsvResult(filepath.Join(t.TempDir(), "empty.csv"), nil))
}
