package cmds

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pipedeck/internal/logging"
	"github.com/five82/pipedeck/internal/pipelineapi"
	"github.com/five82/pipedeck/internal/pipelineapi/apitest"
)

type harness struct {
	srv     *apitest.Server
	logFile string
	cfgPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(logging.Discard)
	dir := t.TempDir()
	srv := apitest.New(t)
	srv.Add(pipelineapi.PipelineDetail{
		ID:         "p1",
		Name:       "orders",
		WriteCount: 1234,
		Pipeline: &pipelineapi.PipelineSpec{
			Question:     "count orders",
			RandomStream: &pipelineapi.Component{Name: "orders_source", DDL: "CREATE RANDOM STREAM orders_source (id int)"},
		},
	})
	return &harness{
		srv:     srv,
		logFile: filepath.Join(dir, "pipedeck.log"),
		cfgPath: filepath.Join(dir, "config.toml"),
	}
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{
		"--config", h.cfgPath,
		"--api-url", h.srv.URL,
		"--log-file", h.logFile,
		"--log-level", "debug",
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestList_PrintsTableWithCounts(t *testing.T) {
	h := newHarness(t)
	h.srv.SetCreated("p1", time.Now().UTC().Add(-3*time.Hour).Format("2006-01-02 15:04:05"))
	out, err := h.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "p1")
	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "3 hours ago")
}

func TestList_JSON(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"write_count": 1234`)
}

func TestList_FailureIsError(t *testing.T) {
	h := newHarness(t)
	h.srv.Fail(http.MethodGet, "/pipelines", http.StatusInternalServerError, "database locked")
	_, err := h.run(t, "", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database locked")
}

func TestShow_PrintsComponentsAndDDL(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "", "show", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "orders (p1)")
	assert.Contains(t, out, "Writes: 1,234")
	assert.Contains(t, out, "orders_source")
	assert.Contains(t, out, "-- Random Stream DDL")
}

func TestShow_NotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "show", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pipeline with id nope not found.")
}

func TestCreate_JoinsArgsIntoQuestion(t *testing.T) {
	h := newHarness(t)
	h.srv.NewID = func() string { return "p2" }

	out, err := h.run(t, "", "create", "count", "events")
	require.NoError(t, err)
	assert.Contains(t, out, `Pipeline "count events" created successfully! (id p2)`)

	var body string
	for _, req := range h.srv.Requests() {
		if req.Method == http.MethodPost {
			body = req.Body
		}
	}
	assert.JSONEq(t, `{"question":"count events"}`, body)
}

func TestCreate_BlankQuestionSendsNothing(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "create", "  ")
	require.Error(t, err)
	assert.Zero(t, h.srv.Count(http.MethodPost, "/pipelines"))
}

func TestDelete_DeclinedSendsNothing(t *testing.T) {
	for _, answer := range []string{"n\n", "\n", "maybe\n", ""} {
		h := newHarness(t)
		out, err := h.run(t, answer, "delete", "p1")
		require.NoError(t, err)
		assert.Contains(t, out, `delete "orders"`)
		assert.Contains(t, out, "Cancelled.")
		assert.Zero(t, h.srv.Count(http.MethodDelete, "/pipelines/p1"), "answer %q", answer)
		assert.True(t, h.srv.Has("p1"))
	}
}

func TestDelete_ConfirmedDeletes(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "yes\n", "delete", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, `Pipeline "orders" deleted successfully!`)
	assert.False(t, h.srv.Has("p1"))
}

func TestDelete_YesFlagSkipsPrompt(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "", "delete", "--yes", "p1")
	require.NoError(t, err)
	assert.NotContains(t, out, "Are you sure")
	assert.False(t, h.srv.Has("p1"))
}

func TestLogs_PrintsRequestsFromEarlierCommands(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "show", "p1")
	require.NoError(t, err)
	logging.Discard()

	data, err := os.ReadFile(h.logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "pipeline api request")

	out, err := h.run(t, "", "logs", "-n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "pipeline api request")
	assert.Contains(t, out, "DBG")
}

func TestRoot_RejectsNegativePoll(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "--poll=-1", "list")
	require.Error(t, err)
}
