package viewstate_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pipedeck/internal/logging"
	"github.com/five82/pipedeck/internal/pipelineapi"
	"github.com/five82/pipedeck/internal/pipelineapi/apitest"
	"github.com/five82/pipedeck/internal/present"
	"github.com/five82/pipedeck/internal/viewstate"
)

const testInterval = 10 * time.Millisecond

func TestMain(m *testing.M) {
	logging.Discard()
	m.Run()
}

func newController(t *testing.T) (*viewstate.Controller, *apitest.Server, *pipelineapi.Client) {
	t.Helper()
	srv := apitest.New(t)
	client, err := pipelineapi.NewClient(srv.URL, 2*time.Second)
	require.NoError(t, err)
	c := viewstate.New(context.Background(), client, viewstate.Options{PollInterval: testInterval})
	return c, srv, client
}

func addPipeline(srv *apitest.Server, id string, count int64) {
	srv.Add(pipelineapi.PipelineDetail{
		ID:         id,
		Name:       "pipeline " + id,
		WriteCount: count,
		Pipeline:   &pipelineapi.PipelineSpec{Question: "question " + id},
	})
}

// messages runs cmd and any batched sub-commands, returning the non-nil
// messages in order.
func messages(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, sub := range batch {
		out = append(out, messages(sub)...)
	}
	return out
}

func find[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if typed, ok := msg.(T); ok {
			return typed
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

func assertInvariants(t *testing.T, c *viewstate.Controller) {
	t.Helper()
	details := c.View() == viewstate.ViewDetails
	assert.Equal(t, details, c.Polling(), "poller must run iff details is active (view=%s)", c.View())
	assert.Equal(t, details, c.CurrentID() != "", "current id must be set iff details is active (view=%s)", c.View())
}

func TestController_InitialState(t *testing.T) {
	c, _, _ := newController(t)
	assert.Equal(t, viewstate.ViewWelcome, c.View())
	assert.Empty(t, c.CurrentID())
	assert.False(t, c.Polling())
	assertInvariants(t, c)
}

func TestController_EveryTransitionKeepsOneViewAndPollerInSync(t *testing.T) {
	c, srv, _ := newController(t)
	addPipeline(srv, "p1", 0)
	addPipeline(srv, "p2", 0)

	steps := []struct {
		name string
		run  func() tea.Cmd
		want viewstate.View
	}{
		{"details p1", func() tea.Cmd { return c.ShowDetails("p1") }, viewstate.ViewDetails},
		{"welcome", c.ShowWelcome, viewstate.ViewWelcome},
		{"details p1 again", func() tea.Cmd { return c.ShowDetails("p1") }, viewstate.ViewDetails},
		{"details p2", func() tea.Cmd { return c.ShowDetails("p2") }, viewstate.ViewDetails},
		{"form", c.ShowCreateForm, viewstate.ViewCreateForm},
		{"form again", c.ShowCreateForm, viewstate.ViewCreateForm},
		{"back from form", c.Back, viewstate.ViewWelcome},
		{"navigate details", func() tea.Cmd { return c.Navigate(viewstate.ViewDetails, "p2") }, viewstate.ViewDetails},
		{"back from details", c.Back, viewstate.ViewWelcome},
		{"back from welcome", c.Back, viewstate.ViewWelcome},
	}
	for _, step := range steps {
		step.run()
		assert.Equal(t, step.want, c.View(), step.name)
		assertInvariants(t, c)
	}
}

func TestController_ShowDetailsBlankIDIsNoop(t *testing.T) {
	c, _, _ := newController(t)
	c.ShowCreateForm()
	assert.Nil(t, c.ShowDetails("  "))
	assert.Equal(t, viewstate.ViewCreateForm, c.View())
	assertInvariants(t, c)
}

func TestController_RapidDetailsWelcomeDetailsLeavesOneTimer(t *testing.T) {
	c, srv, _ := newController(t)
	addPipeline(srv, "p1", 0)

	first := c.ShowDetails("p1")
	firstHandle := c.PollHandle()
	c.ShowWelcome()
	second := c.ShowDetails("p1")
	assertInvariants(t, c)
	require.NotEqual(t, firstHandle, c.PollHandle())

	// The superseded load and timer produce nothing the controller accepts.
	for _, msg := range messages(first) {
		switch m := msg.(type) {
		case viewstate.PollTickMsg:
			t.Fatalf("cancelled timer delivered %#v", m)
		case viewstate.DetailLoadedMsg:
			applied, _, err := c.ApplyDetail(m)
			assert.False(t, applied)
			assert.NoError(t, err)
		}
	}

	msgs := messages(second)
	loaded := find[viewstate.DetailLoadedMsg](t, msgs)
	applied, _, err := c.ApplyDetail(loaded)
	require.NoError(t, err)
	assert.True(t, applied)
	tick := find[viewstate.PollTickMsg](t, msgs)
	assert.Equal(t, c.PollHandle(), tick.Handle)
}

func TestController_CreateThenDetails(t *testing.T) {
	c, srv, client := newController(t)
	srv.NewID = func() string { return "p1" }

	c.ShowCreateForm()
	resp, err := client.CreatePipeline(context.Background(), "count events")
	require.NoError(t, err)
	require.Equal(t, "p1", resp.ID)
	assert.Equal(t, "count events", resp.Name)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.JSONEq(t, `{"question":"count events"}`, reqs[0].Body)

	c.ShowDetails(resp.ID)
	assert.Equal(t, viewstate.ViewDetails, c.View())
	assert.Equal(t, "p1", c.CurrentID())
	assert.True(t, c.Polling())
}

func TestController_PollTickUpdatesCountThenStopsOnWelcome(t *testing.T) {
	c, srv, _ := newController(t)
	addPipeline(srv, "p1", 0)

	msgs := messages(c.ShowDetails("p1"))
	applied, _, err := c.ApplyDetail(find[viewstate.DetailLoadedMsg](t, msgs))
	require.NoError(t, err)
	require.True(t, applied)
	assert.Equal(t, "0", present.FormatCount(c.WriteCount()))

	srv.SetWriteCount("p1", 42)
	tick := find[viewstate.PollTickMsg](t, msgs)
	refreshed, ok := c.HandleTick(tick)().(viewstate.WriteCountMsg)
	require.True(t, ok)
	updated, wait := c.ApplyWriteCount(refreshed)
	require.True(t, updated)
	require.NotNil(t, wait)
	assert.Equal(t, "42", present.FormatCount(c.WriteCount()))
	assert.Equal(t, int64(42), c.Detail().WriteCount)

	c.ShowWelcome()
	assert.False(t, c.Polling())
	assert.Nil(t, wait(), "timer fired after leaving details")
}

func TestController_StaleTickStopsInsteadOfFetching(t *testing.T) {
	c, srv, _ := newController(t)
	addPipeline(srv, "p1", 0)

	msgs := messages(c.ShowDetails("p1"))
	tick := find[viewstate.PollTickMsg](t, msgs)
	before := srv.Count(http.MethodGet, "/pipelines/p1")

	c.ShowWelcome()
	assert.Nil(t, c.HandleTick(tick))
	assert.Equal(t, before, srv.Count(http.MethodGet, "/pipelines/p1"))
}

func TestController_RefreshFailureIsCountedNotSurfaced(t *testing.T) {
	c, srv, _ := newController(t)
	addPipeline(srv, "p1", 7)

	msgs := messages(c.ShowDetails("p1"))
	_, _, err := c.ApplyDetail(find[viewstate.DetailLoadedMsg](t, msgs))
	require.NoError(t, err)

	srv.Fail(http.MethodGet, "/pipelines/{id}", http.StatusInternalServerError, "boom")
	after := messages(c.HandleTick(find[viewstate.PollTickMsg](t, msgs)))
	updated, next := c.ApplyWriteCount(find[viewstate.WriteCountMsg](t, after))
	assert.False(t, updated)
	assert.NotNil(t, next, "polling continues after a failed refresh")
	assert.Equal(t, int64(7), c.WriteCount())
	assert.Equal(t, 1, c.PollFailures())
	assert.Equal(t, viewstate.ViewDetails, c.View())
	assert.True(t, c.Polling())
}

func TestController_DetailFailureRollsBack(t *testing.T) {
	c, srv, _ := newController(t)
	addPipeline(srv, "p1", 0)

	c.ShowCreateForm()
	msgs := messages(c.ShowDetails("missing"))
	applied, _, err := c.ApplyDetail(find[viewstate.DetailLoadedMsg](t, msgs))
	assert.False(t, applied)
	require.Error(t, err)
	assert.Equal(t, "Pipeline with id missing not found.", pipelineapi.Detail(err))
	assert.Equal(t, viewstate.ViewCreateForm, c.View())
	assertInvariants(t, c)
}

func TestController_DetailFailureReturnsToPreviousPipelineOnce(t *testing.T) {
	c, srv, _ := newController(t)
	addPipeline(srv, "p1", 0)

	messages(c.ShowDetails("p1"))
	msgs := messages(c.ShowDetails("missing"))
	_, rollback, err := c.ApplyDetail(find[viewstate.DetailLoadedMsg](t, msgs))
	require.Error(t, err)
	assert.Equal(t, "p1", c.CurrentID())
	assertInvariants(t, c)

	// p1 disappears before its reload lands: the second failure ends on welcome.
	srv.Fail(http.MethodGet, "/pipelines/{id}", http.StatusNotFound, "gone")
	for _, msg := range messages(rollback) {
		if loaded, ok := msg.(viewstate.DetailLoadedMsg); ok {
			_, _, err := c.ApplyDetail(loaded)
			require.Error(t, err)
		}
	}
	assert.Equal(t, viewstate.ViewWelcome, c.View())
	assertInvariants(t, c)
}

func TestController_MissingPipelineObjectIsInvalid(t *testing.T) {
	c, srv, _ := newController(t)
	srv.Add(pipelineapi.PipelineDetail{ID: "bare", Name: "bare"})

	msgs := messages(c.ShowDetails("bare"))
	_, _, err := c.ApplyDetail(find[viewstate.DetailLoadedMsg](t, msgs))
	require.ErrorIs(t, err, viewstate.ErrInvalidPipeline)
	assert.Equal(t, "invalid pipeline data received", err.Error())
	assert.Equal(t, viewstate.ViewWelcome, c.View())
}

func TestController_ResetReturnsToInitialState(t *testing.T) {
	c, srv, _ := newController(t)
	addPipeline(srv, "p1", 0)
	c.SetPipelines(c.NextListLoad(), []pipelineapi.PipelineSummary{{ID: "p1"}}, nil)
	c.ShowDetails("p1")

	c.Reset()
	assert.Equal(t, viewstate.ViewWelcome, c.View())
	assertInvariants(t, c)
	assert.False(t, c.Pipelines().Loaded)
	assert.Empty(t, c.Pipelines().Pipelines)
}

func TestController_BackoffAppliesToThePeriodAfterTheFailure(t *testing.T) {
	srv := apitest.New(t)
	client, err := pipelineapi.NewClient(srv.URL, 2*time.Second)
	require.NoError(t, err)
	c := viewstate.New(context.Background(), client, viewstate.Options{PollInterval: testInterval, PollBackoff: true})
	addPipeline(srv, "p1", 3)

	msgs := messages(c.ShowDetails("p1"))
	_, _, err = c.ApplyDetail(find[viewstate.DetailLoadedMsg](t, msgs))
	require.NoError(t, err)

	srv.Fail(http.MethodGet, "/pipelines/{id}", http.StatusInternalServerError, "boom")
	refreshed, ok := c.HandleTick(find[viewstate.PollTickMsg](t, msgs))().(viewstate.WriteCountMsg)
	require.True(t, ok)
	_, next := c.ApplyWriteCount(refreshed)
	require.NotNil(t, next)
	assert.Equal(t, 2*testInterval, c.PollDelay())

	started := time.Now()
	_, ok = next().(viewstate.PollTickMsg)
	require.True(t, ok)
	assert.GreaterOrEqual(t, time.Since(started), 2*testInterval)
}

type stubFetcher struct {
	detail pipelineapi.PipelineDetail
}

func (s *stubFetcher) GetPipeline(context.Context, string) (*pipelineapi.PipelineDetail, error) {
	d := s.detail
	return &d, nil
}

func TestController_RefreshWithoutWriteCountKeepsDisplay(t *testing.T) {
	api := &stubFetcher{detail: pipelineapi.PipelineDetail{
		ID:            "p1",
		WriteCount:    9,
		HasWriteCount: true,
		Pipeline:      &pipelineapi.PipelineSpec{Question: "q"},
	}}
	c := viewstate.New(context.Background(), api, viewstate.Options{PollInterval: testInterval})

	msgs := messages(c.ShowDetails("p1"))
	_, _, err := c.ApplyDetail(find[viewstate.DetailLoadedMsg](t, msgs))
	require.NoError(t, err)

	api.detail = pipelineapi.PipelineDetail{ID: "p1", Pipeline: &pipelineapi.PipelineSpec{Question: "q"}}
	refreshed, ok := c.HandleTick(find[viewstate.PollTickMsg](t, msgs))().(viewstate.WriteCountMsg)
	require.True(t, ok)
	assert.False(t, refreshed.HasCount)

	updated, next := c.ApplyWriteCount(refreshed)
	assert.False(t, updated)
	assert.NotNil(t, next)
	assert.Equal(t, int64(9), c.WriteCount())
	assert.Zero(t, c.PollFailures())
}

func TestController_LateListLoadIsDropped(t *testing.T) {
	c, _, _ := newController(t)

	older := c.NextListLoad()
	newer := c.NextListLoad()
	require.True(t, c.SetPipelines(newer, []pipelineapi.PipelineSummary{}, nil))
	assert.False(t, c.SetPipelines(older, []pipelineapi.PipelineSummary{{ID: "p1", Name: "deleted"}}, nil))

	assert.Empty(t, c.Pipelines().Pipelines)
	assert.True(t, c.Pipelines().Loaded)
}
