package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelkit/internal/cli"
	"panelkit/internal/config"
	"panelkit/internal/domain/event"
	"panelkit/internal/domain/notification"
	httpx "panelkit/internal/http"
	"panelkit/internal/services/data"
	"panelkit/internal/store/memory"
	"panelkit/internal/store/repositories"
)

type fixture struct {
	srv    *httptest.Server
	events *memory.Events
	notes  *memory.Notifications
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

	var evs []event.Event
	for i, s := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel", "India", "Juliet", "Kilo", "Lima"} {
		typ := event.TypeTask
		if i%2 == 0 {
			typ = event.TypeCall
		}
		evs = append(evs, event.Event{Subject: s, Type: typ, User: "ana", DateCreation: base.Add(time.Duration(i) * time.Hour)})
	}
	var notes []notification.Notification
	for i := 0; i < 3; i++ {
		notes = append(notes, notification.Notification{Recipient: "ana", Level: notification.LevelWarning, Content: "disk", DateCreation: base})
	}

	f := &fixture{events: memory.NewEvents(evs...), notes: memory.NewNotifications(notes...)}
	cfg := config.Cfg{
		Sec:  config.SecurityCfg{CSRFCookieName: "csrftoken", CSRFHeaderName: "X-CSRFToken"},
		List: config.ListCfg{PageSize: 5, MaxPageSize: 50},
	}
	svc := data.NewService(f.notes, f.events, cfg.List.PageSize, cfg.List.MaxPageSize)
	f.srv = httptest.NewServer(httpx.NewRouter(httpx.RouterDependencies{Config: cfg, DataService: svc}))
	t.Cleanup(f.srv.Close)
	return f
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PAGE_SIZE", "5")
	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList_JSONFilterOrderAndPage(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, "list", f.srv.URL+"/api/panel/events/",
		"--filter", "type=call", "--order", "-subject", "--page", "2", "--json")
	require.NoError(t, err)

	var got struct {
		Page       int              `json:"page"`
		TotalPages int              `json:"total_pages"`
		Count      int              `json:"count"`
		Ordering   string           `json:"ordering"`
		Results    []map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 2, got.TotalPages)
	assert.Equal(t, 6, got.Count)
	assert.Equal(t, "-subject", got.Ordering)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "Alpha", got.Results[0]["subject"])
}

func TestList_Table(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, "--base", f.srv.URL, "list", "/api/panel/events/?o=subject")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 1 of 3 (12 records)")
	assert.Contains(t, out, "SUBJECT")
	assert.Contains(t, out, "Alpha")
	assert.NotContains(t, out, "Foxtrot")
}

func TestList_ServerErrorIsReturned(t *testing.T) {
	f := newFixture(t)

	_, err := run(t, "list", f.srv.URL+"/api/panel/events/", "--order", "content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content")
}

func TestList_RejectsBadFilter(t *testing.T) {
	_, err := run(t, "list", "http://127.0.0.1:1/x/", "--filter", "novalue")
	assert.ErrorContains(t, err, "expected name=value")
}

func TestPatch_SendsCSRFFromCookie(t *testing.T) {
	f := newFixture(t)
	list, _, err := f.events.List(context.Background(), repositories.EventFilter{}, repositories.PageQuery{Limit: 1})
	require.NoError(t, err)
	id := list[0].ID

	out, err := run(t, "--base", f.srv.URL, "--cookie", "sessionid=s; csrftoken=tok",
		"patch", "/api/panel/events/"+id.String()+"/", "is_public", "true")
	require.NoError(t, err)
	assert.Contains(t, out, "is_public updated")

	stored, err := f.events.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, stored.IsPublic)
}

func TestPatch_WithoutCookieIsForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := run(t, "--base", f.srv.URL, "patch", "/api/panel/notifications/1/", "is_read", "true")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSRF Failed")
}

func TestNotifications_ReadAll(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, "--base", f.srv.URL, "--cookie", "csrftoken=tok", "notifications", "--read-all")
	require.NoError(t, err)
	assert.Contains(t, out, "3 notifications, 0 unread shown")

	unread := false
	_, total, err := f.notes.List(context.Background(), repositories.NotificationFilter{IsRead: &unread}, repositories.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

// cancelOnWrite cancels a context once the feed has been drawn.
type cancelOnWrite struct {
	bytes.Buffer
	cancel context.CancelFunc
}

func (w *cancelOnWrite) Write(p []byte) (int, error) {
	n, err := w.Buffer.Write(p)
	if strings.Contains(string(p), "unread shown") {
		w.cancel()
	}
	return n, err
}

func TestNotifications_WatchStopsWithContext(t *testing.T) {
	f := newFixture(t)
	t.Setenv("NOTIFY_POLL_SEC", "1")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out := &cancelOnWrite{cancel: cancel}

	cmd := cli.NewRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--log-level", "error", "--base", f.srv.URL, "notifications", "--watch"})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.ErrorIs(t, ctx.Err(), context.Canceled, "watch should return once the first update is drawn")
	assert.Contains(t, out.String(), "3 notifications, 3 unread shown")
}
