// ABOUTME: Integration tests for the TUI app
// ABOUTME: Verifies screen gating against session state transitions

package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulsekit/pulsectl/internal/client"
	"github.com/pulsekit/pulsectl/internal/session"
)

func newTestApp(t *testing.T, authenticated bool) (*App, *session.Store) {
	t.Helper()
	store := session.New(t.TempDir())
	if authenticated {
		if err := store.SetToken("tok"); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}
	}
	c := client.New("http://localhost:8080", store)
	return New(c, store), store
}

func TestLoggedOutStartsAtLogin(t *testing.T) {
	app, _ := newTestApp(t, false)

	if app.screen != ScreenLogin {
		t.Errorf("expected initial screen ScreenLogin, got %d", app.screen)
	}
	if app.form == nil {
		t.Error("expected login form to be initialized")
	}
}

func TestLoggedInStartsAtOverview(t *testing.T) {
	app, _ := newTestApp(t, true)

	if app.screen != ScreenOverview {
		t.Errorf("expected initial screen ScreenOverview, got %d", app.screen)
	}
}

func TestSessionClearedRedirectsToLogin(t *testing.T) {
	app, store := newTestApp(t, true)
	app.width = 100
	app.height = 40

	store.Logout()
	updated, _ := app.Update(sessionChangedMsg{session: store.Snapshot()})

	result := updated.(*App)
	if result.screen != ScreenLogin {
		t.Errorf("expected redirect to ScreenLogin after logout, got %d", result.screen)
	}
	if result.form == nil {
		t.Error("expected login form after forced logout")
	}
}

func TestSessionSetRedirectsAwayFromLogin(t *testing.T) {
	app, store := newTestApp(t, false)
	app.width = 100
	app.height = 40

	store.SetToken("fresh")
	updated, cmd := app.Update(sessionChangedMsg{session: store.Snapshot()})

	result := updated.(*App)
	if result.screen != ScreenOverview {
		t.Errorf("expected redirect to ScreenOverview once authenticated, got %d", result.screen)
	}
	if cmd == nil {
		t.Error("expected a load command after redirect")
	}
}

func TestSessionChangeWhileOnLoginStaysPut(t *testing.T) {
	app, store := newTestApp(t, false)

	updated, _ := app.Update(sessionChangedMsg{session: store.Snapshot()})

	result := updated.(*App)
	if result.screen != ScreenLogin {
		t.Errorf("expected to remain on ScreenLogin, got %d", result.screen)
	}
}

func TestLoggedOutViewShowsNoProtectedContent(t *testing.T) {
	app, _ := newTestApp(t, false)
	app.width = 100
	app.height = 40

	view := app.View()

	if view == "" {
		t.Fatal("expected non-empty view")
	}
	if strings.Contains(view, "Overview") || strings.Contains(view, "Audit") {
		t.Error("expected no protected content while logged out")
	}
	if !strings.Contains(view, "Email") {
		t.Errorf("expected login form in view, got:\n%s", view)
	}
}

func TestOverviewLoadedBuildsView(t *testing.T) {
	app, store := newTestApp(t, true)
	app.width = 100
	app.height = 40

	msg := overviewLoadedMsg{
		user:   &session.User{ID: 1, Email: "a@x.com", Role: "admin"},
		events: []client.AnalyticsEvent{{ID: "e1"}},
		logs:   []client.AuditLog{{ID: "l1"}, {ID: "l2"}},
	}
	updated, _ := app.Update(msg)

	result := updated.(*App)
	if result.screen != ScreenOverview {
		t.Errorf("expected ScreenOverview, got %d", result.screen)
	}
	if result.overview == nil {
		t.Fatal("expected overview view to be built")
	}
	if !strings.Contains(result.overview.View(), "a@x.com") {
		t.Error("expected overview to show the profile email")
	}

	// The fetched identity is cached in the store
	if cached, ok := store.User(); !ok || cached.Email != "a@x.com" {
		t.Error("expected profile cached in session store")
	}
}

func TestUsersLoadedSwitchesScreen(t *testing.T) {
	app, _ := newTestApp(t, true)
	app.width = 100
	app.height = 40

	msg := usersLoadedMsg{users: []session.User{
		{ID: 1, Email: "a@x.com", Role: "admin"},
		{ID: 2, Email: "b@x.com", Role: "user"},
	}}
	updated, _ := app.Update(msg)

	result := updated.(*App)
	if result.screen != ScreenUsers {
		t.Errorf("expected ScreenUsers, got %d", result.screen)
	}
	if result.usersView == nil {
		t.Error("expected users view to be built")
	}
}

func TestUnauthenticatedLoadErrorFallsBackToLogin(t *testing.T) {
	app, store := newTestApp(t, true)
	app.width = 100
	app.height = 40

	// Simulate the transport having cleared the session on a 401
	store.Logout()
	updated, _ := app.Update(overviewLoadedMsg{err: client.ErrUnauthenticated})

	result := updated.(*App)
	if result.screen != ScreenLogin {
		t.Errorf("expected fall back to ScreenLogin, got %d", result.screen)
	}
}

func TestRegisterResultReturnsToLogin(t *testing.T) {
	app, _ := newTestApp(t, false)
	app.screen = ScreenRegister

	updated, _ := app.Update(registerResultMsg{user: &session.User{ID: 2, Email: "b@x.com", Role: "admin"}})

	result := updated.(*App)
	if result.screen != ScreenLogin {
		t.Errorf("expected ScreenLogin after registration, got %d", result.screen)
	}
	if !strings.Contains(result.notice, "b@x.com") {
		t.Errorf("expected notice mentioning the new account, got %q", result.notice)
	}
}

func TestScreenConstants(t *testing.T) {
	if ScreenLogin != 0 {
		t.Errorf("expected ScreenLogin to be 0, got %d", ScreenLogin)
	}
	if ScreenRegister != 1 {
		t.Errorf("expected ScreenRegister to be 1, got %d", ScreenRegister)
	}
	if ScreenOverview != 2 {
		t.Errorf("expected ScreenOverview to be 2, got %d", ScreenOverview)
	}
}

// runCmd executes a command tree, flattening batches into messages
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func pressKey(t *testing.T, app *App, key tea.KeyMsg) (*App, tea.Cmd) {
	t.Helper()
	updated, cmd := app.Update(key)
	return updated.(*App), cmd
}

func TestEventsFilterAppliesServerSide(t *testing.T) {
	var gotUserID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = r.URL.Query().Get("user_id")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]client.AnalyticsEvent{{ID: "e1", UserID: 7, Event: "page_view"}})
	}))
	defer server.Close()

	store := session.New(t.TempDir())
	store.SetToken("tok")
	app := New(client.New(server.URL, store), store)
	app.screen = ScreenEvents
	app.width = 100
	app.height = 40

	app, _ = pressKey(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if !app.filtering {
		t.Fatal("expected filter prompt after pressing f")
	}
	if !strings.Contains(app.View(), "Filter by user id") {
		t.Error("expected filter prompt in view")
	}

	app, _ = pressKey(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("7")})
	app, cmd := pressKey(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	if app.filtering {
		t.Error("expected prompt closed after enter")
	}
	if app.eventsFilter != 7 {
		t.Errorf("expected events filter 7, got %d", app.eventsFilter)
	}

	var loaded *eventsLoadedMsg
	for _, msg := range runCmd(cmd) {
		if m, ok := msg.(eventsLoadedMsg); ok {
			loaded = &m
		}
	}
	if loaded == nil {
		t.Fatal("expected an events load command")
	}
	if loaded.err != nil {
		t.Fatalf("unexpected load error: %v", loaded.err)
	}
	if gotUserID != "7" {
		t.Errorf("expected server to receive user_id=7, got %q", gotUserID)
	}

	updated, _ := app.Update(*loaded)
	view := updated.(*App).View()
	if !strings.Contains(view, "(user 7)") {
		t.Errorf("expected filter label in events view, got:\n%s", view)
	}
}

func TestFilterPromptEscCancels(t *testing.T) {
	app, _ := newTestApp(t, true)
	app.screen = ScreenEvents
	app.width = 100
	app.height = 40

	app, _ = pressKey(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	app, cmd := pressKey(t, app, tea.KeyMsg{Type: tea.KeyEsc})

	if app.filtering {
		t.Error("expected prompt closed after esc")
	}
	if app.eventsFilter != 0 {
		t.Errorf("expected filter unchanged, got %d", app.eventsFilter)
	}
	if cmd != nil {
		t.Error("expected no reload after cancel")
	}
}

func TestLogsFilterClearedByEmptyInput(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]client.AuditLog{})
	}))
	defer server.Close()

	store := session.New(t.TempDir())
	store.SetToken("tok")
	app := New(client.New(server.URL, store), store)
	app.screen = ScreenLogs
	app.logsFilter = 9
	app.width = 100
	app.height = 40

	// The prompt opens prefilled with the active filter; backspace
	// empties it, which clears the filter on enter
	app, _ = pressKey(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	app, _ = pressKey(t, app, tea.KeyMsg{Type: tea.KeyBackspace})
	app, cmd := pressKey(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	if app.logsFilter != 0 {
		t.Errorf("expected logs filter cleared, got %d", app.logsFilter)
	}
	for _, msg := range runCmd(cmd) {
		if m, ok := msg.(logsLoadedMsg); ok && m.err != nil {
			t.Fatalf("unexpected load error: %v", m.err)
		}
	}
	if gotQuery != "" {
		t.Errorf("expected no query parameters after clearing, got %q", gotQuery)
	}
}

func TestFilterRejectsNonNumericInput(t *testing.T) {
	app, _ := newTestApp(t, true)
	app.screen = ScreenEvents
	app.width = 100
	app.height = 40

	app, _ = pressKey(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	app, _ = pressKey(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	app, cmd := pressKey(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	if app.err == nil {
		t.Error("expected an error for non-numeric input")
	}
	if app.eventsFilter != 0 {
		t.Errorf("expected filter unchanged, got %d", app.eventsFilter)
	}
	if cmd != nil {
		t.Error("expected no reload for invalid input")
	}
}
