package tui

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/envdash/internal/api"
	"github.com/muurk/envdash/internal/comfort"
	"github.com/muurk/envdash/internal/dashboard"
	"github.com/muurk/envdash/internal/widgets"
)

type fakeBackend struct {
	refreshes atomic.Int32
	dismisses atomic.Int32
	resets    atomic.Int32
}

func (b *fakeBackend) Refresh()      { b.refreshes.Add(1) }
func (b *fakeBackend) DismissAlert() { b.dismisses.Add(1) }
func (b *fakeBackend) Reset() uint64 { return uint64(b.resets.Add(1)) + 1 }

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func history() []api.HistoricalPoint {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	return []api.HistoricalPoint{
		{Temperature: 21.0, Humidity: 40, AirQuality: 80, Timestamp: api.Timestamp{Time: base}},
		{Temperature: 21.5, Humidity: 42, AirQuality: 85, Timestamp: api.Timestamp{Time: base.Add(30 * time.Minute)}},
		{Temperature: 22.0, Humidity: 44, AirQuality: 90, Timestamp: api.Timestamp{Time: base.Add(time.Hour)}},
	}
}

// loaded returns a snapshot the dashboard screen would render.
func loaded(seq uint64) dashboard.State {
	s := dashboard.InitialState()
	s.Loading = false
	s.History = history()
	s.HistoryLoaded = true
	s.Reading = dashboard.Reading{Temperature: 23.5, Humidity: 45.2, AirQuality: 87.6}
	s.Devices = dashboard.Devices{AC: "ON", Purifier: "OFF", Dehumidifier: "OFF"}
	s.LastUpdated = time.Now()
	s.Seq = seq
	return s
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestScreenSelection(t *testing.T) {
	m := NewAppModel(&fakeBackend{}, time.Second)
	if got := m.Screen(); got != ScreenLoading {
		t.Errorf("initial Screen() = %s, want %s", got, ScreenLoading)
	}

	m, _ = update(t, m, stateMsg{gen: 1, state: loaded(1)})
	if got := m.Screen(); got != ScreenDashboard {
		t.Errorf("Screen() = %s, want %s", got, ScreenDashboard)
	}

	// Loading again with history already loaded keeps the dashboard
	s := loaded(2)
	s.Loading = true
	m, _ = update(t, m, stateMsg{gen: 1, state: s})
	if got := m.Screen(); got != ScreenDashboard {
		t.Errorf("Screen() while refreshing = %s, want %s", got, ScreenDashboard)
	}

	s = loaded(3)
	s.Err = errors.New("boom")
	m, _ = update(t, m, stateMsg{gen: 1, state: s})
	if got := m.Screen(); got != ScreenError {
		t.Errorf("Screen() with error = %s, want %s", got, ScreenError)
	}
}

func TestApplyState_DropsStaleSnapshots(t *testing.T) {
	m := NewAppModel(&fakeBackend{}, time.Second)

	m, _ = update(t, m, stateMsg{gen: 1, state: loaded(5)})
	old := loaded(4)
	old.Reading.Temperature = 99
	m, _ = update(t, m, stateMsg{gen: 1, state: old})
	if m.State.Reading.Temperature == 99 {
		t.Error("older snapshot of the same generation was applied")
	}

	// A new generation starts its sequence over
	fresh := loaded(1)
	fresh.Reading.Temperature = 18
	m, _ = update(t, m, stateMsg{gen: 2, state: fresh})
	if m.State.Reading.Temperature != 18 {
		t.Error("snapshot from a newer generation was dropped")
	}

	late := loaded(9)
	late.Reading.Temperature = 30
	m, _ = update(t, m, stateMsg{gen: 1, state: late})
	if m.State.Reading.Temperature != 18 {
		t.Error("snapshot from a replaced controller was applied")
	}
}

func TestResetMsg(t *testing.T) {
	m := NewAppModel(&fakeBackend{}, time.Second)
	s := loaded(3)
	s.Err = errors.New("boom")
	m, _ = update(t, m, stateMsg{gen: 1, state: s})

	m, _ = update(t, m, resetMsg{gen: 2})
	if m.State.Err != nil || !m.State.Loading {
		t.Errorf("state after reset = %+v, want initial state", m.State)
	}
	if m.Screen() != ScreenLoading {
		t.Errorf("Screen() after reset = %s, want loading", m.Screen())
	}

	// A reset that is already superseded changes nothing
	m, _ = update(t, m, stateMsg{gen: 3, state: loaded(1)})
	m, _ = update(t, m, resetMsg{gen: 2})
	if m.Screen() != ScreenDashboard {
		t.Error("stale reset message discarded newer state")
	}
}

func TestKeys_Dashboard(t *testing.T) {
	b := &fakeBackend{}
	m := NewAppModel(b, time.Second)
	m, _ = update(t, m, stateMsg{gen: 1, state: loaded(1)})

	_, cmd := update(t, m, runeKey("r"))
	if cmd == nil {
		t.Fatal("r returned no command")
	}
	cmd()
	if b.refreshes.Load() != 1 {
		t.Errorf("refreshes = %d, want 1", b.refreshes.Load())
	}

	_, cmd = update(t, m, runeKey("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}

	m, _ = update(t, m, runeKey("?"))
	if !m.Help.ShowAll {
		t.Error("? did not expand help")
	}
}

func TestKeys_AlertDismiss(t *testing.T) {
	b := &fakeBackend{}
	m := NewAppModel(b, time.Second)
	s := loaded(1)
	s.AlertVisible = true
	s.Comfort = comfort.NewStatus("uncomfortable", []string{"high temperature"})
	m, _ = update(t, m, stateMsg{gen: 1, state: s})

	// Not a close key
	_, cmd := update(t, m, runeKey("z"))
	if cmd != nil {
		cmd()
	}
	if b.dismisses.Load() != 0 {
		t.Fatal("unrelated key dismissed the alert")
	}

	for _, k := range []tea.KeyMsg{{Type: tea.KeyEnter}, {Type: tea.KeyEsc}, runeKey("x")} {
		_, cmd := update(t, m, k)
		if cmd == nil {
			t.Fatalf("%s returned no command", k)
		}
		cmd()
	}
	if b.dismisses.Load() != 3 {
		t.Errorf("dismisses = %d, want 3", b.dismisses.Load())
	}

	// The model never hides the alert itself
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.State.AlertVisible {
		t.Error("model hid the alert without a new snapshot")
	}
}

func TestKeys_ErrorScreenResets(t *testing.T) {
	b := &fakeBackend{}
	m := NewAppModel(b, time.Second)
	s := dashboard.InitialState()
	s.Loading = false
	s.Err = errors.New("boom")
	s.Seq = 1
	m, _ = update(t, m, stateMsg{gen: 1, state: s})

	_, cmd := update(t, m, runeKey("r"))
	if cmd == nil {
		t.Fatal("r returned no command")
	}
	msg, ok := cmd().(resetMsg)
	if !ok {
		t.Fatal("r on the error screen did not reset")
	}
	if msg.gen != 2 {
		t.Errorf("reset gen = %d, want 2", msg.gen)
	}
	if b.refreshes.Load() != 0 {
		t.Error("r on the error screen did a soft refresh")
	}
}

func TestCursor(t *testing.T) {
	m := NewAppModel(&fakeBackend{}, time.Second)
	m, _ = update(t, m, stateMsg{gen: 1, state: loaded(1)})

	left := tea.KeyMsg{Type: tea.KeyLeft}
	right := tea.KeyMsg{Type: tea.KeyRight}

	m, _ = update(t, m, left)
	if m.Cursor != 2 {
		t.Errorf("first left: Cursor = %d, want 2", m.Cursor)
	}
	m, _ = update(t, m, left)
	m, _ = update(t, m, left)
	m, _ = update(t, m, left)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want clamped to 0", m.Cursor)
	}
	m, _ = update(t, m, right)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", m.Cursor)
	}

	// Shrinking history clamps the cursor
	m, _ = update(t, m, right)
	s := loaded(2)
	s.History = s.History[:1]
	m, _ = update(t, m, stateMsg{gen: 1, state: s})
	if m.Cursor != 0 {
		t.Errorf("Cursor after shrink = %d, want 0", m.Cursor)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Cursor != widgets.NoCursor {
		t.Errorf("esc: Cursor = %d, want NoCursor", m.Cursor)
	}
}

func TestView(t *testing.T) {
	m := NewAppModel(&fakeBackend{}, time.Second)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if v := m.View(); !strings.Contains(v, "Loading environment data") {
		t.Errorf("loading view missing indicator:\n%s", v)
	}

	m, _ = update(t, m, stateMsg{gen: 1, state: loaded(1)})
	v := m.View()
	for _, want := range []string{"23.5°C", "45.2%", "88 PPM", "Dehumidifier", "Comfort Status", "Temperature (°C)"} {
		if !strings.Contains(v, want) {
			t.Errorf("dashboard view missing %q", want)
		}
	}

	s := loaded(2)
	s.AlertVisible = true
	s.Comfort = comfort.NewStatus("uncomfortable", []string{"high temperature"})
	m, _ = update(t, m, stateMsg{gen: 1, state: s})
	if v := m.View(); !strings.Contains(v, "Uncomfortable Environment Detected") {
		t.Errorf("alert view missing modal:\n%s", v)
	}

	s = loaded(3)
	s.Err = errors.New("boom")
	m, _ = update(t, m, stateMsg{gen: 1, state: s})
	if v := m.View(); !strings.Contains(v, dashboard.LatestErrorMessage) {
		t.Errorf("error view missing message:\n%s", v)
	}
}

func TestRefreshFraction(t *testing.T) {
	m := NewAppModel(&fakeBackend{}, 10*time.Second)
	if got := m.refreshFraction(); got != 0 {
		t.Errorf("refreshFraction() before any update = %v, want 0", got)
	}

	now := time.Now()
	m.State.LastUpdated = now
	m.Now = now.Add(5 * time.Second)
	if got := m.refreshFraction(); got != 0.5 {
		t.Errorf("refreshFraction() = %v, want 0.5", got)
	}

	m.Now = now.Add(time.Minute)
	if got := m.refreshFraction(); got != 1 {
		t.Errorf("refreshFraction() = %v, want 1", got)
	}
}
