package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/muurk/envdash/internal/api"
	"github.com/muurk/envdash/internal/dashboard"
	"github.com/muurk/envdash/internal/widgets"
)

// Screen represents which view the render policy selected
type Screen string

const (
	ScreenLoading   Screen = "loading"
	ScreenError     Screen = "error"
	ScreenDashboard Screen = "dashboard"
)

// Backend is what the model drives. Every method may block, so the model
// only calls them from commands, never from Update.
type Backend interface {
	Refresh()
	DismissAlert()
	// Reset discards the running controller and starts a fresh one,
	// returning its generation.
	Reset() uint64
}

// stateMsg carries a controller snapshot. gen identifies the controller
// that produced it.
type stateMsg struct {
	gen   uint64
	state dashboard.State
}

// resetMsg reports that a hard reset started generation gen.
type resetMsg struct {
	gen uint64
}

// tickMsg drives the next-refresh bar.
type tickMsg time.Time

const tickInterval = time.Second

// AppModel is the top-level dashboard model.
type AppModel struct {
	State dashboard.State

	// gen and seq identify the newest snapshot applied
	gen uint64
	seq uint64

	backend        Backend
	latestInterval time.Duration

	// Cursor selects a point in the historical series for the chart tooltips
	Cursor int

	// UI state
	Width  int
	Height int
	Now    time.Time

	Spinner  spinner.Model
	Progress progress.Model
	Help     help.Model
	Keys     dashboardKeyMap
	ErrKeys  errorKeyMap
}

// NewAppModel creates the model for a backend whose latest-data loop runs
// every latestInterval.
func NewAppModel(backend Backend, latestInterval time.Duration) AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return AppModel{
		State:          dashboard.InitialState(),
		backend:        backend,
		latestInterval: latestInterval,
		Cursor:         widgets.NoCursor,
		Width:          80,
		Height:         24,
		Now:            time.Now(),
		Spinner:        s,
		Progress:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		Help:           help.New(),
		Keys:           newDashboardKeyMap(),
		ErrKeys:        newErrorKeyMap(),
	}
}

// Init starts the spinner and the refresh bar clock
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Screen applies the render policy to the current snapshot.
func (m AppModel) Screen() Screen {
	switch {
	case m.State.ShowLoading():
		return ScreenLoading
	case m.State.ShowError():
		return ScreenError
	default:
		return ScreenDashboard
	}
}

// Update handles all messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width - 4
		return m, nil

	case stateMsg:
		m.applyState(msg)
		return m, nil

	case resetMsg:
		if msg.gen > m.gen {
			m.gen = msg.gen
			m.seq = 0
			m.State = dashboard.InitialState()
			m.Cursor = widgets.NoCursor
		}
		return m, nil

	case tickMsg:
		m.Now = time.Time(msg)
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyState keeps only snapshots newer than the one shown. A snapshot from
// a newer controller generation replaces everything.
func (m *AppModel) applyState(msg stateMsg) {
	if msg.gen < m.gen {
		return
	}
	if msg.gen == m.gen && msg.state.Seq <= m.seq {
		return
	}
	m.gen = msg.gen
	m.seq = msg.state.Seq
	m.State = msg.state

	if n := len(m.State.History); m.Cursor >= n {
		m.Cursor = n - 1
	}
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit handler
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.Screen() {
	case ScreenError:
		switch {
		case key.Matches(msg, m.ErrKeys.Retry):
			return m, m.resetCmd()
		case key.Matches(msg, m.ErrKeys.Quit):
			return m, tea.Quit
		}
		return m, nil

	case ScreenLoading:
		if key.Matches(msg, m.Keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.State.AlertVisible {
		var cmd tea.Cmd
		modal := widgets.AlertModal{
			Status:    m.State.Comfort,
			OnDismiss: func() { cmd = m.dismissCmd() },
		}
		if modal.HandleKey(msg.String()) {
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, m.Keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.Keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
	case msg.String() == "esc":
		m.Cursor = widgets.NoCursor
	}
	return m, nil
}

// moveCursor steps through the series. The first step from no selection
// lands on the newest point going left and the oldest going right.
func (m *AppModel) moveCursor(delta int) {
	n := len(m.State.History)
	if n == 0 {
		m.Cursor = widgets.NoCursor
		return
	}
	if m.Cursor == widgets.NoCursor {
		if delta < 0 {
			m.Cursor = n - 1
		} else {
			m.Cursor = 0
		}
		return
	}
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
}

func (m AppModel) refreshCmd() tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		b.Refresh()
		return nil
	}
}

func (m AppModel) dismissCmd() tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		b.DismissAlert()
		return nil
	}
}

func (m AppModel) resetCmd() tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		return resetMsg{gen: b.Reset()}
	}
}

// View renders the screen the render policy selects
func (m AppModel) View() string {
	switch m.Screen() {
	case ScreenLoading:
		return RenderApplicationContainer(m.buildLoadingContent(), m.Help.View(m.Keys), m.Width, m.Height)
	case ScreenError:
		return RenderApplicationContainer(m.buildErrorContent(), m.Help.View(m.ErrKeys), m.Width, m.Height)
	}

	if m.State.AlertVisible {
		modal := widgets.AlertModal{Status: m.State.Comfort}
		return RenderModal(modal.Render(SafeModalWidth(ModalWidth, m.Width)), m.Width, m.Height)
	}
	return RenderApplicationContainer(m.buildDashboardContent(), m.Help.View(m.Keys), m.Width, m.Height)
}

func (m AppModel) contentWidth() int {
	return CalculateBoxWidth(m.Width) - 4
}

func (m AppModel) buildLoadingContent() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		RenderTitle(m.Spinner.View()+" Loading environment data..."),
		SubtitleStyle.Render("Waiting for the first readings from the backend"),
	)
	return lipgloss.Place(m.contentWidth(), m.Height-6, lipgloss.Center, lipgloss.Center, body)
}

func (m AppModel) buildErrorContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✗ Connection Problem"))
	b.WriteString("\n")
	b.WriteString(ErrorBoxStyle.Render(dashboard.LatestErrorMessage))
	b.WriteString("\n\n")

	if err := m.State.Err; err != nil {
		b.WriteString(fmt.Sprintf("Cause: %s\n\n", api.ShortMessage(err)))
		if hint := api.TroubleshootingHint(err); hint != "" {
			b.WriteString(HintStyle.Width(m.contentWidth()).Render(hint))
			b.WriteString("\n\n")
		}
	}

	b.WriteString("Press r to restart the dashboard, q to quit.\n")
	return b.String()
}

func (m AppModel) buildDashboardContent() string {
	width := m.contentWidth()
	third := width / 3
	s := m.State

	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.ValueTile{
			Label:      "Temperature",
			Value:      widgets.FormatTemperature(s.Reading.Temperature),
			Icon:       widgets.IconTemperature,
			Prediction: widgets.FormatTemperature(s.Prediction.Temperature),
		}.Render(third),
		widgets.ValueTile{
			Label:      "Humidity",
			Value:      widgets.FormatHumidity(s.Reading.Humidity),
			Icon:       widgets.IconHumidity,
			Prediction: widgets.FormatHumidity(s.Prediction.Humidity),
		}.Render(third),
		widgets.ValueTile{
			Label:      "Air Quality",
			Value:      widgets.FormatAirQuality(s.Reading.AirQuality),
			Icon:       widgets.IconAir,
			Prediction: widgets.FormatAirQuality(s.Prediction.AirQuality),
		}.Render(third),
	)

	devices := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.DeviceTile{Name: "Air Conditioner", Status: s.Devices.AC, Icon: widgets.IconAC}.Render(third),
		widgets.DeviceTile{Name: "Air Purifier", Status: s.Devices.Purifier, Icon: widgets.IconPurifier}.Render(third),
		widgets.DeviceTile{Name: "Dehumidifier", Status: s.Devices.Dehumidifier, Icon: widgets.IconDehumidifier}.Render(third),
	)

	charts := []widgets.LineChart{
		{Field: widgets.FieldTemperature, Label: "Temperature (°C)", Color: asciigraph.Red},
		{Field: widgets.FieldHumidity, Label: "Humidity (%)", Color: asciigraph.Blue},
		{Field: widgets.FieldAirQuality, Label: "Air Quality (PPM)", Color: asciigraph.Green},
	}
	rendered := make([]string, 0, len(charts))
	for _, c := range charts {
		c.Series = s.History
		c.Cursor = m.Cursor
		rendered = append(rendered, c.Render(width, ChartHeight))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusLine(width),
		tiles,
		widgets.ComfortPanel(s.Comfort, width),
		devices,
		lipgloss.JoinVertical(lipgloss.Left, rendered...),
	)
}

// statusLine shows when data last arrived and how long until the next poll.
func (m AppModel) statusLine(width int) string {
	updated := "never"
	if !m.State.LastUpdated.IsZero() {
		updated = m.State.LastUpdated.Local().Format(widgets.TimeLabelLayout)
	}
	left := HintStyle.Render("Last updated: " + updated)
	if m.State.Loading {
		left += " " + m.Spinner.View()
	}

	m.Progress.Width = width - lipgloss.Width(left) - 2
	if m.Progress.Width < 10 {
		m.Progress.Width = 10
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.Progress.ViewAs(m.refreshFraction()))
}

// refreshFraction is how much of the latest-data interval has elapsed.
func (m AppModel) refreshFraction() float64 {
	if m.State.LastUpdated.IsZero() || m.latestInterval <= 0 {
		return 0
	}
	f := float64(m.Now.Sub(m.State.LastUpdated)) / float64(m.latestInterval)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
