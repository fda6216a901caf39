package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deskcoach/internal/modules/tracking/dto"
	"deskcoach/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this dashboard requires from a module.

type trackingPort interface {
	TodayStats(ctx context.Context, standThresholdMM int) (dto.StatsOutput, error)
	YesterdayStats(ctx context.Context, standThresholdMM int) (dto.StatsOutput, error)
	RecalculateAsync(ctx context.Context, standThresholdMM int) func() bool
}

type reminderPort interface {
	Snooze(minutes int)
	Snoozed() bool
}

// ─── async messages ───────────────────────────────────────────────────────────

type statsLoadedMsg struct {
	today     dto.StatsOutput
	yesterday dto.StatsOutput
	err       error
}

type refreshTickMsg time.Time

type recalcTickMsg time.Time

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Refresh key.Binding
	Snooze  key.Binding
	Recalc  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Refresh: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "refresh")),
		Snooze:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "snooze reminders")),
		Recalc:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recalculate history")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Snooze, k.Recalc, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Snooze, k.Recalc},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

const refreshInterval = 60 * time.Second

// Model is the root Bubble Tea model: a two-pane dashboard showing today's
// posture totals next to yesterday's at the same clock time. Stats reload
// once a minute; while a recalculation runs, a faster tick polls its
// completion flag.
type Model struct {
	tracking         trackingPort
	reminder         reminderPort
	standThresholdMM int
	snoozeMinutes    int

	today     dto.StatsOutput
	yesterday dto.StatsOutput
	loaded    bool

	recalcDone func() bool

	keys     keyMap
	help     help.Model
	showHelp bool
	status   string
	width    int
	height   int
}

func NewModel(tracking trackingPort, reminder reminderPort, standThresholdMM, snoozeMinutes int) Model {
	return Model{
		tracking:         tracking,
		reminder:         reminder,
		standThresholdMM: standThresholdMM,
		snoozeMinutes:    snoozeMinutes,
		keys:             defaultKeys(),
		help:             help.New(),
		status:           "loading",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadStatsCmd(), refreshTick())
}

func (m Model) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		today, err := m.tracking.TodayStats(ctx, m.standThresholdMM)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		yesterday, err := m.tracking.YesterdayStats(ctx, m.standThresholdMM)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		return statsLoadedMsg{today: today, yesterday: yesterday}
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshTickMsg(t) })
}

func recalcTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return recalcTickMsg(t) })
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width

	case statsLoadedMsg:
		if msg.err != nil {
			m.status = "stats: " + msg.err.Error()
			return m, nil
		}
		m.today = msg.today
		m.yesterday = msg.yesterday
		m.loaded = true
		if m.recalcDone == nil {
			m.status = "ready"
		}

	case refreshTickMsg:
		return m, tea.Batch(m.loadStatsCmd(), refreshTick())

	case recalcTickMsg:
		if m.recalcDone == nil {
			return m, nil
		}
		if m.recalcDone() {
			m.recalcDone = nil
			m.status = "recalculation finished"
			return m, m.loadStatsCmd()
		}
		return m, recalcTick()

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		case "enter":
			m.status = "refreshing"
			return m, m.loadStatsCmd()
		case "s":
			m.reminder.Snooze(m.snoozeMinutes)
			m.status = fmt.Sprintf("reminders snoozed for %d min", m.snoozeMinutes)
		case "r":
			if m.recalcDone == nil {
				m.recalcDone = m.tracking.RecalculateAsync(context.Background(), m.standThresholdMM)
				m.status = "recalculating history"
				return m, recalcTick()
			}
		}
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.showHelp {
		return theme.App.Render(m.help.FullHelpView(m.keys.FullHelp()))
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("DeskCoach") + "\n\n")

	if !m.loaded {
		b.WriteString(theme.Muted.Render("loading stats..."))
	} else {
		todayPane := theme.PaneActive.Render(m.renderDay("today", m.today))
		yesterdayPane := theme.Pane.Render(m.renderDay("yesterday, same time", m.yesterday))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, todayPane, " ", yesterdayPane))
		b.WriteString("\n" + m.renderComparison())
	}

	b.WriteString("\n\n" + m.renderStatusBar())
	b.WriteString("\n" + m.help.ShortHelpView(m.keys.ShortHelp()))
	return theme.App.Render(b.String())
}

func (m Model) renderDay(label string, s dto.StatsOutput) string {
	return fmt.Sprintf("%s\n%s  seated\n%s  standing",
		theme.Muted.Render(label+"  "+s.Date),
		theme.Hot.Render(formatHM(s.SeatedSec)),
		theme.Good.Render(formatHM(s.StandingSec)))
}

func (m Model) renderComparison() string {
	total := m.today.SeatedSec + m.today.StandingSec
	if total == 0 {
		return theme.Muted.Render("no samples yet today")
	}
	pct := float64(m.today.StandingSec) / float64(total) * 100
	line := fmt.Sprintf("standing share today: %.0f%%", pct)

	prevTotal := m.yesterday.SeatedSec + m.yesterday.StandingSec
	if prevTotal > 0 {
		prevPct := float64(m.yesterday.StandingSec) / float64(prevTotal) * 100
		diff := pct - prevPct
		switch {
		case diff >= 1:
			line += theme.Good.Render(fmt.Sprintf("  (+%.0f vs yesterday)", diff))
		case diff <= -1:
			line += theme.Bad.Render(fmt.Sprintf("  (%.0f vs yesterday)", diff))
		default:
			line += theme.Muted.Render("  (on par with yesterday)")
		}
	}
	return line
}

func (m Model) renderStatusBar() string {
	status := m.status
	if m.reminder.Snoozed() {
		status += theme.Hot.Render("  [snoozed]")
	}
	if m.recalcDone != nil {
		status += theme.Muted.Render("  [recalculating]")
	}
	return theme.Muted.Render(status)
}

// formatHM renders seconds as "1h05m".
func formatHM(sec int64) string {
	minutes := sec / 60
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
