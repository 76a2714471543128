// Package ui is the live practice screen: a bubbletea program that runs a
// session.Session, shows the clock and who is where, and checkpoints progress
// so a restarted screen can pick up where it left off.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/session"
)

const (
	tickEvery = 250 * time.Millisecond
	saveEvery = 5 * time.Second
)

// Checkpointer persists live progress. checkpoint.Store implements it.
type Checkpointer interface {
	Save(cp session.Checkpoint) error
	Delete(sessionID string) error
}

// Options describe the practice around the session.
type Options struct {
	Title   string
	Players []models.Player
	Coaches []models.Coach
	// Floating lists coaches roaming between stations.
	Floating []string
	// Bell receives the terminal bell on warnings and at the end. Nil
	// disables it.
	Bell io.Writer
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// events collects session hook firings between two updates.
type events struct {
	warned    bool
	advanced  bool
	completed bool
}

// LiveModel is the bubbletea model of the live screen.
type LiveModel struct {
	sess    *session.Session
	store   Checkpointer
	opts    Options
	players map[string]string
	coaches map[string]string
	ev      *events

	progress progress.Model
	help     help.Model
	lastSave time.Time
	err      string
	width    int
}

// NewLive wraps a started or restored session. store may be nil.
func NewLive(sess *session.Session, store Checkpointer, opts Options) LiveModel {
	ev := &events{}
	sess.OnWarning(func(models.Slot) { ev.warned = true })
	sess.OnAdvance(func(int) { ev.advanced = true })
	sess.OnComplete(func() { ev.completed = true })

	m := LiveModel{
		sess:     sess,
		store:    store,
		opts:     opts,
		players:  make(map[string]string, len(opts.Players)),
		coaches:  make(map[string]string, len(opts.Coaches)),
		ev:       ev,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
	}
	for _, p := range opts.Players {
		m.players[p.ID] = p.Name
	}
	for _, c := range opts.Coaches {
		m.coaches[c.ID] = c.Name
	}
	return m
}

// Session returns the session being run.
func (m LiveModel) Session() *session.Session { return m.sess }

func (m LiveModel) Init() tea.Cmd {
	return tickCmd()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(20, msg.Width-10)
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.sess.Tick()
		now := time.Time(msg)
		m.afterChange(now.Sub(m.lastSave) >= saveEvery, now)
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.save(time.Now())
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, keys.Pause):
			if m.sess.Status() == session.Paused {
				m.sess.Resume()
			} else {
				m.sess.Pause()
			}
		case key.Matches(msg, keys.Next):
			m.sess.Next()
		case key.Matches(msg, keys.Prev):
			m.sess.Prev()
		case key.Matches(msg, keys.End):
			m.sess.Complete()
		default:
			return m, nil
		}
		m.afterChange(true, time.Now())
		return m, nil
	}
	return m, nil
}

// afterChange rings for hook events and checkpoints when asked to or when
// the session moved.
func (m *LiveModel) afterChange(save bool, now time.Time) {
	ev := *m.ev
	*m.ev = events{}

	if ev.warned || ev.completed {
		m.ring()
	}
	if ev.completed {
		if m.store != nil {
			if err := m.store.Delete(m.sess.ID()); err != nil {
				m.err = "clearing checkpoint: " + err.Error()
			}
		}
		return
	}
	if save || ev.advanced {
		m.save(now)
	}
}

func (m *LiveModel) save(now time.Time) {
	m.lastSave = now
	if m.store == nil || m.sess.Status() == session.NotStarted || m.sess.Status() == session.Completed {
		return
	}
	if err := m.store.Save(m.sess.Checkpoint()); err != nil {
		m.err = "saving checkpoint: " + err.Error()
		return
	}
	m.err = ""
}

func (m *LiveModel) ring() {
	if m.opts.Bell != nil {
		fmt.Fprint(m.opts.Bell, "\a")
	}
}

func (m LiveModel) View() string {
	var b strings.Builder

	title := m.opts.Title
	if title == "" {
		title = "Practice"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if m.sess.Status() == session.Completed {
		b.WriteString(doneStyle.Render("  Practice complete. Great work, coaches!"))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("  q: quit"))
		return borderStyle.Render(b.String())
	}

	slot, ok := m.sess.Current()
	if !ok {
		b.WriteString(dimStyle.Render("  No practice loaded."))
		return borderStyle.Render(b.String())
	}

	lead := slot.Lead()
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %s  (%d/%d)", slotTitle(slot), m.sess.Index()+1, m.sess.TotalSegments())))
	b.WriteString("\n\n")

	clock := clockStyle
	if m.sess.IsWarning() {
		clock = warningClockStyle
	}
	b.WriteString(clock.Render(indent(bigTime(m.sess.FormattedTime()), "  ")))
	b.WriteString("\n")
	if m.sess.Status() == session.Paused {
		b.WriteString(pausedStyle.Render("  PAUSED"))
		b.WriteString("\n")
	}
	b.WriteString("\n  ")
	b.WriteString(m.progress.ViewAs(m.sess.Progress() / 100))
	b.WriteString("\n\n")

	if stations := m.sess.CurrentStations(); stations != nil {
		b.WriteString(m.stationsView(stations))
		b.WriteString("\n")
		if len(m.opts.Floating) > 0 {
			b.WriteString(dimStyle.Render("  Floating: " + m.names(m.opts.Floating, m.coaches)))
			b.WriteString("\n")
		}
	} else if d, ok := lead.AssignedDrill(); ok && d.Explanation != "" {
		b.WriteString(dimStyle.Render("  " + d.Explanation))
		b.WriteString("\n")
	}

	if next, ok := m.sess.NextPreview(); ok {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("  Up next: %s (%d min)", slotTitle(next), next.DurationMinutes)))
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  Error: " + m.err))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(m.help.View(keys))

	return borderStyle.Render(b.String())
}

func (m LiveModel) stationsView(stations []models.Segment) string {
	boxes := make([]string, len(stations))
	for i, seg := range stations {
		coaches := m.names(seg.CoachIDs, m.coaches)
		if coaches == "" {
			coaches = "no coach"
		}
		body := headerStyle.Render(seg.Name) + "\n" +
			"Coach: " + coaches + "\n" +
			strings.Join(m.nameList(seg.PlayerIDs, m.players), "\n")
		boxes[i] = stationStyle.Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m LiveModel) names(ids []string, lookup map[string]string) string {
	return strings.Join(m.nameList(ids, lookup), ", ")
}

func (m LiveModel) nameList(ids []string, lookup map[string]string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := lookup[id]; ok && name != "" {
			out[i] = name
		} else {
			out[i] = id
		}
	}
	return out
}

// slotTitle names a slot by its segment type and drill, e.g.
// "Warm-Up: Dynamic Warmup".
func slotTitle(slot models.Slot) string {
	lead := slot.Lead()
	if slot.Parallel() {
		return fmt.Sprintf("Stations, rotation %d", rotation(lead))
	}
	label := lead.Type.Label()
	if lead.Name == "" || lead.Name == label {
		return label
	}
	return label + ": " + lead.Name
}

func rotation(seg models.Segment) int {
	if seg.Rotation == nil {
		return 0
	}
	return *seg.Rotation
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
