package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/polarctl/internal/motion"
	"github.com/san-kum/polarctl/internal/sim"
)

const (
	radarWidth      = 30
	radarHeight     = 12
	historyCapacity = 240
	trailLength     = 40
)

type TickMsg time.Time

// feed collects tick notifications; the model keeps a pointer so value
// copies made by Bubble Tea all see the same history.
type feed struct {
	samples  []motion.Sample
	angular  []float64
	linear   []float64
	last     motion.Command
	lastErr  error
	ticks    int
	skipped  int
	maxRange float64
}

func (f *feed) OnTick(tick int, s motion.Sample, cmd motion.Command) {
	f.ticks++
	f.last = cmd
	f.lastErr = nil
	f.samples = appendCapped(f.samples, s, trailLength)
	f.angular = appendCapped(f.angular, cmd.Angular, historyCapacity)
	f.linear = appendCapped(f.linear, cmd.Linear, historyCapacity)
	f.maxRange = math.Max(f.maxRange, s.Range())
}

func (f *feed) OnSkip(tick int, err error) {
	f.ticks++
	f.skipped++
	f.lastErr = err
}

func (f *feed) reset() {
	*f = feed{}
}

func appendCapped[T any](xs []T, x T, capacity int) []T {
	xs = append(xs, x)
	if len(xs) > capacity {
		xs = xs[len(xs)-capacity:]
	}
	return xs
}

// Model is the Bubble Tea model for the live view.
type Model struct {
	ctx     context.Context
	ctrl    sim.Controller
	period  time.Duration
	title   string
	feed    *feed
	radar   *Radar
	running bool
}

func NewModel(ctx context.Context, ctrl sim.Controller, period time.Duration, title string) Model {
	f := &feed{}
	ctrl.AddObserver(f)
	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		period:  period,
		title:   title,
		feed:    f,
		radar:   NewRadar(radarWidth, radarHeight),
		running: true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.period, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.feed.reset()
		}
	case TickMsg:
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		if m.running {
			m.ctrl.Tick(m.ctx)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	f := m.feed

	status := statusRunning.Render("● running")
	if !m.running {
		status = statusPaused.Render("❚❚ paused")
	}

	stats := []string{
		titleStyle.Render(m.title) + "  " + status,
		"",
		row("angular", fmt.Sprintf("%+.3f rad/s", f.last.Angular)),
		row("linear", fmt.Sprintf("%.3f m/s", f.last.Linear)),
		row("ticks", fmt.Sprintf("%d", f.ticks)),
		row("skipped", fmt.Sprintf("%d", f.skipped)),
		row("period", m.period.String()),
	}
	if f.lastErr != nil {
		stats = append(stats, statusSkipped.Render("last tick skipped: "+f.lastErr.Error()))
	}

	m.radar.Draw(f.samples, f.maxRange)
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.radar.String()),
		panelStyle.Render(strings.Join(stats, "\n")),
	)

	var graphs []string
	if g := PlotSeries(f.angular, "angular", 6, 60); g != "" {
		graphs = append(graphs, graphStyle.Render(g))
	}
	if g := PlotSeries(f.linear, "linear", 6, 60); g != "" {
		graphs = append(graphs, graphStyle.Render(g))
	}

	parts := append([]string{top}, graphs...)
	parts = append(parts, helpStyle.Render("space pause • r clear • q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// Run opens the live view and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ctrl sim.Controller, period time.Duration, title string) error {
	p := tea.NewProgram(NewModel(ctx, ctrl, period, title), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
