package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/phanxgames/gfxlab"
)

const (
	frameRate = 30
	turnStep  = math.Pi / 6

	// chrome is the number of terminal rows used by everything except the
	// canvas.
	chrome = 5
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	clothStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B35900", Dark: "#FF8C00"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	name  string
	limit int // stop after this many steps; 0 runs forever
	sim   *gfxlab.MassSpring
	grid  *gfxlab.ClothGrid

	// yaw follows targetYaw through a critically damped spring.
	yaw, yawVel, targetYaw float64
	spring                 harmonica.Spring

	canvas   *canvas
	help     help.Model
	progress progress.Model
	width    int
}

func newModel(s *gfxlab.Scenario) (model, error) {
	sim, grid, err := s.Build()
	if err != nil {
		return model{}, err
	}
	sim.Start()

	p := progress.New(
		progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
		progress.WithoutPercentage(),
	)
	return model{
		name:     s.Name,
		limit:    s.Steps,
		sim:      sim,
		grid:     grid,
		spring:   harmonica.NewSpring(harmonica.FPS(frameRate), 6.0, 1.0),
		canvas:   newCanvas(60, 20),
		help:     help.New(),
		progress: p,
	}, nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.SetWindowTitle("gfxlab: "+m.name))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.canvas = newCanvas(msg.Width-2, msg.Height-chrome)
		m.progress.Width = min(max(msg.Width-8, 20), 60)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Pause):
			if m.sim.IsActive() {
				m.sim.Stop()
			} else if !m.finished() {
				m.sim.Start()
			}
		case key.Matches(msg, keys.Left):
			m.targetYaw -= turnStep
		case key.Matches(msg, keys.Right):
			m.targetYaw += turnStep
		case key.Matches(msg, keys.Reset):
			m.sim.Reset()
			m.sim.Start()
			m.targetYaw = 0
		}
		return m, nil

	case tickMsg:
		m.advance()
		return m, tickCmd()
	}
	return m, nil
}

// advance runs one frame of simulation and camera motion.
func (m *model) advance() {
	m.sim.Update(1.0 / frameRate)
	if m.finished() {
		m.sim.Stop()
	}
	m.yaw, m.yawVel = m.spring.Update(m.yaw, m.yawVel, m.targetYaw)
}

func (m model) finished() bool {
	return m.limit > 0 && m.sim.Stats().Steps >= uint64(m.limit)
}

// draw projects the cloth onto the canvas, rotated by yaw about Y, with the
// floor of the collision box as a horizontal line.
func (m model) draw() {
	c := m.canvas
	c.clear()
	w, h := c.dots()
	scale := 0.45 * float64(min(w, h))
	sin, cos := math.Sincos(m.yaw)
	project := func(p gfxlab.Vec3) (int, int) {
		x := p.X()*cos + p.Z()*sin
		return int(math.Round(float64(w)/2 + x*scale)),
			int(math.Round(float64(h)/2 - p.Y()*scale))
	}

	_, fy := project(gfxlab.V3(0, gfxlab.BoxMin, 0))
	c.line(0, fy, w-1, fy)

	pos := m.sim.Positions()
	for r := 0; r <= m.grid.Rows(); r++ {
		for col := 0; col <= m.grid.Cols(); col++ {
			x0, y0 := project(pos[m.grid.Index(col, r)])
			if col < m.grid.Cols() {
				x1, y1 := project(pos[m.grid.Index(col+1, r)])
				c.line(x0, y0, x1, y1)
			}
			if r < m.grid.Rows() {
				x1, y1 := project(pos[m.grid.Index(col, r+1)])
				c.line(x0, y0, x1, y1)
			}
		}
	}
}

func (m model) View() string {
	m.draw()
	st := m.sim.Stats()

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.name))
	b.WriteByte('\n')
	b.WriteString(clothStyle.Render(m.canvas.String()))
	b.WriteByte('\n')

	status := fmt.Sprintf("steps %d  KE %.4f  max |v| %.3f", st.Steps, st.KineticEnergy, st.MaxSpeed)
	if !m.sim.IsActive() {
		status += "  [paused]"
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteByte('\n')
	if m.limit > 0 {
		b.WriteString(m.progress.ViewAs(min(float64(st.Steps)/float64(m.limit), 1)))
	}
	b.WriteByte('\n')
	b.WriteString(m.help.View(keys))
	return b.String()
}
