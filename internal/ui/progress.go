package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"scriptkit/internal/buildpipeline"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// stageVerbs label a file that is inside a stage.
var stageVerbs = map[buildpipeline.Stage]string{
	buildpipeline.StageLoad:      "loading",
	buildpipeline.StageParse:     "parsing",
	buildpipeline.StageTranspile: "transpiling",
	buildpipeline.StageRun:       "running",
}

const statusWidth = 12

type fileItem struct {
	path    string
	status  string // queued, a stage verb, done or error
	stage   buildpipeline.Stage
	elapsed time.Duration // summed over finished stages
	err     error
}

func (it fileItem) finished() bool { return it.status == "done" || it.status == "error" }

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	phase   string // label of file-less events
	final   buildpipeline.Stage
	width   int
	done    bool
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders pipeline
// progress until events is closed. A file is finished once final is done
// or any stage fails.
func NewProgressModel(title string, files []string, final buildpipeline.Stage, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(workingStyle))
	prog := progress.New(progress.WithDefaultGradient(), progress.WithWidth(76))

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   make([]fileItem, len(files)),
		index:   make(map[string]int, len(files)),
		final:   final,
		width:   80,
	}
	for i, f := range files {
		m.items[i] = fileItem{path: f, status: "queued", stage: buildpipeline.StageLoad}
		m.index[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(buildpipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		// the pipeline keeps running; ctrl+c only stops drawing
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-14, 20)
	for _, it := range m.items {
		fmt.Fprintf(&b, "  %s %s", styleStatus(it.status).Render(fmt.Sprintf("%*s", statusWidth, it.status)), truncate(it.path, nameWidth))
		switch {
		case it.err != nil:
			b.WriteString(" " + errorStyle.Render(truncate(firstLine(it.err.Error()), nameWidth)))
		case it.finished() && it.elapsed > 0:
			b.WriteString(" " + dimStyle.Render(it.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.prog.ViewAs(1))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *progressModel) header() string {
	var finished, failed int
	for _, it := range m.items {
		if it.finished() {
			finished++
		}
		if it.status == "error" {
			failed++
		}
	}
	h := fmt.Sprintf("%s %d/%d", m.title, finished, len(m.items))
	if failed > 0 {
		h += fmt.Sprintf(", %d failed", failed)
	}
	if m.phase != "" {
		h += " (" + m.phase + ")"
	}
	if m.done {
		return "done: " + h
	}
	return m.spinner.View() + " " + h
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status, m.final)
	if label == "" {
		return nil
	}
	if ev.File == "" {
		m.phase = label
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	it.status, it.stage = label, ev.Stage
	it.elapsed += ev.Elapsed
	if ev.Status == buildpipeline.StatusError {
		it.err = ev.Err
	}
	return m.prog.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, it := range m.items {
		if it.finished() {
			total++
		} else {
			total += progressFromStage(it.stage)
		}
	}
	return total / float64(len(m.items))
}

// progressFromStage places a file partway along by its stage's position.
func progressFromStage(stage buildpipeline.Stage) float64 {
	for i, st := range buildpipeline.Stages {
		if st == stage {
			return (float64(i) + 0.5) / float64(len(buildpipeline.Stages))
		}
	}
	return 0
}

func statusLabel(stage buildpipeline.Stage, status buildpipeline.Status, final buildpipeline.Stage) string {
	switch status {
	case buildpipeline.StatusQueued:
		return "queued"
	case buildpipeline.StatusError:
		return "error"
	case buildpipeline.StatusDone:
		if stage == final {
			return "done"
		}
	case buildpipeline.StatusWorking:
	default:
		return ""
	}
	return stageVerbs[stage]
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return doneStyle
	case "error":
		return errorStyle
	case "queued":
		return idleStyle
	}
	return workingStyle
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
