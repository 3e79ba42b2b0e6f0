package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nao1215/impactradar/internal/model"
)

// Field layout: the company input first, then a slider and a notes area for
// each dimension in declaration order.
const (
	fieldCompany = 0
	fieldCount   = 1 + 2*model.DimensionCount
)

// Step sizes of the score sliders.
const (
	smallStep = 1
	largeStep = 10
)

const sliderWidth = 20

// Exporter writes the current snapshot somewhere and returns a short summary
// for the status bar, such as the written file names.
type Exporter func(snap *model.Snapshot, benchmark bool) (string, error)

// exportDoneMsg reports the result of an Exporter call.
type exportDoneMsg struct {
	summary string
	err     error
}

// Model is the bubbletea model of the scoring editor. It edits the session it
// was created with in place.
type Model struct {
	session   *model.Session
	company   textinput.Model
	notes     textarea.Model
	focus     int
	benchmark bool
	exporter  Exporter
	status    string
	err       error
	keys      keyMap
	help      help.Model
	width     int
	height    int
	quitting  bool
}

// Option configures a Model.
type Option func(*Model)

// WithExporter sets the function called on ctrl+s.
func WithExporter(e Exporter) Option {
	return func(m *Model) {
		m.exporter = e
	}
}

// WithBenchmark sets the initial state of the benchmark toggle.
func WithBenchmark(on bool) Option {
	return func(m *Model) {
		m.benchmark = on
	}
}

// NewModel creates an editor for session. A nil session starts from defaults.
func NewModel(session *model.Session, opts ...Option) Model {
	if session == nil {
		session = model.NewSession()
	}

	ci := textinput.New()
	ci.Placeholder = "Company name"
	ci.CharLimit = 0
	ci.SetValue(session.CompanyName())
	ci.CursorEnd()
	ci.Focus()

	ta := textarea.New()
	ta.Placeholder = "Evidence and analysis..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(4)

	m := Model{
		session: session,
		company: ci,
		notes:   ta,
		focus:   fieldCompany,
		keys:    defaultKeyMap(),
		help:    help.New(),
		width:   100,
		height:  40,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Session returns the edited session.
func (m Model) Session() *model.Session {
	return m.session
}

// Benchmark reports whether the benchmark overlay is enabled.
func (m Model) Benchmark() bool {
	return m.benchmark
}

// Quitting reports whether the user asked to leave the editor.
func (m Model) Quitting() bool {
	return m.quitting
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.notes.SetWidth(max(20, msg.Width-8))
		m.help.Width = msg.Width
		return m, nil

	case exportDoneMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.summary
		} else {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)
	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.company.SetValue("")
		m.notes.SetValue("")
		m.status = "Session reset"
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	}

	if id, ok := sliderDimension(m.focus); ok {
		switch {
		case key.Matches(msg, m.keys.Dec):
			m.adjust(id, -smallStep)
		case key.Matches(msg, m.keys.Inc):
			m.adjust(id, smallStep)
		case key.Matches(msg, m.keys.DecBig):
			m.adjust(id, -largeStep)
		case key.Matches(msg, m.keys.IncBig):
			m.adjust(id, largeStep)
		case key.Matches(msg, m.keys.Benchmark):
			m.benchmark = !m.benchmark
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused text component. The component
// value is copied into the session only when a key changed it; loaded text
// is kept verbatim otherwise.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, isKey := msg.(tea.KeyMsg)

	var cmd tea.Cmd
	if m.focus == fieldCompany {
		before := m.company.Value()
		m.company, cmd = m.company.Update(msg)
		if isKey && m.company.Value() != before {
			m.session.SetCompanyName(m.company.Value())
		}
		return m, cmd
	}
	if id, ok := notesDimension(m.focus); ok {
		before := m.notes.Value()
		m.notes, cmd = m.notes.Update(msg)
		if isKey && m.notes.Value() != before {
			_ = m.session.SetNote(id, m.notes.Value())
		}
		return m, cmd
	}
	return m, nil
}

// adjust moves a score by delta, clamped to [0, 100].
func (m *Model) adjust(id model.DimensionID, delta int) {
	current, err := m.session.Score(id)
	if err != nil {
		m.err = err
		return
	}
	next := min(model.MaxScore, max(model.MinScore, current+delta))
	if err := m.session.SetScore(id, next); err != nil {
		m.err = err
	}
}

func (m Model) moveFocus(step int) (tea.Model, tea.Cmd) {
	m.company.Blur()
	m.notes.Blur()

	m.focus = (m.focus + step + fieldCount) % fieldCount

	var cmd tea.Cmd
	if m.focus == fieldCompany {
		cmd = m.company.Focus()
		m.company.CursorEnd()
	}
	if id, ok := notesDimension(m.focus); ok {
		note, _ := m.session.Note(id)
		m.notes.SetValue(note)
		cmd = m.notes.Focus()
	}
	return m, cmd
}

func (m Model) exportCmd() tea.Cmd {
	if m.exporter == nil {
		return func() tea.Msg {
			return exportDoneMsg{err: ErrNoExporter}
		}
	}
	snap := m.session.Snapshot()
	exporter := m.exporter
	benchmark := m.benchmark
	return func() tea.Msg {
		summary, err := exporter(snap, benchmark)
		return exportDoneMsg{summary: summary, err: err}
	}
}

// sliderDimension returns the dimension whose slider sits at field f.
func sliderDimension(f int) (model.DimensionID, bool) {
	if f <= fieldCompany || f >= fieldCount || (f-1)%2 != 0 {
		return 0, false
	}
	return model.DimensionID((f - 1) / 2), true
}

// notesDimension returns the dimension whose notes area sits at field f.
func notesDimension(f int) (model.DimensionID, bool) {
	if f <= fieldCompany || f >= fieldCount || (f-1)%2 != 1 {
		return 0, false
	}
	return model.DimensionID((f - 1) / 2), true
}

// focusedDimension returns the dimension of the focused slider or notes area.
func (m Model) focusedDimension() (model.DimensionID, bool) {
	if id, ok := sliderDimension(m.focus); ok {
		return id, true
	}
	return notesDimension(m.focus)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("IMPACT Radar"))
	b.WriteString("\n\n")

	companyLabel := labelStyle.Render("Company: ")
	if m.focus == fieldCompany {
		companyLabel = focusedStyle.Render("Company: ")
	}
	b.WriteString(companyLabel + m.company.View() + "\n\n")

	focused, hasFocus := m.focusedDimension()
	for _, spec := range model.Dimensions() {
		id, _ := model.ParseDimensionID(spec.ID)
		b.WriteString(m.renderSlider(id, spec, hasFocus && id == focused))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if hasFocus {
		b.WriteString(m.renderDetail(focused))
		b.WriteString("\n")
	}

	b.WriteString(m.renderSummary())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderSlider(id model.DimensionID, spec model.DimensionSpec, focused bool) string {
	score, _ := m.session.Score(id)
	sev := model.SeverityOf(score)

	filled := score * sliderWidth / model.MaxScore
	bar := strings.Repeat("█", filled) + strings.Repeat("░", sliderWidth-filled)

	label := fmt.Sprintf("[%s] %s %-13s", spec.Letter, spec.Icon, spec.Title)
	cursor := "  "
	if focused {
		label = focusedStyle.Render(label)
		if _, ok := sliderDimension(m.focus); ok {
			cursor = focusedStyle.Render("▸ ")
		}
	} else {
		label = labelStyle.Render(label)
	}

	return fmt.Sprintf("%s%s %s %s",
		cursor,
		label,
		severityStyle(sev).Render(bar),
		severityStyle(sev).Render(fmt.Sprintf("%3d/100 %s", score, sev)),
	)
}

func (m Model) renderDetail(id model.DimensionID) string {
	spec, err := model.Dimension(id)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	score, _ := m.session.Score(id)
	sev := model.SeverityOf(score)

	var b strings.Builder
	b.WriteString(focusedStyle.Render(spec.Title+" - "+spec.Subtitle) + "\n")
	b.WriteString(spec.Question + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("0: %s  |  100: %s", spec.LeftLabel, spec.RightLabel)) + "\n")
	b.WriteString(severityStyle(sev).Render(sev.String()+": ") + spec.Rubric.For(sev) + "\n\n")
	for _, p := range spec.ChallengePrompts {
		b.WriteString(promptStyle.Render("? "+p) + "\n")
	}
	b.WriteString("\n")

	if _, ok := notesDimension(m.focus); ok {
		b.WriteString(m.notes.View())
	} else {
		note, _ := m.session.Note(id)
		if note == "" {
			b.WriteString(dimStyle.Render("No notes yet. Press tab to write notes."))
		} else {
			b.WriteString(note)
		}
	}

	return panelStyle.Width(max(40, m.width-4)).Render(b.String())
}

func (m Model) renderSummary() string {
	snap := m.session.Snapshot()
	avg := snap.AverageScore()

	cells := make([]string, 0, len(snap.Dimensions))
	for _, d := range snap.Dimensions {
		cells = append(cells, severityStyle(d.Severity()).Render(fmt.Sprintf("%s %d", d.Spec.Letter, d.Score)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("Average: "),
		severityStyle(model.SeverityOf(avg)).Render(fmt.Sprintf("%d/100", avg)),
		labelStyle.Render(fmt.Sprintf("  High: %d/%d  ", snap.HighScoreCount(), model.DimensionCount)),
		strings.Join(cells, "  "),
	)
}

func (m Model) renderStatusBar() string {
	bench := "off"
	if m.benchmark {
		bench = "on"
	}
	text := "Benchmark: " + bench
	if m.status != "" {
		text += "  " + m.status
	}
	bar := statusBarStyle.Render(text)
	if m.err != nil {
		bar += " " + errorStyle.Render(m.err.Error())
	}
	return bar
}
