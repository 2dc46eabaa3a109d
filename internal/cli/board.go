package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/geomingle/internal/cli/formatter"
	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/service"
)

const (
	columnWidth = 34
	columnGap   = 1
)

// descriptionWidth is the room left for a description after its time label.
func descriptionWidth(at string) int {
	return max(1, columnWidth-utf8.RuneCountInString(at)-4)
}

// boardKeyMap lists the board key bindings.
type boardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	MoveLeft   key.Binding
	MoveRight  key.Binding
	Add        key.Binding
	Delete     key.Binding
	DeletePlan key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev plan")),
		Right:      key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next plan")),
		MoveUp:     key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move up")),
		MoveDown:   key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move down")),
		MoveLeft:   key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "move to prev plan")),
		MoveRight:  key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "move to next plan")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:     key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		DeletePlan: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete plan")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Add, k.Delete, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.MoveUp, k.MoveDown, k.MoveLeft, k.MoveRight},
		{k.Add, k.Delete, k.DeletePlan},
		{k.Help, k.Quit},
	}
}

// boardChangedMsg reports the outcome of a board action. focus names the
// activity the cursor should follow.
type boardChangedMsg struct {
	focus  string
	status string
	err    error
}

// boardModel shows every itinerary as a column and edits them with the
// keyboard. Each action is one planner use case.
type boardModel struct {
	ctx     context.Context
	planner *service.Planner
	keys    boardKeyMap
	help    help.Model

	snap  domain.Snapshot
	col   int
	row   int
	width int

	form     *huh.Form
	formDesc string
	formTime string

	status string
	err    error
}

func newBoardModel(ctx context.Context, planner *service.Planner) *boardModel {
	m := &boardModel{
		ctx:     ctx,
		planner: planner,
		keys:    defaultBoardKeys(),
		help:    help.New(),
	}
	m.refresh("")
	return m
}

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Edit itineraries on an interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("board needs an interactive terminal")
			}
			p := tea.NewProgram(newBoardModel(cmd.Context(), app.Planner),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
}

func (m *boardModel) Init() tea.Cmd { return nil }

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case boardChangedMsg:
		m.refresh(msg.focus)
		m.err = msg.err
		m.status = ""
		if msg.err == nil {
			m.status = msg.status
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *boardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	it, act, hasAct := m.selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.row = max(m.row-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.row = min(m.row+1, max(len(it.Activities)-1, 0))
	case key.Matches(msg, m.keys.Left):
		m.focusColumn(m.col - 1)
	case key.Matches(msg, m.keys.Right):
		m.focusColumn(m.col + 1)

	case key.Matches(msg, m.keys.MoveUp):
		if hasAct && m.row > 0 {
			from, to := m.row, m.row-1
			return m.run(act.ID, "", func(ctx context.Context) error {
				return m.planner.Reorder(ctx, it.ID, from, to)
			})
		}
	case key.Matches(msg, m.keys.MoveDown):
		if hasAct && m.row < len(it.Activities)-1 {
			from, to := m.row, m.row+1
			return m.run(act.ID, "", func(ctx context.Context) error {
				return m.planner.Reorder(ctx, it.ID, from, to)
			})
		}
	case key.Matches(msg, m.keys.MoveLeft):
		return m.moveAcross(act, hasAct, m.col-1)
	case key.Matches(msg, m.keys.MoveRight):
		return m.moveAcross(act, hasAct, m.col+1)

	case key.Matches(msg, m.keys.Add):
		m.formDesc, m.formTime = "", ""
		m.form = addActivityForm(m.planner.Clock(), &m.formDesc, &m.formTime)
		return m.form.Init()
	case key.Matches(msg, m.keys.Delete):
		if hasAct {
			return m.run("", "Removed "+act.Description, func(ctx context.Context) error {
				return m.planner.RemoveActivity(ctx, act.ID)
			})
		}
	case key.Matches(msg, m.keys.DeletePlan):
		return m.run("", "Removed "+it.Title, func(ctx context.Context) error {
			return m.planner.RemoveItinerary(ctx, it.ID)
		})
	}
	return nil
}

// moveAcross drops the selected activity at the end of the itinerary in
// column target.
func (m *boardModel) moveAcross(act domain.Activity, hasAct bool, target int) tea.Cmd {
	if !hasAct || target < 0 || target >= len(m.snap.Itineraries) {
		return nil
	}
	dest := m.snap.Itineraries[target]
	return m.run(act.ID, "Moved to "+dest.Title, func(ctx context.Context) error {
		return m.planner.Move(ctx, act.ID, dest.ID)
	})
}

func (m *boardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		m.status = "Add cancelled."
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, tea.Batch(cmd, m.addActivity(m.formDesc, m.formTime))
	case huh.StateAborted:
		m.form = nil
		m.status = "Add cancelled."
		return m, nil
	}
	return m, cmd
}

func (m *boardModel) addActivity(desc, at string) tea.Cmd {
	return func() tea.Msg {
		act, err := m.planner.AddActivity(m.ctx, desc, at)
		return boardChangedMsg{focus: act.ID, status: "Added " + act.Description, err: err}
	}
}

// run wraps a planner call as a Cmd reporting a boardChangedMsg.
func (m *boardModel) run(focus, status string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return boardChangedMsg{focus: focus, status: status, err: fn(m.ctx)}
	}
}

// refresh reloads the snapshot and places the cursor on focus when it is
// still present, otherwise clamps the cursor.
func (m *boardModel) refresh(focus string) {
	m.snap = m.planner.Snapshot()
	if focus != "" {
		for i, it := range m.snap.Itineraries {
			if j := it.IndexOf(focus); j >= 0 {
				m.col, m.row = i, j
				return
			}
		}
	}
	m.focusColumn(m.col)
}

func (m *boardModel) focusColumn(col int) {
	n := len(m.snap.Itineraries)
	if n == 0 {
		m.col, m.row = 0, 0
		return
	}
	m.col = min(max(col, 0), n-1)
	m.row = min(m.row, max(len(m.snap.Itineraries[m.col].Activities)-1, 0))
}

// selected returns the focused itinerary and, when it has one, the
// activity under the cursor.
func (m *boardModel) selected() (domain.Itinerary, domain.Activity, bool) {
	if m.col >= len(m.snap.Itineraries) {
		return domain.Itinerary{}, domain.Activity{}, false
	}
	it := m.snap.Itineraries[m.col]
	if m.row >= len(it.Activities) {
		return it, domain.Activity{}, false
	}
	return it, it.Activities[m.row], true
}

func (m *boardModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("GEO MINGLE") + "\n\n")

	if m.form != nil {
		b.WriteString(m.form.View())
		b.WriteString("\n" + formatter.Dim("esc to cancel"))
		return b.String()
	}

	first, last := m.visibleColumns()
	cols := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		cols = append(cols, m.renderColumn(i))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render(m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(formatter.Dim(m.status) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// visibleColumns returns the column range that fits the window, keeping
// the focused column in view.
func (m *boardModel) visibleColumns() (int, int) {
	n := len(m.snap.Itineraries)
	fit := n
	if m.width > 0 {
		fit = max(m.width/(columnWidth+2+columnGap), 1)
	}
	if fit >= n {
		return 0, n
	}
	first := min(max(m.col-fit/2, 0), n-fit)
	return first, first + fit
}

func (m *boardModel) renderColumn(i int) string {
	it := m.snap.Itineraries[i]
	focused := i == m.col

	var b strings.Builder
	title := formatter.Truncate(it.Title, columnWidth)
	if focused {
		b.WriteString(formatter.StyleHeader.Render(title))
	} else {
		b.WriteString(formatter.Bold(title))
	}
	b.WriteString("\n")
	b.WriteString(formatter.FormatTimeline(domain.TimelineSummary(it.Activities, m.planner.Clock())) + "\n\n")

	if len(it.Activities) == 0 {
		b.WriteString(formatter.Dim("(no activities)"))
	}
	for j, a := range it.Activities {
		cursor := "  "
		if focused && j == m.row {
			cursor = formatter.StyleHeader.Render("▸ ")
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, formatter.StyleBlue.Render(a.Time),
			formatter.Truncate(a.Description, descriptionWidth(a.Time)))
		if a.HasLocation() {
			fmt.Fprintf(&b, "    %s\n", formatter.Dim(formatter.Truncate("@ "+a.Location, columnWidth-4)))
		}
	}

	border := formatter.ColorDim
	if focused {
		border = formatter.ColorHeader
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(columnWidth).
		Padding(0, 1).
		MarginRight(columnGap).
		Render(strings.TrimRight(b.String(), "\n"))
}
