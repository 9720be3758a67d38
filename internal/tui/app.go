package tui

import (
	"strings"

	"vagas-cli/internal/clipboard"
	"vagas-cli/internal/model"
	"vagas-cli/internal/share"
	"vagas-cli/internal/store"
	"vagas-cli/internal/view"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type appModel struct {
	store store.Store
	db    *store.DB

	width  int
	height int

	mode mode

	sortState model.SortState
	rows      []view.Row // current projection; rebuilt after every mutation

	focusIdx int // index into focusTargets(); clamped on reprojection

	edit       *editSession
	countdowns map[string]*deleteCountdown
	deleteSeq  int

	companyInput textinput.Model
	linkInput    textinput.Model
	dateInput    textinput.Model
	formFocus    formFocus

	flash      string
	flashIsErr bool
	flashSeq   int
}

func newAppModel(s store.Store, db *store.DB) appModel {
	m := appModel{
		store:      s,
		db:         db,
		mode:       modeTable,
		countdowns: map[string]*deleteCountdown{},
	}
	m.initForm()
	m.reproject()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

// reproject rebuilds the display ordering from the store. Any live edit
// session was either committed or cancelled by the caller already; a full
// re-render never carries a session across.
func (m *appModel) reproject() {
	m.rows = view.Project(m.db.All(), m.sortState)
	max := len(m.rows)*targetsPerRow - 1
	if m.focusIdx > max {
		m.focusIdx = max
	}
	if m.focusIdx < 0 {
		m.focusIdx = 0
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case deleteTickMsg:
		cmd := m.handleDeleteTick(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.mode == modeForm {
		cmd := m.updateForm(msg)
		return m, cmd
	}

	if m.edit != nil {
		cmd := m.updateEdit(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		m.moveFocus(-targetsPerRow)
	case "down", "j":
		m.moveFocus(targetsPerRow)
	case "left", "shift+tab":
		m.moveFocus(-1)
	case "right", "tab":
		m.moveFocus(1)

	case "enter", " ":
		cmd := m.activateFocused()
		return m, cmd

	case "x":
		// Start (or focus) the delete countdown for the focused row.
		if t, ok := m.focusedTarget(); ok {
			cmd := m.startCountdown(t.link)
			return m, cmd
		}

	case "esc":
		if t, ok := m.focusedTarget(); ok {
			m.cancelCountdown(t.link)
		}

	case "a":
		m.openForm()
		return m, m.focusFormCmd()

	case "s":
		cmd := m.copyShareURL()
		return m, cmd

	case "1":
		m.toggleSort(model.ColumnCompany)
	case "2":
		m.toggleSort(model.ColumnLink)
	case "3":
		m.toggleSort(model.ColumnDate)
	}
	return m, nil
}

// activateFocused performs the focused target's action: data cells enter
// edit mode, the checkbox toggles completion, the delete action starts (or
// cancels an already-running) countdown.
func (m *appModel) activateFocused() tea.Cmd {
	t, ok := m.focusedTarget()
	if !ok {
		return nil
	}
	switch {
	case t.kind.isCell():
		return m.openEdit(t)
	case t.kind == targetCheckbox:
		return m.toggleCompleted(t.link)
	default:
		if _, active := m.countdowns[t.link]; active {
			m.cancelCountdown(t.link)
			return nil
		}
		return m.startCountdown(t.link)
	}
}

func (m *appModel) toggleCompleted(link string) tea.Cmd {
	l, ok := m.db.FindListing(link)
	if !ok {
		return nil
	}
	next := !l.Completed
	if _, err := m.store.SetCompleted(m.db, link, next); err != nil {
		return m.flashError("could not save: " + err.Error())
	}
	m.reproject()
	// The row may have moved partitions; keep focus on its checkbox.
	if idx, ok := m.targetIndex(link, targetCheckbox); ok {
		m.focusIdx = idx
	}
	return nil
}

func (m *appModel) toggleSort(col model.Column) {
	if m.sortState.Column == col {
		m.sortState.Desc = !m.sortState.Desc
	} else {
		m.sortState.Column = col
		m.sortState.Desc = false
	}
	m.reproject()
}

func (m *appModel) copyShareURL() tea.Cmd {
	if len(m.db.Listings) == 0 {
		return m.flashError("nothing to copy (no listings)")
	}
	u := share.BuildURL(m.db.All())
	if err := clipboard.Copy(u); err != nil {
		return m.flashError("could not copy share link: " + err.Error())
	}
	return m.flashOK("share link copied to clipboard")
}

func (m appModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("vagas — job application tracker")

	var body string
	if m.mode == modeForm {
		body = m.viewForm()
	} else {
		body = m.viewTable()
	}

	help := "enter: edit/toggle  tab/arrows: move  a: add  x: delete  s: share  1/2/3: sort  q: quit"
	if m.mode == modeForm {
		help = "enter: submit  tab: next field  esc: back"
	} else if m.edit != nil {
		help = "enter/tab: commit  shift+tab: commit+back  esc: cancel"
	}
	footer := styleMuted().Render(help)

	parts := []string{header, "", body, "", footer}
	if m.flash != "" {
		parts = append(parts, m.viewFlash())
	}
	return strings.Join(parts, "\n")
}
