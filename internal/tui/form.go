package tui

import (
	"strings"
	"time"

	"vagas-cli/internal/model"
	"vagas-cli/internal/normalize"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *appModel) initForm() {
	m.companyInput = textinput.New()
	m.companyInput.Prompt = ""
	m.companyInput.Placeholder = "Company"
	m.companyInput.CharLimit = 256
	m.companyInput.Width = 40

	m.linkInput = textinput.New()
	m.linkInput.Prompt = ""
	m.linkInput.Placeholder = "https://..."
	m.linkInput.CharLimit = 512
	m.linkInput.Width = 40

	m.dateInput = textinput.New()
	m.dateInput.Prompt = ""
	m.dateInput.Placeholder = "YYYY-MM-DD"
	m.dateInput.CharLimit = 10
	m.dateInput.Width = 12
}

// openForm switches to the add form, prefilling the date with today when
// empty (the original form's default-date behavior). Opening the form is a
// focus move, so a live edit session commits first.
func (m *appModel) openForm() {
	if m.edit != nil {
		_ = m.commitEdit(0)
		if m.edit != nil {
			return // rejected commit keeps the table focused on the session
		}
	}
	if strings.TrimSpace(m.dateInput.Value()) == "" {
		m.dateInput.SetValue(time.Now().Format("2006-01-02"))
	}
	m.mode = modeForm
	m.setFormFocus(formFocusCompany)
}

func (m *appModel) focusFormCmd() tea.Cmd {
	if m.mode != modeForm {
		return nil
	}
	return textinput.Blink
}

func (m *appModel) setFormFocus(f formFocus) {
	m.formFocus = f
	m.companyInput.Blur()
	m.linkInput.Blur()
	m.dateInput.Blur()
	switch f {
	case formFocusCompany:
		m.companyInput.Focus()
	case formFocusLink:
		m.linkInput.Focus()
	case formFocusDate:
		m.dateInput.Focus()
	}
}

func (m *appModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = modeTable
		return nil
	case "tab", "down":
		m.setFormFocus((m.formFocus + 1) % 3)
		return textinput.Blink
	case "shift+tab", "up":
		m.setFormFocus((m.formFocus + 2) % 3)
		return textinput.Blink
	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	switch m.formFocus {
	case formFocusCompany:
		m.companyInput, cmd = m.companyInput.Update(msg)
	case formFocusLink:
		m.linkInput, cmd = m.linkInput.Update(msg)
	case formFocusDate:
		m.dateInput, cmd = m.dateInput.Update(msg)
	}
	return cmd
}

// submitForm validates the three fields and upserts. Validation failures
// toast and move focus to the offending field; the form stays open. On
// success the form resets (date refilled with today) and the table returns
// with an "added"/"updated" toast.
func (m *appModel) submitForm() tea.Cmd {
	company := normalize.Sanitize(m.companyInput.Value())
	link := normalize.Sanitize(m.linkInput.Value())
	date := normalize.CanonicalDate(m.dateInput.Value())

	if company == "" {
		m.setFormFocus(formFocusCompany)
		return m.flashError("company name cannot be empty")
	}
	if !normalize.ValidLink(link) {
		m.setFormFocus(formFocusLink)
		return m.flashError("invalid link")
	}
	if date == "" {
		m.setFormFocus(formFocusDate)
		return m.flashError("invalid date")
	}

	rec := model.Listing{Company: company, Link: link, Date: date, Completed: false}
	replaced, err := m.store.Upsert(m.db, rec)
	if err != nil {
		return m.flashError("could not save: " + err.Error())
	}

	m.companyInput.SetValue("")
	m.linkInput.SetValue("")
	m.dateInput.SetValue(time.Now().Format("2006-01-02"))

	m.mode = modeTable
	m.reproject()
	if idx, ok := m.targetIndex(link, targetCompany); ok {
		m.focusIdx = idx
	}

	if replaced {
		return m.flashOK("listing updated")
	}
	return m.flashOK("listing added")
}

func (m appModel) viewForm() string {
	label := styleMuted()
	focused := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	row := func(name string, f formFocus, input textinput.Model) string {
		st := label
		if m.formFocus == f {
			st = focused
		}
		return st.Render(name) + "  " + input.View()
	}

	return strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render("Add listing"),
		"",
		row("Company", formFocusCompany, m.companyInput),
		row("Link   ", formFocusLink, m.linkInput),
		row("Date   ", formFocusDate, m.dateInput),
	}, "\n")
}
