package tui

import (
	"errors"

	"vagas-cli/internal/model"
	"vagas-cli/internal/normalize"
	"vagas-cli/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// The edit session state machine: Closed -> Open(column, key) -> Closed via
// commit or cancel. At most one session is open system-wide; opening over a
// live session forces that session to attempt a commit with its current
// input first.

// updateEdit routes keys while a session is open. Enter and tab commit and
// move focus forward; shift+tab commits and moves back; esc cancels without
// writing. Everything else feeds the inline input.
func (m *appModel) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "tab":
		return m.commitEdit(1)
	case "shift+tab":
		return m.commitEdit(-1)
	case "esc":
		m.cancelEdit()
		return nil
	}
	var cmd tea.Cmd
	m.edit.input, cmd = m.edit.input.Update(msg)
	return cmd
}

// openEdit opens a session on a data cell. Any live session commits first;
// if that commit is rejected the old session stays open (and keeps focus)
// and the new open is abandoned.
func (m *appModel) openEdit(t focusTarget) tea.Cmd {
	col, ok := columnFor(t.kind)
	if !ok {
		return nil
	}

	if m.edit != nil {
		if m.edit.link == t.link && m.edit.col == col {
			return nil // already editing this cell
		}
		cmd := m.commitEdit(0)
		if m.edit != nil {
			return cmd
		}
	}

	l, ok := m.db.FindListing(t.link)
	if !ok {
		return nil
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 512
	switch col {
	case model.ColumnCompany:
		input.SetValue(l.Company)
	case model.ColumnLink:
		input.SetValue(l.Link)
	case model.ColumnDate:
		input.SetValue(l.Date) // edit the canonical form, not the display form
	}
	input.CursorEnd()
	input.Focus()

	m.edit = &editSession{link: t.link, col: col, input: input}
	if idx, ok := m.targetIndex(t.link, t.kind); ok {
		m.focusIdx = idx
	}
	return textinput.Blink
}

// commitEdit validates the session's input and writes through the store.
//
// move is the requested relative focus offset (+1 next, -1 previous, 0
// none). The offset is applied to the session cell's position in the
// pre-edit target sequence; after the store write and reprojection, the
// target at that position in the new sequence receives focus, and a fresh
// session opens immediately when it is a data cell. Out-of-range positions
// are not followed.
//
// Validation failures keep the session open so the input can be corrected.
func (m *appModel) commitEdit(move int) tea.Cmd {
	es := m.edit
	if es == nil {
		return nil
	}

	seqBefore := m.focusTargets()
	tdIndex := -1
	for i, t := range seqBefore {
		if t.link == es.link && t.kind == kindFor(es.col) {
			tdIndex = i
			break
		}
	}

	raw := es.input.Value()
	if err := m.store.UpdateField(m.db, es.link, es.col, raw); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			return m.flashError(validationMessage(verr.Reason))
		}
		// The record vanished underneath the session (e.g. a concurrent
		// countdown fired). Close without writing and re-render.
		m.edit = nil
		m.reproject()
		return m.flashError(err.Error())
	}

	newKey := es.link
	if es.col == model.ColumnLink {
		newKey = normalize.Sanitize(raw)
	}

	m.edit = nil
	m.reproject()

	if move == 0 || tdIndex < 0 {
		// No movement requested: keep focus on the edited cell.
		if idx, ok := m.targetIndex(newKey, kindFor(es.col)); ok {
			m.focusIdx = idx
		}
		return nil
	}

	seqAfter := m.focusTargets()
	targetIdx := tdIndex + move
	if targetIdx < 0 || targetIdx >= len(seqAfter) {
		return nil
	}
	m.focusIdx = targetIdx
	if t := seqAfter[targetIdx]; t.kind.isCell() {
		return m.openEdit(t)
	}
	return nil
}

// cancelEdit closes the session without writing and re-renders.
func (m *appModel) cancelEdit() {
	m.edit = nil
	m.reproject()
}

func validationMessage(reason string) string {
	switch reason {
	case store.ReasonEmptyCompany:
		return "company name cannot be empty"
	case store.ReasonInvalidLink:
		return "invalid link"
	case store.ReasonDuplicateLink:
		return "a listing with that link already exists"
	case store.ReasonInvalidDate:
		return "invalid date"
	default:
		return reason
	}
}
