package tui

import (
	"fmt"
	"strings"

	"vagas-cli/internal/model"
	"vagas-cli/internal/normalize"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/lipgloss"
)

// The table is rebuilt in full on every change; there is no incremental
// diffing of rows.

func (m appModel) viewTable() string {
	if len(m.rows) == 0 {
		return styleMuted().Render("No listings yet. Press 'a' to add one.")
	}

	companyW, linkW, dateW, doneW, delW := m.columnWidths()

	var b strings.Builder
	b.WriteString(m.viewHeader(companyW, linkW, dateW, doneW, delW))
	b.WriteString("\n")

	for ri, r := range m.rows {
		base := ri * targetsPerRow
		cells := []string{
			m.viewCell(r.Listing, targetCompany, companyW, m.focusIdx == base),
			m.viewCell(r.Listing, targetLink, linkW, m.focusIdx == base+1),
			m.viewCell(r.Listing, targetDate, dateW, m.focusIdx == base+2),
			m.viewCheckbox(r.Listing, doneW, m.focusIdx == base+3),
			m.viewDelete(r.Listing, delW, m.focusIdx == base+4),
		}
		line := strings.Join(cells, " ")
		rowFocused := m.focusIdx >= base && m.focusIdx < base+targetsPerRow
		if r.Listing.Completed && !rowFocused {
			line = styleMuted().Render(xansi.Strip(line))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m appModel) columnWidths() (companyW, linkW, dateW, doneW, delW int) {
	w := m.width
	if w < 60 {
		w = 80
	}
	dateW = 10
	doneW = 4
	delW = 14 // room for "del in 5s esc"
	rest := w - dateW - doneW - delW - 4
	companyW = rest * 2 / 5
	if companyW < 10 {
		companyW = 10
	}
	linkW = rest - companyW
	if linkW < 12 {
		linkW = 12
	}
	return
}

func (m appModel) viewHeader(companyW, linkW, dateW, doneW, delW int) string {
	ind := func(col model.Column) string {
		if m.sortState.Column != col {
			return ""
		}
		if m.sortState.Desc {
			return " ▾"
		}
		return " ▴"
	}
	h := styleMuted().Bold(true)
	return strings.Join([]string{
		h.Render(padCell("COMPANY"+ind(model.ColumnCompany), companyW)),
		h.Render(padCell("LINK"+ind(model.ColumnLink), linkW)),
		h.Render(padCell("DATE"+ind(model.ColumnDate), dateW)),
		h.Render(padCell("DONE", doneW)),
		h.Render(padCell("DEL", delW)),
	}, " ")
}

// viewCell renders one data cell, swapping in the live edit input when this
// cell owns the open session.
func (m appModel) viewCell(l model.Listing, kind targetKind, w int, focused bool) string {
	col, _ := columnFor(kind)

	if m.edit != nil && m.edit.link == l.Link && m.edit.col == col {
		return renderInlineInput(w, m.edit.input.View())
	}

	var text string
	switch col {
	case model.ColumnCompany:
		text = l.Company
	case model.ColumnLink:
		text = l.Link
	case model.ColumnDate:
		text = normalize.DisplayDate(l.Date)
	}
	return renderTarget(padCell(text, w), focused)
}

func (m appModel) viewCheckbox(l model.Listing, w int, focused bool) string {
	box := "[ ]"
	if l.Completed {
		box = "[x]"
	}
	return renderTarget(padCell(box, w), focused)
}

func (m appModel) viewDelete(l model.Listing, w int, focused bool) string {
	if cd, ok := m.countdowns[l.Link]; ok {
		text := fmt.Sprintf("del in %ds esc", cd.remaining)
		st := lipgloss.NewStyle().Foreground(colorDangerFg)
		if focused {
			st = st.Bold(true)
		}
		return st.Render(padCell(text, w))
	}
	return renderTarget(padCell("✕", w), focused)
}

func renderTarget(s string, focused bool) string {
	if focused {
		return styleSelected().Render(s)
	}
	return s
}

// renderInlineInput keeps the edit input to a single visual line inside its
// cell. Newlines or ANSI/cursor overflow would otherwise wrap the row while
// typing.
func renderInlineInput(w int, inputView string) string {
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		w,
		lipgloss.Left,
		inputView,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > w {
		// Never exceed the cell width; terminate ANSI styling to prevent bleed.
		line = xansi.Cut(line, 0, w) + "\x1b[0m"
	}
	return line
}

func padCell(s string, w int) string {
	if xansi.StringWidth(s) > w {
		s = xansi.Cut(s, 0, w-1) + "…"
	}
	for xansi.StringWidth(s) < w {
		s += " "
	}
	return s
}
