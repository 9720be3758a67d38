package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"vagas-cli/internal/model"
)

type mode int

const (
	modeTable mode = iota
	modeForm
)

// targetKind enumerates the focusable editing targets of one table row, in
// row order: the three data cells, the completed checkbox, the delete
// action. Focus traversal walks these row-by-row over the current
// projection.
type targetKind int

const (
	targetCompany targetKind = iota
	targetLink
	targetDate
	targetCheckbox
	targetDelete
)

const targetsPerRow = 5

// focusTarget identifies one editable target by record key and kind, not by
// position: positions shift whenever the projection changes, identities
// don't.
type focusTarget struct {
	link string
	kind targetKind
}

func (k targetKind) isCell() bool {
	return k == targetCompany || k == targetLink || k == targetDate
}

func columnFor(k targetKind) (model.Column, bool) {
	switch k {
	case targetCompany:
		return model.ColumnCompany, true
	case targetLink:
		return model.ColumnLink, true
	case targetDate:
		return model.ColumnDate, true
	default:
		return "", false
	}
}

func kindFor(col model.Column) targetKind {
	switch col {
	case model.ColumnCompany:
		return targetCompany
	case model.ColumnLink:
		return targetLink
	default:
		return targetDate
	}
}

// editSession is the single live inline edit. It exists only while a cell is
// in edit mode and is destroyed on commit, cancel, or forced closure.
type editSession struct {
	link  string // record key at open time
	col   model.Column
	input textinput.Model
}

// deleteCountdown is one row's pending deletion. Countdowns are independent:
// several rows may tick at once. seq guards against stale tick messages from
// a cancelled-and-restarted countdown.
type deleteCountdown struct {
	remaining int
	seq       int
}

type deleteTickMsg struct {
	link string
	seq  int
}

type flashDoneMsg struct {
	seq int
}

type formFocus int

const (
	formFocusCompany formFocus = iota
	formFocusLink
	formFocusDate
)
