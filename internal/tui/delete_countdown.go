package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const deleteCountdownSeconds = 5

// startCountdown begins a 5-step per-row deletion countdown. A second press
// while one is already running is ignored; other rows may count down
// concurrently. Any live edit session commits first — starting a countdown
// is "focus moving elsewhere" from the session's point of view.
func (m *appModel) startCountdown(link string) tea.Cmd {
	if _, ok := m.db.FindListing(link); !ok {
		return nil
	}
	if _, active := m.countdowns[link]; active {
		return nil
	}

	var pre tea.Cmd
	if m.edit != nil {
		pre = m.commitEdit(0)
		if m.edit != nil {
			return pre // rejected commit keeps the session; no countdown
		}
	}

	m.deleteSeq++
	m.countdowns[link] = &deleteCountdown{remaining: deleteCountdownSeconds, seq: m.deleteSeq}
	return tea.Batch(pre, tickDelete(link, m.deleteSeq))
}

// cancelCountdown stops a pending deletion without touching the store. It is
// safe against a countdown that already fired: the entry is gone by then and
// this is a no-op.
func (m *appModel) cancelCountdown(link string) {
	delete(m.countdowns, link)
}

// handleDeleteTick decrements the row's countdown and removes the listing at
// zero. Stale ticks — from a cancelled countdown, or one that was cancelled
// and restarted — are identified by the missing entry or a sequence
// mismatch and dropped.
func (m *appModel) handleDeleteTick(msg deleteTickMsg) tea.Cmd {
	cd, ok := m.countdowns[msg.link]
	if !ok || cd.seq != msg.seq {
		return nil
	}

	cd.remaining--
	if cd.remaining > 0 {
		return tickDelete(msg.link, msg.seq)
	}

	// Clear the timer entry before removing so a stray cancel click after
	// the fire has nothing to act on.
	delete(m.countdowns, msg.link)

	removed, err := m.store.Remove(m.db, msg.link)
	if err != nil {
		m.reproject()
		return m.flashError("could not save: " + err.Error())
	}
	m.reproject()
	if removed {
		return m.flashOK("listing removed")
	}
	return nil
}

func tickDelete(link string, seq int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return deleteTickMsg{link: link, seq: seq}
	})
}
