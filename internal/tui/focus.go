package tui

// focusTargets flattens the current projection into the ordered sequence of
// editable targets: for each rendered row, its three data cells, then the
// completed checkbox, then the delete action. Focus movement works over
// these identifiers, never over raw positions in a retained UI tree.
func (m *appModel) focusTargets() []focusTarget {
	out := make([]focusTarget, 0, len(m.rows)*targetsPerRow)
	for _, r := range m.rows {
		link := r.Listing.Link
		out = append(out,
			focusTarget{link: link, kind: targetCompany},
			focusTarget{link: link, kind: targetLink},
			focusTarget{link: link, kind: targetDate},
			focusTarget{link: link, kind: targetCheckbox},
			focusTarget{link: link, kind: targetDelete},
		)
	}
	return out
}

func (m *appModel) focusedTarget() (focusTarget, bool) {
	targets := m.focusTargets()
	if m.focusIdx < 0 || m.focusIdx >= len(targets) {
		return focusTarget{}, false
	}
	return targets[m.focusIdx], true
}

// moveFocus shifts focus by a relative offset over the target sequence.
// Out-of-range moves are not followed (no wraparound).
func (m *appModel) moveFocus(offset int) {
	next := m.focusIdx + offset
	if next < 0 || next >= len(m.rows)*targetsPerRow {
		return
	}
	m.focusIdx = next
}

func (m *appModel) targetIndex(link string, kind targetKind) (int, bool) {
	for i, t := range m.focusTargets() {
		if t.link == link && t.kind == kind {
			return i, true
		}
	}
	return 0, false
}
