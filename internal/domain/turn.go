package domain

// TurnSequencer holds the fixed speaking order for a round and a cursor
// into it.
type TurnSequencer struct {
	order  []string
	cursor int
}

// RemovalEffect describes where a removed id sat relative to the cursor
type RemovalEffect int

const (
	RemovedNotFound RemovalEffect = iota
	RemovedBeforeCursor
	RemovedCurrent
	RemovedAfterCursor
)

// NewTurnSequencer creates a sequencer over the given id order
func NewTurnSequencer(order []string) *TurnSequencer {
	return &TurnSequencer{order: order}
}

// Current returns the id whose turn it is, or false if the sequence is
// exhausted.
func (t *TurnSequencer) Current() (string, bool) {
	if t.cursor >= len(t.order) {
		return "", false
	}
	return t.order[t.cursor], true
}

// IsCurrent checks whether the given id holds the turn
func (t *TurnSequencer) IsCurrent(id string) bool {
	current, ok := t.Current()
	return ok && current == id
}

// Advance moves the cursor forward by one
func (t *TurnSequencer) Advance() {
	if t.cursor < len(t.order) {
		t.cursor++
	}
}

// Exhausted reports whether every entry has had its turn
func (t *TurnSequencer) Exhausted() bool {
	return t.cursor >= len(t.order)
}

// Order returns the full speaking order
func (t *TurnSequencer) Order() []string {
	return t.order
}

// Cursor returns the current cursor position
func (t *TurnSequencer) Cursor() int {
	return t.cursor
}

// Remove deletes an id from the order, adjusting the cursor so that
// "whose turn is next" is preserved: a removal before the cursor shifts
// it down by one, a removal of the current holder leaves the cursor in
// place (it now points at the next entry), and the caller decides how to
// treat the current holder's departure.
func (t *TurnSequencer) Remove(id string) RemovalEffect {
	idx := -1
	for i, entry := range t.order {
		if entry == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return RemovedNotFound
	}

	t.order = append(t.order[:idx], t.order[idx+1:]...)

	switch {
	case idx < t.cursor:
		t.cursor--
		return RemovedBeforeCursor
	case idx == t.cursor:
		return RemovedCurrent
	default:
		return RemovedAfterCursor
	}
}
