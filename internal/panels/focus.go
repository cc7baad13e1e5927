package panels

// FocusManager tracks the active panel and rotates focus across panels.
type FocusManager struct {
	Current  string   // ID of the active panel
	Order    []string // Container order
	OnChange func(from, to string)
}

// Next advances focus to the next panel in order.
// Returns the new current focus ID.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus to the previous panel in order.
func (f *FocusManager) Prev() string {
	return f.step(-1)
}

func (f *FocusManager) step(delta int) string {
	if len(f.Order) == 0 {
		return ""
	}
	idx := f.index(f.Current)
	next := 0
	switch {
	case idx < 0 && delta < 0:
		next = len(f.Order) - 1
	case idx >= 0:
		next = (idx + delta + len(f.Order)) % len(f.Order)
	}
	f.set(f.Order[next])
	return f.Current
}

// SetFocus sets focus to the given panel ID.
// Returns true if the ID exists in order.
func (f *FocusManager) SetFocus(id string) bool {
	if f.index(id) < 0 {
		return false
	}
	f.set(id)
	return true
}

// Sync replaces the order. If the focused panel disappeared, focus moves to
// the panel that took its position, or the last one.
func (f *FocusManager) Sync(order []string) {
	prev := f.index(f.Current)
	f.Order = append(f.Order[:0:0], order...)
	if f.index(f.Current) >= 0 {
		return
	}
	switch {
	case len(f.Order) == 0:
		f.set("")
	case prev < 0:
		f.set(f.Order[0])
	case prev < len(f.Order):
		f.set(f.Order[prev])
	default:
		f.set(f.Order[len(f.Order)-1])
	}
}

func (f *FocusManager) set(id string) {
	from := f.Current
	f.Current = id
	if f.OnChange != nil && from != id {
		f.OnChange(from, id)
	}
}

func (f *FocusManager) index(id string) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}
