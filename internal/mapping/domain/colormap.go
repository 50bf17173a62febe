package domain

// ColorEntry maps one category to a hex fill.
type ColorEntry struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

// ColorMap is ordered for legend display: ratings ascending, then NoStores.
type ColorMap struct {
	Entries []ColorEntry
}

// Lookup returns the color of category.
func (m ColorMap) Lookup(category string) (string, bool) {
	for _, e := range m.Entries {
		if e.Category == category {
			return e.Color, true
		}
	}
	return "", false
}

// Categories lists the categories in legend order.
func (m ColorMap) Categories() []string {
	out := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e.Category)
	}
	return out
}
