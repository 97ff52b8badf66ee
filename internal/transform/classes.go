package transform

// ClassTable is an insertion-ordered, duplicate-free registry of class labels.
// A label's id is its position, fixed at first occurrence.
//
// The zero value is ready to use.
type ClassTable struct {
	labels []string
	ids    map[string]int
}

// ID returns the id for label, registering it if it has not been seen.
func (t *ClassTable) ID(label string) int {
	if id, ok := t.ids[label]; ok {
		return id
	}
	if t.ids == nil {
		t.ids = make(map[string]int)
	}
	id := len(t.labels)
	t.labels = append(t.labels, label)
	t.ids[label] = id
	return id
}

// Len returns the number of registered labels.
func (t *ClassTable) Len() int { return len(t.labels) }

// Labels returns a copy of the labels in id order.
func (t *ClassTable) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}
