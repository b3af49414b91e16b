package pricing

import "sort"

// Selection is the client's evolving choice of slots for one date.
type Selection struct {
	date   string
	labels map[string]struct{}
}

func NewSelection(date string) *Selection {
	return &Selection{date: date, labels: make(map[string]struct{})}
}

func (s *Selection) Date() string { return s.date }

// SetDate moves the selection to another date and clears it, since slot
// availability is date dependent.
func (s *Selection) SetDate(date string) {
	if date == s.date {
		return
	}
	s.date = date
	s.labels = make(map[string]struct{})
}

func (s *Selection) Has(label string) bool {
	_, ok := s.labels[label]
	return ok
}

func (s *Selection) Len() int { return len(s.labels) }

// Labels returns the selected labels sorted lexically.
func (s *Selection) Labels() []string {
	out := make([]string, 0, len(s.labels))
	for l := range s.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func (s *Selection) add(label string)    { s.labels[label] = struct{}{} }
func (s *Selection) remove(label string) { delete(s.labels, label) }
