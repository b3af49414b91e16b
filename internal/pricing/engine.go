package pricing

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type State string

const (
	StateOpen  State = "OPEN"
	StateTaken State = "TAKEN"
	StatePast  State = "PAST"
)

// SlotView is the per-slot state for one court and date.
type SlotView struct {
	Label          string `json:"label"`
	Hour           int    `json:"hour"`
	State          State  `json:"state"`
	UnitPrice      int64  `json:"unit_price"`
	PromoCandidate bool   `json:"promo_candidate"`
}

func (v SlotView) Selectable() bool { return v.State == StateOpen }

// Engine evaluates slot availability and prices selections against a fixed
// slot sequence and policy. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	slots  []Slot
	index  map[string]int
	policy Policy
	loc    *time.Location
	now    func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(rules Rules, opts ...Option) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	slots, err := NewSlotSequence(rules.Slots)
	if err != nil {
		return nil, err
	}
	loc, err := rules.location()
	if err != nil {
		return nil, err
	}
	policy, err := rules.newPolicy()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(slots))
	for i, s := range slots {
		index[s.Label] = i
	}

	e := &Engine{
		slots:  slots,
		index:  index,
		policy: policy,
		loc:    loc,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Slots() []Slot {
	return append([]Slot(nil), e.slots...)
}

func (e *Engine) Policy() Policy { return e.policy }

func (e *Engine) Location() *time.Location { return e.loc }

// Today is midnight of the current civil date in the engine timezone.
func (e *Engine) Today() time.Time {
	now := e.now().In(e.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.loc)
}

// ParseDate parses a YYYY-MM-DD date and rejects dates before today.
func (e *Engine) ParseDate(s string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), e.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed date %q", ErrInvalidInput, s)
	}
	if day.Before(e.Today()) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrDateInPast, s)
	}
	return day, nil
}

func (e *Engine) state(day time.Time, slot Slot, taken map[string]struct{}) State {
	if _, ok := taken[slot.Label]; ok {
		return StateTaken
	}
	if day.Equal(e.Today()) && slot.Hour <= e.now().In(e.loc).Hour() {
		return StatePast
	}
	return StateOpen
}

// Board returns every configured slot with its state and display price.
func (e *Engine) Board(date string, taken []string, mode Mode) ([]SlotView, error) {
	day, err := e.ParseDate(date)
	if err != nil {
		return nil, err
	}

	takenSet := toSet(taken)
	views := make([]SlotView, 0, len(e.slots))
	for _, slot := range e.slots {
		price, candidate := e.policy.UnitPrice(mode, day, slot)
		views = append(views, SlotView{
			Label:          slot.Label,
			Hour:           slot.Hour,
			State:          e.state(day, slot, takenSet),
			UnitPrice:      price,
			PromoCandidate: candidate,
		})
	}
	return views, nil
}

// Quote prices a selection. The order of labels does not matter.
func (e *Engine) Quote(date string, mode Mode, selection []string) (Quote, error) {
	day, err := e.ParseDate(date)
	if err != nil {
		return Quote{}, err
	}
	if mode != ModeStandard && mode != ModeCoach {
		return Quote{}, fmt.Errorf("%w: unknown pricing mode %q", ErrInvalidInput, mode)
	}

	slots, err := e.resolve(selection)
	if err != nil {
		return Quote{}, err
	}
	q := e.policy.Quote(mode, day, slots)
	if mode == ModeCoach {
		q.PromoApplied = false
	}
	return q, nil
}

// CheckSelectable fails with SlotUnavailableError when any selected slot is
// TAKEN or PAST.
func (e *Engine) CheckSelectable(date string, taken, selection []string) error {
	day, err := e.ParseDate(date)
	if err != nil {
		return err
	}
	slots, err := e.resolve(selection)
	if err != nil {
		return err
	}

	takenSet := toSet(taken)
	var unavailable SlotUnavailableError
	for _, slot := range slots {
		switch e.state(day, slot, takenSet) {
		case StateTaken:
			unavailable.Taken = append(unavailable.Taken, slot.Label)
		case StatePast:
			unavailable.Past = append(unavailable.Past, slot.Label)
		}
	}
	if len(unavailable.Taken) > 0 || len(unavailable.Past) > 0 {
		return unavailable
	}
	return nil
}

// Toggle flips label in sel. Adding requires the slot to be OPEN; removing is
// always allowed.
func (e *Engine) Toggle(sel *Selection, taken []string, label string) error {
	if _, ok := e.index[label]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, label)
	}
	if sel.Has(label) {
		sel.remove(label)
		return nil
	}
	if err := e.CheckSelectable(sel.Date(), taken, []string{label}); err != nil {
		return err
	}
	sel.add(label)
	return nil
}

// resolve maps labels to slots in sequence order.
func (e *Engine) resolve(selection []string) ([]Slot, error) {
	idx := make([]int, 0, len(selection))
	seen := make(map[string]struct{}, len(selection))
	for _, label := range selection {
		i, ok := e.index[label]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, label)
		}
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("%w: duplicate slot %q", ErrInvalidInput, label)
		}
		seen[label] = struct{}{}
		idx = append(idx, i)
	}
	sort.Ints(idx)

	slots := make([]Slot, len(idx))
	for n, i := range idx {
		slots[n] = e.slots[i]
	}
	return slots, nil
}

func toSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}
