package pricing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDateInPast   = fmt.Errorf("%w: date is in the past", ErrInvalidInput)
	ErrUnknownSlot  = fmt.Errorf("%w: unknown time slot", ErrInvalidInput)
)

// SlotUnavailableError lists selected slots that are not OPEN.
type SlotUnavailableError struct {
	Taken []string
	Past  []string
}

func (e SlotUnavailableError) Error() string {
	var parts []string
	if len(e.Taken) > 0 {
		parts = append(parts, "taken: "+strings.Join(e.Taken, ", "))
	}
	if len(e.Past) > 0 {
		parts = append(parts, "past: "+strings.Join(e.Past, ", "))
	}
	return "slots unavailable (" + strings.Join(parts, "; ") + ")"
}
