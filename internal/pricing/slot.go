package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// Slot is one hour-long bookable interval of a day.
type Slot struct {
	Label string `json:"label"`
	Hour  int    `json:"hour"`
}

// ParseSlotLabel returns the local start hour for a slot label.
//
// Accepted forms are "08:00 AM", "01:00 PM", "12:00 NN" (noon), "12:00 MN"
// (midnight) and 24-hour "14:00".
func ParseSlotLabel(label string) (int, error) {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) == 0 || len(fields) > 2 {
		return 0, fmt.Errorf("%w: malformed slot label %q", ErrInvalidInput, label)
	}

	clock := strings.SplitN(fields[0], ":", 2)
	if len(clock) != 2 || len(clock[1]) != 2 {
		return 0, fmt.Errorf("%w: malformed slot label %q", ErrInvalidInput, label)
	}
	hour, err := strconv.Atoi(clock[0])
	if err != nil {
		return 0, fmt.Errorf("%w: malformed slot label %q", ErrInvalidInput, label)
	}
	if _, err := strconv.Atoi(clock[1]); err != nil {
		return 0, fmt.Errorf("%w: malformed slot label %q", ErrInvalidInput, label)
	}

	if len(fields) == 1 {
		if hour < 0 || hour > 23 {
			return 0, fmt.Errorf("%w: hour out of range in %q", ErrInvalidInput, label)
		}
		return hour, nil
	}

	if hour < 1 || hour > 12 {
		return 0, fmt.Errorf("%w: hour out of range in %q", ErrInvalidInput, label)
	}

	switch strings.ToUpper(fields[1]) {
	case "AM":
		if hour == 12 {
			return 0, nil
		}
		return hour, nil
	case "PM":
		if hour == 12 {
			return 12, nil
		}
		return hour + 12, nil
	case "NN":
		if hour != 12 {
			return 0, fmt.Errorf("%w: NN is only valid for 12:00 in %q", ErrInvalidInput, label)
		}
		return 12, nil
	case "MN":
		if hour != 12 {
			return 0, fmt.Errorf("%w: MN is only valid for 12:00 in %q", ErrInvalidInput, label)
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: unknown meridiem in %q", ErrInvalidInput, label)
	}
}

// NewSlotSequence parses labels into an ordered slot sequence. Labels and
// start hours must be unique.
func NewSlotSequence(labels []string) ([]Slot, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: slot sequence is empty", ErrInvalidInput)
	}

	slots := make([]Slot, 0, len(labels))
	seenLabel := make(map[string]struct{}, len(labels))
	seenHour := make(map[int]string, len(labels))
	for _, label := range labels {
		hour, err := ParseSlotLabel(label)
		if err != nil {
			return nil, err
		}
		if _, dup := seenLabel[label]; dup {
			return nil, fmt.Errorf("%w: duplicate slot label %q", ErrInvalidInput, label)
		}
		if other, dup := seenHour[hour]; dup {
			return nil, fmt.Errorf("%w: slots %q and %q start at the same hour", ErrInvalidInput, other, label)
		}
		seenLabel[label] = struct{}{}
		seenHour[hour] = label
		slots = append(slots, Slot{Label: label, Hour: hour})
	}
	return slots, nil
}
