package pricing

import (
	"fmt"
	"time"
)

type Mode string

const (
	ModeStandard Mode = "standard"
	ModeCoach    Mode = "coach"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeStandard:
		return ModeStandard, nil
	case ModeCoach:
		return ModeCoach, nil
	default:
		return "", fmt.Errorf("%w: unknown pricing mode %q", ErrInvalidInput, s)
	}
}

type RateKind string

const (
	RateStandard RateKind = "standard"
	RatePromo    RateKind = "promo"
	RateCoach    RateKind = "coach"
	RateBundle   RateKind = "bundle"
)

// Line is the price attributed to one selected slot.
type Line struct {
	Label     string   `json:"label"`
	Hour      int      `json:"hour"`
	UnitPrice int64    `json:"unit_price"`
	Rate      RateKind `json:"rate"`
}

type Quote struct {
	Policy       string `json:"policy"`
	Mode         Mode   `json:"mode"`
	Total        int64  `json:"total"`
	PromoApplied bool   `json:"promo_applied"`
	Lines        []Line `json:"lines"`
}

// Policy prices a selection. Implementations hold no mutable state.
type Policy interface {
	Name() string
	Quote(mode Mode, date time.Time, slots []Slot) Quote
	// UnitPrice is the single-slot price shown on the board and whether the
	// slot could earn a promotional rate.
	UnitPrice(mode Mode, date time.Time, slot Slot) (int64, bool)
}

// PerSlotPromoPolicy discounts each slot on a promo weekday whose start hour
// falls in [StartHour, EndHour), provided at least MinSlots slots are selected.
// Coach mode charges CoachRate for every slot.
type PerSlotPromoPolicy struct {
	StandardRate int64
	CoachRate    int64
	PromoRate    int64
	MinSlots     int
	PromoDays    map[time.Weekday]bool
	StartHour    int
	EndHour      int
}

func (p PerSlotPromoPolicy) Name() string { return KindPerSlotPromo }

func (p PerSlotPromoPolicy) eligible(date time.Time, slot Slot) bool {
	return p.PromoDays[date.Weekday()] && slot.Hour >= p.StartHour && slot.Hour < p.EndHour
}

func (p PerSlotPromoPolicy) Quote(mode Mode, date time.Time, slots []Slot) Quote {
	q := Quote{Policy: p.Name(), Mode: mode, Lines: make([]Line, 0, len(slots))}
	promoLength := len(slots) >= p.MinSlots

	for _, slot := range slots {
		line := Line{Label: slot.Label, Hour: slot.Hour, UnitPrice: p.StandardRate, Rate: RateStandard}
		switch {
		case mode == ModeCoach:
			line.UnitPrice, line.Rate = p.CoachRate, RateCoach
		case promoLength && p.eligible(date, slot):
			line.UnitPrice, line.Rate = p.PromoRate, RatePromo
			if p.PromoRate < p.StandardRate {
				q.PromoApplied = true
			}
		}
		q.Total += line.UnitPrice
		q.Lines = append(q.Lines, line)
	}
	return q
}

func (p PerSlotPromoPolicy) UnitPrice(mode Mode, date time.Time, slot Slot) (int64, bool) {
	if mode == ModeCoach {
		return p.CoachRate, false
	}
	return p.StandardRate, p.eligible(date, slot) && p.PromoRate < p.StandardRate
}

// BundlePolicy charges BundlePrice when exactly BundleCount slots are
// selected in standard mode. Any other count is priced per slot.
type BundlePolicy struct {
	StandardRate int64
	CoachRate    int64
	BundleCount  int
	BundlePrice  int64
}

func (p BundlePolicy) Name() string { return KindBundle }

func (p BundlePolicy) Quote(mode Mode, date time.Time, slots []Slot) Quote {
	q := Quote{Policy: p.Name(), Mode: mode, Lines: make([]Line, 0, len(slots))}

	if mode != ModeCoach && len(slots) > 0 && len(slots) == p.BundleCount {
		// Spread the flat price so the lines still add up to the total.
		n := int64(len(slots))
		share, rem := p.BundlePrice/n, p.BundlePrice%n
		for i, slot := range slots {
			unit := share
			if int64(i) < rem {
				unit++
			}
			q.Lines = append(q.Lines, Line{Label: slot.Label, Hour: slot.Hour, UnitPrice: unit, Rate: RateBundle})
		}
		q.Total = p.BundlePrice
		q.PromoApplied = p.BundlePrice < n*p.StandardRate
		return q
	}

	rate, kind := p.StandardRate, RateStandard
	if mode == ModeCoach {
		rate, kind = p.CoachRate, RateCoach
	}
	for _, slot := range slots {
		q.Lines = append(q.Lines, Line{Label: slot.Label, Hour: slot.Hour, UnitPrice: rate, Rate: kind})
		q.Total += rate
	}
	return q
}

func (p BundlePolicy) UnitPrice(mode Mode, _ time.Time, _ Slot) (int64, bool) {
	if mode == ModeCoach {
		return p.CoachRate, false
	}
	return p.StandardRate, false
}
