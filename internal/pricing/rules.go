package pricing

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	KindPerSlotPromo = "per_slot_promo"
	KindBundle       = "bundle"
)

// Rules is the deployment-supplied rule set: slot sequence, rate table and
// promotion shape.
type Rules struct {
	Timezone string      `yaml:"timezone" json:"timezone"`
	Slots    []string    `yaml:"slots" json:"slots"`
	Policy   PolicyRules `yaml:"policy" json:"policy"`
}

type PolicyRules struct {
	Kind         string      `yaml:"kind" json:"kind"`
	StandardRate int64       `yaml:"standard_rate" json:"standard_rate"`
	CoachRate    int64       `yaml:"coach_rate" json:"coach_rate"`
	Promo        PromoRules  `yaml:"promo" json:"promo"`
	Bundle       BundleRules `yaml:"bundle" json:"bundle"`
}

// PromoRules apply to per_slot_promo. The hour range is [StartHour, EndHour).
type PromoRules struct {
	Rate      int64    `yaml:"rate" json:"rate"`
	MinSlots  int      `yaml:"min_slots" json:"min_slots"`
	Weekdays  []string `yaml:"weekdays" json:"weekdays"`
	StartHour int      `yaml:"start_hour" json:"start_hour"`
	EndHour   int      `yaml:"end_hour" json:"end_hour"`
}

type BundleRules struct {
	Count int   `yaml:"count" json:"count"`
	Price int64 `yaml:"price" json:"price"`
}

// DefaultSlots is the 08:00 AM to 11:00 PM day.
var DefaultSlots = []string{
	"08:00 AM", "09:00 AM", "10:00 AM", "11:00 AM",
	"12:00 PM", "01:00 PM", "02:00 PM", "03:00 PM",
	"04:00 PM", "05:00 PM", "06:00 PM", "07:00 PM",
	"08:00 PM", "09:00 PM", "10:00 PM", "11:00 PM",
}

// DefaultRules is the per-slot promo deployment: 300 standard, 250 coach,
// 250 promo for 2+ slots Monday to Thursday between 10:00 and 20:00.
func DefaultRules() Rules {
	return Rules{
		Timezone: "Asia/Manila",
		Slots:    append([]string(nil), DefaultSlots...),
		Policy: PolicyRules{
			Kind:         KindPerSlotPromo,
			StandardRate: 300,
			CoachRate:    250,
			Promo: PromoRules{
				Rate:      250,
				MinSlots:  2,
				Weekdays:  []string{"monday", "tuesday", "wednesday", "thursday"},
				StartHour: 10,
				EndHour:   20,
			},
			Bundle: BundleRules{Count: 3, Price: 1000},
		},
	}
}

// LoadRules reads a YAML rule file.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("error reading pricing file: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("error parsing pricing file: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid pricing rules: %w", err)
	}
	return rules, nil
}

func (r Rules) Validate() error {
	if _, err := r.location(); err != nil {
		return err
	}
	if _, err := NewSlotSequence(r.Slots); err != nil {
		return err
	}

	p := r.Policy
	if p.StandardRate <= 0 {
		return fmt.Errorf("%w: standard_rate must be positive", ErrInvalidInput)
	}
	if p.CoachRate <= 0 {
		return fmt.Errorf("%w: coach_rate must be positive", ErrInvalidInput)
	}

	switch p.Kind {
	case KindPerSlotPromo:
		if p.Promo.Rate <= 0 {
			return fmt.Errorf("%w: promo.rate must be positive", ErrInvalidInput)
		}
		if p.Promo.MinSlots < 1 {
			return fmt.Errorf("%w: promo.min_slots must be at least 1", ErrInvalidInput)
		}
		if _, err := parseWeekdays(p.Promo.Weekdays); err != nil {
			return err
		}
		if p.Promo.StartHour < 0 || p.Promo.EndHour > 24 || p.Promo.StartHour >= p.Promo.EndHour {
			return fmt.Errorf("%w: promo hours must satisfy 0 <= start_hour < end_hour <= 24", ErrInvalidInput)
		}
	case KindBundle:
		if p.Bundle.Count < 1 {
			return fmt.Errorf("%w: bundle.count must be at least 1", ErrInvalidInput)
		}
		if p.Bundle.Price <= 0 {
			return fmt.Errorf("%w: bundle.price must be positive", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unsupported policy kind %q", ErrInvalidInput, p.Kind)
	}
	return nil
}

func (r Rules) location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, r.Timezone)
	}
	return loc, nil
}

// newPolicy builds the policy named by Kind. Rules must already be valid.
func (r Rules) newPolicy() (Policy, error) {
	p := r.Policy
	switch p.Kind {
	case KindPerSlotPromo:
		days, err := parseWeekdays(p.Promo.Weekdays)
		if err != nil {
			return nil, err
		}
		return PerSlotPromoPolicy{
			StandardRate: p.StandardRate,
			CoachRate:    p.CoachRate,
			PromoRate:    p.Promo.Rate,
			MinSlots:     p.Promo.MinSlots,
			PromoDays:    days,
			StartHour:    p.Promo.StartHour,
			EndHour:      p.Promo.EndHour,
		}, nil
	case KindBundle:
		return BundlePolicy{
			StandardRate: p.StandardRate,
			CoachRate:    p.CoachRate,
			BundleCount:  p.Bundle.Count,
			BundlePrice:  p.Bundle.Price,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported policy kind %q", ErrInvalidInput, p.Kind)
	}
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

func parseWeekdays(names []string) (map[time.Weekday]bool, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: promo.weekdays is empty", ErrInvalidInput)
	}
	days := make(map[time.Weekday]bool, len(names))
	for _, name := range names {
		d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, name)
		}
		days[d] = true
	}
	return days, nil
}
