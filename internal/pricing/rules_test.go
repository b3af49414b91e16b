package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotLabel(t *testing.T) {
	tests := []struct {
		label string
		hour  int
		ok    bool
	}{
		{"08:00 AM", 8, true},
		{"11:00 AM", 11, true},
		{"12:00 PM", 12, true},
		{"01:00 PM", 13, true},
		{"11:00 PM", 23, true},
		{"12:00 AM", 0, true},
		{"12:00 NN", 12, true},
		{"12:00 MN", 0, true},
		{"7:00 pm", 19, true},
		{"14:00", 14, true},
		{"00:00", 0, true},
		{"", 0, false},
		{"13:00 PM", 0, false},
		{"00:00 AM", 0, false},
		{"11:00 NN", 0, false},
		{"08:00 XM", 0, false},
		{"8 AM", 0, false},
		{"24:00", 0, false},
		{"08:00 AM extra", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			hour, err := ParseSlotLabel(tt.label)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
		})
	}
}

func TestNewSlotSequence(t *testing.T) {
	// The 17-slot variant names noon and midnight explicitly.
	labels := append(append([]string(nil), DefaultSlots[:4]...), "12:00 NN")
	labels = append(labels, DefaultSlots[5:]...)
	labels = append(labels, "12:00 MN")

	slots, err := NewSlotSequence(labels)
	require.NoError(t, err)
	assert.Len(t, slots, 17)
	assert.Equal(t, Slot{Label: "12:00 NN", Hour: 12}, slots[4])
	assert.Equal(t, Slot{Label: "12:00 MN", Hour: 0}, slots[16])

	_, err = NewSlotSequence([]string{"08:00 AM", "08:00 AM"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSlotSequence([]string{"12:00 PM", "12:00 NN"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSlotSequence(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRulesValidate(t *testing.T) {
	assert.NoError(t, DefaultRules().Validate())
	assert.NoError(t, bundleRules().Validate())

	tests := []struct {
		name   string
		mutate func(*Rules)
	}{
		{"unknown kind", func(r *Rules) { r.Policy.Kind = "surge" }},
		{"zero standard", func(r *Rules) { r.Policy.StandardRate = 0 }},
		{"zero coach", func(r *Rules) { r.Policy.CoachRate = 0 }},
		{"zero promo rate", func(r *Rules) { r.Policy.Promo.Rate = 0 }},
		{"no weekdays", func(r *Rules) { r.Policy.Promo.Weekdays = nil }},
		{"bad weekday", func(r *Rules) { r.Policy.Promo.Weekdays = []string{"funday"} }},
		{"inverted hours", func(r *Rules) { r.Policy.Promo.StartHour, r.Policy.Promo.EndHour = 20, 10 }},
		{"min slots zero", func(r *Rules) { r.Policy.Promo.MinSlots = 0 }},
		{"bad timezone", func(r *Rules) { r.Timezone = "Mars/Olympus" }},
		{"bad slot", func(r *Rules) { r.Slots = []string{"noon"} }},
		{"bundle count", func(r *Rules) { r.Policy.Kind = KindBundle; r.Policy.Bundle.Count = 0 }},
		{"bundle price", func(r *Rules) { r.Policy.Kind = KindBundle; r.Policy.Bundle.Price = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRules()
			tt.mutate(&r)
			assert.ErrorIs(t, r.Validate(), ErrInvalidInput)

			_, err := NewEngine(r)
			assert.Error(t, err)
		})
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricing.yaml")
	content := `
timezone: UTC
slots: ["08:00 AM", "09:00 AM", "10:00 AM", "11:00 AM"]
policy:
  kind: bundle
  standard_rate: 300
  coach_rate: 250
  bundle:
    count: 3
    price: 1000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, KindBundle, rules.Policy.Kind)
	assert.Len(t, rules.Slots, 4)

	e, err := NewEngine(rules)
	require.NoError(t, err)
	assert.Equal(t, KindBundle, e.Policy().Name())

	_, err = LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("policy: [broken"), 0o600))
	_, err = LoadRules(path)
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeStandard, m)

	m, err = ParseMode("coach")
	require.NoError(t, err)
	assert.Equal(t, ModeCoach, m)

	_, err = ParseMode("admin")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
