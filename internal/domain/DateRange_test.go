package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPresetRange(t *testing.T) {
	ref := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		preset    string
		wantSince string
		wantUntil string
	}{
		{PresetToday, "2026-08-31", "2026-08-31"},
		{PresetYesterday, "2026-08-30", "2026-08-30"},
		{PresetLast7d, "2026-08-25", "2026-08-31"},
		{PresetLast30d, "2026-08-02", "2026-08-31"},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			r := NewPresetRange(tt.preset, ref)
			assert.Equal(t, tt.preset, r.Preset)
			assert.Equal(t, tt.wantSince, r.Since)
			assert.Equal(t, tt.wantUntil, r.Until)
		})
	}
}

func TestDateRange_Equal(t *testing.T) {
	// presets comparam pelo nome, não pelos limites resolvidos
	a := NewPresetRange(PresetLast7d, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	b := NewPresetRange(PresetLast7d, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	assert.True(t, a.Equal(b))

	// customizados comparam pelos limites
	c := DateRange{Since: "2026-08-01", Until: "2026-08-15"}
	d := DateRange{Since: "2026-08-01", Until: "2026-08-15"}
	e := DateRange{Since: "2026-08-01", Until: "2026-08-16"}
	assert.True(t, c.Equal(d))
	assert.False(t, c.Equal(e))

	// preset nunca é igual a customizado
	assert.False(t, a.Equal(c))
}

func TestDateRange_ContainsDate(t *testing.T) {
	r := DateRange{Since: "2026-08-01", Until: "2026-08-20"}

	assert.True(t, r.ContainsDate("2026-08-01"))
	assert.True(t, r.ContainsDate("2026-08-20"))
	assert.False(t, r.ContainsDate("2026-07-31"))
	assert.False(t, r.ContainsDate("2026-08-21"))
}

func TestDateRange_Days(t *testing.T) {
	assert.Equal(t, 7, DateRange{Preset: PresetLast7d}.Days())
	assert.Equal(t, 1, DateRange{Preset: PresetYesterday}.Days())
	// customizados e presets desconhecidos não têm contagem de dias
	assert.Equal(t, 0, DateRange{Since: "2026-08-01", Until: "2026-08-15"}.Days())
	assert.Equal(t, 0, DateRange{Preset: "last_decade"}.Days())
}
