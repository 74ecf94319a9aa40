package domain

import "time"

// Presets de período suportados pelo dashboard
const (
	PresetToday     = "today"
	PresetYesterday = "yesterday"
	PresetLast7d    = "last_7d"
	PresetLast14d   = "last_14d"
	PresetLast30d   = "last_30d"
	PresetLast90d   = "last_90d"
)

// presetDays mapeia cada preset conhecido para a quantidade de dias-calendário que cobre
var presetDays = map[string]int{
	PresetToday:     1,
	PresetYesterday: 1,
	PresetLast7d:    7,
	PresetLast14d:   14,
	PresetLast30d:   30,
	PresetLast90d:   90,
}

// DateRange descreve o período solicitado: um preset nomeado ou limites customizados.
// Since/Until usam datas-calendário no formato 2006-01-02 (inclusive nas duas pontas).
type DateRange struct {
	Preset string `json:"preset,omitempty"`
	Since  string `json:"since,omitempty"`
	Until  string `json:"until,omitempty"`
}

// NewPresetRange cria um DateRange a partir de um preset, resolvendo os limites
// em relação à data de referência informada.
func NewPresetRange(preset string, ref time.Time) DateRange {
	r := DateRange{Preset: preset}

	switch preset {
	case PresetToday:
		r.Since = ref.Format(time.DateOnly)
		r.Until = r.Since
	case PresetYesterday:
		r.Since = ref.AddDate(0, 0, -1).Format(time.DateOnly)
		r.Until = r.Since
	default:
		days, known := presetDays[preset]
		if !known {
			days = 7
		}
		r.Since = ref.AddDate(0, 0, -days+1).Format(time.DateOnly)
		r.Until = ref.Format(time.DateOnly)
	}

	return r
}

// IsCustom informa se o período foi definido por limites explícitos em vez de preset
func (r DateRange) IsCustom() bool {
	return r.Preset == ""
}

// Days retorna a quantidade de dias-calendário do preset, ou zero para períodos customizados
// e presets desconhecidos
func (r DateRange) Days() int {
	return presetDays[r.Preset]
}

// Equal compara dois descritores: mesmo preset nomeado, ou mesmos limites customizados
func (r DateRange) Equal(other DateRange) bool {
	if !r.IsCustom() || !other.IsCustom() {
		return r.Preset == other.Preset
	}
	return r.Since == other.Since && r.Until == other.Until
}

// ContainsDate verifica se uma data-calendário (2006-01-02) pertence ao período.
// Comparação lexicográfica é suficiente para o formato ISO.
func (r DateRange) ContainsDate(date string) bool {
	if r.Since != "" && date < r.Since {
		return false
	}
	if r.Until != "" && date > r.Until {
		return false
	}
	return true
}
