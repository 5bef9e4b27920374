package catalog

import (
	"math"
	"time"
)

// document is the structured form shared by the YAML, TOML and JSON loaders.
//
//	presets:
//	  - id: 1
//	    name: Cold & Dark
//	    steps:
//	      - id: 10
//	        description: Battery 1 off
//	        delay_after: 0.5
//	        expected_state: get('A32NX_OVHD_ELEC_BAT_1_PB_IS_AUTO') == 0
//	        action: set('A32NX_OVHD_ELEC_BAT_1_PB_IS_AUTO', 0)
type document struct {
	Presets []presetDoc `yaml:"presets" toml:"presets" json:"presets"`
}

type presetDoc struct {
	ID    int       `yaml:"id" toml:"id" json:"id"`
	Name  string    `yaml:"name" toml:"name" json:"name"`
	Steps []stepDoc `yaml:"steps" toml:"steps" json:"steps"`
}

type stepDoc struct {
	// ID defaults to the 1-based position within the preset when omitted.
	ID            *int    `yaml:"id" toml:"id" json:"id"`
	Description   string  `yaml:"description" toml:"description" json:"description"`
	Conditional   bool    `yaml:"conditional" toml:"conditional" json:"conditional"`
	DelayAfter    float64 `yaml:"delay_after" toml:"delay_after" json:"delay_after"`
	ExpectedState string  `yaml:"expected_state" toml:"expected_state" json:"expected_state"`
	Action        string  `yaml:"action" toml:"action" json:"action"`
}

func (d presetDoc) preset() Preset {
	steps := make([]ProcedureStep, len(d.Steps))
	for i, s := range d.Steps {
		id := i + 1
		if s.ID != nil {
			id = *s.ID
		}
		steps[i] = ProcedureStep{
			ID:                id,
			Description:       s.Description,
			Conditional:       s.Conditional,
			DelayAfter:        seconds(s.DelayAfter),
			ExpectedStateCode: s.ExpectedState,
			ActionCode:        s.Action,
		}
	}
	return NewPreset(d.ID, d.Name, steps)
}

func (d document) build(source string) (*Catalog, error) {
	presets := make([]Preset, len(d.Presets))
	for i, p := range d.Presets {
		presets[i] = p.preset()
	}
	return New(source, presets)
}

// seconds converts a catalog delay in (fractional) seconds to a duration.
// Negative values are kept so that validation rejects them.
func seconds(s float64) time.Duration {
	if math.IsNaN(s) {
		return -1
	}
	return time.Duration(math.Round(s * float64(time.Second)))
}
