package catalog

import (
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// ReadINI parses a section-per-preset INI catalog.
//
// Format:
//
//	[preset.1]
//	name = Cold & Dark
//
//	[preset.1.step.1]
//	id             = 10
//	description    = Battery 1 off
//	delay_after    = 0.5
//	expected_state = get('A32NX_OVHD_ELEC_BAT_1_PB_IS_AUTO') == 0
//	action         = set('A32NX_OVHD_ELEC_BAT_1_PB_IS_AUTO', 0)
//
// Step sections follow their preset section; their order in the file is the
// execution order. The number after "step." is only a label and is used as the
// step ID when no id key is given. Inline comments are not recognized since
// expressions may contain ';' and '#', and step sections do not inherit keys
// from their preset section. A section or key that appears twice is an error
// rather than a merge.
func ReadINI(source string, data []byte) (*Catalog, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:        true,
		ChildSectionDelimiter:      "/",
		AllowNonUniqueSections:     true,
		AllowShadows:               true,
		AllowDuplicateShadowValues: true,
	}, data)
	if err != nil {
		return nil, newErrorf(source, 0, 0, "parse ini: %v", err)
	}

	var (
		presets []Preset
		current *iniPreset
		seen    = make(map[string]bool)
	)
	flush := func() {
		if current != nil {
			presets = append(presets, NewPreset(current.id, current.name, current.steps))
		}
	}

	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			if len(sec.Keys()) > 0 {
				return nil, newError(source, 0, 0, "keys outside of a preset section")
			}
			continue
		}

		presetID, label, isStep, err := parseSectionName(sec.Name())
		if err != nil {
			return nil, newErrorf(source, 0, 0, "section [%s]: %v", sec.Name(), err)
		}
		if seen[sec.Name()] {
			return nil, newErrorf(source, presetID, label, "duplicate section [%s]", sec.Name())
		}
		seen[sec.Name()] = true
		for _, key := range sec.Keys() {
			if len(key.ValueWithShadows()) > 1 {
				return nil, newErrorf(source, presetID, label, "duplicate key %q in section [%s]", key.Name(), sec.Name())
			}
		}

		if !isStep {
			flush()
			current = &iniPreset{id: presetID, name: strings.TrimSpace(sec.Key("name").String())}
			continue
		}

		if current == nil || current.id != presetID {
			return nil, newErrorf(source, presetID, 0, "section [%s] is not preceded by [preset.%d]", sec.Name(), presetID)
		}

		step, err := readINIStep(sec, label)
		if err != nil {
			return nil, newErrorf(source, presetID, label, "section [%s]: %v", sec.Name(), err)
		}
		current.steps = append(current.steps, step)
	}
	flush()

	return New(source, presets)
}

type iniPreset struct {
	id    int
	name  string
	steps []ProcedureStep
}

// parseSectionName splits "preset.<id>" and "preset.<id>.step.<n>".
func parseSectionName(name string) (presetID, label int, isStep bool, err error) {
	parts := strings.Split(strings.TrimSpace(name), ".")
	if len(parts) != 2 && len(parts) != 4 {
		return 0, 0, false, errUnknownSection
	}
	if parts[0] != "preset" {
		return 0, 0, false, errUnknownSection
	}
	presetID, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false, errBadPresetID
	}
	if len(parts) == 2 {
		return presetID, 0, false, nil
	}
	if parts[2] != "step" {
		return 0, 0, false, errUnknownSection
	}
	label, err = strconv.Atoi(parts[3])
	if err != nil {
		return 0, 0, false, errBadStepLabel
	}
	return presetID, label, true, nil
}

func readINIStep(sec *ini.Section, label int) (ProcedureStep, error) {
	step := ProcedureStep{
		ID:                label,
		Description:       sec.Key("description").String(),
		ExpectedStateCode: strings.TrimSpace(sec.Key("expected_state").String()),
		ActionCode:        strings.TrimSpace(sec.Key("action").String()),
	}

	if sec.HasKey("id") {
		id, err := sec.Key("id").Int()
		if err != nil {
			return ProcedureStep{}, errBadStepID
		}
		step.ID = id
	}
	if sec.HasKey("conditional") {
		c, err := sec.Key("conditional").Bool()
		if err != nil {
			return ProcedureStep{}, errBadConditional
		}
		step.Conditional = c
	}
	if sec.HasKey("delay_after") {
		d, err := sec.Key("delay_after").Float64()
		if err != nil {
			return ProcedureStep{}, errBadDelay
		}
		step.DelayAfter = seconds(d)
	}

	return step, nil
}
