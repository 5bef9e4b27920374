package catalog

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ReadCSV parses a flat CSV catalog with one row per step.
//
// CSV format:
//
//	preset,preset_name,id,description,conditional,delay_after,expected_state,action
//	1,Cold & Dark,10,Battery 1 off,false,0.5,get('BAT1') == 0,"set('BAT1', 0)"
//
// Rows are in execution order and the rows of one preset must be contiguous.
// Optional columns (preset_name, description, conditional, delay_after, action)
// may be omitted from the header.
func ReadCSV(source string, r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, newErrorf(source, 0, 0, "failed to read header: %v", err)
	}

	colIndex := buildColumnIndex(header)
	if err := validateColumns(colIndex); err != nil {
		return nil, newError(source, 0, 0, err.Error())
	}

	var (
		presets []Preset
		current *iniPreset
		done    = make(map[int]bool)
	)
	flush := func() {
		if current != nil {
			presets = append(presets, NewPreset(current.id, current.name, current.steps))
			done[current.id] = true
		}
	}

	lineNum := 1
	for {
		lineNum++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newErrorf(source, 0, 0, "line %d: %v", lineNum, err)
		}

		presetID, err := strconv.Atoi(getField(record, colIndex, "preset"))
		if err != nil {
			return nil, newErrorf(source, 0, 0, "line %d: preset is not an integer", lineNum)
		}

		if current == nil || current.id != presetID {
			if done[presetID] {
				return nil, newErrorf(source, presetID, 0, "line %d: rows of preset %d are not contiguous", lineNum, presetID)
			}
			flush()
			current = &iniPreset{id: presetID}
		}
		if name := getField(record, colIndex, "preset_name"); name != "" {
			current.name = name
		}

		step, err := csvStep(record, colIndex)
		if err != nil {
			return nil, newErrorf(source, presetID, 0, "line %d: %v", lineNum, err)
		}
		current.steps = append(current.steps, step)
	}
	flush()

	return New(source, presets)
}

var requiredColumns = []string{"preset", "id", "expected_state"}

func buildColumnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.ToLower(col))] = i
	}
	return index
}

func validateColumns(colIndex map[string]int) error {
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return errors.New("missing required column: " + col)
		}
	}
	return nil
}

func getField(record []string, colIndex map[string]int, column string) string {
	idx, ok := colIndex[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func csvStep(record []string, colIndex map[string]int) (ProcedureStep, error) {
	id, err := strconv.Atoi(getField(record, colIndex, "id"))
	if err != nil {
		return ProcedureStep{}, errBadStepID
	}

	step := ProcedureStep{
		ID:                id,
		Description:       getField(record, colIndex, "description"),
		ExpectedStateCode: getField(record, colIndex, "expected_state"),
		ActionCode:        getField(record, colIndex, "action"),
	}

	if v := getField(record, colIndex, "conditional"); v != "" {
		c, err := strconv.ParseBool(v)
		if err != nil {
			return ProcedureStep{}, errBadConditional
		}
		step.Conditional = c
	}
	if v := getField(record, colIndex, "delay_after"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ProcedureStep{}, errBadDelay
		}
		step.DelayAfter = seconds(d)
	}

	return step, nil
}
