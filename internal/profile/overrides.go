package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
)

// Override is one declarative match/patch rule. Match is exact equality on
// the named fields; Update is a shallow merge into the record. A special
// "urls[n]" update key addresses one slot of the urls array.
type Override struct {
	Match  map[string]any `json:"match"`
	Update map[string]any `json:"update"`
}

// Overrides holds the ordered rule lists for both record types.
type Overrides struct {
	Idols  []Override `json:"idols"`
	Groups []Override `json:"groups"`
}

// LoadOverrides reads the override table from a JSON file.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("read overrides %s: %w", path, err)
	}
	var ov Overrides
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ov); err != nil {
		return Overrides{}, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	return ov, nil
}

var urlsSlotRe = regexp.MustCompile(`^urls\[(\d+)\]$`)

// applyOverrides merges the first matching rule into record, going through
// a JSON field map so rules address records by their serialized field
// names. At most one rule applies. An update naming an unknown field is a
// hard error: it signals a stale override table.
func applyOverrides(record any, rules []Override) error {
	fields, err := toFieldMap(record)
	if err != nil {
		return err
	}
	for _, rule := range rules {
		if !ruleMatches(fields, rule.Match) {
			continue
		}
		if err := mergeUpdate(fields, rule.Update); err != nil {
			return err
		}
		break
	}
	return fromFieldMap(fields, record)
}

func ruleMatches(fields map[string]any, match map[string]any) bool {
	for key, want := range match {
		got, ok := fields[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func mergeUpdate(fields map[string]any, update map[string]any) error {
	for key, value := range update {
		if m := urlsSlotRe.FindStringSubmatch(key); m != nil {
			if err := setURLSlot(fields, m[1], value); err != nil {
				return err
			}
			continue
		}
		fields[key] = value
	}
	return nil
}

func setURLSlot(fields map[string]any, index string, value any) error {
	n, err := strconv.Atoi(index)
	if err != nil {
		return fmt.Errorf("override urls slot %q: %w", index, err)
	}
	urls, _ := fields["urls"].([]any)
	switch {
	case n < len(urls):
		urls[n] = value
	case n == len(urls):
		urls = append(urls, value)
	default:
		return fmt.Errorf("override urls[%d] out of range (len %d)", n, len(urls))
	}
	fields["urls"] = urls
	return nil
}

func toFieldMap(record any) (map[string]any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal record fields: %w", err)
	}
	return fields, nil
}

func fromFieldMap(fields map[string]any, record any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal record fields: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(record); err != nil {
		return fmt.Errorf("apply override: %w", err)
	}
	return nil
}
