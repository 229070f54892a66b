package profile

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// RefURLPattern matches the supplementary external-reference URL allowed at
// urls[2].
var RefURLPattern = regexp.MustCompile(`^https://(namu\.wiki|en\.wikipedia\.org)/`)

// Validator enforces the schema invariants on finalized records. It runs
// only after the resolver pass; provisional records never reach it.
type Validator struct {
	// SourceBase is the origin the crawl ran against, without a trailing
	// slash. urls[1] of every record must live under it.
	SourceBase string
}

// NewValidator returns a Validator bound to the given source origin.
func NewValidator(sourceBase string) *Validator {
	return &Validator{SourceBase: strings.TrimSuffix(sourceBase, "/")}
}

// ValidateAll validates every record of both collections, then the
// per-type uniqueness constraints.
func (v *Validator) ValidateAll(p *Profiles) error {
	records := make([]any, 0, len(p.Idols))
	for _, idol := range p.Idols {
		if err := v.ValidateIdol(idol); err != nil {
			return err
		}
		records = append(records, idol)
	}
	if err := ValidateUniqueFields(records, idolUniqueFields); err != nil {
		return err
	}

	records = records[:0]
	for _, group := range p.Groups {
		if err := v.ValidateGroup(group); err != nil {
			return err
		}
		records = append(records, group)
	}
	return ValidateUniqueFields(records, groupUniqueFields)
}

// ValidateIdol checks one idol's field set and URL shape.
func (v *Validator) ValidateIdol(i *Idol) error {
	if err := validateFieldSet(i, idolRequiredFields, idolOptionalFields, idolReferenceFields); err != nil {
		return fmt.Errorf("idol %q: %w", i.Name, err)
	}
	if err := v.validateURLs(i.URLs, i.ID, "/noona/idol/"); err != nil {
		return fmt.Errorf("idol %q: %w", i.Name, err)
	}
	return nil
}

// ValidateGroup checks one group's field set and URL shape.
func (v *Validator) ValidateGroup(g *Group) error {
	if err := validateFieldSet(g, groupRequiredFields, groupOptionalFields, groupReferenceFields); err != nil {
		return fmt.Errorf("group %q: %w", g.Name, err)
	}
	if err := v.validateURLs(g.URLs, g.ID, "/noona/group/"); err != nil {
		return fmt.Errorf("group %q: %w", g.Name, err)
	}
	return nil
}

// validateFieldSet asserts the record's serialized key set equals exactly
// required + optional + reference + {id}. Any discrepancy reports the
// symmetric difference.
func validateFieldSet(record any, required, optional, reference []string) error {
	allowed := make(map[string]bool, len(required)+len(optional)+len(reference)+1)
	for _, fields := range [][]string{required, optional, reference, {"id"}} {
		for _, f := range fields {
			allowed[f] = true
		}
	}

	current := make(map[string]bool)
	t := reflect.TypeOf(record)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			current[name] = true
		}
	}

	var missing, extra []string
	for f := range allowed {
		if !current[f] {
			missing = append(missing, f)
		}
	}
	for f := range current {
		if !allowed[f] {
			extra = append(extra, f)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(missing)
		sort.Strings(extra)
		return fmt.Errorf("%w: field set mismatch, missing %v, extra %v",
			ErrSchema, missing, extra)
	}
	return nil
}

// validateURLs enforces the 2-3 element urls shape: canonical self URL,
// source page URL under the crawled origin, optional external reference.
func (v *Validator) validateURLs(urls []string, id, sourcePath string) error {
	if len(urls) < 2 || len(urls) > 3 {
		return fmt.Errorf("%w: urls must have 2-3 entries, got %d", ErrSchema, len(urls))
	}
	if urls[0] != CanonicalURL(id) {
		return fmt.Errorf("%w: urls[0] %q is not the canonical URL for id %q",
			ErrSchema, urls[0], id)
	}
	if !strings.HasPrefix(urls[1], v.SourceBase+sourcePath) {
		return fmt.Errorf("%w: urls[1] %q does not match source pattern %q",
			ErrSchema, urls[1], v.SourceBase+sourcePath)
	}
	if len(urls) == 3 && !RefURLPattern.MatchString(urls[2]) {
		return fmt.Errorf("%w: urls[2] %q does not match reference pattern",
			ErrSchema, urls[2])
	}
	return nil
}

// ValidateUniqueFields asserts that no two records share a value for any of
// the given serialized fields. The first collision is fatal and names both
// records.
func ValidateUniqueFields(records []any, fields []string) error {
	seen := make(map[string]any)
	for _, record := range records {
		fieldMap, err := toFieldMap(record)
		if err != nil {
			return err
		}
		for _, field := range fields {
			key := fmt.Sprintf("%s=%v", field, fieldMap[field])
			if prev, ok := seen[key]; ok {
				return fmt.Errorf("%w: duplicate %s between %s and %s",
					ErrSchema, key, describeRecord(prev), describeRecord(record))
			}
			seen[key] = record
		}
	}
	return nil
}

func describeRecord(record any) string {
	switch r := record.(type) {
	case *Idol:
		return fmt.Sprintf("idol %q (%s)", r.Name, r.ID)
	case *Group:
		return fmt.Sprintf("group %q (%s)", r.Name, r.ID)
	default:
		return fmt.Sprintf("%v", record)
	}
}
