package profile

import "fmt"

// CanonicalURLBase is the prefix of the synthesized self-referencing URL
// placed at urls[0] of every record.
const CanonicalURLBase = "https://net.kpop.re/?id="

// CanonicalURL returns the canonical self URL for a record id.
func CanonicalURL(id string) string {
	return CanonicalURLBase + id
}

// Normalize finalizes a freshly extracted idol: the first matching override
// rule is merged in, required fields are asserted present, the id is
// derived, and the canonical self URL is prepended. A required field still
// missing after overrides is a data-quality bug, not a recoverable
// condition.
func (i *Idol) Normalize(rules []Override) error {
	if err := applyOverrides(i, rules); err != nil {
		return err
	}
	if err := requireFields(map[string]bool{
		"name":               i.Name != "",
		"name_original":      i.NameOriginal != "",
		"real_name":          i.RealName != "",
		"real_name_original": i.RealNameOriginal != "",
		"birth_date":         i.BirthDate != "",
		"urls":               len(i.URLs) > 0,
	}); err != nil {
		return fmt.Errorf("idol %q: %w", i.Name, err)
	}
	i.ID = i.GenID()
	i.URLs = append([]string{CanonicalURL(i.ID)}, i.URLs...)
	return nil
}

// Normalize finalizes a freshly extracted group, mirroring Idol.Normalize.
func (g *Group) Normalize(rules []Override) error {
	if err := applyOverrides(g, rules); err != nil {
		return err
	}
	if err := requireFields(map[string]bool{
		"name":          g.Name != "",
		"name_original": g.NameOriginal != "",
		"agency_name":   g.AgencyName != "",
		"urls":          len(g.URLs) > 0,
	}); err != nil {
		return fmt.Errorf("group %q: %w", g.Name, err)
	}
	g.ID = g.GenID()
	g.URLs = append([]string{CanonicalURL(g.ID)}, g.URLs...)
	return nil
}

func requireFields(present map[string]bool) error {
	for field, ok := range present {
		if !ok {
			return fmt.Errorf("%w: required field %q missing", ErrMalformedSource, field)
		}
	}
	return nil
}
