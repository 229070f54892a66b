package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func f64ptr(f float64) *float64 { return &f }

// newTestIdol returns a normalized idol as it would leave the extractor.
func newTestIdol(t *testing.T, name, realNameOriginal, birthDate, sourceURL string) *Idol {
	t.Helper()
	idol := &Idol{
		Name:             name,
		NameOriginal:     name + "-orig",
		RealName:         name + " Real",
		RealNameOriginal: realNameOriginal,
		BirthDate:        birthDate,
		URLs:             []string{sourceURL},
	}
	require.NoError(t, idol.Normalize(nil))
	return idol
}

// newTestGroup returns a normalized group as it would leave the extractor.
func newTestGroup(t *testing.T, name, nameOriginal, sourceURL string, debutDate *string) *Group {
	t.Helper()
	group := &Group{
		Name:         name,
		NameOriginal: nameOriginal,
		AgencyName:   "Test Entertainment",
		DebutDate:    debutDate,
		URLs:         []string{sourceURL},
	}
	require.NoError(t, group.Normalize(nil))
	return group
}
