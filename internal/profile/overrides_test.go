package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyOverridesFirstMatchWins(t *testing.T) {
	idol := &Idol{Name: "Boram", URLs: []string{"https://example.org/p"}}
	rules := []Override{
		{
			Match:  map[string]any{"name": "Boram"},
			Update: map[string]any{"real_name": "Jeon Boram"},
		},
		{
			Match:  map[string]any{"name": "Boram"},
			Update: map[string]any{"real_name": "WRONG", "height": 170.0},
		},
	}
	require.NoError(t, applyOverrides(idol, rules))
	require.Equal(t, "Jeon Boram", idol.RealName)
	require.Nil(t, idol.Height, "second matching rule must not apply")
}

func TestApplyOverridesNoMatch(t *testing.T) {
	idol := &Idol{Name: "Boram", RealName: "Jeon Boram"}
	rules := []Override{
		{
			Match:  map[string]any{"name": "Someone Else"},
			Update: map[string]any{"real_name": "WRONG"},
		},
		{
			// Matching on a field the serialized record does not have is a
			// non-match, not an error.
			Match:  map[string]any{"nickname": "B"},
			Update: map[string]any{"real_name": "WRONG"},
		},
	}
	require.NoError(t, applyOverrides(idol, rules))
	require.Equal(t, "Jeon Boram", idol.RealName)
}

func TestApplyOverridesMatchTypes(t *testing.T) {
	idol := &Idol{Name: "Boram", Height: f64ptr(152.8)}
	rules := []Override{
		{
			Match:  map[string]any{"height": 152.8, "weight": nil},
			Update: map[string]any{"weight": 40.0},
		},
	}
	require.NoError(t, applyOverrides(idol, rules))
	require.NotNil(t, idol.Weight)
	require.Equal(t, 40.0, *idol.Weight)
}

func TestApplyOverridesURLSlots(t *testing.T) {
	idol := &Idol{Name: "Boram", URLs: []string{"https://example.org/wrong"}}
	rules := []Override{
		{
			Match: map[string]any{"name": "Boram"},
			Update: map[string]any{
				"urls[0]": "https://example.org/fixed",
				"urls[1]": "https://namu.wiki/w/boram",
			},
		},
	}
	require.NoError(t, applyOverrides(idol, rules))
	require.Equal(t, []string{
		"https://example.org/fixed",
		"https://namu.wiki/w/boram",
	}, idol.URLs)
}

func TestApplyOverridesURLSlotOutOfRange(t *testing.T) {
	idol := &Idol{Name: "Boram", URLs: []string{"https://example.org/p"}}
	rules := []Override{
		{
			Match:  map[string]any{"name": "Boram"},
			Update: map[string]any{"urls[3]": "https://namu.wiki/w/boram"},
		},
	}
	require.Error(t, applyOverrides(idol, rules))
}

func TestApplyOverridesUnknownField(t *testing.T) {
	idol := &Idol{Name: "Boram"}
	rules := []Override{
		{
			Match:  map[string]any{"name": "Boram"},
			Update: map[string]any{"nickname": "B"},
		},
	}
	require.Error(t, applyOverrides(idol, rules),
		"updating a field the type does not have signals a stale override table")
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	data := `{
  "idols": [{"match": {"name": "Boram"}, "update": {"height": 152.8}}],
  "groups": []
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	ov, err := LoadOverrides(path)
	require.NoError(t, err)
	require.Len(t, ov.Idols, 1)
	require.Empty(t, ov.Groups)
	require.Equal(t, map[string]any{"name": "Boram"}, ov.Idols[0].Match)

	_, err = LoadOverrides(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
