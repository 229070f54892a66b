package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdolNormalize(t *testing.T) {
	idol := &Idol{
		Name:             "Boram",
		NameOriginal:     "보람",
		RealName:         "Jeon Boram",
		RealNameOriginal: "전보람",
		BirthDate:        "1986-03-22",
		URLs:             []string{"https://selca.kastden.org/noona/idol/boram/"},
	}
	require.NoError(t, idol.Normalize(nil))
	require.Equal(t, idol.GenID(), idol.ID)
	require.Equal(t, []string{
		CanonicalURL(idol.ID),
		"https://selca.kastden.org/noona/idol/boram/",
	}, idol.URLs)
	require.Nil(t, idol.DebutDate)
	require.Nil(t, idol.Height)
}

func TestIdolNormalizeMissingRequired(t *testing.T) {
	idol := &Idol{
		Name:         "Boram",
		NameOriginal: "보람",
		BirthDate:    "1986-03-22",
		URLs:         []string{"https://selca.kastden.org/noona/idol/boram/"},
	}
	err := idol.Normalize(nil)
	require.ErrorIs(t, err, ErrMalformedSource)
}

func TestIdolNormalizeOverrideSuppliesRequired(t *testing.T) {
	idol := &Idol{
		Name:         "Boram",
		NameOriginal: "보람",
		BirthDate:    "1986-03-22",
		URLs:         []string{"https://selca.kastden.org/noona/idol/boram/"},
	}
	rules := []Override{
		{
			Match: map[string]any{"name": "Boram"},
			Update: map[string]any{
				"real_name":          "Jeon Boram",
				"real_name_original": "전보람",
			},
		},
	}
	require.NoError(t, idol.Normalize(rules))
	require.Equal(t, "Jeon Boram", idol.RealName)
	require.Equal(t, idol.GenID(), idol.ID)
}

func TestGroupNormalize(t *testing.T) {
	group := &Group{
		Name:         "T-ara",
		NameOriginal: "티아라",
		AgencyName:   "MBK Entertainment",
		URLs:         []string{"https://selca.kastden.org/noona/group/tara/"},
	}
	require.NoError(t, group.Normalize(nil))
	require.Equal(t, group.GenID(), group.ID)
	require.Equal(t, CanonicalURL(group.ID), group.URLs[0])

	missing := &Group{Name: "T-ara", NameOriginal: "티아라", URLs: group.URLs}
	require.ErrorIs(t, missing.Normalize(nil), ErrMalformedSource)
}
