package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testSourceBase = "https://selca.kastden.org"

func TestValidateFieldSet(t *testing.T) {
	require.NoError(t, validateFieldSet(&Idol{},
		idolRequiredFields, idolOptionalFields, idolReferenceFields))
	require.NoError(t, validateFieldSet(&Group{},
		groupRequiredFields, groupOptionalFields, groupReferenceFields))

	type extraField struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Nickname string `json:"nickname"`
	}
	err := validateFieldSet(&extraField{}, []string{"name"}, nil, nil)
	require.ErrorIs(t, err, ErrSchema)
	require.Contains(t, err.Error(), "nickname")

	type missingField struct {
		ID string `json:"id"`
	}
	err = validateFieldSet(&missingField{}, []string{"name"}, nil, nil)
	require.ErrorIs(t, err, ErrSchema)
	require.Contains(t, err.Error(), "name")
}

func TestValidateURLs(t *testing.T) {
	v := NewValidator(testSourceBase)
	idol := newTestIdol(t, "Boram", "전보람", "1986-03-22",
		testSourceBase+"/noona/idol/boram/")
	idol.Groups = []string{}
	require.NoError(t, v.ValidateIdol(idol))

	// Optional third reference URL.
	idol.URLs = append(idol.URLs, "https://namu.wiki/w/boram")
	require.NoError(t, v.ValidateIdol(idol))

	bad := *idol
	bad.URLs = []string{idol.URLs[0]}
	require.ErrorIs(t, v.ValidateIdol(&bad), ErrSchema)

	bad = *idol
	bad.URLs = []string{"https://example.org/other", idol.URLs[1]}
	require.ErrorIs(t, v.ValidateIdol(&bad), ErrSchema)

	bad = *idol
	bad.URLs = []string{idol.URLs[0], "https://evil.example/noona/idol/boram/"}
	require.ErrorIs(t, v.ValidateIdol(&bad), ErrSchema)

	bad = *idol
	bad.URLs = []string{idol.URLs[0], idol.URLs[1], "https://random.example/x"}
	require.ErrorIs(t, v.ValidateIdol(&bad), ErrSchema)
}

func TestValidateGroupURLs(t *testing.T) {
	v := NewValidator(testSourceBase)
	group := newTestGroup(t, "T-ara", "티아라",
		testSourceBase+"/noona/group/tara/", strptr("2009-07-29"))
	group.Members = []GroupMember{}
	require.NoError(t, v.ValidateGroup(group))

	// Idol-pattern source URL on a group record.
	bad := *group
	bad.URLs = []string{group.URLs[0], testSourceBase + "/noona/idol/tara/"}
	require.ErrorIs(t, v.ValidateGroup(&bad), ErrSchema)
}

func TestValidateUniqueFields(t *testing.T) {
	a := newTestGroup(t, "Apink", "에이핑크", testSourceBase+"/noona/group/apink/", nil)
	b := newTestGroup(t, "Apink", "다른이름", testSourceBase+"/noona/group/apink2/", nil)
	err := ValidateUniqueFields([]any{a, b}, groupUniqueFields)
	require.ErrorIs(t, err, ErrSchema)
	require.Contains(t, err.Error(), a.ID)
	require.Contains(t, err.Error(), b.ID)

	c := newTestGroup(t, "AOA", "에이오에이", testSourceBase+"/noona/group/aoa/", nil)
	require.NoError(t, ValidateUniqueFields([]any{a, c}, groupUniqueFields))

	// Same identity content means same id.
	d := newTestGroup(t, "AOA2", "에이오에이", testSourceBase+"/noona/group/aoa2/", nil)
	require.ErrorIs(t, ValidateUniqueFields([]any{c, d}, groupUniqueFields), ErrSchema)
}

func TestValidateAll(t *testing.T) {
	v := NewValidator(testSourceBase)
	idol := newTestIdol(t, "Boram", "전보람", "1986-03-22",
		testSourceBase+"/noona/idol/boram/")
	idol.Groups = []string{}
	group := newTestGroup(t, "T-ara", "티아라",
		testSourceBase+"/noona/group/tara/", strptr("2009-07-29"))
	group.Members = []GroupMember{}

	p := &Profiles{Idols: []*Idol{idol}, Groups: []*Group{group}}
	require.NoError(t, v.ValidateAll(p))

	dup := newTestGroup(t, "T-ara", "티아라2",
		testSourceBase+"/noona/group/tara2/", nil)
	dup.Members = []GroupMember{}
	p.Groups = append(p.Groups, dup)
	require.ErrorIs(t, v.ValidateAll(p), ErrSchema)
}
