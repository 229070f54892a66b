// Package profile defines the idol/group record types and the
// normalization, validation, resolution, and emission passes that turn
// provisional crawl output into the canonical dataset.
package profile

// Struct fields are declared in alphabetical json-tag order so that
// encoding/json emits sorted keys.

// Idol is one person profile.
type Idol struct {
	BirthDate        string   `json:"birth_date"`
	DebutDate        *string  `json:"debut_date"`
	Groups           []string `json:"groups"`
	Height           *float64 `json:"height"`
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	NameAlias        *string  `json:"name_alias"`
	NameOriginal     string   `json:"name_original"`
	RealName         string   `json:"real_name"`
	RealNameOriginal string   `json:"real_name_original"`
	ThumbURL         *string  `json:"thumb_url"`
	URLs             []string `json:"urls"`
	Weight           *float64 `json:"weight"`
}

// GroupMember is one membership edge stored on the group side.
type GroupMember struct {
	Current bool    `json:"current"`
	IdolID  string  `json:"idol_id"`
	Roles   *string `json:"roles"`
}

// Group is one act profile, either a main group or a sub-unit.
type Group struct {
	AgencyName   string        `json:"agency_name"`
	DebutDate    *string       `json:"debut_date"`
	DisbandDate  *string       `json:"disband_date"`
	ID           string        `json:"id"`
	Members      []GroupMember `json:"members"`
	Name         string        `json:"name"`
	NameAlias    *string       `json:"name_alias"`
	NameOriginal string        `json:"name_original"`
	ParentID     *string       `json:"parent_id"`
	ThumbURL     *string       `json:"thumb_url"`
	URLs         []string      `json:"urls"`
}

// Profiles is the emitted dataset root.
type Profiles struct {
	Groups []*Group `json:"groups"`
	Idols  []*Idol  `json:"idols"`
}

// MembershipRef is a group affiliation discovered on an idol page. It is
// keyed by the group's page URL because group names are not stable across
// renames. Refs live outside the persisted Idol type and are consumed by
// the resolver.
type MembershipRef struct {
	GroupURL string
	Current  bool
	Roles    *string
}

// IdolDraft pairs a provisional idol record with its unresolved
// affiliations for the duration of the crawl.
type IdolDraft struct {
	Idol     *Idol
	MemberOf []MembershipRef
}

// Declared field sets per record type. Validation checks that a record's
// serialized key set equals exactly required + optional + reference + id.
var (
	idolRequiredFields = []string{
		"name", "name_original", "real_name", "real_name_original",
		"birth_date", "urls",
	}
	idolOptionalFields  = []string{"name_alias", "debut_date", "height", "weight", "thumb_url"}
	idolReferenceFields = []string{"groups"}

	groupRequiredFields = []string{"name", "name_original", "agency_name", "urls"}
	groupOptionalFields = []string{
		"name_alias", "debut_date", "disband_date", "thumb_url", "parent_id",
	}
	groupReferenceFields = []string{"members"}
)

// Uniqueness constraints per record type, id included implicitly.
var (
	idolUniqueFields  = []string{"id"}
	groupUniqueFields = []string{"id", "name", "name_original"}
)
