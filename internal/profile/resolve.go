package profile

import (
	"fmt"
	"sort"
)

// Resolve runs the post-crawl resolution pass over the complete provisional
// collections. It fixes the output order, turns URL-keyed membership refs
// into ID-keyed bidirectional edges, rewrites sub-unit parent references,
// and propagates member current flags from parent groups to their
// sub-units. Records are mutated in place; the returned Profiles holds them
// in their final order.
func Resolve(drafts []*IdolDraft, groups []*Group) (*Profiles, error) {
	sort.Slice(drafts, func(a, b int) bool {
		return idolLess(drafts[b].Idol, drafts[a].Idol)
	})
	sort.Slice(groups, func(a, b int) bool {
		return groupLess(groups[b], groups[a])
	})

	// Groups are looked up by source page URL, not by name: names are not
	// guaranteed unique across renames.
	byURL := make(map[string]*Group, len(groups))
	byID := make(map[string]*Group, len(groups))
	for _, g := range groups {
		byURL[sourceURL(g.URLs)] = g
		byID[g.ID] = g
		g.Members = []GroupMember{}
	}

	idols := make([]*Idol, 0, len(drafts))
	for _, draft := range drafts {
		idol := draft.Idol
		idol.Groups = []string{}
		for _, ref := range draft.MemberOf {
			g, ok := byURL[ref.GroupURL]
			if !ok {
				return nil, fmt.Errorf("%w: idol %q references unknown group page %s",
					ErrDanglingReference, idol.Name, ref.GroupURL)
			}
			idol.Groups = append(idol.Groups, g.ID)
			g.Members = append(g.Members, GroupMember{
				Current: ref.Current,
				IdolID:  idol.ID,
				Roles:   ref.Roles,
			})
		}
		// Mirror the global group ordering, not page discovery order.
		sort.Slice(idol.Groups, func(a, b int) bool {
			return groupLess(byID[idol.Groups[b]], byID[idol.Groups[a]])
		})
		idols = append(idols, idol)
	}

	if err := propagateParents(groups, byURL); err != nil {
		return nil, err
	}
	return &Profiles{Groups: groups, Idols: idols}, nil
}

// propagateParents rewrites each sub-unit's parent_id from a page URL to
// the parent's final id and overwrites member current flags with the
// parent's. Sub-unit pages do not reliably report current status.
func propagateParents(groups []*Group, byURL map[string]*Group) error {
	for _, g := range groups {
		if g.ParentID == nil {
			continue
		}
		parent, ok := byURL[*g.ParentID]
		if !ok {
			return fmt.Errorf("%w: sub-unit %q references unknown parent page %s",
				ErrDanglingReference, g.Name, *g.ParentID)
		}
		parentID := parent.ID
		g.ParentID = &parentID
		for i, member := range g.Members {
			current, ok := parentCurrent(parent, member.IdolID)
			if !ok {
				return fmt.Errorf("%w: sub-unit %q member %s not found in parent %q",
					ErrDanglingReference, g.Name, member.IdolID, parent.Name)
			}
			g.Members[i].Current = current
		}
	}
	return nil
}

// parentCurrent finds the idol in the parent's members. Linear search is
// fine at this corpus size.
func parentCurrent(parent *Group, idolID string) (bool, bool) {
	for _, m := range parent.Members {
		if m.IdolID == idolID {
			return m.Current, true
		}
	}
	return false, false
}

func sourceURL(urls []string) string {
	if len(urls) < 2 {
		return ""
	}
	return urls[1]
}

// idolLess orders idols ascending by (birth_date, real_name).
func idolLess(a, b *Idol) bool {
	if a.BirthDate != b.BirthDate {
		return a.BirthDate < b.BirthDate
	}
	return a.RealName < b.RealName
}

// groupLess orders groups ascending by (debut_date, name) with a missing
// debut date sorting below every real one.
func groupLess(a, b *Group) bool {
	ad, bd := groupDebut(a), groupDebut(b)
	if ad != bd {
		return ad < bd
	}
	return a.Name < b.Name
}

func groupDebut(g *Group) string {
	if g.DebutDate == nil {
		return "0"
	}
	return *g.DebutDate
}
