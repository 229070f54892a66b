package kastden

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kpopnet/crawler/internal/profile"
)

// Label patterns for the key/value profile table. Matching is
// case-insensitive substring/regex, so unrelated labels fall through and
// unexpected page content stays forward-compatible.
var (
	popTypeRe      = regexp.MustCompile(`(?i)^pop\s+type`)
	stageNameRomRe = regexp.MustCompile(`(?i)stage\s+name.*romanized`)
	stageNameOrgRe = regexp.MustCompile(`(?i)stage\s+name.*original`)
	realNameRomRe  = regexp.MustCompile(`(?i)real\s+name.*romanized`)
	realNameOrgRe  = regexp.MustCompile(`(?i)real\s+name.*original`)
	birthDateRe    = regexp.MustCompile(`(?i)birth\s+date`)
	debutDateRe    = regexp.MustCompile(`(?i)debut\s+date`)
	disbandDateRe  = regexp.MustCompile(`(?i)disbandment\s+date`)
	heightRe       = regexp.MustCompile(`(?i)height`)
	weightRe       = regexp.MustCompile(`(?i)weight`)
	formerlyRe     = regexp.MustCompile(`(?i)formerly\s+known\s+as`)
	displayRomRe   = regexp.MustCompile(`(?i)display\s+name.*romanized`)
	displayOrgRe   = regexp.MustCompile(`(?i)display\s+name.*original`)
	companyRe      = regexp.MustCompile(`(?i)company`)

	groupsHeadingRe = regexp.MustCompile(`(?i)^groups`)
	parentHeadingRe = regexp.MustCompile(`(?i)parent\s+group`)

	// Trailing parenthetical with the kanji/hanja rendering of a name.
	trailingParenRe = regexp.MustCompile(`\s*\(.*\)$`)

	heightValRe = regexp.MustCompile(`(\d+(?:\.\d+)?)cm`)
	weightValRe = regexp.MustCompile(`(\d+(?:\.\d+)?)kg`)
)

// idolExtract is everything found on one idol detail page.
type idolExtract struct {
	draft   *profile.IdolDraft
	thumb   string   // absolute thumbnail URL, "" if the page has none
	follows []string // group page URLs to schedule
}

// groupExtract is everything found on one group detail page.
type groupExtract struct {
	group   *profile.Group
	thumb   string
	follows []string // parent page URL for sub-units
}

// extractIdol parses an idol detail page into a provisional record plus its
// unresolved group affiliations.
func extractIdol(doc *goquery.Document, pageURL string) (*idolExtract, error) {
	idol := &profile.Idol{}
	err := eachLabelRow(doc, func(label, value string) error {
		switch {
		case popTypeRe.MatchString(label):
			if value != "K-pop" {
				return fmt.Errorf("%w: unexpected pop type %q", profile.ErrMalformedSource, value)
			}
		case stageNameRomRe.MatchString(label):
			idol.Name = value
		case stageNameOrgRe.MatchString(label):
			idol.NameOriginal = trailingParenRe.ReplaceAllString(value, "")
		case realNameRomRe.MatchString(label):
			idol.RealName = value
		case realNameOrgRe.MatchString(label):
			idol.RealNameOriginal = trailingParenRe.ReplaceAllString(value, "")
		case formerlyRe.MatchString(label):
			alias := profile.FlattenAlias(value)
			idol.NameAlias = &alias
		case birthDateRe.MatchString(label):
			date, err := profile.ParseDate(value, true)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			idol.BirthDate = date
		case debutDateRe.MatchString(label):
			date, err := profile.ParseDate(value, false)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			idol.DebutDate = &date
		case heightRe.MatchString(label):
			h, err := parseUnitFloat(heightValRe, label, value)
			if err != nil {
				return err
			}
			idol.Height = &h
		case weightRe.MatchString(label):
			w, err := parseUnitFloat(weightValRe, label, value)
			if err != nil {
				return err
			}
			idol.Weight = &w
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	idol.URLs = []string{pageURL}

	ext := &idolExtract{draft: &profile.IdolDraft{Idol: idol}}
	if err := extractAffiliations(doc, pageURL, ext); err != nil {
		return nil, err
	}
	ext.thumb, err = extractThumb(doc, pageURL)
	if err != nil {
		return nil, err
	}
	return ext, nil
}

// extractGroup parses a group detail page. For sub-units the parent-group
// table supplies the parent page URL and, when the page itself omits it,
// the agency name.
func extractGroup(doc *goquery.Document, pageURL string) (*groupExtract, error) {
	group := &profile.Group{}
	err := eachLabelRow(doc, func(label, value string) error {
		switch {
		case displayRomRe.MatchString(label):
			group.Name = value
		case displayOrgRe.MatchString(label):
			group.NameOriginal = value
		case companyRe.MatchString(label):
			group.AgencyName = value
		case formerlyRe.MatchString(label):
			alias := profile.FlattenAlias(value)
			group.NameAlias = &alias
		case debutDateRe.MatchString(label):
			date, err := profile.ParseDate(value, false)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			group.DebutDate = &date
		case disbandDateRe.MatchString(label):
			date, err := profile.ParseDate(value, false)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			group.DisbandDate = &date
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	group.URLs = []string{pageURL}

	ext := &groupExtract{group: group}
	if err := extractParent(doc, pageURL, ext); err != nil {
		return nil, err
	}
	ext.thumb, err = extractThumb(doc, pageURL)
	if err != nil {
		return nil, err
	}
	return ext, nil
}

// eachLabelRow walks the rows of the profile key/value table. Rows with an
// empty label or value cell are skipped.
func eachLabelRow(doc *goquery.Document, fn func(label, value string) error) error {
	table := doc.Find("h1 ~ div table").First()
	if table.Length() == 0 {
		return fmt.Errorf("%w: profile table not found", profile.ErrMalformedSource)
	}
	var err error
	table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		label := strings.TrimSpace(tr.Find("td:nth-child(1)").First().Text())
		value := strings.TrimSpace(tr.Find("td:nth-child(2)").Text())
		if label == "" || value == "" {
			return true
		}
		err = fn(label, value)
		return err == nil
	})
	return err
}

// extractAffiliations reads the table under the "Groups" heading. Each row
// yields a membership ref keyed by the group's page URL and schedules that
// page for fetching. current defaults to true unless the disbanded/former
// cell is non-empty, and an explicit Yes/No cell wins when present.
func extractAffiliations(doc *goquery.Document, pageURL string, ext *idolExtract) error {
	table := tableAfterHeading(doc, groupsHeadingRe)
	if table == nil {
		return nil
	}
	var err error
	table.Find("tbody tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		tds := tr.Find("td")
		if tds.Length() < 5 {
			err = fmt.Errorf("%w: group affiliation row has %d cells",
				profile.ErrMalformedSource, tds.Length())
			return false
		}
		href, ok := tds.Eq(1).Find("a").First().Attr("href")
		if !ok {
			err = fmt.Errorf("%w: group affiliation row without a link",
				profile.ErrMalformedSource)
			return false
		}
		groupURL, aerr := absoluteURL(pageURL, href)
		if aerr != nil {
			err = aerr
			return false
		}

		current := strings.TrimSpace(tds.Eq(4).Text()) == ""
		if tds.Length() > 5 {
			current = strings.TrimSpace(tds.Eq(5).Text()) == "Yes"
		}
		var roles *string
		if tds.Length() > 6 {
			if text := strings.TrimSpace(tds.Eq(6).Text()); text != "" {
				lowered := strings.ToLower(text)
				roles = &lowered
			}
		}

		ext.draft.MemberOf = append(ext.draft.MemberOf, profile.MembershipRef{
			GroupURL: groupURL,
			Current:  current,
			Roles:    roles,
		})
		ext.follows = append(ext.follows, groupURL)
		return true
	})
	return err
}

// extractParent reads the single-row table under the "Parent group" heading
// found on sub-unit pages. Sub-unit pages omit the company row, so the
// agency name is copied from the parent-row cell.
func extractParent(doc *goquery.Document, pageURL string, ext *groupExtract) error {
	table := tableAfterHeading(doc, parentHeadingRe)
	if table == nil {
		return nil
	}
	tr := table.Find("tbody tr").First()
	if tr.Length() == 0 {
		return nil
	}
	tds := tr.Find("td")
	href, ok := tds.Eq(1).Find("a").First().Attr("href")
	if !ok {
		return fmt.Errorf("%w: parent group row without a link", profile.ErrMalformedSource)
	}
	parentURL, err := absoluteURL(pageURL, href)
	if err != nil {
		return err
	}
	ext.group.ParentID = &parentURL
	ext.follows = append(ext.follows, parentURL)
	if ext.group.AgencyName == "" {
		ext.group.AgencyName = strings.TrimSpace(tds.Eq(2).Text())
	}
	return nil
}

// extractThumb returns the absolute thumbnail URL, or "" when the page has
// none. The source only serves .jpg thumbnails.
func extractThumb(doc *goquery.Document, pageURL string) (string, error) {
	src, ok := doc.Find(".thumb img").First().Attr("src")
	if !ok || src == "" {
		return "", nil
	}
	if !strings.HasSuffix(src, ".jpg") {
		return "", fmt.Errorf("%w: unexpected thumbnail URL %q", profile.ErrMalformedSource, src)
	}
	return absoluteURL(pageURL, src)
}

// tableAfterHeading returns the first table following the h2 whose text
// matches pattern, or nil. Anchoring on the heading text survives layout
// reshuffles that positional sibling selection would not.
func tableAfterHeading(doc *goquery.Document, pattern *regexp.Regexp) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !pattern.MatchString(strings.TrimSpace(h.Text())) {
			return true
		}
		if t := h.NextAllFiltered("table").First(); t.Length() > 0 {
			table = t
		}
		return false
	})
	return table
}

func parseUnitFloat(re *regexp.Regexp, label, value string) (float64, error) {
	m := re.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("%w: %s value %q has no unit match",
			profile.ErrMalformedSource, label, value)
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s value %q: %v", profile.ErrMalformedSource, label, value, err)
	}
	return f, nil
}

func absoluteURL(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL %q: %w", base, err)
	}
	h, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("%w: bad link %q", profile.ErrMalformedSource, href)
	}
	return b.ResolveReference(h).String(), nil
}
