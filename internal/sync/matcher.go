package sync

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mreyes/legisync/internal/model"
	"github.com/mreyes/legisync/internal/openleg"
)

// Matcher resolves upstream member references to local person rows through
// a cascade of heuristics, first hit wins:
//
//  1. last name + district
//  2. exact full-name equality
//  3. first-name and last-name field equality
//  4. normalized-name equality (punctuation, suffixes and middle initials
//     dropped)
//  5. last-name match, narrowed by first initial when ambiguous
//
// All comparisons are accent- and case-insensitive. Upstream member ids come
// from a different source system and are never trusted; name plus district
// is the most reliable disambiguator because districts are stable and
// low-cardinality per chamber.
//
// The Matcher never creates person rows: an unmatched member means no
// sponsor or vote row is written, not an error.
//
// The people table is loaded once, on first use, and reused for every match
// in the run that owns this Matcher.
type Matcher struct {
	dir    PersonDirectory
	people []model.Person
	loaded bool
}

// NewMatcher creates a Matcher over the given person directory.
func NewMatcher(dir PersonDirectory) *Matcher {
	return &Matcher{dir: dir}
}

// Match resolves member to a person id. The boolean reports whether a match
// was found; the error is non-nil only when the people table cannot be
// loaded.
func (m *Matcher) Match(ctx context.Context, member openleg.Member) (int, bool, error) {
	if err := m.load(ctx); err != nil {
		return 0, false, err
	}

	strategies := []func(openleg.Member) (int, bool){
		m.byDistrictLastName,
		m.byFullName,
		m.byNameFields,
		m.byNormalizedName,
		m.byLastName,
	}

	for _, strategy := range strategies {
		if id, ok := strategy(member); ok {
			return id, true, nil
		}
	}

	return 0, false, nil
}

func (m *Matcher) load(ctx context.Context) error {
	if m.loaded {
		return nil
	}

	people, err := m.dir.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load people for matching: %w", err)
	}

	m.people = people
	m.loaded = true
	return nil
}

// byDistrictLastName requires an exact last-name match within the member's
// district, converted to the internal SD-###/HD-### format.
func (m *Matcher) byDistrictLastName(member openleg.Member) (int, bool) {
	district := formatDistrict(member.DistrictCode, member.Chamber)
	last := fold(member.LastName)
	if district == "" || last == "" {
		return 0, false
	}

	for _, p := range m.people {
		if strings.EqualFold(p.District, district) && fold(p.LastName) == last {
			return p.PeopleID, true
		}
	}
	return 0, false
}

// byFullName compares the member's full name against the stored display
// name.
func (m *Matcher) byFullName(member openleg.Member) (int, bool) {
	full := fold(member.FullName)
	if full == "" {
		return 0, false
	}

	for _, p := range m.people {
		if fold(p.Name) == full {
			return p.PeopleID, true
		}
	}
	return 0, false
}

// byNameFields compares the first and last name fields, not the display
// string.
func (m *Matcher) byNameFields(member openleg.Member) (int, bool) {
	first := fold(member.FirstName)
	last := fold(member.LastName)
	if first == "" || last == "" {
		return 0, false
	}

	for _, p := range m.people {
		if fold(p.FirstName) == first && fold(p.LastName) == last {
			return p.PeopleID, true
		}
	}
	return 0, false
}

// byNormalizedName compares names after dropping punctuation, generational
// suffixes and single-letter middle initials.
func (m *Matcher) byNormalizedName(member openleg.Member) (int, bool) {
	full := normalizeName(member.FullName)
	if full == "" {
		return 0, false
	}

	for _, p := range m.people {
		if normalizeName(p.Name) == full {
			return p.PeopleID, true
		}
	}
	return 0, false
}

// byLastName accepts a unique last-name match; with several candidates it
// narrows by the first letter of the first name and accepts only if exactly
// one survives.
func (m *Matcher) byLastName(member openleg.Member) (int, bool) {
	last := fold(member.LastName)
	if last == "" {
		return 0, false
	}

	var candidates []model.Person
	for _, p := range m.people {
		if fold(p.LastName) == last {
			candidates = append(candidates, p)
		}
	}

	if len(candidates) == 1 {
		return candidates[0].PeopleID, true
	}
	if len(candidates) < 2 {
		return 0, false
	}

	initial := firstInitial(member)
	if initial == "" {
		return 0, false
	}

	var narrowed []model.Person
	for _, p := range candidates {
		if strings.HasPrefix(fold(p.FirstName), initial) {
			narrowed = append(narrowed, p)
		}
	}

	if len(narrowed) == 1 {
		return narrowed[0].PeopleID, true
	}
	return 0, false
}

// firstInitial returns the folded first letter of the member's first name,
// falling back to the first field of the full name.
func firstInitial(member openleg.Member) string {
	name := member.FirstName
	if name == "" {
		fields := strings.Fields(member.FullName)
		if len(fields) > 0 {
			name = fields[0]
		}
	}

	name = fold(name)
	if name == "" {
		return ""
	}
	return name[:1]
}

// formatDistrict converts an upstream (districtCode, chamber) pair to the
// internal district format: SD-008 for Senate, HD-075 for Assembly.
func formatDistrict(code int, chamber string) string {
	if code <= 0 {
		return ""
	}

	switch strings.ToUpper(chamber) {
	case "SENATE":
		return fmt.Sprintf("SD-%03d", code)
	case "ASSEMBLY":
		return fmt.Sprintf("HD-%03d", code)
	}
	return ""
}

// foldTransformer strips combining marks so accented and unaccented
// spellings compare equal.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases, trims and removes diacritics.
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// generational suffixes dropped by normalizeName.
var nameSuffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
}

var namePunct = strings.NewReplacer(".", "", ",", "")

// normalizeName folds a name, strips periods and commas, drops a trailing
// generational suffix, and removes single-letter middle initials.
func normalizeName(s string) string {
	fields := strings.Fields(namePunct.Replace(fold(s)))

	if len(fields) > 1 && nameSuffixes[fields[len(fields)-1]] {
		fields = fields[:len(fields)-1]
	}

	kept := fields[:0]
	for i, f := range fields {
		if len(f) == 1 && i > 0 && i < len(fields)-1 {
			continue
		}
		kept = append(kept, f)
	}

	return strings.Join(kept, " ")
}
