package query

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedQuery holds the operators and free text extracted from a query
// string.
type ParsedQuery struct {
	// TextQuery is the free-text portion. "*" means match-all.
	TextQuery string
	// Extension filter, lowercase without leading dot ("pdf", "docx").
	Extension string
	// PathFilter is a case-insensitive substring predicate on file_path.
	PathFilter string
	// TitleFilter is a case-insensitive substring predicate on title.
	TitleFilter string
	// Size bounds in bytes. MinSize is inclusive, MaxSize exclusive.
	MinSize *int64
	MaxSize *int64
	// Fuzzy enables fuzzy term expansion for free-text tokens.
	Fuzzy bool
}

// operatorRegex recognizes name:value operators. The value is a sized
// expression, a quoted string, or a bare word.
var operatorRegex = regexp.MustCompile(
	`(?i)(ext|path|title|size):(?:([<>]=?)?(\d+(?:\.\d+)?)(KB|MB|GB|B)?|"([^"]*)"|(\S+))`)

// Parse extracts operators from input and returns the remaining free
// text. Multiple operators of the same kind: last one wins.
func Parse(input string) *ParsedQuery {
	parsed := &ParsedQuery{Fuzzy: true}

	remaining := input
	for _, cap := range operatorRegex.FindAllStringSubmatch(input, -1) {
		full := cap[0]
		operator := strings.ToLower(cap[1])

		// Quoted value wins over bare word.
		value := cap[5]
		if value == "" {
			value = cap[6]
		}

		switch operator {
		case "ext":
			parsed.Extension = strings.ToLower(strings.TrimPrefix(value, "."))
		case "path":
			parsed.PathFilter = strings.ToLower(value)
		case "title":
			parsed.TitleFilter = strings.ToLower(value)
		case "size":
			parsed.applySize(cap[2], cap[3], cap[4], value)
		}
		remaining = strings.Replace(remaining, full, "", 1)
	}

	text := strings.Join(strings.Fields(remaining), " ")
	if text == "" {
		text = "*"
	}
	parsed.TextQuery = text
	return parsed
}

// applySize interprets one size: operator. Bounds are normalized to a
// half-open [min, max) interval: > and < are exclusive of the exact
// value, >= and <= inclusive, and a bare number sets only the lower
// bound.
func (p *ParsedQuery) applySize(op, num, unit, bare string) {
	if num == "" {
		// No sized expression matched; try the bare word as a count.
		if n, err := strconv.ParseInt(bare, 10, 64); err == nil {
			p.MinSize = &n
		}
		return
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return
	}
	bytes := int64(f * float64(unitMultiplier(unit)))

	switch op {
	case ">":
		v := bytes + 1
		p.MinSize = &v
	case ">=":
		p.MinSize = &bytes
	case "<":
		p.MaxSize = &bytes
	case "<=":
		v := bytes + 1
		p.MaxSize = &v
	default:
		p.MinSize = &bytes
	}
}

func unitMultiplier(unit string) int64 {
	switch strings.ToUpper(unit) {
	case "GB":
		return 1 << 30
	case "MB":
		return 1 << 20
	case "KB":
		return 1 << 10
	default:
		return 1
	}
}

// MatchesExtension reports whether path satisfies the extension filter.
func (p *ParsedQuery) MatchesExtension(path string) bool {
	if p.Extension == "" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(path), "."+p.Extension)
}

// MatchesPath reports whether path satisfies the path filter.
func (p *ParsedQuery) MatchesPath(path string) bool {
	if p.PathFilter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(path), p.PathFilter)
}

// MatchesTitle reports whether title satisfies the title filter. A
// missing title never matches an active filter.
func (p *ParsedQuery) MatchesTitle(title string) bool {
	if p.TitleFilter == "" {
		return true
	}
	if title == "" {
		return false
	}
	return strings.Contains(strings.ToLower(title), p.TitleFilter)
}

// HighlightTerms returns the lowercase free-text tokens of input, for
// match highlighting. The wildcard is dropped; an active title filter
// is included.
func HighlightTerms(input string) []string {
	parsed := Parse(input)

	var terms []string
	for _, tok := range strings.Fields(parsed.TextQuery) {
		tok = strings.ToLower(strings.Trim(tok, `"`))
		if tok != "" && tok != "*" {
			terms = append(terms, tok)
		}
	}
	if parsed.TitleFilter != "" {
		terms = append(terms, parsed.TitleFilter)
	}
	return terms
}
