// Package query implements the search query language and the query
// plan the index layer executes.
//
// # Grammar
//
// A query mixes free text with inline operators:
//
//	query       := (operator | term)*
//	operator    := ("ext" | "path" | "title" | "size") ":" value
//	value       := sized | quoted | word
//	sized       := ("<=" | ">=" | "<" | ">")? number ("KB" | "MB" | "GB" | "B")?
//
// Operator names are case-insensitive; repeating an operator keeps the
// last occurrence. Whatever remains after operator extraction is the
// free-text portion; when empty it becomes the match-all wildcard "*".
//
// # Parsing
//
//	parsed := query.Parse(`ext:pdf path:reports annual size:<10MB`)
//	// parsed.Extension  == "pdf"
//	// parsed.PathFilter == "reports"
//	// parsed.MaxSize    == 10485760
//	// parsed.TextQuery  == "annual"
//
// Size bounds normalize to a half-open [min, max) interval: size:>1MB
// stores min 1048577, size:<10MB stores max 10485760, and a bare
// size:N sets only the lower bound.
//
// ext: filters on the lowercase path suffix; path: and title: are
// case-insensitive substring predicates applied to ranked hits via
// MatchesPath and MatchesTitle.
//
// # Planning
//
// Plan lowers a parsed query plus caller-supplied filters into a small
// sum type (Term, Phrase, Range, Regexp, MatchAll, Bool) that the
// index layer compiles for its engine:
//
//	node := parsed.Plan(minSize, maxSize, []string{"pdf", "docx"})
//
// Free-text tokens are ANDed, each expanded to an exact-or-fuzzy
// disjunction with a boosted title clause; quoted spans become Phrase
// nodes; extensions become a suffix-regex disjunction on the path
// field, silently dropping anything that is not a bare lowercase
// alphanumeric extension.
//
// # Highlighting
//
// HighlightTerms returns the lowercase free-text tokens for match
// highlighting, dropping the wildcard and appending an active title
// filter:
//
//	query.HighlightTerms("quick Fox ext:pdf") // ["quick", "fox"]
package query
