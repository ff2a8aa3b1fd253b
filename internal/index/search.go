package index

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	bquery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/dshills/findex-mcp/internal/query"
	"github.com/dshills/findex-mcp/pkg/types"
)

// Search parses queryStr, runs the composite query, and returns up to
// limit results in descending score order. Results are cached; any
// commit invalidates the cache.
func (ix *Index) Search(ctx context.Context, queryStr string, limit int, minSize, maxSize *int64, extensions []string) ([]types.SearchResult, error) {
	if limit <= 0 {
		return nil, nil
	}

	key := cacheKey(queryStr, limit, minSize, maxSize, extensions)
	if cached := ix.cache.Get(key); cached != nil {
		return cached, nil
	}

	parsed := query.Parse(queryStr)
	terms := query.HighlightTerms(queryStr)

	plan := parsed.Plan(minSize, maxSize, extensions)
	bleveQuery, err := compile(plan)
	if err != nil {
		return nil, &types.SearchError{Query: queryStr, Cause: err}
	}

	req := bleve.NewSearchRequestOptions(bleveQuery, limit, 0, false)
	req.Fields = []string{query.FieldPath, query.FieldTitle}

	res, err := ix.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, &types.SearchError{Query: queryStr, Cause: err}
	}

	results := make([]types.SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		path := hit.ID
		if p, ok := hit.Fields[query.FieldPath].(string); ok && p != "" {
			path = p
		}
		title, _ := hit.Fields[query.FieldTitle].(string)

		// Path and title operators are substring predicates applied on
		// top of the ranked hits.
		if !parsed.MatchesPath(path) || !parsed.MatchesTitle(title) {
			continue
		}

		results = append(results, types.SearchResult{
			FilePath:     path,
			Title:        title,
			Score:        hit.Score,
			MatchedTerms: terms,
		})
	}

	ix.cache.Put(key, results)
	return results, nil
}

// compile lowers a query-plan node into an engine query.
func compile(node query.Node) (bquery.Query, error) {
	switch n := node.(type) {
	case query.MatchAll:
		return bleve.NewMatchAllQuery(), nil

	case query.Term:
		if n.Fuzziness > 0 {
			fq := bleve.NewFuzzyQuery(n.Text)
			fq.SetField(n.Field)
			fq.SetFuzziness(n.Fuzziness)
			if n.Boost != 0 {
				fq.SetBoost(n.Boost)
			}
			return fq, nil
		}
		mq := bleve.NewMatchQuery(n.Text)
		mq.SetField(n.Field)
		if n.Boost != 0 {
			mq.SetBoost(n.Boost)
		}
		return mq, nil

	case query.Phrase:
		pq := bleve.NewMatchPhraseQuery(n.Text)
		pq.SetField(n.Field)
		return pq, nil

	case query.Range:
		var min, max *float64
		if n.Min != nil {
			v := float64(*n.Min)
			min = &v
		}
		if n.Max != nil {
			v := float64(*n.Max)
			max = &v
		}
		minInclusive := true
		maxInclusive := false
		rq := bleve.NewNumericRangeInclusiveQuery(min, max, &minInclusive, &maxInclusive)
		rq.SetField(n.Field)
		return rq, nil

	case query.Regexp:
		rq := bleve.NewRegexpQuery(n.Pattern)
		rq.SetField(n.Field)
		return rq, nil

	case query.Bool:
		return compileBool(n)

	default:
		return nil, fmt.Errorf("unknown query node %T", node)
	}
}

func compileBool(n query.Bool) (bquery.Query, error) {
	must, err := compileAll(n.Must)
	if err != nil {
		return nil, err
	}
	should, err := compileAll(n.Should)
	if err != nil {
		return nil, err
	}
	mustNot, err := compileAll(n.MustNot)
	if err != nil {
		return nil, err
	}

	// Pure conjunctions and disjunctions map to their direct forms.
	if len(mustNot) == 0 {
		if len(should) == 0 && len(must) > 0 {
			return bleve.NewConjunctionQuery(must...), nil
		}
		if len(must) == 0 && len(should) > 0 {
			return bleve.NewDisjunctionQuery(should...), nil
		}
	}

	bq := bleve.NewBooleanQuery()
	if len(must) > 0 {
		bq.AddMust(must...)
	}
	if len(should) > 0 {
		bq.AddShould(should...)
	}
	if len(mustNot) > 0 {
		bq.AddMustNot(mustNot...)
	}
	return bq, nil
}

func compileAll(nodes []query.Node) ([]bquery.Query, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	queries := make([]bquery.Query, 0, len(nodes))
	for _, n := range nodes {
		q, err := compile(n)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, nil
}
