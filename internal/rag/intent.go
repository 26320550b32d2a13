package rag

import "strings"

// Intent is the closed set of query intents. Classification is a
// first-match substring scan over an ordered keyword table, so the
// declaration order below is part of the contract: a query matching two
// intents resolves to the earlier one.
type Intent int

const (
	IntentGeneral Intent = iota
	IntentSummarize
	IntentSearch
	IntentExplain
	IntentCompare
)

func (i Intent) String() string {
	switch i {
	case IntentSummarize:
		return "summarize"
	case IntentSearch:
		return "search"
	case IntentExplain:
		return "explain"
	case IntentCompare:
		return "compare"
	default:
		return "general"
	}
}

var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentSummarize, []string{"summarize", "summary", "overview", "brief"}},
	{IntentSearch, []string{"find", "search", "locate", "where"}},
	{IntentExplain, []string{"explain", "what is", "how does", "clarify"}},
	{IntentCompare, []string{"compare", "difference", "contrast", "vs"}},
}

// ClassifyIntent returns the first intent whose keyword appears in the
// query, or IntentGeneral when nothing matches.
func ClassifyIntent(query string) Intent {
	q := strings.ToLower(query)
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(q, kw) {
				return entry.intent
			}
		}
	}
	return IntentGeneral
}
