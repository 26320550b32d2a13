package rag

import "testing"

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		query string
		want  Intent
	}{
		{"summarize this document", IntentSummarize},
		{"Give me a brief overview", IntentSummarize},
		{"where is the revenue table", IntentSearch},
		{"what is the capital", IntentExplain},
		{"How does the engine work?", IntentExplain},
		{"compare chapter one and two", IntentCompare},
		{"apples vs oranges", IntentCompare},
		{"tell me about the report", IntentGeneral},
		{"", IntentGeneral},
	}

	for _, tc := range cases {
		if got := ClassifyIntent(tc.query); got != tc.want {
			t.Fatalf("ClassifyIntent(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

func TestClassifyIntentOrderBreaksTies(t *testing.T) {
	// "summary" and "where" both match; summarize is declared first
	if got := ClassifyIntent("where is the summary"); got != IntentSummarize {
		t.Fatalf("tie should resolve to the earlier intent, got %s", got)
	}
}

func TestIntentString(t *testing.T) {
	cases := map[Intent]string{
		IntentGeneral:   "general",
		IntentSummarize: "summarize",
		IntentSearch:    "search",
		IntentExplain:   "explain",
		IntentCompare:   "compare",
	}
	for intent, want := range cases {
		if got := intent.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", intent, got, want)
		}
	}
}
