package rag

import (
	"fmt"
	"strings"

	"github.com/Shreya728/pdfbot/internal/llm"
)

const (
	// maxHistoryMessages bounds how much conversation memory reaches
	// the model.
	maxHistoryMessages = 6
	// maxHistoryChars truncates each remembered message.
	maxHistoryChars = 200
)

type promptTemplate struct {
	lead  string
	label string
}

func templateFor(intent Intent) promptTemplate {
	switch intent {
	case IntentSummarize:
		return promptTemplate{"Summarize the following:", "Summary:"}
	case IntentSearch:
		return promptTemplate{"Find information in:", "Result:"}
	case IntentExplain:
		return promptTemplate{"Explain based on:", "Explanation:"}
	case IntentCompare:
		return promptTemplate{"Compare using:", "Comparison:"}
	default:
		return promptTemplate{"Answer using:", "Response:"}
	}
}

// BuildPrompt assembles the completion prompt for one query: the
// intent's template around the retrieved context, the trailing window
// of conversation history and the deduplicated source list.
func BuildPrompt(intent Intent, context, query string, history []llm.Message, sources []string) string {
	tpl := templateFor(intent)

	var historyContext string
	if len(history) > 0 {
		if len(history) > maxHistoryMessages {
			history = history[len(history)-maxHistoryMessages:]
		}
		var lines []string
		for _, m := range history {
			lines = append(lines, fmt.Sprintf("%s: %s...", capitalize(m.Role), truncate(m.Content, maxHistoryChars)))
		}
		historyContext = "\n\nPrevious context:\n" + strings.Join(lines, "\n")
	}

	var sourcesContext string
	if deduped := dedupeSources(sources); len(deduped) > 0 {
		sourcesContext = "\n\nSources: " + strings.Join(deduped, ", ")
	}

	return fmt.Sprintf("%s\n%s\nUser: %s%s%s\n%s",
		tpl.lead, context, query, historyContext, sourcesContext, tpl.label)
}

func dedupeSources(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	var out []string
	for _, s := range sources {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
