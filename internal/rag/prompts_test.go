package rag

import (
	"strings"
	"testing"

	"github.com/Shreya728/pdfbot/internal/llm"
)

func TestBuildPromptEmbedsParts(t *testing.T) {
	history := []llm.Message{
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first answer"},
	}
	sources := []string{"a.pdf", "b.pdf", "a.pdf"}

	prompt := BuildPrompt(IntentSummarize, "some context", "sum it up", history, sources)

	for _, want := range []string{
		"Summarize the following:",
		"some context",
		"User: sum it up",
		"Previous context:",
		"User: first question...",
		"Assistant: first answer...",
		"Sources: a.pdf, b.pdf",
		"Summary:",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}

	// duplicate source must appear once
	if strings.Count(prompt, "a.pdf") != 1 {
		t.Fatalf("sources not deduplicated:\n%s", prompt)
	}
}

func TestBuildPromptHistoryWindow(t *testing.T) {
	var history []llm.Message
	for i := 0; i < 10; i++ {
		history = append(history, llm.Message{Role: "user", Content: strings.Repeat("m", 10) + string(rune('0'+i))})
	}

	prompt := BuildPrompt(IntentGeneral, "ctx", "q", history, nil)

	if strings.Contains(prompt, "mmmmmmmmmm3") {
		t.Fatalf("history older than the last 6 messages leaked into the prompt")
	}
	if !strings.Contains(prompt, "mmmmmmmmmm4") || !strings.Contains(prompt, "mmmmmmmmmm9") {
		t.Fatalf("last 6 messages missing from the prompt:\n%s", prompt)
	}
}

func TestBuildPromptTruncatesHistory(t *testing.T) {
	long := strings.Repeat("x", 500)
	prompt := BuildPrompt(IntentGeneral, "ctx", "q", []llm.Message{{Role: "user", Content: long}}, nil)

	if strings.Contains(prompt, strings.Repeat("x", 201)) {
		t.Fatalf("history message not truncated to 200 chars")
	}
	if !strings.Contains(prompt, strings.Repeat("x", 200)+"...") {
		t.Fatalf("truncated history should keep 200 chars plus ellipsis")
	}
}

func TestBuildPromptTemplatePerIntent(t *testing.T) {
	cases := map[Intent][2]string{
		IntentSummarize: {"Summarize the following:", "Summary:"},
		IntentSearch:    {"Find information in:", "Result:"},
		IntentExplain:   {"Explain based on:", "Explanation:"},
		IntentCompare:   {"Compare using:", "Comparison:"},
		IntentGeneral:   {"Answer using:", "Response:"},
	}
	for intent, parts := range cases {
		prompt := BuildPrompt(intent, "ctx", "q", nil, nil)
		if !strings.HasPrefix(prompt, parts[0]) {
			t.Fatalf("%s prompt should start with %q:\n%s", intent, parts[0], prompt)
		}
		if !strings.HasSuffix(prompt, parts[1]) {
			t.Fatalf("%s prompt should end with %q:\n%s", intent, parts[1], prompt)
		}
	}
}

func TestBuildPromptNoHistoryNoSources(t *testing.T) {
	prompt := BuildPrompt(IntentGeneral, "ctx", "q", nil, nil)
	if strings.Contains(prompt, "Previous context:") {
		t.Fatalf("empty history should not render a history block")
	}
	if strings.Contains(prompt, "Sources:") {
		t.Fatalf("empty sources should not render a sources block")
	}
}
