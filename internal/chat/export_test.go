package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/Shreya728/pdfbot/internal/models"
)

func TestExportTranscript(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 4, 5, 0, time.UTC)
	turns := []models.ChatTurn{
		{
			Username:    "alice",
			ChatID:      3,
			Timestamp:   ts,
			UserMessage: "What color is the sky?",
			BotResponse: "The sky is blue.",
			FileSources: []string{"sky.txt"},
		},
		{
			Username:    "alice",
			ChatID:      3,
			Timestamp:   ts.Add(time.Minute),
			UserMessage: "Thanks",
			BotResponse: "You're welcome.",
		},
	}

	out := ExportTranscript("alice", 3, turns, ts.Add(2*time.Minute))

	for _, want := range []string{
		"Chat ID: 3\n",
		"User: alice\n",
		"Export Date: 2025-03-14 15:06:05\n",
		"User: What color is the sky? [03:04 PM]\n",
		"Assistant: The sky is blue. [03:04 PM]\n",
		"Sources: sky.txt\n",
		"Assistant: You're welcome. [03:05 PM]\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("transcript missing %q:\n%s", want, out)
		}
	}

	// the second turn carries no sources, so exactly one Sources line
	if got := strings.Count(out, "Sources: "); got != 1 {
		t.Fatalf("expected 1 sources line, got %d", got)
	}
	if got := strings.Count(out, exportSeparator); got != 4 {
		t.Fatalf("expected 4 separators, got %d", got)
	}
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 4, 5, 0, time.UTC)
	got := ExportFilename(7, ts)
	want := "chat_export_7_20250314_150405.txt"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
