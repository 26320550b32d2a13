package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/Shreya728/pdfbot/internal/models"
)

const exportSeparator = "--------------------------------------------------"

// ExportTranscript renders a chat as plain text: a header with the chat
// id, user and export time, then one block per message with its role,
// content, clock time and (for answers) source files.
func ExportTranscript(username string, chatID int, turns []models.ChatTurn, exportedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Chat ID: %d\n", chatID)
	fmt.Fprintf(&b, "User: %s\n", username)
	fmt.Fprintf(&b, "Export Date: %s\n\n", exportedAt.Format("2006-01-02 15:04:05"))

	for _, t := range turns {
		clock := t.Timestamp.Format("03:04 PM")

		fmt.Fprintf(&b, "User: %s [%s]\n", t.UserMessage, clock)
		b.WriteString(exportSeparator + "\n")

		fmt.Fprintf(&b, "Assistant: %s [%s]\n", t.BotResponse, clock)
		if len(t.FileSources) > 0 {
			fmt.Fprintf(&b, "Sources: %s\n", strings.Join(t.FileSources, ", "))
		}
		b.WriteString(exportSeparator + "\n")
	}

	return b.String()
}

// ExportFilename names the downloaded transcript after the chat and the
// export moment.
func ExportFilename(chatID int, exportedAt time.Time) string {
	return fmt.Sprintf("chat_export_%d_%s.txt", chatID, exportedAt.Format("20060102_150405"))
}
