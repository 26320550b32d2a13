package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Shreya728/pdfbot/internal/audit"
	"github.com/Shreya728/pdfbot/internal/auth"
	"github.com/Shreya728/pdfbot/internal/chat"
	"github.com/Shreya728/pdfbot/internal/llm"
	"github.com/Shreya728/pdfbot/internal/models"
	"github.com/Shreya728/pdfbot/internal/rag"
	"github.com/Shreya728/pdfbot/internal/session"
)

type ChatHandler struct {
	engine   *rag.Engine
	index    *rag.Index
	chats    *chat.Service
	sessions *session.Store
	audit    *audit.Service
}

func NewChatHandler(engine *rag.Engine, index *rag.Index, chats *chat.Service, sessions *session.Store, auditSvc *audit.Service) *ChatHandler {
	return &ChatHandler{
		engine:   engine,
		index:    index,
		chats:    chats,
		sessions: sessions,
		audit:    auditSvc,
	}
}

type messageRequest struct {
	Message string `json:"message"`
}

// Message answers one user query. Without files or a loaded chat the
// response is the fixed instructional message and nothing is persisted;
// otherwise the exchange is appended to the chat history in the same
// request.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())
	ctx := r.Context()

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message required"})
		return
	}

	sess, err := h.sessions.Get(ctx, username)
	if err != nil {
		slog.Error("session load failed", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
		return
	}

	var history []llm.Message
	if sess.ChatID != 0 {
		turns, err := h.chats.History(ctx, username, sess.ChatID)
		if err != nil {
			slog.Error("history load failed", "username", username, "chat_id", sess.ChatID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
			return
		}
		history = historyMessages(turns)
	}

	resp := h.engine.Answer(ctx, rag.AnswerRequest{
		Owner:         username,
		Query:         req.Message,
		History:       history,
		FilesActive:   sess.FilesActive(),
		LoadedChat:    sess.LoadedChat,
		ActiveSources: sess.CurrentFiles,
	})

	if resp.Answer == rag.NoContextMessage {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"answer":  resp.Answer,
			"intent":  resp.Intent,
			"chat_id": sess.ChatID,
		})
		return
	}

	chatID := sess.ChatID
	if chatID == 0 {
		chatID, err = h.chats.NextChatID(ctx, username)
		if err != nil {
			slog.Error("chat id allocation failed", "username", username, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not start chat"})
			return
		}
		sess.ChatID = chatID
	}

	turn := models.ChatTurn{
		Username:    username,
		ChatID:      chatID,
		Timestamp:   time.Now(),
		UserMessage: req.Message,
		BotResponse: resp.Answer,
		FileSources: resp.Sources,
	}
	if err := h.chats.SaveTurn(ctx, turn); err != nil {
		slog.Error("save turn failed", "username", username, "chat_id", chatID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save message"})
		return
	}

	sess.MarkConversing()
	if err := h.sessions.Save(ctx, username, sess); err != nil {
		slog.Warn("session save failed", "username", username, "error", err)
	}

	if !strings.HasPrefix(resp.Answer, "Error: ") {
		h.logActivity(r, username, models.ActivityQuery, fmt.Sprintf("chat %d", chatID))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"answer":  resp.Answer,
		"sources": resp.Sources,
		"intent":  resp.Intent,
		"chat_id": chatID,
	})
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())

	ids, err := h.chats.ListChats(r.Context(), username)
	if err != nil {
		slog.Error("list chats failed", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not list chats"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chats": ids, "count": len(ids)})
}

// New starts an empty chat: fresh id, cleared index, no context.
func (h *ChatHandler) New(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())
	ctx := r.Context()

	id, err := h.chats.NextChatID(ctx, username)
	if err != nil {
		slog.Error("chat id allocation failed", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not start chat"})
		return
	}

	if err := h.index.Clear(ctx, username); err != nil {
		slog.Error("index clear failed", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not reset index"})
		return
	}

	sess := session.New()
	sess.Reset(id)
	if err := h.sessions.Save(ctx, username, sess); err != nil {
		slog.Error("session save failed", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
		return
	}

	h.logActivity(r, username, models.ActivityNewChat, fmt.Sprintf("chat %d", id))
	writeJSON(w, http.StatusOK, map[string]interface{}{"chat_id": id})
}

// Load resumes a stored chat. Its recorded sources become the session
// context, so chatting works without re-uploading the files.
func (h *ChatHandler) Load(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())
	ctx := r.Context()

	id, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	turns, err := h.chats.History(ctx, username, id)
	if err != nil {
		slog.Error("history load failed", "username", username, "chat_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	if len(turns) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chat not found"})
		return
	}

	sess, err := h.sessions.Get(ctx, username)
	if err != nil {
		slog.Error("session load failed", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
		return
	}
	sess.LoadChat(id, unionSources(turns))
	if err := h.sessions.Save(ctx, username, sess); err != nil {
		slog.Error("session save failed", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
		return
	}

	h.logActivity(r, username, models.ActivityLoadChat, fmt.Sprintf("chat %d", id))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chat_id": id,
		"turns":   turns,
		"sources": sess.CurrentFiles,
	})
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())
	ctx := r.Context()

	id, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	if err := h.chats.Delete(ctx, username, id); err != nil {
		slog.Error("delete chat failed", "username", username, "chat_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not delete chat"})
		return
	}

	// Deleting the chat the session points at leaves it without context.
	sess, err := h.sessions.Get(ctx, username)
	if err == nil && sess.ChatID == id {
		sess.Reset(0)
		if err := h.sessions.Save(ctx, username, sess); err != nil {
			slog.Warn("session save failed", "username", username, "error", err)
		}
	}

	h.logActivity(r, username, models.ActivityDeleteChat, fmt.Sprintf("chat %d", id))
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

// Export downloads one chat as a plain-text transcript.
func (h *ChatHandler) Export(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())
	ctx := r.Context()

	id, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	turns, err := h.chats.History(ctx, username, id)
	if err != nil {
		slog.Error("history load failed", "username", username, "chat_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	if len(turns) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chat not found"})
		return
	}

	now := time.Now()
	transcript := chat.ExportTranscript(username, id, turns, now)

	h.logActivity(r, username, models.ActivityExportChat, fmt.Sprintf("chat %d", id))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", chat.ExportFilename(id, now)))
	w.Write([]byte(transcript))
}

func (h *ChatHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())
	ctx := r.Context()

	stats, err := h.chats.Analytics(ctx, username)
	if err != nil {
		slog.Error("analytics failed", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "analytics unavailable"})
		return
	}
	recent, err := h.audit.RecentActivity(ctx, username, 10)
	if err != nil {
		slog.Error("recent activity failed", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "analytics unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_activities": stats.TotalActivities,
		"total_chats":      stats.TotalChats,
		"recent_activity":  recent,
	})
}

func chatIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid chat id"})
		return 0, false
	}
	return id, true
}

// historyMessages flattens stored turns into the alternating
// user/assistant form the prompt builder expects.
func historyMessages(turns []models.ChatTurn) []llm.Message {
	var msgs []llm.Message
	for _, t := range turns {
		msgs = append(msgs,
			llm.Message{Role: "user", Content: t.UserMessage},
			llm.Message{Role: "assistant", Content: t.BotResponse},
		)
	}
	return msgs
}

// unionSources collects the distinct source filenames across a chat's
// turns, oldest first.
func unionSources(turns []models.ChatTurn) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range turns {
		for _, src := range t.FileSources {
			if !seen[src] {
				seen[src] = true
				out = append(out, src)
			}
		}
	}
	return out
}

func (h *ChatHandler) logActivity(r *http.Request, username, activity, details string) {
	if err := h.audit.LogActivity(r.Context(), username, activity, details); err != nil {
		slog.Warn("activity log failed", "username", username, "activity", activity, "error", err)
	}
}
