package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Shreya728/pdfbot/internal/audit"
	"github.com/Shreya728/pdfbot/internal/auth"
	"github.com/Shreya728/pdfbot/internal/chat"
	"github.com/Shreya728/pdfbot/internal/document"
	"github.com/Shreya728/pdfbot/internal/models"
	"github.com/Shreya728/pdfbot/internal/rag"
	"github.com/Shreya728/pdfbot/internal/session"
)

type FilesHandler struct {
	extractor    *document.Extractor
	index        *rag.Index
	sessions     *session.Store
	chats        *chat.Service
	audit        *audit.Service
	maxFileBytes int64
}

func NewFilesHandler(extractor *document.Extractor, index *rag.Index, sessions *session.Store, chats *chat.Service, auditSvc *audit.Service, maxFileBytes int64) *FilesHandler {
	return &FilesHandler{
		extractor:    extractor,
		index:        index,
		sessions:     sessions,
		chats:        chats,
		audit:        auditSvc,
		maxFileBytes: maxFileBytes,
	}
}

type fileResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Chunks   int    `json:"chunks,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Upload ingests a multipart batch: the previous index is dropped, each
// file is extracted, chunked and embedded in request scope, and the
// session switches to the new file-set. A file that yields no text or
// exceeds the size cap is skipped, not fatal.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())
	ctx := r.Context()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart request"})
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no files provided"})
		return
	}

	sess, err := h.sessions.Get(ctx, username)
	if err != nil {
		slog.Error("session load failed", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
		return
	}

	// Uploading replaces whatever was indexed before.
	if err := h.index.Clear(ctx, username); err != nil {
		slog.Error("index clear failed", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not reset index"})
		return
	}

	var results []fileResult
	var indexed []string
	totalChunks := 0

	for _, fh := range files {
		res := h.ingestFile(r, username, fh)
		results = append(results, res)
		if res.Status == models.FileStatusSuccess {
			indexed = append(indexed, res.Filename)
			totalChunks += res.Chunks
		}
	}

	if len(indexed) > 0 {
		chatID := sess.ChatID
		if chatID == 0 {
			chatID, err = h.chats.NextChatID(ctx, username)
			if err != nil {
				slog.Error("chat id allocation failed", "username", username, "error", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not start chat"})
				return
			}
		}
		sess.SetFiles(chatID, indexed)
		if err := h.sessions.Save(ctx, username, sess); err != nil {
			slog.Error("session save failed", "username", username, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
			return
		}
		h.logActivity(r, username, models.ActivityFileUpload, strings.Join(indexed, ", "))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"files":    results,
		"indexed":  len(indexed),
		"chunks":   totalChunks,
		"chat_id":  sess.ChatID,
		"can_chat": sess.CanChat(),
	})
}

func (h *FilesHandler) ingestFile(r *http.Request, username string, fh *multipart.FileHeader) fileResult {
	ctx := r.Context()

	if fh.Size > h.maxFileBytes {
		h.logProcessing(r, username, fh.Filename, fh.Size, models.FileStatusFailed)
		return fileResult{
			Filename: fh.Filename,
			Status:   models.FileStatusFailed,
			Error:    fmt.Sprintf("file exceeds %d MB limit", h.maxFileBytes>>20),
		}
	}

	f, err := fh.Open()
	if err != nil {
		h.logProcessing(r, username, fh.Filename, fh.Size, models.FileStatusFailed)
		return fileResult{Filename: fh.Filename, Status: models.FileStatusFailed, Error: "could not read file"}
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		h.logProcessing(r, username, fh.Filename, fh.Size, models.FileStatusFailed)
		return fileResult{Filename: fh.Filename, Status: models.FileStatusFailed, Error: "could not read file"}
	}

	units := h.extractor.Extract(ctx, data, fh.Header.Get("Content-Type"), fh.Filename)
	if len(units) == 0 {
		h.logProcessing(r, username, fh.Filename, fh.Size, models.FileStatusEmpty)
		return fileResult{Filename: fh.Filename, Status: models.FileStatusEmpty, Error: "no extractable text"}
	}

	n, err := h.index.AddDocuments(ctx, username, units)
	if err != nil {
		slog.Error("indexing failed", "username", username, "filename", fh.Filename, "error", err)
		h.logProcessing(r, username, fh.Filename, fh.Size, models.FileStatusFailed)
		return fileResult{Filename: fh.Filename, Status: models.FileStatusFailed, Error: "indexing failed"}
	}

	h.logProcessing(r, username, fh.Filename, fh.Size, models.FileStatusSuccess)
	return fileResult{Filename: fh.Filename, Status: models.FileStatusSuccess, Chunks: n}
}

func (h *FilesHandler) logActivity(r *http.Request, username, activity, details string) {
	if err := h.audit.LogActivity(r.Context(), username, activity, details); err != nil {
		slog.Warn("activity log failed", "username", username, "activity", activity, "error", err)
	}
}

func (h *FilesHandler) logProcessing(r *http.Request, username, filename string, size int64, status string) {
	if err := h.audit.LogFileProcessing(r.Context(), username, filename, size, status); err != nil {
		slog.Warn("file processing log failed", "username", username, "filename", filename, "error", err)
	}
}
