package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Shreya728/pdfbot/internal/llm"
)

// NoContextMessage is returned instead of calling the model when the
// session has neither active files nor a loaded chat.
const NoContextMessage = "Please upload a file or load a previous chat to enable chatting."

const loadedChatContext = "Using context from loaded chat history."

// Engine answers one query: classify intent, gather context, build the
// prompt, call the model once. Model failures become a user-visible
// error string, never an error value; the conversation continues.
type Engine struct {
	gateway     llm.Gateway
	index       *Index
	model       string
	temperature float64
	maxTokens   int
	topK        int
}

func NewEngine(gw llm.Gateway, index *Index, model string, temperature float64, maxTokens, topK int) *Engine {
	if topK <= 0 {
		topK = 5
	}
	return &Engine{
		gateway:     gw,
		index:       index,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		topK:        topK,
	}
}

type AnswerRequest struct {
	Owner string
	Query string
	// History is the prior conversation, oldest first.
	History []llm.Message
	// FilesActive reports whether an uploaded file-set backs the index.
	FilesActive bool
	// LoadedChat reports that the session resumed an old chat; answers
	// then reuse its recorded sources instead of querying the index.
	LoadedChat bool
	// ActiveSources is the session's current source filename list.
	ActiveSources []string
}

type AnswerResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
	Intent  string   `json:"intent"`
}

func (e *Engine) Answer(ctx context.Context, req AnswerRequest) AnswerResponse {
	intent := ClassifyIntent(req.Query)

	if !req.FilesActive && !req.LoadedChat {
		return AnswerResponse{Answer: NoContextMessage, Intent: intent.String()}
	}

	var contextBlock string
	var sources []string
	if req.LoadedChat {
		contextBlock = loadedChatContext
		sources = dedupeSources(req.ActiveSources)
	} else {
		contextBlock, sources = e.retrieve(ctx, req.Owner, req.Query)
	}

	prompt := BuildPrompt(intent, contextBlock, req.Query, req.History, sources)

	resp, err := e.gateway.Chat(ctx, llm.ChatRequest{
		Model:       e.model,
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		slog.Error("completion failed", "owner", req.Owner, "error", err)
		return AnswerResponse{
			Answer: fmt.Sprintf("Error: %v", err),
			Intent: intent.String(),
		}
	}

	return AnswerResponse{
		Answer:  resp.Content,
		Sources: sources,
		Intent:  intent.String(),
	}
}

// retrieve renders retrieved chunks into a context block and collects
// the distinct source filenames.
func (e *Engine) retrieve(ctx context.Context, owner, query string) (string, []string) {
	results := e.index.Search(ctx, owner, query, e.topK)
	if len(results) == 0 {
		return "No relevant context found.", nil
	}

	var parts []string
	var sources []string
	seen := make(map[string]bool)
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("[Source: %s, Page: %d]\n%s", r.Filename, r.Page, r.Content))
		if !seen[r.Filename] {
			seen[r.Filename] = true
			sources = append(sources, r.Filename)
		}
	}
	return strings.Join(parts, "\n\n"), sources
}
