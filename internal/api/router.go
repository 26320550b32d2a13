package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Shreya728/pdfbot/internal/api/handlers"
	"github.com/Shreya728/pdfbot/internal/api/middleware"
	"github.com/Shreya728/pdfbot/internal/audit"
	"github.com/Shreya728/pdfbot/internal/auth"
	"github.com/Shreya728/pdfbot/internal/chat"
	"github.com/Shreya728/pdfbot/internal/config"
	"github.com/Shreya728/pdfbot/internal/document"
	"github.com/Shreya728/pdfbot/internal/embedding"
	"github.com/Shreya728/pdfbot/internal/llm"
	"github.com/Shreya728/pdfbot/internal/rag"
	"github.com/Shreya728/pdfbot/internal/session"
	"github.com/Shreya728/pdfbot/internal/user"
	"github.com/Shreya728/pdfbot/internal/vectorstore"
	"github.com/Shreya728/pdfbot/pkg/chunker"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	llmGW llm.Gateway
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, gw llm.Gateway, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		llmGW: gw,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Liveness (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/", health.Root)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	issuer := auth.NewTokenIssuer(rt.cfg.Auth.JWTSecret, time.Duration(rt.cfg.Auth.TokenTTL)*time.Hour)
	authMW := auth.NewMiddleware(issuer)

	users := user.NewService(rt.db)
	chats := chat.NewService(rt.db)
	auditSvc := audit.NewService(rt.db)
	sessions := session.NewStore(rt.redis, time.Duration(rt.cfg.Auth.TokenTTL)*time.Hour)

	embedSvc := embedding.NewService(rt.llmGW, rt.cfg.LLM.EmbeddingModel)
	index := rag.NewIndex(
		vectorstore.NewPgVectorStore(rt.db),
		embedSvc,
		chunker.Options{
			Size:     rt.cfg.Retrieval.ChunkSize,
			Overlap:  rt.cfg.Retrieval.Overlap,
			Strategy: "recursive",
		},
		rt.cfg.Retrieval.MinScore,
	)
	engine := rag.NewEngine(rt.llmGW, index, rt.cfg.LLM.ChatModel, rt.cfg.LLM.Temperature, rt.cfg.LLM.MaxTokens, rt.cfg.Retrieval.TopK)
	extractor := document.NewExtractor()

	authH := handlers.NewAuthHandler(users, issuer, auditSvc)
	filesH := handlers.NewFilesHandler(extractor, index, sessions, chats, auditSvc, rt.cfg.Upload.MaxFileBytes)
	chatH := handlers.NewChatHandler(engine, index, chats, sessions, auditSvc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)

			r.Post("/files", filesH.Upload)

			r.Post("/chat/message", chatH.Message)
			r.Get("/chats", chatH.List)
			r.Post("/chats/new", chatH.New)
			r.Post("/chats/{id}/load", chatH.Load)
			r.Delete("/chats/{id}", chatH.Delete)
			r.Get("/chats/{id}/export", chatH.Export)

			r.Get("/analytics", chatH.Analytics)
		})
	})

	return r
}
