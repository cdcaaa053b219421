package api

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/rohits-web03/ledger/docs"
	"github.com/rohits-web03/ledger/internal/api/handlers"
	"github.com/rohits-web03/ledger/internal/api/middleware"
	"github.com/rohits-web03/ledger/internal/config"
	"github.com/rs/cors"
)

func SetupRouter(h *handlers.Handler, cfg config.Config, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	mainMux := http.NewServeMux()
	c := cors.New(cfg.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mainMux.HandleFunc("POST /api/auth/login", h.LoginUser)
	mainMux.HandleFunc("POST /api/auth/logout", h.Logout)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("GET /api/projects", h.ListProjects)
	protectedMux.HandleFunc("POST /api/projects", h.CreateProject)
	protectedMux.HandleFunc("GET /api/projects/{id}", h.GetProject)
	protectedMux.HandleFunc("PATCH /api/projects/{id}", h.UpdateProject)
	protectedMux.HandleFunc("DELETE /api/projects/{id}", h.DeleteProject)
	protectedMux.HandleFunc("GET /api/projects/{id}/export", h.ExportProject)

	protectedMux.HandleFunc("PATCH /api/projects/{id}/section", h.UpsertSection)
	protectedMux.HandleFunc("POST /api/projects/{id}/files", h.UploadFile)
	protectedMux.HandleFunc("POST /api/projects/{id}/todos", h.AddTodo)
	protectedMux.HandleFunc("POST /api/projects/{id}/hours", h.AddHours)

	protectedMux.HandleFunc("DELETE /api/files/{id}", h.DeleteFile)
	protectedMux.HandleFunc("PATCH /api/todos/{id}", h.SetTodoStatus)

	protectedMux.HandleFunc("POST /api/calculator", h.Calculate)

	protectedMux.HandleFunc("GET /uploads/{name}", h.ServeUpload)

	requireOwner := middleware.Auth(h.AuthEnabled(), handlers.SessionCookie, cfg.Auth.JWTSecret)
	mainMux.Handle("/api/", requireOwner(protectedMux))
	mainMux.Handle("/uploads/", requireOwner(protectedMux))

	if cfg.StaticDir != "" {
		mainMux.Handle("/", spaHandler(cfg.StaticDir))
	}

	log.Info("router initialized", zap.Bool("auth", h.AuthEnabled()), zap.String("static_dir", cfg.StaticDir))
	handler := c.Handler(mainMux)
	handler = middleware.Logger(log)(handler)
	return handler
}

// spaHandler serves files from dir and falls back to index.html so the
// client side router can resolve the path.
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})
}
