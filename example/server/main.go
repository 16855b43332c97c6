// Server exposes a dynamic client registration endpoint backed by the
// in-memory storage, for trying out the registration flow locally:
//
//	go run ./example/server
//	curl -i -X POST http://localhost:9998/connect/register \
//	  -H 'content-type: application/json' \
//	  -d '{"redirect_uris":["https://client.example.org/callback"]}'
package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/zitadel/logging"
	"golang.org/x/exp/slog"

	"github.com/idpkit/clientreg/example/server/storage"
	"github.com/idpkit/clientreg/pkg/op"
)

func main() {
	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		}),
	)

	store := storage.NewClientStore()
	registrar := op.NewRegistrar(store,
		op.WithLogger(logger),
		op.WithManagementAuthorizer(store.AuthorizeManagement),
	)

	router := chi.NewRouter()
	router.Use(cors.New(cors.Options{
		AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"authorization", "content-type"},
	}).Handler)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(logging.ToContext(r.Context(), logger)))
		})
	})
	router.Mount("/connect/register", registrar.Router())

	port := os.Getenv("PORT")
	if port == "" {
		port = "9998"
	}
	logger.Info("registration server listening", "addr", ":"+port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
