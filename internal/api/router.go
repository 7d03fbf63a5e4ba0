package api

import (
	"database/sql"
	"net/http"

	"github.com/mlakar/zaloga/internal/filestore"
)

// NewRouter creates the API router with all endpoints registered.
//
// The API surface carries no authentication, mirroring the system this
// replaces; see DESIGN.md before exposing it beyond trusted networks.
func NewRouter(db *sql.DB, files filestore.Store) http.Handler {
	mux := http.NewServeMux()

	items := &ItemsHandler{DB: db, Files: files}

	mux.HandleFunc("POST /api/items", items.Create)
	mux.HandleFunc("GET /api/items", items.List)
	mux.HandleFunc("GET /api/items/{id}", items.Get)
	mux.HandleFunc("PUT /api/items/{id}", items.Update)
	mux.HandleFunc("DELETE /api/items/{id}", items.Delete)

	return mux
}
