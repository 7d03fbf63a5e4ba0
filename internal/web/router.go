package web

import (
	"database/sql"
	"net/http"

	"github.com/mlakar/zaloga/internal/filestore"
	webembed "github.com/mlakar/zaloga/web"
)

// NewRouter creates the web page router with all page routes registered.
// uploadsDir is served publicly under /uploads/, keyed by stored filename.
func NewRouter(db *sql.DB, secret string, files filestore.Store, uploadsDir string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		Secret:    secret,
		Files:     files,
	}

	mux := http.NewServeMux()
	auth := RequireSession(secret)

	// Static assets and uploaded images.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	// Public routes.
	mux.HandleFunc("GET /register", s.RegisterPage)
	mux.HandleFunc("POST /register", s.RegisterSubmit)
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", auth(http.HandlerFunc(s.HomePage)))
	mux.Handle("GET /add", auth(http.HandlerFunc(s.AddItemPage)))
	mux.Handle("POST /add", auth(http.HandlerFunc(s.AddItemSubmit)))
	mux.Handle("GET /edit/{id}", auth(http.HandlerFunc(s.EditItemPage)))
	mux.Handle("POST /update/{id}", auth(http.HandlerFunc(s.UpdateItemSubmit)))
	mux.Handle("GET /delete/{id}", auth(http.HandlerFunc(s.DeleteItemSubmit)))

	return mux, nil
}
