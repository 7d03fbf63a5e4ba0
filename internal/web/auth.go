package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mlakar/zaloga/internal/account"
	"github.com/mlakar/zaloga/internal/apperror"
	"github.com/mlakar/zaloga/internal/session"
)

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "register.html", &PageData{Title: "Register"})
}

// RegisterSubmit handles POST /register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	acc, err := account.Register(r.Context(), s.DB, username, email, password)
	if err != nil {
		var appErr *apperror.Error
		msg := "Error registering user."
		if errors.As(err, &appErr) && appErr.Kind != apperror.Storage {
			msg = appErr.Message
		} else {
			slog.Error("registration failed", "error", err)
		}
		s.Templates.RenderStatus(w, http.StatusBadRequest, "register.html", &PageData{
			Title: "Register",
			Error: msg,
		})
		return
	}

	slog.Info("account registered", "username", acc.Username)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Login"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	acc, err := account.Authenticate(r.Context(), s.DB, email, password)
	if err != nil {
		var appErr *apperror.Error
		msg := "Invalid credentials."
		if errors.As(err, &appErr) && appErr.Kind == apperror.Validation {
			msg = appErr.Message
		} else if apperror.KindOf(err) == apperror.Storage {
			slog.Error("login failed", "error", err)
			msg = "Internal error, try again later."
		} else {
			slog.Warn("login rejected", "email", email, "remote", r.RemoteAddr)
		}
		s.Templates.RenderStatus(w, http.StatusBadRequest, "login.html", &PageData{
			Title: "Login",
			Error: msg,
		})
		return
	}

	token, err := session.Generate(s.Secret, acc.ID, acc.Username)
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		s.Templates.RenderStatus(w, http.StatusInternalServerError, "login.html", &PageData{
			Title: "Login",
			Error: "Internal error, try again later.",
		})
		return
	}

	session.SetCookie(w, token)
	slog.Info("user logged in", "username", acc.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles GET /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
