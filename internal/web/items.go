package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mlakar/zaloga/internal/apperror"
	"github.com/mlakar/zaloga/internal/imaging"
	"github.com/mlakar/zaloga/internal/model"
	"github.com/mlakar/zaloga/internal/session"
	"github.com/mlakar/zaloga/internal/store"
)

// maxUploadBytes limits multipart request bodies.
const maxUploadBytes = 5 << 20

// HomePage handles GET / for authenticated users: the item list.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	items, err := store.ListItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}

	s.Templates.Render(w, "index.html", &struct {
		PageData
		Items []model.Item
	}{
		PageData: PageData{Title: "Home Page", User: claims, Flash: session.PopFlash(w, r)},
		Items:    items,
	})
}

// AddItemPage handles GET /add.
func (s *Server) AddItemPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "add_item.html", &PageData{
		Title: "Add Items",
		User:  GetClaims(r.Context()),
	})
}

// AddItemSubmit handles POST /add. An image upload is required on the
// web path.
func (s *Server) AddItemSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	renderError := func(status int, msg string) {
		s.Templates.RenderStatus(w, status, "add_item.html", &PageData{
			Title: "Add Items",
			User:  claims,
			Error: msg,
		})
	}

	fields, err := s.parseItemForm(w, r)
	if err != nil {
		renderError(http.StatusBadRequest, userMessage(err))
		return
	}

	image, err := s.saveUpload(r)
	if err != nil {
		renderError(http.StatusBadRequest, userMessage(err))
		return
	}
	if image == "" {
		renderError(http.StatusBadRequest, "An image is required.")
		return
	}

	if _, err := store.CreateItem(r.Context(), s.DB, fields.name, fields.price, fields.quantity, image); err != nil {
		slog.Error("failed to create item", "error", err)
		s.deleteStoredFile(r, image)
		renderError(http.StatusInternalServerError, "Failed to add item.")
		return
	}

	slog.Info("item added", "user", claims.Username, "item", fields.name)
	session.SetFlash(w, "success", "Item added successfully!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditItemPage handles GET /edit/{id}.
func (s *Server) EditItemPage(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		if !apperror.Is(err, apperror.NotFound) {
			slog.Error("failed to get item", "error", err)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.Templates.Render(w, "edit_item.html", &struct {
		PageData
		Item *model.Item
	}{
		PageData: PageData{Title: "Edit Item", User: claims},
		Item:     item,
	})
}

// UpdateItemSubmit handles POST /update/{id}. A replacement image is
// optional; when one is uploaded the previous stored file is deleted
// best-effort.
func (s *Server) UpdateItemSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		session.SetFlash(w, "danger", "Item not found!")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	fields, err := s.parseItemForm(w, r)
	if err != nil {
		session.SetFlash(w, "danger", userMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	existing, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		if !apperror.Is(err, apperror.NotFound) {
			slog.Error("failed to get item", "error", err)
		}
		session.SetFlash(w, "danger", "Item not found!")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	image := existing.Image
	if newImage, err := s.saveUpload(r); err != nil {
		session.SetFlash(w, "danger", userMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	} else if newImage != "" {
		s.deleteStoredFile(r, existing.Image)
		image = newImage
	}

	if _, err := store.UpdateItem(r.Context(), s.DB, id, fields.name, fields.price, fields.quantity, image); err != nil {
		slog.Error("failed to update item", "error", err)
		session.SetFlash(w, "danger", "Failed to update item.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	slog.Info("item updated", "user", claims.Username, "item", fields.name)
	session.SetFlash(w, "success", "Item updated successfully!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteItemSubmit handles GET /delete/{id}. Found or not, the user
// lands back on the home page; only the flash message differs.
func (s *Server) DeleteItemSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		session.SetFlash(w, "danger", "Item not found!")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	item, err := store.DeleteItem(r.Context(), s.DB, id)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			session.SetFlash(w, "danger", "Item not found!")
		} else {
			slog.Error("failed to delete item", "error", err)
			session.SetFlash(w, "danger", "Failed to delete item.")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.deleteStoredFile(r, item.Image)
	slog.Info("item deleted", "user", claims.Username, "item", item.Name)
	session.SetFlash(w, "info", "Item deleted successfully!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// itemFields are the parsed form fields shared by add and update.
type itemFields struct {
	name     string
	price    model.Cents
	quantity int
}

func (s *Server) parseItemForm(w http.ResponseWriter, r *http.Request) (*itemFields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, apperror.Wrap(apperror.Validation, "invalid form submission", err)
	}

	name := r.FormValue("name")
	if name == "" {
		return nil, apperror.New(apperror.Validation, "Name is required.")
	}

	price, err := model.ParseCents(r.FormValue("price"))
	if err != nil {
		return nil, apperror.Wrap(apperror.Validation, "Invalid price.", err)
	}

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || quantity < 0 {
		return nil, apperror.New(apperror.Validation, "Invalid quantity.")
	}

	return &itemFields{name: name, price: price, quantity: quantity}, nil
}

// saveUpload validates and stores the "image" file, returning the
// stored-file key or "" when no file was attached.
func (s *Server) saveUpload(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", apperror.Wrap(apperror.Validation, "Invalid image upload.", err)
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		return "", apperror.Wrap(apperror.Validation, err.Error(), err)
	}

	key, err := s.Files.Save(r.Context(), "image", header.Filename, bytes.NewReader(result.Data))
	if err != nil {
		return "", apperror.Wrap(apperror.Storage, "Failed to store image.", err)
	}
	return key, nil
}

func (s *Server) deleteStoredFile(r *http.Request, key string) {
	if key == "" {
		return
	}
	if err := s.Files.Delete(r.Context(), key); err != nil {
		slog.Warn("failed to delete stored file", "key", key, "error", err)
	}
}

// userMessage extracts a message safe to show the user.
func userMessage(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind != apperror.Storage {
		return appErr.Message
	}
	return "Something went wrong! Please try again later."
}
