package api

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mlakar/zaloga/internal/apperror"
	"github.com/mlakar/zaloga/internal/filestore"
	"github.com/mlakar/zaloga/internal/imaging"
	"github.com/mlakar/zaloga/internal/model"
	"github.com/mlakar/zaloga/internal/store"
)

// maxUploadBytes limits multipart request bodies.
const maxUploadBytes = 5 << 20

// ItemsHandler handles the /api/items endpoints.
type ItemsHandler struct {
	DB    *sql.DB
	Files filestore.Store
}

// itemFields are the form fields shared by create and update.
type itemFields struct {
	name     string
	price    model.Cents
	quantity int
}

// parseItemForm parses the multipart form and validates the item fields.
func parseItemForm(w http.ResponseWriter, r *http.Request) (*itemFields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, apperror.Wrap(apperror.Validation, "invalid multipart form", err)
	}

	name := r.FormValue("name")
	if name == "" {
		return nil, apperror.New(apperror.Validation, "name is required")
	}

	price, err := model.ParseCents(r.FormValue("price"))
	if err != nil {
		return nil, apperror.Wrap(apperror.Validation, "invalid price", err)
	}

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || quantity < 0 {
		return nil, apperror.New(apperror.Validation, "invalid quantity")
	}

	return &itemFields{name: name, price: price, quantity: quantity}, nil
}

// saveUpload validates and stores the "image" multipart file, returning
// the stored-file key. Returns "" when no file was attached.
func saveUpload(ctx context.Context, files filestore.Store, r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", apperror.Wrap(apperror.Validation, "invalid image upload", err)
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		return "", apperror.Wrap(apperror.Validation, err.Error(), err)
	}

	key, err := files.Save(ctx, "image", header.Filename, bytes.NewReader(result.Data))
	if err != nil {
		return "", apperror.Wrap(apperror.Storage, "failed to store image", err)
	}
	return key, nil
}

// deleteStoredFile removes a stored file best-effort; failures are
// logged and never surfaced since the record operation already won.
func deleteStoredFile(ctx context.Context, files filestore.Store, key string) {
	if key == "" {
		return
	}
	if err := files.Delete(ctx, key); err != nil {
		slog.Warn("failed to delete stored file", "key", key, "error", err)
	}
}

// Create handles POST /api/items. The image is optional on this surface.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := parseItemForm(w, r)
	if err != nil {
		jsonError(w, err)
		return
	}

	image, err := saveUpload(r.Context(), h.Files, r)
	if err != nil {
		jsonError(w, err)
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, fields.name, fields.price, fields.quantity, image)
	if err != nil {
		deleteStoredFile(r.Context(), h.Files, image)
		jsonError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, "Item created successfully", item)
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, "Items retrieved successfully", items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, apperror.New(apperror.Validation, "invalid item id"))
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, "Item retrieved successfully", item)
}

// Update handles PUT /api/items/{id}. A replacement image is optional;
// when supplied, the previous stored file is deleted best-effort.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, apperror.New(apperror.Validation, "invalid item id"))
		return
	}

	fields, err := parseItemForm(w, r)
	if err != nil {
		jsonError(w, err)
		return
	}

	existing, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, err)
		return
	}

	image := existing.Image
	if newImage, err := saveUpload(r.Context(), h.Files, r); err != nil {
		jsonError(w, err)
		return
	} else if newImage != "" {
		deleteStoredFile(r.Context(), h.Files, existing.Image)
		image = newImage
	}

	item, err := store.UpdateItem(r.Context(), h.DB, id, fields.name, fields.price, fields.quantity, image)
	if err != nil {
		jsonError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, "Item updated successfully", item)
}

// Delete handles DELETE /api/items/{id}. The stored file is removed
// best-effort after the record; file-store failure never rolls back.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, apperror.New(apperror.Validation, "invalid item id"))
		return
	}

	item, err := store.DeleteItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, err)
		return
	}

	deleteStoredFile(r.Context(), h.Files, item.Image)
	jsonResponse(w, http.StatusOK, "Item deleted successfully", item)
}
