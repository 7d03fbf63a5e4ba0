package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlakar/zaloga/internal/db"
	"github.com/mlakar/zaloga/internal/filestore"
	"github.com/mlakar/zaloga/internal/model"
)

func setupTestServer(t *testing.T) (*httptest.Server, *filestore.Memory) {
	t.Helper()
	database := db.NewTestDB(t)
	files := filestore.NewMemory()
	server := httptest.NewServer(NewRouter(database, files))
	t.Cleanup(server.Close)
	return server, files
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// itemForm builds a multipart body with the given fields and an
// optional image file.
func itemForm(t *testing.T, fields map[string]string, imageName string, imageData []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageName != "" {
		fw, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeEnvelope(t *testing.T, resp *http.Response) (string, json.RawMessage) {
	t.Helper()
	defer resp.Body.Close()
	var env struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env.Message, env.Data
}

func createItem(t *testing.T, server *httptest.Server, fields map[string]string, imageName string, imageData []byte) model.Item {
	t.Helper()
	body, contentType := itemForm(t, fields, imageName, imageData)
	resp, err := http.Post(server.URL+"/api/items", contentType, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, data := decodeEnvelope(t, resp)
	var item model.Item
	require.NoError(t, json.Unmarshal(data, &item))
	return item
}

func TestCreateItemWithoutImage(t *testing.T) {
	server, _ := setupTestServer(t)

	item := createItem(t, server, map[string]string{
		"name": "Pen", "price": "10", "quantity": "5",
	}, "", nil)

	assert.Equal(t, "Pen", item.Name)
	assert.Equal(t, model.Cents(1000), item.Price)
	assert.Equal(t, 5, item.Quantity)
	assert.Empty(t, item.Image)
	assert.NotZero(t, item.ID)
}

func TestCreateItemWithImage(t *testing.T) {
	server, files := setupTestServer(t)

	item := createItem(t, server, map[string]string{
		"name": "Pen", "price": "10.50", "quantity": "5",
	}, "pen.png", testPNG(t))

	assert.NotEmpty(t, item.Image)
	assert.True(t, files.Has(item.Image))
}

func TestCreateItemValidation(t *testing.T) {
	server, _ := setupTestServer(t)

	for name, fields := range map[string]map[string]string{
		"missing name": {"price": "10", "quantity": "5"},
		"bad price":    {"name": "Pen", "price": "abc", "quantity": "5"},
		"bad quantity": {"name": "Pen", "price": "10", "quantity": "lots"},
		"negative qty": {"name": "Pen", "price": "10", "quantity": "-1"},
	} {
		body, contentType := itemForm(t, fields, "", nil)
		resp, err := http.Post(server.URL+"/api/items", contentType, body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
		resp.Body.Close()
	}
}

func TestListItems(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/items")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, data := decodeEnvelope(t, resp)
	assert.Equal(t, "[]", string(data))

	createItem(t, server, map[string]string{"name": "Pen", "price": "10", "quantity": "5"}, "", nil)

	resp, err = http.Get(server.URL + "/api/items")
	require.NoError(t, err)
	_, data = decodeEnvelope(t, resp)
	var items []model.Item
	require.NoError(t, json.Unmarshal(data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Pen", items[0].Name)
}

func TestGetItem(t *testing.T) {
	server, _ := setupTestServer(t)

	item := createItem(t, server, map[string]string{"name": "Pen", "price": "10", "quantity": "5"}, "", nil)

	resp, err := http.Get(server.URL + "/api/items/" + jsonID(item.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/items/99999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateItemReplacesImage(t *testing.T) {
	server, files := setupTestServer(t)

	item := createItem(t, server, map[string]string{
		"name": "Pen", "price": "10", "quantity": "5",
	}, "old.png", testPNG(t))
	oldImage := item.Image

	body, contentType := itemForm(t, map[string]string{
		"name": "Pen", "price": "10", "quantity": "5",
	}, "new.png", testPNG(t))
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/items/"+jsonID(item.ID), body)
	req.Header.Set("Content-Type", contentType)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, data := decodeEnvelope(t, resp)
	var updated model.Item
	require.NoError(t, json.Unmarshal(data, &updated))

	assert.NotEqual(t, oldImage, updated.Image)
	assert.False(t, files.Has(oldImage), "old stored file should be deleted")
	assert.True(t, files.Has(updated.Image))
}

func TestUpdateItemKeepsImage(t *testing.T) {
	server, files := setupTestServer(t)

	item := createItem(t, server, map[string]string{
		"name": "Pen", "price": "10", "quantity": "5",
	}, "pen.png", testPNG(t))

	body, contentType := itemForm(t, map[string]string{
		"name": "Pen", "price": "10", "quantity": "0",
	}, "", nil)
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/items/"+jsonID(item.ID), body)
	req.Header.Set("Content-Type", contentType)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, data := decodeEnvelope(t, resp)
	var updated model.Item
	require.NoError(t, json.Unmarshal(data, &updated))

	assert.Equal(t, item.Image, updated.Image)
	assert.Equal(t, 0, updated.Quantity)
	assert.True(t, files.Has(item.Image))
}

func TestUpdateItemNotFound(t *testing.T) {
	server, _ := setupTestServer(t)

	body, contentType := itemForm(t, map[string]string{
		"name": "Pen", "price": "10", "quantity": "5",
	}, "", nil)
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/items/99999", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteItem(t *testing.T) {
	server, files := setupTestServer(t)

	item := createItem(t, server, map[string]string{
		"name": "Pen", "price": "10", "quantity": "5",
	}, "pen.png", testPNG(t))

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/items/"+jsonID(item.ID), nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.False(t, files.Has(item.Image), "stored file should be deleted with the record")

	resp, err = http.Get(server.URL + "/api/items/" + jsonID(item.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteItemNotFound(t *testing.T) {
	server, _ := setupTestServer(t)

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/items/99999", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func jsonID(id int64) string {
	return strconv.FormatInt(id, 10)
}
