package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImgurUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/image", r.URL.Path)
		assert.Equal(t, "Client-ID test-client", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "base64", r.FormValue("type"))
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png-bytes")), r.FormValue("image"))

		data, _ := json.Marshal(ImgurImage{ID: "abc", Link: "https://i.imgur.com/abc.png", DeleteHash: "del123", Type: "image/png"})
		json.NewEncoder(w).Encode(ImgurResponse{Data: data, Success: true, Status: 200})
	}))
	defer server.Close()

	store := NewImgurStore("test-client", server.URL+"/")
	result, err := store.Upload(context.Background(), strings.NewReader("png-bytes"), "meme.PNG")
	require.NoError(t, err)
	assert.Equal(t, "https://i.imgur.com/abc.png", result.URL)
	assert.Equal(t, "del123", result.PublicID)
}

func TestImgurUploadRejectsUnsupported(t *testing.T) {
	store := NewImgurStore("test-client", "http://127.0.0.1:0")
	_, err := store.Upload(context.Background(), strings.NewReader("gif"), "meme.gif")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestImgurDelete(t *testing.T) {
	var deleted string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		deleted = strings.TrimPrefix(r.URL.Path, "/image/")
		w.Write([]byte(`{"data":true,"success":true,"status":200}`))
	}))
	defer server.Close()

	store := NewImgurStore("test-client", server.URL)
	require.NoError(t, store.Delete(context.Background(), "del123"))
	assert.Equal(t, "del123", deleted)
}

func TestImgurFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"data":{"error":"Invalid client"},"success":false,"status":400}`))
	}))
	defer server.Close()

	store := NewImgurStore("test-client", server.URL)
	_, err := store.Upload(context.Background(), strings.NewReader("x"), "a.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid client")
}
