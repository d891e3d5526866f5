package upload

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeStorage struct {
	putName string
}

func (f *fakeStorage) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	f.putName = name
	return "https://img.example.com/" + name, nil
}

func (f *fakeStorage) Delete(ctx context.Context, name string) error { return nil }

func multipartImage(t *testing.T, filename, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte{0xFF}, size)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	w.Close()
	return body, w.FormDataContentType()
}

func postImage(t *testing.T, storage Storage, filename, contentType string, size int) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/places/images", NewHandler(storage).UploadImage)

	body, formType := multipartImage(t, filename, contentType, size)
	req := httptest.NewRequest(http.MethodPost, "/places/images", body)
	req.Header.Set("Content-Type", formType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadImage(t *testing.T) {
	storage := &fakeStorage{}
	w := postImage(t, storage, "photo.jpg", "image/jpeg", 1024)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	if storage.putName == "" || storage.putName == "photo" {
		t.Errorf("stored name should be generated, got %q", storage.putName)
	}
}

func TestUploadImageRejectsType(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
	}{
		{"gif extension", "anim.gif", "image/gif"},
		{"mismatched content type", "photo.jpg", "application/pdf"},
		{"no extension", "photo", "image/jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postImage(t, &fakeStorage{}, tt.filename, tt.contentType, 512); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestUploadImageRejectsOversize(t *testing.T) {
	size := int(MaxImageSize) + 1
	if w := postImage(t, &fakeStorage{}, "big.png", "image/png", size); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUploadImageDisabledStorage(t *testing.T) {
	if w := postImage(t, DisabledStorage{}, "photo.webp", "image/webp", 256); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
