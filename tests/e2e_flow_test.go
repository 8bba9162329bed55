package tests

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mansoorceksport/picdrop/internal/config"
	"github.com/mansoorceksport/picdrop/internal/server"
)

func TestUploadFlow(t *testing.T) {
	// 1. Setup Infrastructure
	db, cleanupDB := SetupTestDB(t)
	defer cleanupDB()

	imagesDir := t.TempDir()

	cfg := &config.Config{}
	cfg.Server.MaxUploadSizeMB = 10
	cfg.Storage.Backend = "disk"
	cfg.Storage.ImagesDir = imagesDir

	// 2. Initialize App
	app := server.NewApp(server.AppDependencies{
		Config: cfg,
		DB:     db,
	})

	// Helper for upload requests
	upload := func(filename string, content []byte) *http.Response {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if filename != "" {
			part, err := w.CreateFormFile("image", filename)
			require.NoError(t, err)
			_, err = part.Write(content)
			require.NoError(t, err)
		}
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/user/image", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	message := func(resp *http.Response) string {
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var payload struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		return payload.Message
	}

	countUsers := func() int {
		var n int
		require.NoError(t, db.QueryRowContext(context.Background(),
			`SELECT COUNT(*) FROM users`).Scan(&n))
		return n
	}

	// ==========================================
	// STEP 1: Valid upload with mixed-case extension
	// ==========================================
	resp := upload("photo.PNG", []byte("fake-png-bytes"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User Added Successfully", message(resp))
	assert.Equal(t, 1, countUsers())

	var ref sql.NullString
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT profile_reference FROM users ORDER BY id DESC LIMIT 1`).Scan(&ref))
	require.True(t, ref.Valid)
	assert.Regexp(t, `\.png$`, ref.String)

	storedFirst := ref.String
	content, err := os.ReadFile(imagesDir + "/" + storedFirst)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), content)

	// ==========================================
	// STEP 2: Repeat the identical upload; not idempotent
	// ==========================================
	resp = upload("photo.PNG", []byte("fake-png-bytes"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, countUsers())

	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT profile_reference FROM users ORDER BY id DESC LIMIT 1`).Scan(&ref))
	require.True(t, ref.Valid)
	assert.NotEqual(t, storedFirst, ref.String, "repeated uploads must get distinct stored names")

	entries, err := os.ReadDir(imagesDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// ==========================================
	// STEP 3: Rejected extension leaves no trace
	// ==========================================
	resp = upload("document.pdf", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid File Extension! Allowed: .jpg, .jpeg, .png", message(resp))
	assert.Equal(t, 2, countUsers())

	entries, err = os.ReadDir(imagesDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// ==========================================
	// STEP 4: No file field inserts a NULL reference
	// ==========================================
	resp = upload("", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User Added Successfully", message(resp))
	assert.Equal(t, 3, countUsers())

	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT profile_reference FROM users ORDER BY id DESC LIMIT 1`).Scan(&ref))
	assert.False(t, ref.Valid)
}

type failingFileRepo struct{}

func (failingFileRepo) Store(context.Context, []byte, string) (string, error) {
	return "", os.ErrPermission
}

func TestUploadFlow_StorageFailureInsertsNothing(t *testing.T) {
	db, cleanupDB := SetupTestDB(t)
	defer cleanupDB()

	cfg := &config.Config{}
	cfg.Server.MaxUploadSizeMB = 10
	cfg.Storage.Backend = "disk"

	app := server.NewApp(server.AppDependencies{
		Config:         cfg,
		DB:             db,
		FileRepository: failingFileRepo{},
	})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpg-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/user/image", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Equal(t, 0, n)
}
