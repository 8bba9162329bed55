package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mansoorceksport/picdrop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFileRepo struct {
	storedName string
	err        error
	calls      int
}

func (s *stubFileRepo) Store(_ context.Context, _ []byte, _ string) (string, error) {
	s.calls++
	return s.storedName, s.err
}

type stubUserRepo struct {
	id      int64
	err     error
	calls   int
	lastRef *string
}

func (s *stubUserRepo) Insert(_ context.Context, profileReference *string) (int64, error) {
	s.calls++
	s.lastRef = profileReference
	return s.id, s.err
}

func TestAddUser_WithImage(t *testing.T) {
	fileRepo := &stubFileRepo{storedName: "01JX.png"}
	userRepo := &stubUserRepo{id: 42}
	svc := NewProfileService(fileRepo, userRepo)

	user, err := svc.AddUser(context.Background(), []byte("data"), "photo.png")
	require.NoError(t, err)

	assert.Equal(t, int64(42), user.ID)
	require.NotNil(t, user.ProfileReference)
	assert.Equal(t, "01JX.png", *user.ProfileReference)
	require.NotNil(t, userRepo.lastRef)
	assert.Equal(t, "01JX.png", *userRepo.lastRef)
}

func TestAddUser_WithoutImage(t *testing.T) {
	fileRepo := &stubFileRepo{storedName: "unused"}
	userRepo := &stubUserRepo{id: 1}
	svc := NewProfileService(fileRepo, userRepo)

	user, err := svc.AddUser(context.Background(), nil, "")
	require.NoError(t, err)

	assert.Nil(t, user.ProfileReference)
	assert.Equal(t, 0, fileRepo.calls)
	assert.Equal(t, 1, userRepo.calls)
	assert.Nil(t, userRepo.lastRef)
}

func TestAddUser_InvalidExtension(t *testing.T) {
	fileRepo := &stubFileRepo{storedName: "unused"}
	userRepo := &stubUserRepo{id: 1}
	svc := NewProfileService(fileRepo, userRepo)

	_, err := svc.AddUser(context.Background(), []byte("data"), "malware.exe")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidExtension)

	assert.Equal(t, 0, fileRepo.calls)
	assert.Equal(t, 0, userRepo.calls)
}

func TestAddUser_ExtensionCaseInsensitive(t *testing.T) {
	fileRepo := &stubFileRepo{storedName: "01JX.jpeg"}
	userRepo := &stubUserRepo{id: 1}
	svc := NewProfileService(fileRepo, userRepo)

	_, err := svc.AddUser(context.Background(), []byte("data"), "Holiday.JPEG")
	require.NoError(t, err)
	assert.Equal(t, 1, fileRepo.calls)
}

func TestAddUser_StoreFails(t *testing.T) {
	fileRepo := &stubFileRepo{err: domain.ErrStorage}
	userRepo := &stubUserRepo{id: 1}
	svc := NewProfileService(fileRepo, userRepo)

	_, err := svc.AddUser(context.Background(), []byte("data"), "photo.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)

	// No row must exist after a failed write.
	assert.Equal(t, 0, userRepo.calls)
}

func TestAddUser_InsertFails(t *testing.T) {
	fileRepo := &stubFileRepo{storedName: "01JX.jpg"}
	userRepo := &stubUserRepo{err: errors.New("connection reset")}
	svc := NewProfileService(fileRepo, userRepo)

	_, err := svc.AddUser(context.Background(), []byte("data"), "photo.jpg")
	require.Error(t, err)

	// The stored file stays behind; there is no compensating delete.
	assert.Equal(t, 1, fileRepo.calls)
}
