package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mansoorceksport/picdrop/internal/domain"
)

// ProfileServiceImpl runs the upload pipeline: validate extension, store
// the payload, insert the user row.
type ProfileServiceImpl struct {
	fileRepository domain.FileRepository
	userRepository domain.UserRepository
}

// NewProfileService creates a new profile service
func NewProfileService(
	fileRepository domain.FileRepository,
	userRepository domain.UserRepository,
) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		fileRepository: fileRepository,
		userRepository: userRepository,
	}
}

// AddUser creates one user row per call. When payload is empty the file
// step is skipped entirely and the row is inserted with a NULL reference.
//
// The file is written before the row is inserted; a store that succeeds
// followed by an insert that fails leaves the file behind with no row.
// There is no compensating delete and no transaction spanning both.
func (s *ProfileServiceImpl) AddUser(ctx context.Context, payload []byte, declaredName string) (*domain.User, error) {
	var profileReference *string

	if len(payload) > 0 {
		// Fail fast before touching storage so an invalid upload has no
		// observable side effect.
		ext := strings.ToLower(filepath.Ext(declaredName))
		if !domain.AllowedExtensions[ext] {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidExtension, ext)
		}

		storedName, err := s.fileRepository.Store(ctx, payload, declaredName)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		profileReference = &storedName
	}

	id, err := s.userRepository.Insert(ctx, profileReference)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return &domain.User{ID: id, ProfileReference: profileReference}, nil
}
