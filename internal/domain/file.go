package domain

import (
	"context"
)

// AllowedExtensions is the upload allow-list, keyed by lower-cased extension.
var AllowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// FileRepository defines the interface for file storage operations
type FileRepository interface {
	// Store writes the payload under a generated unique name and returns
	// that name. The extension is taken from declaredName, lower-cased,
	// and must be in AllowedExtensions.
	Store(ctx context.Context, payload []byte, declaredName string) (string, error)
}
