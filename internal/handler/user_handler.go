package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/picdrop/internal/domain"
)

// MsgUserAdded is the fixed success message; clients match on it exactly.
const MsgUserAdded = "User Added Successfully"

// MsgInvalidExtension is returned verbatim on a rejected extension.
const MsgInvalidExtension = "Invalid File Extension! Allowed: .jpg, .jpeg, .png"

// UserHandler handles HTTP requests for user creation
type UserHandler struct {
	profileService domain.ProfileService
	maxUploadMB    int64
}

// NewUserHandler creates a new user handler
func NewUserHandler(profileService domain.ProfileService, maxUploadMB int64) *UserHandler {
	return &UserHandler{
		profileService: profileService,
		maxUploadMB:    maxUploadMB,
	}
}

// AddUserImage handles POST /api/user/image
//
// The multipart body may carry zero or one file in the "image" field.
// A missing or empty file is not an error: the user row is created with
// a NULL profile reference.
func (h *UserHandler) AddUserImage(c *fiber.Ctx) error {
	var (
		payload      []byte
		declaredName string
	)

	if form, err := c.MultipartForm(); err == nil {
		files := form.File["image"]
		if len(files) > 0 && files[0].Size > 0 {
			imageFile := files[0]

			maxBytes := h.maxUploadMB * 1024 * 1024
			if imageFile.Size > maxBytes {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"message": fmt.Sprintf("file size exceeds maximum of %dMB", h.maxUploadMB),
				})
			}

			fileHandle, err := imageFile.Open()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "failed to open uploaded file",
				})
			}
			defer fileHandle.Close()

			payload, err = io.ReadAll(fileHandle)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "failed to read uploaded file",
				})
			}
			declaredName = imageFile.Filename
		}
	}

	_, err := h.profileService.AddUser(c.UserContext(), payload, declaredName)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidExtension) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": MsgInvalidExtension,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to add user: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": MsgUserAdded,
	})
}
