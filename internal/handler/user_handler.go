/*
Package handler provides HTTP handler functions for profile management,
mood submission, match discovery, and the websocket relay upgrade.
*/
package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"moodlink/internal/pkg/errs"
	"moodlink/internal/pkg/req"
	"moodlink/internal/pkg/resp"
)

const (
	// MaxAvatarSizeBytes is the maximum allowed avatar image size (5 MB).
	MaxAvatarSizeBytes = 5 * 1024 * 1024

	// presignDuration is how long a generated avatar upload URL stays valid.
	presignDuration = 5 * time.Minute
)

// allowedAvatarMIMETypes is the set of permitted MIME types for avatar uploads.
var allowedAvatarMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// extToMIME maps avatar file extensions to their corresponding MIME types.
var extToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// UpdateUserInput is the request body for POST /api/v1/user/update.
type UpdateUserInput struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// HandleUpdateUser upserts a user profile. The row is replaced entirely;
// omitted fields arrive as empty strings and overwrite prior values.
func HandleUpdateUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input UpdateUserInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.UserID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := deps.Store.UpsertUser(r.Context(), input.UserID, input.Username, input.Avatar); err != nil {
			resp.RespondError(w, r, errs.NewStoreError(err))
			return
		}

		resp.RespondStatusOK(w, r)
	}
}

// PresignAvatarInput is the request body for POST /api/v1/user/avatar/presign.
type PresignAvatarInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignAvatarURL issues a presigned PUT URL so the client can upload
// an avatar image directly to object storage. The client then stores the
// resulting URL on its profile via /user/update.
func HandlePresignAvatarURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Storage == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageNotConfigured))
			return
		}

		var input PresignAvatarInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := validateAvatarFile(input.FileName, input.MimeType, input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := fmt.Sprintf("avatars/%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(input.FileName)))

		uploadURL, err := deps.Storage.PresignUpload(r.Context(), key, strings.ToLower(input.MimeType), input.FileSize, presignDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrPresignFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"uploadUrl": uploadURL,
			"key":       key,
		})
	}
}

// validateAvatarFile checks size, MIME type, and that the file extension agrees
// with the declared MIME type.
func validateAvatarFile(fileName, mimeType string, fileSize int64) *errs.CustomError {
	if fileSize <= 0 || fileSize > MaxAvatarSizeBytes {
		return errs.NewError(errs.ErrInvalidParams)
	}

	lowerMimeType := strings.ToLower(mimeType)
	if _, ok := allowedAvatarMIMETypes[lowerMimeType]; !ok {
		return errs.NewError(errs.ErrInvalidParams)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	expectedMIME, ok := extToMIME[ext]
	if !ok || expectedMIME != lowerMimeType {
		return errs.NewError(errs.ErrInvalidParams)
	}

	return nil
}
