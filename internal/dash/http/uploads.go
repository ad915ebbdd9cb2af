package http

import (
	"io"
	"mime"
	"net/http"

	"github.com/datadash-io/datadash/internal/dash/domain"
	"github.com/datadash-io/datadash/internal/dash/service"
	"github.com/datadash-io/datadash/pkg/httpx"
)

// uploadFieldName is the multipart form field holding the file.
const uploadFieldName = "file"

type UploadsHandler struct {
	UploadService *service.UploadService
}

type uploadResponse struct {
	Message string            `json:"message"`
	File    domain.StoredFile `json:"file"`
}

// HandleUpload accepts one multipart file and stores it under a server-chosen
// name owned by the authenticated account.
func (h *UploadsHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	src, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		writeServiceError(w, r, service.ErrNoFile)
		return
	}
	defer src.Close()

	ownerID := httpx.AccountIDFromCtx(r.Context())
	stored, err := h.UploadService.StoreFile(r.Context(), ownerID, header.Filename, src)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, uploadResponse{
		Message: "file uploaded successfully",
		File:    stored,
	})
}

// HandleDownload streams a stored blob back byte-for-byte.
func (h *UploadsHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	f, record, err := h.UploadService.OpenFile(r.Context(), r.PathValue("storedName"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer f.Close()

	// FormatMediaType quotes and escapes the client-supplied name so it
	// cannot break the header grammar.
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": record.OriginalName})
	if disposition == "" {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", disposition)
	_, _ = io.Copy(w, f)
}
