package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/rohits-web03/ledger/internal/models"
	"github.com/rohits-web03/ledger/internal/repositories"
	"github.com/rohits-web03/ledger/internal/utils"
)

const presignTTL = 15 * time.Minute

// UploadFile godoc
// @Summary Attach a file to a project
// @Description Stores the binary under a generated name and records it against the project
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Project ID"
// @Param file formData file true "File to upload"
// @Param section_type formData string false "Section label, defaults to assets"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/projects/{id}/files [post]
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid file upload form")
		return
	}

	src, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		utils.Fail(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	if err != nil {
		h.handleError(w, err)
		return
	}
	defer src.Close()

	sectionType := r.FormValue("section_type")
	if sectionType == "" {
		sectionType = models.SectionAssets
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		mt, err := mimetype.DetectReader(src)
		if err != nil {
			h.handleError(w, err)
			return
		}
		contentType = mt.String()
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			h.handleError(w, err)
			return
		}
	}

	name := utils.NewStorageName(header.Filename)
	if err := h.blobs.Put(r.Context(), name, src, header.Size, contentType); err != nil {
		h.handleError(w, err)
		return
	}

	file, err := h.store.AddFile(r.Context(), id, sectionType, models.FileDescriptor{
		StorageName:  name,
		OriginalName: header.Filename,
		MimeType:     contentType,
	})
	if err != nil {
		h.discardBlob(r.Context(), name)
		h.handleError(w, err)
		return
	}

	h.log.Info("file uploaded",
		zap.Uint("project_id", id),
		zap.String("filename", name),
		zap.String("mime_type", contentType),
		zap.Int64("size", header.Size),
	)
	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "File uploaded",
		Data: map[string]any{
			"id":       file.ID,
			"filename": file.StorageName,
		},
	})
}

// discardBlob removes a binary whose row could not be written.
func (h *Handler) discardBlob(ctx context.Context, name string) {
	if err := h.blobs.Delete(context.WithoutCancel(ctx), name); err != nil {
		h.log.Warn("orphaned upload", zap.String("filename", name), zap.Error(err))
	}
}

// DeleteFile godoc
// @Summary Delete an attachment
// @Description Unknown ids are a no-op
// @Tags Files
// @Produce json
// @Param id path int true "File ID"
// @Success 200 {object} utils.Payload
// @Router /api/files/{id} [delete]
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteFile(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File deleted",
	})
}

// ServeUpload streams a stored binary, or redirects to a presigned URL when
// the backend can produce one.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if p, ok := h.blobs.(repositories.Presigner); ok {
		exists, err := h.blobs.Exists(r.Context(), name)
		var vErr *repositories.ValidationError
		if errors.As(err, &vErr) || (err == nil && !exists) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			h.handleError(w, err)
			return
		}

		url, err := p.PresignGet(r.Context(), name, presignTTL)
		if err != nil {
			h.handleError(w, err)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	rc, err := h.blobs.Open(r.Context(), name)
	if err != nil {
		var vErr *repositories.ValidationError
		if errors.Is(err, repositories.ErrBlobNotFound) || errors.As(err, &vErr) {
			http.NotFound(w, r)
			return
		}
		h.handleError(w, err)
		return
	}
	defer rc.Close()

	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, time.Time{}, rs)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, rc)
}
