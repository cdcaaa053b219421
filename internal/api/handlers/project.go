package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/rohits-web03/ledger/internal/handover"
	"github.com/rohits-web03/ledger/internal/models"
	"github.com/rohits-web03/ledger/internal/utils"
)

type createProjectRequest struct {
	Name       string `json:"name" validate:"required"`
	ClientName string `json:"client_name"`
}

type sectionRequest struct {
	SectionType string  `json:"section_type" validate:"required"`
	Content     *string `json:"content"`
}

// ListProjects godoc
// @Summary List projects
// @Description All projects, newest first, each with its derived thumbnail
// @Tags Projects
// @Produce json
// @Success 200 {object} utils.Payload{data=[]models.Project}
// @Router /api/projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Projects fetched",
		Data:    projects,
	})
}

// CreateProject godoc
// @Summary Create a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body createProjectRequest true "Project"
// @Success 201 {object} utils.Payload{data=models.Project}
// @Failure 400 {object} utils.Payload
// @Router /api/projects [post]
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var input createProjectRequest
	if !h.decodeJSON(w, r, &input) {
		return
	}

	project, err := h.store.CreateProject(r.Context(), input.Name, input.ClientName)
	if err != nil {
		h.handleError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Project created",
		Data:    project,
	})
}

// GetProject godoc
// @Summary Project detail
// @Description Project with its sections, todos, hours and files
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.Payload{data=models.ProjectDetail}
// @Failure 404 {object} utils.Payload
// @Router /api/projects/{id} [get]
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.store.GetProjectDetail(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Project fetched",
		Data:    detail,
	})
}

// UpdateProject godoc
// @Summary Partially update a project
// @Description Unknown ids are a no-op; check data.updated
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param patch body models.ProjectPatch true "Fields to change"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/projects/{id} [patch]
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var patch models.ProjectPatch
	if !h.decodeJSON(w, r, &patch) {
		return
	}

	n, err := h.store.UpdateProject(r.Context(), id, patch)
	if err != nil {
		h.handleError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Project updated",
		Data:    map[string]int64{"updated": n},
	})
}

// DeleteProject godoc
// @Summary Delete a project and everything attached to it
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/projects/{id} [delete]
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	n, err := h.store.DeleteProject(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Project deleted",
		Data:    map[string]int64{"changes": n},
	})
}

// UpsertSection godoc
// @Summary Write a section
// @Description Inserts the section or replaces the content of the existing one of that type
// @Tags Sections
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param section body sectionRequest true "Section"
// @Success 200 {object} utils.Payload{data=models.Section}
// @Router /api/projects/{id}/section [patch]
func (h *Handler) UpsertSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input sectionRequest
	if !h.decodeJSON(w, r, &input) {
		return
	}

	section, err := h.store.UpsertSection(r.Context(), id, input.SectionType, input.Content)
	if err != nil {
		h.handleError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Section saved",
		Data:    section,
	})
}

// ExportProject godoc
// @Summary Download the handover document
// @Tags Projects
// @Produce html
// @Param id path int true "Project ID"
// @Success 200 {string} string "HTML document"
// @Failure 404 {object} utils.Payload
// @Router /api/projects/{id}/export [get]
func (h *Handler) ExportProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.store.GetProjectDetail(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	// render fully before writing so a template failure can still be a 500
	var buf bytes.Buffer
	if err := handover.Render(&buf, detail, h.now()); err != nil {
		h.handleError(w, err)
		return
	}

	filename := handover.Filename(detail.Name)
	h.log.Info("handover exported", zap.Uint("project_id", id), zap.String("filename", filename))

	w.Header().Set("Content-Type", handover.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
