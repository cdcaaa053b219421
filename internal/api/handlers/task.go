package handlers

import (
	"net/http"

	"github.com/rohits-web03/ledger/internal/models"
	"github.com/rohits-web03/ledger/internal/utils"
)

type todoRequest struct {
	Task     string              `json:"task" validate:"required"`
	Priority models.TodoPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
}

type todoStatusRequest struct {
	Status models.TodoStatus `json:"status" validate:"required,oneof=pending completed"`
}

type hoursRequest struct {
	Date        string  `json:"date" validate:"required"`
	Duration    float64 `json:"duration" validate:"gt=0"`
	Description string  `json:"description"`
}

// AddTodo godoc
// @Summary Add a todo
// @Tags Todos
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param todo body todoRequest true "Todo"
// @Success 201 {object} utils.Payload{data=models.Todo}
// @Router /api/projects/{id}/todos [post]
func (h *Handler) AddTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input todoRequest
	if !h.decodeJSON(w, r, &input) {
		return
	}

	todo, err := h.store.AddTodo(r.Context(), id, input.Task, input.Priority)
	if err != nil {
		h.handleError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Todo added",
		Data:    todo,
	})
}

// SetTodoStatus godoc
// @Summary Tick or untick a todo
// @Tags Todos
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param status body todoStatusRequest true "Status"
// @Success 200 {object} utils.Payload
// @Router /api/todos/{id} [patch]
func (h *Handler) SetTodoStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input todoStatusRequest
	if !h.decodeJSON(w, r, &input) {
		return
	}

	n, err := h.store.SetTodoStatus(r.Context(), id, input.Status)
	if err != nil {
		h.handleError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Todo updated",
		Data:    map[string]int64{"updated": n},
	})
}

// AddHours godoc
// @Summary Log hours
// @Tags Hours
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param entry body hoursRequest true "Hours entry"
// @Success 201 {object} utils.Payload{data=models.HoursEntry}
// @Router /api/projects/{id}/hours [post]
func (h *Handler) AddHours(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input hoursRequest
	if !h.decodeJSON(w, r, &input) {
		return
	}

	entry, err := h.store.AddHours(r.Context(), id, input.Date, input.Duration, input.Description)
	if err != nil {
		h.handleError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Hours logged",
		Data:    entry,
	})
}
