package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-todo-service/internal/models"
	"github.com/pribylovaa/go-todo-service/internal/transport/http/httperr"
)

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	var in createTodoRequest
	if err := decodeStrict(r, &in); err != nil {
		writeBadRequest(w, r)
		return
	}

	todo, err := h.svc.CreateTodo(r.Context(), user.ID, in.Title, in.Description)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, todoToResponse(todo))
}

func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	// completed — необязательный фильтр: ?completed=true|false.
	var completed *bool
	if raw := r.URL.Query().Get("completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeBadRequest(w, r)
			return
		}
		completed = &v
	}

	todos, err := h.svc.TodosByUser(r.Context(), user.ID, completed)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	out := make([]todoResponse, 0, len(todos))
	for i := range todos {
		out = append(out, todoToResponse(&todos[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) GetTodo(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	todo, err := h.svc.TodoByID(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todoToResponse(todo))
}

func (h *Handlers) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	var in updateTodoRequest
	if err := decodeStrict(r, &in); err != nil {
		writeBadRequest(w, r)
		return
	}

	patch := models.TodoPatch{
		Title:       in.Title,
		Description: in.Description,
		IsCompleted: in.IsCompleted,
	}

	todo, err := h.svc.UpdateTodo(r.Context(), user.ID, chi.URLParam(r, "id"), patch)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todoToResponse(todo))
}

func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeleteTodo(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
