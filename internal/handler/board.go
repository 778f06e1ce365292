package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/objective-board/internal/controller"
	"github.com/BuzzLyutic/objective-board/internal/model"
	"github.com/BuzzLyutic/objective-board/internal/store"
	"github.com/BuzzLyutic/objective-board/pkg/respond"
)

var errBadID = errors.New("invalid task id")

type BoardHandler struct {
	ctrl   *controller.Controller
	logger *zap.Logger
}

func NewBoardHandler(ctrl *controller.Controller, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		ctrl:   ctrl,
		logger: logger,
	}
}

type editResponse struct {
	TaskID int64  `json:"task_id"`
	Draft  string `json:"draft"`
}

type groupResponse struct {
	Period    model.Period `json:"period"`
	Title     string       `json:"title"`
	Tasks     []model.Task `json:"tasks"`
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
}

type boardResponse struct {
	Loading   bool            `json:"loading"`
	Input     string          `json:"input"`
	Period    model.Period    `json:"period"`
	Editing   *editResponse   `json:"editing"`
	Total     int             `json:"total"`
	Completed int             `json:"completed"`
	Groups    []groupResponse `json:"groups"`
	Error     string          `json:"error,omitempty"`
}

func newBoardResponse(v controller.View) boardResponse {
	resp := boardResponse{
		Loading:   v.Loading,
		Input:     v.Input,
		Period:    v.Period,
		Total:     v.Total,
		Completed: v.Completed,
		Groups:    make([]groupResponse, 0, len(v.Groups)),
	}
	if e, ok := v.Edit.(controller.Editing); ok {
		resp.Editing = &editResponse{TaskID: e.TaskID, Draft: e.Draft}
	}
	for _, g := range v.Groups {
		resp.Groups = append(resp.Groups, groupResponse{
			Period:    g.Period,
			Title:     g.Title,
			Tasks:     g.Tasks,
			Completed: g.Completed,
			Total:     len(g.Tasks),
		})
	}
	if v.Err != nil {
		resp.Error = v.Err.Error()
	}
	return resp
}

func (h *BoardHandler) Board(w http.ResponseWriter, r *http.Request) {
	h.board(w, r, http.StatusOK)
}

func (h *BoardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Reload(r.Context()); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	h.board(w, r, http.StatusOK)
}

type inputRequest struct {
	Text   *string `json:"text"`
	Period *string `json:"period"`
}

func (h *BoardHandler) SetInput(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Period != nil {
		p, err := model.ParsePeriod(*req.Period)
		if err != nil {
			h.handleErrors(w, r, err)
			return
		}
		if err := h.ctrl.SetPeriod(p); err != nil {
			h.handleErrors(w, r, err)
			return
		}
	}
	if req.Text != nil {
		h.ctrl.SetInput(*req.Text)
	}
	h.board(w, r, http.StatusOK)
}

type createRequest struct {
	Title  string `json:"title"`
	Period string `json:"period"`
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// без периода берем выбранный на доске
	period := h.ctrl.View().Period
	if req.Period != "" {
		p, err := model.ParsePeriod(req.Period)
		if err != nil {
			h.handleErrors(w, r, err)
			return
		}
		period = p
	}

	task, err := h.ctrl.SubmitNewTask(r.Context(), req.Title, period)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	h.board(w, r, http.StatusCreated)
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	if err := h.ctrl.DeleteTask(r.Context(), id); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	h.board(w, r, http.StatusOK)
}

func (h *BoardHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	if _, err := h.ctrl.ToggleCompleted(r.Context(), id); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	h.board(w, r, http.StatusOK)
}

func (h *BoardHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	if err := h.ctrl.BeginEdit(id); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	h.board(w, r, http.StatusOK)
}

type draftRequest struct {
	Draft *string `json:"draft"`
}

func (h *BoardHandler) SetDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Draft == nil {
		respond.Error(w, r, http.StatusBadRequest, "draft is required")
		return
	}

	if err := h.ctrl.SetDraft(*req.Draft); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	h.board(w, r, http.StatusOK)
}

// CommitEdit сохраняет активное редактирование. Тело необязательно:
// {"draft": "..."} заменяет черновик перед сохранением.
func (h *BoardHandler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if r.ContentLength != 0 {
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	if req.Draft != nil {
		if err := h.ctrl.SetDraft(*req.Draft); err != nil {
			h.handleErrors(w, r, err)
			return
		}
	}

	editing, ok := h.ctrl.Edit().(controller.Editing)
	if !ok {
		h.handleErrors(w, r, controller.ErrNotEditing)
		return
	}

	if _, err := h.ctrl.CommitEdit(r.Context(), editing.TaskID, editing.Draft); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	h.board(w, r, http.StatusOK)
}

func (h *BoardHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.ctrl.CancelEdit()
	h.board(w, r, http.StatusOK)
}

func (h *BoardHandler) board(w http.ResponseWriter, r *http.Request, code int) {
	respond.JSON(w, r, code, newBoardResponse(h.ctrl.View()))
}

func taskID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

func (h *BoardHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadID):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, controller.ErrBlankInput):
		respond.Error(w, r, http.StatusBadRequest, "title is blank")
	case errors.Is(err, store.ErrValidation), errors.Is(err, model.ErrInvalidPeriod):
		respond.Error(w, r, http.StatusBadRequest, "validation error")
	case errors.Is(err, controller.ErrUnknownTask), errors.Is(err, store.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, controller.ErrNotEditing):
		respond.Error(w, r, http.StatusConflict, "no task is being edited")
	case store.IsStoreError(err):
		h.logger.Warn("store error", zap.Error(err))
		respond.Error(w, r, http.StatusBadGateway, "store unavailable")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
