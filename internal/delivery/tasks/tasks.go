package tasks

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tsumego/internal/adapters"
	"tsumego/internal/bootstrap"
	"tsumego/internal/domain/comment"
	"tsumego/internal/domain/task"
	appErrors "tsumego/internal/errors"
	"tsumego/internal/httpresponse"
	"tsumego/internal/repository"
	gameuc "tsumego/internal/usecase/game"
	"tsumego/internal/usecase/tasks"
	"tsumego/internal/utils"
)

type TaskHandler struct {
	log    *zap.SugaredLogger
	taskUC *tasks.TaskUseCase
}

func NewTaskHandler(log *zap.SugaredLogger, taskUC *tasks.TaskUseCase) *TaskHandler {
	return &TaskHandler{
		taskUC: taskUC,
		log:    log,
	}
}

func NewTaskHandlerFromAdapters(log *zap.SugaredLogger, cfg *bootstrap.Config, mongoAdapter *adapters.AdapterMongo) *TaskHandler {
	sessionCfg := gameuc.SessionConfig{DefaultSize: cfg.DefaultBoardSize, HistoryLimit: cfg.HistoryLimit}
	taskUC := tasks.NewTaskUseCase(
		repository.NewTaskStorage(cfg, log, mongoAdapter),
		repository.NewCommentStorage(log, mongoAdapter),
		log,
		sessionCfg,
	)
	return NewTaskHandler(log, taskUC)
}

func (th *TaskHandler) Routes(r chi.Router) {
	r.Get("/", th.HandleGetAvailableTasksForUser)
	r.Post("/import", th.HandleStoreInMongo)
	r.Route("/{number}", func(r chi.Router) {
		r.Get("/", th.HandleGetTask)
		r.Post("/attempt", th.HandleAttempt)
		r.Get("/comments", th.HandleGetComments)
		r.Post("/comments", th.HandleAddComment)
	})
}

func (th *TaskHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, appErrors.ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, appErrors.ErrInvalidPath),
		errors.Is(err, appErrors.ErrInvalidPoint),
		errors.Is(err, appErrors.ErrIllegalMove),
		errors.Is(err, appErrors.ErrInvalidComment),
		errors.Is(err, appErrors.ErrInvalidUserID),
		errors.Is(err, appErrors.ErrEmptyRecord):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		th.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, status, httpresponse.ErrorResponse{ErrorDescription: appErrors.ErrInternal.Error()})
		return
	}
	httpresponse.WriteResponseWithStatus(w, status, httpresponse.ErrorResponse{ErrorDescription: err.Error()})
}

func (th *TaskHandler) taskNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, httpresponse.ErrorResponse{ErrorDescription: "task number must be an integer"})
		return 0, false
	}
	return number, true
}

func (th *TaskHandler) HandleStoreInMongo(w http.ResponseWriter, r *http.Request) {
	taskPath := r.URL.Query().Get("path")
	imported, err := th.taskUC.PutTasksToMongoByPath(r.Context(), taskPath)
	if err != nil {
		th.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, task.ImportResponse{Imported: imported})
}

func (th *TaskHandler) HandleGetAvailableTasksForUser(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageNumInt, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		pageNumInt = 1
	}

	levelInt, err := strconv.Atoi(query.Get("level"))
	if err != nil {
		th.log.Warnw("bad task level", "level", query.Get("level"))
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, httpresponse.ErrorResponse{ErrorDescription: "level must be an integer"})
		return
	}

	taskResponse, err := th.taskUC.GetAvailableTasksForUserByIdByLevelByPage(r.Context(), query.Get("user_id"), pageNumInt, levelInt)
	if err != nil {
		th.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, taskResponse)
}

func (th *TaskHandler) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	number, ok := th.taskNumber(w, r)
	if !ok {
		return
	}
	view, err := th.taskUC.GetTask(r.Context(), number)
	if err != nil {
		th.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, view)
}

func (th *TaskHandler) HandleAttempt(w http.ResponseWriter, r *http.Request) {
	number, ok := th.taskNumber(w, r)
	if !ok {
		return
	}
	var req task.AttemptRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: httpresponse.MALFORMEDJSON_errorDesc})
		return
	}
	result, err := th.taskUC.Attempt(r.Context(), number, req)
	if err != nil {
		th.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, result)
}

func (th *TaskHandler) HandleGetComments(w http.ResponseWriter, r *http.Request) {
	number, ok := th.taskNumber(w, r)
	if !ok {
		return
	}
	resp, err := th.taskUC.Comments(r.Context(), number)
	if err != nil {
		th.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (th *TaskHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	number, ok := th.taskNumber(w, r)
	if !ok {
		return
	}
	var req comment.CreateRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: httpresponse.MALFORMEDJSON_errorDesc})
		return
	}
	added, err := th.taskUC.AddComment(r.Context(), number, req)
	if err != nil {
		th.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, added)
}
