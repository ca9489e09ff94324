package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskd/internal/models"
	"github.com/adanyl0v/taskd/internal/services"
)

// localDateTimeLayout is the zone-less form sent by browser date pickers.
// Such values are taken as UTC. Parsed due dates keep millisecond precision,
// the precision they are stored with.
const localDateTimeLayout = "2006-01-02T15:04:05"

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"taskStatus"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	UserID      int64      `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
	}
}

type taskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description" binding:"max=4096"`
	Status      string  `json:"status" binding:"required"`
	Priority    int     `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

func (r taskRequest) params() (services.TaskParams, apiError, bool) {
	status, err := models.ParseStatus(r.Status)
	if err != nil {
		return services.TaskParams{}, newBadRequestError(err.Error()), false
	}

	dueDate, err := parseDueDate(r.DueDate)
	if err != nil {
		return services.TaskParams{}, newBadRequestError(err.Error()), false
	}

	return services.TaskParams{
		Title:       r.Title,
		Description: r.Description,
		Status:      status,
		Priority:    r.Priority,
		DueDate:     dueDate,
	}, apiError{}, true
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, localDateTimeLayout} {
		t, err := time.Parse(layout, *raw)
		if err == nil {
			t = t.UTC().Truncate(time.Millisecond)
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", errInvalidDueDate, *raw)
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, _ := userIDFromContext(c)

	params, ok := h.bindTask(c)
	if !ok {
		return
	}

	task, err := h.tasks.CreateTask(c, userID, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, _ := userIDFromContext(c)

	tasks, err := h.tasks.ListTasks(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, serviceError(err))
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	userID, _ := userIDFromContext(c)

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, userID, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to get task")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, _ := userIDFromContext(c)

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	params, ok := h.bindTask(c)
	if !ok {
		return
	}

	task, err := h.tasks.UpdateTask(c, userID, taskID, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to update task")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, _ := userIDFromContext(c)

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.DeleteTask(c, userID, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) bindTask(c *gin.Context) (services.TaskParams, bool) {
	var req taskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return services.TaskParams{}, false
	}

	params, apiErr, ok := req.params()
	if !ok {
		h.logger.Error().
			Str("reason", apiErr.Message).
			Msg("invalid task request")
		abort(c, apiErr)
		return services.TaskParams{}, false
	}
	return params, true
}

func (h *handlerImpl) taskIDParam(c *gin.Context) (int64, bool) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || taskID <= 0 {
		h.logger.Error().
			Str("id", c.Param("id")).
			Msg("invalid task id")
		abort(c, newBadRequestError(errInvalidTaskID.Error()))
		return 0, false
	}
	return taskID, true
}
