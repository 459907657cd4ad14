package controller

import (
	"context"
	"net/http"
	"strconv"

	httpdto "github.com/vibast-solutions/ms-go-tasks/app/dto/http"
	"github.com/vibast-solutions/ms-go-tasks/app/entity"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type taskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	FindByID(ctx context.Context, userID, id uint64) (*entity.Task, error)
	ListByUserID(ctx context.Context, userID uint64) ([]*entity.Task, error)
	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, userID, id uint64) (int64, error)
}

type TaskController struct {
	taskRepo taskRepository
}

func NewTaskController(taskRepo taskRepository) *TaskController {
	return &TaskController{taskRepo: taskRepo}
}

func (c *TaskController) Create(ctx echo.Context) error {
	user, ok := ctx.Get("user").(*entity.User)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	req, err := httpdto.NewCreateTaskRequestFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}
	if err = req.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	task := &entity.Task{
		Task:   req.Task,
		UserID: user.ID,
	}
	if err := c.taskRepo.Create(ctx.Request().Context(), task); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Create task failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusCreated, taskResponse(task))
}

func (c *TaskController) List(ctx echo.Context) error {
	user, ok := ctx.Get("user").(*entity.User)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	tasks, err := c.taskRepo.ListByUserID(ctx.Request().Context(), user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("List tasks failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}
	if len(tasks) == 0 {
		return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "no tasks found"})
	}

	responses := make([]httpdto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskResponse(task))
	}
	return ctx.JSON(http.StatusOK, responses)
}

func (c *TaskController) Get(ctx echo.Context) error {
	user, ok := ctx.Get("user").(*entity.User)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	id, err := parseTaskID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid task id"})
	}

	task, err := c.taskRepo.FindByID(ctx.Request().Context(), user.ID, id)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Get task failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}
	if task == nil {
		return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "task not found"})
	}

	return ctx.JSON(http.StatusOK, taskResponse(task))
}

func (c *TaskController) Update(ctx echo.Context) error {
	user, ok := ctx.Get("user").(*entity.User)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	id, err := parseTaskID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid task id"})
	}

	req, err := httpdto.NewUpdateTaskRequestFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}
	if err = req.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	task, err := c.taskRepo.FindByID(ctx.Request().Context(), user.ID, id)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Update task failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}
	if task == nil {
		return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "task not found"})
	}

	task.Task = req.Task
	task.IsCompleted = req.IsCompleted
	if err := c.taskRepo.Update(ctx.Request().Context(), task); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Update task failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, taskResponse(task))
}

func (c *TaskController) Delete(ctx echo.Context) error {
	user, ok := ctx.Get("user").(*entity.User)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	id, err := parseTaskID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid task id"})
	}

	deleted, err := c.taskRepo.Delete(ctx.Request().Context(), user.ID, id)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Delete task failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}
	if deleted == 0 {
		return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "task not found"})
	}

	return ctx.JSON(http.StatusAccepted, httpdto.MessageResponse{Message: "task successfully deleted"})
}

func parseTaskID(ctx echo.Context) (uint64, error) {
	return strconv.ParseUint(ctx.Param("id"), 10, 64)
}

func taskResponse(task *entity.Task) httpdto.TaskResponse {
	return httpdto.TaskResponse{
		ID:          task.ID,
		Task:        task.Task,
		IsCompleted: task.IsCompleted,
		UserID:      task.UserID,
	}
}
