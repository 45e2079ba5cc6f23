package controller

import (
	"context"
	"ctchen222/Todo-List/internal/api/middleware"
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/api/response"
	"ctchen222/Todo-List/internal/api/service"
	"ctchen222/Todo-List/internal/session"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// TaskController serves the task list of the logged-in user.
// Every route it handles sits behind middleware.RequireUser.
type TaskController struct {
	taskService service.TaskService
	cookies     session.CookieOptions
}

// NewTaskController creates a new TaskController.
func NewTaskController(taskService service.TaskService, cookies session.CookieOptions) *TaskController {
	return &TaskController{taskService: taskService, cookies: cookies}
}

// Index renders the current user's tasks.
func (tc *TaskController) Index(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tasks, err := tc.taskService.List(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Page(c, "index.html", models.NewIndexView(user.Login, tasks, tc.cookies.Flashes(c)))
}

// Create adds a task from the form on the index page.
func (tc *TaskController) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req models.CreateTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		tc.cookies.AddFlash(c, err.Error())
		response.Redirect(c, "/")
		return
	}

	_, err := tc.taskService.Create(c.Request.Context(), user.ID, &req)
	if err != nil && !errors.Is(err, service.ErrValidation) {
		response.InternalError(c, err)
		return
	}
	if err != nil {
		tc.cookies.AddFlash(c, err.Error())
	}
	response.Redirect(c, "/")
}

// Toggle flips the done flag of a task.
func (tc *TaskController) Toggle(c *gin.Context) {
	tc.mutate(c, tc.taskService.Toggle)
}

// Delete removes a task.
func (tc *TaskController) Delete(c *gin.Context) {
	tc.mutate(c, tc.taskService.Delete)
}

func (tc *TaskController) mutate(c *gin.Context, op func(ctx context.Context, userID, taskID int64) error) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c)
		return
	}

	user := middleware.CurrentUser(c)
	err = op(c.Request.Context(), user.ID, taskID)
	switch {
	case err == nil:
		response.Redirect(c, "/")
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c)
	default:
		response.InternalError(c, err)
	}
}
