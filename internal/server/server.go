package server

import (
	"ctchen222/Todo-List/internal/api/controller"
	"ctchen222/Todo-List/internal/api/service"
	"ctchen222/Todo-List/internal/session"
	"ctchen222/Todo-List/web"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Server bundles the gin engine with everything the handlers need.
// It is built once at startup; handlers reach state only through it.
type Server struct {
	engine         *gin.Engine
	db             *sqlx.DB
	userService    service.UserService
	cookies        session.CookieOptions
	userController *controller.UserController
	taskController *controller.TaskController
}

// NewServer builds the engine, loads the templates and registers all routes.
func NewServer(DB *sqlx.DB, userService service.UserService, cookies session.CookieOptions, userController *controller.UserController, taskController *controller.TaskController) (*Server, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		engine:         engine,
		db:             DB,
		userService:    userService,
		cookies:        cookies,
		userController: userController,
		taskController: taskController,
	}
	s.RegisterRoutes()
	return s, nil
}

// Engine exposes the underlying http.Handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
