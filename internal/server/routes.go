package server

import (
	"context"
	"ctchen222/Todo-List/internal/api/middleware"
	"ctchen222/Todo-List/internal/api/response"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) RegisterRoutes() {
	r := s.engine
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.NoRoute(response.NotFound)

	r.GET("/healthz", s.healthHandler)

	r.GET("/register", s.userController.ShowRegister)
	r.POST("/register", s.userController.Register)
	r.GET("/login", s.userController.ShowLogin)
	r.POST("/login", s.userController.Login)

	authed := r.Group("/")
	authed.Use(middleware.RequireUser(s.userService, s.cookies))
	{
		authed.GET("/logout", s.userController.Logout)
		authed.GET("/", s.taskController.Index)
		authed.POST("/", s.taskController.Create)
		authed.GET("/task/:id/toggle", s.taskController.Toggle)
		authed.GET("/task/:id/delete", s.taskController.Delete)
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	stats := make(map[string]string)
	if err := s.db.PingContext(ctx); err != nil {
		slog.ErrorContext(ctx, "db down", "error", err)
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		response.ErrorResponseWith(c, http.StatusServiceUnavailable, stats)
		return
	}

	dbStats := s.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	response.SuccessResponse(c, stats)
}
