package controller

import (
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/api/response"
	"ctchen222/Todo-List/internal/api/service"
	"ctchen222/Todo-List/internal/session"
	"errors"

	"github.com/gin-gonic/gin"
)

const (
	msgLoginExists        = "Login already exists"
	msgRegistered         = "Registered! You can now log in."
	msgInvalidCredentials = "Invalid login or password"
)

// UserController handles registration, login and logout.
type UserController struct {
	userService service.UserService
	cookies     session.CookieOptions
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService, cookies session.CookieOptions) *UserController {
	return &UserController{
		userService: userService,
		cookies:     cookies,
	}
}

// ShowRegister renders the registration form.
func (uc *UserController) ShowRegister(c *gin.Context) {
	response.Page(c, "register.html", models.AuthView{Flashes: uc.cookies.Flashes(c)})
}

// Register handles the registration form.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		uc.cookies.AddFlash(c, err.Error())
		response.Redirect(c, "/register")
		return
	}

	_, err := uc.userService.Register(c.Request.Context(), &req)
	switch {
	case err == nil:
		uc.cookies.AddFlash(c, msgRegistered)
		response.Redirect(c, "/login")
	case errors.Is(err, service.ErrDuplicateLogin):
		uc.cookies.AddFlash(c, msgLoginExists)
		response.Redirect(c, "/register")
	case errors.Is(err, service.ErrValidation):
		uc.cookies.AddFlash(c, err.Error())
		response.Redirect(c, "/register")
	default:
		response.InternalError(c, err)
	}
}

// ShowLogin renders the login form.
func (uc *UserController) ShowLogin(c *gin.Context) {
	response.Page(c, "login.html", models.AuthView{Flashes: uc.cookies.Flashes(c)})
}

// Login handles the login form and sets the session cookie on success.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		uc.cookies.AddFlash(c, err.Error())
		response.Redirect(c, "/login")
		return
	}

	token, err := uc.userService.Login(c.Request.Context(), &req)
	switch {
	case err == nil:
		uc.cookies.SetCookie(c, token)
		response.Redirect(c, "/")
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrValidation):
		uc.cookies.AddFlash(c, msgInvalidCredentials)
		response.Redirect(c, "/login")
	default:
		response.InternalError(c, err)
	}
}

// Logout ends the current session.
func (uc *UserController) Logout(c *gin.Context) {
	if err := uc.userService.Logout(c.Request.Context(), session.Token(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	uc.cookies.ClearCookie(c)
	response.Redirect(c, "/login")
}
