package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/validate"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type registerRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Phone    string         `json:"phone"`
	Address  models.RawJSON `json:"address"`
	Answer   string         `json:"answer"`
}

// blank reports whether a free-form JSON value carries nothing.
func blank(j models.RawJSON) bool {
	s := strings.TrimSpace(string(j))
	return j.IsZero() || s == `""` || s == "{}" || s == "[]"
}

func (a *AuthController) Register(c *ctx.Context) {
	var in registerRequest
	if err := c.BindJSON(&in); err != nil {
		c.Fail(http.StatusBadRequest, "Invalid request body", err)
		return
	}

	required := []struct {
		missing bool
		message string
	}{
		{in.Name == "", "Name is Required"},
		{in.Email == "", "Email is Required"},
		{in.Password == "", "Password is Required"},
		{in.Phone == "", "Phone no is Required"},
		{blank(in.Address), "Address is Required"},
		{in.Answer == "", "Answer is Required"},
	}
	for _, r := range required {
		if r.missing {
			c.OK(ctx.H{"message": r.message})
			return
		}
	}

	if !validate.Email(in.Email) {
		c.Fail(http.StatusBadRequest, "Email is invalid", nil)
		return
	}

	user, err := a.service.Register(c.Context(), services.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Phone:    in.Phone,
		Address:  in.Address,
		Answer:   in.Answer,
	})
	if errors.Is(err, services.ErrEmailTaken) {
		c.OK(ctx.H{"success": false, "message": "Already Register please login"})
		return
	}
	if err != nil {
		c.Log().Error("register", "error", err)
		c.Fail(http.StatusInternalServerError, "Error in Registration", err)
		return
	}

	c.Created(ctx.H{"success": true, "message": "User Register Successfully", "user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthController) Login(c *ctx.Context) {
	var in loginRequest
	if err := c.BindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		c.Fail(http.StatusNotFound, "Invalid email or password", nil)
		return
	}

	user, token, err := a.service.Login(c.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, services.ErrEmailNotRegistered):
		c.Fail(http.StatusNotFound, "Email is not registerd", nil)
		return
	case errors.Is(err, services.ErrInvalidPassword):
		c.Fail(http.StatusNotFound, "Invalid Password", nil)
		return
	case err != nil:
		c.Log().Error("login", "error", err)
		c.Fail(http.StatusInternalServerError, "Error in login", err)
		return
	}

	c.OK(ctx.H{"success": true, "message": "login successfully", "user": user, "token": token})
}

type forgotPasswordRequest struct {
	Email       string `json:"email"`
	Answer      string `json:"answer"`
	NewPassword string `json:"newPassword"`
}

func (a *AuthController) ForgotPassword(c *ctx.Context) {
	var in forgotPasswordRequest
	if err := c.BindJSON(&in); err != nil {
		c.Fail(http.StatusBadRequest, "Invalid request body", err)
		return
	}

	switch {
	case in.Email == "":
		c.JSON(http.StatusBadRequest, ctx.H{"message": "Email is required"})
		return
	case in.Answer == "":
		c.JSON(http.StatusBadRequest, ctx.H{"message": "Answer is required"})
		return
	case in.NewPassword == "":
		c.JSON(http.StatusBadRequest, ctx.H{"message": "New Password is required"})
		return
	}

	err := a.service.ResetPassword(c.Context(), in.Email, in.Answer, in.NewPassword)
	if errors.Is(err, services.ErrWrongAnswer) {
		c.Fail(http.StatusNotFound, "Wrong Email Or Answer", nil)
		return
	}
	if err != nil {
		c.Log().Error("forgot password", "error", err)
		c.Fail(http.StatusInternalServerError, "Something went wrong", err)
		return
	}

	c.OK(ctx.H{"success": true, "message": "Password Reset Successfully"})
}

type profileRequest struct {
	Name     string         `json:"name"`
	Password string         `json:"password"`
	Phone    string         `json:"phone"`
	Address  models.RawJSON `json:"address"`
}

func (a *AuthController) UpdateProfile(c *ctx.Context) {
	userID, ok := c.UserID()
	if !ok {
		c.Fail(http.StatusBadRequest, "No user found", nil)
		return
	}

	var in profileRequest
	if err := c.BindJSON(&in); err != nil {
		c.Fail(http.StatusBadRequest, "Error While Update profile", err)
		return
	}

	user, err := a.service.UpdateProfile(c.Context(), userID, services.ProfileInput{
		Name:     in.Name,
		Password: in.Password,
		Phone:    in.Phone,
		Address:  in.Address,
	})
	if errors.Is(err, services.ErrPasswordTooShort) {
		c.OK(ctx.H{"error": "Password is required and 6 character long"})
		return
	}
	if err != nil {
		c.Log().Error("update profile", "user_id", userID, "error", err)
		c.Fail(http.StatusBadRequest, "Error While Update profile", err)
		return
	}

	c.OK(ctx.H{"success": true, "message": "Profile Updated Successfully", "updatedUser": user})
}

// Ping answers {ok:true}; it sits behind the sign-in and admin guards.
func (a *AuthController) Ping(c *ctx.Context) {
	c.OK(ctx.H{"ok": true})
}

func (a *AuthController) Users(c *ctx.Context) {
	users, err := a.service.Users(c.Context())
	if err != nil {
		c.Log().Error("list users", "error", err)
		c.OK(ctx.H{"success": false, "message": "Error while getting users", "error": err.Error()})
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.OK(ctx.H{"success": true, "users": users})
}
