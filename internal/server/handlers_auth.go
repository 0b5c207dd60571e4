package server

import (
	"net/http"
	"time"

	"github.com/Sekyls/job-recruitment-backend/internal/app"
	apperrors "github.com/Sekyls/job-recruitment-backend/internal/errors"
	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dateOfBirth"`
	Role        string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	// Accept a bare date or a full timestamp.
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		dob, err = time.Parse(time.RFC3339, req.DateOfBirth)
		if err != nil {
			return apperrors.ValidationError("dateOfBirth must be YYYY-MM-DD")
		}
	}

	user, err := s.accounts.Register(c.Request().Context(), app.RegisterRequest{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		DateOfBirth: dob,
		Role:        req.Role,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	token, user, err := s.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}
