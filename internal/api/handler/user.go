package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/urosevicvuk/raf-event-booker/internal/application"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/user"
)

// UserHandler はログインとユーザー管理のハンドラー
// ログイン以外は認可ゲートにより管理者のみ到達する
type UserHandler struct {
	userService  UserServiceInterface
	loginService LoginServiceInterface
}

func NewUserHandler(userService UserServiceInterface, loginService LoginServiceInterface) *UserHandler {
	return &UserHandler{userService: userService, loginService: loginService}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"admin@raf.rs"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	JWT string `json:"jwt"`
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	UserType  string `json:"user_type" validate:"required,role" example:"creator"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive" example:"active"`
	Password  string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	UserType  string `json:"user_type" validate:"required,role"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// UserResponse はユーザー情報。パスワードハッシュは含めない
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toUserResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserType:  string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// Login godoc
// @Summary ログイン
// @Description 認証情報を検証してベアラートークンを発行します
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "認証情報"
// @Success 200 {object} LoginResponse
// @Failure 422 {object} api.ErrorResponse
// @Router /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	raw, err := h.loginService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, LoginResponse{JWT: raw})
}

// Create godoc
// @Summary ユーザーを作成（管理者のみ）
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "ユーザー情報"
// @Success 201 {object} UserResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.userService.CreateUser(c.Request().Context(), application.CreateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      user.Role(req.UserType),
		Status:    user.Status(req.Status),
		Password:  req.Password,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

func (h *UserHandler) GetByID(c echo.Context) error {
	u, err := h.userService.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) GetByEmail(c echo.Context) error {
	u, err := h.userService.GetUserByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// List は type クエリで権限を絞り込める
func (h *UserHandler) List(c echo.Context) error {
	limit, offset := pagination(c)
	users, err := h.userService.ListUsers(c.Request().Context(), user.Role(c.QueryParam("type")), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	responses := make([]*UserResponse, len(users))
	for i, u := range users {
		responses[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *UserHandler) Update(c echo.Context) error {
	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.userService.UpdateUser(c.Request().Context(), application.UpdateUserInput{
		ID:        c.Param("id"),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      user.Role(req.UserType),
		Status:    user.Status(req.Status),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Activate(c echo.Context) error {
	u, err := h.userService.ActivateUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Deactivate は管理者に対しては 403
func (h *UserHandler) Deactivate(c echo.Context) error {
	u, err := h.userService.DeactivateUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.userService.ChangePassword(c.Request().Context(), c.Param("id"), req.Password); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "パスワードを変更しました"})
}

// Delete は管理者に対しては 403
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userService.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
