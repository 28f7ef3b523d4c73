package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/urosevicvuk/raf-event-booker/internal/application"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/category"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/comment"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/lock"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/rsvp"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/tag"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/user"
)

// errorStatus はドメインエラーとHTTPステータスの対応
var errorStatus = []struct {
	err    error
	status int
}{
	{application.ErrUnauthenticated, http.StatusUnauthorized},

	{user.ErrAdminProtected, http.StatusForbidden},

	{event.ErrEventNotFound, http.StatusNotFound},
	{comment.ErrCommentNotFound, http.StatusNotFound},
	{category.ErrCategoryNotFound, http.StatusNotFound},
	{tag.ErrTagNotFound, http.StatusNotFound},
	{user.ErrUserNotFound, http.StatusNotFound},

	{rsvp.ErrAlreadyRegistered, http.StatusConflict},
	{category.ErrNameAlreadyExists, http.StatusConflict},
	{category.ErrCategoryHasEvents, http.StatusConflict},
	{user.ErrEmailAlreadyExists, http.StatusConflict},

	{user.ErrInvalidCredentials, http.StatusUnprocessableEntity},

	{rsvp.ErrCapacityExceeded, http.StatusBadRequest},
	{rsvp.ErrEventIDRequired, http.StatusBadRequest},
	{rsvp.ErrUserIdentifierRequired, http.StatusBadRequest},
	{event.ErrTitleRequired, http.StatusBadRequest},
	{event.ErrDescriptionRequired, http.StatusBadRequest},
	{event.ErrLocationRequired, http.StatusBadRequest},
	{event.ErrEventDateRequired, http.StatusBadRequest},
	{event.ErrCategoryRequired, http.StatusBadRequest},
	{event.ErrInvalidCapacity, http.StatusBadRequest},
	{event.ErrSearchTermRequired, http.StatusBadRequest},
	{category.ErrNameRequired, http.StatusBadRequest},
	{category.ErrDescriptionRequired, http.StatusBadRequest},
	{tag.ErrNameRequired, http.StatusBadRequest},
	{comment.ErrAuthorNameRequired, http.StatusBadRequest},
	{comment.ErrTextRequired, http.StatusBadRequest},
	{user.ErrInvalidEmail, http.StatusBadRequest},
	{user.ErrNameRequired, http.StatusBadRequest},
	{user.ErrInvalidRole, http.StatusBadRequest},
	{user.ErrInvalidStatus, http.StatusBadRequest},
	{user.ErrPasswordRequired, http.StatusBadRequest},
	{engagement.ErrUnknownAction, http.StatusBadRequest},
	{engagement.ErrSessionRequired, http.StatusBadRequest},

	{lock.ErrNotAcquired, http.StatusServiceUnavailable},
}

// toHTTPError はサービス層のエラーを *echo.HTTPError に変換する
// 既知のドメインエラーはそのメッセージを返し、それ以外は 500 として内部エラーを隠す
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return echo.NewHTTPError(m.status, m.err.Error()).SetInternal(err)
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "内部サーバーエラー").SetInternal(err)
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}

// bindAndValidate はリクエストボディを読み込み、検証する
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("リクエストの形式が不正です")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// pagination は limit / offset クエリを読み取る。不正な値は 0（既定値）として扱う
func pagination(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

type messageResponse struct {
	Message string `json:"message"`
}
