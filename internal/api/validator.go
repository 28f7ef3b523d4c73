package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/user"
)

// CustomValidator は echo.Validator の実装
// エラーは JSON フィールド名を使った日本語メッセージの 400 に変換する
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return user.Role(fl.Field().String()).IsValid()
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return echo.NewHTTPError(http.StatusBadRequest, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " は必須です"
	case "email":
		return fe.Field() + " はメールアドレスの形式ではありません"
	case "role":
		return fe.Field() + " は admin または creator を指定してください"
	case "oneof":
		return fmt.Sprintf("%s は %s のいずれかを指定してください", fe.Field(), fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s は %s 以上で指定してください", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s は %s 以下で指定してください", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s が不正です (%s)", fe.Field(), fe.Tag())
	}
}
