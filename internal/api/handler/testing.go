package handler

import (
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/urosevicvuk/raf-event-booker/internal/api"
)

// NewTestEcho はサーバーと同じバリデーターとエラーハンドラーを持つ Echo を返す
// ログやメトリクスのミドルウェアは登録しない
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}

// Serve は JSON ボディ付きのリクエストを e に流し、記録したレスポンスを返す
// body が空ならボディなしで送る
func Serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// StatusOf は Serve の結果のステータスコードだけが必要な場合の省略形
func StatusOf(e *echo.Echo, method, target string) int {
	return Serve(e, method, target, "").Code
}
