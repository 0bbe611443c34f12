package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"restaurant/internal/i18n"
	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// echoに定数がない
const headerAcceptLanguage = "Accept-Language"

// エラー時のレスポンス
type ErrorResponse struct {
	Message string `json:"message"`
}

// Responder はエラーを利用者の言語の {message} にして返す
type Responder struct {
	cat *i18n.Catalog
	log *zap.Logger
}

func NewResponder(cat *i18n.Catalog, log *zap.Logger) *Responder {
	return &Responder{cat: cat, log: log}
}

// echoのHTTPErrorHandlerとして登録する
func (r *Responder) HandleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, code, args := classify(err)
	if status >= http.StatusInternalServerError {
		r.log.Error("request_failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("code", code),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	msg := r.cat.Lookup(c.Request().Header.Get(headerAcceptLanguage), code, args...)
	_ = c.JSON(status, ErrorResponse{Message: msg})
}

func classify(err error) (int, string, []any) {
	if he, ok := usecase.AsHTTPError(err); ok {
		return he.Status, he.Code, he.Args
	}

	var ee *echo.HTTPError
	if errors.As(err, &ee) {
		switch ee.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return ee.Code, "route.not_found", nil
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
			return ee.Code, "request.invalid_body", nil
		case http.StatusUnauthorized:
			return ee.Code, "auth.unauthorized", nil
		default:
			return ee.Code, i18n.DefaultCode, nil
		}
	}

	//500
	return http.StatusInternalServerError, i18n.DefaultCode, nil
}

func invalidBody(err error) error {
	return usecase.WrapHTTPError(usecase.ErrInvalidInput, err, "request.invalid_body")
}

func invalidQuery(err error) error {
	return usecase.WrapHTTPError(usecase.ErrInvalidInput, err, "query.invalid")
}

// クエリの整数。空ならdef
func intQuery(c echo.Context, key string, def int, code string) (int, error) {
	v := c.QueryParam(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, usecase.WrapHTTPError(usecase.ErrInvalidInput, err, code)
	}
	return n, nil
}

func decimalQuery(c echo.Context, key string) (*decimal.Decimal, error) {
	v := c.QueryParam(key)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, invalidQuery(err)
	}
	return &d, nil
}

// RFC3339の時刻
func timeQuery(c echo.Context, key string) (*time.Time, error) {
	v := c.QueryParam(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, invalidQuery(err)
	}
	return &t, nil
}

func boolQuery(c echo.Context, key string) (bool, error) {
	v := c.QueryParam(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, invalidQuery(err)
	}
	return b, nil
}
