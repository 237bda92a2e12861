package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopcart/config"
	deliverycontext "shopcart/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(NewRequestIDMiddleware(logger).Process)
	e.GET("/", func(c echo.Context) error {
		ctx := c.Request().Context()
		deliverycontext.GetLoggerOrDefault(ctx, slog.Default()).Info("inside")

		return c.String(http.StatusOK, deliverycontext.GetRequestIDFromContext(ctx))
	})

	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{name: "reuses caller id", incoming: "abc-123", reuse: true},
		{name: "generates when missing", incoming: ""},
		{name: "replaces oversized id", incoming: strings.Repeat("x", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.incoming)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			got := rec.Header().Get(deliverycontext.HeaderXRequestID)
			require.NotEmpty(t, got)
			assert.Equal(t, got, rec.Body.String())
			assert.Contains(t, buf.String(), `"request_id":"`+got+`"`)
			if tt.reuse {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.NotEqual(t, tt.incoming, got)
				assert.LessOrEqual(t, len(got), maxRequestIDLength)
			}
		})
	}
}

func TestLoggerMiddleware(t *testing.T) {
	newServer := func(debug bool, buf *bytes.Buffer) *echo.Echo {
		cfg := &config.Config{}
		cfg.Env.Debug = debug

		e := echo.New()
		e.Use(NewLoggerMiddleware(slog.New(slog.NewJSONHandler(buf, nil)), cfg).Handle)
		e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		e.GET("/fail", func(echo.Context) error { return echo.NewHTTPError(http.StatusTeapot, "teapot") })

		return e
	}

	do := func(e *echo.Echo, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		return rec
	}

	var quiet bytes.Buffer
	e := newServer(false, &quiet)
	assert.Equal(t, http.StatusOK, do(e, "/ok").Code)
	assert.Empty(t, quiet.String())

	rec := do(e, "/fail")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, quiet.String(), `"status":418`)
	assert.Contains(t, quiet.String(), `"level":"WARN"`)

	var verbose bytes.Buffer
	e = newServer(true, &verbose)
	do(e, "/ok?page=2")
	assert.Contains(t, verbose.String(), `"status":200`)
	assert.Contains(t, verbose.String(), `"query":"page=2"`)
}

