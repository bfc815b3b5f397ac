package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"WARNING", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewWithOutput(&bytes.Buffer{}, false, tt.level)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_ProductionUsesJSON(t *testing.T) {
	logger := NewWithOutput(&bytes.Buffer{}, true, "info")
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger = NewWithOutput(&bytes.Buffer{}, false, "info")
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, true, "info")

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping?x=1", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer secret-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/ping", entry["path"])
	assert.EqualValues(t, 200, entry["status"])
	assert.NotEmpty(t, entry["request_id"])
	assert.NotContains(t, buf.String(), "secret-token")
}
