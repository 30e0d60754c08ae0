package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskgate/internal/platform/logger"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = SetTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")

	assert.NotEqual(t, id, GetTraceID(SetTraceID(context.Background())))
	assert.Equal(t, "abc", GetTraceID(WithTraceID(ctx, "abc")))
}

type body struct {
	TaskDescription string `json:"task_description" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
		ok      bool
	}{
		{name: "valid", payload: `{"task_description":"x"}`, ok: true},
		{name: "unknown field", payload: `{"task_description":"x","extra":1}`},
		{name: "malformed", payload: `{"task_description":`},
		{name: "trailing value", payload: `{"task_description":"x"}{"task_description":"y"}`, wantErr: ErrTrailingData},
		{name: "too large", payload: `{"task_description":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(tc.payload))
			var v body
			err := DecodeJSON(httptest.NewRecorder(), r, &v)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, "x", v.TaskDescription)
				return
			}
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return errors.New("not ok")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(body{TaskDescription: "x"}))
	assert.Error(t, ValidateRequest(body{}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.EqualError(t, ValidateRequest(selfValidating{}), "not ok")
}

func TestRespondWithJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithJSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusAccepted, map[string]string{"task_id": "1"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"task_id":"1"}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	r := httptest.NewRequest(http.MethodPost, "/tasks", nil)
	ctx := WithTraceID(logger.WithLogger(r.Context(), log), "trace-1")
	r = r.WithContext(ctx)

	w := httptest.NewRecorder()
	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "An unexpected error occurred",
		errors.New("dial tcp: api_key=sk-abcdefghijklmnopqrstuvwx refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "An unexpected error occurred", resp.Error)
	assert.Equal(t, "trace-1", resp.TraceID)
	assert.NotContains(t, w.Body.String(), "dial tcp")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.Equal(t, "trace-1", entries[0]["trace_id"])
	assert.NotContains(t, entries[0]["error"], "sk-abcdefghijklmnopqrstuvwx")
}

func TestLogLevelFor(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogLevelFor(http.StatusBadRequest))
	assert.Equal(t, slog.LevelDebug, LogLevelFor(http.StatusNotFound))
	assert.Equal(t, slog.LevelWarn, LogLevelFor(http.StatusServiceUnavailable))
	assert.Equal(t, slog.LevelError, LogLevelFor(http.StatusInternalServerError))
}
