package handler

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eatery/config"
	"eatery/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPushHandler(buf io.Writer) *PushHandler {
	cfg := &config.Config{}
	cfg.Env.Env = "local"

	return NewPushHandler(PushHandlerParams{
		Config: cfg,
		Logger: slog.New(slog.NewJSONHandler(buf, nil)),
	})
}

func pushBody(t *testing.T, data string, attributes map[string]string) string {
	t.Helper()

	var msg PubSubMessage
	msg.Message.Data = data
	msg.Message.Attributes = attributes
	msg.Message.MessageID = "m-1"
	msg.Subscription = "projects/local/subscriptions/audit-sub"

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(raw)
}

func encodeEvent(t *testing.T, event *entity.AuditEvent) string {
	t.Helper()

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(raw)
}

func push(h *PushHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h.HandlePush(e.NewContext(req, rec))

	return rec
}

func TestPushHandler_LogsAuditEvent(t *testing.T) {
	var logs strings.Builder
	h := newTestPushHandler(&logs)

	entityID := uuid.New()
	event := &entity.AuditEvent{
		EntryID:    uuid.New(),
		EntityType: entity.EntityTypeRestaurant,
		EntityID:   &entityID,
		Action:     entity.AuditActionStatusChange,
		RequestID:  "from-payload",
		OccurredAt: time.Now().UTC(),
	}

	rec := push(h, pushBody(t, encodeEvent(t, event), map[string]string{"request_id": "from-attributes"}))
	require.Equal(t, http.StatusOK, rec.Code)

	out := logs.String()
	assert.Contains(t, out, event.EntryID.String())
	assert.Contains(t, out, entityID.String())
	assert.Contains(t, out, `"request_id":"from-attributes"`)
	assert.Contains(t, out, string(entity.AuditActionStatusChange))
}

func TestPushHandler_RejectsMalformedMessages(t *testing.T) {
	tests := []struct {
		name string
		body func(t *testing.T) string
	}{
		{name: "not json", body: func(*testing.T) string { return "{" }},
		{name: "not base64", body: func(t *testing.T) string { return pushBody(t, "%%%", nil) }},
		{name: "not an event", body: func(t *testing.T) string {
			return pushBody(t, base64.StdEncoding.EncodeToString([]byte("[]")), nil)
		}},
		{name: "missing entry id", body: func(t *testing.T) string {
			return pushBody(t, encodeEvent(t, &entity.AuditEvent{Action: entity.AuditActionCreate}), nil)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := push(newTestPushHandler(io.Discard), tc.body(t))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPushHandler_VerifiesTokensOnlyForGoogleOutsideDev(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		env      string
		want     bool
	}{
		{name: "google in production", provider: "google", env: "production", want: true},
		{name: "google in develop", provider: "google", env: "develop"},
		{name: "local provider", provider: "local", env: "production"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: tc.provider}}
			cfg.Env.Env = tc.env

			h := NewPushHandler(PushHandlerParams{Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
			assert.Equal(t, tc.want, h.verifyPushAuth)
		})
	}

	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: "google"}}
	cfg.Env.Env = "production"
	h := NewPushHandler(PushHandlerParams{Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	rec := push(h, pushBody(t, "", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing token")
}
