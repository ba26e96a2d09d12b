package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eatery/config"
	"eatery/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvent() *entity.AuditEvent {
	entityID := uuid.New()

	return &entity.AuditEvent{
		EntryID:    uuid.New(),
		EntityType: entity.EntityTypeMenu,
		EntityID:   &entityID,
		Action:     entity.AuditActionUpdate,
		RequestID:  "req-123",
		OccurredAt: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLocalHTTPPublisher_PublishAuditEvent(t *testing.T) {
	event := sampleEvent()

	var received PubSubPushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())
	require.NoError(t, publisher.PublishAuditEvent(context.Background(), event))

	assert.Equal(t, "req-123", requestID)
	assert.Equal(t, event.EntryID.String(), received.Message.MessageID)
	assert.Equal(t, "2025-05-01T12:00:00Z", received.Message.PublishTime)
	assert.Equal(t, "menu", received.Message.Attributes["entity_type"])
	assert.Equal(t, "UPDATE", received.Message.Attributes["action"])
	assert.Equal(t, event.EntityID.String(), received.Message.Attributes["entity_id"])

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)
	var decoded entity.AuditEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.EntryID, decoded.EntryID)
	assert.Equal(t, event.Action, decoded.Action)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())
	err := publisher.PublishAuditEvent(context.Background(), sampleEvent())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNewEventPublisher(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.PubSubConfig
		wantErr bool
	}{
		{name: "not configured uses noop", cfg: nil},
		{name: "empty provider uses noop", cfg: &config.PubSubConfig{}},
		{name: "local provider", cfg: &config.PubSubConfig{Provider: "local", LocalEndpoint: "http://localhost:9999/push"}},
		{name: "local provider without endpoint", cfg: &config.PubSubConfig{Provider: "local"}, wantErr: true},
		{name: "google provider without project", cfg: &config.PubSubConfig{Provider: "google", TopicID: "audit"}, wantErr: true},
		{name: "google provider without topic", cfg: &config.PubSubConfig{Provider: "google", ProjectID: "p"}, wantErr: true},
		{name: "unknown provider", cfg: &config.PubSubConfig{Provider: "kafka"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			publisher, err := NewEventPublisher(PublisherParams{
				Lc:     lc,
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.cfg},
				Logger: discardLogger(),
			})
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, publisher)
			lc.RequireStart().RequireStop()
		})
	}
}

func TestNoopPublisher(t *testing.T) {
	publisher := &noopPublisher{logger: discardLogger()}

	assert.NoError(t, publisher.PublishAuditEvent(context.Background(), sampleEvent()))
	assert.NoError(t, publisher.Close())
}
