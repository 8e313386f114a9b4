package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/app"
	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/domain"
	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/repository/memory"
	httptransport "github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/transport/http"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) SendText(ctx context.Context, recipient, text string) (*app.DispatchResult, error) {
	args := m.Called(ctx, recipient, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.DispatchResult), args.Error(1)
}

func newMessageRouter(t *testing.T) (*chi.Mux, *MockDispatcher, *memory.MessageRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewMessageRepository()
	dispatcher := new(MockDispatcher)
	handler := httptransport.NewMessageHandler(dispatcher, repo, validator.New(), logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router, dispatcher, repo
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSendMessage_MissingFieldsReturn400(t *testing.T) {
	router, dispatcher, repo := newMessageRouter(t)

	for _, body := range []string{
		`{}`,
		`{"recipient_wa_id":"15550001111"}`,
		`{"message_text":"hello"}`,
		`{"recipient_wa_id":"","message_text":"hello"}`,
	} {
		rec := postJSON(router, "/send_message", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)

		var resp httptransport.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
	}

	assert.Empty(t, repo.All(context.Background()))
	dispatcher.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessage_InvalidJSONReturns400(t *testing.T) {
	router, _, _ := newMessageRouter(t)

	rec := postJSON(router, "/send_message", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessage_Success(t *testing.T) {
	router, dispatcher, _ := newMessageRouter(t)

	raw := json.RawMessage(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.sent1"}]}`)
	dispatcher.On("SendText", mock.Anything, "15550001111", "hello").
		Return(&app.DispatchResult{MessageID: "wamid.sent1", Response: raw}, nil)

	rec := postJSON(router, "/send_message", `{"recipient_wa_id":"15550001111","message_text":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httptransport.SendMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "wamid.sent1", resp.MessageID)
	assert.JSONEq(t, string(raw), string(resp.Data))
	dispatcher.AssertExpectations(t)
}

func TestSendMessage_UpstreamFailureReturns500(t *testing.T) {
	router, dispatcher, _ := newMessageRouter(t)

	dispatcher.On("SendText", mock.Anything, "15550001111", "hello").
		Return(nil, &domain.UpstreamError{StatusCode: 500, Body: `{"error":"boom"}`})

	rec := postJSON(router, "/send_message", `{"recipient_wa_id":"15550001111","message_text":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp httptransport.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "status 500")
}

func TestGetMessages_ReturnsSortedWithCount(t *testing.T) {
	router, _, repo := newMessageRouter(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.Append(ctx, domain.Message{ID: "m2", Sender: "a", Text: "second", Direction: domain.DirectionInbound, Timestamp: base.Add(time.Minute)})
	repo.Append(ctx, domain.Message{ID: "m1", Sender: "a", Text: "first", Direction: domain.DirectionInbound, Timestamp: base})
	repo.Append(ctx, domain.Message{ID: "m3", Sender: "a", Text: "third", Direction: domain.DirectionInbound, Timestamp: base.Add(2 * time.Minute)})

	req := httptest.NewRequest(http.MethodGet, "/get_messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httptransport.MessagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Messages, 3)
	assert.Equal(t, "m1", resp.Messages[0].ID)
	assert.Equal(t, "m2", resp.Messages[1].ID)
	assert.Equal(t, "m3", resp.Messages[2].ID)
}

func TestGetMessages_EmptyStore(t *testing.T) {
	router, _, _ := newMessageRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/get_messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"messages":[],"count":0}`, rec.Body.String())
}

func TestDebugMessages_ReturnsInsertionOrder(t *testing.T) {
	router, _, repo := newMessageRouter(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.Append(ctx, domain.Message{ID: "m2", Sender: "a", Text: "later ts first", Direction: domain.DirectionInbound, Timestamp: base.Add(time.Minute)})
	repo.Append(ctx, domain.Message{ID: "m1", Sender: "a", Text: "earlier ts second", Direction: domain.DirectionInbound, Timestamp: base})

	req := httptest.NewRequest(http.MethodGet, "/debug/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httptransport.DebugMessagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalMessages)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "m2", resp.Messages[0].ID)
	assert.Equal(t, "m1", resp.Messages[1].ID)
}
