package http_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/app"
	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/domain"
	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/repository/memory"
	httptransport "github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/transport/http"
)

func newWebhookRouter(t *testing.T) (*chi.Mux, *memory.MessageRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewMessageRepository()
	processor := app.NewWebhookProcessor(repo, logger)
	handler := httptransport.NewWebhookHandler(processor, "secret-token", logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router, repo
}

func TestWebhookVerification(t *testing.T) {
	router, _ := newWebhookRouter(t)

	tests := []struct {
		name       string
		mode       string
		token      string
		challenge  string
		wantStatus int
		wantBody   string
	}{
		{
			name: "valid handshake echoes challenge",
			mode: "subscribe", token: "secret-token", challenge: "1158201444",
			wantStatus: http.StatusOK, wantBody: "1158201444",
		},
		{
			name: "wrong token",
			mode: "subscribe", token: "wrong", challenge: "1158201444",
			wantStatus: http.StatusForbidden, wantBody: "Verification failed",
		},
		{
			name: "wrong mode",
			mode: "unsubscribe", token: "secret-token", challenge: "1158201444",
			wantStatus: http.StatusForbidden, wantBody: "Verification failed",
		},
		{
			name:       "missing parameters",
			wantStatus: http.StatusForbidden, wantBody: "Verification failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			if tt.mode != "" {
				q.Set("hub.mode", tt.mode)
			}
			if tt.token != "" {
				q.Set("hub.verify_token", tt.token)
			}
			if tt.challenge != "" {
				q.Set("hub.challenge", tt.challenge)
			}

			req := httptest.NewRequest(http.MethodGet, "/webhook?"+q.Encode(), nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestWebhookEvent_StoresInboundMessage(t *testing.T) {
	router, repo := newWebhookRouter(t)

	body := `{
	  "object": "whatsapp_business_account",
	  "entry": [{
	    "id": "entry-1",
	    "changes": [{
	      "field": "messages",
	      "value": {
	        "messaging_product": "whatsapp",
	        "messages": [{
	          "from": "15559998888",
	          "id": "wamid.in1",
	          "timestamp": "1700000001",
	          "type": "text",
	          "text": {"body": "hello gateway"}
	        }]
	      }
	    }]
	  }]
	}`

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EVENT_RECEIVED", rec.Body.String())

	stored := repo.All(req.Context())
	require.Len(t, stored, 1)
	assert.Equal(t, "hello gateway", stored[0].Text)
	assert.Equal(t, domain.DirectionInbound, stored[0].Direction)
}

func TestWebhookEvent_MalformedJSONIsStillAcknowledged(t *testing.T) {
	router, repo := newWebhookRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// The provider retries on non-200; a body we cannot parse is logged
	// and acknowledged, never stored.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EVENT_RECEIVED", rec.Body.String())
	assert.Empty(t, repo.All(req.Context()))
}

func TestWebhookEvent_NonMessageCallbackIsNoop(t *testing.T) {
	router, repo := newWebhookRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(`{"object":"page","entry":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.All(req.Context()))
}
