package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	analysis "github.com/zhouzirui/charbot/internal/analysis/emotion"
	"github.com/zhouzirui/charbot/internal/model/chat"
	personaModel "github.com/zhouzirui/charbot/internal/model/persona"
	chatService "github.com/zhouzirui/charbot/internal/service/chat"
	"github.com/zhouzirui/charbot/internal/service/conversation"
	"github.com/zhouzirui/charbot/internal/service/emotion"
)

type fixedCompleter struct{}

func (fixedCompleter) Complete(context.Context, []chat.Message, int) (string, error) {
	return "hello", nil
}

func newTestRouter() http.Handler {
	moods := emotion.NewServiceWithScorer(analysis.ScorerFunc(func(string) float64 { return 0 }))
	convo := conversation.NewService(chatService.NewService(), fixedCompleter{}, moods, conversation.Config{})
	return NewRouter(personaModel.NewMemoryStore(personaModel.Seed()), convo)
}

func TestRouterRoutes(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/options", http.StatusOK},
		{http.MethodGet, "/api/personas", http.StatusOK},
		{http.MethodPost, "/api/session", http.StatusCreated},
		{http.MethodGet, "/api/session/missing", http.StatusNotFound},
		{http.MethodGet, "/api/stream/missing?message=hi", http.StatusNotFound},
		{http.MethodOptions, "/api/session", http.StatusNoContent},
	}

	for _, tc := range cases {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(tc.method, tc.path, nil))
		if resp.Code != tc.want {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, resp.Code)
		}
	}
}

func TestRouterHealthz(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
}
