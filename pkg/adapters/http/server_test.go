package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pageflow"
	"github.com/aretw0/pageflow/pkg/adapters/memory"
	"github.com/aretw0/pageflow/pkg/conversation"
	"github.com/aretw0/pageflow/pkg/domain"
	"github.com/aretw0/pageflow/pkg/dsl"
	"github.com/aretw0/pageflow/pkg/session"
)

func newTestServer(t *testing.T, opts ...Option) (http.Handler, *session.Manager) {
	t.Helper()
	b := dsl.New()
	b.Add("main_menu").
		Buttons("Hello {patient_name}").
		Placeholder("patient_name", "there").
		Button("GO", "Go").
		Button("BACK", "Back").
		On("GO", domain.ToPage("detail").WithParameters(map[string]any{"seen": true})).
		Go("BACK", "main_menu")
	b.Add("detail").Text("Detail")

	loader, err := b.Build()
	require.NoError(t, err)
	eng, err := pageflow.New(pageflow.WithLoader(loader))
	require.NoError(t, err)

	mgr := session.NewManager(memory.NewStore())
	svc := conversation.New(eng, mgr)

	h, err := NewHandler(eng, append([]Option{WithConversation(svc, mgr)}, opts...)...)
	require.NoError(t, err)
	return h, mgr
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/sessions/{id}/events"))
}

func TestRender(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "POST", "/render", RenderRequest{Page: "main_menu", Context: domain.UserContext{"patient_name": "Ana"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hello Ana", resp.Presentation.Body)
	assert.Equal(t, domain.KindButtons, resp.Presentation.Kind)
	assert.Empty(t, resp.Error)
}

func TestRender_MissingPageFallsBack(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "POST", "/render", RenderRequest{Page: "missing_page"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Presentation.Fallback)
	assert.Equal(t, "main_menu", resp.Presentation.RestartAt)
	assert.Contains(t, resp.Error, "missing_page")
}

func TestRender_SchemaValidation(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "POST", "/render", map[string]any{"context": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	h, _ = newTestServer(t, WithRequestValidation(false))
	w = do(t, h, "POST", "/render", map[string]any{"context": map[string]any{}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSelect(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "POST", "/select", SelectRequest{Page: "main_menu", SelectionID: "GO"})
	require.Equal(t, http.StatusOK, w.Code)
	var out domain.Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Resolved())
	assert.Equal(t, "detail", out.Action.Target)
	assert.Equal(t, map[string]any{"seen": true}, out.SetParameters)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "context")

	w = do(t, h, "POST", "/select", SelectRequest{Page: "main_menu", SelectionID: "WRONG"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, domain.ReasonUnknownSelection, out.Reason)
}

func TestSelect_RejectsOversizedInput(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, "POST", "/select", SelectRequest{Page: "main_menu", SelectionID: strings.Repeat("x", 5000)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPages(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "GET", "/pages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pages []pageflow.Descriptor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pages))
	require.Len(t, pages, 2)
	assert.Equal(t, "detail", pages[0].Name)

	w = do(t, h, "GET", "/pages/main_menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d pageflow.Descriptor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, []string{"GO", "BACK"}, d.Controls)

	w = do(t, h, "GET", "/pages/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessions(t *testing.T) {
	h, mgr := newTestServer(t)

	w := do(t, h, "POST", "/sessions/s1/enter", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, "POST", "/sessions/s1/events", conversation.Event{SelectionID: "GO"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reply conversation.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "detail", reply.Page)
	require.NotNil(t, reply.Presentation)
	assert.Equal(t, "Detail", reply.Presentation.Body)

	w = do(t, h, "GET", "/sessions/s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sess domain.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, "detail", sess.Page)
	assert.Equal(t, true, sess.Context["seen"])

	w = do(t, h, "DELETE", "/sessions/s1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	_, err := mgr.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	w = do(t, h, "GET", "/sessions/s1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessions_MissingSelection(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, "POST", "/sessions/s1/events", map[string]any{"page": "main_menu"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, pageflow.Version, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	w = do(t, h, "GET", "/openapi.yaml", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestMetricsMount(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pageflow_renders_total 0\n"))
	})
	h, _ := newTestServer(t, WithMetrics(metrics))

	w := do(t, h, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pageflow_renders_total")
}

func TestSubscribeEvents_GlobalWithoutWatcher(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, "GET", "/events", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestSubscribeEvents_Session(t *testing.T) {
	h, _ := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events?session_id=s1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := make([]byte, 1024)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	require.Contains(t, string(buf[:n]), "event: ping")

	body, _ := json.Marshal(conversation.Event{SelectionID: "GO"})
	post, err := http.Post(srv.URL+"/sessions/s1/events", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusOK, post.StatusCode)

	var got strings.Builder
	for !strings.Contains(got.String(), `"seen":true`) {
		n, err := resp.Body.Read(buf)
		require.NoError(t, err)
		got.Write(buf[:n])
	}
	assert.Contains(t, got.String(), `"page":"detail"`)
}
