package middleware

import (
	"bytes"
	log "log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Default()
	log.SetDefault(log.New(log.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { log.SetDefault(prev) })
	return &buf
}

func TestAuditMiddleware_RecordsActorAndBodies(t *testing.T) {
	buf := captureLog(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuditMiddleware())
	r.POST("/api/actions/toggle", func(c *gin.Context) {
		c.Set("user_id", uint64(7))
		raw, _ := c.GetRawData()
		c.String(http.StatusOK, "echo:"+string(raw))
	})
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodPost, "/api/actions/toggle", strings.NewReader(`{"target_id":1}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, `echo:{"target_id":1}`, w.Body.String(), "handler still sees the body")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit", entry["msg"])
	assert.Equal(t, "/api/actions/toggle", entry["route"])
	assert.EqualValues(t, 7, entry["user_id"])
	assert.Equal(t, `{"target_id":1}`, entry["req_body"])
	assert.Equal(t, `echo:{"target_id":1}`, entry["res_body"])

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, buf.String())
}

func TestAuditMiddleware_TruncatesLargeResponses(t *testing.T) {
	buf := captureLog(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuditMiddleware())
	big := strings.Repeat("x", maxAuditBody+100)
	r.GET("/api/posts", func(c *gin.Context) { c.String(http.StatusOK, big) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	assert.Len(t, w.Body.String(), len(big))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Len(t, entry["res_body"], maxAuditBody)
}

func TestCheckRoles(t *testing.T) {
	captureLog(t)
	gin.SetMode(gin.TestMode)
	serveWith := func(roles []string) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set("roles", roles) }, CheckRoles("ADMIN", "MODERATOR"))
		r.GET("/api/moderation/posts", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/moderation/posts", nil))
		return w
	}

	assert.Equal(t, "ok", serveWith([]string{"USER", "MODERATOR"}).Body.String())
	denied := serveWith([]string{"USER"})
	assert.NotEqual(t, "ok", denied.Body.String())
	assert.Contains(t, denied.Body.String(), `"code":403`)
	assert.Contains(t, serveWith(nil).Body.String(), `"code":403`)
}
