package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// 请求体与响应体各最多保留 16KB
const maxAuditBody = 16 << 10

// 探活与指标接口不审计
var auditSkipPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

type auditWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *auditWriter) Write(b []byte) (int, error) {
	if room := maxAuditBody - w.body.Len(); room > 0 {
		w.body.Write(b[:min(room, len(b))])
	}
	return w.ResponseWriter.Write(b)
}

func (w *auditWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// AuditMiddleware 每个请求落一条审计日志，包含操作者、请求与响应体
// user_id 在后续鉴权中间件写入，因此在 c.Next 之后读取
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, skip := auditSkipPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(reqBody))
		}
		if len(reqBody) > maxAuditBody {
			reqBody = reqBody[:maxAuditBody]
		}

		w := &auditWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		start := time.Now()

		c.Next()

		log.InfoContext(c.Request.Context(), "audit",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"query", c.Request.URL.Query().Encode(),
			"user_id", c.GetUint64("user_id"),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"req_body", string(reqBody),
			"res_body", w.body.String(),
		)
	}
}
