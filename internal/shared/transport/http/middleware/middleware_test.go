package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Imperial/internal/shared/security"
	"Imperial/modules/kit/logx"
)

func newEngine(t *testing.T, signer *security.Signer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Cors(), AccessLog(logx.Nop()))
	r.GET("/open", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"code": 0}) })
	r.POST("/guarded", Auth(signer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": c.GetString(OperatorKey)})
	})
	return r
}

func TestAccessLog_透传trace头(t *testing.T) {
	r := newEngine(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(TraceHeader, "t-upstream")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t-upstream", w.Header().Get(TraceHeader))
}

func TestAccessLog_无trace头时生成(t *testing.T) {
	r := newEngine(t, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.NotEmpty(t, w.Header().Get(TraceHeader))
}

func TestCors_预检直接返回(t *testing.T) {
	r := newEngine(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/guarded", nil)
	req.Header.Set("Origin", "http://board.local")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://board.local", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuth(t *testing.T) {
	signer, err := security.NewSigner("secret", time.Hour)
	require.NoError(t, err)
	r := newEngine(t, signer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/guarded", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "缺少令牌")

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "非法令牌")

	token, err := signer.Award("referee")
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "referee")
}
