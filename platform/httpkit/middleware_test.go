package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"advisory_portal/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authConfig struct{ secret string }

func (a authConfig) GetAdminJWTSecret() string { return a.secret }
func (a authConfig) IsAdminAuthEnabled() bool  { return a.secret != "" }

func newTestEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	chain := append([]gin.HandlerFunc{RequestID()}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator": Operator(c), "requestId": RequestIDFrom(c)})
	})
	engine.GET("/", chain...)
	return engine
}

func TestOperatorRequiredAcceptsIssuedToken(t *testing.T) {
	token, err := IssueOperatorToken("maria", "s3cret", time.Hour)
	require.NoError(t, err)

	engine := newTestEngine(OperatorRequired(authConfig{secret: "s3cret"}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"operator":"maria"`)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestOperatorRequiredRejectsMissingAndForeignTokens(t *testing.T) {
	engine := newTestEngine(OperatorRequired(authConfig{secret: "s3cret"}))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	foreign, err := IssueOperatorToken("maria", "other-secret", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+foreign)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := IssueOperatorToken("maria", "s3cret", -time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOperatorRequiredPassesThroughWhenDisabled(t *testing.T) {
	engine := newTestEngine(OperatorRequired(authConfig{}))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"operator":"local"`)
}

func TestRequestIDHonoursCallerValue(t *testing.T) {
	engine := newTestEngine()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Contains(t, rec.Body.String(), `"requestId":"abc-123"`)
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	limiter := NewPerMinuteLimiter(2, logger.Nop())
	engine := newTestEngine(limiter.RateLimit())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestIssueOperatorTokenRequiresSubjectAndSecret(t *testing.T) {
	_, err := IssueOperatorToken(" ", "s3cret", time.Hour)
	assert.Error(t, err)
	_, err = IssueOperatorToken("maria", "", time.Hour)
	assert.Error(t, err)
}
