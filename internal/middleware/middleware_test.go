package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secreto = "secreto-de-prueba"

func init() { gin.SetMode(gin.TestMode) }

func firmar(t *testing.T, rol string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  1,
		"username": "ana",
		"rol":      rol,
		"exp":      exp.Unix(),
	})
	s, err := tok.SignedString([]byte(secreto))
	require.NoError(t, err)
	return s
}

func protegido(roles ...string) *gin.Engine {
	r := gin.New()
	g := r.Group("/", JWTAuth(secreto))
	if len(roles) > 0 {
		g.Use(RequireRole(roles...))
	}
	g.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, Actor(c)) })
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := protegido()

	w := get(r, firmar(t, "cajero", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "basura").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, firmar(t, "cajero", time.Now().Add(-time.Minute))).Code)
}

func TestRequireRole(t *testing.T) {
	r := protegido("administrador")
	assert.Equal(t, http.StatusForbidden, get(r, firmar(t, "cajero", time.Now().Add(time.Hour))).Code)
	assert.Equal(t, http.StatusOK, get(r, firmar(t, "administrador", time.Now().Add(time.Hour))).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/:caso", func(c *gin.Context) {
		switch c.Param("caso") {
		case "404":
			_ = c.Error(fmt.Errorf("%w: venta 3", service.ErrNotFound))
		case "409":
			_ = c.Error(service.ErrSinTurnoAbierto)
		case "500":
			_ = c.Error(errors.New("pq: connection refused"))
		}
	})

	for caso, status := range map[string]int{"404": 404, "409": 409, "500": 500} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+caso, nil))
		assert.Equal(t, status, w.Code, caso)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/500", nil))
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(2, time.Minute)
	ahora := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return ahora }

	ok, _ := l.Permitir("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.Permitir("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.Permitir("1.1.1.1")
	assert.False(t, ok)
	ok, _ = l.Permitir("2.2.2.2")
	assert.True(t, ok)

	ahora = ahora.Add(2 * time.Minute)
	assert.Equal(t, 2, l.Purgar())
	ok, _ = l.Permitir("1.1.1.1")
	assert.True(t, ok)
}

func TestLimiterMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(NewLimiter(1, time.Minute).Middleware("Demasiadas solicitudes"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	w := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
