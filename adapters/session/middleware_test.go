package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(store IStore, opts ...MiddlewareOption) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(store, opts...))
	r.GET("/visit", func(c *gin.Context) {
		s, err := GetSession(c)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		visits := s.Get("visits") + "x"
		s.Set("visits", visits)
		if err := s.Save(); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, visits)
	})
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	require.FailNow(t, "session cookie not set")
	return nil
}

func TestGinMiddleware_SetsCookieBeforeResponse(t *testing.T) {
	router := newTestRouter(NewMemoryStore(time.Minute), WithCookieSecure(false), WithCookieSameSite("strict"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/visit", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w, DefaultSessionKeyForCookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestGinMiddleware_ReusesSession(t *testing.T) {
	router := newTestRouter(NewMemoryStore(time.Minute), WithCookieSecure(false))

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/visit", nil))
	cookie := sessionCookie(t, first, DefaultSessionKeyForCookie)

	req := httptest.NewRequest(http.MethodGet, "/visit", nil)
	req.AddCookie(cookie)
	second := httptest.NewRecorder()
	router.ServeHTTP(second, req)

	assert.Equal(t, "x", first.Body.String())
	assert.Equal(t, "xx", second.Body.String())
	assert.Equal(t, cookie.Value, sessionCookie(t, second, DefaultSessionKeyForCookie).Value)
}

func TestGinMiddleware_ReplacesMalformedID(t *testing.T) {
	router := newTestRouter(NewMemoryStore(time.Minute), WithSessionKeyForCookie("sid"))

	req := httptest.NewRequest(http.MethodGet, "/visit", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc/passwd"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	cookie := sessionCookie(t, w, "sid")
	assert.NotEqual(t, "../../etc/passwd", cookie.Value)
	assert.True(t, cookie.Secure)
}

func TestGetSession_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := GetSession(c)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestParseSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteStrictMode, ParseSameSite("Strict"))
	assert.Equal(t, http.SameSiteNoneMode, ParseSameSite("none"))
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSite("lax"))
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSite(""))
}

func TestGinMiddleware_RegenerateReplacesCookie(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	router := newTestRouter(store, WithCookieSecure(false))
	router.GET("/login", func(c *gin.Context) {
		s, err := GetSession(c)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		s.Regenerate()
		s.Set("user", "admin")
		if err := s.Save(); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, s.ID())
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/visit", nil))
	before := sessionCookie(t, first, DefaultSessionKeyForCookie)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(before)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var values []string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == DefaultSessionKeyForCookie {
			values = append(values, cookie.Value)
		}
	}
	require.Len(t, values, 1)
	assert.NotEqual(t, before.Value, values[0])
	assert.Equal(t, w.Body.String(), values[0])

	old, err := store.Load(req.Context(), before.Value)
	require.NoError(t, err)
	assert.Empty(t, old)
	renewed, err := store.Load(req.Context(), values[0])
	require.NoError(t, err)
	assert.Equal(t, "admin", renewed["user"])
}
