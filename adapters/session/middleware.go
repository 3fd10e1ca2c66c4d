package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	DefaultSessionKeyForContext = "dealership-session-context"
	DefaultSessionKeyForCookie  = "dealership_session"
)

var ErrSessionNotFound = errors.New("session not found")

// MiddlewareOptions 包含所有 session middleware 的設定選項
type MiddlewareOptions struct {
	sessionKeyForCookie  string        // session 在 cookie 中的 key
	sessionKeyForContext string        // session 在 context 中的 key
	cookieMaxAge         time.Duration // cookie 的過期時間
	cookiePath           string        // cookie 的路徑
	cookieDomain         string        // cookie 的域名
	cookieSecure         bool          // 是否只在 HTTPS 連線中傳送 cookie
	cookieHTTPOnly       bool          // 是否禁止 JavaScript 訪問 cookie
	cookieSameSite       http.SameSite // cookie 的 SameSite 屬性
}

// MiddlewareOption 定義設定選項的函數類型
type MiddlewareOption func(*MiddlewareOptions)

// WithSessionKeyForCookie 設定 session 在 cookie 中的 key
func WithSessionKeyForCookie(key string) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.sessionKeyForCookie = key
	}
}

// WithSessionKeyForContext 設定 session 在 context 中的 key
func WithSessionKeyForContext(key string) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.sessionKeyForContext = key
	}
}

// WithCookieMaxAge 設定 cookie 的過期時間
func WithCookieMaxAge(maxAge time.Duration) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.cookieMaxAge = maxAge
	}
}

// WithCookiePath 設定 cookie 的路徑
func WithCookiePath(path string) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.cookiePath = path
	}
}

// WithCookieDomain 設定 cookie 的域名
func WithCookieDomain(domain string) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.cookieDomain = domain
	}
}

// WithCookieSecure 設定是否只在 HTTPS 連線中傳送 cookie
func WithCookieSecure(secure bool) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.cookieSecure = secure
	}
}

// WithCookieHTTPOnly 設定是否禁止 JavaScript 訪問 cookie
func WithCookieHTTPOnly(httpOnly bool) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.cookieHTTPOnly = httpOnly
	}
}

// WithCookieSameSite 設定 cookie 的 SameSite 屬性(lax、strict、none)
func WithCookieSameSite(sameSite string) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.cookieSameSite = ParseSameSite(sameSite)
	}
}

// ParseSameSite 將設定字串轉為 http.SameSite，無法辨識時使用 Lax
func ParseSameSite(sameSite string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(sameSite)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// GinMiddleware 建立一個 gin 的 session middleware
func GinMiddleware(store IStore, opts ...MiddlewareOption) gin.HandlerFunc {
	options := MiddlewareOptions{
		sessionKeyForCookie:  DefaultSessionKeyForCookie,
		sessionKeyForContext: DefaultSessionKeyForContext,
		cookieMaxAge:         24 * time.Hour,
		cookiePath:           "/",
		cookieDomain:         "",
		cookieSecure:         true,
		cookieHTTPOnly:       true,
		cookieSameSite:       http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(options.sessionKeyForCookie)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.New().String()
		}

		// cookie 必須在 handler 寫出 response 之前設定
		setCookie := func(id string) {
			dropCookie(c.Writer.Header(), options.sessionKeyForCookie)
			c.SetSameSite(options.cookieSameSite)
			c.SetCookie(
				options.sessionKeyForCookie,
				id,
				int(options.cookieMaxAge/time.Second),
				options.cookiePath,
				options.cookieDomain,
				options.cookieSecure,
				options.cookieHTTPOnly,
			)
		}
		setCookie(sessionID)

		session := newSession(c.Request.Context(), sessionID, store, setCookie)
		c.Set(options.sessionKeyForContext, ISession(session))

		c.Next()
	}
}

// dropCookie 移除 response 中已設定的同名 cookie
func dropCookie(header http.Header, name string) {
	prefix := name + "="
	kept := make([]string, 0, len(header.Values("Set-Cookie")))
	for _, v := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	header.Del("Set-Cookie")
	for _, v := range kept {
		header.Add("Set-Cookie", v)
	}
}

// GetSession 從 context 中取得 session
func GetSession(ctx context.Context, opts ...MiddlewareOption) (ISession, error) {
	const op = "session.GetSession"
	options := MiddlewareOptions{
		sessionKeyForContext: DefaultSessionKeyForContext,
	}
	for _, opt := range opts {
		opt(&options)
	}
	v := ctx.Value(options.sessionKeyForContext)
	if v == nil {
		return nil, ErrSessionNotFound
	}
	session, ok := v.(ISession)
	if !ok {
		return nil, fmt.Errorf("[%s] Invalid session type in context", op)
	}
	if err := session.Load(); err != nil {
		return nil, fmt.Errorf("[%s] Fail to load session, err=%w", op, err)
	}

	return session, nil
}
