package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dealership/adapters/session"
)

const (
	SESSION_KEY_USER_ID  = "user_id"
	SESSION_KEY_USERNAME = "username"
)

func (impl *ServerImpl) SessionMiddleware() gin.HandlerFunc {
	opts := []session.MiddlewareOption{
		session.WithCookieMaxAge(impl.config.Session.CookieMaxAge),
		session.WithCookieSecure(impl.config.Session.CookieSecure),
		session.WithCookieSameSite(impl.config.Session.CookieSameSite),
	}
	if impl.config.Session.KeyForCookie != "" {
		opts = append(opts, session.WithSessionKeyForCookie(impl.config.Session.KeyForCookie))
	}
	return session.GinMiddleware(impl.sessionStore, opts...)
}

// RequireAdmin 阻擋沒有登入的請求並導向登入頁
func (impl *ServerImpl) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := currentSession(c)
		if s != nil && s.Get(SESSION_KEY_USER_ID) != "" {
			c.Next()
			return
		}
		message := "Login required."
		if c.FullPath() == "/admin/" {
			message = "Please log in to access admin."
		}
		redirectWithFlash(c, "/login", session.FlashWarning, message)
		c.Abort()
	}
}

// currentSession 取得目前請求的 session，無法載入時回傳 nil
func currentSession(c *gin.Context) session.ISession {
	const op = "currentSession"
	s, err := session.GetSession(c)
	if err != nil {
		slog.Error("Fail to get session", slog.String("op", op), slog.Any("error", err))
		return nil
	}
	return s
}

func saveSession(s session.ISession) {
	const op = "saveSession"
	if err := s.Save(); err != nil {
		slog.Error("Fail to save session", slog.String("op", op), slog.Any("error", err))
	}
}

// redirectWithFlash 加入提示訊息後以 303 導向 location
func redirectWithFlash(c *gin.Context, location, category, message string) {
	if s := currentSession(c); s != nil {
		session.AddFlash(s, category, message)
		saveSession(s)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// popNotices 取出目前 session 中尚未顯示的提示訊息
func popNotices(c *gin.Context) []session.Flash {
	s := currentSession(c)
	if s == nil {
		return []session.Flash{}
	}
	flashes := session.PopFlashes(s)
	if flashes == nil {
		return []session.Flash{}
	}
	saveSession(s)
	return flashes
}
