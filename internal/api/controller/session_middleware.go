package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ctchen222/hotseat-tictactoe/internal/api/service"
	"ctchen222/hotseat-tictactoe/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName is the cookie carrying the signed session token.
	CookieName = "ttt_session"

	sessionKey = "session"
)

// SessionMiddleware resolves the session of the request from its cookie,
// starting a new one when the cookie is missing, invalid or expired. The
// cookie is reissued on every request so it expires only after the page has
// been idle for ttl.
func SessionMiddleware(games service.GameService, tokens service.TokenService, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if raw, err := c.Cookie(CookieName); err == nil && raw != "" {
			id, err := tokens.Parse(raw)
			if err == nil {
				sess, err := games.State(ctx, id)
				if err == nil {
					if err := setSessionCookie(c, tokens, sess.ID, ttl); err != nil {
						slog.ErrorContext(ctx, "failed to renew session token", "session.id", sess.ID, "error", err)
						c.AbortWithStatus(http.StatusInternalServerError)
						return
					}
					c.Set(sessionKey, sess)
					c.Next()
					return
				}
				if !errors.Is(err, session.ErrNotFound) {
					slog.ErrorContext(ctx, "failed to load session", "session.id", id, "error", err)
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}
			} else {
				slog.DebugContext(ctx, "discarding session cookie", "error", err)
			}
		}

		sess, err := games.Start(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to start session", "error", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if err := setSessionCookie(c, tokens, sess.ID, ttl); err != nil {
			slog.ErrorContext(ctx, "failed to issue session token", "session.id", sess.ID, "error", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		slog.InfoContext(ctx, "session started", "session.id", sess.ID)

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func setSessionCookie(c *gin.Context, tokens service.TokenService, id string, ttl time.Duration) error {
	token, err := tokens.Issue(id)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
	return nil
}

// CurrentSession returns the session resolved by SessionMiddleware.
func CurrentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
