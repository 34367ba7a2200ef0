package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/staff-directory-console/internal/models"
	appErrors "github.com/noah-isme/staff-directory-console/pkg/errors"
	"github.com/noah-isme/staff-directory-console/pkg/logger"
	"github.com/noah-isme/staff-directory-console/pkg/response"
	"github.com/noah-isme/staff-directory-console/pkg/session"
)

type sessionService interface {
	StartSession(ctx context.Context) (*models.ConsoleState, error)
	State(ctx context.Context, sessionID string) (*models.ConsoleState, error)
}

// SessionCookie describes the browser cookie carrying the signed session id.
type SessionCookie struct {
	Name   string
	Secure bool
}

// Session resolves the console session of the browser, starting a new one
// when the cookie is missing, tampered with, or points at an expired session.
// The cookie is re-signed on every request so its lifetime slides with use.
func Session(sessions sessionService, signer *session.Signer, cookie SessionCookie, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sessionID, ok := verifiedSessionID(c, signer, cookie.Name)
		if ok {
			if _, err := sessions.State(ctx, sessionID); err != nil {
				if !errors.Is(err, appErrors.ErrSessionNotFound) {
					response.Error(c, err)
					c.Abort()
					return
				}
				ok = false
			}
		}

		if !ok {
			state, err := sessions.StartSession(ctx)
			if err != nil {
				log.Error("start console session failed", zap.Error(err))
				response.Error(c, err)
				c.Abort()
				return
			}
			sessionID = state.SessionID
			SetMeta(c, MetaSessionStarted, true)
		}

		token, _, err := signer.Sign(sessionID)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session"))
			c.Abort()
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.Name, token, int(signer.TTL().Seconds()), "/", "", cookie.Secure, true)
		c.Set(logger.SessionIDKey, sessionID)
		c.Next()
	}
}

// ExistingSession attaches the session id when the cookie is valid but never
// starts a session.
func ExistingSession(signer *session.Signer, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, ok := verifiedSessionID(c, signer, cookie.Name); ok {
			c.Set(logger.SessionIDKey, sessionID)
		}
		c.Next()
	}
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(c *gin.Context, cookie SessionCookie) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, "", -1, "/", "", cookie.Secure, true)
}

// SessionID returns the console session id resolved for the request.
func SessionID(c *gin.Context) string {
	return c.GetString(logger.SessionIDKey)
}

func verifiedSessionID(c *gin.Context, signer *session.Signer, name string) (string, bool) {
	raw, err := c.Cookie(name)
	if err != nil || raw == "" {
		return "", false
	}
	sessionID, err := signer.Verify(raw)
	if err != nil {
		return "", false
	}
	return sessionID, true
}
