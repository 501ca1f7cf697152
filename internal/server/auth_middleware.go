package server

import (
	"context"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/token"

	"github.com/gofiber/fiber/v2"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"

	identityLocal = "identity"
)

// SessionRequired returns the session middleware guarding protected routes.
// Per request it walks three states:
//
//  1. no access cookie: attempt silent renewal from the refresh cookie;
//  2. access cookie verifies: proceed;
//  3. access cookie invalid or expired: attempt silent renewal.
//
// Renewal failure always denies the request with 401; an unauthenticated
// request never reaches a protected handler. On success the verified
// identity is attached to the request, so handlers never re-verify cookies.
func (s *Server) SessionRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		access := c.Cookies(accessCookieName)
		if access == "" {
			ident, err := s.renewAccessToken(c)
			if err != nil {
				return models.RespondWithError(c, models.StatusForError(err), err)
			}
			s.attachIdentity(c, ident)
			return c.Next()
		}

		ident, err := s.tokens.Verify(access, token.KindAccess)
		if err == nil {
			s.attachIdentity(c, ident)
			return c.Next()
		}

		ident, err = s.renewAccessToken(c)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		s.attachIdentity(c, ident)
		return c.Next()
	}
}

// renewAccessToken is the renewal subroutine: verify the refresh cookie and,
// on success, mint and cookie a fresh access token. It never writes an error
// response itself; the caller decides whether failure blocks the request.
func (s *Server) renewAccessToken(c *fiber.Ctx) (token.Identity, error) {
	refresh := c.Cookies(refreshCookieName)
	if refresh == "" {
		observability.TokenRenewals.WithLabelValues("missing").Inc()
		return token.Identity{}, models.NewTokenNotFoundError()
	}

	ident, err := s.tokens.Verify(refresh, token.KindRefresh)
	if err != nil {
		observability.TokenRenewals.WithLabelValues("invalid").Inc()
		return token.Identity{}, models.NewInvalidRefreshTokenError()
	}

	access, err := s.tokens.IssueAccess(ident.Email, ident.Names)
	if err != nil {
		observability.TokenRenewals.WithLabelValues("error").Inc()
		return token.Identity{}, err
	}

	s.setSessionCookie(c, accessCookieName, access, int(s.tokens.AccessTTL().Seconds()))
	observability.TokenRenewals.WithLabelValues("success").Inc()
	return ident, nil
}

// attachIdentity stores the verified identity in Fiber locals and mirrors the
// email into the user context for the context-aware logger.
func (s *Server) attachIdentity(c *fiber.Ctx, ident token.Identity) {
	c.Locals(identityLocal, ident)
	c.Locals("userEmail", ident.Email)
	ctx := context.WithValue(c.UserContext(), middleware.UserEmailKey, ident.Email)
	c.SetUserContext(ctx)
}

// sessionIdentity returns the identity attached by SessionRequired.
func sessionIdentity(c *fiber.Ctx) (token.Identity, bool) {
	ident, ok := c.Locals(identityLocal).(token.Identity)
	return ident, ok
}

// setSessionCookie writes an HTTP-only session cookie. SameSite=None because
// the frontend is served from a different origin.
func (s *Server) setSessionCookie(c *fiber.Ctx, name, value string, maxAgeSeconds int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAgeSeconds,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	})
}

// clearSessionCookie expires a session cookie immediately.
func (s *Server) clearSessionCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	})
}
