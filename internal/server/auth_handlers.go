package server

import (
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Register handles POST /register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Names    string `json:"names"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Names == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Names, email, and password are required"))
	}
	if err := validation.ValidateNames(req.Names); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Pre-check for a friendlier error; the unique index still catches races.
	existing, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewDuplicateEmailError(req.Email))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Names:    req.Names,
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	if createErr := s.userRepo.Create(c.Context(), user); createErr != nil {
		return models.RespondWithError(c, models.StatusForError(createErr), createErr)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /login. On success it sets both session cookies: the
// access token (short-lived) and the refresh token (longer-lived, used only
// for silent renewal).
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		observability.LoginAttempts.WithLabelValues("failure").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidCredentialsError())
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		observability.LoginAttempts.WithLabelValues("failure").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidCredentialsError())
	}

	accessToken, err := s.tokens.IssueAccess(user.Email, user.Names)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	refreshToken, err := s.tokens.IssueRefresh(user.Email, user.Names)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.setSessionCookie(c, accessCookieName, accessToken, int(s.tokens.AccessTTL().Seconds()))
	s.setSessionCookie(c, refreshCookieName, refreshToken, int(s.tokens.RefreshTTL().Seconds()))

	observability.LoginAttempts.WithLabelValues("success").Inc()
	return c.JSON(fiber.Map{
		"login": true,
		"user":  user,
	})
}

// Logout handles POST /logout. The server keeps no token blacklist; clearing
// the cookies is the whole operation and it always succeeds.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearSessionCookie(c, accessCookieName)
	s.clearSessionCookie(c, refreshCookieName)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// About handles GET /about. The session middleware already verified the
// cookie and attached the identity.
func (s *Server) About(c *fiber.Ctx) error {
	ident, ok := sessionIdentity(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("No session identity"))
	}
	return c.JSON(ident)
}

// UserInfo handles GET /userInfo.
func (s *Server) UserInfo(c *fiber.Ctx) error {
	ident, ok := sessionIdentity(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("No session identity"))
	}
	return c.JSON(ident)
}
