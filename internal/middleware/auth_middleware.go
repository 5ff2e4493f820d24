package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sefazor/integrations-backend/internal/models"
	jwtPkg "github.com/sefazor/integrations-backend/pkg/jwt"
)

const (
	LocalUserID    = "userID"
	LocalUserEmail = "userEmail"
)

// AuthMiddleware accepts Supabase access tokens signed with jwtSecret and,
// when issuer is set, issued by that project.
func AuthMiddleware(jwtSecret, issuer string, logger *zap.Logger) fiber.Handler {
	logger = logger.Named("auth")

	return func(c *fiber.Ctx) error {
		if jwtSecret == "" {
			logger.Error("SUPABASE_JWT_SECRET is not configured")
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("SUPABASE_JWT_SECRET is not configured"))
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.MessageResponse{Message: "Unauthorized"})
		}

		// Check if the header starts with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(models.MessageResponse{Message: "Unauthorized"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwtPkg.ValidateToken(jwtSecret, issuer, tokenString)
		if err != nil {
			logger.Debug("token validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(models.MessageResponse{Message: "Unauthorized"})
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.MessageResponse{Message: "Unauthorized"})
		}

		// email is optional for phone / anonymous sign-ins
		userEmail, _ := claims["email"].(string)

		c.Locals(LocalUserID, userID)
		c.Locals(LocalUserEmail, userEmail)

		return c.Next()
	}
}
