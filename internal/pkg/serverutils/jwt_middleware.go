package serverutils

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"shopquery-be/internal/pkg/token"
)

// SessionSlider extends the caller's session expiry. Implementations must
// never fail the request.
type SessionSlider interface {
	Slide(ctx context.Context, userId uuid.UUID)
}

// NewJwtMiddleware verifies the bearer access token and stores the caller's
// user id in locals. Every authenticated request also slides the user's
// refresh sessions forward.
func NewJwtMiddleware(tokens *token.Service, slider SessionSlider) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}

		claims, err := tokens.VerifyAccessToken(authHeader[7:])
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		ctx.Locals("user_id", claims.UserId.String())

		if slider != nil {
			slider.Slide(ctx.Context(), claims.UserId)
		}

		return ctx.Next()
	}
}

// UserID extracts the authenticated user id stored by the JWT middleware.
func UserID(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}
