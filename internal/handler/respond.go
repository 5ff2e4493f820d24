package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sefazor/integrations-backend/internal/apperror"
	"github.com/sefazor/integrations-backend/internal/models"
)

// statusError logs err with its cause and writes a {status:"error"} body.
func statusError(c *fiber.Ctx, logger *zap.Logger, exposeDetails bool, msg string, err error) error {
	logger.Error(msg,
		zap.Error(err),
		zap.String("kind", apperror.KindOf(err).String()),
		zap.String("path", c.Path()),
	)
	return c.Status(apperror.Status(err)).JSON(models.ErrorResponse(apperror.PublicMessage(err, exposeDetails)))
}
