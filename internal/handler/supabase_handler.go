package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sefazor/integrations-backend/internal/models"
	"github.com/sefazor/integrations-backend/internal/service"
)

type SupabaseHandler struct {
	connectivityService *service.ConnectivityService
	exposeErrorDetails  bool
	logger              *zap.Logger
}

func NewSupabaseHandler(connectivityService *service.ConnectivityService, exposeErrorDetails bool, logger *zap.Logger) *SupabaseHandler {
	return &SupabaseHandler{
		connectivityService: connectivityService,
		exposeErrorDetails:  exposeErrorDetails,
		logger:              logger.Named("supabase"),
	}
}

// TestConnection godoc
// GET /api/supabase/test
func (h *SupabaseHandler) TestConnection(c *fiber.Ctx) error {
	if err := h.connectivityService.Check(c.UserContext()); err != nil {
		return statusError(c, h.logger, h.exposeErrorDetails, "Supabase connection test failed", err)
	}

	return c.JSON(models.SuccessResponse("Supabase connection successful!"))
}
