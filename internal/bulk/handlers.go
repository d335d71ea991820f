package bulk

import (
	"errors"

	"zimmet-backend/internal/middleware"
	"zimmet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// Apply POST /api/v1/assets/bulk
func (h *Handlers) Apply(c *fiber.Ctx) error {
	var body struct {
		AssetIDs  []string   `json:"asset_ids"`
		Operation *Operation `json:"operation"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "asset_ids and operation are required", 400, nil)
	}
	if len(body.AssetIDs) == 0 || body.Operation == nil {
		return response.Error(c, "asset_ids and operation are required", 400, nil)
	}

	ids := make([]uuid.UUID, 0, len(body.AssetIDs))
	for _, raw := range body.AssetIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, "Invalid UUID format in asset_ids", 400, nil)
		}
		ids = append(ids, id)
	}

	result, err := h.Service.ApplyBulk(c.Context(), middleware.ActorID(c), ids, *body.Operation)
	if err != nil {
		if errors.Is(err, ErrEmptyBatch) || errors.Is(err, ErrUnknownAction) {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Bulk operation completed", result, nil)
}
