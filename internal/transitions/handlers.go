package transitions

import (
	"errors"

	"zimmet-backend/internal/domain"
	"zimmet-backend/internal/ledger"
	"zimmet-backend/internal/middleware"
	"zimmet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// Transition POST /api/v1/assets/:id/transition
func (h *Handlers) Transition(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset id", 400, nil)
	}

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "new_status and reason are required", 400, nil)
	}
	if req.NewStatus == "" || req.Reason == "" {
		return response.Error(c, "new_status and reason are required", 400, nil)
	}

	result, err := h.Service.ProposeTransition(c.Context(), middleware.ActorID(c), assetID, req)
	if err != nil {
		return transitionError(c, err)
	}
	return response.Success(c, "Status updated", result, nil)
}

// History GET /api/v1/assets/:id/history
func (h *Handlers) History(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset id", 400, nil)
	}
	items, err := h.Service.HistoryForAsset(c.Context(), assetID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Status history retrieved", items, nil)
}

// AllowedTargets GET /api/v1/assets/:id/allowed-transitions — the legal
// destinations for the asset's current status, for the console's dropdowns.
func (h *Handlers) AllowedTargets(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset id", 400, nil)
	}
	var asset domain.Asset
	if err := h.Service.DB.WithContext(c.Context()).Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
		return response.Error(c, ErrAssetNotFound.Error(), 404, nil)
	}
	return response.Success(c, "Allowed transitions retrieved", fiber.Map{
		"status":  asset.Status,
		"targets": domain.AllowedTargets(asset.Status),
	}, nil)
}

// transitionError maps engine errors to HTTP codes. Validation failures are
// 400/422-class ("fix your input"); concurrency failures are 409 so the
// caller can offer reload-and-retry instead.
func transitionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrAssetNotFound), errors.Is(err, ErrUserNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ErrIllegalTransition), errors.Is(err, ErrMissingMetadata), errors.Is(err, ErrUnknownReason):
		return response.Error(c, err.Error(), 400, nil)
	case errors.Is(err, ErrPreconditionFailed), errors.Is(err, ledger.ErrAlreadyAssigned):
		return response.Error(c, err.Error(), 409, nil)
	case errors.Is(err, ledger.ErrAssignmentNotFound):
		return response.Error(c, err.Error(), 404, nil)
	default:
		return response.Error(c, "Internal Server Error", 500, nil)
	}
}
