package assignments

import (
	"errors"
	"strings"

	"zimmet-backend/internal/ledger"
	"zimmet-backend/internal/middleware"
	"zimmet-backend/internal/pkg/response"
	"zimmet-backend/internal/transitions"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// Assign POST /api/v1/assignments/assign
func (h *Handlers) Assign(c *fiber.Ctx) error {
	var body struct {
		AssetID  string `json:"asset_id"`
		UserID   string `json:"user_id"`
		Reassign bool   `json:"reassign"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "asset_id and user_id are required", 400, nil)
	}
	if body.AssetID == "" || body.UserID == "" {
		return response.Error(c, "asset_id and user_id are required", 400, nil)
	}
	assetID, err := uuid.Parse(body.AssetID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset_id", 400, nil)
	}
	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for user_id", 400, nil)
	}

	rec, err := h.Service.Assign(c.Context(), middleware.ActorID(c), assetID, userID, body.Reassign)
	if err != nil {
		return assignmentError(c, err)
	}
	return response.SuccessCreated(c, "Asset assigned", rec, nil)
}

// Unassign POST /api/v1/assignments/unassign
func (h *Handlers) Unassign(c *fiber.Ctx) error {
	var body struct {
		AssignmentID string `json:"assignment_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "assignment_id is required", 400, nil)
	}
	if body.AssignmentID == "" {
		return response.Error(c, "assignment_id is required", 400, nil)
	}
	assignmentID, err := uuid.Parse(body.AssignmentID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for assignment_id", 400, nil)
	}

	asset, err := h.Service.Unassign(c.Context(), middleware.ActorID(c), assignmentID)
	if err != nil {
		return assignmentError(c, err)
	}
	return response.Success(c, "Asset returned", asset, nil)
}

// CurrentHolder GET /api/v1/assignments/current/:asset_id
func (h *Handlers) CurrentHolder(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("asset_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset_id", 400, nil)
	}
	rec, err := h.Service.CurrentHolder(c.Context(), assetID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Current holder retrieved", rec, nil)
}

// AssetHistory GET /api/v1/assignments/asset/:asset_id
func (h *Handlers) AssetHistory(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("asset_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset_id", 400, nil)
	}
	recs, err := h.Service.AssetHistory(c.Context(), assetID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Assignment history retrieved", recs, nil)
}

// UserAssignments GET /api/v1/assignments/user/:user_id?active=true
func (h *Handlers) UserAssignments(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for user_id", 400, nil)
	}
	activeOnly := strings.EqualFold(c.Query("active"), "true")
	recs, err := h.Service.UserAssignments(c.Context(), userID, activeOnly)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "User assignments retrieved", recs, nil)
}

func assignmentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, transitions.ErrAssetNotFound),
		errors.Is(err, transitions.ErrUserNotFound),
		errors.Is(err, ledger.ErrAssignmentNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ledger.ErrAlreadyAssigned),
		errors.Is(err, transitions.ErrPreconditionFailed):
		return response.Error(c, err.Error(), 409, nil)
	case errors.Is(err, transitions.ErrIllegalTransition),
		errors.Is(err, transitions.ErrMissingMetadata),
		errors.Is(err, transitions.ErrUnknownReason):
		return response.Error(c, err.Error(), 400, nil)
	default:
		return response.Error(c, "Internal Server Error", 500, nil)
	}
}
