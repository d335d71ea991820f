package catalog

import (
	"errors"

	"zimmet-backend/internal/domain"
	"zimmet-backend/internal/pkg/constants"
	"zimmet-backend/internal/pkg/response"
	"zimmet-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// CreateAsset POST /api/v1/assets
func (h *Handlers) CreateAsset(c *fiber.Ctx) error {
	var req CreateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "asset_number, serial_number and name are required", 400, nil)
	}
	if req.AssetNumber == "" || req.SerialNumber == "" || req.Name == "" {
		return response.Error(c, "asset_number, serial_number and name are required", 400, nil)
	}

	asset, err := h.Service.CreateAsset(c.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDuplicateAsset) {
			return response.Error(c, err.Error(), 409, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Asset created", asset, nil)
}

// UpdateAsset PATCH /api/v1/assets/:id — descriptive fields only; status and
// assignee are rejected here and only change through transitions.
func (h *Handlers) UpdateAsset(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset id", 400, nil)
	}

	var raw map[string]interface{}
	if err := c.BodyParser(&raw); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if _, ok := raw["status"]; ok {
		return response.Error(c, "Status cannot be changed here, use the transition endpoint", 400, nil)
	}
	if _, ok := raw["assigned_to_id"]; ok {
		return response.Error(c, "Assignee cannot be changed here, use the assignment endpoints", 400, nil)
	}

	var req UpdateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	asset, err := h.Service.UpdateAsset(c.Context(), assetID, req)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Asset updated", asset, nil)
}

// GetAsset GET /api/v1/assets/:id
func (h *Handlers) GetAsset(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset id", 400, nil)
	}
	detail, err := h.Service.GetAsset(c.Context(), assetID)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Asset retrieved", detail, nil)
}

// ListAssets GET /api/v1/assets?status=&category_id=&department_id=&search=
func (h *Handlers) ListAssets(c *fiber.Ctx) error {
	filter := AssetFilter{
		Status: domain.AssetStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return response.Error(c, "Invalid status filter", 400, nil)
	}
	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return response.Error(c, "Invalid UUID format for category_id", 400, nil)
		}
		filter.CategoryID = &id
	}
	if v := c.Query("department_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return response.Error(c, "Invalid UUID format for department_id", 400, nil)
		}
		filter.DepartmentID = &id
	}

	assets, err := h.Service.ListAssets(c.Context(), filter)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Assets retrieved", assets, nil)
}

// DeleteAsset DELETE /api/v1/assets/:id
func (h *Handlers) DeleteAsset(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for asset id", 400, nil)
	}
	if err := h.Service.DeleteAsset(c.Context(), assetID); err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Asset deleted", nil, nil)
}

// ListCategories GET /api/v1/categories
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	cats, err := h.Service.ListCategories(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Categories retrieved", cats, nil)
}

// CreateCategory POST /api/v1/categories
func (h *Handlers) CreateCategory(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return response.Error(c, "name is required", 400, nil)
	}
	cat, err := h.Service.CreateCategory(c.Context(), body.Name)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return response.Error(c, err.Error(), 409, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Category created", cat, nil)
}

// ListDepartments GET /api/v1/departments
func (h *Handlers) ListDepartments(c *fiber.Ctx) error {
	deps, err := h.Service.ListDepartments(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Departments retrieved", deps, nil)
}

// CreateDepartment POST /api/v1/departments
func (h *Handlers) CreateDepartment(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return response.Error(c, "name is required", 400, nil)
	}
	dep, err := h.Service.CreateDepartment(c.Context(), body.Name, body.Location)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return response.Error(c, err.Error(), 409, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Department created", dep, nil)
}

// ListUsers GET /api/v1/users
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	users, err := h.Service.ListUsers(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Users retrieved", users, nil)
}

// CreateUser POST /api/v1/users
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "fullname, email and password are required", 400, nil)
	}
	if req.Fullname == "" || req.Email == "" || req.Password == "" {
		return response.Error(c, "fullname, email and password are required", 400, nil)
	}
	if !validation.IsValidFullname(req.Fullname) {
		return response.Error(c, "Fullname may only contain letters, spaces, hyphens and apostrophes", 400, nil)
	}
	if !validation.IsValidEmail(req.Email) {
		return response.Error(c, "Invalid email format", 400, nil)
	}
	if !validation.IsValidPassword(req.Password) {
		return response.Error(c, "Password must be at least 8 characters with a letter, a number and a special character", 400, nil)
	}
	if req.Role != "" && !constants.IsValidRole(req.Role) {
		return response.Error(c, "Invalid role", 400, nil)
	}

	user, err := h.Service.CreateUser(c.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return response.Error(c, err.Error(), 409, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "User created", user, nil)
}
