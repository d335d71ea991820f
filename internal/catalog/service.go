package catalog

import (
	"context"
	"strings"

	"zimmet-backend/internal/domain"
	"zimmet-backend/internal/ledger"
	"zimmet-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service is the read model and CRUD surface for assets and the reference
// tables. Status and holder are immutable through this path: the transition
// engine and the ledger are the only writers of those columns.
type Service struct {
	DB *gorm.DB
}

type CreateAssetRequest struct {
	AssetNumber  string     `json:"asset_number"`
	SerialNumber string     `json:"serial_number"`
	Name         string     `json:"name"`
	CategoryID   *uuid.UUID `json:"category_id"`
	Brand        string     `json:"brand"`
	Model        string     `json:"model"`
	Location     string     `json:"location"`
	DepartmentID *uuid.UUID `json:"department_id"`
}

type UpdateAssetRequest struct {
	Name         *string    `json:"name"`
	CategoryID   *uuid.UUID `json:"category_id"`
	Brand        *string    `json:"brand"`
	Model        *string    `json:"model"`
	Location     *string    `json:"location"`
	DepartmentID *uuid.UUID `json:"department_id"`
}

type AssetFilter struct {
	Status       domain.AssetStatus
	CategoryID   *uuid.UUID
	DepartmentID *uuid.UUID
	Search       string
}

// AssetDetail is an asset with its current holder and audit counts, the
// shape the console's detail page renders.
type AssetDetail struct {
	Asset         domain.Asset             `json:"asset"`
	CurrentHolder *domain.AssignmentRecord `json:"current_holder,omitempty"`
	HistoryCount  int64                    `json:"history_count"`
}

// CreateAsset creates the asset in the available state.
func (s *Service) CreateAsset(ctx context.Context, req CreateAssetRequest) (*domain.Asset, error) {
	asset := domain.Asset{
		AssetNumber:  req.AssetNumber,
		SerialNumber: req.SerialNumber,
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		Brand:        req.Brand,
		Model:        req.Model,
		Location:     req.Location,
		DepartmentID: req.DepartmentID,
		Status:       domain.StatusAvailable,
	}
	if err := s.DB.WithContext(ctx).Create(&asset).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAsset
		}
		return nil, err
	}
	return &asset, nil
}

// UpdateAsset updates descriptive fields only.
func (s *Service) UpdateAsset(ctx context.Context, assetID uuid.UUID, req UpdateAssetRequest) (*domain.Asset, error) {
	var asset domain.Asset
	if err := s.DB.WithContext(ctx).Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.DepartmentID != nil {
		updates["department_id"] = *req.DepartmentID
	}
	if len(updates) == 0 {
		return &asset, nil
	}

	if err := s.DB.WithContext(ctx).Model(&asset).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetAsset loads an asset with its current holder and history count.
func (s *Service) GetAsset(ctx context.Context, assetID uuid.UUID) (*AssetDetail, error) {
	db := s.DB.WithContext(ctx)

	var asset domain.Asset
	if err := db.Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}

	holder, err := ledger.CurrentHolder(db, assetID)
	if err != nil {
		return nil, err
	}

	var historyCount int64
	if err := db.Model(&domain.StatusHistoryItem{}).Where("asset_id = ?", assetID).Count(&historyCount).Error; err != nil {
		return nil, err
	}

	return &AssetDetail{Asset: asset, CurrentHolder: holder, HistoryCount: historyCount}, nil
}

// ListAssets returns the current snapshot, optionally filtered.
func (s *Service) ListAssets(ctx context.Context, filter AssetFilter) ([]domain.Asset, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Asset{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.DepartmentID != nil {
		q = q.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(asset_number) LIKE ? OR LOWER(serial_number) LIKE ?", like, like, like)
	}

	var assets []domain.Asset
	err := q.Order("asset_number ASC").Find(&assets).Error
	return assets, err
}

// DeleteAsset hard-deletes the asset. An active assignment is closed in the
// same transaction; status history rows stay for audit.
func (s *Service) DeleteAsset(ctx context.Context, assetID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset domain.Asset
		if err := tx.Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrAssetNotFound
			}
			return err
		}
		if _, err := ledger.CloseActive(tx, assetID); err != nil {
			return err
		}
		return tx.Where("asset_id = ?", assetID).Delete(&domain.Asset{}).Error
	})
}

// ListCategories returns all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	err := s.DB.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}

// CreateCategory creates a category.
func (s *Service) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	cat := domain.Category{Name: name}
	if err := s.DB.WithContext(ctx).Create(&cat).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &cat, nil
}

// ListDepartments returns all departments ordered by name.
func (s *Service) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	var deps []domain.Department
	err := s.DB.WithContext(ctx).Order("name ASC").Find(&deps).Error
	return deps, err
}

// CreateDepartment creates a department.
func (s *Service) CreateDepartment(ctx context.Context, name, location string) (*domain.Department, error) {
	dep := domain.Department{Name: name, Location: location}
	if err := s.DB.WithContext(ctx).Create(&dep).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &dep, nil
}

// ListUsers returns all users ordered by fullname.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.DB.WithContext(ctx).Order("fullname ASC").Find(&users).Error
	return users, err
}

type CreateUserRequest struct {
	Fullname     string     `json:"fullname"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	Role         string     `json:"role"`
	DepartmentID *uuid.UUID `json:"department_id"`
}

// CreateUser creates a user with a bcrypt-hashed password. Role defaults
// to viewer when omitted.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	role := req.Role
	if role == "" {
		role = constants.Viewer
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		Fullname:     req.Fullname,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Role:         role,
		DepartmentID: req.DepartmentID,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
