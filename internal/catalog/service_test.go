package catalog

import (
	"context"
	"testing"

	"zimmet-backend/internal/domain"
	"zimmet-backend/internal/ledger"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupCatalogTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Department{}, &domain.Category{},
		&domain.Asset{}, &domain.AssignmentRecord{}, &domain.StatusHistoryItem{},
	))
	return &Service{DB: db}, db
}

func TestCreateAsset_StartsAvailable(t *testing.T) {
	svc, _ := setupCatalogTest(t)

	asset, err := svc.CreateAsset(context.Background(), CreateAssetRequest{
		AssetNumber:  "ZMT-0001",
		SerialNumber: "SN-1",
		Name:         "ThinkPad T14",
		Brand:        "Lenovo",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, asset.Status)
	assert.NotEqual(t, uuid.Nil, asset.AssetID)
	assert.False(t, asset.LastStatusChange.IsZero())
	assert.Nil(t, asset.AssignedToID)
}

func TestCreateAsset_DuplicateNumber(t *testing.T) {
	svc, _ := setupCatalogTest(t)

	_, err := svc.CreateAsset(context.Background(), CreateAssetRequest{
		AssetNumber: "ZMT-0001", SerialNumber: "SN-1", Name: "Laptop",
	})
	require.NoError(t, err)

	_, err = svc.CreateAsset(context.Background(), CreateAssetRequest{
		AssetNumber: "ZMT-0001", SerialNumber: "SN-2", Name: "Laptop",
	})
	assert.ErrorIs(t, err, ErrDuplicateAsset)
}

func TestUpdateAsset_DescriptiveFieldsOnly(t *testing.T) {
	svc, db := setupCatalogTest(t)
	created, err := svc.CreateAsset(context.Background(), CreateAssetRequest{
		AssetNumber: "ZMT-0001", SerialNumber: "SN-1", Name: "Laptop", Location: "HQ",
	})
	require.NoError(t, err)

	name := "Laptop (renamed)"
	loc := "Branch A"
	updated, err := svc.UpdateAsset(context.Background(), created.AssetID, UpdateAssetRequest{
		Name:     &name,
		Location: &loc,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, loc, updated.Location)

	var reloaded domain.Asset
	require.NoError(t, db.Where("asset_id = ?", created.AssetID).First(&reloaded).Error)
	assert.Equal(t, domain.StatusAvailable, reloaded.Status)
}

func TestUpdateAsset_NotFound(t *testing.T) {
	svc, _ := setupCatalogTest(t)
	name := "x"
	_, err := svc.UpdateAsset(context.Background(), uuid.New(), UpdateAssetRequest{Name: &name})
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestGetAsset_WithHolderAndHistoryCount(t *testing.T) {
	svc, db := setupCatalogTest(t)
	created, err := svc.CreateAsset(context.Background(), CreateAssetRequest{
		AssetNumber: "ZMT-0001", SerialNumber: "SN-1", Name: "Laptop",
	})
	require.NoError(t, err)

	userID := uuid.New()
	_, err = ledger.Open(db, created.AssetID, userID, nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.StatusHistoryItem{
		AssetID:    created.AssetID,
		FromStatus: domain.StatusAvailable,
		ToStatus:   domain.StatusAssigned,
		Reason:     domain.ReasonAssignment,
	}).Error)

	detail, err := svc.GetAsset(context.Background(), created.AssetID)
	require.NoError(t, err)
	require.NotNil(t, detail.CurrentHolder)
	assert.Equal(t, userID, detail.CurrentHolder.AssignedToID)
	assert.EqualValues(t, 1, detail.HistoryCount)
}

func TestListAssets_Filters(t *testing.T) {
	svc, db := setupCatalogTest(t)

	cat, err := svc.CreateCategory(context.Background(), "Laptops")
	require.NoError(t, err)

	_, err = svc.CreateAsset(context.Background(), CreateAssetRequest{
		AssetNumber: "ZMT-0001", SerialNumber: "SN-1", Name: "ThinkPad", CategoryID: &cat.CategoryID,
	})
	require.NoError(t, err)
	beta, err := svc.CreateAsset(context.Background(), CreateAssetRequest{
		AssetNumber: "ZMT-0002", SerialNumber: "SN-2", Name: "Projector",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.Asset{}).
		Where("asset_id = ?", beta.AssetID).
		Update("status", domain.StatusLost).Error)

	byStatus, err := svc.ListAssets(context.Background(), AssetFilter{Status: domain.StatusLost})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, beta.AssetID, byStatus[0].AssetID)

	byCategory, err := svc.ListAssets(context.Background(), AssetFilter{CategoryID: &cat.CategoryID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "ThinkPad", byCategory[0].Name)

	bySearch, err := svc.ListAssets(context.Background(), AssetFilter{Search: "think"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "ThinkPad", bySearch[0].Name)

	all, err := svc.ListAssets(context.Background(), AssetFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteAsset_CascadeClosesAssignmentKeepsHistory(t *testing.T) {
	svc, db := setupCatalogTest(t)
	created, err := svc.CreateAsset(context.Background(), CreateAssetRequest{
		AssetNumber: "ZMT-0001", SerialNumber: "SN-1", Name: "Laptop",
	})
	require.NoError(t, err)

	rec, err := ledger.Open(db, created.AssetID, uuid.New(), nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.StatusHistoryItem{
		AssetID:    created.AssetID,
		FromStatus: domain.StatusAvailable,
		ToStatus:   domain.StatusAssigned,
		Reason:     domain.ReasonAssignment,
	}).Error)

	require.NoError(t, svc.DeleteAsset(context.Background(), created.AssetID))

	_, err = svc.GetAsset(context.Background(), created.AssetID)
	assert.ErrorIs(t, err, ErrAssetNotFound)

	var reloaded domain.AssignmentRecord
	require.NoError(t, db.Where("assignment_id = ?", rec.AssignmentID).First(&reloaded).Error)
	assert.NotNil(t, reloaded.ClosedAt)

	var hist int64
	require.NoError(t, db.Model(&domain.StatusHistoryItem{}).Where("asset_id = ?", created.AssetID).Count(&hist).Error)
	assert.EqualValues(t, 1, hist)
}

func TestDeleteAsset_NotFound(t *testing.T) {
	svc, _ := setupCatalogTest(t)
	err := svc.DeleteAsset(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestReferenceData(t *testing.T) {
	svc, _ := setupCatalogTest(t)

	_, err := svc.CreateCategory(context.Background(), "Laptops")
	require.NoError(t, err)
	_, err = svc.CreateCategory(context.Background(), "Laptops")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = svc.CreateDepartment(context.Background(), "IT", "HQ")
	require.NoError(t, err)

	cats, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	deps, err := svc.ListDepartments(context.Background())
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "IT", deps[0].Name)
}

func TestCreateUser(t *testing.T) {
	svc, _ := setupCatalogTest(t)

	user, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Fullname: "Ayse Demir",
		Email:    "Ayse.Demir@example.com",
		Password: "s3cret!pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "ayse.demir@example.com", user.Email)
	assert.Equal(t, "viewer", user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret!pass")))

	_, err = svc.CreateUser(context.Background(), CreateUserRequest{
		Fullname: "Other", Email: "ayse.demir@example.com", Password: "s3cret!pass",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}
