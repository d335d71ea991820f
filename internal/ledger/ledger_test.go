package ledger

import (
	"testing"

	"zimmet-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedgerTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Asset{}, &domain.AssignmentRecord{}))
	return db
}

func activeCount(t *testing.T, db *gorm.DB, assetID uuid.UUID) int64 {
	var count int64
	require.NoError(t, db.Model(&domain.AssignmentRecord{}).
		Where("asset_id = ? AND closed_at IS NULL", assetID).
		Count(&count).Error)
	return count
}

func TestOpen_CreatesActiveRecord(t *testing.T) {
	db := setupLedgerTest(t)
	assetID, userID := uuid.New(), uuid.New()

	rec, err := Open(db, assetID, userID, nil)
	require.NoError(t, err)
	assert.Equal(t, assetID, rec.AssetID)
	assert.Equal(t, userID, rec.AssignedToID)
	assert.True(t, rec.Active())
	assert.EqualValues(t, 1, activeCount(t, db, assetID))
}

func TestOpen_SecondActiveFails(t *testing.T) {
	db := setupLedgerTest(t)
	assetID := uuid.New()

	_, err := Open(db, assetID, uuid.New(), nil)
	require.NoError(t, err)

	_, err = Open(db, assetID, uuid.New(), nil)
	assert.Equal(t, ErrAlreadyAssigned, err)
	assert.EqualValues(t, 1, activeCount(t, db, assetID))
}

func TestClose_ThenReopen(t *testing.T) {
	db := setupLedgerTest(t)
	assetID := uuid.New()

	first, err := Open(db, assetID, uuid.New(), nil)
	require.NoError(t, err)

	closed, err := Close(db, first.AssignmentID)
	require.NoError(t, err)
	assert.NotNil(t, closed.ClosedAt)
	assert.EqualValues(t, 0, activeCount(t, db, assetID))

	second, err := Open(db, assetID, uuid.New(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.AssignmentID, second.AssignmentID)
	assert.EqualValues(t, 1, activeCount(t, db, assetID))
}

// Closing an already-closed record is a NotFound, not a second close.
func TestClose_Idempotence(t *testing.T) {
	db := setupLedgerTest(t)
	rec, err := Open(db, uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	first, err := Close(db, rec.AssignmentID)
	require.NoError(t, err)

	_, err = Close(db, rec.AssignmentID)
	assert.Equal(t, ErrAssignmentNotFound, err)

	// closed_at untouched by the failed second close
	var reloaded domain.AssignmentRecord
	require.NoError(t, db.Where("assignment_id = ?", rec.AssignmentID).First(&reloaded).Error)
	require.NotNil(t, reloaded.ClosedAt)
	assert.Equal(t, first.ClosedAt.Unix(), reloaded.ClosedAt.Unix())
}

func TestClose_UnknownID(t *testing.T) {
	db := setupLedgerTest(t)
	_, err := Close(db, uuid.New())
	assert.Equal(t, ErrAssignmentNotFound, err)
}

func TestCloseActive_NoneIsNoop(t *testing.T) {
	db := setupLedgerTest(t)
	rec, err := CloseActive(db, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCurrentHolder(t *testing.T) {
	db := setupLedgerTest(t)
	assetID, userID := uuid.New(), uuid.New()

	holder, err := CurrentHolder(db, assetID)
	require.NoError(t, err)
	assert.Nil(t, holder)

	opened, err := Open(db, assetID, userID, nil)
	require.NoError(t, err)

	holder, err = CurrentHolder(db, assetID)
	require.NoError(t, err)
	require.NotNil(t, holder)
	assert.Equal(t, opened.AssignmentID, holder.AssignmentID)
	assert.Equal(t, userID, holder.AssignedToID)
}

// At most one active record per asset after any sequence of open/close.
func TestInvariant_SequenceOfMutations(t *testing.T) {
	db := setupLedgerTest(t)
	assetID := uuid.New()

	for i := 0; i < 5; i++ {
		rec, err := Open(db, assetID, uuid.New(), nil)
		require.NoError(t, err)
		assert.EqualValues(t, 1, activeCount(t, db, assetID))

		_, err = Open(db, assetID, uuid.New(), nil)
		assert.Equal(t, ErrAlreadyAssigned, err)

		_, err = Close(db, rec.AssignmentID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, activeCount(t, db, assetID))
	}

	recs, err := ForAsset(db, assetID)
	require.NoError(t, err)
	assert.Len(t, recs, 5)
}

func TestForUser_ActiveOnly(t *testing.T) {
	db := setupLedgerTest(t)
	userID := uuid.New()

	first, err := Open(db, uuid.New(), userID, nil)
	require.NoError(t, err)
	_, err = Close(db, first.AssignmentID)
	require.NoError(t, err)

	second, err := Open(db, uuid.New(), userID, nil)
	require.NoError(t, err)

	all, err := ForUser(db, userID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := ForUser(db, userID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.AssignmentID, active[0].AssignmentID)
}
