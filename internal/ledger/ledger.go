// Package ledger owns the assignment rows that record which user holds
// which asset. At most one active record may exist per asset; every
// function that mutates the ledger upholds that invariant, and the partial
// unique index on AssignmentRecords backs it up at the database so two
// concurrent opens for the same asset cannot both commit.
//
// Mutations take the caller's transaction handle: holder changes always
// ride in the same transaction as the status change they accompany.
package ledger

import (
	"strings"
	"time"

	"zimmet-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Open creates an active assignment record for assetID. Fails with
// ErrAlreadyAssigned when an active record exists; the create itself is also
// guarded by the unique index, so a racing open surfaces as the same error.
func Open(tx *gorm.DB, assetID, userID uuid.UUID, actorID *uuid.UUID) (*domain.AssignmentRecord, error) {
	var count int64
	if err := tx.Model(&domain.AssignmentRecord{}).
		Where("asset_id = ? AND closed_at IS NULL", assetID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyAssigned
	}

	rec := domain.AssignmentRecord{
		AssetID:      assetID,
		AssignedToID: userID,
		AssignedByID: actorID,
	}
	if err := tx.Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyAssigned
		}
		return nil, err
	}
	return &rec, nil
}

// Close marks the record inactive. The guarded update makes a second close
// of the same record report ErrAssignmentNotFound instead of silently
// rewriting closed_at.
func Close(tx *gorm.DB, assignmentID uuid.UUID) (*domain.AssignmentRecord, error) {
	now := time.Now().UTC()
	res := tx.Model(&domain.AssignmentRecord{}).
		Where("assignment_id = ? AND closed_at IS NULL", assignmentID).
		Update("closed_at", now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAssignmentNotFound
	}
	var rec domain.AssignmentRecord
	if err := tx.Where("assignment_id = ?", assignmentID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// CloseActive closes the active record for assetID, if any. Returns the
// closed record, or nil when the asset had no holder.
func CloseActive(tx *gorm.DB, assetID uuid.UUID) (*domain.AssignmentRecord, error) {
	var rec domain.AssignmentRecord
	err := tx.Where("asset_id = ? AND closed_at IS NULL", assetID).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Close(tx, rec.AssignmentID)
}

// CurrentHolder returns the active record for an asset, or nil when
// unassigned. Point lookup on the partial unique index.
func CurrentHolder(db *gorm.DB, assetID uuid.UUID) (*domain.AssignmentRecord, error) {
	var rec domain.AssignmentRecord
	err := db.Where("asset_id = ? AND closed_at IS NULL", assetID).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ForAsset returns all ledger rows for an asset, newest first.
func ForAsset(db *gorm.DB, assetID uuid.UUID) ([]domain.AssignmentRecord, error) {
	var recs []domain.AssignmentRecord
	err := db.Where("asset_id = ?", assetID).
		Order("\"createdAt\" DESC").
		Find(&recs).Error
	return recs, err
}

// ForUser returns a user's assignment rows, active ones only when activeOnly.
func ForUser(db *gorm.DB, userID uuid.UUID, activeOnly bool) ([]domain.AssignmentRecord, error) {
	q := db.Where("assigned_to_id = ?", userID)
	if activeOnly {
		q = q.Where("closed_at IS NULL")
	}
	var recs []domain.AssignmentRecord
	err := q.Order("\"createdAt\" DESC").Find(&recs).Error
	return recs, err
}

// isUniqueViolation matches duplicate-key failures from Postgres (23505)
// and sqlite (tests).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
