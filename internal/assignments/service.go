package assignments

import (
	"context"
	"time"

	"zimmet-backend/internal/domain"
	"zimmet-backend/internal/ledger"
	"zimmet-backend/internal/transitions"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the assignment surface of the console. Holder changes that
// imply a status change (assign an available asset, return an assigned one)
// run through the transition engine so status and ledger move in one
// transaction; a reassignment of an already-assigned asset swaps ledger
// rows without a status transition and therefore without a history item.
type Service struct {
	DB     *gorm.DB
	Engine *transitions.Service
}

// Assign gives the asset to userID. For a non-assigned asset this is the
// transition into assigned (one history item, one opened ledger row). For
// an assigned asset it requires reassign, and closes the prior record
// before opening the new one — two ledger events, history preserved.
func (s *Service) Assign(ctx context.Context, actorID, assetID, userID uuid.UUID, reassign bool) (*domain.AssignmentRecord, error) {
	var asset domain.Asset
	if err := s.DB.WithContext(ctx).Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, transitions.ErrAssetNotFound
		}
		return nil, err
	}

	if asset.Status != domain.StatusAssigned {
		result, err := s.Engine.ProposeTransition(ctx, actorID, assetID, transitions.TransitionRequest{
			NewStatus:  domain.StatusAssigned,
			Reason:     domain.ReasonAssignment,
			AssignToID: &userID,
		})
		if err != nil {
			return nil, err
		}
		return result.Assignment, nil
	}

	if !reassign {
		return nil, ledger.ErrAlreadyAssigned
	}
	return s.reassign(ctx, actorID, asset, userID)
}

func (s *Service) reassign(ctx context.Context, actorID uuid.UUID, asset domain.Asset, userID uuid.UUID) (*domain.AssignmentRecord, error) {
	var rec *domain.AssignmentRecord

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assignee domain.User
		if err := tx.Where("user_id = ?", userID).First(&assignee).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return transitions.ErrUserNotFound
			}
			return err
		}

		prior, err := ledger.CloseActive(tx, asset.AssetID)
		if err != nil {
			return err
		}
		if prior == nil {
			// Status said assigned but no active row: treat as a stale read.
			return transitions.ErrPreconditionFailed
		}

		// Guard against the holder having changed since our read.
		res := tx.Model(&domain.Asset{}).
			Where("asset_id = ? AND status = ? AND assigned_to_id = ?",
				asset.AssetID, domain.StatusAssigned, prior.AssignedToID).
			Updates(map[string]interface{}{
				"assigned_to_id":     userID,
				"last_status_change": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return transitions.ErrPreconditionFailed
		}

		var actor *uuid.UUID
		if actorID != uuid.Nil {
			actor = &actorID
		}
		rec, err = ledger.Open(tx, asset.AssetID, userID, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Unassign returns the asset held under assignmentID: the record closes and
// the asset transitions back to available. Calling it again on the closed
// record reports ErrAssignmentNotFound, it never double-closes.
func (s *Service) Unassign(ctx context.Context, actorID, assignmentID uuid.UUID) (*domain.Asset, error) {
	var rec domain.AssignmentRecord
	err := s.DB.WithContext(ctx).Where("assignment_id = ?", assignmentID).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ledger.ErrAssignmentNotFound
		}
		return nil, err
	}
	if !rec.Active() {
		return nil, ledger.ErrAssignmentNotFound
	}

	result, err := s.Engine.ProposeTransition(ctx, actorID, rec.AssetID, transitions.TransitionRequest{
		NewStatus: domain.StatusAvailable,
		Reason:    domain.ReasonReturn,
	})
	if err != nil {
		return nil, err
	}
	return &result.Asset, nil
}

// CurrentHolder returns the active assignment for an asset, nil when
// unassigned.
func (s *Service) CurrentHolder(ctx context.Context, assetID uuid.UUID) (*domain.AssignmentRecord, error) {
	return ledger.CurrentHolder(s.DB.WithContext(ctx), assetID)
}

// AssetHistory returns all ledger rows for an asset, newest first.
func (s *Service) AssetHistory(ctx context.Context, assetID uuid.UUID) ([]domain.AssignmentRecord, error) {
	return ledger.ForAsset(s.DB.WithContext(ctx), assetID)
}

// UserAssignments returns a user's assignment rows.
func (s *Service) UserAssignments(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.AssignmentRecord, error) {
	return ledger.ForUser(s.DB.WithContext(ctx), userID, activeOnly)
}
