package transitions

import (
	"context"
	"encoding/json"
	"time"

	"zimmet-backend/internal/domain"
	"zimmet-backend/internal/ledger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransitionRequest describes one requested status change. Reason must be a
// recognized classification code; free text goes in Notes. The conditional
// fields are required by destination: Technician for maintenance,
// RetirementReason for retirement, AssignToID for assignment.
type TransitionRequest struct {
	NewStatus        domain.AssetStatus `json:"new_status"`
	Reason           string             `json:"reason"`
	Notes            string             `json:"notes"`
	Technician       string             `json:"technician,omitempty"`
	ExpectedEnd      *time.Time         `json:"expected_end,omitempty"`
	RetirementReason string             `json:"retirement_reason,omitempty"`
	DisposalMethod   string             `json:"disposal_method,omitempty"`
	AssignToID       *uuid.UUID         `json:"assign_to_id,omitempty"`
}

// Result is the outcome of an accepted transition: the asset with its new
// status, the single history row appended for it, and the assignment record
// opened when the destination was assigned.
type Result struct {
	Asset      domain.Asset             `json:"asset"`
	History    domain.StatusHistoryItem `json:"history"`
	Assignment *domain.AssignmentRecord `json:"assignment,omitempty"`
}

type Service struct {
	DB *gorm.DB
}

// Validate checks a requested transition against the current status without
// touching the database. Called once before the transaction for fast
// rejection and again inside it against the re-read row.
func Validate(current domain.AssetStatus, req TransitionRequest) error {
	if !domain.ValidStatus(req.NewStatus) || current == req.NewStatus {
		return ErrIllegalTransition
	}
	if !domain.CanTransition(current, req.NewStatus) {
		return ErrIllegalTransition
	}
	if req.Reason == "" {
		return ErrMissingMetadata
	}
	if !domain.ValidReason(req.Reason) {
		return ErrUnknownReason
	}
	switch req.NewStatus {
	case domain.StatusMaintenance:
		if req.Technician == "" {
			return ErrMissingMetadata
		}
	case domain.StatusRetired:
		if req.RetirementReason == "" {
			return ErrMissingMetadata
		}
	case domain.StatusAssigned:
		if req.AssignToID == nil || *req.AssignToID == uuid.Nil {
			return ErrMissingMetadata
		}
	}
	return nil
}

// ProposeTransition validates and executes one status change atomically:
// guarded status update, ledger bookkeeping when the assigned state is
// entered or left, and exactly one history row. A concurrent writer that
// moves the asset between our read and write turns the guarded update into
// a no-op, which is reported as ErrPreconditionFailed rather than
// overwritten.
func (s *Service) ProposeTransition(ctx context.Context, actorID uuid.UUID, assetID uuid.UUID, req TransitionRequest) (*Result, error) {
	var result Result

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset domain.Asset
		if err := tx.Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrAssetNotFound
			}
			return err
		}

		if err := Validate(asset.Status, req); err != nil {
			return err
		}

		if req.NewStatus == domain.StatusAssigned {
			var assignee domain.User
			if err := tx.Where("user_id = ?", req.AssignToID).First(&assignee).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ErrUserNotFound
				}
				return err
			}
		}

		from := asset.Status
		now := time.Now().UTC()

		updates := map[string]interface{}{
			"status":             req.NewStatus,
			"last_status_change": now,
			"assigned_to_id":     nil,
		}
		if req.NewStatus == domain.StatusAssigned {
			updates["assigned_to_id"] = *req.AssignToID
		}

		// Guard on the status we validated against: if another actor moved
		// the asset since the read, zero rows match.
		res := tx.Model(&domain.Asset{}).
			Where("asset_id = ? AND status = ?", assetID, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPreconditionFailed
		}

		if from == domain.StatusAssigned {
			if _, err := ledger.CloseActive(tx, assetID); err != nil {
				return err
			}
		}
		if req.NewStatus == domain.StatusAssigned {
			var actor *uuid.UUID
			if actorID != uuid.Nil {
				actor = &actorID
			}
			rec, err := ledger.Open(tx, assetID, *req.AssignToID, actor)
			if err != nil {
				return err
			}
			result.Assignment = rec
		}

		hist, err := buildHistoryItem(asset.AssetID, from, now, actorID, req)
		if err != nil {
			return err
		}
		if err := tx.Create(hist).Error; err != nil {
			return err
		}

		asset.Status = req.NewStatus
		asset.LastStatusChange = now
		asset.AssignedToID = req.AssignToID
		if req.NewStatus != domain.StatusAssigned {
			asset.AssignedToID = nil
		}
		result.Asset = asset
		result.History = *hist
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// HistoryForAsset returns the asset's audit trail in chronological order.
func (s *Service) HistoryForAsset(ctx context.Context, assetID uuid.UUID) ([]domain.StatusHistoryItem, error) {
	var items []domain.StatusHistoryItem
	err := s.DB.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("change_date ASC").
		Find(&items).Error
	return items, err
}

func buildHistoryItem(assetID uuid.UUID, from domain.AssetStatus, at time.Time, actorID uuid.UUID, req TransitionRequest) (*domain.StatusHistoryItem, error) {
	meta := map[string]interface{}{}
	switch req.NewStatus {
	case domain.StatusMaintenance:
		meta["technician"] = req.Technician
		if req.ExpectedEnd != nil {
			meta["expected_end"] = req.ExpectedEnd.UTC().Format(time.RFC3339)
		}
	case domain.StatusRetired:
		meta["retirement_reason"] = req.RetirementReason
		if req.DisposalMethod != "" {
			meta["disposal_method"] = req.DisposalMethod
		}
	case domain.StatusAssigned:
		meta["assigned_to_id"] = req.AssignToID.String()
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	var actor *uuid.UUID
	if actorID != uuid.Nil {
		actor = &actorID
	}
	return &domain.StatusHistoryItem{
		AssetID:     assetID,
		FromStatus:  from,
		ToStatus:    req.NewStatus,
		ChangeDate:  at,
		ChangedByID: actor,
		Reason:      req.Reason,
		Notes:       req.Notes,
		Metadata:    datatypes.JSON(metaJSON),
	}, nil
}
