package bulk

import (
	"context"
	"errors"
	"sync"
	"time"

	"zimmet-backend/internal/catalog"
	"zimmet-backend/internal/transitions"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	ActionTransition = "transition"
	ActionDelete     = "delete"
)

var (
	ErrEmptyBatch    = errors.New("At least one asset id is required")
	ErrUnknownAction = errors.New("Unknown bulk action")
)

// Operation is what gets applied to every asset in the batch: a status
// transition descriptor or a delete marker.
type Operation struct {
	Action     string                          `json:"action"`
	Transition *transitions.TransitionRequest  `json:"transition,omitempty"`
}

// ItemError is one per-asset failure inside an otherwise completed batch.
type ItemError struct {
	AssetID uuid.UUID `json:"asset_id"`
	Reason  string    `json:"reason"`
}

// Result aggregates a batch run. SuccessCount + FailureCount always equals
// the number of distinct input ids.
type Result struct {
	SuccessCount int         `json:"success_count"`
	FailureCount int         `json:"failure_count"`
	Errors       []ItemError `json:"errors"`
}

// Service fans one operation out over a set of assets. Items run
// independently under a bounded worker pool: one malformed or slow item
// fails alone, the rest of the batch proceeds. There is no batch-wide
// transaction and no rollback of committed items — corrections happen via
// a new forward transition.
type Service struct {
	Engine         *transitions.Service
	Catalog        *catalog.Service
	MaxConcurrency int
	ItemTimeout    time.Duration
}

// ApplyBulk runs op against every distinct id in assetIDs. Per-item errors
// are captured into the result; the only errors returned directly are input
// validation ones (empty batch, unknown action). Cancelling ctx stops
// launching new items, but items already committed stay committed.
func (s *Service) ApplyBulk(ctx context.Context, actorID uuid.UUID, assetIDs []uuid.UUID, op Operation) (*Result, error) {
	ids := dedupe(assetIDs)
	if len(ids) == 0 {
		return nil, ErrEmptyBatch
	}
	if op.Action != ActionTransition && op.Action != ActionDelete {
		return nil, ErrUnknownAction
	}
	if op.Action == ActionTransition && op.Transition == nil {
		return nil, ErrUnknownAction
	}

	maxConc := s.MaxConcurrency
	if maxConc <= 0 {
		maxConc = 8
	}
	itemTimeout := s.ItemTimeout
	if itemTimeout <= 0 {
		itemTimeout = 5 * time.Second
	}

	var (
		mu     sync.Mutex
		result Result
	)
	fail := func(id uuid.UUID, err error) {
		mu.Lock()
		result.FailureCount++
		result.Errors = append(result.Errors, ItemError{AssetID: id, Reason: err.Error()})
		mu.Unlock()
		log.Warn().Str("asset_id", id.String()).Str("action", op.Action).Err(err).Msg("Bulk item failed")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConc)

	for _, id := range ids {
		// A cancelled run stops issuing new items; already-launched ones
		// finish under their own timeout.
		if gctx.Err() != nil {
			fail(id, gctx.Err())
			continue
		}
		id := id
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(gctx, itemTimeout)
			defer cancel()

			if err := s.applyOne(itemCtx, actorID, id, op); err != nil {
				fail(id, err)
				return nil
			}
			mu.Lock()
			result.SuccessCount++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return &result, nil
}

func (s *Service) applyOne(ctx context.Context, actorID, assetID uuid.UUID, op Operation) error {
	switch op.Action {
	case ActionTransition:
		_, err := s.Engine.ProposeTransition(ctx, actorID, assetID, *op.Transition)
		return err
	case ActionDelete:
		return s.Catalog.DeleteAsset(ctx, assetID)
	default:
		return ErrUnknownAction
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
