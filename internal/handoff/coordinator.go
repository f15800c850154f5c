package handoff

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/internal/cart"
	"github.com/lacewalk/lacewalk-backend/internal/wishlist"
	pkgerrors "github.com/lacewalk/lacewalk-backend/pkg/errors"
	"github.com/lacewalk/lacewalk-backend/pkg/logger"
	"github.com/lacewalk/lacewalk-backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Result reports what a completed migration moved.
type Result struct {
	CartMerged     int64 `json:"cart_merged"`
	WishlistMerged int64 `json:"wishlist_merged"`
}

// Outcome wraps a best-effort migration attempt. Succeeded is false both when
// nothing was attempted and when the attempt failed.
type Outcome struct {
	Attempted bool   `json:"attempted"`
	Succeeded bool   `json:"succeeded"`
	Result    Result `json:"result"`
}

// Coordinator moves a guest session's cart and wishlist onto an account.
type Coordinator struct {
	tx       txRunner
	cartRepo cart.CartRepository
	wishRepo wishlist.WishlistRepository
	logg     *logger.Logger
	metrics  *metrics.MigrationMetrics
	now      func() time.Time
}

// CoordinatorParams groups dependencies for the migration coordinator.
type CoordinatorParams struct {
	Tx           txRunner
	CartRepo     cart.CartRepository
	WishlistRepo wishlist.WishlistRepository
	Logger       *logger.Logger
	Metrics      *metrics.MigrationMetrics
}

// NewCoordinator builds a migration coordinator.
func NewCoordinator(params CoordinatorParams) (*Coordinator, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Coordinator{
		tx:       params.Tx,
		cartRepo: params.CartRepo,
		wishRepo: params.WishlistRepo,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      time.Now,
	}, nil
}

// Migrate folds the session's cart and wishlist into the account inside one
// transaction. Replays are safe: once the session owns no rows there is
// nothing left to move.
func (c *Coordinator) Migrate(ctx context.Context, sessionID, accountID uuid.UUID) (Result, error) {
	if sessionID == uuid.Nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if accountID == uuid.Nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}

	var result Result
	err := c.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartMoved, err := c.cartRepo.WithTx(tx).MergeSessionInto(ctx, sessionID, accountID)
		if err != nil {
			return err
		}
		wishMoved, err := c.wishRepo.WithTx(tx).MergeSessionInto(ctx, sessionID, accountID)
		if err != nil {
			return err
		}
		result = Result{CartMerged: cartMoved, WishlistMerged: wishMoved}
		return nil
	})
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "migrate guest session")
	}
	return result, nil
}

// BestEffort runs Migrate but never surfaces a failure: login and registration
// must succeed even when the handoff does not. Failures are logged and counted.
func (c *Coordinator) BestEffort(ctx context.Context, sessionID, accountID uuid.UUID) Outcome {
	if sessionID == uuid.Nil || accountID == uuid.Nil {
		return Outcome{}
	}

	started := c.now()
	ctx = c.logg.WithFields(ctx, map[string]any{
		"guest_session_id": sessionID.String(),
		"account_id":       accountID.String(),
	})

	result, err := c.Migrate(ctx, sessionID, accountID)
	elapsed := c.now().Sub(started)
	c.metrics.ObserveOutcome(err == nil, elapsed)

	if err != nil {
		c.logg.Error(ctx, "guest session migration failed", err)
		return Outcome{Attempted: true}
	}

	c.metrics.AddMerged("cart", result.CartMerged)
	c.metrics.AddMerged("wishlist", result.WishlistMerged)

	ctx = c.logg.WithFields(ctx, map[string]any{
		"cart_merged":     result.CartMerged,
		"wishlist_merged": result.WishlistMerged,
	})
	c.logg.Info(ctx, "guest session migrated")

	return Outcome{Attempted: true, Succeeded: true, Result: result}
}
