package handoff

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/internal/cart"
	"github.com/lacewalk/lacewalk-backend/internal/wishlist"
	"github.com/lacewalk/lacewalk-backend/pkg/logger"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubTxRunner struct {
	err   error
	calls int
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubMergeCartRepo struct {
	moved int64
	err   error
	calls int
}

func (s *stubMergeCartRepo) WithTx(tx *gorm.DB) cart.CartRepository { return s }
func (s *stubMergeCartRepo) Upsert(ctx context.Context, owner types.Owner, variantID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	return nil
}
func (s *stubMergeCartRepo) List(ctx context.Context, owner types.Owner) ([]cart.LineRecord, error) {
	return nil, nil
}
func (s *stubMergeCartRepo) UpdateQuantity(ctx context.Context, owner types.Owner, variantID uuid.UUID, quantity int) (int64, error) {
	return 0, nil
}
func (s *stubMergeCartRepo) Remove(ctx context.Context, owner types.Owner, variantID uuid.UUID) (int64, error) {
	return 0, nil
}
func (s *stubMergeCartRepo) MergeSessionInto(ctx context.Context, sessionID, accountID uuid.UUID) (int64, error) {
	s.calls++
	return s.moved, s.err
}

type stubMergeWishRepo struct {
	moved int64
	err   error
	calls int
}

func (s *stubMergeWishRepo) WithTx(tx *gorm.DB) wishlist.WishlistRepository { return s }
func (s *stubMergeWishRepo) Add(ctx context.Context, owner types.Owner, productID, variantID uuid.UUID) error {
	return nil
}
func (s *stubMergeWishRepo) Remove(ctx context.Context, owner types.Owner, productID, variantID uuid.UUID) (int64, error) {
	return 0, nil
}
func (s *stubMergeWishRepo) List(ctx context.Context, owner types.Owner, cursor string, limit int) (wishlist.PageDTO, error) {
	return wishlist.PageDTO{}, nil
}
func (s *stubMergeWishRepo) MergeSessionInto(ctx context.Context, sessionID, accountID uuid.UUID) (int64, error) {
	s.calls++
	return s.moved, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestCoordinator(t *testing.T, tx *stubTxRunner, cartRepo *stubMergeCartRepo, wishRepo *stubMergeWishRepo) *Coordinator {
	t.Helper()
	coord, err := NewCoordinator(CoordinatorParams{
		Tx:           tx,
		CartRepo:     cartRepo,
		WishlistRepo: wishRepo,
		Logger:       testLogger(),
	})
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	return coord
}

func TestMigrateRunsBothFamiliesInOneTransaction(t *testing.T) {
	t.Parallel()

	tx := &stubTxRunner{}
	cartRepo := &stubMergeCartRepo{moved: 2}
	wishRepo := &stubMergeWishRepo{moved: 3}
	coord := newTestCoordinator(t, tx, cartRepo, wishRepo)

	result, err := coord.Migrate(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("expected a single transaction, got %d", tx.calls)
	}
	if result.CartMerged != 2 || result.WishlistMerged != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestMigrateAbortsWhenCartMergeFails(t *testing.T) {
	t.Parallel()

	tx := &stubTxRunner{}
	cartRepo := &stubMergeCartRepo{err: errors.New("deadlock detected")}
	wishRepo := &stubMergeWishRepo{}
	coord := newTestCoordinator(t, tx, cartRepo, wishRepo)

	if _, err := coord.Migrate(context.Background(), uuid.New(), uuid.New()); err == nil {
		t.Fatal("expected migrate to fail")
	}
	if wishRepo.calls != 0 {
		t.Fatal("wishlist merge must not run after a cart merge failure")
	}
}

func TestMigrateValidatesIDs(t *testing.T) {
	t.Parallel()

	coord := newTestCoordinator(t, &stubTxRunner{}, &stubMergeCartRepo{}, &stubMergeWishRepo{})

	if _, err := coord.Migrate(context.Background(), uuid.Nil, uuid.New()); err == nil {
		t.Fatal("expected missing session id to fail")
	}
	if _, err := coord.Migrate(context.Background(), uuid.New(), uuid.Nil); err == nil {
		t.Fatal("expected missing account id to fail")
	}
}

func TestBestEffortSwallowsFailures(t *testing.T) {
	t.Parallel()

	tx := &stubTxRunner{err: errors.New("connection refused")}
	coord := newTestCoordinator(t, tx, &stubMergeCartRepo{}, &stubMergeWishRepo{})

	outcome := coord.BestEffort(context.Background(), uuid.New(), uuid.New())
	if !outcome.Attempted {
		t.Fatal("expected an attempt")
	}
	if outcome.Succeeded {
		t.Fatal("expected the attempt to be reported as failed")
	}
}

func TestBestEffortSkipsWithoutGuestSession(t *testing.T) {
	t.Parallel()

	tx := &stubTxRunner{}
	coord := newTestCoordinator(t, tx, &stubMergeCartRepo{}, &stubMergeWishRepo{})

	outcome := coord.BestEffort(context.Background(), uuid.Nil, uuid.New())
	if outcome.Attempted {
		t.Fatal("no attempt expected without a guest session")
	}
	if tx.calls != 0 {
		t.Fatal("no transaction expected without a guest session")
	}
}

func TestBestEffortReportsMergedCounts(t *testing.T) {
	t.Parallel()

	coord := newTestCoordinator(t, &stubTxRunner{}, &stubMergeCartRepo{moved: 1}, &stubMergeWishRepo{moved: 4})

	outcome := coord.BestEffort(context.Background(), uuid.New(), uuid.New())
	if !outcome.Succeeded {
		t.Fatal("expected success")
	}
	if outcome.Result.CartMerged != 1 || outcome.Result.WishlistMerged != 4 {
		t.Fatalf("unexpected result %+v", outcome.Result)
	}
}
