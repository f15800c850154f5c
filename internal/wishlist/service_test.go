package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/internal/catalog"
	pkgerrors "github.com/lacewalk/lacewalk-backend/pkg/errors"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
	"gorm.io/gorm"
)

type stubWishlistRepo struct {
	added   []uuid.UUID
	removed int
	page    PageDTO
}

func (s *stubWishlistRepo) WithTx(tx *gorm.DB) WishlistRepository { return s }

func (s *stubWishlistRepo) Add(ctx context.Context, owner types.Owner, productID, variantID uuid.UUID) error {
	s.added = append(s.added, variantID)
	return nil
}

func (s *stubWishlistRepo) Remove(ctx context.Context, owner types.Owner, productID, variantID uuid.UUID) (int64, error) {
	s.removed++
	return 0, nil
}

func (s *stubWishlistRepo) List(ctx context.Context, owner types.Owner, cursor string, limit int) (PageDTO, error) {
	return s.page, nil
}

func (s *stubWishlistRepo) MergeSessionInto(ctx context.Context, sessionID, accountID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubProductChecker struct {
	detail *catalog.ProductDetail
	err    error
}

func (s stubProductChecker) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestLikeProductLevelUsesSentinel(t *testing.T) {
	t.Parallel()

	repo := &stubWishlistRepo{}
	checker := stubProductChecker{detail: &catalog.ProductDetail{}}
	svc, err := NewService(repo, checker)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	owner := types.SessionOwner(uuid.New())
	if err := svc.Like(context.Background(), owner, uuid.New(), nil); err != nil {
		t.Fatalf("like: %v", err)
	}
	if len(repo.added) != 1 || repo.added[0] != uuid.Nil {
		t.Fatalf("expected sentinel variant id, got %v", repo.added)
	}
}

func TestLikeValidatesVariantBelongsToProduct(t *testing.T) {
	t.Parallel()

	variantID := uuid.New()
	checker := stubProductChecker{detail: &catalog.ProductDetail{
		Variants: []catalog.VariantDTO{{ID: variantID}},
	}}
	repo := &stubWishlistRepo{}
	svc, _ := NewService(repo, checker)
	owner := types.AccountOwner(uuid.New())

	if err := svc.Like(context.Background(), owner, uuid.New(), &variantID); err != nil {
		t.Fatalf("like with matching variant: %v", err)
	}

	foreign := uuid.New()
	err := svc.Like(context.Background(), owner, uuid.New(), &foreign)
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestLikePropagatesMissingProduct(t *testing.T) {
	t.Parallel()

	checker := stubProductChecker{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	svc, _ := NewService(&stubWishlistRepo{}, checker)

	err := svc.Like(context.Background(), types.AccountOwner(uuid.New()), uuid.New(), nil)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestUnlikeAbsentEntrySucceeds(t *testing.T) {
	t.Parallel()

	repo := &stubWishlistRepo{}
	svc, _ := NewService(repo, stubProductChecker{detail: &catalog.ProductDetail{}})

	if err := svc.Unlike(context.Background(), types.SessionOwner(uuid.New()), uuid.New(), nil); err != nil {
		t.Fatalf("unlike of absent entry should be a no-op, got %v", err)
	}
	if repo.removed != 1 {
		t.Fatalf("expected one repo remove call, got %d", repo.removed)
	}
}

func TestGetWishlistRequiresOwner(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubWishlistRepo{}, stubProductChecker{detail: &catalog.ProductDetail{}})

	_, err := svc.GetWishlist(context.Background(), types.Owner{}, "", 10)
	expectCode(t, err, pkgerrors.CodeValidation)
}
