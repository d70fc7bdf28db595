package accounts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/andino-erp/andino-erp/testing"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

type mockRepository struct {
	accounts  map[int64]*Account
	byCode    map[string]*Account
	movements map[int64]int64
	nextID    int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts:  make(map[int64]*Account),
		byCode:    make(map[string]*Account),
		movements: make(map[int64]int64),
		nextID:    1,
	}
}

func codeKey(companyID int64, code string) string {
	return fmt.Sprintf("%d:%s", companyID, code)
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &mockTx{mock: m})
}

func (m *mockRepository) List(ctx context.Context, companyID int64) ([]Account, error) {
	var out []Account
	for _, a := range m.accounts {
		if a.CompanyID == companyID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return Account{}, shared.ErrAccountNotFound
	}
	return *a, nil
}

func (m *mockRepository) GetByCode(ctx context.Context, companyID int64, code string) (Account, error) {
	a, ok := m.byCode[codeKey(companyID, code)]
	if !ok {
		return Account{}, shared.ErrAccountNotFound
	}
	return *a, nil
}

func (m *mockRepository) CountChildren(ctx context.Context, id int64) (int64, error) {
	var n int64
	for _, a := range m.accounts {
		if a.ParentID != nil && *a.ParentID == id {
			n++
		}
	}
	return n, nil
}

type mockTx struct {
	mock *mockRepository
}

func (tx *mockTx) Get(ctx context.Context, id int64) (Account, error) {
	return tx.mock.Get(ctx, id)
}

func (tx *mockTx) GetByCode(ctx context.Context, companyID int64, code string) (Account, error) {
	return tx.mock.GetByCode(ctx, companyID, code)
}

func (tx *mockTx) Insert(ctx context.Context, a Account) (Account, error) {
	key := codeKey(a.CompanyID, a.Code)
	if _, exists := tx.mock.byCode[key]; exists {
		return Account{}, shared.ErrDuplicateCode
	}
	a.ID = tx.mock.nextID
	tx.mock.nextID++
	a.IsActive = true
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	stored := a
	tx.mock.accounts[a.ID] = &stored
	tx.mock.byCode[key] = &stored
	return a, nil
}

func (tx *mockTx) CountChildren(ctx context.Context, id int64) (int64, error) {
	return tx.mock.CountChildren(ctx, id)
}

func (tx *mockTx) CountMovements(ctx context.Context, id int64) (int64, error) {
	return tx.mock.movements[id], nil
}

func (tx *mockTx) Delete(ctx context.Context, id int64) error {
	a, ok := tx.mock.accounts[id]
	if !ok {
		return shared.ErrAccountNotFound
	}
	delete(tx.mock.byCode, codeKey(a.CompanyID, a.Code))
	delete(tx.mock.accounts, id)
	return nil
}

func seedTree(t *testing.T, svc *Service) (root, group, leaf Account) {
	t.Helper()
	var err error
	root, err = svc.Create(context.Background(), CreateInput{CompanyID: 1, Code: "1", Name: "Activo", Type: AccountTypeAsset})
	require.NoError(t, err)
	group, err = svc.Create(context.Background(), CreateInput{CompanyID: 1, Code: "1.1", Name: "Circulante", Type: AccountTypeAsset})
	require.NoError(t, err)
	leaf, err = svc.Create(context.Background(), CreateInput{CompanyID: 1, Code: "1.1.01", Name: "Caja", Type: AccountTypeAsset})
	require.NoError(t, err)
	return root, group, leaf
}

func TestCreateResolvesParentByPrefix(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	root, group, leaf := seedTree(t, svc)

	require.Nil(t, root.ParentID)
	require.NotNil(t, group.ParentID)
	assert.Equal(t, root.ID, *group.ParentID)
	require.NotNil(t, leaf.ParentID)
	assert.Equal(t, group.ID, *leaf.ParentID)
}

func TestCreateRequiresExistingParent(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{CompanyID: 1, Code: "2.1", Name: "Proveedores", Type: AccountTypeLiability})
	assert.ErrorIs(t, err, shared.ErrParentNotFound)
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	seedTree(t, svc)

	_, err := svc.Create(context.Background(), CreateInput{CompanyID: 1, Code: "1.1", Name: "Otra", Type: AccountTypeAsset})
	assert.ErrorIs(t, err, shared.ErrDuplicateCode)
}

func TestIsPostableOnlyForLeaves(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	_, group, leaf := seedTree(t, svc)

	postable, err := svc.IsPostable(context.Background(), group.ID)
	require.NoError(t, err)
	assert.False(t, postable)

	postable, err = svc.IsPostable(context.Background(), leaf.ID)
	require.NoError(t, err)
	assert.True(t, postable)
}

func TestDeleteGuards(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	_, group, leaf := seedTree(t, svc)

	err := svc.Delete(context.Background(), group.ID)
	assert.ErrorIs(t, err, shared.ErrHasChildren)

	repo.movements[leaf.ID] = 3
	err = svc.Delete(context.Background(), leaf.ID)
	assert.ErrorIs(t, err, shared.ErrHasMovements)

	repo.movements[leaf.ID] = 0
	require.NoError(t, svc.Delete(context.Background(), leaf.ID))

	require.NoError(t, svc.Delete(context.Background(), group.ID))
}
