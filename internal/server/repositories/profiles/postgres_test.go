package profiles

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_LowercasesWallet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs("p1", "0xabcdef0000000000000000000000000000000001", "Alice", "shipper", "n1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	p := &models.Profile{ID: "p1", WalletAddress: "0xABCDEF0000000000000000000000000000000001",
		DisplayName: "Alice", Role: models.RoleShipper, Nonce: "n1"}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, "0xabcdef0000000000000000000000000000000001", p.WalletAddress)
	assert.Equal(t, now, p.CreatedAt)
}

func TestGetByWallet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM profiles WHERE wallet_address = \$1`).
		WithArgs("0xabc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_address", "display_name", "role", "nonce", "created_at"}).
			AddRow("p1", "0xabc", "Bob", "carrier", "n2", now))

	p, err := repo.GetByWallet(context.Background(), "0xABC")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCarrier, p.Role)
	assert.Equal(t, "n2", p.Nonce)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM profiles WHERE id = \$1`).WithArgs("p9").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "p9")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSetNonce(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE profiles SET nonce = \$1 WHERE id = \$2`).
		WithArgs("n3", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetNonce(context.Background(), "p1", "n3"))

	mock.ExpectExec(`UPDATE profiles SET nonce`).
		WithArgs("n3", "p9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.SetNonce(context.Background(), "p9", "n3"), common.ErrorNotFound)
}
