package contracts

import (
	"context"
	"database/sql"
	"errors"
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

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM smart_contracts WHERE name = \$1`).
		WithArgs("cargo_nft").
		WillReturnRows(sqlmock.NewRows([]string{"name", "address", "network", "chain_id", "created_at"}).
			AddRow("cargo_nft", "0x00000000000000000000000000000000000000c0", "sepolia", int64(11155111), now))

	c, err := repo.Get(context.Background(), models.ContractCargoNFT)
	require.NoError(t, err)
	assert.Equal(t, int64(11155111), c.ChainID)
	assert.Equal(t, "sepolia", c.Network)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM smart_contracts`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpsert(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO smart_contracts .* ON CONFLICT \(name\)`).
		WithArgs("brokerage", "0xb", "sepolia", int64(11155111)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.SmartContract{Name: "brokerage", Address: "0xb", Network: "sepolia", ChainID: 11155111})
	require.NoError(t, err)
}

func TestList_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM smart_contracts ORDER BY name`).WillReturnError(errors.New("gone"))

	_, err := repo.List(context.Background())
	assert.Regexp(t, `failed to select contracts: .*gone`, err.Error())
}
