package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/events"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/insurance"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/orders"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// txManager serves reads from memory and sends everything issued inside a
// transaction to the real Postgres repositories, so sqlmock sees the SQL.
type txManager struct {
	memManager
	pg *repomanager.PostgresRepositoryManager
}

func (m txManager) Orders(db dbx.DBTX) orders.Repository {
	if _, ok := db.(*sql.Tx); ok {
		return m.pg.Orders(db)
	}
	return m.memManager.Orders(db)
}

func (m txManager) Insurance(db dbx.DBTX) insurance.Repository {
	if _, ok := db.(*sql.Tx); ok {
		return m.pg.Insurance(db)
	}
	return m.memManager.Insurance(db)
}

var (
	departure = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	arrival   = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
)

func validCargo() *CargoOrderInput {
	return &CargoOrderInput{
		Title:           "Wheat to Rotterdam",
		OriginPort:      "Odesa",
		DestinationPort: "Rotterdam",
		DepartureDate:   departure,
		ArrivalDate:     arrival,
		WeightTons:      decimal.NewFromInt(1200),
		CargoType:       "grain",
		Price:           decimal.NewFromInt(50000),
	}
}

func validVessel() *VesselInput {
	return &VesselInput{
		VesselName:      "Nordic Star",
		IMONumber:       "IMO 9074729",
		OriginPort:      "Hamburg",
		DestinationPort: "Singapore",
		DepartureDate:   departure,
		ArrivalDate:     arrival,
		CapacityTons:    decimal.NewFromInt(40000),
		Price:           decimal.NewFromInt(90000),
	}
}

func seedOrder(s *memStore, typ models.OrderType, owner string, status models.OrderStatus) *models.Order {
	token := "7"
	o := &models.Order{
		ID:      uuid.NewString(),
		Owner:   owner,
		Type:    typ,
		Title:   string(typ),
		Status:  status,
		TokenID: &token,
	}
	s.orders[o.ID] = o
	return o
}

func seedTemplate(s *memStore, active bool) *models.InsuranceTemplate {
	t := &models.InsuranceTemplate{
		ID:               uuid.NewString(),
		Name:             "Delay cover",
		TriggerCondition: models.TriggerDelayHours,
		Threshold:        decimal.NewFromInt(48),
		Premium:          decimal.NewFromInt(100),
		Payout:           decimal.NewFromInt(5000),
		Active:           active,
	}
	s.templates[t.ID] = t
	return t
}

func TestOrderService_CreateCargoOrder(t *testing.T) {
	h := newHarness(t)
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	svc := NewOrderService(h.db, h.rm(), h.mint)
	order, err := svc.CreateCargoOrder(context.Background(), ownerWallet, validCargo())
	require.NoError(t, err)

	assert.Equal(t, models.OrderTypeCargo, order.Type)
	assert.Equal(t, models.OrderStatusActive, order.Status)
	require.NotNil(t, order.TokenID)
	assert.Equal(t, "42", *order.TokenID)
	assert.Equal(t, cargoNFT, *order.ContractAddress)
	assert.Nil(t, order.InsurancePolicyID)
	assert.Equal(t, 1, h.store.orderCreates)
	assert.Equal(t, []string{events.OrderCreated}, h.events.types())
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestOrderService_CreateCargoOrder_WithTemplate(t *testing.T) {
	h := newHarness(t)
	tpl := seedTemplate(h.store, true)
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	in := validCargo()
	in.InsuranceTemplateID = tpl.ID

	svc := NewOrderService(h.db, h.rm(), h.mint)
	order, err := svc.CreateCargoOrder(context.Background(), ownerWallet, in)
	require.NoError(t, err)

	require.Len(t, h.store.policies, 1)
	assert.Equal(t, tpl.ID, *order.InsuranceTemplateID)
	assert.Equal(t, h.store.policies[0].ID, *order.InsurancePolicyID)
	assert.Equal(t, []string{order.ID}, h.store.insuranceUpd)
}

func TestOrderService_CreateCargoOrder_ValidationNoSideEffects(t *testing.T) {
	cases := map[string]func(in *CargoOrderInput){
		"missing title":       func(in *CargoOrderInput) { in.Title = " " },
		"zero weight":         func(in *CargoOrderInput) { in.WeightTons = decimal.Zero },
		"negative price":      func(in *CargoOrderInput) { in.Price = decimal.NewFromInt(-1) },
		"arrival first":       func(in *CargoOrderInput) { in.ArrivalDate = departure.Add(-time.Hour) },
		"bad template id":     func(in *CargoOrderInput) { in.InsuranceTemplateID = "x" },
		"unknown template id": func(in *CargoOrderInput) { in.InsuranceTemplateID = uuid.NewString() },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			in := validCargo()
			mutate(in)

			svc := NewOrderService(h.db, h.rm(), h.mint)
			_, err := svc.CreateCargoOrder(context.Background(), ownerWallet, in)
			require.ErrorIs(t, err, common.ErrValidation)
			assert.Zero(t, h.minter.callCount())
			assert.Zero(t, h.store.writes())
		})
	}
}

func TestOrderService_CreateCargoOrder_InactiveTemplate(t *testing.T) {
	h := newHarness(t)
	tpl := seedTemplate(h.store, false)
	in := validCargo()
	in.InsuranceTemplateID = tpl.ID

	svc := NewOrderService(h.db, h.rm(), h.mint)
	_, err := svc.CreateCargoOrder(context.Background(), ownerWallet, in)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, h.minter.callCount())
}

func TestOrderService_CreateCargoOrder_ProviderRejection(t *testing.T) {
	h := newHarness(t)
	h.minter.submitErr = errProvider

	svc := NewOrderService(h.db, h.rm(), h.mint)
	_, err := svc.CreateCargoOrder(context.Background(), ownerWallet, validCargo())
	require.ErrorIs(t, err, common.ErrTransaction)
	assert.Zero(t, h.store.writes())
}

func TestOrderService_CreateCargoOrder_PersistFailure(t *testing.T) {
	h := newHarness(t)
	h.store.orderErr = errors.New("db error: connection refused")
	h.mock.ExpectBegin()
	h.mock.ExpectRollback()

	svc := NewOrderService(h.db, h.rm(), h.mint)
	_, err := svc.CreateCargoOrder(context.Background(), ownerWallet, validCargo())
	require.ErrorIs(t, err, common.ErrPersistAfterMint)
	assert.Contains(t, err.Error(), "support")
	assert.Len(t, h.store.orphans, 1)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestOrderService_RegisterVessel(t *testing.T) {
	h := newHarness(t)

	svc := NewOrderService(h.db, h.rm(), h.mint)
	order, err := svc.RegisterVessel(context.Background(), ownerWallet, validVessel())
	require.NoError(t, err)

	assert.Equal(t, models.OrderTypeVessel, order.Type)
	assert.Equal(t, "9074729", order.IMONumber)
	assert.Equal(t, "Nordic Star", order.Title)
	assert.Equal(t, vesselNFT, *order.ContractAddress)

	call := h.minter.calls[0]
	assert.Equal(t, "registerVessel", call.Binding.Method)
	assert.Equal(t, "9074729", call.Args[2])
	assert.Equal(t, []string{events.VesselRegistered}, h.events.types())
}

func TestOrderService_RegisterVessel_BadIMO(t *testing.T) {
	h := newHarness(t)
	in := validVessel()
	in.IMONumber = "9074728"

	svc := NewOrderService(h.db, h.rm(), h.mint)
	_, err := svc.RegisterVessel(context.Background(), ownerWallet, in)

	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "imo_number", ve.Fields[0].Field)
	assert.Zero(t, h.minter.callCount())
}

func TestOrderService_ListMarketplace(t *testing.T) {
	h := newHarness(t)
	seedOrder(h.store, models.OrderTypeCargo, ownerWallet, models.OrderStatusActive)
	seedOrder(h.store, models.OrderTypeCargo, otherWallet, models.OrderStatusActive)
	seedOrder(h.store, models.OrderTypeVessel, otherWallet, models.OrderStatusActive)
	seedOrder(h.store, models.OrderTypeVessel, otherWallet, models.OrderStatusCancelled)

	svc := NewOrderService(h.db, h.rm(), h.mint)
	m, err := svc.ListMarketplace(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, m.CargoCount)
	assert.Equal(t, 1, m.VesselCount)

	m, err = svc.ListMarketplace(context.Background(), models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 0, m.CargoCount)
	assert.Equal(t, 1, m.VesselCount)

	_, err = svc.ListMarketplace(context.Background(), "lost")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestOrderService_GetOrder(t *testing.T) {
	h := newHarness(t)
	o := seedOrder(h.store, models.OrderTypeCargo, ownerWallet, models.OrderStatusActive)
	svc := NewOrderService(h.db, h.rm(), h.mint)

	got, err := svc.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = svc.GetOrder(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = svc.GetOrder(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	h := newHarness(t)
	o := seedOrder(h.store, models.OrderTypeCargo, ownerWallet, models.OrderStatusActive)
	svc := NewOrderService(h.db, h.rm(), h.mint)

	require.NoError(t, svc.UpdateStatus(context.Background(), ownerWallet, o.ID, models.OrderStatusInTransit))
	assert.Equal(t, models.OrderStatusInTransit, h.store.orders[o.ID].Status)
	assert.Equal(t, []string{events.OrderUpdated}, h.events.types())

	err := svc.UpdateStatus(context.Background(), otherWallet, o.ID, models.OrderStatusCancelled)
	require.ErrorIs(t, err, common.ErrorForbidden)

	err = svc.UpdateStatus(context.Background(), ownerWallet, o.ID, "lost")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestOrderService_ApplyInsuranceTemplate_UpdatesExactlyOneOrder(t *testing.T) {
	h := newHarness(t)
	target := seedOrder(h.store, models.OrderTypeCargo, ownerWallet, models.OrderStatusActive)
	seedOrder(h.store, models.OrderTypeCargo, ownerWallet, models.OrderStatusActive)
	tpl := seedTemplate(h.store, true)

	h.mock.ExpectBegin()
	h.mock.ExpectExec(regexp.QuoteMeta(`UPDATE insurance_policies SET status = 'expired' WHERE order_id = $1`)).
		WithArgs(target.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	h.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO insurance_policies (id, order_id, template_id, holder, status)`)).
		WithArgs(sqlmock.AnyArg(), target.ID, tpl.ID, ownerWallet, "active").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	h.mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET insurance_template_id = $1, insurance_policy_id = $2, updated_at = now() WHERE id = $3`)).
		WithArgs(tpl.ID, sqlmock.AnyArg(), target.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	h.mock.ExpectCommit()

	rm := txManager{memManager: memManager{h.store}, pg: repomanager.NewPostgresRepositoryManager()}
	svc := NewOrderService(h.db, rm, h.mint)

	policy, err := svc.ApplyInsuranceTemplate(context.Background(), ownerWallet, target.ID, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, policy.OrderID)
	assert.Equal(t, models.PolicyStatusActive, policy.Status)
	assert.Equal(t, []string{events.InsuranceApplied}, h.events.types())
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestOrderService_ApplyInsuranceTemplate_RollsBackWhenOrderVanishes(t *testing.T) {
	h := newHarness(t)
	target := seedOrder(h.store, models.OrderTypeCargo, ownerWallet, models.OrderStatusActive)
	tpl := seedTemplate(h.store, true)

	h.mock.ExpectBegin()
	h.mock.ExpectExec(regexp.QuoteMeta(`UPDATE insurance_policies SET status = 'expired'`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	h.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO insurance_policies`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	h.mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET insurance_template_id`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	h.mock.ExpectRollback()

	rm := txManager{memManager: memManager{h.store}, pg: repomanager.NewPostgresRepositoryManager()}
	svc := NewOrderService(h.db, rm, h.mint)

	_, err := svc.ApplyInsuranceTemplate(context.Background(), ownerWallet, target.ID, tpl.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, h.events.sent)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestOrderService_ApplyInsuranceTemplate_ExpiresPreviousPolicy(t *testing.T) {
	h := newHarness(t)
	target := seedOrder(h.store, models.OrderTypeCargo, ownerWallet, models.OrderStatusActive)
	first := seedTemplate(h.store, true)
	second := seedTemplate(h.store, true)
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	svc := NewOrderService(h.db, h.rm(), h.mint)
	old, err := svc.ApplyInsuranceTemplate(context.Background(), ownerWallet, target.ID, first.ID)
	require.NoError(t, err)
	cur, err := svc.ApplyInsuranceTemplate(context.Background(), ownerWallet, target.ID, second.ID)
	require.NoError(t, err)

	require.Len(t, h.store.policies, 2)
	assert.Equal(t, models.PolicyStatusExpired, old.Status)
	assert.Equal(t, models.PolicyStatusActive, cur.Status)
	assert.Equal(t, cur.ID, *h.store.orders[target.ID].InsurancePolicyID)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestOrderService_ApplyInsuranceTemplate_Rejections(t *testing.T) {
	h := newHarness(t)
	mine := seedOrder(h.store, models.OrderTypeCargo, ownerWallet, models.OrderStatusActive)
	active := seedTemplate(h.store, true)
	inactive := seedTemplate(h.store, false)
	svc := NewOrderService(h.db, h.rm(), h.mint)
	ctx := context.Background()

	_, err := svc.ApplyInsuranceTemplate(ctx, ownerWallet, "bad", active.ID)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.ApplyInsuranceTemplate(ctx, otherWallet, mine.ID, active.ID)
	require.ErrorIs(t, err, common.ErrorForbidden)

	_, err = svc.ApplyInsuranceTemplate(ctx, ownerWallet, mine.ID, inactive.ID)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.ApplyInsuranceTemplate(ctx, ownerWallet, mine.ID, uuid.NewString())
	require.ErrorIs(t, err, common.ErrValidation)

	assert.Empty(t, h.store.insuranceUpd)
}
