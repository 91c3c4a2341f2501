package services

import (
	"context"
	"database/sql"
	"errors"
	"math/big"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/shipmarket/internal/chain"
	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/logging"
	"github.com/dmitrijs2005/shipmarket/internal/server/events"
	"github.com/dmitrijs2005/shipmarket/internal/server/metadata"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/carrierroutes"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/contracts"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/insurance"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/matches"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/orders"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/orphans"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/repomanager"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

const (
	ownerWallet  = "0x1111111111111111111111111111111111111111"
	otherWallet  = "0x2222222222222222222222222222222222222222"
	cargoNFT     = "0x00000000000000000000000000000000000000c0"
	vesselNFT    = "0x00000000000000000000000000000000000000e1"
	journeyNFT   = "0x00000000000000000000000000000000000000a2"
	insuranceNFT = "0x00000000000000000000000000000000000000b3"
)

// memStore backs every fake repository.
type memStore struct {
	mu sync.Mutex

	orders        map[string]*models.Order
	orderCreates  int
	orderErr      error
	statusUpdates map[string]models.OrderStatus
	insuranceUpd  []string

	// beforeTransition runs ahead of every conditional status change.
	beforeTransition func()

	routes    []*models.CarrierRoute
	routeErr  error
	templates map[string]*models.InsuranceTemplate
	userPols  []*models.UserInsurancePolicy
	policies  []*models.InsurancePolicy
	matches   map[string]*models.OrderMatch
	matchErr  error
	contracts map[string]*models.SmartContract
	orphans   []*models.OrphanedMint
	profiles  map[string]*models.Profile
	refresh   map[string]*models.RefreshToken
}

func newMemStore() *memStore {
	return &memStore{
		orders:        map[string]*models.Order{},
		statusUpdates: map[string]models.OrderStatus{},
		templates:     map[string]*models.InsuranceTemplate{},
		matches:       map[string]*models.OrderMatch{},
		contracts: map[string]*models.SmartContract{
			models.ContractCargoNFT:     {Name: models.ContractCargoNFT, Address: cargoNFT, ChainID: 1337},
			models.ContractVesselNFT:    {Name: models.ContractVesselNFT, Address: vesselNFT, ChainID: 1337},
			models.ContractJourneyNFT:   {Name: models.ContractJourneyNFT, Address: journeyNFT, ChainID: 1337},
			models.ContractInsuranceNFT: {Name: models.ContractInsuranceNFT, Address: insuranceNFT, ChainID: 1337},
		},
		profiles: map[string]*models.Profile{},
		refresh:  map[string]*models.RefreshToken{},
	}
}

// writes counts rows written by mint flows.
func (m *memStore) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orderCreates + len(m.routes) + len(m.userPols)
}

type memOrders struct{ s *memStore }

func (r memOrders) Create(ctx context.Context, o *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.orderErr != nil {
		return r.s.orderErr
	}
	cp := *o
	r.s.orders[o.ID] = &cp
	r.s.orderCreates++
	return nil
}

func (r memOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *o
	return &cp, nil
}

func (r memOrders) List(ctx context.Context, f orders.Filter) ([]*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Order
	for _, o := range r.s.orders {
		if (f.Type == "" || o.Type == f.Type) && (f.Status == "" || o.Status == f.Status) && (f.Owner == "" || o.Owner == f.Owner) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memOrders) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return common.ErrorNotFound
	}
	o.Status = status
	r.s.statusUpdates[id] = status
	return nil
}

func (r memOrders) TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	if r.s.beforeTransition != nil {
		r.s.beforeTransition()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.Status != from {
		return common.ErrorNotFound
	}
	o.Status = to
	r.s.statusUpdates[id] = to
	return nil
}

func (r memOrders) UpdateInsurance(ctx context.Context, id, templateID, policyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return common.ErrorNotFound
	}
	o.InsuranceTemplateID = &templateID
	o.InsurancePolicyID = &policyID
	r.s.insuranceUpd = append(r.s.insuranceUpd, id)
	return nil
}

type memRoutes struct{ s *memStore }

func (r memRoutes) Create(ctx context.Context, route *models.CarrierRoute) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.routeErr != nil {
		return r.s.routeErr
	}
	r.s.routes = append(r.s.routes, route)
	return nil
}

func (r memRoutes) ListByVesselOrder(ctx context.Context, id string) ([]*models.CarrierRoute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.CarrierRoute
	for _, rt := range r.s.routes {
		if rt.VesselOrderID == id {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r memRoutes) ListByOwner(ctx context.Context, owner string) ([]*models.CarrierRoute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.CarrierRoute
	for _, rt := range r.s.routes {
		if rt.Owner == owner {
			out = append(out, rt)
		}
	}
	return out, nil
}

type memInsurance struct{ s *memStore }

func (r memInsurance) ListTemplates(ctx context.Context, activeOnly bool) ([]*models.InsuranceTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.InsuranceTemplate
	for _, t := range r.s.templates {
		if !activeOnly || t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memInsurance) GetTemplate(ctx context.Context, id string) (*models.InsuranceTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.templates[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (r memInsurance) CreateUserPolicy(ctx context.Context, p *models.UserInsurancePolicy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.userPols = append(r.s.userPols, p)
	return nil
}

func (r memInsurance) ListUserPolicies(ctx context.Context, owner string) ([]*models.UserInsurancePolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.UserInsurancePolicy
	for _, p := range r.s.userPols {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memInsurance) CreatePolicy(ctx context.Context, p *models.InsurancePolicy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.policies = append(r.s.policies, p)
	return nil
}

func (r memInsurance) ExpireOrderPolicies(ctx context.Context, orderID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.policies {
		if p.OrderID == orderID && p.Status == models.PolicyStatusActive {
			p.Status = models.PolicyStatusExpired
			n++
		}
	}
	return n, nil
}

func (r memInsurance) ListPoliciesByHolder(ctx context.Context, holder string) ([]*models.InsurancePolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.InsurancePolicy
	for _, p := range r.s.policies {
		if p.Holder == holder {
			out = append(out, p)
		}
	}
	return out, nil
}

type memMatches struct{ s *memStore }

func (r memMatches) Create(ctx context.Context, m *models.OrderMatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.matchErr != nil {
		return r.s.matchErr
	}
	cp := *m
	r.s.matches[m.ID] = &cp
	return nil
}

func (r memMatches) GetByID(ctx context.Context, id string) (*models.OrderMatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *m
	return &cp, nil
}

func (r memMatches) ListByOrders(ctx context.Context, ids []string) ([]*models.OrderMatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	var out []*models.OrderMatch
	for _, m := range r.s.matches {
		if set[m.CargoOrderID] || set[m.VesselOrderID] {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memMatches) Decide(ctx context.Context, id string, status models.MatchStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok || m.Status != models.MatchStatusProposed {
		return common.ErrorNotFound
	}
	m.Status = status
	return nil
}

type memContracts struct{ s *memStore }

func (r memContracts) Get(ctx context.Context, name string) (*models.SmartContract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.contracts[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (r memContracts) List(ctx context.Context) ([]*models.SmartContract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.SmartContract
	for _, c := range r.s.contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memContracts) Upsert(ctx context.Context, c *models.SmartContract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.contracts[c.Name] = c
	return nil
}

type memOrphans struct{ s *memStore }

func (r memOrphans) Create(ctx context.Context, o *models.OrphanedMint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orphans = append(r.s.orphans, o)
	return nil
}

func (r memOrphans) List(ctx context.Context) ([]*models.OrphanedMint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.orphans, nil
}

type memProfiles struct{ s *memStore }

func (r memProfiles) Create(ctx context.Context, p *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.WalletAddress = common.NormalizeAddress(p.WalletAddress)
	cp := *p
	r.s.profiles[p.WalletAddress] = &cp
	return nil
}

func (r memProfiles) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memProfiles) GetByWallet(ctx context.Context, wallet string) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[common.NormalizeAddress(wallet)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memProfiles) SetNonce(ctx context.Context, id, nonce string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if p.ID == id {
			p.Nonce = nonce
			return nil
		}
	}
	return common.ErrorNotFound
}

type memRefresh struct{ s *memStore }

func (r memRefresh) Create(ctx context.Context, profileID, token string, validity time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.refresh[token] = &models.RefreshToken{ProfileID: profileID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r memRefresh) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.refresh[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (r memRefresh) Delete(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.refresh, token)
	return nil
}

func (r memRefresh) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, t := range r.s.refresh {
		if t.Expires.Before(now) {
			delete(r.s.refresh, k)
			n++
		}
	}
	return n, nil
}

type memManager struct{ s *memStore }

func (m memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m memManager) Profiles(dbx.DBTX) profiles.Repository { return memProfiles{m.s} }
func (m memManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return memRefresh{m.s} }
func (m memManager) Orders(dbx.DBTX) orders.Repository { return memOrders{m.s} }
func (m memManager) CarrierRoutes(dbx.DBTX) carrierroutes.Repository { return memRoutes{m.s} }
func (m memManager) Insurance(dbx.DBTX) insurance.Repository { return memInsurance{m.s} }
func (m memManager) Matches(dbx.DBTX) matches.Repository { return memMatches{m.s} }
func (m memManager) Contracts(dbx.DBTX) contracts.Repository { return memContracts{m.s} }
func (m memManager) Orphans(dbx.DBTX) orphans.Repository { return memOrphans{m.s} }

var _ repomanager.RepositoryManager = memManager{}

// fakeMinter returns receipts built by receipt; nil receipt means "no logs".
type fakeMinter struct {
	mu        sync.Mutex
	calls     []chain.Call
	submitErr error
	waitErr   error
	reverted  bool
	tokenID   int64
	noEvent   bool
}

func (f *fakeMinter) From() ethcommon.Address { return ethcommon.HexToAddress(otherWallet) }

func (f *fakeMinter) Submit(ctx context.Context, call chain.Call) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return types.NewTransaction(uint64(len(f.calls)), call.Contract, big.NewInt(0), 300000, big.NewInt(1), nil), nil
}

func (f *fakeMinter) WaitReceipt(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	r := &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: tx.Hash()}
	if f.reverted {
		r.Status = types.ReceiptStatusFailed
		return r, nil
	}
	if f.noEvent {
		return r, nil
	}
	call := f.calls[len(f.calls)-1]
	r.Logs = []*types.Log{eventLog(call, f.tokenID)}
	return r, nil
}

func (f *fakeMinter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// eventLog encodes the binding's event with tokenId set and every other
// argument filled with a placeholder of its type.
func eventLog(call chain.Call, tokenID int64) *types.Log {
	ev := call.Binding.ABI.Events[call.Binding.Event]
	topics := []ethcommon.Hash{ev.ID}
	var data []any
	for _, in := range ev.Inputs {
		var v any
		switch {
		case in.Name == "tokenId":
			v = big.NewInt(tokenID)
		case in.Type.String() == "address":
			v = ethcommon.HexToAddress(ownerWallet)
		case in.Type.String() == "uint256":
			v = big.NewInt(1)
		default:
			v = "placeholder"
		}
		if in.Indexed {
			switch x := v.(type) {
			case *big.Int:
				topics = append(topics, ethcommon.BigToHash(x))
			case ethcommon.Address:
				topics = append(topics, ethcommon.BytesToHash(x.Bytes()))
			}
			continue
		}
		data = append(data, v)
	}
	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		panic(err)
	}
	return &types.Log{Address: call.Contract, Topics: topics, Data: packed}
}

type fakeMeta struct {
	err  error
	docs []*metadata.Document
}

func (f *fakeMeta) Publish(ctx context.Context, kind string, doc *metadata.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.docs = append(f.docs, doc)
	return "https://meta.test/" + kind + ".json", nil
}

type fakeEvents struct {
	mu   sync.Mutex
	sent []events.Event
	err  error
}

func (f *fakeEvents) Publish(ctx context.Context, e events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, e)
	return nil
}

func (f *fakeEvents) Close() error { return nil }

func (f *fakeEvents) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.sent {
		out = append(out, e.Type)
	}
	return out
}

type fakeRecorder struct {
	mu          sync.Mutex
	outcomes    []string
	eventErrors int
}

func (f *fakeRecorder) MintOutcome(flow, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, flow+":"+outcome)
}

func (f *fakeRecorder) MintDuration(string, time.Duration) {}

func (f *fakeRecorder) EventPublishFailed() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eventErrors++
}

// harness wires a workflow over in-memory fakes and a sqlmock DB for the
// transactions services open.
type harness struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	store    *memStore
	minter   *fakeMinter
	meta     *fakeMeta
	events   *fakeEvents
	recorder *fakeRecorder
	mint     *MintWorkflow
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := &harness{
		db:       db,
		mock:     mock,
		store:    newMemStore(),
		minter:   &fakeMinter{tokenID: 42},
		meta:     &fakeMeta{},
		events:   &fakeEvents{},
		recorder: &fakeRecorder{},
	}
	h.mint = NewMintWorkflow(db, memManager{h.store}, h.minter, h.meta, h.events, h.recorder, logging.Nop{}, time.Minute)
	return h
}

func (h *harness) rm() repomanager.RepositoryManager { return memManager{h.store} }

var errProvider = errors.New("user rejected transaction")
