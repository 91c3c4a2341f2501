package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/chain"
	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/logging"
	"github.com/dmitrijs2005/shipmarket/internal/server/events"
	"github.com/dmitrijs2005/shipmarket/internal/server/metadata"
	"github.com/dmitrijs2005/shipmarket/internal/server/metrics"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/repomanager"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// MintRecorder receives workflow outcomes. *metrics.Metrics satisfies it.
type MintRecorder interface {
	MintOutcome(flow, outcome string)
	MintDuration(flow string, d time.Duration)
	EventPublishFailed()
}

// MintResult identifies the minted token.
type MintResult struct {
	TokenID         string
	ContractAddress string
	TxHash          string
	MetadataURI     string
}

// MintJob is one mint-then-persist run.
//
// Validate runs before anything leaves the process. Args builds the contract
// call arguments from the recipient and the token URI. Persist writes the row
// that links the token; it runs at most once and is never retried.
type MintJob struct {
	Flow     chain.Flow
	Owner    string
	Document *metadata.Document
	Validate func() error
	Args     func(owner ethcommon.Address, uri string) ([]any, error)
	Persist  func(ctx context.Context, res *MintResult) error
	Event    events.Event
	// Payload is journaled with an orphaned mint so the row can be rebuilt.
	Payload any
}

// publishTimeout bounds a single change event so a broker outage cannot hold
// a finished request.
const publishTimeout = 5 * time.Second

type MintWorkflow struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	minter   chain.Minter
	meta     metadata.Publisher
	events   events.Publisher
	recorder MintRecorder
	logger   logging.Logger
	timeout  time.Duration

	publishTimeout time.Duration
}

func NewMintWorkflow(db *sql.DB, rm repomanager.RepositoryManager, minter chain.Minter, meta metadata.Publisher,
	pub events.Publisher, rec MintRecorder, logger logging.Logger, timeout time.Duration) *MintWorkflow {
	return &MintWorkflow{
		db:       db,
		rm:       rm,
		minter:   minter,
		meta:     meta,
		events:   pub,
		recorder: rec,
		logger:   logger.With("module", "mint"),
		timeout:  timeout,

		publishTimeout: publishTimeout,
	}
}

// Run executes validate, describe, submit, await, decode, persist and
// publish in that order, stopping at the first failure.
func (w *MintWorkflow) Run(ctx context.Context, job *MintJob) (*MintResult, error) {
	flow := string(job.Flow)
	started := time.Now()

	if job.Validate != nil {
		if err := job.Validate(); err != nil {
			w.recorder.MintOutcome(flow, metrics.OutcomeValidation)
			return nil, err
		}
	}

	if !ethcommon.IsHexAddress(job.Owner) {
		w.recorder.MintOutcome(flow, metrics.OutcomeValidation)
		return nil, validationErr("owner", "must be a wallet address")
	}
	owner := ethcommon.HexToAddress(job.Owner)

	binding, err := chain.BindingFor(job.Flow)
	if err != nil {
		return nil, err
	}

	contract, err := w.rm.Contracts(w.db).Get(ctx, binding.Contract)
	if err != nil {
		w.recorder.MintOutcome(flow, metrics.OutcomeValidation)
		return nil, fmt.Errorf("contract %s: %w", binding.Contract, err)
	}
	contractAddr := ethcommon.HexToAddress(contract.Address)

	uri, err := w.meta.Publish(ctx, flow, job.Document)
	if err != nil {
		w.recorder.MintOutcome(flow, metrics.OutcomeValidation)
		return nil, err
	}

	args, err := job.Args(owner, uri)
	if err != nil {
		w.recorder.MintOutcome(flow, metrics.OutcomeValidation)
		return nil, err
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	tx, err := w.minter.Submit(ctx, chain.Call{Contract: contractAddr, Binding: binding, Args: args})
	if err != nil {
		w.recorder.MintOutcome(flow, metrics.OutcomeTransaction)
		w.logger.Warn(ctx, "mint submit failed", "flow", flow, "error", err)
		return nil, &common.TransactionError{Err: err}
	}
	txHash := tx.Hash().Hex()
	w.logger.Info(ctx, "mint submitted", "flow", flow, "tx", txHash)

	receipt, err := w.minter.WaitReceipt(ctx, tx)
	if err != nil {
		w.recorder.MintOutcome(flow, metrics.OutcomeTransaction)
		return nil, &common.TransactionError{TxHash: txHash, Err: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		w.recorder.MintOutcome(flow, metrics.OutcomeTransaction)
		return nil, &common.TransactionError{TxHash: txHash, Err: errors.New("transaction reverted")}
	}

	tokenID, ok := chain.ExtractTokenID(receipt, contractAddr, binding)
	if !ok {
		w.recorder.MintOutcome(flow, metrics.OutcomeNoTokenID)
		w.logger.Error(ctx, "mint receipt has no token id", "flow", flow, "tx", txHash, "event", binding.Event)
		return nil, &common.TokenIDError{TxHash: txHash, Event: binding.Event}
	}

	res := &MintResult{
		TokenID:         tokenID.String(),
		ContractAddress: common.NormalizeAddress(contractAddr.Hex()),
		TxHash:          txHash,
		MetadataURI:     uri,
	}

	// the chain write is final from here on, so persistence must not be
	// cut short by the mint timeout
	persistCtx := context.WithoutCancel(ctx)
	if err := job.Persist(persistCtx, res); err != nil {
		w.recorder.MintOutcome(flow, metrics.OutcomePersistFailed)
		w.orphan(persistCtx, job, res, err)
		return nil, &common.PersistError{TxHash: txHash, TokenID: res.TokenID, Err: err}
	}

	w.recorder.MintOutcome(flow, metrics.OutcomeOK)
	w.recorder.MintDuration(flow, time.Since(started))
	w.logger.Info(ctx, "mint persisted", "flow", flow, "tx", txHash, "token_id", res.TokenID)

	ev := job.Event
	ev.Actor = common.NormalizeAddress(job.Owner)
	ev.TxHash = txHash
	ev.TokenID = res.TokenID
	w.Publish(persistCtx, ev)

	return res, nil
}

// orphan journals a mint whose row could not be written. Both the journal
// insert and the event are best effort.
func (w *MintWorkflow) orphan(ctx context.Context, job *MintJob, res *MintResult, cause error) {
	w.logger.Error(ctx, "minted token not persisted",
		"flow", job.Flow, "tx", res.TxHash, "token_id", res.TokenID,
		"contract", res.ContractAddress, "owner", job.Owner, "error", cause)

	payload, err := json.Marshal(job.Payload)
	if err != nil {
		w.logger.Warn(ctx, "orphaned mint payload not encodable", "tx", res.TxHash, "error", err)
		payload = []byte("{}")
	}

	err = w.rm.Orphans(w.db).Create(ctx, &models.OrphanedMint{
		TxHash:          res.TxHash,
		Flow:            string(job.Flow),
		TokenID:         res.TokenID,
		ContractAddress: res.ContractAddress,
		Owner:           common.NormalizeAddress(job.Owner),
		Payload:         payload,
		Error:           cause.Error(),
	})
	if err != nil {
		w.logger.Error(ctx, "orphaned mint journal failed", "tx", res.TxHash, "error", err)
	}

	w.Publish(ctx, events.Event{
		Type:       events.MintOrphaned,
		Key:        res.TxHash,
		Actor:      common.NormalizeAddress(job.Owner),
		TxHash:     res.TxHash,
		TokenID:    res.TokenID,
		Attributes: map[string]string{"flow": string(job.Flow), "contract": res.ContractAddress},
	})
}

// Publish emits a change event. Failures are logged and counted, never returned.
func (w *MintWorkflow) Publish(ctx context.Context, e events.Event) {
	ctx, cancel := context.WithTimeout(ctx, w.publishTimeout)
	defer cancel()

	if err := w.events.Publish(ctx, e); err != nil {
		w.recorder.EventPublishFailed()
		w.logger.Warn(ctx, "event publish failed", "type", e.Type, "key", e.Key, "error", err)
	}
}
