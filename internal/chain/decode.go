package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const tokenIDArg = "tokenId"

// ExtractTokenID scans the receipt for the binding's event emitted by
// contract and returns its tokenId argument. Logs from other addresses or
// with another topic 0 are skipped, as are logs that fail to decode.
func ExtractTokenID(receipt *types.Receipt, contract ethcommon.Address, b *Binding) (*big.Int, bool) {
	if receipt == nil || b == nil {
		return nil, false
	}
	event, ok := b.ABI.Events[b.Event]
	if !ok {
		return nil, false
	}

	var indexed abi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}

	for _, lg := range receipt.Logs {
		if lg == nil || lg.Address != contract || len(lg.Topics) == 0 || lg.Topics[0] != event.ID {
			continue
		}

		fields := map[string]any{}
		if len(lg.Data) > 0 {
			if err := b.ABI.UnpackIntoMap(fields, b.Event, lg.Data); err != nil {
				continue
			}
		}
		if err := abi.ParseTopicsIntoMap(fields, indexed, lg.Topics[1:]); err != nil {
			continue
		}

		if id, ok := fields[tokenIDArg].(*big.Int); ok {
			return id, true
		}
	}
	return nil, false
}
