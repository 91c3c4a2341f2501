// Package chain talks to the marketplace's pre-deployed EVM contracts:
// submitting mint calls, waiting for receipts, decoding the emitted token
// ids and verifying wallet signatures.
package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Flow names one mint-then-persist flow.
type Flow string

const (
	FlowCargo   Flow = "cargo"
	FlowVessel  Flow = "vessel"
	FlowJourney Flow = "journey"
	FlowPolicy  Flow = "policy"
)

// Binding ties a flow to its contract directory entry, mint method and the
// event whose tokenId argument identifies the minted asset.
type Binding struct {
	Flow     Flow
	Contract string
	Method   string
	Event    string
	ABI      abi.ABI
}

const cargoABI = `[
 {"type":"function","name":"mintCargo","stateMutability":"nonpayable",
  "inputs":[{"name":"to","type":"address"},{"name":"uri","type":"string"}],
  "outputs":[{"name":"","type":"uint256"}]},
 {"type":"event","name":"CargoMinted","anonymous":false,
  "inputs":[{"name":"tokenId","type":"uint256","indexed":true},
            {"name":"owner","type":"address","indexed":true},
            {"name":"uri","type":"string","indexed":false}]}
]`

const vesselABI = `[
 {"type":"function","name":"registerVessel","stateMutability":"nonpayable",
  "inputs":[{"name":"to","type":"address"},{"name":"uri","type":"string"},{"name":"imo","type":"string"}],
  "outputs":[{"name":"","type":"uint256"}]},
 {"type":"event","name":"VesselRegistered","anonymous":false,
  "inputs":[{"name":"tokenId","type":"uint256","indexed":true},
            {"name":"owner","type":"address","indexed":true},
            {"name":"imo","type":"string","indexed":false}]}
]`

const journeyABI = `[
 {"type":"function","name":"logJourney","stateMutability":"nonpayable",
  "inputs":[{"name":"to","type":"address"},{"name":"vesselTokenId","type":"uint256"},{"name":"uri","type":"string"}],
  "outputs":[{"name":"","type":"uint256"}]},
 {"type":"event","name":"JourneyLogged","anonymous":false,
  "inputs":[{"name":"tokenId","type":"uint256","indexed":true},
            {"name":"vesselTokenId","type":"uint256","indexed":true},
            {"name":"owner","type":"address","indexed":false}]}
]`

const policyABI = `[
 {"type":"function","name":"mintPolicy","stateMutability":"nonpayable",
  "inputs":[{"name":"to","type":"address"},{"name":"uri","type":"string"},
            {"name":"premium","type":"uint256"},{"name":"payout","type":"uint256"}],
  "outputs":[{"name":"","type":"uint256"}]},
 {"type":"event","name":"PolicyMinted","anonymous":false,
  "inputs":[{"name":"tokenId","type":"uint256","indexed":true},
            {"name":"holder","type":"address","indexed":true}]}
]`

var bindings map[Flow]*Binding

func init() {
	defs := []struct {
		flow     Flow
		contract string
		method   string
		event    string
		json     string
	}{
		{FlowCargo, "cargo_nft", "mintCargo", "CargoMinted", cargoABI},
		{FlowVessel, "vessel_nft", "registerVessel", "VesselRegistered", vesselABI},
		{FlowJourney, "journey_nft", "logJourney", "JourneyLogged", journeyABI},
		{FlowPolicy, "insurance_nft", "mintPolicy", "PolicyMinted", policyABI},
	}

	bindings = make(map[Flow]*Binding, len(defs))
	for _, d := range defs {
		parsed, err := abi.JSON(strings.NewReader(d.json))
		if err != nil {
			panic(fmt.Sprintf("chain: parse %s abi: %v", d.flow, err))
		}
		bindings[d.flow] = &Binding{
			Flow:     d.flow,
			Contract: d.contract,
			Method:   d.method,
			Event:    d.event,
			ABI:      parsed,
		}
	}
}

// BindingFor returns the contract binding of a flow.
func BindingFor(f Flow) (*Binding, error) {
	b, ok := bindings[f]
	if !ok {
		return nil, fmt.Errorf("unknown flow %q", f)
	}
	return b, nil
}
