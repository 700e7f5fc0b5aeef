package result

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/nspcc-dev/neorpc-go/pkg/config/netmode"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/fixedn"
)

type (
	// Version model used for reporting server version
	// info.
	Version struct {
		TCPPort   uint16   `json:"tcpport"`
		WSPort    uint16   `json:"wsport,omitempty"`
		Nonce     uint32   `json:"nonce"`
		UserAgent string   `json:"useragent"`
		Protocol  Protocol `json:"protocol"`
		RPC       RPC      `json:"rpc"`
	}

	// RPC represents the RPC server configuration.
	RPC struct {
		MaxIteratorResultItems int  `json:"maxiteratorresultitems"`
		SessionEnabled         bool `json:"sessionenabled"`
	}

	// Protocol represents network-dependent parameters.
	Protocol struct {
		AddressVersion              byte
		Network                     netmode.Magic
		MillisecondsPerBlock        int
		MaxTraceableBlocks          uint32
		MaxValidUntilBlockIncrement uint32
		MaxTransactionsPerBlock     uint16
		MemoryPoolMaxTransactions   int
		ValidatorsCount             byte
		InitialGasDistribution      fixedn.Fixed8
		// Hardforks is the map of network hardforks (names without the
		// "HF_" prefix) with the enabling height.
		Hardforks        map[string]uint32
		StandbyCommittee keys.PublicKeys
		SeedList         []string
	}

	// protocolMarshallerAux is an auxiliary struct used for Protocol JSON marshalling.
	protocolMarshallerAux struct {
		AddressVersion              byte          `json:"addressversion"`
		Network                     netmode.Magic `json:"network"`
		MillisecondsPerBlock        int           `json:"msperblock"`
		MaxTraceableBlocks          uint32        `json:"maxtraceableblocks"`
		MaxValidUntilBlockIncrement uint32        `json:"maxvaliduntilblockincrement"`
		MaxTransactionsPerBlock     uint16        `json:"maxtransactionsperblock"`
		MemoryPoolMaxTransactions   int           `json:"memorypoolmaxtransactions"`
		ValidatorsCount             byte          `json:"validatorscount"`
		InitialGasDistribution      int64         `json:"initialgasdistribution"`
		Hardforks                   []hardforkAux `json:"hardforks"`
		StandbyCommittee            []string      `json:"standbycommittee"`
		SeedList                    []string      `json:"seedlist"`
	}

	// hardforkAux is an auxiliary struct used for Hardfork JSON marshalling.
	hardforkAux struct {
		Name   string `json:"name"`
		Height uint32 `json:"blockheight"`
	}
)

// prefixHardfork is a prefix used for hardfork names in C# node.
const prefixHardfork = "HF_"

// MarshalJSON implements the JSON marshaler interface.
func (p Protocol) MarshalJSON() ([]byte, error) {
	hfs := make([]hardforkAux, 0, len(p.Hardforks))
	for name, h := range p.Hardforks {
		hfs = append(hfs, hardforkAux{Name: prefixHardfork + name, Height: h})
	}
	sort.Slice(hfs, func(i, j int) bool {
		if hfs[i].Height != hfs[j].Height {
			return hfs[i].Height < hfs[j].Height
		}
		return hfs[i].Name < hfs[j].Name
	})
	standbyCommittee := make([]string, len(p.StandbyCommittee))
	for i, key := range p.StandbyCommittee {
		standbyCommittee[i] = key.StringCompressed()
	}
	seeds := p.SeedList
	if seeds == nil {
		seeds = []string{}
	}

	aux := protocolMarshallerAux{
		AddressVersion:              p.AddressVersion,
		Network:                     p.Network,
		MillisecondsPerBlock:        p.MillisecondsPerBlock,
		MaxTraceableBlocks:          p.MaxTraceableBlocks,
		MaxValidUntilBlockIncrement: p.MaxValidUntilBlockIncrement,
		MaxTransactionsPerBlock:     p.MaxTransactionsPerBlock,
		MemoryPoolMaxTransactions:   p.MemoryPoolMaxTransactions,
		ValidatorsCount:             p.ValidatorsCount,
		InitialGasDistribution:      int64(p.InitialGasDistribution),
		Hardforks:                   hfs,
		StandbyCommittee:            standbyCommittee,
		SeedList:                    seeds,
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the JSON unmarshaler interface.
func (p *Protocol) UnmarshalJSON(data []byte) error {
	var aux protocolMarshallerAux
	err := json.Unmarshal(data, &aux)
	if err != nil {
		return err
	}
	if aux.Network == 0 {
		return fieldError("network", errMissing)
	}
	standbyCommittee := make(keys.PublicKeys, 0, len(aux.StandbyCommittee))
	for _, s := range aux.StandbyCommittee {
		k, err := keys.NewPublicKeyFromString(s)
		if err != nil {
			return fieldError("standbycommittee", err)
		}
		standbyCommittee = append(standbyCommittee, k)
	}
	p.AddressVersion = aux.AddressVersion
	p.Network = aux.Network
	p.MillisecondsPerBlock = aux.MillisecondsPerBlock
	p.MaxTraceableBlocks = aux.MaxTraceableBlocks
	p.MaxValidUntilBlockIncrement = aux.MaxValidUntilBlockIncrement
	p.MaxTransactionsPerBlock = aux.MaxTransactionsPerBlock
	p.MemoryPoolMaxTransactions = aux.MemoryPoolMaxTransactions
	p.ValidatorsCount = aux.ValidatorsCount
	p.InitialGasDistribution = fixedn.Fixed8(aux.InitialGasDistribution)
	p.StandbyCommittee = standbyCommittee
	p.SeedList = aux.SeedList
	p.Hardforks = make(map[string]uint32, len(aux.Hardforks))
	for _, hf := range aux.Hardforks {
		p.Hardforks[strings.TrimPrefix(hf.Name, prefixHardfork)] = hf.Height
	}
	return nil
}
