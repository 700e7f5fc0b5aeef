package result

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type (
	// GetPeers payload for outputting peers in `getpeers` RPC call.
	GetPeers struct {
		Unconnected Peers `json:"unconnected"`
		Connected   Peers `json:"connected"`
		Bad         Peers `json:"bad"`
	}

	// Peers represents a slice of peers.
	Peers []Peer

	// Peer represents a peer.
	Peer struct {
		Address         string `json:"address"`
		Port            uint16 `json:"port"`
		UserAgent       string `json:"useragent,omitempty"`
		LastKnownHeight uint32 `json:"lastknownheight,omitempty"`
	}
)

// UnmarshalJSON implements the json.Unmarshaler interface. Port can be
// either a number or a numeric string, older servers use the latter.
func (p *Peer) UnmarshalJSON(data []byte) error {
	type NewPeer Peer
	var np NewPeer

	err := json.Unmarshal(data, &np)
	if err == nil {
		*p = Peer(np)
		return nil
	}

	type OldPeer struct {
		Address         string `json:"address"`
		Port            string `json:"port"`
		UserAgent       string `json:"useragent,omitempty"`
		LastKnownHeight uint32 `json:"lastknownheight,omitempty"`
	}
	var op OldPeer

	err = json.Unmarshal(data, &op)
	if err != nil {
		return fmt.Errorf("failed to unmarshal peer: %w", err)
	}
	port, err := strconv.ParseUint(op.Port, 10, 16)
	if err != nil {
		return fieldError("port", err)
	}
	*p = Peer{
		Address:         op.Address,
		Port:            uint16(port),
		UserAgent:       op.UserAgent,
		LastKnownHeight: op.LastKnownHeight,
	}
	return nil
}
