package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// AttrType represents the purpose of the attribute.
type AttrType uint8

// List of valid attribute types.
const (
	HighPriorityT   AttrType = 1
	OracleResponseT AttrType = 0x11
	NotValidBeforeT AttrType = 0x20
	ConflictsT      AttrType = 0x21
)

// String implements the fmt.Stringer interface.
func (a AttrType) String() string {
	switch a {
	case HighPriorityT:
		return "HighPriority"
	case OracleResponseT:
		return "OracleResponse"
	case NotValidBeforeT:
		return "NotValidBefore"
	case ConflictsT:
		return "Conflicts"
	default:
		return fmt.Sprintf("AttrType(%d)", byte(a))
	}
}

func attrTypeFromString(s string) (AttrType, error) {
	for _, t := range []AttrType{HighPriorityT, OracleResponseT, NotValidBeforeT, ConflictsT} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown attribute type %q", s)
}

// attrValue is the attribute-specific part of the Attribute.
type attrValue interface {
	io.Serializable
	toJSONMap(map[string]any)
}

// Attribute represents a Transaction attribute.
type Attribute struct {
	Type  AttrType
	Value attrValue
}

// attrJSON is used for JSON I/O of Attribute.
type attrJSON struct {
	Type   string              `json:"type"`
	Height *uint32             `json:"height,omitempty"`
	Hash   *util.Uint256       `json:"hash,omitempty"`
	ID     *uint64             `json:"id,omitempty"`
	Code   *OracleResponseCode `json:"code,omitempty"`
	Result []byte              `json:"result,omitempty"`
}

// DecodeBinary implements the Serializable interface.
func (attr *Attribute) DecodeBinary(br *io.BinReader) {
	attr.Type = AttrType(br.ReadB())
	if br.Err != nil {
		return
	}
	switch attr.Type {
	case HighPriorityT:
		attr.Value = nil
		return
	case OracleResponseT:
		attr.Value = new(OracleResponse)
	case NotValidBeforeT:
		attr.Value = new(NotValidBefore)
	case ConflictsT:
		attr.Value = new(Conflicts)
	default:
		br.Err = fmt.Errorf("failed decoding TX attribute usage: 0x%2x", byte(attr.Type))
		return
	}
	attr.Value.DecodeBinary(br)
}

// EncodeBinary implements the Serializable interface.
func (attr *Attribute) EncodeBinary(bw *io.BinWriter) {
	bw.WriteB(byte(attr.Type))
	switch attr.Type {
	case HighPriorityT:
	case OracleResponseT, NotValidBeforeT, ConflictsT:
		if attr.Value == nil {
			bw.Err = fmt.Errorf("missing value for %s attribute", attr.Type)
			return
		}
		attr.Value.EncodeBinary(bw)
	default:
		bw.Err = fmt.Errorf("failed encoding TX attribute usage: 0x%2x", byte(attr.Type))
	}
}

// MarshalJSON implements the json Marshaller interface.
func (attr *Attribute) MarshalJSON() ([]byte, error) {
	m := map[string]any{"type": attr.Type.String()}
	if attr.Value != nil {
		attr.Value.toJSONMap(m)
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements the json.Unmarshaller interface.
func (attr *Attribute) UnmarshalJSON(data []byte) error {
	aux := new(attrJSON)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	typ, err := attrTypeFromString(aux.Type)
	if err != nil {
		return err
	}
	attr.Type = typ
	switch typ {
	case HighPriorityT:
		attr.Value = nil
	case NotValidBeforeT:
		if aux.Height == nil {
			return errors.New("missing height")
		}
		attr.Value = &NotValidBefore{Height: *aux.Height}
	case ConflictsT:
		if aux.Hash == nil {
			return errors.New("missing hash")
		}
		attr.Value = &Conflicts{Hash: *aux.Hash}
	case OracleResponseT:
		if aux.ID == nil || aux.Code == nil {
			return errors.New("missing oracle response id or code")
		}
		attr.Value = &OracleResponse{ID: *aux.ID, Code: *aux.Code, Result: aux.Result}
	}
	return nil
}

// NotValidBefore represents attribute with the height transaction is not valid before.
type NotValidBefore struct {
	Height uint32 `json:"height"`
}

// DecodeBinary implements the io.Serializable interface.
func (n *NotValidBefore) DecodeBinary(br *io.BinReader) {
	n.Height = br.ReadU32LE()
}

// EncodeBinary implements the io.Serializable interface.
func (n *NotValidBefore) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(n.Height)
}

func (n *NotValidBefore) toJSONMap(m map[string]any) {
	m["height"] = n.Height
}

// Conflicts represents attribute for conflicting transactions.
type Conflicts struct {
	Hash util.Uint256 `json:"hash"`
}

// DecodeBinary implements the io.Serializable interface.
func (c *Conflicts) DecodeBinary(br *io.BinReader) {
	c.Hash.DecodeBinary(br)
}

// EncodeBinary implements the io.Serializable interface.
func (c *Conflicts) EncodeBinary(w *io.BinWriter) {
	c.Hash.EncodeBinary(w)
}

func (c *Conflicts) toJSONMap(m map[string]any) {
	m["hash"] = c.Hash
}

// OracleResponseCode represents result code of oracle response.
type OracleResponseCode byte

// OracleResponse represents oracle response.
type OracleResponse struct {
	ID     uint64             `json:"id"`
	Code   OracleResponseCode `json:"code"`
	Result []byte             `json:"result"`
}

// MaxOracleResultSize is the maximum allowed oracle answer size.
const MaxOracleResultSize = math.MaxUint16

// Enumeration of possible oracle response types.
const (
	Success                 OracleResponseCode = 0x00
	ProtocolNotSupported    OracleResponseCode = 0x10
	ConsensusUnreachable    OracleResponseCode = 0x12
	NotFound                OracleResponseCode = 0x14
	Timeout                 OracleResponseCode = 0x16
	Forbidden               OracleResponseCode = 0x18
	ResponseTooLarge        OracleResponseCode = 0x1a
	InsufficientFunds       OracleResponseCode = 0x1c
	ContentTypeNotSupported OracleResponseCode = 0x1f
	Error                   OracleResponseCode = 0xff
)

var oracleCodeNames = map[OracleResponseCode]string{
	Success:                 "Success",
	ProtocolNotSupported:    "ProtocolNotSupported",
	ConsensusUnreachable:    "ConsensusUnreachable",
	NotFound:                "NotFound",
	Timeout:                 "Timeout",
	Forbidden:               "Forbidden",
	ResponseTooLarge:        "ResponseTooLarge",
	InsufficientFunds:       "InsufficientFunds",
	ContentTypeNotSupported: "ContentTypeNotSupported",
	Error:                   "Error",
}

// Various validation errors.
var (
	ErrInvalidResponseCode = errors.New("invalid oracle response code")
	ErrInvalidResult       = errors.New("oracle response != success, but result is not empty")
)

// IsValid checks if c is a valid response code.
func (c OracleResponseCode) IsValid() bool {
	_, ok := oracleCodeNames[c]
	return ok
}

// String implements the fmt.Stringer interface.
func (c OracleResponseCode) String() string {
	if s, ok := oracleCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("OracleResponseCode(%d)", byte(c))
}

// MarshalJSON implements the json.Marshaler interface.
func (c OracleResponseCode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *OracleResponseCode) UnmarshalJSON(data []byte) error {
	var js string
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	for code, name := range oracleCodeNames {
		if strings.EqualFold(name, js) {
			*c = code
			return nil
		}
	}
	return ErrInvalidResponseCode
}

// DecodeBinary implements the io.Serializable interface.
func (r *OracleResponse) DecodeBinary(br *io.BinReader) {
	r.ID = br.ReadU64LE()
	r.Code = OracleResponseCode(br.ReadB())
	if br.Err != nil {
		return
	}
	if !r.Code.IsValid() {
		br.Err = ErrInvalidResponseCode
		return
	}
	r.Result = br.ReadVarBytes(MaxOracleResultSize)
	if r.Code != Success && len(r.Result) > 0 {
		br.Err = ErrInvalidResult
	}
}

// EncodeBinary implements the io.Serializable interface.
func (r *OracleResponse) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(r.ID)
	w.WriteB(byte(r.Code))
	w.WriteVarBytes(r.Result)
}

func (r *OracleResponse) toJSONMap(m map[string]any) {
	m["id"] = r.ID
	m["code"] = r.Code
	m["result"] = r.Result
}
