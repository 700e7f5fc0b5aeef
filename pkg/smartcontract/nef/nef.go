package nef

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neorpc-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
)

// NEO Executable Format 3 (NEF3)
// +------------+-----------+------------------------------------------------------------+
// |   Field    |  Length   |                          Comment                           |
// +------------+-----------+------------------------------------------------------------+
// | Magic      | 4 bytes   | Magic header                                               |
// | Compiler   | 64 bytes  | Compiler name and version                                  |
// +------------+-----------+------------------------------------------------------------+
// | Source     | Var bytes | URL of the source code                                     |
// | Reserved   | 1 byte    | Reserved for extensions. Must be 0.                        |
// | Tokens     | Var array | List of method tokens                                      |
// | Reserved   | 2-bytes   | Reserved for extensions. Must be 0.                        |
// | Script     | Var bytes | Var bytes for the payload                                  |
// +------------+-----------+------------------------------------------------------------+
// | Checksum   | 4 bytes   | First four bytes of double SHA256 hash of the header       |
// +------------+-----------+------------------------------------------------------------+

const (
	// Magic is a magic File header constant.
	Magic uint32 = 0x3346454E
	// MaxScriptLength is the maximum allowed contract script length.
	MaxScriptLength = 512 * 1024
	// MaxSourceURLLength is the maximum allowed source URL length.
	MaxSourceURLLength = 256
	// compilerFieldSize is the length of `Compiler` File header field in bytes.
	compilerFieldSize = 64
	// maxTokens is the maximum number of method tokens.
	maxTokens = 128
)

// File represents a compiled contract file structure according to the NEF3 standard.
type File struct {
	Header
	Source   string        `json:"source"`
	Tokens   []MethodToken `json:"tokens"`
	Script   []byte        `json:"script"`
	Checksum uint32        `json:"checksum"`
}

// Header represents a File header.
type Header struct {
	Magic    uint32 `json:"magic"`
	Compiler string `json:"compiler"`
}

var (
	errInvalidReserved = errors.New("reserved bytes must be 0")
	// ErrChecksumMismatch is returned when the NEF checksum doesn't match its contents.
	ErrChecksumMismatch = errors.New("checksum verification failure")
)

// NewFile returns a new NEF3 file with the script specified.
func NewFile(script []byte) (*File, error) {
	file := &File{
		Header: Header{
			Magic:    Magic,
			Compiler: "neorpc-go",
		},
		Tokens: []MethodToken{},
		Script: script,
	}
	if len(script) > MaxScriptLength {
		return nil, errors.New("script is too long")
	}
	file.Checksum = file.CalculateChecksum()
	return file, nil
}

// EncodeBinary implements the io.Serializable interface.
func (h *Header) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(h.Magic)
	if len(h.Compiler) > compilerFieldSize {
		w.Err = errors.New("invalid compiler name length")
		return
	}
	var b = make([]byte, compilerFieldSize)
	copy(b, []byte(h.Compiler))
	w.WriteBytes(b)
}

// DecodeBinary implements the io.Serializable interface.
func (h *Header) DecodeBinary(r *io.BinReader) {
	h.Magic = r.ReadU32LE()
	if r.Err == nil && h.Magic != Magic {
		r.Err = errors.New("invalid Magic")
		return
	}
	buf := make([]byte, compilerFieldSize)
	r.ReadBytes(buf)
	i := 0
	for ; i < len(buf) && buf[i] != 0; i++ {
	}
	h.Compiler = string(buf[:i])
}

// CalculateChecksum returns first 4 bytes of double-SHA256(Header) converted to uint32.
// CalculateChecksum doesn't perform the resulting serialized NEF size check, and return
// the checksum even if the NEF is too big.
func (n *File) CalculateChecksum() uint32 {
	bb, err := n.BytesLong()
	if err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint32(hash.Checksum(bb[:len(bb)-4]))
}

// EncodeBinary implements the io.Serializable interface.
func (n *File) EncodeBinary(w *io.BinWriter) {
	n.Header.EncodeBinary(w)
	if len(n.Source) > MaxSourceURLLength {
		w.Err = errors.New("source url too long")
		return
	}
	w.WriteString(n.Source)
	w.WriteB(0)
	io.WriteArray(w, n.Tokens)
	w.WriteU16LE(0)
	w.WriteVarBytes(n.Script)
	w.WriteU32LE(n.Checksum)
}

// DecodeBinary implements the io.Serializable interface.
func (n *File) DecodeBinary(r *io.BinReader) {
	n.Header.DecodeBinary(r)
	n.Source = r.ReadString(MaxSourceURLLength)
	reservedB := r.ReadB()
	if r.Err == nil && reservedB != 0 {
		r.Err = errInvalidReserved
		return
	}
	io.ReadArray(r, &n.Tokens, maxTokens)
	reserved := r.ReadU16LE()
	if r.Err == nil && reserved != 0 {
		r.Err = errInvalidReserved
		return
	}
	n.Script = r.ReadVarBytes(MaxScriptLength)
	if r.Err == nil && len(n.Script) == 0 {
		r.Err = errors.New("empty script")
		return
	}
	n.Checksum = r.ReadU32LE()
	if r.Err == nil {
		checksum := n.CalculateChecksum()
		if checksum != n.Checksum {
			r.Err = ErrChecksumMismatch
		}
	}
}

// Bytes returns a byte array with a serialized NEF File. It performs the
// resulting NEF file size check and returns an error if serialized slice is too
// big.
func (n File) Bytes() ([]byte, error) {
	bytes, err := n.BytesLong()
	if err != nil {
		return nil, err
	}
	if len(bytes) > MaxScriptLength+1024 {
		return nil, fmt.Errorf("serialized NEF size exceeds VM stackitem limits: %d", len(bytes))
	}
	return bytes, nil
}

// BytesLong returns a byte array with a serialized NEF File. It performs no
// resulting slice check.
func (n File) BytesLong() ([]byte, error) {
	return io.ToBytes(&n)
}

// FileFromBytes returns a NEF File deserialized from the given bytes.
func FileFromBytes(source []byte) (File, error) {
	result := File{}
	if err := io.DecodeFull(source, &result); err != nil {
		return result, err
	}
	return result, nil
}

// fileAux is used for JSON i/o.
type fileAux struct {
	Magic    uint32        `json:"magic"`
	Compiler string        `json:"compiler"`
	Source   string        `json:"source"`
	Tokens   []MethodToken `json:"tokens"`
	Script   []byte        `json:"script"`
	Checksum uint32        `json:"checksum"`
}

// MarshalJSON implements the json.Marshaler interface.
func (n File) MarshalJSON() ([]byte, error) {
	aux := fileAux{
		Magic:    n.Magic,
		Compiler: n.Compiler,
		Source:   n.Source,
		Tokens:   n.Tokens,
		Script:   n.Script,
		Checksum: n.Checksum,
	}
	if aux.Tokens == nil {
		aux.Tokens = []MethodToken{}
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (n *File) UnmarshalJSON(data []byte) error {
	aux := new(fileAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	n.Magic = aux.Magic
	n.Compiler = aux.Compiler
	n.Source = aux.Source
	n.Tokens = aux.Tokens
	n.Script = aux.Script
	n.Checksum = aux.Checksum
	return nil
}
