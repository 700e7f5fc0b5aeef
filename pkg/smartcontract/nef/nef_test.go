package nef

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/nspcc-dev/neorpc-go/pkg/internal/testserdes"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeBinary(t *testing.T) {
	script := []byte{12, 32, 84, 35, 14}
	expected := &File{
		Header: Header{
			Magic:    Magic,
			Compiler: "best compiler version 1",
		},
		Tokens: []MethodToken{{
			Hash:       util.Uint160{1, 2, 3},
			Method:     "method",
			ParamCount: 3,
			HasReturn:  true,
			CallFlag:   callflag.WriteStates,
		}},
		Script: script,
	}

	t.Run("invalid Magic", func(t *testing.T) {
		expected.Magic = 123
		checkDecodeError(t, expected)
	})

	t.Run("invalid checksum", func(t *testing.T) {
		expected.Magic = Magic
		expected.Checksum = 123
		checkDecodeError(t, expected)
	})

	t.Run("empty script", func(t *testing.T) {
		expected.Script = []byte{}
		expected.Checksum = expected.CalculateChecksum()
		checkDecodeError(t, expected)
	})

	t.Run("invalid tokens list", func(t *testing.T) {
		expected.Script = script
		expected.Tokens[0].Method = "_reserved"
		expected.Checksum = expected.CalculateChecksum()
		checkDecodeError(t, expected)
	})

	t.Run("invalid call flag", func(t *testing.T) {
		expected.Tokens[0].Method = "method"
		expected.Tokens[0].CallFlag = callflag.All + 1
		expected.Checksum = expected.CalculateChecksum()
		checkDecodeError(t, expected)
	})

	t.Run("positive", func(t *testing.T) {
		expected.Tokens[0].CallFlag = callflag.All
		expected.Checksum = expected.CalculateChecksum()
		expected.Magic = Magic
		testserdes.EncodeDecodeBinary(t, expected, &File{})
	})

	t.Run("long compiler name", func(t *testing.T) {
		expected.Compiler = string(make([]byte, compilerFieldSize+1))
		_, err := expected.Bytes()
		require.Error(t, err)
	})
}

func checkDecodeError(t *testing.T, expected *File) {
	bytes, err := io.ToBytes(expected)
	require.NoError(t, err)
	require.Error(t, io.DecodeFull(bytes, &File{}))
}

func TestBytesFromBytes(t *testing.T) {
	script := []byte{12, 32, 84, 35, 14}
	expected, err := NewFile(script)
	require.NoError(t, err)
	require.Equal(t, "neorpc-go", expected.Compiler)

	bytes, err := expected.Bytes()
	require.NoError(t, err)
	actual, err := FileFromBytes(bytes)
	require.NoError(t, err)
	require.Equal(t, *expected, actual)

	bytes[len(bytes)-1] ^= 0xff
	_, err = FileFromBytes(bytes)
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestNewFileTooLong(t *testing.T) {
	_, err := NewFile(make([]byte, MaxScriptLength+1))
	require.Error(t, err)
}

func TestMarshalUnmarshalJSON(t *testing.T) {
	expected := &File{
		Header: Header{
			Magic:    Magic,
			Compiler: "test.compiler-test.ver",
		},
		Tokens: []MethodToken{{
			Hash:       util.Uint160{0x12, 0x34, 0x56, 0x78, 0x91, 0x00},
			Method:     "someMethod",
			ParamCount: 3,
			HasReturn:  true,
			CallFlag:   callflag.WriteStates,
		}},
		Script: []byte{1, 2, 3, 4},
	}
	expected.Checksum = expected.CalculateChecksum()

	data, err := json.Marshal(expected)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"magic":`+strconv.FormatUint(uint64(Magic), 10)+`,
		"compiler": "test.compiler-test.ver",
		"source": "",
		"tokens": [
			{
				"hash": "0x`+expected.Tokens[0].Hash.StringLE()+`",
				"method": "someMethod",
				"paramcount": 3,
				"hasreturnvalue": true,
				"callflags": `+strconv.FormatInt(int64(callflag.WriteStates), 10)+`
			}
		],
		"script": "`+base64.StdEncoding.EncodeToString(expected.Script)+`",
		"checksum":`+strconv.FormatUint(uint64(expected.Checksum), 10)+`}`, string(data))

	actual := new(File)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, expected, actual)
}

func TestEmptyTokensJSON(t *testing.T) {
	f, err := NewFile([]byte{0x40})
	require.NoError(t, err)
	f.Tokens = nil
	data, err := json.Marshal(f)
	require.NoError(t, err)
	require.Contains(t, string(data), `"tokens":[]`)
}
