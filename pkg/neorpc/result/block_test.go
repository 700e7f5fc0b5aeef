package result

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/neorpc-go/pkg/core/block"
	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func newTestTx() *transaction.Transaction {
	tx := transaction.New([]byte{0x40}, 10)
	tx.Nonce = 7
	tx.ValidUntilBlock = 100
	tx.Signers = []transaction.Signer{{Account: util.Uint160{1, 2, 3}, Scopes: transaction.CalledByEntry}}
	tx.Scripts = []transaction.Witness{{InvocationScript: []byte{1}, VerificationScript: []byte{2}}}
	return tx
}

func newTestBlock() *block.Block {
	b := &block.Block{
		Header: block.Header{
			PrevHash:      util.Uint256{9, 8, 7},
			Timestamp:     1617000000000,
			Nonce:         0xDEADBEEF01,
			Index:         42,
			NextConsensus: util.Uint160{5, 5, 5},
			Script: transaction.Witness{
				InvocationScript:   []byte{0x0c, 0x40, 1, 2, 3},
				VerificationScript: []byte{0x11, 0x40},
			},
		},
		Transactions: []*transaction.Transaction{newTestTx()},
	}
	b.RebuildMerkleRoot()
	return b
}

func TestBlockJSON(t *testing.T) {
	next := util.Uint256{1, 1, 1}
	b := Block{
		Block: *newTestBlock(),
		BlockMetadata: BlockMetadata{
			NextBlockHash: &next,
			Confirmations: 12,
		},
	}
	data, err := json.Marshal(b)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, "0x"+next.StringLE(), m["nextblockhash"])
	require.EqualValues(t, 12, m["confirmations"])
	require.Equal(t, "0x"+b.Hash().StringLE(), m["hash"])

	actual := new(Block)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, b.BlockMetadata, actual.BlockMetadata)
	require.Equal(t, b.Hash(), actual.Hash())
	require.Equal(t, 1, len(actual.Transactions))
	require.Equal(t, b.Transactions[0].Hash(), actual.Transactions[0].Hash())

	// The latest block has no next one.
	b.NextBlockHash = nil
	data, err = json.Marshal(b)
	require.NoError(t, err)
	require.NotContains(t, string(data), "nextblockhash")
}

func TestHeaderJSON(t *testing.T) {
	h := Header{
		Header:        newTestBlock().Header,
		BlockMetadata: BlockMetadata{Confirmations: 3},
	}
	data, err := json.Marshal(h)
	require.NoError(t, err)

	actual := new(Header)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, h, *actual)

	require.Error(t, json.Unmarshal([]byte(`{"confirmations":1,"nonce":"zz"}`), new(Header)))
}

func TestTransactionOutputRawJSON(t *testing.T) {
	tx := newTestTx()
	t.Run("pooled", func(t *testing.T) {
		out := TransactionOutputRaw{Transaction: *tx}
		data, err := json.Marshal(out)
		require.NoError(t, err)
		require.NotContains(t, string(data), "blockhash")

		actual := new(TransactionOutputRaw)
		require.NoError(t, json.Unmarshal(data, actual))
		require.Equal(t, tx.Hash(), actual.Hash())
		require.Equal(t, TransactionMetadata{}, actual.TransactionMetadata)
	})
	t.Run("accepted", func(t *testing.T) {
		out := TransactionOutputRaw{
			Transaction: *tx,
			TransactionMetadata: TransactionMetadata{
				Blockhash:     util.Uint256{3, 3},
				Confirmations: 5,
				Timestamp:     1617000000000,
				VMState:       "HALT",
			},
		}
		data, err := json.Marshal(out)
		require.NoError(t, err)

		actual := new(TransactionOutputRaw)
		require.NoError(t, json.Unmarshal(data, actual))
		require.Equal(t, tx.Hash(), actual.Hash())
		require.Equal(t, out.TransactionMetadata, actual.TransactionMetadata)
	})
	t.Run("bad hash", func(t *testing.T) {
		data, err := json.Marshal(tx)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		m["nonce"] = 8
		data, err = json.Marshal(m)
		require.NoError(t, err)
		require.Error(t, json.Unmarshal(data, new(TransactionOutputRaw)))
	})
}
