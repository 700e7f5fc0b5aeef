package keys

import (
	"crypto/elliptic"
	"encoding/hex"
	"encoding/json"
	"sort"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/base58"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyCase struct {
	address    string
	privateKey string
	publicKey  string
	wif        string
	passphrase string
	nep2       string
}

var keyCases = []keyCase{
	{
		address:    "NQrEVKgpx2qEg6DpVMT5H8kFa7kc2DFgqS",
		privateKey: "7d128a6d096f0c14c3a25a2b0c41cf79661bfcb4a8cc95aaaea28bde4d732344",
		publicKey:  "02028a99826edc0c97d18e22b6932373d908d323aa7f92656a77ec26e8861699ef",
		wif:        "L1QqQJnpBwbsPGAuutuzPTac8piqvbR1HRjrY5qHup48TBCBFe4g",
		passphrase: "city of zion",
		nep2:       "6PYWaEBMd9UTVFKi1YahYXY5NMLDg9U6w2gpQYUnx8wvaFgdo8EeVPaD7o",
	},
	{
		address:    "NYaVsrMV9GS8aaspRS4odXf1WHZdMmJiPC",
		privateKey: "9ab7e154840daca3a2efadaf0df93cd3a5b51768c632f5433f86909d9b994a69",
		publicKey:  "031d8e1630ce640966967bc6d95223d21f44304133003140c3b52004dc981349c9",
		wif:        "L2QTooFoDFyRFTxmtiVHt5CfsXfVnexdbENGDkkrrgTTryiLsPMG",
		passphrase: "我的密码",
		nep2:       "6PYUpn5uxTpsoawM3YKEWamk2oiKeafQBBK3Vutsowogy8a86jPu71xhE9",
	},
	{
		address:    "NWcpK2143ZjgzDYyQJhoKrodJUymHTxPzR",
		privateKey: "3edee7036b8fd9cef91de47386b191dd76db2888a553e7736bb02808932a915b",
		publicKey:  "02232ce8d2e2063dce0451131851d47421bfc4fc1da4db116fca5302c0756462fa",
		wif:        "KyKvWLZsNwBJx5j9nurHYRwhYfdQUu9tTEDsLCUHDbYBL8cHxMiG",
		passphrase: "MyL33tP@33w0rd",
		nep2:       "6PYRbKt55d4NXxCESqk8n9kURqopvixEY5nhAYe2ZJ4c1oDWAjtFX8hd1M",
	},
}

func TestPrivateKey(t *testing.T) {
	for _, tc := range keyCases {
		privKey, err := NewPrivateKeyFromHex(tc.privateKey)
		require.NoError(t, err)
		assert.Equal(t, tc.address, privKey.Address())
		assert.Equal(t, tc.wif, privKey.WIF())
		assert.Equal(t, tc.privateKey, privKey.String())
		pubKey := privKey.PublicKey()
		assert.Equal(t, tc.publicKey, hex.EncodeToString(pubKey.Bytes()))
		assert.Equal(t, tc.publicKey, pubKey.StringCompressed())
		assert.Equal(t, pubKey.GetScriptHash(), privKey.GetScriptHash())
	}
}

func TestPrivateKeyFromWIF(t *testing.T) {
	for _, tc := range keyCases {
		key, err := NewPrivateKeyFromWIF(tc.wif)
		require.NoError(t, err)
		assert.Equal(t, tc.privateKey, key.String())
	}
	_, err := NewPrivateKeyFromWIF("KyKvWLZsNwBJx5j9nurHYRwhYfdQUu9tTEDsLCUHDbYBL8cHxMiS")
	require.Error(t, err)
}

func TestNewPrivateKeyFromBytesErrors(t *testing.T) {
	_, err := NewPrivateKeyFromBytes(make([]byte, 31))
	require.Error(t, err)
	_, err = NewPrivateKeyFromBytes(make([]byte, 32))
	require.Error(t, err)
	_, err = NewPrivateKeyFromHex("zz")
	require.Error(t, err)
}

func TestPrivateKeyDestroy(t *testing.T) {
	k, err := NewPrivateKey()
	require.NoError(t, err)
	k.Destroy()
	require.Equal(t, 0, k.D.Sign())
}

func TestPublicKeyVerificationScript(t *testing.T) {
	pub, err := NewPublicKeyFromString(keyCases[0].publicKey)
	require.NoError(t, err)
	script := pub.GetVerificationScript()
	require.Equal(t, 40, len(script))
	require.Equal(t, []byte{0x0c, 0x21}, script[:2])
	require.Equal(t, pub.Bytes(), script[2:35])
	require.Equal(t, []byte{0x41, 0x56, 0xe7, 0xb3, 0x27}, script[35:])
	require.Equal(t, hash.Hash160(script), pub.GetScriptHash())
	require.Equal(t, keyCases[0].address, pub.Address())
}

func TestSignVerify(t *testing.T) {
	for _, curve := range []func() (*PrivateKey, error){NewPrivateKey, NewSecp256k1PrivateKey} {
		priv, err := curve()
		require.NoError(t, err)
		digest := hash.Sha256([]byte("some data"))
		sig := priv.SignHash(digest)
		require.Equal(t, SignatureLen, len(sig))
		require.Equal(t, sig, priv.SignHash(digest))

		pub := priv.PublicKey()
		require.True(t, pub.Verify(sig, digest[:]))
		require.Equal(t, sig, priv.Sign([]byte("some data")))

		other := hash.Sha256([]byte("other data"))
		require.False(t, pub.Verify(sig, other[:]))
		require.False(t, pub.Verify(sig[:63], digest[:]))
		require.False(t, (&PublicKey{}).Verify(sig, digest[:]))
	}
}

type hashable util.Uint256

func (h hashable) Hash() util.Uint256 { return util.Uint256(h) }

func TestSignHashable(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	item := hashable{1, 2, 3}
	sig := priv.SignHashable(42, item)
	require.True(t, priv.PublicKey().VerifyHashable(sig, 42, item))
	require.False(t, priv.PublicKey().VerifyHashable(sig, 43, item))
}

func TestPublicKeyDecode(t *testing.T) {
	for _, tc := range keyCases {
		b, err := hex.DecodeString(tc.publicKey)
		require.NoError(t, err)
		pub, err := NewPublicKeyFromBytes(b, elliptic.P256())
		require.NoError(t, err)
		require.Equal(t, b, pub.Bytes())

		unc := pub.UncompressedBytes()
		require.Equal(t, 65, len(unc))
		pub2 := new(PublicKey)
		require.NoError(t, pub2.DecodeBytes(unc))
		require.True(t, pub.Equal(pub2))
	}

	errCases := [][]byte{{}, {0x02}, {0x04}, {0x05}, append([]byte{0x00}, 0x01)}
	for _, tc := range errCases {
		require.Error(t, new(PublicKey).DecodeBytes(tc))
	}
}

func TestPublicKeyInfinity(t *testing.T) {
	key := &PublicKey{}
	require.True(t, key.IsInfinity())
	require.Equal(t, []byte{0x00}, key.Bytes())
	require.Equal(t, "00", key.String())

	keyDecode := &PublicKey{}
	require.NoError(t, keyDecode.DecodeBytes([]byte{0x00}))
	require.True(t, keyDecode.IsInfinity())
}

func TestSecp256k1PublicKey(t *testing.T) {
	priv, err := NewSecp256k1PrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	decoded, err := NewPublicKeyFromBytes(pub.Bytes(), secp256k1.S256())
	require.NoError(t, err)
	require.True(t, pub.Equal(decoded))
}

func TestPublicKeyJSON(t *testing.T) {
	pub, err := NewPublicKeyFromString(keyCases[1].publicKey)
	require.NoError(t, err)
	data, err := json.Marshal(pub)
	require.NoError(t, err)
	require.Equal(t, `"`+keyCases[1].publicKey+`"`, string(data))

	actual := new(PublicKey)
	require.NoError(t, json.Unmarshal(data, actual))
	require.True(t, pub.Equal(actual))

	require.Error(t, json.Unmarshal([]byte(`"zz"`), actual))
	require.Error(t, json.Unmarshal([]byte(`1`), actual))
}

func TestPublicKeysSortAndBytes(t *testing.T) {
	pubs := make(PublicKeys, 0, len(keyCases))
	for _, tc := range keyCases {
		p, err := NewPublicKeyFromString(tc.publicKey)
		require.NoError(t, err)
		pubs = append(pubs, p)
	}
	sort.Sort(pubs)
	for i := 1; i < len(pubs); i++ {
		require.True(t, pubs[i-1].Cmp(pubs[i]) < 0)
	}
	require.True(t, pubs.Contains(pubs[1]))
	require.Equal(t, 3, len(append(pubs.Copy(), pubs...).Unique()))

	var decoded PublicKeys
	require.NoError(t, decoded.DecodeBytes(pubs.Bytes()))
	require.Equal(t, len(pubs), len(decoded))
	for i := range pubs {
		require.True(t, pubs[i].Equal(decoded[i]))
	}
}

func TestPublicKeyBinary(t *testing.T) {
	pub, err := NewPublicKeyFromString(keyCases[2].publicKey)
	require.NoError(t, err)
	b, err := io.ToBytes(pub)
	require.NoError(t, err)
	require.Equal(t, pub.Bytes(), b)
}

func TestWIFEncodeDecode(t *testing.T) {
	var cases = []struct {
		wif        string
		compressed bool
		privateKey string
	}{
		{"KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn", true, "0000000000000000000000000000000000000000000000000000000000000001"},
		{"5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDf", false, "0000000000000000000000000000000000000000000000000000000000000001"},
		{"KxhEDBQyyEFymvfJD96q8stMbJMbZUb6D1PmXqBWZDU2WvbvVs9o", true, "2bfe58ab6d9fd575bdc3a624e4825dd2b375d64ac033fbc46ea79dbab4f69a3e"},
	}
	for _, tc := range cases {
		b, err := hex.DecodeString(tc.privateKey)
		require.NoError(t, err)
		wif, err := WIFEncode(b, 0, tc.compressed)
		require.NoError(t, err)
		assert.Equal(t, tc.wif, wif)

		w, err := WIFDecode(wif, 0)
		require.NoError(t, err)
		assert.Equal(t, tc.privateKey, w.PrivateKey.String())
		assert.Equal(t, tc.compressed, w.Compressed)
		assert.EqualValues(t, WIFVersion, w.Version)
	}

	_, err := WIFEncode([]byte{0, 1, 2}, 0, true)
	require.Error(t, err)
}

func TestBadWIFDecode(t *testing.T) {
	_, err := WIFDecode("garbage", 0)
	require.Error(t, err)

	_, err = WIFDecode(base58.CheckEncode([]byte{}), 0)
	require.Error(t, err)

	uncompr := make([]byte, 33)
	compr := make([]byte, 34)

	s := base58.CheckEncode(compr)
	_, err = WIFDecode(s, 0)
	require.Error(t, err)

	s = base58.CheckEncode(uncompr)
	_, err = WIFDecode(s, 0)
	require.Error(t, err)

	compr[33] = 1
	compr[0] = WIFVersion
	uncompr[0] = WIFVersion

	s = base58.CheckEncode(compr)
	_, err = WIFDecode(s, 0)
	require.Error(t, err)

	s = base58.CheckEncode(uncompr)
	_, err = WIFDecode(s, 0)
	require.Error(t, err)
}

func TestNEP2Encrypt(t *testing.T) {
	for _, tc := range keyCases {
		privKey, err := NewPrivateKeyFromHex(tc.privateKey)
		require.NoError(t, err)

		encrypted, err := NEP2Encrypt(privKey, tc.passphrase, NEP2ScryptParams())
		require.NoError(t, err)
		assert.Equal(t, tc.nep2, encrypted)
	}
}

func TestNEP2Decrypt(t *testing.T) {
	for _, tc := range keyCases {
		privKey, err := NEP2Decrypt(tc.nep2, tc.passphrase, NEP2ScryptParams())
		require.NoError(t, err)
		assert.Equal(t, tc.privateKey, privKey.String())
		assert.Equal(t, tc.wif, privKey.WIF())
		assert.Equal(t, tc.address, privKey.Address())
	}

	_, err := NEP2Decrypt(keyCases[0].nep2, "wrong password", NEP2ScryptParams())
	require.Error(t, err)
}

func TestNEP2DecryptErrors(t *testing.T) {
	p := "qwerty"

	// Not a base58-encoded value
	s := "qazwsx"
	_, err := NEP2Decrypt(s, p, NEP2ScryptParams())
	require.Error(t, err)

	// Valid base58, but not a NEP-2 format.
	s = "KxhEDBQyyEFymvfJD96q8stMbJMbZUb6D1PmXqBWZDU2WvbvVs9o"
	_, err = NEP2Decrypt(s, p, NEP2ScryptParams())
	require.Error(t, err)
}

func TestValidateNEP2Format(t *testing.T) {
	b := make([]byte, 38)
	require.Error(t, validateNEP2Format(b))

	b = make([]byte, 39)
	require.Error(t, validateNEP2Format(b))

	b[0] = 0x01
	require.Error(t, validateNEP2Format(b))

	b[1] = 0x42
	require.Error(t, validateNEP2Format(b))

	b[2] = 0xe0
	require.NoError(t, validateNEP2Format(b))
}
