/*
Package wallet implements NEP-6 wallets: a JSON file with a set of accounts
protected by NEP-2 encryption.

Accounts unlocked with Decrypt hold their private keys in memory only and
can sign transactions created by txmanager.
*/
package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

const (
	// The NEP-6 wallet format version written by this package.
	walletVersion = "1.0"
)

var (
	// ErrPathIsEmpty appears if wallet was created without linking to path.
	ErrPathIsEmpty = errors.New("path is empty")
	// ErrAccountNotFound is returned for unknown accounts.
	ErrAccountNotFound = errors.New("account not found")
)

// Wallet represents a NEO (NEP-2, NEP-6) compliant wallet.
type Wallet struct {
	// Version of the wallet, used for later upgrades.
	Version string `json:"version"`

	// A list of accounts which describes the details of each account
	// in the wallet.
	Accounts []*Account `json:"accounts"`

	Scrypt keys.ScryptParams `json:"scrypt"`

	// Extra metadata can be used for storing arbitrary data.
	// This field can be empty.
	Extra json.RawMessage `json:"extra"`

	// Path where the wallet file is located..
	path string
}

// NewWallet creates a new NEO wallet at the given location.
func NewWallet(location string) (*Wallet, error) {
	return newWallet(location), nil
}

// NewInMemoryWallet creates a new NEO wallet that is not backed by a file.
func NewInMemoryWallet() *Wallet {
	return newWallet("")
}

// NewWalletFromFile creates a Wallet from the given wallet file path.
func NewWalletFromFile(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read wallet file: %w", err)
	}
	w := &Wallet{path: path}
	if err := json.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("unmarshal wallet: %w", err)
	}
	if w.Version == "" {
		return nil, errors.New("wallet has no version")
	}
	return w, nil
}

func newWallet(path string) *Wallet {
	return &Wallet{
		Version:  walletVersion,
		Accounts: []*Account{},
		Scrypt:   keys.NEP2ScryptParams(),
		Extra:    json.RawMessage("null"),
		path:     path,
	}
}

// CreateAccount generates a new account for the end user and encrypts
// the private key with the given passphrase.
func (w *Wallet) CreateAccount(name, passphrase string) error {
	acc, err := NewAccount()
	if err != nil {
		return err
	}
	acc.Label = name
	if err := acc.Encrypt(passphrase, w.Scrypt); err != nil {
		return err
	}
	w.AddAccount(acc)
	return nil
}

// AddAccount adds an existing Account to the wallet.
func (w *Wallet) AddAccount(acc *Account) {
	w.Accounts = append(w.Accounts, acc)
}

// RemoveAccount removes an Account with the specified addr from the wallet.
func (w *Wallet) RemoveAccount(addr string) error {
	for i, acc := range w.Accounts {
		if acc.Address == addr {
			copy(w.Accounts[i:], w.Accounts[i+1:])
			w.Accounts = w.Accounts[:len(w.Accounts)-1]
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
}

// GetAccount returns an account corresponding to the provided scripthash.
func (w *Wallet) GetAccount(h util.Uint160) *Account {
	for _, acc := range w.Accounts {
		if acc.ScriptHash() == h {
			return acc
		}
	}
	return nil
}

// GetChangeAddress returns the default address or the first address of a
// signature account, it's the usual sender of transactions.
func (w *Wallet) GetChangeAddress() (util.Uint160, error) {
	var res *Account
	for _, acc := range w.Accounts {
		if acc.Default {
			res = acc
			break
		}
		if res == nil && acc.Contract != nil && len(acc.Contract.Parameters) == 1 {
			res = acc
		}
	}
	if res == nil {
		return util.Uint160{}, ErrAccountNotFound
	}
	return res.ScriptHash(), nil
}

// Path returns the location of the wallet on the filesystem.
func (w *Wallet) Path() string {
	return w.path
}

// Save saves the wallet data to the file located at the path that was either
// provided via NewWalletFromFile() or NewWallet().
func (w *Wallet) Save() error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return w.writeRaw(data)
}

// SavePretty saves the wallet in a beautiful JSON.
func (w *Wallet) SavePretty() error {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	return w.writeRaw(data)
}

func (w *Wallet) writeRaw(data []byte) error {
	if w.path == "" {
		return ErrPathIsEmpty
	}
	return os.WriteFile(w.path, data, 0600)
}

// Close closes all Wallet accounts making them incapable of signing anything
// (unless they're decrypted again).
func (w *Wallet) Close() {
	for _, acc := range w.Accounts {
		acc.Close()
	}
}
