package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	w, err := NewWallet(key.String())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey)
	assert.Equal(t, key.PublicKey().String(), w.String())
}

func TestNewWalletInvalid(t *testing.T) {
	_, err := NewWallet("0OIl")
	assert.ErrorContains(t, err, "failed to decode private key")

	_, err = NewWallet(solana.NewWallet().PublicKey().String())
	assert.ErrorContains(t, err, "invalid private key length")
}

func TestLoadKeypairFile(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	data, err := json.Marshal(values)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, data, 0600))

	w, err := LoadKeypairFile(path)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey)

	_, err = LoadKeypairFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	w, err := Resolve("", "")
	require.NoError(t, err)
	assert.Nil(t, w)

	key := solana.NewWallet().PrivateKey
	w, err = Resolve(key.String(), "/does/not/matter")
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey)

	_, err = Resolve("", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
