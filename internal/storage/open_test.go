package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/accounts-ledger/internal/storage/memory"
)

func TestDriverFor(t *testing.T) {
	tests := map[string]string{
		"":                                  "memory",
		"memory":                            "memory",
		"postgres://u:p@localhost/ledger":   "postgres",
		"postgresql://localhost/ledger":     "postgres",
		"mongodb://localhost:27017":         "mongo",
		"mongodb+srv://cluster.example.net": "mongo",
	}
	for url, want := range tests {
		got, err := DriverFor(url)
		require.NoError(t, err, url)
		assert.Equal(t, want, got, url)
	}

	_, err := DriverFor("redis://localhost")
	assert.Error(t, err)
}

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.MemoryAccountStore{}, store)

	_, err = Open(context.Background(), Options{Driver: "sqlite"})
	assert.Error(t, err)
}
