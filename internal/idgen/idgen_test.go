package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceUniqueUnderConcurrency(t *testing.T) {
	gen := NewSequence()
	const workers, per = 8, 500

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*per)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < per; j++ {
				id := gen.NewID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*per)
}

func TestSequenceFormat(t *testing.T) {
	gen := NewSequence()
	first := gen.NewID()
	second := gen.NewID()

	assert.True(t, strings.HasPrefix(first, "0."), first)
	assert.True(t, strings.HasPrefix(second, "1."), second)
	assert.Len(t, strings.SplitN(first, ".", 2)[1], 2)
}

func TestUUID(t *testing.T) {
	id := UUID{}.NewID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, UUID{}.NewID())
}

func TestForStrategy(t *testing.T) {
	g, err := ForStrategy("uuid")
	require.NoError(t, err)
	assert.IsType(t, UUID{}, g)

	g, err = ForStrategy("")
	require.NoError(t, err)
	assert.IsType(t, &Sequence{}, g)

	_, err = ForStrategy("snowflake")
	assert.Error(t, err)
}
