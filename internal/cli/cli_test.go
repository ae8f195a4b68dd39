package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/accounts-ledger/internal/idgen"
	"github.com/sheikh-saqib/accounts-ledger/internal/logger"
	"github.com/sheikh-saqib/accounts-ledger/internal/models"
	"github.com/sheikh-saqib/accounts-ledger/internal/services"
	"github.com/sheikh-saqib/accounts-ledger/internal/storage/memory"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	s, err := services.NewServices(memory.NewMemoryAccountStore(idgen.NewSequence()), nil, logger.Nop())
	require.NoError(t, err)
	var out, errOut bytes.Buffer
	return NewApp(s, &out, &errOut), &out, &errOut
}

func TestParseArgs(t *testing.T) {
	var errOut bytes.Buffer
	args, err := ParseArgs("accounts", []string{"-c", "memory", "new-account", "holderId=H1"}, &errOut)
	require.NoError(t, err)
	assert.True(t, args.Clear)
	assert.Equal(t, "memory", args.Store)
	assert.Equal(t, "new-account", args.Command)
	assert.Equal(t, []string{"holderId=H1"}, args.Rest)

	_, err = ParseArgs("accounts", []string{"memory"}, &errOut)
	assert.Error(t, err)
	assert.Contains(t, errOut.String(), "usage: accounts")
}

func TestParseParams(t *testing.T) {
	params, err := ParseParams(`id=1.23 memo="coffee and cake" date='2021-01-05' amount=-1.50`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"id":     "1.23",
		"memo":   "coffee and cake",
		"date":   "2021-01-05",
		"amount": "-1.50",
	}, params)

	params, err = ParseParams("   ")
	require.NoError(t, err)
	assert.Empty(t, params)

	_, err = ParseParams("id=1 dangling")
	assert.Error(t, err)
}

func TestRunWords(t *testing.T) {
	ctx := context.Background()
	app, out, errOut := newTestApp(t)

	require.True(t, app.RunWords(ctx, "new-account", []string{"holderId=H1"}))
	var id string
	require.NoError(t, json.Unmarshal(out.Bytes(), &id))
	out.Reset()

	require.True(t, app.RunWords(ctx, "new-act", []string{"id=" + id, "amount=12.50", "date=2021-01-05", "memo=pay"}))
	out.Reset()

	require.True(t, app.RunWords(ctx, "info", []string{"id=" + id}))
	var info models.AccountInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, "12.50", info.Balance.StringFixed(2))

	assert.False(t, app.RunWords(ctx, "new-act", []string{"id=" + id, "amount=1.5"}))
	assert.Contains(t, errOut.String(), "usage: new-act")

	errOut.Reset()
	assert.False(t, app.RunWords(ctx, "info", []string{"bogus"}))
	assert.Contains(t, errOut.String(), `bad argument "bogus"`)
}

func TestHelpCommand(t *testing.T) {
	app, out, _ := newTestApp(t)
	assert.True(t, app.RunWords(context.Background(), "help", []string{"statement"}))
	assert.True(t, strings.HasPrefix(out.String(), "statement "))
}

func TestREPLWithFile(t *testing.T) {
	ctx := context.Background()
	app, out, errOut := newTestApp(t)

	path := filepath.Join(t.TempDir(), "setup.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"cmd": "new-account", "args": {"holderId": "H1"}},
		{"cmd": "new-account", "args": {}}
	]`), 0o600))
	require.NoError(t, app.LoadFile(ctx, path))
	assert.Contains(t, errOut.String(), "usage: new-account")

	out.Reset()
	in := strings.NewReader("help query\n\nstatement id=nonexistent\n")
	require.NoError(t, app.REPL(ctx, in))
	assert.Contains(t, out.String(), "Allowed commands are")
	assert.Contains(t, out.String(), prompt)
	assert.Contains(t, out.String(), "query id=ID")
	assert.Contains(t, errOut.String(), "nonexistent")
}

func TestLoadFileErrors(t *testing.T) {
	app, _, _ := newTestApp(t)
	ctx := context.Background()

	assert.Error(t, app.LoadFile(ctx, filepath.Join(t.TempDir(), "missing.json")))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	assert.Error(t, app.LoadFile(ctx, path))
}
