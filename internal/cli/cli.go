// Package cli implements the accounts command-line tool:
//
//	accounts [-c] STORE CMD [ARG=VALUE]...
//	accounts [-c] STORE repl [FILE.json]...
//
// STORE is "memory", a postgres:// URL or a mongodb:// URL.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
	"github.com/sheikh-saqib/accounts-ledger/internal/services"
)

const prompt = ">> "

// App runs commands against one Services instance.
type App struct {
	services *services.Services
	out      io.Writer
	errOut   io.Writer
}

func NewApp(s *services.Services, out, errOut io.Writer) *App {
	return &App{services: s, out: out, errOut: errOut}
}

// Args is the parsed command line.
type Args struct {
	Clear   bool
	Store   string
	Command string
	Rest    []string
}

// ParseArgs parses `[-c] STORE CMD ARGS...`.
func ParseArgs(name string, argv []string, errOut io.Writer) (Args, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	clear := fs.Bool("c", false, "clear the store before running CMD")
	fs.Usage = func() {
		fmt.Fprintf(errOut, "usage: %s [-c] STORE CMD [ARG=VALUE]...\n", name)
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		return Args{}, err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return Args{}, fmt.Errorf("STORE and CMD are required")
	}
	return Args{
		Clear:   *clear,
		Store:   fs.Arg(0),
		Command: fs.Arg(1),
		Rest:    fs.Args()[2:],
	}, nil
}

var argRe = regexp.MustCompile(`^\s*(\w+)=(?:"([^"]*)"|'([^']*)'|(\S+))\s*`)

// ParseParams turns `k=v`, `k="v w"` and `k='v w'` words into a map.
func ParseParams(line string) (map[string]string, error) {
	params := map[string]string{}
	line = strings.TrimSpace(line)
	for line != "" {
		m := argRe.FindStringSubmatchIndex(line)
		if m == nil {
			return nil, fmt.Errorf("invalid command argument at %q", truncate(line, 20))
		}
		key := line[m[2]:m[3]]
		var val string
		for g := 2; g <= 4; g++ {
			if m[2*g] >= 0 {
				val = line[m[2*g]:m[2*g+1]]
				break
			}
		}
		params[key] = val
		line = line[m[1]:]
	}
	return params, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Run executes a single command and reports whether it succeeded.
func (a *App) Run(ctx context.Context, cmd string, params map[string]string) bool {
	if services.CommandName(cmd) == "help" {
		fmt.Fprintln(a.out, a.services.Help(params["cmd"]))
		return true
	}
	result, err := a.services.Execute(ctx, cmd, params)
	if err != nil {
		a.printErrors(err)
		fmt.Fprintln(a.errOut, "usage:", a.services.Help(cmd))
		return false
	}
	return a.printJSON(result)
}

// RunWords executes CMD ARG=VALUE... given as separate words.
func (a *App) RunWords(ctx context.Context, cmd string, words []string) bool {
	if services.CommandName(cmd) == "help" {
		var target string
		if len(words) > 0 {
			target = words[0]
		}
		fmt.Fprintln(a.out, a.services.Help(target))
		return true
	}
	params := map[string]string{}
	for _, w := range words {
		k, v, ok := strings.Cut(w, "=")
		if !ok || k == "" {
			a.printErrors(apperr.New(apperr.BadRequest, fmt.Sprintf("bad argument %q: expected ARG=VALUE", w)))
			return false
		}
		params[k] = v
	}
	return a.Run(ctx, cmd, params)
}

// fileCommand is one entry of a JSON command file.
type fileCommand struct {
	Cmd  string            `json:"cmd"`
	Args map[string]string `json:"args"`
}

// LoadFile runs every command in a JSON file holding
// [{"cmd": "new-act", "args": {"id": "...", ...}}, ...].
func (a *App) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", path, err)
	}
	var cmds []fileCommand
	if err := json.Unmarshal(data, &cmds); err != nil {
		return fmt.Errorf("unable to parse JSON from %s: %w", path, err)
	}
	for _, c := range cmds {
		a.Run(ctx, c.Cmd, c.Args)
	}
	return nil
}

// REPL reads `CMD ARG=VALUE...` lines from in until EOF or ctx is done.
func (a *App) REPL(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(a.out, "Allowed commands are")
	fmt.Fprintln(a.out, indent(a.services.Help(""), "  "))

	scanner := bufio.NewScanner(in)
	fmt.Fprint(a.out, prompt)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.doLine(ctx, scanner.Text())
		fmt.Fprint(a.out, prompt)
	}
	fmt.Fprintln(a.out)
	return scanner.Err()
}

func (a *App) doLine(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	cmd, rest, _ := strings.Cut(line, " ")
	if services.CommandName(cmd) == "help" {
		fmt.Fprintln(a.out, a.services.Help(strings.TrimSpace(rest)))
		return
	}
	params, err := ParseParams(rest)
	if err != nil {
		fmt.Fprintln(a.errOut, err)
		return
	}
	a.Run(ctx, cmd, params)
}

func (a *App) printJSON(v any) bool {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(a.errOut, err)
		return false
	}
	fmt.Fprintln(a.out, string(data))
	return true
}

func (a *App) printErrors(err error) {
	for _, e := range apperr.Errors(err) {
		fmt.Fprintln(a.errOut, e.Message)
	}
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
