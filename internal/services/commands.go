package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
	"github.com/sheikh-saqib/accounts-ledger/internal/parse"
	"github.com/sheikh-saqib/accounts-ledger/internal/validate"
)

const (
	cmdNewAccount = "newAccount"
	cmdInfo       = "info"
	cmdNewAct     = "newAct"
	cmdQuery      = "query"
	cmdStatement  = "statement"
	cmdHelp       = "help"
)

// aliases maps alternative command names onto table entries.
var aliases = map[string]string{
	"account": cmdInfo,
}

const lineLength = 72

type runFunc func(ctx context.Context, params map[string]string) (any, error)

type command struct {
	fields validate.Spec
	doc    string
	run    runFunc
}

// typed adapts a strongly typed handler to the table's signature.
func typed[T any](fn func(context.Context, map[string]string) (T, error)) runFunc {
	return func(ctx context.Context, params map[string]string) (any, error) {
		v, err := fn(ctx, params)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func chkDate(s string) string {
	var errs apperr.List
	if _, ok := parse.Date(s, &errs); !ok {
		return errs[0].Message
	}
	return ""
}

func chkPositive(s string) string {
	var errs apperr.List
	if _, ok := parse.PositiveInt(s, &errs); !ok {
		return errs[0].Message
	}
	return ""
}

func (s *Services) commandTable() map[string]command {
	accountID := validate.Field{Name: "account ID", Required: true}
	return map[string]command{
		cmdNewAccount: {
			fields: validate.Spec{
				"holderId": {Name: "account holder ID", Required: true},
			},
			doc: "create a new account and return its ID.",
			run: typed(s.newAccount),
		},
		cmdInfo: {
			fields: validate.Spec{"id": accountID},
			doc:    "return { id, holderId, balance } for account identified by id.",
			run:    typed(s.info),
		},
		cmdNewAct: {
			fields: validate.Spec{
				"id":     accountID,
				"amount": {Name: "transaction amount", Required: true, Check: validate.Pattern(`[-+]?\d+\.\d\d`)},
				"date":   {Name: "transaction date", Required: true, Check: validate.Predicate(chkDate)},
				"memo":   {Name: "transaction memo", Required: true},
			},
			doc: "add transaction { amount, date, memo } to account id and\n" +
				"return ID of newly created transaction.",
			run: typed(s.newAct),
		},
		cmdQuery: {
			fields: validate.Spec{
				"id":       accountID,
				"actId":    {Name: "transaction ID"},
				"date":     {Name: "transaction date", Check: validate.Predicate(chkDate)},
				"memoText": {Name: "memo substring"},
				"index":    {Name: "start index", Default: "0", Check: validate.Pattern(`\d+`)},
				"count":    {Name: "retrieved count", Default: "5", Check: validate.Predicate(chkPositive)},
			},
			doc: "return list of { id, amount, date, memo } of transactions\n" +
				"for account id.",
			run: typed(s.query),
		},
		cmdStatement: {
			fields: validate.Spec{
				"id":       accountID,
				"fromDate": {Name: "from date", Check: validate.Predicate(chkDate)},
				"toDate":   {Name: "to date", Check: validate.Predicate(chkDate)},
			},
			doc: "return list of { id, amount, date, memo, balance } extended\n" +
				"transactions for account id between fromDate and toDate.",
			run: typed(s.statement),
		},
	}
}

func checkCommands(commands map[string]command) error {
	var errs apperr.List
	for name, cmd := range commands {
		if cmd.run == nil {
			errs.Add(apperr.Internal, fmt.Sprintf("command %q has no handler", name))
		}
		if err := cmd.fields.Check(); err != nil {
			errs.Merge(err)
		}
	}
	return errs.Err()
}

var dashRe = regexp.MustCompile(`-[a-z]`)

// CommandName turns "new-act" into "newAct" and resolves aliases.
func CommandName(name string) string {
	camel := dashRe.ReplaceAllStringFunc(strings.TrimSpace(name), func(m string) string {
		return strings.ToUpper(m[1:])
	})
	if alias, ok := aliases[camel]; ok {
		return alias
	}
	return camel
}

// Commands returns the command names, help included, sorted.
func (s *Services) Commands() []string {
	names := []string{cmdHelp}
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Help renders usage for cmd, or for every command when cmd is empty.
func (s *Services) Help(cmd string) string {
	if cmd == "" {
		lines := make([]string, 0, len(s.commands)+1)
		for _, name := range s.Commands() {
			lines = append(lines, s.Help(name))
		}
		return strings.Join(lines, "\n")
	}
	name := CommandName(cmd)
	if name == cmdHelp {
		return "help [CMD]"
	}
	c, ok := s.commands[name]
	if !ok {
		return fmt.Sprintf("invalid command %s", cmd)
	}

	parts := []string{dashed(name)}
	for _, key := range c.fields.Keys() {
		arg := key + "=" + upperSnake(key)
		if !c.fields[key].Required {
			arg = "[" + arg + "]"
		}
		parts = append(parts, arg)
	}
	usage := strings.Join(parts, " ")
	if len(usage) > lineLength {
		if split := strings.LastIndex(usage[:lineLength], " "); split >= 0 {
			usage = usage[:split] + "\n" + strings.Repeat(" ", len(parts[0])+1) + usage[split+1:]
		}
	}

	var b strings.Builder
	b.WriteString(usage)
	for _, line := range strings.Split(c.doc, "\n") {
		b.WriteString("\n  ")
		b.WriteString(strings.TrimSpace(line))
	}
	return b.String()
}

func dashed(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func upperSnake(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
