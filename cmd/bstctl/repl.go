package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/benz9527/bstkv/lib/infra"
	"github.com/benz9527/bstkv/lib/tree"
	"github.com/benz9527/bstkv/xlog"
)

const usage = `commands:
  add <key> <value>   bind value to key, an existing key is rejected
  get <key>           print the value bound to key
  remove <key>        remove key and print its value
  loglevel <level>    switch the log level to debug, info, warn or error
  help                print this message
  quit | exit         leave`

// Context keys of the fields attached to every entry logged for an
// input line.
const (
	ctxFieldLine = "line"
	ctxFieldCmd  = "cmd"
)

var errQuit = errors.New("quit")

// argError is an argument that is not a decimal int32.
type argError struct {
	name, arg string
	cause     error
}

func (e *argError) Error() string {
	return "invalid " + e.name + " " + strconv.Quote(e.arg)
}

func (e *argError) Unwrap() error {
	return e.cause
}

// repl drives one container by a line per command. Each command
// prints "ok", a value, or "error: <kind>".
type repl struct {
	bst    tree.BST
	logger xlog.XLogger
	in     io.Reader
	out    io.Writer
	prompt string
}

func (r *repl) run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	for lineNo := 1; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(r.prompt) > 0 {
			_, _ = io.WriteString(r.out, r.prompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		lineCtx := xlog.ContextWithField(ctx, ctxFieldLine, lineNo)
		lineCtx = xlog.ContextWithField(lineCtx, ctxFieldCmd, strings.ToLower(strings.Fields(line)[0]))
		res, err := r.exec(lineCtx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			r.logFailure(lineCtx, err)
			res = formatErr(err)
		} else {
			r.logger.DebugContext(lineCtx, "[bstctl] command done")
		}
		_, _ = fmt.Fprintln(r.out, res)
	}
}

// exec runs one non-empty line. The returned error is the reason the
// command failed, errQuit ends the session.
func (r *repl) exec(ctx context.Context, line string) (string, error) {
	args := strings.Fields(line)
	switch cmd := strings.ToLower(args[0]); cmd {
	case "add":
		if len(args) != 3 {
			return "", errors.New("usage: add <key> <value>")
		}
		key, err := parseInt32("key", args[1])
		if err != nil {
			return "", err
		}
		val, err := parseInt32("value", args[2])
		if err != nil {
			return "", err
		}
		if err = r.bst.Add(key, val); err != nil {
			return "", err
		}
		return "ok", nil
	case "get", "remove":
		if len(args) != 2 {
			return "", errors.New("usage: " + cmd + " <key>")
		}
		key, err := parseInt32("key", args[1])
		if err != nil {
			return "", err
		}
		var val int32
		if cmd == "get" {
			val, err = r.bst.Get(key)
		} else {
			val, err = r.bst.Remove(key)
		}
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(val), 10), nil
	case "loglevel":
		if len(args) != 2 {
			return "", errors.New("usage: loglevel <level>")
		}
		lvl, err := xlog.ParseLogLevel(args[1])
		if err != nil {
			return "", fmt.Errorf("unknown log level %q", args[1])
		}
		r.logger.IncreaseLogLevel(lvl.ZapLevel())
		r.logger.InfoContext(ctx, "[bstctl] log level changed", zap.String("level", r.logger.Level()))
		return r.logger.Level(), nil
	case "help":
		return usage, nil
	case "quit", "exit":
		return "", errQuit
	default:
	}
	return "", fmt.Errorf("unknown command %q", args[0])
}

// logFailure reports a failed command. Rejections by the container are
// already reported by the container itself.
func (r *repl) logFailure(ctx context.Context, err error) {
	var (
		kind tree.ErrorKind
		es   infra.ErrorStack
	)
	switch {
	case errors.As(err, &kind):
		r.logger.DebugContext(ctx, "[bstctl] command rejected", zap.Stringer("kind", kind))
	case errors.As(err, &es):
		r.logger.ErrorStackContext(ctx, es, "[bstctl] parse argument")
	default:
		r.logger.WarnContext(ctx, "[bstctl] invalid command", zap.String("reason", err.Error()))
	}
}

func parseInt32(name, s string) (int32, error) {
	i, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, infra.WrapErrorStack(&argError{name: name, arg: s, cause: err})
	}
	return int32(i), nil
}

func formatErr(err error) string {
	var kind tree.ErrorKind
	if errors.As(err, &kind) {
		return "error: " + kind.String()
	}
	return "error: " + err.Error()
}
