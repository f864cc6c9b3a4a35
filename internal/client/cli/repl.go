package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Start(ctx context.Context) error
	Upgrade(ctx context.Context) error
	Whoami(ctx context.Context) error
	Profile(ctx context.Context) error
	SetName(ctx context.Context, args []string) error
	SetGoal(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	Log(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Done(ctx context.Context, args []string) error
	Sync(ctx context.Context, args []string) error
	Ping(ctx context.Context) error
	Logout(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: start, whoami, ping, exit"
	helpLoggedIn  = "Available commands: status, log [grams], history [N], done <logId>, profile, setname [name], goal [grams], sync <file>, upgrade, whoami, ping, logout [device], exit"
)

// runREPL reads a line from reader, parses the first token as the command
// and dispatches to a. The loop exits on EOF or on "exit" or "quit".
//
// Commands that prompt for more input read from the same reader, so a
// script piped into stdin is consumed line by line in order.
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sugarlog %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "start":
			_ = a.Start(ctx)

		case "upgrade":
			_ = a.Upgrade(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "setname":
			_ = a.SetName(ctx, args)

		case "goal":
			_ = a.SetGoal(ctx, args)

		case "status", "s":
			_ = a.Status(ctx)

		case "log", "l":
			_ = a.Log(ctx, args)

		case "history", "h":
			_ = a.History(ctx, args)

		case "done":
			_ = a.Done(ctx, args)

		case "sync":
			_ = a.Sync(ctx, args)

		case "ping":
			_ = a.Ping(ctx)

		case "logout":
			_ = a.Logout(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
