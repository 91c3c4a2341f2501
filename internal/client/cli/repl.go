package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Market(ctx context.Context) error
	Portfolio(ctx context.Context) error
	Templates(ctx context.Context) error
	Contracts(ctx context.Context) error
	Order(ctx context.Context, args []string) error
}

const (
	helpPublic   = "Available commands: login, market, templates, contracts, order <id>, exit"
	helpLoggedIn = "Available commands: market, portfolio, templates, contracts, order <id> [status <s> | insure <template-id> | risk], exit"
)

// runREPL reads one command per line and dispatches it to a until EOF or
// "exit"/"quit". Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ship %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpPublic)
			}

		case "login":
			err = a.Login(ctx)

		case "m", "market":
			err = a.Market(ctx)

		case "portfolio":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			err = a.Portfolio(ctx)

		case "templates":
			err = a.Templates(ctx)

		case "contracts":
			err = a.Contracts(ctx)

		case "order":
			if len(args) == 0 {
				printlnFn("Usage: order <id> [status <status> | insure <template-id> | risk]")
				continue
			}
			err = a.Order(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
