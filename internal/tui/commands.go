package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CommandKind is what the player typed
type CommandKind int

const (
	CommandContinue CommandKind = iota // empty input
	CommandBid
	CommandChallenge
	CommandNext
	CommandNew
	CommandQuit
	CommandHelp
)

// Command is a parsed line of input
type Command struct {
	Kind  CommandKind
	Count int
	Face  int
}

var errBidUsage = errors.New("usage: bid <count> <face>")

// ParseCommand parses one line of player input. Bids may omit the keyword:
// "4 3" is the same as "bid 4 3".
func ParseCommand(input string) (Command, error) {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return Command{Kind: CommandContinue}, nil
	}

	switch parts[0] {
	case "bid", "b":
		return parseBid(parts[1:])
	case "challenge", "c", "liar":
		return Command{Kind: CommandChallenge}, nil
	case "next", "n":
		return Command{Kind: CommandNext}, nil
	case "new":
		return Command{Kind: CommandNew}, nil
	case "quit", "q", "exit":
		return Command{Kind: CommandQuit}, nil
	case "help", "h", "?":
		return Command{Kind: CommandHelp}, nil
	}

	if len(parts) == 2 {
		if _, err := strconv.Atoi(parts[0]); err == nil {
			return parseBid(parts)
		}
	}
	return Command{}, fmt.Errorf("unknown command %q, type 'help' for commands", parts[0])
}

func parseBid(args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, errBidUsage
	}
	count, err := strconv.Atoi(args[0])
	if err != nil {
		return Command{}, errBidUsage
	}
	face, err := strconv.Atoi(args[1])
	if err != nil {
		return Command{}, errBidUsage
	}
	return Command{Kind: CommandBid, Count: count, Face: face}, nil
}

const helpText = "Commands: bid <count> <face> (or just <count> <face>), challenge (c), next (n), new, quit"
