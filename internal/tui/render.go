package tui

import (
	"fmt"
	"strings"

	"github.com/lox/liarsdice/internal/protocol"
)

func formatBid(b protocol.Bid) string {
	return fmt.Sprintf("%d×%d", b.Count, b.Face)
}

// formatDice renders a hand, highlighting dice that show face. A face of 0
// highlights nothing.
func formatDice(dice []int, face int) string {
	if len(dice) == 0 {
		return "[]"
	}
	formatted := make([]string, 0, len(dice))
	for _, d := range dice {
		style := DiceStyle
		if d == face {
			style = MatchedDieStyle
		}
		formatted = append(formatted, style.Render(fmt.Sprint(d)))
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func playerName(p string) string {
	if p == "human" {
		return "You"
	}
	return "Opponent"
}

func formatAction(entry protocol.HistoryEntry) string {
	who := playerName(entry.Player)
	if entry.Action.Kind == "challenge" {
		if entry.Player == "human" {
			return who + " challenge"
		}
		return who + " challenges"
	}

	verb := "bids"
	if entry.Player == "human" {
		verb = "bid"
	}
	return fmt.Sprintf("%s %s %s", who, verb, formatBid(*entry.Action.Bid))
}

// formatResult describes a resolved challenge with both hands revealed
func formatResult(r protocol.RoundResult) []string {
	outcome := "Opponent wins the round."
	if r.Winner == "human" {
		outcome = "You win the round!"
	}
	return []string{
		fmt.Sprintf("Your dice:     %s", formatDice(r.HumanDice, r.Bid.Face)),
		fmt.Sprintf("Opponent dice: %s", formatDice(r.OpponentDice, r.Bid.Face)),
		fmt.Sprintf("Bid %s, actual count %d. %s", formatBid(r.Bid), r.ActualCount, outcome),
	}
}

func formatGameOver(gs protocol.GameState) string {
	score := fmt.Sprintf("%d-%d", gs.HumanWins, gs.OpponentWins)
	if gs.Phase.Winner == "human" {
		return "Game over: you win the match " + score
	}
	return "Game over: the opponent wins the match " + score
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
