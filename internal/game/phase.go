package game

// Phase is the position of a match in its state machine. It is a closed set:
// PlayerTurn, OpponentTurn, RoundOver and GameOver are the only
// implementations, so a type switch over them is exhaustive.
type Phase interface {
	isPhase()
	String() string
}

// PlayerTurn waits for the human to bid or challenge
type PlayerTurn struct{}

// OpponentTurn is entered and left inside a single engine call; callers
// never observe it.
type OpponentTurn struct{}

// RoundOver holds a resolved round open until the next round is requested
type RoundOver struct {
	Result RoundResult
}

// GameOver ends the match
type GameOver struct {
	Winner Player
}

func (PlayerTurn) isPhase()   {}
func (OpponentTurn) isPhase() {}
func (RoundOver) isPhase()    {}
func (GameOver) isPhase()     {}

func (PlayerTurn) String() string   { return "player_turn" }
func (OpponentTurn) String() string { return "opponent_turn" }
func (RoundOver) String() string    { return "round_over" }
func (GameOver) String() string     { return "game_over" }

// RoundResult is the outcome of a resolved challenge. Both hands are revealed.
type RoundResult struct {
	Round        int
	Winner       Player
	Loser        Player
	HumanDice    []int
	OpponentDice []int
	Bid          Bid
	ActualCount  int
}

func (r RoundResult) clone() RoundResult {
	r.HumanDice = cloneDice(r.HumanDice)
	r.OpponentDice = cloneDice(r.OpponentDice)
	return r
}

func clonePhase(p Phase) Phase {
	if ro, ok := p.(RoundOver); ok {
		return RoundOver{Result: ro.Result.clone()}
	}
	return p
}

func cloneDice(d []int) []int {
	if d == nil {
		return nil
	}
	out := make([]int, len(d))
	copy(out, d)
	return out
}
