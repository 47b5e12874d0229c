package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartGame(t *testing.T) {
	e := newTestEngine(t, []int{1, 1, 2, 3, 4}, []int{2, 2, 2, 5, 6}, alwaysChallenge())
	e.state.Round = 3
	e.state.HumanWins = 2

	view := e.StartGame()
	assert.Equal(t, PlayerTurn{}, view.Phase)
	assert.Equal(t, 1, view.Round)
	assert.Equal(t, MaxRounds, view.MaxRounds)
	assert.Zero(t, view.HumanWins)
	assert.Zero(t, view.OpponentWins)
	assert.Len(t, view.HumanDice, MaxDicePerPlayer)
	assert.Equal(t, MaxDicePerPlayer, view.OpponentDiceCount)
	assert.Nil(t, view.CurrentBid)
	assert.Empty(t, view.History)
}

func TestPlayerBidOpponentRaises(t *testing.T) {
	e := newTestEngine(t, []int{1, 1, 2, 3, 4}, []int{2, 2, 2, 5, 6}, alwaysBid(3, 2))

	view, err := e.PlayerBid(2, 1)
	require.NoError(t, err)

	assert.Equal(t, PlayerTurn{}, view.Phase)
	require.NotNil(t, view.CurrentBid)
	assert.Equal(t, Bid{Count: 3, Face: 2}, *view.CurrentBid)
	require.Len(t, view.History, 2)
	assert.Equal(t, HistoryEntry{Player: Human, Action: BidOf(2, 1)}, view.History[0])
	assert.Equal(t, HistoryEntry{Player: Opponent, Action: BidOf(3, 2)}, view.History[1])
	assert.Equal(t, Human, e.state.CurrentTurn)
}

func TestPlayerBidOpponentChallenges(t *testing.T) {
	e := newTestEngine(t, []int{3, 3, 3, 2, 1}, []int{3, 3, 5, 6, 1}, alwaysChallenge())

	view, err := e.PlayerBid(5, 3)
	require.NoError(t, err)

	ro, ok := view.Phase.(RoundOver)
	require.True(t, ok, "expected round over, got %s", view.Phase)
	assert.Equal(t, 5, ro.Result.ActualCount)
	assert.Equal(t, Human, ro.Result.Winner)
	assert.Equal(t, Opponent, ro.Result.Loser)
	assert.Equal(t, 1, view.HumanWins)
	require.Len(t, view.History, 2)
	assert.Equal(t, HistoryEntry{Player: Opponent, Action: Challenge()}, view.History[1])
	require.NotNil(t, view.LastResult)
	assert.Equal(t, []int{3, 3, 5, 6, 1}, view.LastResult.OpponentDice)
}

func TestPlayerBidOpponentIllegalBidFallsBackToChallenge(t *testing.T) {
	e := newTestEngine(t, []int{1, 1, 2, 3, 4}, []int{2, 2, 2, 5, 6}, alwaysBid(1, 1))

	view, err := e.PlayerBid(2, 4)
	require.NoError(t, err)

	_, ok := view.Phase.(RoundOver)
	assert.True(t, ok)
	assert.Equal(t, Challenge(), view.History[len(view.History)-1].Action)
}

func TestPlayerBidValidation(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		face    int
		wantErr error
	}{
		{"face too high", 2, 7, ErrInvalidBid},
		{"face zero", 2, 0, ErrInvalidBid},
		{"count zero", 0, 3, ErrInvalidBid},
		{"negative count", -1, 3, ErrInvalidBid},
		{"same as current", 2, 5, ErrIllegalRaise},
		{"lower than current", 1, 6, ErrIllegalRaise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, []int{1, 1, 2, 3, 4}, []int{2, 2, 2, 5, 6}, alwaysBid(2, 5))
			_, err := e.PlayerBid(1, 2)
			require.NoError(t, err)
			before := e.View()

			_, err = e.PlayerBid(tt.count, tt.face)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, e.View(), "failed bid must not change state")
		})
	}
}

func TestPlayerBidWrongPhase(t *testing.T) {
	e := newTestEngine(t, []int{3, 3, 3, 2, 1}, []int{3, 3, 5, 6, 1}, alwaysChallenge())
	_, err := e.PlayerBid(1, 3)
	require.NoError(t, err)

	_, err = e.PlayerBid(2, 3)
	assert.ErrorIs(t, err, ErrWrongPhase)

	_, err = e.PlayerChallenge()
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestPlayerChallengeWithoutBid(t *testing.T) {
	e := newTestEngine(t, []int{1, 2, 3, 4, 4}, []int{1, 2, 3, 5, 5}, alwaysChallenge())
	before := e.View()

	_, err := e.PlayerChallenge()
	require.ErrorIs(t, err, ErrNoBid)
	assert.Equal(t, "no bid to challenge: the round has no standing bid", err.Error())
	assert.Equal(t, before, e.View())
}

func TestPlayerChallengeOpponentBidHolds(t *testing.T) {
	e := newTestEngine(t, []int{3, 3, 3, 2, 1}, []int{3, 3, 5, 6, 1}, alwaysBid(5, 3))
	_, err := e.PlayerBid(4, 3)
	require.NoError(t, err)

	view, err := e.PlayerChallenge()
	require.NoError(t, err)

	ro, ok := view.Phase.(RoundOver)
	require.True(t, ok)
	assert.Equal(t, 1, ro.Result.Round)
	assert.Equal(t, 5, ro.Result.ActualCount)
	assert.Equal(t, Bid{Count: 5, Face: 3}, ro.Result.Bid)
	assert.Equal(t, Opponent, ro.Result.Winner)
	assert.Equal(t, Human, ro.Result.Loser)
	assert.Equal(t, 1, view.OpponentWins)
	assert.Equal(t, HistoryEntry{Player: Human, Action: Challenge()}, view.History[len(view.History)-1])
}

func TestResolveChallengeIsSymmetric(t *testing.T) {
	tests := []struct {
		name     string
		bid      Bid
		bidHolds bool
	}{
		{"bid holds exactly", Bid{Count: 5, Face: 3}, true},
		{"bid holds with margin", Bid{Count: 2, Face: 1}, true},
		{"bid fails", Bid{Count: 6, Face: 3}, false},
		{"degenerate zero count", Bid{Count: 0, Face: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, []int{3, 3, 3, 2, 1}, []int{3, 3, 5, 6, 1}, alwaysChallenge())
			bid := tt.bid
			e.state.CurrentBid = &bid

			byHuman := e.resolveChallenge(Human)
			byOpponent := e.resolveChallenge(Opponent)

			assert.Equal(t, byHuman.ActualCount, byOpponent.ActualCount)
			assert.Equal(t, byHuman.Winner, byOpponent.Loser)
			assert.Equal(t, byHuman.Loser, byOpponent.Winner)
			assert.NotEqual(t, byHuman.Winner, byHuman.Loser)

			if tt.bidHolds {
				assert.Equal(t, Opponent, byHuman.Winner, "the bidder wins when the bid holds")
			} else {
				assert.Equal(t, Human, byHuman.Winner, "the challenger wins when the bid fails")
			}
		})
	}
}

func TestResolveChallengeWithoutBidPanics(t *testing.T) {
	e := newTestEngine(t, []int{1, 2, 3, 4, 4}, []int{1, 2, 3, 5, 5}, alwaysChallenge())
	assert.Panics(t, func() { e.resolveChallenge(Human) })
}

func TestApplyRoundResultKeepsDiceCounts(t *testing.T) {
	e := newTestEngine(t, []int{1, 2, 3, 4, 4}, []int{1, 2, 3, 5, 5}, alwaysChallenge())

	e.applyRoundResult(RoundResult{Round: 1, Winner: Human, Loser: Opponent})

	assert.Equal(t, MaxDicePerPlayer, e.state.HumanDiceCount)
	assert.Equal(t, MaxDicePerPlayer, e.state.OpponentDiceCount)
	assert.Equal(t, 1, e.state.HumanWins)
	assert.Zero(t, e.state.OpponentWins)
	assert.IsType(t, RoundOver{}, e.state.Phase)
}

func TestGameOverAfterMaxRounds(t *testing.T) {
	tests := []struct {
		name    string
		winners []Player
		want    Player
	}{
		{"human sweep", []Player{Human, Human, Human, Human, Human}, Human},
		{"opponent majority", []Player{Opponent, Human, Opponent, Human, Opponent}, Opponent},
		{"human majority", []Player{Human, Opponent, Human, Opponent, Human}, Human},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, []int{1, 2, 3, 4, 4}, []int{1, 2, 3, 5, 5}, alwaysChallenge())
			for i, w := range tt.winners {
				e.applyRoundResult(RoundResult{Round: i + 1, Winner: w, Loser: w.Other()})
				if i < len(tt.winners)-1 {
					require.IsType(t, RoundOver{}, e.state.Phase)
					_, err := e.NextRound()
					require.NoError(t, err)
				}
			}

			over, ok := e.state.Phase.(GameOver)
			require.True(t, ok)
			assert.Equal(t, tt.want, over.Winner)
		})
	}
}

func TestTiedMatchGoesToHuman(t *testing.T) {
	e := newTestEngine(t, []int{1, 2, 3, 4, 4}, []int{1, 2, 3, 5, 5}, alwaysChallenge())
	e.state.MaxRounds = 4
	for i, w := range []Player{Opponent, Human, Opponent, Human} {
		e.state.Round = i + 1
		e.applyRoundResult(RoundResult{Round: i + 1, Winner: w, Loser: w.Other()})
	}

	assert.Equal(t, GameOver{Winner: Human}, e.state.Phase)
}

func TestNextRound(t *testing.T) {
	roller := &queueRoller{hands: [][]int{
		{3, 3, 3, 2, 1}, {3, 3, 5, 6, 1},
		{6, 6, 1, 2, 3}, {4, 4, 4, 4, 1},
	}}
	e := NewEngine(roller, alwaysChallenge(), newTestLogger())
	_, err := e.PlayerBid(2, 3)
	require.NoError(t, err)

	view, err := e.NextRound()
	require.NoError(t, err)

	assert.Equal(t, PlayerTurn{}, view.Phase)
	assert.Equal(t, 2, view.Round)
	assert.Equal(t, []int{6, 6, 1, 2, 3}, view.HumanDice)
	assert.Equal(t, []int{4, 4, 4, 4, 1}, e.state.OpponentDice)
	assert.Nil(t, view.CurrentBid)
	assert.Empty(t, view.History)
	assert.Equal(t, 1, view.HumanWins, "wins carry over between rounds")
}

func TestNextRoundDuringPlayerTurn(t *testing.T) {
	e := newTestEngine(t, []int{1, 2, 3, 4, 4}, []int{1, 2, 3, 5, 5}, alwaysChallenge())
	humanDice := append([]int(nil), e.state.HumanDice...)
	opponentDice := append([]int(nil), e.state.OpponentDice...)

	_, err := e.NextRound()
	require.ErrorIs(t, err, ErrWrongPhase)

	assert.Equal(t, 1, e.state.Round)
	assert.Equal(t, humanDice, e.state.HumanDice)
	assert.Equal(t, opponentDice, e.state.OpponentDice)
}

func TestNextRoundAfterGameOver(t *testing.T) {
	e := newTestEngine(t, []int{1, 2, 3, 4, 4}, []int{1, 2, 3, 5, 5}, alwaysChallenge())
	e.state.Phase = GameOver{Winner: Human}

	_, err := e.NextRound()
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestViewDoesNotExposeOpponentDiceUntilResolved(t *testing.T) {
	e := newTestEngine(t, []int{1, 1, 2, 3, 4}, []int{2, 2, 2, 5, 6}, alwaysBid(3, 2))
	view, err := e.PlayerBid(1, 1)
	require.NoError(t, err)
	assert.Nil(t, view.LastResult)
	assert.Equal(t, PlayerTurn{}, view.Phase)

	view, err = e.PlayerChallenge()
	require.NoError(t, err)
	require.NotNil(t, view.LastResult)
	assert.Equal(t, []int{2, 2, 2, 5, 6}, view.LastResult.OpponentDice)
	assert.Equal(t, []int{1, 1, 2, 3, 4}, view.LastResult.HumanDice)
}
