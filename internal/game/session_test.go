package game

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liargame/internal/domain"
	"liargame/internal/words"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSession creates a session with the given players joined, every
// non-host toggled ready, and a fixed rng seed.
func newTestSession(t *testing.T, names ...string) *Session {
	t.Helper()

	s := NewSession("room", words.Default(), DefaultRules(), rand.New(rand.NewSource(7)), testLogger())
	t.Cleanup(s.Close)

	for i, name := range names {
		player, err := s.Join(fmt.Sprintf("p%d", i+1), name)
		require.NoError(t, err)
		if !player.IsHost {
			s.ToggleReady(player.ID)
		}
	}

	return s
}

// startRound starts a round as the host and fails the test on error
func startRound(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.StartRound("p1"))
	require.Equal(t, domain.PhasePlaying, s.Phase())
}

// playThroughTurns advances every turn in order until VOTING
func playThroughTurns(t *testing.T, s *Session) {
	t.Helper()
	for {
		current, ok := s.turns.Current()
		if !ok {
			break
		}
		s.AdvanceTurn(current, "a careful description")
	}
	require.Equal(t, domain.PhaseVoting, s.Phase())
}

// citizenIDs returns the active non-liar ids
func citizenIDs(s *Session) []string {
	var ids []string
	for _, p := range s.roster.Actives() {
		if p.ID != s.liarID {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func TestSession_StartRound(t *testing.T) {
	t.Run("assigns exactly one liar and two distinct words", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")

		startRound(t, s)

		liars := 0
		s.roster.Each(func(p *domain.Player) {
			switch p.Role {
			case domain.RoleLiar:
				liars++
				assert.Equal(t, s.liarWord, p.Word)
			case domain.RoleCitizen:
				assert.Equal(t, s.citizenWord, p.Word)
			}
		})

		assert.Equal(t, 1, liars)
		assert.NotEqual(t, s.citizenWord, s.liarWord)
		assert.NotEmpty(t, s.category)
	})

	t.Run("turn order is a permutation of the active players", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol", "dave")

		startRound(t, s)

		order := s.turns.Order()
		require.Len(t, order, 4)
		seen := make(map[string]bool)
		for _, id := range order {
			_, ok := s.roster.Get(id)
			assert.True(t, ok)
			assert.False(t, seen[id])
			seen[id] = true
		}
	})

	t.Run("fails with fewer than three active players", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob")

		err := s.StartRound("p1")

		assert.ErrorIs(t, err, domain.ErrNotEnoughPlayers)
		assert.Equal(t, domain.PhaseLobby, s.Phase())
	})

	t.Run("fails when any active player is not ready", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		s.ToggleReady("p3") // carol un-readies

		err := s.StartRound("p1")

		assert.ErrorIs(t, err, domain.ErrNotAllReady)
		assert.Equal(t, domain.PhaseLobby, s.Phase())
	})

	t.Run("only the host may start", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")

		err := s.StartRound("p2")

		assert.ErrorIs(t, err, domain.ErrNotHost)
		assert.Equal(t, domain.PhaseLobby, s.Phase())
	})

	t.Run("is reproducible under a fixed seed", func(t *testing.T) {
		first := newTestSession(t, "alice", "bob", "carol")
		second := newTestSession(t, "alice", "bob", "carol")

		startRound(t, first)
		startRound(t, second)

		assert.Equal(t, first.liarID, second.liarID)
		assert.Equal(t, first.citizenWord, second.citizenWord)
		assert.Equal(t, first.turns.Order(), second.turns.Order())
	})
}

func TestSession_AdvanceTurn(t *testing.T) {
	t.Run("advancing every turn reaches VOTING", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)

		playThroughTurns(t, s)
	})

	t.Run("a request from a player not holding the turn is ignored", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)

		current, _ := s.turns.Current()
		var other string
		for _, p := range s.roster.Actives() {
			if p.ID != current {
				other = p.ID
				break
			}
		}

		cursorBefore := s.turns.Cursor()
		s.AdvanceTurn(other, "not my turn")

		assert.Equal(t, cursorBefore, s.turns.Cursor())
		assert.Equal(t, domain.PhasePlaying, s.Phase())
	})

	t.Run("turn-timer expiry force-advances with the mirrored input", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)

		current, _ := s.turns.Current()
		s.UpdateLiveInput(current, "half-typed descr")
		cursorBefore := s.turns.Cursor()

		s.onExpire(s.timer.Epoch())

		assert.Equal(t, cursorBefore+1, s.turns.Cursor())
	})

	t.Run("a stale expiry is a no-op", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)

		staleEpoch := s.timer.Epoch()
		current, _ := s.turns.Current()
		s.AdvanceTurn(current, "") // restarts the countdown, bumping the epoch

		cursorBefore := s.turns.Cursor()
		s.onExpire(staleEpoch)

		assert.Equal(t, cursorBefore, s.turns.Cursor())
	})
}

func TestSession_Voting(t *testing.T) {
	t.Run("vote for the liar succeeds and awards citizens", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		playThroughTurns(t, s)

		citizens := citizenIDs(s)
		require.NoError(t, s.CastVote(citizens[0], s.liarID))
		require.NoError(t, s.CastVote(citizens[1], s.liarID))
		require.NoError(t, s.CastVote(s.liarID, citizens[0]))

		assert.Equal(t, domain.PhaseLiarGuess, s.Phase())
		assert.True(t, s.outcome.VoteSucceeded)
		for _, id := range citizens {
			p, _ := s.roster.Get(id)
			assert.Equal(t, 1, p.Score)
		}
		liar, _ := s.roster.Get(s.liarID)
		assert.Equal(t, 0, liar.Score)
	})

	t.Run("a tied vote misidentifies the liar and awards the liar", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		playThroughTurns(t, s)

		// Everyone votes for somebody different: a three-way tie.
		actives := s.roster.Actives()
		require.NoError(t, s.CastVote(actives[0].ID, actives[1].ID))
		require.NoError(t, s.CastVote(actives[1].ID, actives[2].ID))
		require.NoError(t, s.CastVote(actives[2].ID, actives[0].ID))

		assert.Equal(t, domain.PhaseLiarGuess, s.Phase())
		assert.False(t, s.outcome.VoteSucceeded)
		liar, _ := s.roster.Get(s.liarID)
		assert.Equal(t, 1, liar.Score)
	})

	t.Run("vote-timer expiry resolves the tally as-is", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol", "dave")
		startRound(t, s)
		playThroughTurns(t, s)

		citizens := citizenIDs(s)
		require.NoError(t, s.CastVote(citizens[0], s.liarID))
		require.NoError(t, s.CastVote(citizens[1], s.liarID))
		require.Equal(t, domain.PhaseVoting, s.Phase())

		s.onExpire(s.timer.Epoch())

		assert.Equal(t, domain.PhaseLiarGuess, s.Phase())
		assert.True(t, s.outcome.VoteSucceeded)
	})

	t.Run("a second vote from the same player is dropped", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		playThroughTurns(t, s)

		citizens := citizenIDs(s)
		require.NoError(t, s.CastVote(citizens[0], s.liarID))
		require.NoError(t, s.CastVote(citizens[0], citizens[1]))

		assert.Equal(t, 1, s.tally.VotedCount())
		assert.Equal(t, map[string]int{s.liarID: 1}, s.tally.Counts())
	})

	t.Run("vote count never exceeds the active player count", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		playThroughTurns(t, s)

		actives := s.roster.Actives()
		for _, p := range actives {
			s.CastVote(p.ID, s.liarID)
			total := 0
			for _, n := range s.tally.Counts() {
				total += n
			}
			assert.LessOrEqual(t, total, len(actives))
		}
	})
}

func TestSession_LiarGuess(t *testing.T) {
	// reachGuessPhase drives a successful vote so the liar must guess
	reachGuessPhase := func(t *testing.T, s *Session) {
		t.Helper()
		playThroughTurns(t, s)
		for _, id := range citizenIDs(s) {
			require.NoError(t, s.CastVote(id, s.liarID))
		}
		require.NoError(t, s.CastVote(s.liarID, citizenIDs(s)[0]))
		require.Equal(t, domain.PhaseLiarGuess, s.Phase())
	}

	t.Run("an exact guess recovers the round for the liar", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		reachGuessPhase(t, s)

		require.NoError(t, s.SubmitGuess(s.liarID, s.citizenWord))

		assert.Equal(t, domain.PhaseResult, s.Phase())
		assert.True(t, s.outcome.GuessSucceeded)
		liar, _ := s.roster.Get(s.liarID)
		assert.Equal(t, 1, liar.Score)
	})

	t.Run("guesses are trimmed before comparison", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		reachGuessPhase(t, s)

		require.NoError(t, s.SubmitGuess(s.liarID, "  "+s.citizenWord+" \n"))

		assert.True(t, s.outcome.GuessSucceeded)
	})

	t.Run("a wrong guess awards every citizen again", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		reachGuessPhase(t, s)

		require.NoError(t, s.SubmitGuess(s.liarID, "definitely wrong"))

		assert.Equal(t, domain.PhaseResult, s.Phase())
		assert.False(t, s.outcome.GuessSucceeded)
		for _, id := range citizenIDs(s) {
			p, _ := s.roster.Get(id)
			assert.Equal(t, 2, p.Score) // +1 vote, +1 failed guess
		}
	})

	t.Run("a guess from anyone but the liar is dropped", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		reachGuessPhase(t, s)

		require.NoError(t, s.SubmitGuess(citizenIDs(s)[0], s.citizenWord))

		assert.Equal(t, domain.PhaseLiarGuess, s.Phase())
	})

	t.Run("guess-timer expiry submits the mirrored live input", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		reachGuessPhase(t, s)

		s.UpdateLiveInput(s.liarID, s.citizenWord)
		s.onExpire(s.timer.Epoch())

		assert.Equal(t, domain.PhaseResult, s.Phase())
		assert.True(t, s.outcome.GuessSucceeded)
	})

	t.Run("guess-timer expiry with no input resolves as incorrect", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		reachGuessPhase(t, s)

		s.onExpire(s.timer.Epoch())

		assert.Equal(t, domain.PhaseResult, s.Phase())
		assert.False(t, s.outcome.GuessSucceeded)
	})

	t.Run("roles and words are cleared at RESULT", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		reachGuessPhase(t, s)

		require.NoError(t, s.SubmitGuess(s.liarID, "wrong"))

		s.roster.Each(func(p *domain.Player) {
			assert.Equal(t, domain.RoleNone, p.Role)
			assert.Empty(t, p.Word)
		})
	})

	t.Run("a new round can start from RESULT", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		reachGuessPhase(t, s)
		require.NoError(t, s.SubmitGuess(s.liarID, "wrong"))

		require.NoError(t, s.StartRound("p1"))

		assert.Equal(t, domain.PhasePlaying, s.Phase())
		assert.Equal(t, 0, s.tally.VotedCount())
		assert.Equal(t, domain.RoundOutcome{}, s.outcome)
	})
}

func TestSession_Disconnects(t *testing.T) {
	t.Run("quorum loss during a round aborts back to LOBBY", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)

		empty := s.Leave("p3")

		assert.False(t, empty)
		assert.Equal(t, domain.PhaseLobby, s.Phase())
	})

	t.Run("departure of a pre-cursor player shifts the cursor down", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol", "dave")
		startRound(t, s)

		// Move the cursor past the first speaker.
		first, _ := s.turns.Current()
		s.AdvanceTurn(first, "done")
		cursorBefore := s.turns.Cursor()
		currentBefore, _ := s.turns.Current()

		s.Leave(first)

		assert.Equal(t, cursorBefore-1, s.turns.Cursor())
		current, ok := s.turns.Current()
		require.True(t, ok)
		assert.Equal(t, currentBefore, current)
	})

	t.Run("departure of the current-turn player advances without double-incrementing", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol", "dave")
		startRound(t, s)

		order := s.turns.Order()
		current, _ := s.turns.Current()
		next := order[1]

		s.Leave(current)

		got, ok := s.turns.Current()
		require.True(t, ok)
		assert.Equal(t, next, got)
		assert.Equal(t, domain.PhasePlaying, s.Phase())
	})

	t.Run("departure of the last speaker mid-turn moves to VOTING", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol", "dave")
		startRound(t, s)

		order := append([]string(nil), s.turns.Order()...)
		for _, id := range order[:len(order)-1] {
			s.AdvanceTurn(id, "done")
		}
		require.Equal(t, domain.PhasePlaying, s.Phase())

		s.Leave(order[len(order)-1])

		assert.Equal(t, domain.PhaseVoting, s.Phase())
	})

	t.Run("a departing voter's vote is retracted", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol", "dave")
		startRound(t, s)
		playThroughTurns(t, s)

		actives := s.roster.Actives()
		voter := actives[0]
		require.NoError(t, s.CastVote(voter.ID, actives[1].ID))
		require.Equal(t, 1, s.tally.VotedCount())

		s.Leave(voter.ID)

		assert.Equal(t, 0, s.tally.VotedCount())
		assert.Empty(t, s.tally.Counts())
	})

	t.Run("departure of the lone non-voter resolves the vote immediately", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol", "dave")
		startRound(t, s)
		playThroughTurns(t, s)

		citizens := citizenIDs(s)
		holdout := citizens[len(citizens)-1]
		require.NoError(t, s.CastVote(citizens[0], s.liarID))
		require.NoError(t, s.CastVote(citizens[1], s.liarID))
		require.NoError(t, s.CastVote(s.liarID, citizens[0]))
		require.Equal(t, domain.PhaseVoting, s.Phase())

		s.Leave(holdout)

		// The remaining three voters already covered everyone.
		assert.Equal(t, domain.PhaseLiarGuess, s.Phase())
	})

	t.Run("liar flight during LIAR_GUESS resolves as citizen victory", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol", "dave")
		startRound(t, s)
		playThroughTurns(t, s)

		for _, p := range s.roster.Actives() {
			target := s.liarID
			if p.ID == s.liarID {
				target = citizenIDs(s)[0]
			}
			require.NoError(t, s.CastVote(p.ID, target))
		}
		require.Equal(t, domain.PhaseLiarGuess, s.Phase())

		s.Leave(s.liarID)

		assert.Equal(t, domain.PhaseResult, s.Phase())
		assert.False(t, s.outcome.GuessSucceeded)
		for _, id := range citizenIDs(s) {
			p, _ := s.roster.Get(id)
			assert.Equal(t, 2, p.Score) // +1 vote, +1 liar flight
		}
	})

	t.Run("liar flight during LIAR_GUESS beats the quorum check in a minimum-size room", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		playThroughTurns(t, s)

		citizens := citizenIDs(s)
		require.NoError(t, s.CastVote(citizens[0], s.liarID))
		require.NoError(t, s.CastVote(citizens[1], s.liarID))
		require.NoError(t, s.CastVote(s.liarID, citizens[0]))
		require.Equal(t, domain.PhaseLiarGuess, s.Phase())

		// Two actives remain, below the minimum, but the round is past
		// its last quorum-dependent step and must still resolve.
		s.Leave(s.liarID)

		assert.Equal(t, domain.PhaseResult, s.Phase())
		assert.False(t, s.outcome.GuessSucceeded)
		for _, id := range citizens {
			p, _ := s.roster.Get(id)
			assert.Equal(t, 2, p.Score) // +1 vote, +1 liar flight
		}
	})

	t.Run("host departure promotes the next joiner", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")

		s.Leave("p1")

		bob, ok := s.roster.Get("p2")
		require.True(t, ok)
		assert.True(t, bob.IsHost)
		assert.True(t, bob.IsReady)
	})
}

func TestSession_Spectators(t *testing.T) {
	t.Run("a mid-round joiner becomes a spectator", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)

		eve, err := s.Join("p4", "eve")

		require.NoError(t, err)
		assert.Equal(t, domain.KindSpectator, eve.Kind)
		assert.Equal(t, 3, s.roster.ActiveCount())
	})

	t.Run("spectator votes are dropped", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		eve, err := s.Join("p4", "eve")
		require.NoError(t, err)
		playThroughTurns(t, s)

		require.NoError(t, s.CastVote(eve.ID, s.liarID))

		assert.Equal(t, 0, s.tally.VotedCount())
	})

	t.Run("spectators become eligible players at the round boundary", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		eve, err := s.Join("p4", "eve")
		require.NoError(t, err)
		playThroughTurns(t, s)

		for _, p := range s.roster.Actives() {
			target := s.liarID
			if p.ID == s.liarID {
				target = citizenIDs(s)[0]
			}
			require.NoError(t, s.CastVote(p.ID, target))
		}
		require.NoError(t, s.SubmitGuess(s.liarID, "wrong"))
		require.Equal(t, domain.PhaseResult, s.Phase())

		assert.Equal(t, domain.KindPlayer, eve.Kind)
		assert.False(t, eve.IsReady)
	})

	t.Run("a spectator departure mid-round does not disturb the turn order", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob", "carol")
		startRound(t, s)
		_, err := s.Join("p4", "eve")
		require.NoError(t, err)

		cursorBefore := s.turns.Cursor()
		s.Leave("p4")

		assert.Equal(t, domain.PhasePlaying, s.Phase())
		assert.Equal(t, cursorBefore, s.turns.Cursor())
	})
}

func TestSession_Join(t *testing.T) {
	t.Run("rejects a duplicate display name", func(t *testing.T) {
		s := newTestSession(t, "alice", "bob")

		_, err := s.Join("p9", "alice")

		assert.ErrorIs(t, err, domain.ErrDuplicateName)
	})

	t.Run("rejects joins beyond room capacity", func(t *testing.T) {
		rules := DefaultRules()
		rules.MaxPlayers = 2
		s := NewSession("room", words.Default(), rules, rand.New(rand.NewSource(1)), testLogger())
		t.Cleanup(s.Close)

		_, err := s.Join("p1", "alice")
		require.NoError(t, err)
		_, err = s.Join("p2", "bob")
		require.NoError(t, err)

		_, err = s.Join("p3", "carol")
		assert.ErrorIs(t, err, domain.ErrRoomFull)
	})
}
