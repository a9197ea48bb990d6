package entity

import (
	"testing"

	"github.com/codeduelhq/codeduel-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeRoom(t *testing.T) *Room {
	t.Helper()

	room := NewRoom("TEST", 3)
	require.NoError(t, room.AddPlayer(&Player{ID: "p1", Name: "Alice"}))
	require.NoError(t, room.AddPlayer(&Player{ID: "p2", Name: "Bob"}))
	require.NoError(t, room.CommitSecret("p1", "123"))
	require.NoError(t, room.CommitSecret("p2", "456"))
	room.Start()

	return room
}

func TestNewRoom(t *testing.T) {
	t.Run("Starts in the lobby phase with the given code length", func(t *testing.T) {
		// When: creating a room
		room := NewRoom("AB23", 5)

		// Then: it should be an empty lobby
		assert.True(t, room.IsLobby())
		assert.True(t, room.IsEmpty())
		assert.Equal(t, 5, room.CodeLength)
	})

	t.Run("Falls back to the default code length when none is given", func(t *testing.T) {
		// When: creating a room without a code length
		room := NewRoom("AB23", 0)

		// Then: the default should apply
		assert.Equal(t, DefaultCodeLength, room.CodeLength)
	})
}

func TestRoom_AddPlayer(t *testing.T) {
	t.Run("Rejects a third player", func(t *testing.T) {
		// Given: a room with two players
		room := NewRoom("TEST", 3)
		require.NoError(t, room.AddPlayer(&Player{ID: "p1"}))
		require.NoError(t, room.AddPlayer(&Player{ID: "p2"}))

		// When: a third player joins
		err := room.AddPlayer(&Player{ID: "p3"})

		// Then: the join should fail with ErrRoomFull
		assert.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Len(t, room.Players, 2)
	})
}

func TestRoom_RemovePlayer(t *testing.T) {
	t.Run("Removes a member and returns it", func(t *testing.T) {
		// Given: a room with two players
		room := activeRoom(t)

		// When: removing one of them
		removed := room.RemovePlayer("p1")

		// Then: the player is gone and returned
		require.NotNil(t, removed)
		assert.Equal(t, "p1", removed.ID)
		assert.Nil(t, room.PlayerByID("p1"))
		assert.Len(t, room.Players, 1)
	})

	t.Run("Removing an already removed participant has no effect", func(t *testing.T) {
		// Given: a room from which p1 was already removed
		room := activeRoom(t)
		require.NotNil(t, room.RemovePlayer("p1"))

		// When: removing the same id again
		removed := room.RemovePlayer("p1")

		// Then: nothing changes
		assert.Nil(t, removed)
		assert.Len(t, room.Players, 1)
	})
}

func TestRoom_ValidCode(t *testing.T) {
	room := NewRoom("TEST", 3)

	t.Run("Accepts exactly codeLength digits", func(t *testing.T) {
		assert.True(t, room.ValidCode("456"))
	})

	t.Run("Rejects wrong length", func(t *testing.T) {
		assert.False(t, room.ValidCode("45"))
		assert.False(t, room.ValidCode("4567"))
		assert.False(t, room.ValidCode(""))
	})

	t.Run("Rejects non-digit characters", func(t *testing.T) {
		assert.False(t, room.ValidCode("45a"))
		assert.False(t, room.ValidCode("4 6"))
	})
}

func TestRoom_CommitSecret(t *testing.T) {
	t.Run("Stores the secret and marks the player ready", func(t *testing.T) {
		// Given: a lobby with one player
		room := NewRoom("TEST", 3)
		require.NoError(t, room.AddPlayer(&Player{ID: "p1"}))

		// When: committing a valid secret
		err := room.CommitSecret("p1", "123")

		// Then: the player holds the secret and is ready
		require.NoError(t, err)
		assert.Equal(t, "123", room.PlayerByID("p1").Secret)
		assert.True(t, room.PlayerByID("p1").Ready)
	})

	t.Run("Rejects a secret from an unknown participant", func(t *testing.T) {
		// Given: a room without p9
		room := NewRoom("TEST", 3)

		// When: p9 commits a secret
		err := room.CommitSecret("p9", "123")

		// Then: the commit should fail
		assert.ErrorIs(t, err, apperror.ErrUnknownParticipant)
	})

	t.Run("Rejects a malformed secret", func(t *testing.T) {
		// Given: a lobby with one player
		room := NewRoom("TEST", 3)
		require.NoError(t, room.AddPlayer(&Player{ID: "p1"}))

		// When: committing a secret of the wrong shape
		err := room.CommitSecret("p1", "12x")

		// Then: the commit should fail and the player stays not ready
		assert.ErrorIs(t, err, apperror.ErrInvalidCode)
		assert.False(t, room.PlayerByID("p1").Ready)
	})
}

func TestRoom_Start(t *testing.T) {
	t.Run("Activates the room and hands the turn to one of the players", func(t *testing.T) {
		// Given: a lobby with both players ready
		room := NewRoom("TEST", 3)
		require.NoError(t, room.AddPlayer(&Player{ID: "p1"}))
		require.NoError(t, room.AddPlayer(&Player{ID: "p2"}))
		require.NoError(t, room.CommitSecret("p1", "123"))
		require.NoError(t, room.CommitSecret("p2", "456"))
		require.True(t, room.AllReady())

		// When: starting the game
		room.Start()

		// Then: the room is active and exactly one member holds the turn
		assert.True(t, room.IsActive())
		assert.Contains(t, []string{"p1", "p2"}, room.Turn)
	})
}

func TestRoom_ApplyGuess(t *testing.T) {
	t.Run("Counts only exact position matches", func(t *testing.T) {
		// Given: an active room where the guesser faces secret "456"
		room := activeRoom(t)
		room.Turn = "p1" // p2 holds "456"

		// When/Then: scoring is positional only
		correct, err := room.ApplyGuess("p1", "455")
		require.NoError(t, err)
		assert.Equal(t, 2, correct)

		room.Turn = "p1"
		correct, err = room.ApplyGuess("p1", "654")
		require.NoError(t, err)
		assert.Equal(t, 0, correct)
	})

	t.Run("A full match finishes the game and records the winner", func(t *testing.T) {
		// Given: an active room where p1 guesses
		room := activeRoom(t)
		room.Turn = "p1"

		// When: p1 submits the opponent's exact secret
		correct, err := room.ApplyGuess("p1", "456")

		// Then: the game is over, p1 won, nobody holds the turn
		require.NoError(t, err)
		assert.Equal(t, 3, correct)
		assert.True(t, room.IsFinished())
		assert.Equal(t, "p1", room.Winner)
		assert.Empty(t, room.Turn)
	})

	t.Run("A wrong guess passes the turn to the opponent", func(t *testing.T) {
		// Given: an active room where p1 guesses
		room := activeRoom(t)
		room.Turn = "p1"

		// When: p1 guesses wrong
		_, err := room.ApplyGuess("p1", "999")

		// Then: the turn belongs to p2 and the game goes on
		require.NoError(t, err)
		assert.True(t, room.IsActive())
		assert.Equal(t, "p2", room.Turn)
	})

	t.Run("Rejects a guess out of turn", func(t *testing.T) {
		// Given: an active room where it is p1's turn
		room := activeRoom(t)
		room.Turn = "p1"

		// When: p2 guesses anyway
		_, err := room.ApplyGuess("p2", "123")

		// Then: the guess should fail with ErrNotYourTurn
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, "p1", room.Turn)
	})

	t.Run("Rejects a guess while the room is not active", func(t *testing.T) {
		// Given: a lobby
		room := NewRoom("TEST", 3)
		require.NoError(t, room.AddPlayer(&Player{ID: "p1"}))

		// When: p1 guesses before the game started
		_, err := room.ApplyGuess("p1", "123")

		// Then: the guess should fail with ErrRoomNotActive
		assert.ErrorIs(t, err, apperror.ErrRoomNotActive)
	})

	t.Run("Rejects a malformed guess without touching the turn", func(t *testing.T) {
		// Given: an active room where it is p1's turn
		room := activeRoom(t)
		room.Turn = "p1"

		// When: p1 submits a guess of the wrong shape
		_, err := room.ApplyGuess("p1", "45")

		// Then: the guess should fail and the turn stays with p1
		assert.ErrorIs(t, err, apperror.ErrInvalidCode)
		assert.Equal(t, "p1", room.Turn)
	})

	t.Run("Rejects a guess from a removed participant", func(t *testing.T) {
		// Given: an active room whose turn holder left
		room := activeRoom(t)
		room.Turn = "p1"
		room.RemovePlayer("p1")

		// When: the removed id guesses
		_, err := room.ApplyGuess("p1", "456")

		// Then: the id no longer resolves to a player
		assert.ErrorIs(t, err, apperror.ErrUnknownParticipant)
	})

	t.Run("The phase never leaves finished", func(t *testing.T) {
		// Given: a finished room
		room := activeRoom(t)
		room.Turn = "p1"
		_, err := room.ApplyGuess("p1", "456")
		require.NoError(t, err)
		require.True(t, room.IsFinished())

		// When: further actions arrive
		_, guessErr := room.ApplyGuess("p2", "123")
		skipErr := room.SkipTurn("p2")
		_, _, expired := room.ExpireTurn()

		// Then: everything bounces off and the winner is unchanged
		assert.ErrorIs(t, guessErr, apperror.ErrRoomNotActive)
		assert.ErrorIs(t, skipErr, apperror.ErrRoomNotActive)
		assert.False(t, expired)
		assert.Equal(t, "p1", room.Winner)
		assert.True(t, room.IsFinished())
	})
}

func TestRoom_SkipTurn(t *testing.T) {
	t.Run("Passes the turn to the opponent", func(t *testing.T) {
		// Given: an active room where it is p1's turn
		room := activeRoom(t)
		room.Turn = "p1"

		// When: p1 skips
		err := room.SkipTurn("p1")

		// Then: p2 holds the turn
		require.NoError(t, err)
		assert.Equal(t, "p2", room.Turn)
	})

	t.Run("Rejects a skip out of turn", func(t *testing.T) {
		// Given: an active room where it is p1's turn
		room := activeRoom(t)
		room.Turn = "p1"

		// When: p2 skips
		err := room.SkipTurn("p2")

		// Then: the skip should fail with ErrNotYourTurn
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, "p1", room.Turn)
	})
}

func TestRoom_ExpireTurn(t *testing.T) {
	t.Run("Forfeits the current turn", func(t *testing.T) {
		// Given: an active room where it is p1's turn
		room := activeRoom(t)
		room.Turn = "p1"

		// When: the turn expires
		expiredID, nextID, ok := room.ExpireTurn()

		// Then: p1 forfeited and p2 is up
		require.True(t, ok)
		assert.Equal(t, "p1", expiredID)
		assert.Equal(t, "p2", nextID)
		assert.Equal(t, "p2", room.Turn)
	})

	t.Run("Does nothing once a player has left", func(t *testing.T) {
		// Given: an active room with a single remaining player
		room := activeRoom(t)
		room.RemovePlayer("p2")

		// When: the turn expires
		_, _, ok := room.ExpireTurn()

		// Then: there is nobody to hand the turn to
		assert.False(t, ok)
	})
}

func TestRoom_TurnPermutation(t *testing.T) {
	t.Run("While active the turn always belongs to exactly one member", func(t *testing.T) {
		// Given: an active room
		room := activeRoom(t)

		// When: turns are swapped repeatedly by guesses, skips and expiries
		for i := 0; i < 10; i++ {
			holder := room.PlayerByID(room.Turn)
			require.NotNil(t, holder, "turn holder must be a member")

			require.NoError(t, room.SkipTurn(room.Turn))
		}

		// Then: the invariant held throughout (assertions above)
		assert.True(t, room.IsActive())
	})
}
