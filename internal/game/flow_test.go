package game

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/sketchroom/internal"
)

func TestJoinAndStartScenario(t *testing.T) {
	reg, rec := newTestRegistry(t)

	_, err := reg.CreateRoom("ABCD", "Alice", "alice")
	require.NoError(t, err)
	_, err = reg.JoinRoom("ABCD", "Bob", "bob")
	require.NoError(t, err)

	assert.Equal(t, "ABCD", dataOf[internal.RoomCreatedData](t, rec.last(t, "alice", internal.EventRoomCreated)).RoomID)
	for _, id := range []string{"alice", "bob"} {
		joined := dataOf[internal.MembershipData](t, rec.last(t, id, internal.EventUserJoined))
		assert.Len(t, joined.Players, 2)
	}
	history := dataOf[internal.RoomHistoryData](t, rec.last(t, "bob", internal.EventRoomHistory))
	assert.Len(t, history.Players, 2)

	require.NoError(t, reg.StartGame("ABCD", "bob"))

	started := dataOf[internal.GameStartedData](t, rec.last(t, "alice", internal.EventGameStarted))
	assert.Contains(t, []string{"alice", "bob"}, started.CurrentDrawer)
	assert.Equal(t, internal.StateWordSelection, stateOf(t, reg, "ABCD"))

	drawer := started.CurrentDrawer
	other := guessersOf([]string{"alice", "bob"}, drawer)[0]

	offer := dataOf[internal.SelectWordData](t, rec.last(t, drawer, internal.EventSelectWord))
	assert.Len(t, offer.Words, 3)
	assert.Contains(t, offer.Words, "cat")
	assert.Equal(t, 3, offer.TimeLeft)
	assert.Empty(t, rec.messages(other, internal.EventSelectWord))

	require.NoError(t, reg.SelectWord("ABCD", drawer, "cat"))

	assert.Equal(t, "cat", dataOf[internal.StartDrawingData](t, rec.last(t, drawer, internal.EventStartDrawing)).Word)
	assert.Equal(t, 3, dataOf[internal.DrawingStartedData](t, rec.last(t, other, internal.EventDrawingStarted)).WordLength)
	assert.Empty(t, rec.messages(other, internal.EventStartDrawing))
	assert.Empty(t, rec.messages(drawer, internal.EventDrawingStarted))
	assert.Equal(t, internal.StateDrawing, stateOf(t, reg, "ABCD"))
}

func TestGuessScoring(t *testing.T) {
	reg, rec := newTestRegistry(t)
	players := []string{"alice", "bob", "carol"}
	drawer := drawingRoom(t, reg, "room1", players...)
	guessers := guessersOf(players, drawer)

	inspect(t, reg, "room1", func(room *internal.Room) { room.RoundTimeLeft = 40 })

	require.NoError(t, reg.SendMessage("room1", guessers[0], internal.ChatMessage{Text: "CAT"}))
	assert.Equal(t, 70, scoreOf(t, reg, "room1", guessers[0]))
	assert.Equal(t, internal.StateDrawing, stateOf(t, reg, "room1"))

	require.NoError(t, reg.SendMessage("room1", guessers[1], internal.ChatMessage{Text: " cat "}))
	assert.Equal(t, 45, scoreOf(t, reg, "room1", guessers[1]))

	// every guesser is in, so the round closed without the timer
	assert.Equal(t, internal.StateRoundEnd, stateOf(t, reg, "room1"))
	assert.Equal(t, DrawerScore(2), scoreOf(t, reg, "room1", drawer))

	ended := dataOf[internal.RoundEndedData](t, rec.last(t, drawer, internal.EventRoundEnded))
	assert.Equal(t, "cat", ended.Word)
	assert.Equal(t, guessers, ended.CorrectGuessers)
	assert.Equal(t, 2, ended.NextRoundIn)

	// the literal guess is never relayed as chat
	for _, p := range players {
		for _, msg := range rec.messages(p, internal.EventReceiveMessage) {
			chat := dataOf[internal.ChatMessage](t, msg)
			assert.True(t, chat.System, "unexpected relayed chat %+v", chat)
		}
	}
}

func TestEarlyRoundEnd(t *testing.T) {
	reg, _ := newTestRegistry(t)
	drawer := drawingRoom(t, reg, "solo", "alice", "bob")
	guesser := guessersOf([]string{"alice", "bob"}, drawer)[0]

	var before int
	inspect(t, reg, "solo", func(room *internal.Room) { before = room.RoundTimeLeft })
	require.Equal(t, 9, before)

	require.NoError(t, reg.SendMessage("solo", guesser, internal.ChatMessage{Text: "cat"}))

	inspect(t, reg, "solo", func(room *internal.Room) {
		assert.Equal(t, internal.StateRoundEnd, room.State)
		assert.Equal(t, 2, room.RoundTimeLeft)
		assert.Empty(t, room.CurrentWord)
		assert.Nil(t, room.Hint)
	})
}

func TestCorrectGuessersIsASet(t *testing.T) {
	reg, rec := newTestRegistry(t)
	players := []string{"alice", "bob", "carol"}
	drawer := drawingRoom(t, reg, "set", players...)
	guesser := guessersOf(players, drawer)[0]

	require.NoError(t, reg.SendMessage("set", guesser, internal.ChatMessage{Text: "cat"}))
	first := scoreOf(t, reg, "set", guesser)

	require.NoError(t, reg.SendMessage("set", guesser, internal.ChatMessage{Text: "cat"}))
	assert.Equal(t, first, scoreOf(t, reg, "set", guesser))

	inspect(t, reg, "set", func(room *internal.Room) {
		assert.Equal(t, []string{guesser}, room.CorrectGuessers)
	})

	// an already-scored guess relays like any chat line
	relayed := dataOf[internal.ChatMessage](t, rec.last(t, drawer, internal.EventReceiveMessage))
	assert.False(t, relayed.System)
	assert.Equal(t, "cat", relayed.Text)
	assert.Equal(t, guesser, relayed.Sender)
}

func TestDrawerCannotGuess(t *testing.T) {
	reg, _ := newTestRegistry(t)
	drawer := drawingRoom(t, reg, "cheat", "alice", "bob")

	require.NoError(t, reg.SendMessage("cheat", drawer, internal.ChatMessage{Text: "cat"}))
	assert.Equal(t, 0, scoreOf(t, reg, "cheat", drawer))
	assert.Equal(t, internal.StateDrawing, stateOf(t, reg, "cheat"))
}

func TestChatOutsideDrawingIsRelayed(t *testing.T) {
	reg, rec := newTestRegistry(t)
	_, err := reg.CreateRoom("chat", "alice", "alice")
	require.NoError(t, err)
	_, err = reg.JoinRoom("chat", "bob", "bob")
	require.NoError(t, err)

	require.NoError(t, reg.SendMessage("chat", "alice", internal.ChatMessage{Sender: "mallory", Text: "hello", Time: "10:00"}))

	msg := dataOf[internal.ChatMessage](t, rec.last(t, "bob", internal.EventReceiveMessage))
	assert.Equal(t, internal.ChatMessage{Sender: "alice", Text: "hello", Time: "10:00"}, msg)

	// blank lines are ignored
	rec.reset()
	require.NoError(t, reg.SendMessage("chat", "alice", internal.ChatMessage{Text: "   "}))
	assert.Empty(t, rec.messages("bob", internal.EventReceiveMessage))
}

func TestDrawerRotationVisitsEveryoneOnce(t *testing.T) {
	archive := &mockArchive{}
	saved := make(chan internal.GameResult, 1)
	archive.On("SaveGame", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved <- args.Get(1).(internal.GameResult) }).
		Return(nil)

	reg, rec := newTestRegistry(t, WithArchive(archive))
	players := []string{"alice", "bob", "carol"}
	startedRoom(t, reg, "rot", players...)

	var drawers []string
	for round := 0; round < len(players); round++ {
		require.Equal(t, internal.StateWordSelection, stateOf(t, reg, "rot"), "round %d", round)
		drawer := drawerOf(t, reg, "rot")
		drawers = append(drawers, drawer)

		require.NoError(t, reg.SelectWord("rot", drawer, "giraffe"))
		advance(t, reg, "rot", 9)
		require.Equal(t, internal.StateRoundEnd, stateOf(t, reg, "rot"))
		advance(t, reg, "rot", 2)
	}

	assert.ElementsMatch(t, players, drawers)
	assert.Equal(t, internal.StateGameEnd, stateOf(t, reg, "rot"))

	ended := dataOf[internal.GameEndedData](t, rec.last(t, "alice", internal.EventGameEnded))
	require.NotNil(t, ended.Winner)
	assert.Len(t, ended.Players, 3)

	select {
	case result := <-saved:
		assert.Equal(t, "rot", result.RoomID)
		assert.Equal(t, 3, result.Rounds)
	case <-time.After(2 * time.Second):
		t.Fatal("game result was not archived")
	}

	advance(t, reg, "rot", 2)
	inspect(t, reg, "rot", func(room *internal.Room) {
		assert.Equal(t, internal.StateLobby, room.State)
		assert.Empty(t, room.CurrentDrawer)
		assert.Nil(t, room.Timer)
		for _, p := range room.Players {
			assert.Zero(t, p.Score)
		}
	})
	assert.NotEmpty(t, rec.messages("carol", internal.EventReturnToLobby))
}

func TestRejoiningGuesserKeepsSingleTurn(t *testing.T) {
	reg, _ := newTestRegistry(t)
	startedRoom(t, reg, "back", "alice", "bob", "carol")

	var order []string
	inspect(t, reg, "back", func(room *internal.Room) {
		order = append(order, room.DrawOrder...)
	})
	returning := order[len(order)-1]

	reg.RemovePlayer("back", returning)
	_, err := reg.JoinRoom("back", returning, returning)
	require.NoError(t, err)

	inspect(t, reg, "back", func(room *internal.Room) {
		assert.Equal(t, order, room.DrawOrder)
	})

	turns := make(map[string]int)
	for round := 0; round < 6 && stateOf(t, reg, "back") != internal.StateGameEnd; round++ {
		require.Equal(t, internal.StateWordSelection, stateOf(t, reg, "back"), "round %d", round)
		drawer := drawerOf(t, reg, "back")
		turns[drawer]++

		require.NoError(t, reg.SelectWord("back", drawer, "giraffe"))
		advance(t, reg, "back", 9)
		advance(t, reg, "back", 2)
	}

	assert.Equal(t, internal.StateGameEnd, stateOf(t, reg, "back"))
	assert.Equal(t, map[string]int{"alice": 1, "bob": 1, "carol": 1}, turns)
}

func TestWordSelectionTimeout(t *testing.T) {
	reg, rec := newTestRegistry(t)
	startedRoom(t, reg, "slow", "alice", "bob")
	drawer := drawerOf(t, reg, "slow")

	advance(t, reg, "slow", 3)

	inspect(t, reg, "slow", func(room *internal.Room) {
		assert.Equal(t, internal.StateDrawing, room.State)
		assert.Contains(t, []string{"cat", "giraffe", "lighthouse"}, room.CurrentWord)
		assert.Empty(t, room.WordOptions)
	})
	assert.NotEmpty(t, rec.messages(drawer, internal.EventStartDrawing))
}

func TestPhaseErrors(t *testing.T) {
	reg, _ := newTestRegistry(t)
	startedRoom(t, reg, "err", "alice", "bob")
	drawer := drawerOf(t, reg, "err")
	other := guessersOf([]string{"alice", "bob"}, drawer)[0]

	assert.ErrorIs(t, reg.StartGame("err", "alice"), internal.ErrInvalidPhase)
	assert.ErrorIs(t, reg.SelectWord("err", other, "cat"), internal.ErrInvalidActor)
	assert.ErrorIs(t, reg.SelectWord("err", drawer, "dinosaur"), internal.ErrInvalidWord)
	assert.ErrorIs(t, reg.ClearCanvas("err", other), internal.ErrInvalidActor)

	err := reg.SelectWord("err", "stranger", "cat")
	assert.ErrorIs(t, err, internal.ErrNotInRoom)
	assert.True(t, errors.Is(err, internal.ErrInvalidActor))

	assert.ErrorIs(t, reg.SelectWord("missing", drawer, "cat"), internal.ErrRoomNotFound)

	require.NoError(t, reg.SelectWord("err", drawer, "Cat"))
	assert.ErrorIs(t, reg.SelectWord("err", drawer, "cat"), internal.ErrInvalidPhase)
}

func TestDrawerLeavesMidRound(t *testing.T) {
	reg, rec := newTestRegistry(t)
	players := []string{"alice", "bob", "carol"}
	drawer := drawingRoom(t, reg, "gone", players...)
	remaining := guessersOf(players, drawer)

	reg.RemovePlayer("gone", drawer)

	inspect(t, reg, "gone", func(room *internal.Room) {
		assert.Equal(t, internal.StateRoundEnd, room.State)
		assert.Empty(t, room.CurrentDrawer)
		assert.Len(t, room.Players, 2)
	})
	left := dataOf[internal.MembershipData](t, rec.last(t, remaining[0], internal.EventUserLeft))
	assert.Len(t, left.Players, 2)

	advance(t, reg, "gone", 2)
	assert.Equal(t, internal.StateWordSelection, stateOf(t, reg, "gone"))
	assert.Contains(t, remaining, drawerOf(t, reg, "gone"))
}

func TestGuesserLeavingCanEndRound(t *testing.T) {
	reg, _ := newTestRegistry(t)
	players := []string{"alice", "bob", "carol"}
	drawer := drawingRoom(t, reg, "leave", players...)
	guessers := guessersOf(players, drawer)

	require.NoError(t, reg.SendMessage("leave", guessers[0], internal.ChatMessage{Text: "cat"}))
	require.Equal(t, internal.StateDrawing, stateOf(t, reg, "leave"))

	reg.RemovePlayer("leave", guessers[1])
	assert.Equal(t, internal.StateRoundEnd, stateOf(t, reg, "leave"))
}

func TestLateJoinerGetsCurrentRound(t *testing.T) {
	reg, rec := newTestRegistry(t)
	drawer := drawingRoom(t, reg, "late", "alice", "bob")

	_, err := reg.JoinRoom("late", "dave", "dave")
	require.NoError(t, err)

	started := dataOf[internal.DrawingStartedData](t, rec.last(t, "dave", internal.EventDrawingStarted))
	assert.Equal(t, drawer, started.Drawer)
	assert.Equal(t, "_ _ _", dataOf[internal.WordHintData](t, rec.last(t, "dave", internal.EventWordHint)).Hint)
	assert.Equal(t, internal.StateDrawing, dataOf[internal.TimerUpdateData](t, rec.last(t, "dave", internal.EventTimerUpdate)).State)

	inspect(t, reg, "late", func(room *internal.Room) {
		assert.Equal(t, "dave", room.DrawOrder[len(room.DrawOrder)-1])
	})
}
