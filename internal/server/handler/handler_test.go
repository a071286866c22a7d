package handler

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/uno-arena/internal/game/engine"
	"github.com/palemoky/uno-arena/internal/game/room"
	"github.com/palemoky/uno-arena/internal/protocol"
	"github.com/palemoky/uno-arena/internal/server/admin"
	"github.com/palemoky/uno-arena/internal/testutil"
)

type testEnv struct {
	handler  *Handler
	server   *testutil.SimpleServer
	rooms    *room.Manager
	admins   *admin.Manager
	gameRoom *room.Room
	alice    *testutil.SimpleClient
	bob      *testutil.SimpleClient
}

// newTestEnv builds a two-player room with both players bound
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	srv := testutil.NewSimpleServer()
	rooms := room.NewManager(nil, engine.Options{MinPlayers: 2, StartingHand: 7}, 8, 30*time.Minute)
	admins := admin.NewManager()

	h := NewHandler(Deps{
		Server:       srv,
		RoomManager:  rooms,
		AdminManager: admins,
	})

	r, aliceID, err := rooms.CreateRoom("Alice", "")
	require.NoError(t, err)
	bobID, err := rooms.JoinRoom(r.Code, "Bob", "")
	require.NoError(t, err)

	alice := &testutil.SimpleClient{ID: aliceID, Name: "Alice"}
	bob := &testutil.SimpleClient{ID: bobID, Name: "Bob"}
	require.NoError(t, r.Bind(aliceID, alice))
	require.NoError(t, r.Bind(bobID, bob))
	srv.Clients[aliceID] = alice
	srv.Clients[bobID] = bob

	return &testEnv{
		handler:  h,
		server:   srv,
		rooms:    rooms,
		admins:   admins,
		gameRoom: r,
		alice:    alice,
		bob:      bob,
	}
}

// newAdminClient seats an authenticated admin session in the environment
func (env *testEnv) newAdminClient() (*testutil.SimpleClient, *admin.Session) {
	session := env.admins.CreateSession()
	client := &testutil.SimpleClient{ID: session.ID, Name: "admin", Admin: true}
	env.server.Clients[session.ID] = client
	return client, session
}

func rawMessage(t *testing.T, msgType protocol.MessageType, payload string) *protocol.Message {
	t.Helper()
	return &protocol.Message{Type: msgType, Payload: json.RawMessage(payload)}
}

func TestHandle_UnknownTypeRepliesError(t *testing.T) {
	env := newTestEnv(t)

	env.handler.Handle(env.alice, &protocol.Message{Type: "teleport"})

	last := env.alice.LastMessage()
	require.NotNil(t, last)
	assert.Equal(t, protocol.MsgError, last.Type)
	assert.False(t, env.alice.Closed, "unknown messages must not drop the connection")
}

func TestHandle_MalformedPayloadLeavesStateUntouched(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.gameRoom.StartGame(env.alice.ID))
	handBefore := len(env.gameRoom.Game.PlayerByID(env.alice.ID).Hand)

	env.handler.Handle(env.alice, rawMessage(t, protocol.MsgPlay, `{"cardIndex":"not-a-number"}`))

	last := env.alice.LastMessage()
	require.NotNil(t, last)
	assert.Equal(t, protocol.MsgError, last.Type)
	assert.False(t, env.alice.Closed)
	assert.Len(t, env.gameRoom.Game.PlayerByID(env.alice.ID).Hand, handBefore)
}

func TestHandle_PingPong(t *testing.T) {
	env := newTestEnv(t)

	env.handler.Handle(env.alice, rawMessage(t, protocol.MsgPing, `{"timestamp":12345}`))

	last := env.alice.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, protocol.MsgPong, last.Type)
	payload, err := protocol.ParsePayload[protocol.PongPayload](last)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), payload.ClientTimestamp)
}

func TestHandle_StartGameBroadcastsScopedState(t *testing.T) {
	env := newTestEnv(t)

	env.handler.Handle(env.alice, &protocol.Message{Type: protocol.MsgStartGame})

	// Both players received a state push with only their own hand
	for _, c := range []*testutil.SimpleClient{env.alice, env.bob} {
		states := c.MessagesOfType(protocol.MsgState)
		require.NotEmpty(t, states, "client %s got no state push", c.Name)
		payload, err := protocol.ParsePayload[protocol.StatePayload](states[len(states)-1])
		require.NoError(t, err)
		assert.Equal(t, c.ID, payload.YourPlayerID)
		assert.Len(t, payload.GameState.Hand, 7)
		for _, p := range payload.GameState.Players {
			assert.Equal(t, 7, p.CardCount)
		}
	}
}

func TestHandle_StartGameNotHost(t *testing.T) {
	env := newTestEnv(t)

	env.handler.Handle(env.bob, &protocol.Message{Type: protocol.MsgStartGame})

	last := env.bob.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, protocol.MsgError, last.Type)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](last)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotHost, payload.Code)
}

func TestHandle_DrawResultOnlyToDrawer(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.gameRoom.StartGame(env.alice.ID))
	env.gameRoom.Game.CurrentPlayerIndex = 0

	env.handler.Handle(env.alice, &protocol.Message{Type: protocol.MsgDraw})

	drawn := env.alice.MessagesOfType(protocol.MsgCardDrawn)
	require.Len(t, drawn, 1)
	payload, err := protocol.ParsePayload[protocol.CardDrawnPayload](drawn[0])
	require.NoError(t, err)
	assert.Len(t, payload.Cards, 1)
	assert.False(t, payload.Forced)

	assert.Empty(t, env.bob.MessagesOfType(protocol.MsgCardDrawn), "the drawn card leaks to nobody else")
}

func TestHandle_AdminCommandFromPlayerRejected(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.gameRoom.StartGame(env.alice.ID))
	before := len(env.gameRoom.Game.PlayerByID(env.bob.ID).Hand)

	env.handler.Handle(env.alice, rawMessage(t, protocol.MsgAdminGiveCard, `{"playerId":"`+env.bob.ID+`"}`))

	last := env.alice.LastMessage()
	require.NotNil(t, last)
	assert.Equal(t, protocol.MsgError, last.Type)
	assert.Len(t, env.gameRoom.Game.PlayerByID(env.bob.ID).Hand, before)
}

func TestHandle_AdminPowerGating(t *testing.T) {
	env := newTestEnv(t)
	adminClient, session := env.newAdminClient()
	session.Watch(env.gameRoom.Code)

	// Every power is off by default: the command must fail
	env.handler.Handle(adminClient, &protocol.Message{Type: protocol.MsgAdminForceStart})

	last := adminClient.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, protocol.MsgAdminResult, last.Type)
	payload, err := protocol.ParsePayload[protocol.AdminResultPayload](last)
	require.NoError(t, err)
	assert.False(t, payload.Success)
	assert.Equal(t, protocol.ErrCodePowerNotEnabled, payload.Code)
	assert.Equal(t, engine.StatusLobby, env.gameRoom.Game.Status)

	// After enabling roomControl the same command goes through
	env.handler.Handle(adminClient, rawMessage(t, protocol.MsgAdminTogglePower, `{"power":"roomControl"}`))
	env.handler.Handle(adminClient, &protocol.Message{Type: protocol.MsgAdminForceStart})

	results := adminClient.MessagesOfType(protocol.MsgAdminResult)
	lastResult, err := protocol.ParsePayload[protocol.AdminResultPayload](results[len(results)-1])
	require.NoError(t, err)
	assert.True(t, lastResult.Success)
	assert.Equal(t, engine.StatusPlaying, env.gameRoom.Game.Status)
}

func TestHandle_AdminPowerMapping(t *testing.T) {
	// Pins which power unlocks each mutating admin command
	cases := []struct {
		msgType protocol.MessageType
		payload string
		power   string
	}{
		{protocol.MsgAdminGiveCard, `{"playerId":"%s"}`, admin.PowerManipulateCards},
		{protocol.MsgAdminRemoveCard, `{"playerId":"%s","cardIndex":0}`, admin.PowerManipulateCards},
		{protocol.MsgAdminSetTopCard, `{"card":{"type":"number","color":"red","value":5}}`, admin.PowerManipulateCards},
		{protocol.MsgAdminForceDraw, `{"playerId":"%s","count":1}`, admin.PowerControlTurns},
		{protocol.MsgAdminSkipTurn, ``, admin.PowerControlTurns},
		{protocol.MsgAdminReverseDirection, ``, admin.PowerControlTurns},
		{protocol.MsgAdminSetCurrentPlayer, `{"playerId":"%s"}`, admin.PowerControlTurns},
		{protocol.MsgAdminEndGame, ``, admin.PowerRoomControl},
	}

	for _, tc := range cases {
		t.Run(string(tc.msgType), func(t *testing.T) {
			env := newTestEnv(t)
			require.NoError(t, env.gameRoom.StartGame(env.alice.ID))
			adminClient, session := env.newAdminClient()
			session.Watch(env.gameRoom.Code)

			payload := tc.payload
			if strings.Contains(payload, "%s") {
				payload = fmt.Sprintf(payload, env.bob.ID)
			}
			msg := &protocol.Message{Type: tc.msgType}
			if payload != "" {
				msg.Payload = json.RawMessage(payload)
			}

			// Without the power the command is refused
			env.handler.Handle(adminClient, msg)
			results := adminClient.MessagesOfType(protocol.MsgAdminResult)
			require.NotEmpty(t, results)
			denied, err := protocol.ParsePayload[protocol.AdminResultPayload](results[len(results)-1])
			require.NoError(t, err)
			assert.False(t, denied.Success)
			assert.Equal(t, protocol.ErrCodePowerNotEnabled, denied.Code)

			// Enabling an unrelated power must not unlock it
			other := admin.PowerSeeAllHands
			_, ok := session.TogglePower(other)
			require.True(t, ok)
			env.handler.Handle(adminClient, msg)
			results = adminClient.MessagesOfType(protocol.MsgAdminResult)
			stillDenied, err := protocol.ParsePayload[protocol.AdminResultPayload](results[len(results)-1])
			require.NoError(t, err)
			assert.False(t, stillDenied.Success)

			// The mapped power unlocks it
			_, ok = session.TogglePower(tc.power)
			require.True(t, ok)
			env.handler.Handle(adminClient, msg)
			results = adminClient.MessagesOfType(protocol.MsgAdminResult)
			granted, err := protocol.ParsePayload[protocol.AdminResultPayload](results[len(results)-1])
			require.NoError(t, err)
			assert.True(t, granted.Success, "power %s must unlock %s", tc.power, tc.msgType)
		})
	}
}

func TestHandle_AdminWatchRoomPushesState(t *testing.T) {
	env := newTestEnv(t)
	adminClient, _ := env.newAdminClient()

	env.handler.Handle(adminClient, rawMessage(t, protocol.MsgAdminWatchRoom, `{"roomCode":"`+env.gameRoom.Code+`"}`))

	states := adminClient.MessagesOfType(protocol.MsgAdminRoomState)
	require.Len(t, states, 1)
	payload, err := protocol.ParsePayload[protocol.AdminRoomStatePayload](states[0])
	require.NoError(t, err)
	assert.Equal(t, env.gameRoom.Code, payload.Room.RoomCode)

	// No hands without seeAllHands
	assert.Empty(t, adminClient.MessagesOfType(protocol.MsgAdminAllHands))
}

func TestHandle_SeeAllHandsTogglePushesHands(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.gameRoom.StartGame(env.alice.ID))
	adminClient, session := env.newAdminClient()
	session.Watch(env.gameRoom.Code)

	env.handler.Handle(adminClient, rawMessage(t, protocol.MsgAdminTogglePower, `{"power":"seeAllHands"}`))

	hands := adminClient.MessagesOfType(protocol.MsgAdminAllHands)
	require.Len(t, hands, 1, "enabling seeAllHands must push hands immediately")
	payload, err := protocol.ParsePayload[protocol.AdminAllHandsPayload](hands[0])
	require.NoError(t, err)
	assert.Len(t, payload.Hands, 2)
	for _, hand := range payload.Hands {
		assert.Len(t, hand, 7)
	}
}

func TestHandle_AdminGetAllHandsRequiresPower(t *testing.T) {
	env := newTestEnv(t)
	adminClient, session := env.newAdminClient()
	session.Watch(env.gameRoom.Code)

	env.handler.Handle(adminClient, &protocol.Message{Type: protocol.MsgAdminGetAllHands})

	assert.Empty(t, adminClient.MessagesOfType(protocol.MsgAdminAllHands))
	last := adminClient.LastMessage()
	require.Equal(t, protocol.MsgAdminResult, last.Type)
	payload, err := protocol.ParsePayload[protocol.AdminResultPayload](last)
	require.NoError(t, err)
	assert.False(t, payload.Success)
}

func TestHandle_AdminMutationsNotifyWatchers(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.gameRoom.StartGame(env.alice.ID))
	adminClient, session := env.newAdminClient()
	session.Watch(env.gameRoom.Code)
	_, ok := session.TogglePower(admin.PowerControlTurns)
	require.True(t, ok)

	env.handler.Handle(adminClient, &protocol.Message{Type: protocol.MsgAdminSkipTurn})

	// The watcher got a fresh observation view after the mutation
	states := adminClient.MessagesOfType(protocol.MsgAdminRoomState)
	require.NotEmpty(t, states)

	// Players got fresh scoped state too
	assert.NotEmpty(t, env.alice.MessagesOfType(protocol.MsgState))
	assert.NotEmpty(t, env.bob.MessagesOfType(protocol.MsgState))
}

func TestHandle_AdminKickPlayer(t *testing.T) {
	env := newTestEnv(t)
	adminClient, session := env.newAdminClient()
	session.Watch(env.gameRoom.Code)
	_, ok := session.TogglePower(admin.PowerRoomControl)
	require.True(t, ok)

	env.handler.Handle(adminClient, rawMessage(t, protocol.MsgAdminKickPlayer, `{"playerId":"`+env.bob.ID+`"}`))

	assert.Nil(t, env.gameRoom.Game.PlayerByID(env.bob.ID), "kicked seat is removed")
	assert.True(t, env.bob.Closed, "kicked player's connection is closed")

	results := adminClient.MessagesOfType(protocol.MsgAdminResult)
	require.NotEmpty(t, results)
	payload, err := protocol.ParsePayload[protocol.AdminResultPayload](results[len(results)-1])
	require.NoError(t, err)
	assert.True(t, payload.Success)
}

func TestHandle_AdminUnknownPower(t *testing.T) {
	env := newTestEnv(t)
	adminClient, _ := env.newAdminClient()

	env.handler.Handle(adminClient, rawMessage(t, protocol.MsgAdminTogglePower, `{"power":"godMode"}`))

	last := adminClient.LastMessage()
	require.Equal(t, protocol.MsgAdminResult, last.Type)
	payload, err := protocol.ParsePayload[protocol.AdminResultPayload](last)
	require.NoError(t, err)
	assert.False(t, payload.Success)
}

func TestHandle_LeaveRoomRemovesSeat(t *testing.T) {
	env := newTestEnv(t)

	env.handler.Handle(env.bob, &protocol.Message{Type: protocol.MsgLeaveRoom})

	assert.Nil(t, env.gameRoom.Game.PlayerByID(env.bob.ID))
	assert.Empty(t, env.bob.RoomCode)

	// The remaining player is told about the departure
	assert.NotEmpty(t, env.alice.MessagesOfType(protocol.MsgState))
}

func TestHandle_LeaveRoomLastPlayerDropsRoom(t *testing.T) {
	env := newTestEnv(t)
	code := env.gameRoom.Code

	env.handler.Handle(env.bob, &protocol.Message{Type: protocol.MsgLeaveRoom})
	env.handler.Handle(env.alice, &protocol.Message{Type: protocol.MsgLeaveRoom})

	assert.Nil(t, env.rooms.GetRoom(code))
}

func TestHandle_GetLeaderboardWithoutBackend(t *testing.T) {
	env := newTestEnv(t)

	env.handler.Handle(env.alice, rawMessage(t, protocol.MsgGetLeaderboard, `{"limit":5}`))

	last := env.alice.LastMessage()
	require.Equal(t, protocol.MsgLeaderboard, last.Type)
	payload, err := protocol.ParsePayload[protocol.LeaderboardPayload](last)
	require.NoError(t, err)
	assert.Empty(t, payload.Entries)
}
