package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
)

const testDelay = time.Second

type testServer struct {
	*Server
	http  *httptest.Server
	clock *quartz.Mock
}

func newTestServer(t *testing.T, cards string) *testServer {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	rng := randutil.New(1)
	d, err := deck.Stacked(rng, deck.MustParseCards(cards)...)
	require.NoError(t, err)

	mClock := quartz.NewMock(t)
	g := game.New(rng, game.WithDeck(d), game.WithLogger(logger))
	session := NewSession(g, game.NewPacer(mClock, testDelay), logger)
	srv := NewServer(session, logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		ts.Close()
	})
	return &testServer{Server: srv, http: ts, clock: mClock}
}

func (ts *testServer) post(t *testing.T, body string) (int, ActionResponse) {
	t.Helper()
	resp, err := http.Post(ts.http.URL+"/actions", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out ActionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (ts *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func readView(t *testing.T, conn *websocket.Conn) TableView {
	t.Helper()
	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeSnapshot, msg.Type)
	var view TableView
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	return view
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, "As 10h 9d 8c")

	resp, err := http.Get(ts.http.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestStateEndpoint(t *testing.T) {
	ts := newTestServer(t, "As 10h 9d 8c")

	resp, err := http.Get(ts.http.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	var view TableView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, 1000, view.Balance)
	assert.Equal(t, game.Betting, view.State)
	assert.True(t, view.CanBet)
	assert.False(t, view.CanDeal)
	assert.Empty(t, view.PlayerHand)
}

func TestActions(t *testing.T) {
	ts := newTestServer(t, "As 10h 9d 8c")

	status, resp := ts.post(t, `{"type":"bet","amount":25}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, 975, resp.State.Balance)
	assert.Equal(t, 25, resp.State.Bet)

	status, resp = ts.post(t, `{"type":"hit"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, game.ErrWrongState.Error(), resp.Error)
	assert.Equal(t, 25, resp.State.Bet)

	status, resp = ts.post(t, `{"type":"bet","amount":5000}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Insufficient funds!", resp.State.Message)

	status, resp = ts.post(t, `{"type":"deal"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, game.Playing, resp.State.State)
	assert.Equal(t, []string{"10♥", HiddenCard}, resp.State.DealerHand)
	assert.Equal(t, 10, resp.State.DealerValue)

	status, resp = ts.post(t, `{"type":"stand"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, game.OutcomeWin, resp.State.Outcome)
	assert.Equal(t, []string{"10♥", "8♣"}, resp.State.DealerHand)
	assert.Equal(t, 1025, resp.State.Balance)
}

func TestActionsRejectMalformed(t *testing.T) {
	ts := newTestServer(t, "As 10h 9d 8c")

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"type":`},
		{"unknown action", `{"type":"split"}`},
		{"zero bet", `{"type":"bet","amount":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.http.URL+"/actions", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestDealerTurnIsPaced(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ts := newTestServer(t, "10s 10h 8d 2c 3d 4h")
	ts.post(t, `{"type":"bet","amount":10}`)
	ts.post(t, `{"type":"deal"}`)

	_, resp := ts.post(t, `{"type":"stand"}`)
	require.Equal(t, game.DealerTurn, resp.State.State)
	assert.Len(t, resp.State.DealerHand, 2)
	assert.False(t, resp.State.CanReset)

	_, resp = ts.post(t, `{"type":"reset"}`)
	assert.Equal(t, game.ErrDealerTurn.Error(), resp.Error)

	ts.clock.Advance(testDelay).MustWait(ctx)
	snap := ts.session.Snapshot()
	assert.Equal(t, game.DealerTurn, snap.State)
	assert.Len(t, snap.DealerHand, 3)

	ts.clock.Advance(testDelay).MustWait(ctx)
	snap = ts.session.Snapshot()
	assert.Equal(t, game.Betting, snap.State)
	assert.Equal(t, game.OutcomeLose, snap.Outcome)
	assert.Equal(t, 990, snap.Balance)
}

func TestWebSocketBroadcasts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ts := newTestServer(t, "10s 10h 8d 2c 3d 4h")
	conn := ts.dial(t)
	watcher := ts.dial(t)

	initial := readView(t, conn)
	assert.Equal(t, 1000, initial.Balance)
	readView(t, watcher)
	require.Eventually(t, func() bool { return ts.ConnectionCount() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(ActionRequest{Type: ActionBet, Amount: 10}))
	view := readView(t, conn)
	assert.Equal(t, 10, view.Bet)
	assert.Equal(t, 10, readView(t, watcher).Bet, "other clients see the same table")

	// HTTP actions are broadcast to websocket clients too
	ts.post(t, `{"type":"deal"}`)
	view = readView(t, watcher)
	assert.Equal(t, game.Playing, view.State)
	assert.Equal(t, HiddenCard, view.DealerHand[1])
	readView(t, conn)

	require.NoError(t, conn.WriteJSON(ActionRequest{Type: ActionStand}))
	view = readView(t, conn)
	assert.Equal(t, game.DealerTurn, view.State)

	ts.clock.Advance(testDelay).MustWait(ctx)
	view = readView(t, conn)
	assert.Len(t, view.DealerHand, 3)

	ts.clock.Advance(testDelay).MustWait(ctx)
	view = readView(t, conn)
	assert.Equal(t, game.OutcomeLose, view.Outcome)
}

func TestWebSocketErrors(t *testing.T) {
	ts := newTestServer(t, "As 10h 9d 8c")
	conn := ts.dial(t)
	readView(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "split"}))
	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeError, msg.Type)

	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Contains(t, data.Message, "unknown action")

	// A refused game action broadcasts the advisory, then reports the error
	require.NoError(t, conn.WriteJSON(ActionRequest{Type: ActionDeal}))
	view := readView(t, conn)
	assert.Equal(t, "Place a bet first.", view.Message)

	msg = readMessage(t, conn)
	require.Equal(t, MessageTypeError, msg.Type)
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, ActionDeal, data.Action)
	assert.Equal(t, game.ErrNoBet.Error(), data.Message)
}

func TestTableViewMasksHoleCard(t *testing.T) {
	s := game.Snapshot{
		DealerHand:       game.Hand(deck.MustParseCards("Ks 7h")),
		DealerValue:      10,
		DealerHoleHidden: true,
		State:            game.Playing,
	}
	view := NewTableView(s)
	assert.Equal(t, []string{"K♠", HiddenCard}, view.DealerHand)

	s.DealerHoleHidden = false
	s.State = game.Resolved
	view = NewTableView(s)
	assert.Equal(t, []string{"K♠", "7♥"}, view.DealerHand)
}
