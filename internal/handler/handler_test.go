package handler

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"uno-game-bot/internal/event"
	"uno-game-bot/internal/game/uno"
	"uno-game-bot/internal/pkg/lock"
	"uno-game-bot/internal/session"
)

// fakeContext records replies of a single update.
type fakeContext struct {
	tele.Context
	chat     *tele.Chat
	sender   *tele.User
	payload  string
	callback *tele.Callback

	replies   []string
	responses []*tele.CallbackResponse
}

func (f *fakeContext) Chat() *tele.Chat           { return f.chat }
func (f *fakeContext) Sender() *tele.User         { return f.sender }
func (f *fakeContext) Text() string               { return f.payload }
func (f *fakeContext) Message() *tele.Message     { return &tele.Message{Payload: f.payload} }
func (f *fakeContext) Callback() *tele.Callback   { return f.callback }
func (f *fakeContext) Edit(interface{}, ...interface{}) error { return nil }
func (f *fakeContext) Reply(what interface{}, _ ...interface{}) error {
	f.replies = append(f.replies, fmt.Sprint(what))
	return nil
}
func (f *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	f.responses = append(f.responses, resp...)
	return nil
}

var group = &tele.Chat{ID: -1001, Type: tele.ChatSuperGroup}

func user(id int64, name string) *tele.User {
	return &tele.User{ID: id, Username: name}
}

func cmd(u *tele.User, payload string) *fakeContext {
	return &fakeContext{chat: group, sender: u, payload: payload}
}

func newTestHandler(t *testing.T) (*UnoHandler, *session.Manager, *event.Queue) {
	t.Helper()
	bus := event.NewBus()
	q := event.NewQueue()
	bus.Subscribe(q)
	src := rand.New(rand.NewSource(7))
	m := session.NewManager(session.Config{
		LockTimeout: time.Second,
		Rand:        func() *rand.Rand { return rand.New(rand.NewSource(src.Int63())) },
	}, bus, nil)
	return NewUnoHandler(m), m, q
}

func TestUnoHandler_LobbyFlow(t *testing.T) {
	h, m, q := newTestHandler(t)
	ann, bob := user(1, "ann"), user(2, "bob")

	c := cmd(ann, "")
	require.NoError(t, h.HandleNew(c))
	assert.Empty(t, c.replies)

	c = cmd(ann, "")
	require.NoError(t, h.HandleNew(c))
	assert.Equal(t, []string{ErrorText(session.ErrGameExists)}, c.replies)

	require.NoError(t, h.HandleJoin(cmd(bob, "")))

	c = cmd(bob, "")
	require.NoError(t, h.HandleBegin(c))
	assert.Equal(t, []string{ErrorText(uno.ErrNotOwner)}, c.replies)

	c = cmd(ann, "nope")
	require.NoError(t, h.HandleBegin(c))
	require.Len(t, c.replies, 1)
	assert.Contains(t, c.replies[0], "classic")

	c = cmd(ann, "")
	require.NoError(t, h.HandleBegin(c))
	assert.Empty(t, c.replies)

	g, err := m.GameByRoom("-1001")
	require.NoError(t, err)
	assert.True(t, g.Started())

	var started bool
	for _, ev := range q.Drain() {
		if ev.Type == event.GameStart {
			started = true
		}
	}
	assert.True(t, started)
}

func TestUnoHandler_PrivateChatRejected(t *testing.T) {
	h, _, _ := newTestHandler(t)
	c := &fakeContext{chat: &tele.Chat{ID: 1, Type: tele.ChatPrivate}, sender: user(1, "ann")}

	require.NoError(t, h.HandleNew(c))
	assert.Equal(t, []string{"❌ Uno is played in groups"}, c.replies)
}

func TestUnoHandler_RuleToggle(t *testing.T) {
	h, m, _ := newTestHandler(t)
	ann := user(1, "ann")
	require.NoError(t, h.HandleNew(cmd(ann, "")))

	c := cmd(ann, "shotgun")
	require.NoError(t, h.HandleRule(c))
	assert.Equal(t, []string{"⚙️ shotgun is now on"}, c.replies)

	g, err := m.GameByRoom("-1001")
	require.NoError(t, err)
	assert.True(t, g.Rules().Shotgun())

	c = cmd(ann, "warp_speed")
	require.NoError(t, h.HandleRule(c))
	assert.Equal(t, []string{ErrorText(uno.ErrUnknownRule)}, c.replies)
}

func TestUnoHandler_PlayOutOfTurn(t *testing.T) {
	h, m, _ := newTestHandler(t)
	ann, bob := user(1, "ann"), user(2, "bob")
	require.NoError(t, h.HandleNew(cmd(ann, "")))
	require.NoError(t, h.HandleJoin(cmd(bob, "")))
	require.NoError(t, h.HandleBegin(cmd(ann, "")))

	g, err := m.GameByRoom("-1001")
	require.NoError(t, err)
	idle := ann
	if g.Current().ID == "1" {
		idle = bob
	}

	c := cmd(idle, "0")
	require.NoError(t, h.HandlePlay(c))
	assert.Equal(t, []string{ErrorText(uno.ErrNotYourTurn)}, c.replies)

	c = cmd(user(3, "cid"), "0")
	require.NoError(t, h.HandlePlay(c))
	assert.Equal(t, []string{ErrorText(session.ErrNoGameForUser)}, c.replies)
}

func TestUnoHandler_CallbackDraw(t *testing.T) {
	h, m, _ := newTestHandler(t)
	ann, bob := user(1, "ann"), user(2, "bob")
	require.NoError(t, h.HandleNew(cmd(ann, "")))
	require.NoError(t, h.HandleJoin(cmd(bob, "")))
	require.NoError(t, h.HandleBegin(cmd(ann, "")))

	g, err := m.GameByRoom("-1001")
	require.NoError(t, err)
	cur := ann
	if g.Current().ID == "2" {
		cur = bob
	}
	before := g.Player(g.Current().ID).HandSize()

	c := &fakeContext{
		chat:     &tele.Chat{ID: cur.ID, Type: tele.ChatPrivate},
		sender:   cur,
		callback: &tele.Callback{Data: "\f" + EncodeCallback(ActionDraw, "")},
	}
	require.NoError(t, h.HandleCallback(c))
	require.Len(t, c.responses, 0)

	err = m.Do(t.Context(), "-1001", func(g *uno.Game) error {
		assert.Greater(t, g.Player(fmt.Sprint(cur.ID)).HandSize(), before)
		return nil
	})
	require.NoError(t, err)
}

func TestUnoHandler_CallbackRejectsBadData(t *testing.T) {
	h, _, _ := newTestHandler(t)
	u := user(1, "ann")
	for _, data := range []string{"sicbo_big", EncodeCallback(ActionColor, "4"), EncodeCallback(ActionColor, "x")} {
		c := &fakeContext{chat: group, sender: u, callback: &tele.Callback{Data: data}}
		require.NoError(t, h.HandleCallback(c))
		require.Len(t, c.responses, 1, data)
		assert.Equal(t, "❌ Invalid action", c.responses[0].Text)
	}
}

func TestErrorText(t *testing.T) {
	cases := map[error]string{
		session.ErrNoGameInChat:                        "❌ No game here. Start one with /new",
		fmt.Errorf("lock room 1: %w", lock.ErrLockTimeout): "⏳ Busy, try again",
		uno.ErrNotYourTurn:                             "❌ Not your turn",
		fmt.Errorf("%w: index 9", uno.ErrNoSuchCard):   "❌ You have no such card",
		uno.ErrWrongState:                              "❌ You can't do that now",
		errors.New("db down"):                          "❌ Something went wrong, try again later",
	}
	for err, want := range cases {
		assert.Equal(t, want, ErrorText(err), err.Error())
	}
}

func TestTwistTarget(t *testing.T) {
	g := uno.New(&uno.Config{Rand: rand.New(rand.NewSource(1))}, "r", "1", "ann", nil)
	require.NoError(t, g.Join("2", "Bob"))

	id, err := twistTarget(g, "1", "bob", nil)
	require.NoError(t, err)
	assert.Equal(t, "2", id)

	id, err = twistTarget(g, "1", "pass", nil)
	require.NoError(t, err)
	assert.Empty(t, id)

	id, err = twistTarget(g, "1", "", &tele.User{ID: 2})
	require.NoError(t, err)
	assert.Equal(t, "2", id)

	_, err = twistTarget(g, "1", "zed", nil)
	assert.ErrorIs(t, err, uno.ErrNotInGame)
}

// recordingSender collects what the notifier sends.
type recordingSender struct {
	mu   sync.Mutex
	sent []string
	to   []string
	kbd  []bool
}

func (r *recordingSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, fmt.Sprint(what))
	r.to = append(r.to, to.Recipient())
	r.kbd = append(r.kbd, len(opts) > 0)
	return &tele.Message{}, nil
}

func TestNotifier_DeliversInOrder(t *testing.T) {
	rs := &recordingSender{}
	n := NewNotifier(rs)

	evs := []event.Event{
		{RoomID: "-1001", From: "1", Type: event.SessionJoin, Data: "ann"},
		{RoomID: "-1001", From: "1", Type: event.GameNext},
		{RoomID: "-1001", From: "1", Type: event.PlayerTake, Data: 2},
		{RoomID: "-1001", From: "1", Type: event.GameState, Data: uno.StateChooseColor},
		{RoomID: "not-a-chat", From: "1", Type: event.GameUno},
		{RoomID: "-1001", Type: event.SessionEnd, Data: "finished"},
	}
	for _, ev := range evs {
		n.Handle(ev)
	}
	n.Close()
	require.NoError(t, n.Run(t.Context()))

	assert.Equal(t, []string{
		"👋 ann joined.",
		"📥 ann drew 2.",
		"🎨 ann, pick a color.",
		"🏁 Room closed (finished).",
	}, rs.sent)
	assert.Equal(t, []bool{false, false, true, false}, rs.kbd)
	for _, to := range rs.to {
		assert.Equal(t, "-1001", to)
	}
	assert.Empty(t, n.names)
}
