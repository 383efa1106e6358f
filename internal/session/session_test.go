package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yuhnmomo/magictrain/internal/catalog"
	"github.com/yuhnmomo/magictrain/internal/game"
	"github.com/yuhnmomo/magictrain/internal/llm"
	"github.com/yuhnmomo/magictrain/internal/relationship"
	"github.com/yuhnmomo/magictrain/internal/save"
)

// fakeClient scripts the model's behavior per call.
type fakeClient struct {
	reply        string
	replyErr     error
	summary      string
	summaryErr   error
	chatCalls    int
	summaryCalls int
	lastTurn     llm.TurnInput
}

func (f *fakeClient) Chat(ctx context.Context, in llm.TurnInput) (string, error) {
	f.chatCalls++
	f.lastTurn = in
	return f.reply, f.replyErr
}

func (f *fakeClient) Summarize(ctx context.Context, in llm.SummaryInput) (string, error) {
	f.summaryCalls++
	return f.summary, f.summaryErr
}

// memStore records every persisted document.
type memStore struct {
	saves []*save.Document
}

func (m *memStore) Save(doc *save.Document) error {
	m.saves = append(m.saves, doc)
	return nil
}

func testPlayer() *game.Player {
	return &game.Player{
		Gender:   "女",
		Name:     "夏洛特",
		Nickname: "小夏",
		Zodiac:   "♓ 雙魚座",
	}
}

func newTestOrchestrator(t *testing.T, client *fakeClient) (*Orchestrator, *memStore) {
	t.Helper()
	cat, err := catalog.New(catalog.FirstChooser)
	require.NoError(t, err)

	store := &memStore{}
	var seq int
	orch := New(DefaultConfig(), cat, client, store,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC) }),
		WithIDSource(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	require.NoError(t, orch.StartNewGame(testPlayer()))
	return orch, store
}

func TestSelectCharacterSeedsGreeting(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &fakeClient{})
	require.NoError(t, orch.SelectCharacter("npc01"))

	log := orch.History("npc01")
	require.Len(t, log, 1)
	require.Equal(t, game.SenderModel, log[0].Sender)
	require.NotEmpty(t, log[0].Text)

	// Selecting again must not duplicate the greeting.
	require.NoError(t, orch.SelectCharacter("npc01"))
	require.Len(t, orch.History("npc01"), 1)
}

func TestSelectUnknownCharacter(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &fakeClient{})
	require.Error(t, orch.SelectCharacter("ghost"))
}

func TestSwitchResetsLust(t *testing.T) {
	client := &fakeClient{reply: "好。[LUST: +40]"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))
	_, err := orch.SendMessage(context.Background(), "npc01", "嗨")
	require.NoError(t, err)
	require.Equal(t, 40, orch.Player().Lust)

	require.NoError(t, orch.SelectCharacter("npc02"))
	require.Equal(t, 0, orch.Player().Lust)
}

func TestSwitchKeepsLustWhenPolicyDisabled(t *testing.T) {
	cat, err := catalog.New(catalog.FirstChooser)
	require.NoError(t, err)
	client := &fakeClient{reply: "好。[LUST: +40]"}
	cfg := DefaultConfig()
	cfg.LustResetOnSwitch = false
	orch := New(cfg, cat, client, &memStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, orch.StartNewGame(testPlayer()))

	require.NoError(t, orch.SelectCharacter("npc01"))
	_, err = orch.SendMessage(context.Background(), "npc01", "嗨")
	require.NoError(t, err)
	require.NoError(t, orch.SelectCharacter("npc02"))
	require.Equal(t, 40, orch.Player().Lust)
}

func TestSendMessageAppliesDeltas(t *testing.T) {
	client := &fakeClient{reply: "「很高興見到你。」 [FAVORABILITY: +0.3] [LUST: +5]"}
	orch, store := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))

	res, err := orch.SendMessage(context.Background(), "npc01", "你好")
	require.NoError(t, err)

	require.Equal(t, "「很高興見到你。」", res.Reply.Text)
	require.InDelta(t, 0.3, res.Favorability, 1e-9)
	require.Equal(t, 5, res.Lust)
	require.Equal(t, 5, orch.Player().Lust)

	log := orch.History("npc01")
	require.Len(t, log, 3) // greeting, user, reply
	require.Equal(t, game.SenderUser, log[1].Sender)
	require.Equal(t, "你好", log[1].Text)
	require.Equal(t, game.SenderModel, log[2].Sender)

	// Prompt context excludes the just-appended user message; it rides
	// in Message instead.
	require.Equal(t, "你好", client.lastTurn.Message)
	require.Len(t, client.lastTurn.History, 1)

	require.NotEmpty(t, store.saves)
	last := store.saves[len(store.saves)-1]
	require.InDelta(t, 0.3, last.Favorability["npc01"], 1e-9)
}

func TestMilestoneOnLevelChange(t *testing.T) {
	client := &fakeClient{reply: "……謝謝你。[FAVORABILITY: +0.2]"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))

	// Seed just below the Friendly boundary.
	doc := orch.Document()
	doc.Favorability["npc01"] = 1.9
	orch.Hydrate(doc)

	res, err := orch.SendMessage(context.Background(), "npc01", "送你一份禮物")
	require.NoError(t, err)

	require.NotNil(t, res.Milestone)
	require.Equal(t, game.KindMilestone, res.Milestone.Kind)
	require.Contains(t, res.Milestone.Text, "認識")
	require.Contains(t, res.Milestone.Text, "友好")
	require.Equal(t, relationship.Friendly, res.Level)

	log := orch.History("npc01")
	require.Equal(t, game.KindMilestone, log[len(log)-1].Kind)
}

func TestNoMilestoneWithinLevel(t *testing.T) {
	client := &fakeClient{reply: "嗯。[FAVORABILITY: +0.1]"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))

	res, err := orch.SendMessage(context.Background(), "npc01", "你好")
	require.NoError(t, err)
	require.Nil(t, res.Milestone)
}

func TestCounterTriggersSummaryAtThreshold(t *testing.T) {
	client := &fakeClient{reply: "嗯。", summary: "兩人聊了旅途見聞。"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))

	// Three turns take the counter to 6, still below the threshold.
	for i := 0; i < 3; i++ {
		res, err := orch.SendMessage(context.Background(), "npc01", "聊天")
		require.NoError(t, err)
		require.Nil(t, res.Summary)
	}
	require.Zero(t, client.summaryCalls)

	// Fourth turn reaches 8.
	res, err := orch.SendMessage(context.Background(), "npc01", "聊天")
	require.NoError(t, err)
	require.NotNil(t, res.Summary)
	require.Equal(t, game.KindSummary, res.Summary.Kind)
	require.Equal(t, game.SenderSystem, res.Summary.Sender)
	require.Equal(t, "兩人聊了旅途見聞。", res.Summary.Text)
	require.Equal(t, 1, client.summaryCalls)

	// The summary also lands at the top of the notebook.
	note := orch.Notebook("npc01")
	require.Contains(t, note, "自動摘要")
	require.Contains(t, note, "兩人聊了旅途見聞。")

	// Counter reset: the next three turns stay quiet again.
	for i := 0; i < 3; i++ {
		res, err := orch.SendMessage(context.Background(), "npc01", "聊天")
		require.NoError(t, err)
		require.Nil(t, res.Summary)
	}
}

func TestPositiveLustDelaysSummary(t *testing.T) {
	client := &fakeClient{reply: "靠近一點。[LUST: +3]", summary: "不該出現"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))

	// Every turn raises lust, so the counter resets every time and the
	// summary never fires.
	for i := 0; i < 6; i++ {
		res, err := orch.SendMessage(context.Background(), "npc01", "...")
		require.NoError(t, err)
		require.Nil(t, res.Summary)
	}
	require.Zero(t, client.summaryCalls)
}

func TestNegativeLustStillCounts(t *testing.T) {
	client := &fakeClient{reply: "冷靜下來。[LUST: -2]", summary: "摘要"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))

	var sawSummary bool
	for i := 0; i < 4; i++ {
		res, err := orch.SendMessage(context.Background(), "npc01", "...")
		require.NoError(t, err)
		if res.Summary != nil {
			sawSummary = true
		}
	}
	require.True(t, sawSummary, "a negative lust delta must not delay the summary")
}

func TestSummaryFailureRetainsCounter(t *testing.T) {
	client := &fakeClient{reply: "嗯。", summaryErr: errors.New("boom")}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))

	for i := 0; i < 4; i++ {
		res, err := orch.SendMessage(context.Background(), "npc01", "聊天")
		require.NoError(t, err)
		require.Nil(t, res.Summary)
	}
	require.Equal(t, 1, client.summaryCalls)

	// Next turn retries the summary.
	client.summaryErr = nil
	client.summary = "補上的摘要"
	res, err := orch.SendMessage(context.Background(), "npc01", "聊天")
	require.NoError(t, err)
	require.NotNil(t, res.Summary)
}

func TestModelFailureProducesErrorReply(t *testing.T) {
	client := &fakeClient{replyErr: errors.New("rate limited")}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))

	res, err := orch.SendMessage(context.Background(), "npc01", "你好")
	require.NoError(t, err)
	require.Equal(t, "抱歉，我現在無法回應。請稍後再試。", res.Reply.Text)
	require.Zero(t, res.Favorability)
	require.Zero(t, res.Lust)

	// The user's message stays in the log ahead of the error reply.
	log := orch.History("npc01")
	require.Len(t, log, 3)
	require.Equal(t, "你好", log[1].Text)
}

func TestSendMessageWithoutPlayer(t *testing.T) {
	cat, err := catalog.New(catalog.FirstChooser)
	require.NoError(t, err)
	orch := New(DefaultConfig(), cat, &fakeClient{}, &memStore{},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err = orch.SendMessage(context.Background(), "npc01", "hi")
	require.ErrorIs(t, err, ErrNoPlayer)
}

func TestRestartPreservesFavorability(t *testing.T) {
	client := &fakeClient{reply: "嗯。[FAVORABILITY: +1.5][LUST: +20]", summary: "最終回顧"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))
	_, err := orch.SendMessage(context.Background(), "npc01", "哈囉")
	require.NoError(t, err)

	require.NoError(t, orch.RestartConversation(context.Background(), "npc01"))

	score, _ := orch.Favorability("npc01")
	require.InDelta(t, 1.5, score, 1e-9)
	require.Equal(t, 0, orch.Player().Lust)

	log := orch.History("npc01")
	require.Len(t, log, 1, "only the reseeded greeting remains")
	require.Equal(t, game.SenderModel, log[0].Sender)

	note := orch.Notebook("npc01")
	require.Contains(t, note, "對話重置前的最終摘要")
	require.Contains(t, note, "最終回顧")
}

func TestRestartWithOnlyGreetingSkipsSummary(t *testing.T) {
	client := &fakeClient{summary: "不該出現"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))

	require.NoError(t, orch.RestartConversation(context.Background(), "npc01"))
	require.Zero(t, client.summaryCalls)
	require.Empty(t, orch.Notebook("npc01"))
}

func TestManualSummary(t *testing.T) {
	client := &fakeClient{reply: "嗯。", summary: "手動回顧"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))

	require.ErrorIs(t, orch.ManualSummary(context.Background(), "npc01"), ErrTooShort)

	_, err := orch.SendMessage(context.Background(), "npc01", "哈囉")
	require.NoError(t, err)

	require.NoError(t, orch.ManualSummary(context.Background(), "npc01"))
	note := orch.Notebook("npc01")
	require.Contains(t, note, "手動摘要")
	require.Contains(t, note, "手動回顧")

	// The chat log itself is untouched.
	require.Len(t, orch.History("npc01"), 3)
}

func TestManualSummaryPrependsNewest(t *testing.T) {
	client := &fakeClient{reply: "嗯。", summary: "第一次"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))
	_, err := orch.SendMessage(context.Background(), "npc01", "哈囉")
	require.NoError(t, err)

	require.NoError(t, orch.ManualSummary(context.Background(), "npc01"))
	client.summary = "第二次"
	require.NoError(t, orch.ManualSummary(context.Background(), "npc01"))

	note := orch.Notebook("npc01")
	require.Less(t, strings.Index(note, "第二次"), strings.Index(note, "第一次"))
}

func TestUpdatePlayerKeepsLust(t *testing.T) {
	client := &fakeClient{reply: "好。[LUST: +30]"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))
	_, err := orch.SendMessage(context.Background(), "npc01", "嗨")
	require.NoError(t, err)

	edited := *orch.Player()
	edited.Nickname = "新暱稱"
	edited.Lust = 0 // settings form has no business writing this
	require.NoError(t, orch.UpdatePlayer(edited))

	require.Equal(t, "新暱稱", orch.Player().Nickname)
	require.Equal(t, 30, orch.Player().Lust)
}

func TestHydrateRoundTrip(t *testing.T) {
	client := &fakeClient{reply: "嗯。[FAVORABILITY: +0.4]"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))
	_, err := orch.SendMessage(context.Background(), "npc01", "嗨")
	require.NoError(t, err)

	doc := orch.Document()

	other, _ := newTestOrchestrator(t, client)
	other.Hydrate(doc)

	require.Equal(t, orch.Player().Name, other.Player().Name)
	require.Len(t, other.History("npc01"), len(orch.History("npc01")))
	score, _ := other.Favorability("npc01")
	require.InDelta(t, 0.4, score, 1e-9)
	require.Equal(t, "npc01", other.ActiveCharacter().ID)
}

func TestResetAllClearsEverything(t *testing.T) {
	client := &fakeClient{reply: "嗯。"}
	orch, _ := newTestOrchestrator(t, client)
	require.NoError(t, orch.SelectCharacter("npc01"))
	_, err := orch.SendMessage(context.Background(), "npc01", "嗨")
	require.NoError(t, err)

	orch.ResetAll()
	require.Nil(t, orch.Player())
	require.Empty(t, orch.History("npc01"))
	require.Empty(t, orch.FavorabilitySnapshot())
}
