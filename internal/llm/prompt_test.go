package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yuhnmomo/magictrain/internal/game"
)

func testCharacter() *game.Character {
	return &game.Character{
		ID:      "npc01",
		Name:    "星野 凜 (Rin)",
		Persona: "你是列車上的占星師。",
	}
}

func testPromptPlayer() *game.Player {
	return &game.Player{
		Gender:   "女",
		Name:     "夏洛特",
		Nickname: "小夏",
		Zodiac:   "♓ 雙魚座",
		Appearance: game.Appearance{
			Name:        "黑長直",
			Description: "及腰的黑色長髮",
		},
		Lust: 12,
	}
}

func TestSystemInstructionWithoutPlayer(t *testing.T) {
	got := systemInstruction(testCharacter(), nil, 0, "")
	require.Contains(t, got, "你是列車上的占星師。")
	require.NotContains(t, got, "[玩家檔案]")
	require.NotContains(t, got, "[好感度與情慾系統]")
}

func TestSystemInstructionWithPlayer(t *testing.T) {
	got := systemInstruction(testCharacter(), testPromptPlayer(), 2.5, "")
	require.Contains(t, got, "[好感度與情慾系統]")
	require.Contains(t, got, "姓名: 夏洛特")
	require.Contains(t, got, "暱稱: 小夏")
	require.Contains(t, got, "目前情慾值: 12/100")
	require.Contains(t, got, "目前好感度: 2.5")
	// The thought block names the player's nickname and the character's
	// short name, not the full roster name.
	require.Contains(t, got, "💭 小夏")
	require.Contains(t, got, "💭 星野 凜：")
	require.NotContains(t, got, "[筆記本]")
}

func TestSystemInstructionIncludesNotebook(t *testing.T) {
	got := systemInstruction(testCharacter(), testPromptPlayer(), 0, "她喜歡黑咖啡。")
	require.Contains(t, got, "[筆記本]")
	require.Contains(t, got, "她喜歡黑咖啡。")
}

func TestSummaryPromptSkipsNonChatEntries(t *testing.T) {
	ts := time.Now()
	in := SummaryInput{
		Character: testCharacter(),
		Player:    testPromptPlayer(),
		Messages: []game.ChatMessage{
			{Kind: game.KindChat, Sender: game.SenderModel, Text: "歡迎上車。", Timestamp: ts},
			{Kind: game.KindChat, Sender: game.SenderUser, Text: "謝謝你。", Timestamp: ts},
			{Kind: game.KindMilestone, Sender: game.SenderSystem, Text: "好感度等級變化：陌生 → 認識", Timestamp: ts},
			{Kind: game.KindSummary, Sender: game.SenderSystem, Text: "舊摘要", Timestamp: ts},
		},
	}

	got := summaryPrompt(in)
	require.Contains(t, got, "星野 凜: 歡迎上車。")
	require.Contains(t, got, "小夏: 謝謝你。")
	require.NotContains(t, got, "好感度等級變化")
	require.NotContains(t, got, "舊摘要")
}
