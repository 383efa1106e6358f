package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/yuhnmomo/magictrain/internal/game"
)

const defaultModel = "gemini-2.5-flash"

// Content filtering stays off; the characters are adult-roleplay
// personas and the model's own refusals still apply.
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
}

// Gemini is the production Client on the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a client authenticated with apiKey. An empty model
// falls back to the default.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Chat(ctx context.Context, in TurnInput) (string, error) {
	contents := historyContents(in.History)
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: in.Message}},
	})

	cfg := &genai.GenerateContentConfig{
		SafetySettings: safetySettings,
		SystemInstruction: &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: systemInstruction(in.Character, in.Player, in.Favorability, in.Notebook)}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generating reply for %s: %w", in.Character.ID, err)
	}
	txt := extractText(resp)
	if txt == "" {
		return "", fmt.Errorf("empty reply for %s", in.Character.ID)
	}
	return txt, nil
}

func (g *Gemini) Summarize(ctx context.Context, in SummaryInput) (string, error) {
	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: summaryPrompt(in)}},
	}}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("summarizing conversation with %s: %w", in.Character.ID, err)
	}
	txt := extractText(resp)
	if txt == "" {
		return "", fmt.Errorf("empty summary for %s", in.Character.ID)
	}
	return txt, nil
}

// historyContents maps the stored log to role-tagged model input.
// Summary and milestone entries are carried as user-role context so the
// model remembers condensed history without treating it as its own
// words.
func historyContents(msgs []game.ChatMessage) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range msgs {
		if msg.IsLoading || msg.Text == "" {
			continue
		}
		role := genai.RoleUser
		if msg.Sender == game.SenderModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}
	return contents
}

func extractText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 {
		return ""
	}
	for _, c := range res.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				return p.Text
			}
		}
	}
	return ""
}

var _ Client = (*Gemini)(nil)
