// README: Optional Gemini fallback for messages the keyword table misses.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClassifier asks a small Gemini model to pick an intent when the
// keyword table comes up empty. Entirely optional: a nil classifier means
// keyword-only operation.
type GeminiClassifier struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClassifier(ctx context.Context, apiKey string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	// Flash keeps the fallback cheap; intent picking needs no reasoning.
	model := client.GenerativeModel("gemini-2.0-flash")
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.1)

	return &GeminiClassifier{client: client, model: model}, nil
}

func (g *GeminiClassifier) Close() {
	g.client.Close()
}

const classifyPrompt = `You route customer messages for a grocery delivery tracker.
Pick exactly one intent for the message below:
- "track_order": asking where an order is or when it arrives
- "route_status": asking about the delivery route or remaining stops
- "driver_location": asking where the driver currently is
- "help": asking what this service can do
- "unknown": anything else, including names, emails, or phone numbers

Respond with JSON only: {"intent": "...", "order_id": <number or 0>}

Message: %s`

// ParseIntent classifies one message. Errors bubble up so the caller can
// fall back to IntentUnknown rather than failing the chat turn.
func (g *GeminiClassifier) ParseIntent(ctx context.Context, message string) (Classification, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(classifyPrompt, message)))
	if err != nil {
		return Classification{}, fmt.Errorf("gemini generation: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Classification{}, fmt.Errorf("no candidates from gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	var parsed struct {
		Intent  string `json:"intent"`
		OrderID int64  `json:"order_id"`
	}
	raw := strings.TrimSpace(strings.Trim(text.String(), "`"))
	raw = strings.TrimPrefix(raw, "json")
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Classification{}, fmt.Errorf("parsing gemini response %q: %w", raw, err)
	}

	c := Classification{Intent: Intent(parsed.Intent), OrderID: parsed.OrderID}
	switch c.Intent {
	case IntentTrackOrder, IntentRouteStatus, IntentDriverLocation, IntentHelp, IntentUnknown:
	default:
		c.Intent = IntentUnknown
	}
	if c.OrderID == 0 {
		c.OrderID = extractOrderID(message)
	}
	return c, nil
}
