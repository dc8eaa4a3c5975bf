// Package llmassist implements the optional model-backed helper for table
// work: picking which table a change description refers to, and reviewing a
// proposed column mapping.
//
// Both calls are advisory. The caller computes the algorithmic result first
// and falls back to it on any error, timeout or low-confidence answer, so
// this package is never on the document's mutation path.
package llmassist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/docforge/redline/patch"
)

// Assist calls the Gemini API. It satisfies the patch engine's LlmAssist
// port.
type Assist struct {
	client *genai.Client
	model  string
}

// New creates an Assist using the given API key. model defaults to
// gemini-2.0-flash.
func New(apiKey, model string) (*Assist, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llmassist: API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("llmassist: creating client: %w", err)
	}

	return &Assist{client: client, model: model}, nil
}

// Close is a no-op; the underlying client holds no resources that need
// releasing.
func (a *Assist) Close() error { return nil }

// generate sends one prompt and returns the raw text reply.
func (a *Assist) generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("llmassist: generate: %w", err)
	}
	return resp.Text(), nil
}

// ClassifyTargetTable asks the model which candidate tables the description
// refers to, returning their block indices in preference order.
func (a *Assist) ClassifyTargetTable(ctx context.Context, description string, candidates []patch.TableSummary) ([]int, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString("A document edit is described as:\n")
	sb.WriteString(description)
	sb.WriteString("\n\nCandidate tables:\n")
	for _, c := range candidates {
		fmt.Fprintf(&sb, "- id %d, header %v, sample rows %v\n", c.BlockIndex, c.Header, c.SampleRows)
	}
	sb.WriteString("\nReply with a JSON array of the candidate ids the edit refers to, ")
	sb.WriteString("most likely first. Reply with [] if none match. JSON only.")

	reply, err := a.generate(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	var ids []int
	if err := json.Unmarshal([]byte(stripFences(reply)), &ids); err != nil {
		return nil, fmt.Errorf("llmassist: parsing table classification %q: %w", reply, err)
	}

	// Drop ids that do not name a candidate.
	known := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		known[c.BlockIndex] = true
	}
	out := ids[:0]
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// mappingReview is the reply shape for ReviewColumnMapping.
type mappingReview struct {
	Mapping    map[int]string `json:"mapping"`
	Confidence float64        `json:"confidence"`
}

// ReviewColumnMapping asks the model to check how replacement text was
// distributed over a row's columns. The returned confidence lets the caller
// gate whether the review may override the algorithmic mapping.
func (a *Assist) ReviewColumnMapping(ctx context.Context, row []string, proposed map[int]string) (map[int]string, float64, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"current_row":      row,
		"proposed_mapping": proposed,
	})
	if err != nil {
		return nil, 0, err
	}

	prompt := "A table row is being rewritten. Current cells and the proposed " +
		"column mapping (column index to new text):\n" + string(payload) + "\n\n" +
		`Reply with JSON {"mapping": {"<col>": "<text>", ...}, "confidence": 0.0-1.0} ` +
		"where mapping is the corrected distribution, or the proposed one if it " +
		"is already right. JSON only."

	reply, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, 0, err
	}

	var review mappingReview
	if err := json.Unmarshal([]byte(stripFences(reply)), &review); err != nil {
		return nil, 0, fmt.Errorf("llmassist: parsing mapping review %q: %w", reply, err)
	}
	if review.Mapping == nil {
		return nil, 0, fmt.Errorf("llmassist: review reply has no mapping")
	}
	return review.Mapping, review.Confidence, nil
}

// stripFences removes a markdown code fence wrapper from a model reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
