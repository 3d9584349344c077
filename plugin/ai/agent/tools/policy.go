package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// PolicySearcher is the retrieval surface the policy tool depends on.
type PolicySearcher interface {
	Search(ctx context.Context, query string, limit int) ([]PolicyHit, error)
}

// PolicyHit is one retrieved policy snippet with its similarity score.
type PolicyHit struct {
	Content string
	Score   float32
}

// defaultPolicyLimit caps how many policy snippets are handed to the LLM.
const defaultPolicyLimit = 3

// PolicyTool retrieves booking policies relevant to a question.
type PolicyTool struct {
	searcher PolicySearcher
}

// NewPolicyTool creates a new policy lookup tool.
func NewPolicyTool(searcher PolicySearcher) *PolicyTool {
	return &PolicyTool{searcher: searcher}
}

func (t *PolicyTool) Name() string {
	return "policy_lookup"
}

func (t *PolicyTool) Description() string {
	return `Look up the booking policies relevant to a question (cancellation rules, payment, lateness, and so on).
Always consult this before answering policy questions; answer from the returned policies only.`
}

func (t *PolicyTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The policy question, in natural language",
			},
		},
		"required": []string{"query"},
	}
}

func (t *PolicyTool) Run(ctx context.Context, inputJSON string) (string, error) {
	var input struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(inputJSON), &input); err != nil {
		return "", fmt.Errorf("invalid JSON input: %w", err)
	}
	if strings.TrimSpace(input.Query) == "" {
		return "", fmt.Errorf("query is required")
	}

	hits, err := t.searcher.Search(ctx, input.Query, defaultPolicyLimit)
	if err != nil {
		return "", fmt.Errorf("policy lookup failed: %w", err)
	}
	if len(hits) == 0 {
		return "No matching policies found.", nil
	}

	var sb strings.Builder
	sb.WriteString("Relevant policies:\n")
	for _, hit := range hits {
		fmt.Fprintf(&sb, "- %s\n", hit.Content)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
