package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json fence", "```json\n{\"approved\": true}\n```", `{"approved": true}`},
		{"bare fence", "```\n{\"approved\": true}\n```", `{"approved": true}`},
		{"plain", `{"approved": true}`, `{"approved": true}`},
		{"preamble", "Here is the review:\n{\"approved\": false}", `{"approved": false}`},
		{"trailing chatter", "{\"a\": 1}\n\nLet me know if you need anything else!", `{"a": 1}`},
		{"array", "Ranked:\n[{\"score\": 90}, {\"score\": 70}]", `[{"score": 90}, {"score": 70}]`},
		{"escaped quotes", `Result: {"reason": "said \"hi}\""}`, `{"reason": "said \"hi}\""}`},
		{"no json", "  sorry, I cannot help  ", "sorry, I cannot help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	assert.Equal(t, `{"t": "Hello {name}!"}`, extractJSONObject(`{"t": "Hello {name}!"} more`))
	assert.Equal(t, `[[1, 2], [3]]`, extractJSONArray(`[[1, 2], [3]] extra`))
	assert.Equal(t, "", extractJSONObject(`{"unterminated": [`))
	assert.Equal(t, "", extractJSONObject("not json"))
	assert.Equal(t, "", extractJSONArray(""))
}

func TestBuildStructuredPrompt(t *testing.T) {
	prompt := BuildStructuredPrompt("  Review this post.  ", PolicyReviewSchema(), "Title: Driver")

	assert.Contains(t, prompt, "Review this post.\n\n")
	assert.Contains(t, prompt, `"approved": true|false (required)`)
	assert.Contains(t, prompt, `"policy_violations": ["string"] (required) // each violated policy`)
	assert.Contains(t, prompt, "Input:\n\"\"\"\nTitle: Driver\n\"\"\"")
}

func TestCandidateRankingSchema(t *testing.T) {
	schema := CandidateRankingSchema()

	assert.Equal(t, "CandidateRanking", schema.Name)
	assert.True(t, schema.Fields[0].Required)
	assert.Equal(t, "candidates", schema.Fields[0].Name)
}
