package llm

import (
	"fmt"
	"strings"
)

// OutputSchema describes the JSON object a structured prompt asks the model to return.
type OutputSchema struct {
	Name   string
	Fields []SchemaField
}

// SchemaField defines a single field in the structured output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint shown to the model, e.g. `"string"`, `["string"]`
	Description string
	Required    bool
}

// BuildStructuredPrompt appends the output contract and the input document to a task
// description.
func BuildStructuredPrompt(task string, schema OutputSchema, input string) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(task))
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		sb.WriteString(fmt.Sprintf("  %q: %s", field.Name, typeHint))
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			sb.WriteString(" // " + field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
	sb.WriteString("Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input:\n\"\"\"\n")
	sb.WriteString(input)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// PolicyReviewSchema is the output contract for reviewing a job post against posting policy.
func PolicyReviewSchema() OutputSchema {
	return OutputSchema{
		Name: "PolicyReview",
		Fields: []SchemaField{
			{Name: "approved", Type: "true|false", Description: "whether the post complies with every policy", Required: true},
			{Name: "policy_violations", Type: `["string"]`, Description: "each violated policy, empty when approved", Required: true},
			{Name: "modified_job", Type: `{"title": "string", "description": "string"}`, Description: "compliant rewrite of the offending fields, null when approved"},
		},
	}
}

// CandidateRankingSchema is the output contract for ranking applicants against a listing.
func CandidateRankingSchema() OutputSchema {
	return OutputSchema{
		Name: "CandidateRanking",
		Fields: []SchemaField{
			{Name: "candidates", Type: `[{"application_id": "string", "score": 0, "reason": "string"}]`, Description: "one entry per applicant, score from 0 to 100", Required: true},
			{Name: "summary", Type: `"string"`, Description: "one paragraph comparing the strongest applicants"},
		},
	}
}
