package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBinaryGrade(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{"bare yes", "yes", true},
		{"bare no", "no", false},
		{"uppercase", "YES", true},
		{"padded", "  Yes.\n", true},
		{"sentence yes", "Yes, the document is relevant.", true},
		{"sentence no", "No, this does not address the question.", false},
		{"yes before no", "yes, although it does not cover everything", true},
		{"no before yes", "no. yes it mentions paris but not the question", false},
		{"empty", "", false},
		{"unrelated", "the answer is unclear", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBinaryGrade(tt.response))
		})
	}
}

func TestNewOpenAIClientDefaults(t *testing.T) {
	c := NewOpenAIClient(OpenAIConfig{
		APIKey:         "test-key",
		Model:          "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
	})
	assert.NotNil(t, c)
	assert.Equal(t, "gpt-4o-mini", c.model)
	assert.Equal(t, "text-embedding-3-small", c.embeddingModel)
}
