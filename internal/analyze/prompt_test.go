package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptDescribesSchemaPerMode(t *testing.T) {
	tests := []struct {
		mode   Mode
		fields []string
		levels bool
	}{
		{
			mode:   ModeReport,
			levels: true,
			fields: []string{
				"exam_date", "overall_summary", "good_news", "attention_needed",
				"severity", "follow_up", "timeline", "target_date", "action",
				"diet_lifestyle_guide",
			},
		},
		{
			mode: ModeMedicine,
			fields: []string{
				"name", "efficacy", "usage", "contraindications",
				"side_effects_alert", "summary",
			},
		},
		{
			mode:   ModeFood,
			levels: true,
			fields: []string{
				"name", "ingredients_analysis", "additives_alert",
				"nutrition_alert", "sugar", "salt", "fat",
				"advice_for_elderly", "summary",
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			prompt := BuildPrompt(tt.mode)
			assert.NotEmpty(t, prompt)
			for _, field := range tt.fields {
				assert.Contains(t, prompt, `"`+field+`"`)
			}
			if tt.levels {
				assert.Contains(t, prompt, "low")
				assert.Contains(t, prompt, "medium")
				assert.Contains(t, prompt, "high")
			}
		})
	}
}

func TestBuildPromptUnknownModeIsEmptyNotError(t *testing.T) {
	assert.Empty(t, BuildPrompt(Mode("poetry")))
	assert.Empty(t, BuildPrompt(Mode("")))
}

func TestBuildChatPromptInterpolatesContext(t *testing.T) {
	prompt := BuildChatPrompt("medicine", "Aspirin", "taken twice daily")

	assert.Contains(t, prompt, "Topic: medicine")
	assert.Contains(t, prompt, "Item: Aspirin")
	assert.Contains(t, prompt, "Details: taken twice daily")
}

func TestBuildChatPromptFallbacksWhenContextAbsent(t *testing.T) {
	prompt := BuildChatPrompt("", "  ", "")

	assert.Contains(t, prompt, "Topic: general conversation")
	assert.Contains(t, prompt, "Item: none")
	assert.Contains(t, prompt, "Details: none")
}
