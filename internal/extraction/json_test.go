package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeJSON(t *testing.T) {
	type payload struct {
		Decision string `json:"decision"`
		Amount   float64 `json:"amount"`
	}

	tests := []struct {
		name    string
		input   string
		want    payload
		wantErr bool
	}{
		{
			name:  "plain JSON",
			input: `{"decision":"APPROVED","amount":42}`,
			want:  payload{Decision: "APPROVED", Amount: 42},
		},
		{
			name:  "markdown fenced with language tag",
			input: "```json\n{\"decision\":\"REJECTED\",\"amount\":7}\n```",
			want:  payload{Decision: "REJECTED", Amount: 7},
		},
		{
			name:  "markdown fenced without language tag",
			input: "```\n{\"decision\":\"APPROVED\",\"amount\":1}\n```",
			want:  payload{Decision: "APPROVED", Amount: 1},
		},
		{
			name:  "prose before and after the object",
			input: "Here is the result:\n{\"decision\":\"APPROVED\",\"amount\":9.5}\nLet me know if you need more.",
			want:  payload{Decision: "APPROVED", Amount: 9.5},
		},
		{
			name:    "empty output",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "no JSON object",
			input:   "sorry, I could not parse the document",
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			input:   `{"decision": "APPROVED",`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := SanitizeJSON(tt.input, &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
