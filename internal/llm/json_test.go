package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"whitespace", "  \n```json\n{}\n```  ", `{}`},
		{"unterminated", "```json\n{}", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestTrailingObject(t *testing.T) {
	assert.Equal(t, `{"list": [], "paragraph": ""}`,
		TrailingObject("Here is the result:\n{\"list\": [], \"paragraph\": \"\"}\n"))
	assert.Equal(t, "{\"a\": {\"b\": 1}}",
		TrailingObject("prose {\"a\": {\"b\": 1}}"))
	assert.Equal(t, "no braces", TrailingObject("no braces"))
	assert.Equal(t, "{x} then prose", TrailingObject("{x} then prose"))
}
