package expert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "whitespace split",
			query: "감자 재배 방법",
			want:  []string{"감자", "재배", "방법"},
		},
		{
			name:  "disjunction marker split",
			query: "비트 재배 방법 또는 양파 재배 방법",
			want:  []string{"비트", "재배", "방법", "양파"},
		},
		{
			name:  "punctuation stripped",
			query: "셀러리, 재배?",
			want:  []string{"셀러리", "재배"},
		},
		{
			name:  "empty query",
			query: "",
			want:  nil,
		},
		{
			name:  "only punctuation",
			query: "?!,.",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.query))
		})
	}
}
