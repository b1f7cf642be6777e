package response

import (
	"strings"
	"testing"

	"rtl-support-chatbot-be/pkg/kb"
)

func meta(kbNumber string) kb.SourceMetadata {
	return kb.SourceMetadata{KBNumber: kbNumber}
}

func TestEnhance(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		metas  []kb.SourceMetadata
		want   string
	}{
		{
			name:   "no metadata leaves answer untouched",
			answer: "Just an answer.",
			metas:  nil,
			want:   "Just an answer.",
		},
		{
			name:   "appends references when uncited",
			answer: "The reset link is emailed to you.",
			metas:  []kb.SourceMetadata{meta("KB-123"), meta("KB-456")},
			want:   "The reset link is emailed to you.\n\nReferences: KB-KB-123, KB-KB-456",
		},
		{
			name:   "cited answer stays as is",
			answer: "See KB-KB-123 for details.",
			metas:  []kb.SourceMetadata{meta("KB-123")},
			want:   "See KB-KB-123 for details.",
		},
		{
			name:   "skips placeholder numbers",
			answer: "Answer.",
			metas:  []kb.SourceMetadata{meta("N/A"), meta(""), meta("777")},
			want:   "Answer.\n\nReferences: KB-777",
		},
		{
			name:   "dedupes and caps at three",
			answer: "Answer.",
			metas: []kb.SourceMetadata{
				meta("1"), meta("2"), meta("1"), meta("3"), meta("4"),
			},
			want: "Answer.\n\nReferences: KB-1, KB-2, KB-3",
		},
		{
			name:   "inline numbered list gets a newline",
			answer: "Steps: 1. open settings 2. click reset",
			metas:  nil,
			want:   "Steps: \n1. open settings 2. click reset",
		},
		{
			name:   "already formatted list untouched",
			answer: "Steps:\n1. open settings\n2. click reset",
			metas:  nil,
			want:   "Steps:\n1. open settings\n2. click reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Enhance(tt.answer, tt.metas)
			if got != tt.want {
				t.Errorf("Enhance() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnhanceIdempotent(t *testing.T) {
	metas := []kb.SourceMetadata{meta("101"), meta("214")}
	answer := "Update your drivers. 1. open device manager"

	once := Enhance(answer, metas)
	twice := Enhance(once, metas)

	if once != twice {
		t.Errorf("second Enhance changed the answer:\nfirst:  %q\nsecond: %q", once, twice)
	}
	if strings.Count(twice, "References:") != 1 {
		t.Errorf("expected exactly one References line, got %q", twice)
	}
}
