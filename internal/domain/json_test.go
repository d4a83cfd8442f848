package domain

import "testing"

func TestDecodeOr_Valid(t *testing.T) {
	got := DecodeOr(`["bold","curious"]`, []string{})
	if len(got) != 2 || got[0] != "bold" {
		t.Errorf("DecodeOr = %v, want [bold curious]", got)
	}
}

func TestDecodeOr_Malformed(t *testing.T) {
	fallback := WriterStyle{Tone: "informative"}
	got := DecodeOr(`{invalid`, fallback)
	if got.Tone != "informative" {
		t.Errorf("Tone = %q, want fallback %q", got.Tone, "informative")
	}
}

func TestDecodeOr_Empty(t *testing.T) {
	got := DecodeOr("", ModelConfig{Model: "gpt-4o-mini"})
	if got.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want fallback", got.Model)
	}

	got = DecodeOr("null", ModelConfig{Model: "gpt-4o-mini"})
	if got.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want fallback for null column", got.Model)
	}
}

func TestJobStatus_Terminal(t *testing.T) {
	cases := []struct {
		status JobStatus
		want   bool
	}{
		{JobQueued, false},
		{JobRunning, false},
		{JobSuccess, true},
		{JobFailed, true},
		{JobCancelled, true},
	}

	for _, c := range cases {
		if got := c.status.Terminal(); got != c.want {
			t.Errorf("Terminal(%s) = %v, want %v", c.status, got, c.want)
		}
	}
}
