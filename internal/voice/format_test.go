package voice

import (
	"strings"
	"testing"
)

func TestForSpeechStripsMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "emphasis removed",
			input: "Hello **world**, this is *great* and _useful_.",
			want:  "Hello world, this is great and useful.",
		},
		{
			name:  "link keeps label",
			input: "See [the docs](https://example.com/a) for more",
			want:  "See the docs for more",
		},
		{
			name:  "bare url dropped",
			input: "Read https://example.com/docs for more",
			want:  "Read for more",
		},
		{
			name:  "heading flattened",
			input: "# Title\nBody text",
			want:  "Title Body text",
		},
		{
			name:  "inline code unwrapped",
			input: "Use `go build` now",
			want:  "Use go build now",
		},
		{
			name:  "whitespace collapsed",
			input: "Too   many\n\nspaces",
			want:  "Too many spaces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForSpeech(tt.input, 8000)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestForSpeechInsertsPausesBetweenSentences(t *testing.T) {
	got := ForSpeech("One. Two! Three? Four.", 8000)

	if count := strings.Count(got, PauseTag); count != 3 {
		t.Errorf("Expected 3 pause tags, got %d in %q", count, got)
	}
	want := "One." + PauseTag + " Two!" + PauseTag + " Three?" + PauseTag + " Four."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestForSpeechTurnsListItemsIntoPauses(t *testing.T) {
	got := ForSpeech("# Title\n- one\n- two\n1. three", 8000)

	want := "Title." + PauseTag + " one." + PauseTag + " two." + PauseTag + " three"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestForSpeechKeepsYearsOffListHandling(t *testing.T) {
	got := ForSpeech("It happened in\n1969. The rest followed.", 8000)

	want := "It happened in 1969." + PauseTag + " The rest followed."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestForSpeechLeavesDecimalsAlone(t *testing.T) {
	got := ForSpeech("Pi is 3.14 about.", 8000)
	if strings.Contains(got, PauseTag) {
		t.Errorf("Expected no pause tags, got %q", got)
	}
}

func TestForSpeechEscapesReservedCharacters(t *testing.T) {
	got := ForSpeech("Tom & Jerry < friends", 8000)
	want := "Tom &amp; Jerry &lt; friends"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestForSpeechIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "plain sentences", input: "First sentence. Second sentence! Third?"},
		{name: "markdown mix", input: "**Bold** start. See [docs](https://x.io/d). Use `code` too."},
		{name: "bullet list", input: "Steps\n- open the lid\n- close the lid"},
		{name: "reserved characters", input: "AT&T < Verizon > Sprint. Really & truly."},
		{name: "already formatted", input: "Done." + PauseTag + " Next one."},
		{name: "literal entity text", input: "Type &lt;speak&gt; to open. Then stop."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := ForSpeech(tt.input, 8000)
			twice := ForSpeech(once, 8000)
			if once != twice {
				t.Errorf("Formatting is not stable:\n once=%q\ntwice=%q", once, twice)
			}
		})
	}
}

func TestForSpeechStripsStalePauseTags(t *testing.T) {
	got := ForSpeech("First."+PauseTag+PauseTag+" Second.", 8000)
	want := "First." + PauseTag + " Second."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestForSpeechTruncatesAtWordBoundary(t *testing.T) {
	input := strings.Repeat("word ", 100) + "end."
	got := ForSpeech(input, 200)

	if len(got) > 200 {
		t.Fatalf("Expected at most 200 bytes, got %d", len(got))
	}
	if !strings.HasSuffix(got, ContinuationPrompt) {
		t.Errorf("Expected continuation prompt suffix, got %q", got)
	}
	body := strings.TrimSuffix(got, "... "+ContinuationPrompt)
	if !strings.HasSuffix(body, "word") {
		t.Errorf("Expected cut at a word boundary, got %q", body)
	}
}

func TestForSpeechTruncationNeverSplitsEntity(t *testing.T) {
	input := strings.Repeat("a", 160) + "AT&T" + strings.Repeat("b", 100)
	got := ForSpeech(input, 200)

	want := strings.Repeat("a", 160) + "AT... " + ContinuationPrompt
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestForSpeechShortAnswerUntouchedByCap(t *testing.T) {
	got := ForSpeech("Short answer.", 8000)
	if strings.Contains(got, ContinuationPrompt) {
		t.Errorf("Expected no continuation prompt, got %q", got)
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText("Hello." + PauseTag + " AT&amp;T")
	want := "Hello. AT&T"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestWrapSSML(t *testing.T) {
	got := WrapSSML("Hi there.")
	want := "<speak>Hi there.</speak>"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
