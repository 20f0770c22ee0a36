package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"punctuation stripped", "Hello, world!  It's 5pm... #news", "Hello world Its 5pm... news"},
		{"whitespace collapsed", "  one\t\ttwo\n\nthree  ", "one two three"},
		{"underscore kept", "snake_case stays", "snake_case stays"},
		{"unicode letters kept", "Café “au lait” – très bon.", "Café au lait très bon."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestSplitRegex(t *testing.T) {
	got := SplitRegex("One. Two! Three? Four")
	assert.Equal(t, []string{"One.", "Two!", "Three?", "Four"}, got)

	assert.Empty(t, SplitRegex(""))
	assert.Equal(t, []string{"No terminator here"}, SplitRegex("No terminator here"))
}

func TestSplitUAX29(t *testing.T) {
	got := SplitUAX29("The sky is blue. Water is wet. Fire is hot.")
	assert.Equal(t, []string{"The sky is blue.", "Water is wet.", "Fire is hot."}, got)

	assert.Empty(t, SplitUAX29("   "))
}

func TestNewSplitter(t *testing.T) {
	for _, name := range []string{"", SplitterUAX29, SplitterRegex} {
		split, err := NewSplitter(name)
		require.NoError(t, err, name)
		assert.NotNil(t, split, name)
	}

	_, err := NewSplitter("punkt")
	assert.Error(t, err)
}

func TestKeySentences(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"none", nil, nil},
		{"one", []string{"a"}, []string{"a"}},
		{"two", []string{"a", "b"}, []string{"a", "b"}},
		{"three", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"four", []string{"a", "b", "c", "d"}, []string{"a", "c", "d"}},
		{"five", []string{"a", "b", "c", "d", "e"}, []string{"a", "c", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeySentences(tt.in))
		})
	}
}

func TestSplitters_SameSelection(t *testing.T) {
	text := Normalize("Officials confirmed the bridge will close in May. Traffic will be diverted. " +
		"Local shops expect fewer customers. The closure lasts six weeks. Repairs cost 4 million.")

	assert.Equal(t, KeySentences(SplitRegex(text)), KeySentences(SplitUAX29(text)))
}
