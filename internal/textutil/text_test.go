package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanHTML(t *testing.T) {
	in := `<p>Go 1.22 &amp; <b>range</b> loops</p><p>New&nbsp;semantics</p><script>alert(1)</script>`
	assert.Equal(t, "Go 1.22 & range loops New semantics", CleanHTML(in))
}

func TestStripHTMLKeepsLineBreaks(t *testing.T) {
	out := StripHTML("<p>Points: 12</p><p># Comments: 3</p>")
	assert.Contains(t, out, "Points: 12\n")
}

func TestFirstSentences(t *testing.T) {
	s := "First one. Second one! Third one? Fourth."
	assert.Equal(t, "First one. Second one!", FirstSentences(s, 2))
	assert.Equal(t, s, FirstSentences(s, 10))
	assert.Equal(t, "Version 1.2 is out.", FirstSentences("Version 1.2 is out.", 2))
}

func TestTruncateAfterPeriod(t *testing.T) {
	s := "One. Two. Three. Four. Five."
	assert.Equal(t, "One. Two. Three.", TruncateAfterPeriod(s, 3))
	assert.Equal(t, "No period here", TruncateAfterPeriod("No period here", 3))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "short", Truncate("short", 200))
}
