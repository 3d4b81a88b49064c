package feedback_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"iga/internal/feedback"
)

func TestGrammar_Tiers(t *testing.T) {
	assert.True(t, strings.HasPrefix(feedback.Grammar(0), "Consistent"))
	assert.True(t, strings.HasPrefix(feedback.Grammar(1), "Adequate"))
	assert.True(t, strings.HasPrefix(feedback.Grammar(2), "Limited"))
	assert.True(t, strings.HasPrefix(feedback.Grammar(3), "Ineffective"))
}

func TestTiers_OutOfRangeClamps(t *testing.T) {
	assert.Equal(t, feedback.Keyword(3), feedback.Keyword(7))
	assert.Equal(t, feedback.Keyword(0), feedback.Keyword(-1))
	assert.Equal(t, feedback.Idea(2), feedback.Idea(5))
}

func TestLength_Tiers(t *testing.T) {
	assert.Equal(t, "Remained within the expected bounds of the word count.\n", feedback.Length(0))
	assert.Contains(t, feedback.Length(1), "maximum")
	assert.Contains(t, feedback.Length(2), "minimum")
}

func TestReference_OrderedBestToWorst(t *testing.T) {
	assert.Equal(t, "All references found\n", feedback.Reference(0))
	assert.Equal(t, "Some references were missing\n", feedback.Reference(1))
	assert.Equal(t, "Failed to properly reference a majority of the text\n", feedback.Reference(2))
}

func TestFormat_NoFlags(t *testing.T) {
	assert.Equal(t, "Paper adheres to format standards correctly.\n", feedback.Format(feedback.FormatFlags{}))
}

func TestFormat_FlagsInOrder(t *testing.T) {
	var flags feedback.FormatFlags
	flags[feedback.FlagIndent] = true
	flags[feedback.FlagFont] = true
	flags[feedback.FlagLeftMargin] = true
	flags[feedback.FlagTopMargin] = true

	got := feedback.Format(flags)
	assert.Equal(t,
		"Paper uses illegal font.\n"+
			"Paper margins are incorrect.\n"+
			"Paper margins are incorrect.\n"+
			"Paper indention is not correct.\n",
		got)
}

func TestEveryTierEndsWithNewline(t *testing.T) {
	fns := []func(int) string{
		feedback.Grammar, feedback.Keyword, feedback.Length, feedback.Reference,
		feedback.Idea, feedback.Organization, feedback.Style,
	}
	for _, fn := range fns {
		for tier := 0; tier <= 3; tier++ {
			assert.True(t, strings.HasSuffix(fn(tier), "\n"))
		}
	}
}
