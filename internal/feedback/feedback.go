// Package feedback holds the canned sentences returned to students. Tiers run
// from 0 (best) upward; out-of-range tiers resolve to the worst sentence.
package feedback

import "strings"

// FormatFlag identifies one format rule that a document violated.
type FormatFlag int

const (
	FlagFont FormatFlag = iota
	FlagSize
	FlagLineSpacing
	FlagAfterSpacing
	FlagBeforeSpacing
	FlagPageWidth
	FlagPageHeight
	FlagLeftMargin
	FlagBottomMargin
	FlagRightMargin
	FlagTopMargin
	FlagHeader
	FlagFooter
	FlagGutter
	FlagIndent
	FlagParagraphMargin

	formatFlagCount
)

// FormatFlags is the set of violated format rules.
type FormatFlags [formatFlagCount]bool

// Any reports whether at least one flag is set.
func (f FormatFlags) Any() bool {
	for _, v := range f {
		if v {
			return true
		}
	}
	return false
}

var formatSentences = [formatFlagCount]string{
	FlagFont:            "Paper uses illegal font.\n",
	FlagSize:            "Paper uses illegal font size.\n",
	FlagLineSpacing:     "Line spacing is incorrect.\n",
	FlagAfterSpacing:    "Spacing after every paragraph is incorrect.\n",
	FlagBeforeSpacing:   "Spacing before every paragraph is incorrect.\n",
	FlagPageWidth:       "Paper width is incorrect.\n",
	FlagPageHeight:      "Paper height is incorrect.\n",
	FlagLeftMargin:      "Paper margins are incorrect.\n",
	FlagBottomMargin:    "Paper margins are incorrect.\n",
	FlagRightMargin:     "Paper margins are incorrect.\n",
	FlagTopMargin:       "Paper margins are incorrect.\n",
	FlagHeader:          "Header size is incorrect.\n",
	FlagFooter:          "Footing Size is incorrect.\n",
	FlagGutter:          "Gutter size is incorrect.\n",
	FlagIndent:          "Paper indention is not correct.\n",
	FlagParagraphMargin: "Multiple paragraphs feature inconsistent margins compared to default margin.\n",
}

const formatClean = "Paper adheres to format standards correctly.\n"

var (
	grammarTiers = []string{
		"Consistent, appropriate use of conventions of Standard English for grammar, usage, spelling, capitalization, and punctuation for the grade level.\n",
		"Adequate use of conventions of Standard English for grammar, usage, spelling, capitalization, and punctuation for the grade level.\n",
		"Limited use of conventions of Standard English for grammar, usage, spelling, capitalization, and punctuation for the grade level.\n",
		"Ineffective use of conventions of Standard English for grammar, usage, spelling, capitalization, and punctuation.\n",
	}
	keywordTiers = []string{
		"Excellent use of topic keywords.\n",
		"Frequently used keywords relevant to the paper's topic.\n",
		"Only a few of the expected keywords used that are relevant to the subject.\n",
		"Failed to include any keywords pertaining to the topic.\n",
	}
	lengthTiers = []string{
		"Remained within the expected bounds of the word count.\n",
		"Failed to reduce the expected word count of the essay down to the word count maximum.\n",
		"Failed to meet the minimum expected number of words for the essay.\n",
	}
	referenceTiers = []string{
		"All references found\n",
		"Some references were missing\n",
		"Failed to properly reference a majority of the text\n",
	}
	ideaTiers = []string{
		"The ideas presented in the essay are on-topic and well-presented. The details are specific and clearly connected to the ideas.\n",
		"The ideas presented in the essay are on-topic, but the ideas and the details relating to them are not necessarily well-presented.\n",
		"The ideas presented in the essay have little to no relevance to the topic. There are few, if any, details that are connected to the ideas presented.\n",
	}
	organizationTiers = []string{
		"The flow of the essay is smooth. There are clear and logical connections between sentences.\n",
		"The flow of the essay is smooth, but rocky at some points. The connections between sentences are typically clear and logical.\n",
		"The flow of the essay lacks smoothness, and the connections between sentences are often not clear.\n",
	}
	styleTiers = []string{
		"The author has total command of their language. Sentence structure and vocabulary usage is varied, and the author effectively uses language to support their purpose.\n",
		"The author has adequate command of their language. Sentence structure and vocabulary usage are effective at communicating the author’s purpose.\n",
		"The author has poor command of their language. Sentence structure and/or vocabulary usage is repetitive, and/or the author’s language does not support their purpose.\n",
	}
)

func pick(tiers []string, tier int) string {
	if tier < 0 {
		tier = 0
	}
	if tier >= len(tiers) {
		tier = len(tiers) - 1
	}
	return tiers[tier]
}

// Grammar takes a tier in 0..3.
func Grammar(tier int) string { return pick(grammarTiers, tier) }

// Keyword takes a tier in 0..3.
func Keyword(tier int) string { return pick(keywordTiers, tier) }

// Length takes a tier in 0..2: 1 is over the maximum, 2 under the minimum.
func Length(tier int) string { return pick(lengthTiers, tier) }

// Reference takes a tier in 0..2.
func Reference(tier int) string { return pick(referenceTiers, tier) }

// Idea takes a tier in 0..2.
func Idea(tier int) string { return pick(ideaTiers, tier) }

// Organization takes a tier in 0..2.
func Organization(tier int) string { return pick(organizationTiers, tier) }

// Style takes a tier in 0..2.
func Style(tier int) string { return pick(styleTiers, tier) }

// Format lists one sentence per violated rule, in flag order.
func Format(flags FormatFlags) string {
	if !flags.Any() {
		return formatClean
	}
	var b strings.Builder
	for i, set := range flags {
		if set {
			b.WriteString(formatSentences[i])
		}
	}
	return b.String()
}
