package port

import "context"

// Correction is one grammar or spelling mistake and its suggested fix.
type Correction struct {
	Mistake    string `json:"mistake"`
	Suggestion string `json:"suggestion"`
}

// GrammarReport is the result of a grammar check.
type GrammarReport struct {
	Corrections   []Correction
	CorrectedText string
}

// GrammarChecker finds grammar and spelling mistakes and returns the text
// with suggestions applied.
type GrammarChecker interface {
	Check(ctx context.Context, text string) (*GrammarReport, error)
}

// CitationChecker counts in-text citations that have no matching entry in the
// essay's reference section.
type CitationChecker interface {
	MissingReferences(ctx context.Context, text string) (int, error)
}

// EssayModel scores essay text on a single quality trait. Scores are in [0,1],
// higher is better.
type EssayModel interface {
	Evaluate(ctx context.Context, text string) (float64, error)
}

// KeywordCount is the number of times a keyword occurs in a text.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// KeywordCounter counts configured keywords in a text.
type KeywordCounter interface {
	Occurrence(text string) []KeywordCount
}
