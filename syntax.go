package gradeview

// Token is a highlighted run of submission source text.
type Token struct {
	Text  string
	Style TokenStyle
}

// TokenStyle is how a Token is drawn in a source listing. An empty
// Foreground keeps the terminal default.
type TokenStyle struct {
	Foreground string
	Bold       bool
}

// Tokenizer highlights submission sources for source listings.
type Tokenizer interface {
	// TokenizeLines splits source into lines of highlighted tokens.
	// Unknown languages yield unstyled lines.
	TokenizeLines(language, source string) [][]Token
}

// LanguageDetector names the language of a source file from its path,
// or returns "" when it cannot tell.
type LanguageDetector interface {
	DetectFromPath(path string) string
}
