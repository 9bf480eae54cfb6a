// Package chroma provides syntax highlighting of submission sources using
// the chroma library.
package chroma

import (
	"errors"
	"strings"

	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/gradeview"
)

// Compile-time interface verification.
var _ gradeview.Tokenizer = (*Tokenizer)(nil)

// StyleFunc maps chroma token types to gradeview styles.
type StyleFunc func(chromalib.TokenType) gradeview.TokenStyle

// Tokenizer extracts syntax tokens using chroma.
type Tokenizer struct {
	styleFunc StyleFunc
}

// NewTokenizer creates a new chroma-based tokenizer with the given style function.
// Use StyleFromPalette to create a style function from a gradeview.Palette.
func NewTokenizer(styleFunc StyleFunc) (*Tokenizer, error) {
	if styleFunc == nil {
		return nil, errors.New("chroma: styleFunc cannot be nil")
	}
	return &Tokenizer{styleFunc: styleFunc}, nil
}

// Tokenize splits source code into syntax-highlighted tokens for the given language.
// Returns nil if the language is not supported or an error occurs.
// Returns an empty slice for empty source.
func (t *Tokenizer) Tokenize(language, source string) []gradeview.Token {
	if source == "" {
		return []gradeview.Token{}
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return nil
	}
	lexer = chromalib.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil
	}

	var tokens []gradeview.Token
	for token := iterator(); token != chromalib.EOF; token = iterator() {
		tokens = append(tokens, gradeview.Token{
			Text:  token.Value,
			Style: t.styleFunc(token.Type),
		})
	}
	return tokens
}

// TokenizeLines tokenizes source with full context, then splits tokens by
// line so multi-line comments keep their style on every line.
// Unsupported languages fall back to unstyled lines.
func (t *Tokenizer) TokenizeLines(language, source string) [][]gradeview.Token {
	tokens := t.Tokenize(language, source)
	if tokens == nil {
		tokens = []gradeview.Token{{Text: source}}
	}
	return splitTokensByLine(tokens)
}

// splitTokensByLine splits a flat list of tokens into per-line token slices.
// A trailing newline does not start an extra empty line.
func splitTokensByLine(tokens []gradeview.Token) [][]gradeview.Token {
	result := [][]gradeview.Token{}
	var currentLine []gradeview.Token
	pending := false

	for _, tok := range tokens {
		parts := strings.Split(tok.Text, "\n")
		for i, part := range parts {
			if part != "" {
				currentLine = append(currentLine, gradeview.Token{Text: part, Style: tok.Style})
				pending = true
			}
			if i < len(parts)-1 {
				result = append(result, currentLine)
				currentLine = nil
				pending = false
			}
		}
	}

	if pending {
		result = append(result, currentLine)
	}
	return result
}
