package chroma

import (
	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/fwojciec/gradeview"
)

// StyleFromPalette returns a function that maps chroma token types to
// gradeview styles based on the provided palette colors.
func StyleFromPalette(p gradeview.Palette) StyleFunc {
	return func(tt chromalib.TokenType) gradeview.TokenStyle {
		switch {
		case tt == chromalib.KeywordType:
			return gradeview.TokenStyle{Foreground: p.Type, Bold: true}
		case tt.InCategory(chromalib.Keyword):
			return gradeview.TokenStyle{Foreground: p.Keyword, Bold: true}
		case tt.InCategory(chromalib.Comment):
			return gradeview.TokenStyle{Foreground: p.Comment}
		case tt.InSubCategory(chromalib.String):
			return gradeview.TokenStyle{Foreground: p.String}
		case tt.InSubCategory(chromalib.Number):
			return gradeview.TokenStyle{Foreground: p.Number}
		case tt.InCategory(chromalib.Operator):
			return gradeview.TokenStyle{Foreground: p.Operator}
		case tt == chromalib.NameFunction, tt == chromalib.NameFunctionMagic:
			return gradeview.TokenStyle{Foreground: p.Function}
		case tt == chromalib.NameClass, tt == chromalib.NameBuiltin:
			return gradeview.TokenStyle{Foreground: p.Type}
		case tt == chromalib.NameConstant:
			return gradeview.TokenStyle{Foreground: p.Constant}
		case tt == chromalib.Punctuation:
			return gradeview.TokenStyle{Foreground: p.Punctuation}
		default:
			return gradeview.TokenStyle{}
		}
	}
}
