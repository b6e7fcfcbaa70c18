package page

import (
	"sync"

	"github.com/pemistahl/lingua-go"
)

// minLanguageSample is the shortest text worth running detection on.
const minLanguageSample = 20

var detector = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English, lingua.Hindi, lingua.French, lingua.German,
			lingua.Spanish, lingua.Portuguese, lingua.Italian,
			lingua.Japanese, lingua.Chinese, lingua.Arabic,
		).
		WithLowAccuracyMode().
		Build()
})

// DetectLanguage returns the English name of the language text is written
// in, or false for short or ambiguous text.
func DetectLanguage(text string) (string, bool) {
	if len([]rune(text)) < minLanguageSample {
		return "", false
	}
	lang, ok := detector().DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return lang.String(), true
}
