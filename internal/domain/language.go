package domain

import "golang.org/x/text/language"

// DefaultLanguage is the language of every SourceText's canonical text.
const DefaultLanguage = "en-US"

// IsWellFormedLanguageTag reports whether code parses as a BCP 47 tag.
// It is advisory only: language codes are stored and compared verbatim,
// so "de-de" and "de-DE" remain distinct even though both are well formed.
func IsWellFormedLanguageTag(code string) bool {
	if code == "" {
		return false
	}
	_, err := language.Parse(code)
	return err == nil
}
