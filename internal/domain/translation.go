package domain

import (
	"fmt"
	"unicode/utf8"
)

// MaxLangIDLength is the maximum number of characters in a language code.
const MaxLangIDLength = 10

// Translation is the text of a SourceText in one language.
// ID is generated by storage and is not a business key; a translation is
// addressed by (SID, LangID), which is unique.
type Translation struct {
	ID             int64  `json:"-"`
	SID            string `json:"sid"`
	LangID         string `json:"langId"`
	TranslatedText string `json:"text"`
}

// NewTranslation creates a Translation for the given key and language.
// Whitespace-only text is valid; empty text is not.
func NewTranslation(sid, langID, text string) (*Translation, error) {
	t := &Translation{
		SID:            sid,
		LangID:         langID,
		TranslatedText: text,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks if the Translation has valid data.
func (t *Translation) Validate() error {
	var errs ValidationErrors
	if err := ValidateSID(t.SID); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateLangID(t.LangID); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateText("text", t.TranslatedText); err != nil {
		errs = append(errs, err)
	}
	return errs.OrNil()
}

// ValidateLangID checks that langID is non-empty UTF-8 of at most
// MaxLangIDLength characters. The code is not required to be a well-formed
// BCP 47 tag.
func ValidateLangID(langID string) *ValidationError {
	if langID == "" {
		return NewValidationError("langId", "is required", ErrEmptyContent)
	}
	if !utf8.ValidString(langID) {
		return NewValidationError("langId", "must be valid UTF-8", ErrInvalidEncoding)
	}
	if utf8.RuneCountInString(langID) > MaxLangIDLength {
		return NewValidationError(
			"langId",
			fmt.Sprintf("must be at most %d characters", MaxLangIDLength),
			ErrTooLong,
		)
	}
	return nil
}
