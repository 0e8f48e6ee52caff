package domain

import (
	"fmt"
	"unicode/utf8"
)

// MaxSIDLength is the maximum number of characters in a source text key.
const MaxSIDLength = 200

// SourceText is the canonical (en-US) text of a localization string,
// identified by its SID. It owns its translations: deleting a SourceText
// deletes every Translation with the same SID.
type SourceText struct {
	SID          string        `json:"sid"`
	Text         string        `json:"text"`
	Translations []Translation `json:"translations"`
}

// NewSourceText creates a SourceText with the given key, canonical text and
// initial translations. Returns ValidationErrors if any field is invalid.
func NewSourceText(sid, text string, translations []Translation) (*SourceText, error) {
	st := &SourceText{
		SID:          sid,
		Text:         text,
		Translations: make([]Translation, 0, len(translations)),
	}
	for _, t := range translations {
		t.SID = sid
		st.Translations = append(st.Translations, t)
	}

	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

// Validate checks the source text and every attached translation.
// Two translations for the same language are rejected, since (SID, LangID)
// is unique in storage.
func (s *SourceText) Validate() error {
	var errs ValidationErrors
	if err := ValidateSID(s.SID); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateText("text", s.Text); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]struct{}, len(s.Translations))
	for i, t := range s.Translations {
		field := fmt.Sprintf("translations[%d]", i)
		if err := ValidateLangID(t.LangID); err != nil {
			errs = append(errs, NewValidationError(field+"."+err.Field, err.Message, err.Err))
		}
		if err := ValidateText(field+".text", t.TranslatedText); err != nil {
			errs = append(errs, err)
		}
		if _, dup := seen[t.LangID]; dup && t.LangID != "" {
			errs = append(errs, NewValidationError(
				field+".langId",
				fmt.Sprintf("duplicates language '%s'", t.LangID),
				nil,
			))
		}
		seen[t.LangID] = struct{}{}
	}

	return errs.OrNil()
}

// TranslationFor returns the translation for langID using exact,
// case-sensitive comparison. No regional or case fallback is applied.
func (s *SourceText) TranslationFor(langID string) (Translation, bool) {
	for _, t := range s.Translations {
		if t.LangID == langID {
			return t, true
		}
	}
	return Translation{}, false
}

// ValidateSID checks that sid is non-empty UTF-8 of at most MaxSIDLength characters.
func ValidateSID(sid string) *ValidationError {
	if sid == "" {
		return NewValidationError("sid", "is required", ErrEmptyContent)
	}
	if !utf8.ValidString(sid) {
		return NewValidationError("sid", "must be valid UTF-8", ErrInvalidEncoding)
	}
	if utf8.RuneCountInString(sid) > MaxSIDLength {
		return NewValidationError(
			"sid",
			fmt.Sprintf("must be at most %d characters", MaxSIDLength),
			ErrTooLong,
		)
	}
	return nil
}

// ValidateText checks a canonical or translated text reported under field.
// Whitespace-only text is accepted.
func ValidateText(field, text string) *ValidationError {
	if text == "" {
		return NewValidationError(field, "is required", ErrEmptyContent)
	}
	if !utf8.ValidString(text) {
		return NewValidationError(field, "must be valid UTF-8", ErrInvalidEncoding)
	}
	return nil
}
