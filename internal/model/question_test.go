package model

import "testing"

func TestCorrectKeyMatchesMode(t *testing.T) {
	cases := []struct {
		mode AnswerMode
		key  string
		want bool
	}{
		{AnswerModeYesNo, "T", true},
		{AnswerModeYesNo, "N", true},
		{AnswerModeYesNo, "A", false},
		{AnswerModeSingleChoice, "A", true},
		{AnswerModeSingleChoice, "C", true},
		{AnswerModeSingleChoice, "T", false},
	}
	for _, tc := range cases {
		q := Question{AnswerMode: tc.mode, CorrectKey: tc.key}
		if got := q.CorrectKeyMatchesMode(); got != tc.want {
			t.Errorf("mode %s key %s = %v, want %v", tc.mode, tc.key, got, tc.want)
		}
	}
}

func TestTranslationForFallsBackToPolish(t *testing.T) {
	q := Question{Translations: []QuestionTranslation{
		{Locale: "pl", Stem: "Pytanie"},
		{Locale: "en", Stem: "Question"},
	}}

	if got := q.TranslationFor("en").Stem; got != "Question" {
		t.Errorf("en = %q", got)
	}
	if got := q.TranslationFor("de").Stem; got != "Pytanie" {
		t.Errorf("de fallback = %q, want Polish", got)
	}

	empty := Question{}
	if empty.TranslationFor("pl") != nil {
		t.Error("no translations should yield nil")
	}
}
