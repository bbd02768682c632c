package model

// Locale codes supported by question and option translations. Polish is the
// source language and is mandatory for every imported question.
var Locales = []string{"pl", "en", "de", "ua"}

var (
	AnswerKeys       = []string{"T", "N", "A", "B", "C"}
	YesNoKeys        = []string{"T", "N"}
	SingleChoiceKeys = []string{"A", "B", "C"}
)

var QuestionWeights = []int{1, 2, 3}

const (
	BasicQuestionTimeLimitSeconds      = 35
	SpecialistQuestionTimeLimitSeconds = 50
)

func IsLocale(code string) bool {
	return contains(Locales, code)
}

func IsAnswerKey(key string) bool {
	return contains(AnswerKeys, key)
}

func IsYesNoKey(key string) bool {
	return contains(YesNoKeys, key)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
