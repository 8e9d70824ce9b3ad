package domain

// Level is the proficiency level of an exam (CEFR scale).
type Level string

// Supported levels, in ascending order.
const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
)

var levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1}

// Levels returns the supported levels in ascending order.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// Valid reports whether l is a supported level.
func (l Level) Valid() bool {
	return l.Rank() >= 0
}

// Rank returns the position of l in the ordered set, or -1.
func (l Level) Rank() int {
	for i, candidate := range levels {
		if candidate == l {
			return i
		}
	}
	return -1
}

// ParseLevel converts s into a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", NewValidationError("level", "must be one of A1 A2 B1 B2 C1", ErrInvalidEnum)
	}
	return l, nil
}

// SectionType is the skill a section tests.
type SectionType string

// Supported section types.
const (
	SectionReading   SectionType = "reading"
	SectionListening SectionType = "listening"
	SectionWriting   SectionType = "writing"
	SectionSpeaking  SectionType = "speaking"
)

// Valid reports whether t is a supported section type.
func (t SectionType) Valid() bool {
	switch t {
	case SectionReading, SectionListening, SectionWriting, SectionSpeaking:
		return true
	default:
		return false
	}
}

// ParseSectionType converts s into a SectionType.
func ParseSectionType(s string) (SectionType, error) {
	t := SectionType(s)
	if !t.Valid() {
		return "", NewValidationError("type", "must be one of reading listening writing speaking", ErrInvalidEnum)
	}
	return t, nil
}

// QuestionType determines the shape of a question's content payload.
type QuestionType string

// Supported question types.
const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFillInBlank    QuestionType = "fill_in_blank"
	QuestionEssay          QuestionType = "essay"
	QuestionAudioResponse  QuestionType = "audio_response"
)

// Valid reports whether t is a supported question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionFillInBlank, QuestionEssay, QuestionAudioResponse:
		return true
	default:
		return false
	}
}

// ParseQuestionType converts s into a QuestionType.
func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(s)
	if !t.Valid() {
		return "", NewValidationError(
			"type",
			"must be one of multiple_choice fill_in_blank essay audio_response",
			ErrInvalidEnum,
		)
	}
	return t, nil
}

// AuthProvider identifies how a user authenticates.
type AuthProvider string

// Supported providers.
const (
	ProviderEmail     AuthProvider = "email"
	ProviderGoogle    AuthProvider = "google"
	ProviderMicrosoft AuthProvider = "microsoft"
)

// Valid reports whether p is a supported provider.
func (p AuthProvider) Valid() bool {
	switch p {
	case ProviderEmail, ProviderGoogle, ProviderMicrosoft:
		return true
	default:
		return false
	}
}

// AttemptStatus is the lifecycle state of an exam attempt.
type AttemptStatus string

// Attempt states.
const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// Valid reports whether s is a known attempt status.
func (s AttemptStatus) Valid() bool {
	switch s {
	case AttemptInProgress, AttemptCompleted, AttemptAbandoned:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are allowed from s.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptCompleted || s == AttemptAbandoned
}
