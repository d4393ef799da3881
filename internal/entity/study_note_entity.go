package entity

// StudyNote is the generated study artifact. Topic, subject and class are
// denormalized from the selection at generation time and never
// re-validated afterwards. A StudyNote is immutable once generated.
type StudyNote struct {
	Topic                 string           `json:"topic"`
	Subject               string           `json:"subject"`
	ClassLevel            string           `json:"classLevel"`
	Introduction          string           `json:"introduction"`
	Sections              []NoteSection    `json:"sections"`
	Summary               string           `json:"summary"`
	ExamTips              []string         `json:"examTips"`
	SolvedQuestions       []SolvedQuestion `json:"solvedQuestions"`
	CommonMistakes        []string         `json:"commonMistakes"`
	RealWorldApplications []string         `json:"realWorldApplications"`
}

type NoteSection struct {
	Heading          string   `json:"heading"`
	ContentPoints    []string `json:"contentPoints"`
	BulletPoints     []string `json:"bulletPoints,omitempty"`
	ImportantTerms   []string `json:"importantTerms,omitempty"`
	ImageDescription string   `json:"imageDescription,omitempty"`
}

type SolvedQuestion struct {
	Question string `json:"question"`
	Solution string `json:"solution"`
}

// ChapterCategory groups chapter names under a category heading.
// Transient: re-fetched per subject selection, never persisted.
type ChapterCategory struct {
	Category string   `json:"category"`
	Chapters []string `json:"chapters"`
}
