package navigation

import (
	"errors"
	"sync"

	"studynotes-be/internal/entity"
)

// View is one application screen.
type View string

const (
	ViewLanding          View = "landing"
	ViewClassSelect      View = "class_select"
	ViewSubjectSelect    View = "subject_select"
	ViewTopicSelect      View = "topic_select"
	ViewNotes            View = "notes"
	ViewAiTutor          View = "ai_tutor"
	ViewSyllabusAnalysis View = "syllabus_analysis"
	ViewBookmarks        View = "bookmarks"
)

var (
	ErrNoClassSelected = errors.New("no class selected")
	ErrInvalidClass    = errors.New("invalid class level")
	ErrInvalidSubject  = errors.New("invalid subject")
)

// Snapshot is an immutable copy of the state for rendering.
type Snapshot struct {
	CurrentView       View
	PreviousView      View // empty when there is no back target
	SelectedClass     entity.ClassLevel
	SelectedSubject   entity.Subject
	SelectedTopic     string
	NotesData         *entity.StudyNote
	AvailableChapters []entity.ChapterCategory
	IsLoadingChapters bool
	ChapterError      string
	NotesError        string
}

// State is the single source of navigational truth for one user. All
// mutations are serialized under the internal mutex; asynchronous fetch
// completions are guarded by per-slot generation tokens so a stale
// completion can never overwrite newer state.
type State struct {
	mu sync.Mutex

	currentView  View
	previousView View

	selectedClass   entity.ClassLevel
	selectedSubject entity.Subject
	selectedTopic   string

	notesData         *entity.StudyNote
	availableChapters []entity.ChapterCategory
	isLoadingChapters bool
	chapterError      string
	notesError        string

	// one-shot handoff fields, consumed at most once
	tutorInitialQuery  string
	targetSectionIndex *int

	chapterGen uint64
	notesGen   uint64
}

func NewState() *State {
	return &State{currentView: ViewLanding}
}

// Start moves into class selection. A note only renders on the Notes
// view, so starting over drops it along with the topic.
func (s *State) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previousView = s.currentView
	s.currentView = ViewClassSelect
	s.selectedTopic = ""
	s.notesData = nil
	s.notesError = ""
}

// SelectClass records the class and advances to subject selection.
// Any previous subject, topic and notes selection is cleared.
func (s *State) SelectClass(level entity.ClassLevel) error {
	if !level.Valid() {
		return ErrInvalidClass
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previousView = s.currentView
	s.currentView = ViewSubjectSelect
	s.selectedClass = level
	s.selectedSubject = ""
	s.selectedTopic = ""
	s.notesData = nil
	s.availableChapters = nil
	s.chapterError = ""
	s.notesError = ""
	return nil
}

// BeginSubjectSelect records the subject, optimistically enters topic
// selection and opens a chapter-fetch slot. The returned token must be
// passed to CompleteChapterFetch.
func (s *State) BeginSubjectSelect(subject entity.Subject) (uint64, error) {
	if !subject.Valid() {
		return 0, ErrInvalidSubject
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedClass == "" {
		return 0, ErrNoClassSelected
	}
	s.previousView = s.currentView
	s.currentView = ViewTopicSelect
	s.selectedSubject = subject
	s.selectedTopic = ""
	s.notesData = nil
	s.availableChapters = nil
	s.chapterError = ""
	s.isLoadingChapters = true
	s.chapterGen++
	return s.chapterGen, nil
}

// CompleteChapterFetch applies a chapter-fetch result. A stale token is
// discarded silently: the most recent selection's result wins. A fetch
// failure is non-fatal; the view stays usable via manual topic entry.
func (s *State) CompleteChapterFetch(token uint64, chapters []entity.ChapterCategory, fetchErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.chapterGen {
		return false
	}
	s.isLoadingChapters = false
	if fetchErr != nil {
		s.availableChapters = nil
		s.chapterError = "Could not load the chapter list. Enter a topic manually."
		return true
	}
	s.availableChapters = chapters
	s.chapterError = ""
	return true
}

// BeginNotesFetch opens a notes-generation slot for the topic. The view
// does not change: Notes is entered only on success.
func (s *State) BeginNotesFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notesError = ""
	s.notesGen++
	return s.notesGen
}

// CompleteNotesFetch enters the Notes view with the generated note. A
// stale token is discarded.
func (s *State) CompleteNotesFetch(token uint64, topic string, note *entity.StudyNote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.notesGen {
		return false
	}
	s.previousView = s.currentView
	s.currentView = ViewNotes
	s.selectedTopic = topic
	s.notesData = note
	s.notesError = ""
	s.targetSectionIndex = nil
	return true
}

// FailNotesFetch keeps the current view and records retry guidance.
// Retries already happened inside the retry wrapper; this layer never
// auto-retries.
func (s *State) FailNotesFetch(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.notesGen {
		return false
	}
	s.notesError = "Could not generate notes right now. Please try again."
	return true
}

// OpenBookmark restores selection state from a saved note and enters the
// Notes view with an optional scroll target. Back from here returns to
// the bookmark library, not topic selection.
func (s *State) OpenBookmark(note *entity.StudyNote, sectionIndex *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previousView = ViewBookmarks
	s.currentView = ViewNotes
	s.selectedClass = entity.ClassLevel(note.ClassLevel)
	s.selectedSubject = entity.Subject(note.Subject)
	s.selectedTopic = note.Topic
	s.notesData = note
	s.notesError = ""
	s.targetSectionIndex = sectionIndex
}

// OpenBookmarks shows the bookmark library.
func (s *State) OpenBookmarks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentView == ViewNotes {
		s.notesData = nil
	}
	s.previousView = s.currentView
	s.currentView = ViewBookmarks
}

// OpenSyllabusAnalysis shows the syllabus upload screen.
func (s *State) OpenSyllabusAnalysis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentView == ViewNotes {
		s.notesData = nil
	}
	s.previousView = s.currentView
	s.currentView = ViewSyllabusAnalysis
}

// AskTutor hands a query off to the tutor view. The query is a one-shot
// value retrieved via ConsumeTutorQuery.
func (s *State) AskTutor(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentView == ViewNotes {
		s.notesData = nil
	}
	s.previousView = s.currentView
	s.currentView = ViewAiTutor
	s.tutorInitialQuery = query
}

// ConsumeTutorQuery returns the pending tutor handoff query at most once.
func (s *State) ConsumeTutorQuery() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tutorInitialQuery == "" {
		return "", false
	}
	q := s.tutorInitialQuery
	s.tutorInitialQuery = ""
	return q, true
}

// ConsumeTargetSection returns the pending scroll target at most once.
func (s *State) ConsumeTargetSection() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.targetSectionIndex == nil {
		return 0, false
	}
	idx := *s.targetSectionIndex
	s.targetSectionIndex = nil
	return idx, true
}

// Back returns to the previous view. The back stack is a single level;
// navigation beyond one hop is lossy. From Notes the back target depends
// on the origin: the bookmark library when the note was opened from a
// bookmark, topic selection otherwise.
func (s *State) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.previousView
	if s.currentView == ViewNotes {
		if s.previousView == ViewBookmarks {
			target = ViewBookmarks
		} else {
			target = ViewTopicSelect
		}
		s.notesData = nil
	}
	if target == "" {
		target = ViewLanding
	}
	s.previousView = ""
	s.currentView = target
}

// ResetHome returns to the landing screen and clears all transient state.
func (s *State) ResetHome() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentView = ViewLanding
	s.previousView = ""
	s.selectedClass = ""
	s.selectedSubject = ""
	s.selectedTopic = ""
	s.notesData = nil
	s.availableChapters = nil
	s.isLoadingChapters = false
	s.chapterError = ""
	s.notesError = ""
	s.tutorInitialQuery = ""
	s.targetSectionIndex = nil
}

// Snapshot copies the renderable state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	chapters := make([]entity.ChapterCategory, len(s.availableChapters))
	copy(chapters, s.availableChapters)
	return Snapshot{
		CurrentView:       s.currentView,
		PreviousView:      s.previousView,
		SelectedClass:     s.selectedClass,
		SelectedSubject:   s.selectedSubject,
		SelectedTopic:     s.selectedTopic,
		NotesData:         s.notesData,
		AvailableChapters: chapters,
		IsLoadingChapters: s.isLoadingChapters,
		ChapterError:      s.chapterError,
		NotesError:        s.notesError,
	}
}
