package service

import (
	"context"
	"errors"
	"time"

	"studynotes-be/internal/dto"
	"studynotes-be/internal/entity"
	"studynotes-be/internal/navigation"
	"studynotes-be/internal/pkg/logger"
	"studynotes-be/internal/repository/memory"
	"studynotes-be/internal/repository/specification"
	"studynotes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var ErrBookmarkNotFound = errors.New("bookmark not found")

// Detached chapter fetches carry their own deadline; the originating
// HTTP request has usually completed long before the catalogue arrives.
const chapterFetchTimeout = 90 * time.Second

type INavigationService interface {
	Snapshot(userId string) *dto.ViewStateResponse
	Start(userId string) *dto.ViewStateResponse
	SelectClass(userId string, req *dto.SelectClassRequest) (*dto.ViewStateResponse, error)
	SelectSubject(userId string, req *dto.SelectSubjectRequest) (*dto.ViewStateResponse, error)
	GenerateNotes(ctx context.Context, userId string, req *dto.GenerateNotesRequest) (*dto.ViewStateResponse, error)
	OpenBookmark(ctx context.Context, userId string, req *dto.OpenBookmarkRequest) (*dto.ViewStateResponse, error)
	OpenBookmarks(userId string) *dto.ViewStateResponse
	OpenSyllabusAnalysis(userId string) *dto.ViewStateResponse
	AskTutor(userId string, req *dto.AskTutorRequest) *dto.ViewStateResponse
	ConsumeTutorQuery(userId string) *dto.ConsumedTutorQueryResponse
	ConsumeTargetSection(userId string) *dto.ConsumedTargetSectionResponse
	Back(userId string) *dto.ViewStateResponse
	ResetHome(userId string) *dto.ViewStateResponse
}

type navigationService struct {
	states       *memory.ViewStateRepository
	notesService INotesService
	uowFactory   unitofwork.RepositoryFactory
	logger       logger.ILogger
}

func NewNavigationService(
	states *memory.ViewStateRepository,
	notesService INotesService,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) INavigationService {
	return &navigationService{
		states:       states,
		notesService: notesService,
		uowFactory:   uowFactory,
		logger:       log,
	}
}

func (s *navigationService) Snapshot(userId string) *dto.ViewStateResponse {
	return snapshotToDTO(s.states.GetOrCreate(userId).Snapshot())
}

func (s *navigationService) Start(userId string) *dto.ViewStateResponse {
	state := s.states.GetOrCreate(userId)
	state.Start()
	return snapshotToDTO(state.Snapshot())
}

func (s *navigationService) SelectClass(userId string, req *dto.SelectClassRequest) (*dto.ViewStateResponse, error) {
	state := s.states.GetOrCreate(userId)
	if err := state.SelectClass(entity.ClassLevel(req.ClassLevel)); err != nil {
		return nil, err
	}
	return snapshotToDTO(state.Snapshot()), nil
}

// SelectSubject advances to topic selection immediately and fetches the
// chapter catalogue in the background. The completion is guarded by the
// fetch token, so a user who re-selects before it lands never sees the
// stale catalogue.
func (s *navigationService) SelectSubject(userId string, req *dto.SelectSubjectRequest) (*dto.ViewStateResponse, error) {
	state := s.states.GetOrCreate(userId)

	class := state.Snapshot().SelectedClass
	subject := entity.Subject(req.Subject)

	token, err := state.BeginSubjectSelect(subject)
	if err != nil {
		return nil, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), chapterFetchTimeout)
		defer cancel()

		chapters, fetchErr := s.notesService.GetChapters(ctx, class, subject)
		if fetchErr != nil {
			s.logger.Warn("NavigationService", "Chapter fetch failed", map[string]interface{}{
				"class":   string(class),
				"subject": string(subject),
				"error":   fetchErr.Error(),
			})
		}
		state.CompleteChapterFetch(token, chapters, fetchErr)
	}()

	return snapshotToDTO(state.Snapshot()), nil
}

// GenerateNotes runs synchronously: the caller waits for the note and the
// view advances only on success. A failure leaves the current view with
// retry guidance in the snapshot.
func (s *navigationService) GenerateNotes(ctx context.Context, userId string, req *dto.GenerateNotesRequest) (*dto.ViewStateResponse, error) {
	state := s.states.GetOrCreate(userId)
	snap := state.Snapshot()
	if snap.SelectedClass == "" || snap.SelectedSubject == "" {
		return nil, navigation.ErrNoClassSelected
	}

	token := state.BeginNotesFetch()

	note, err := s.notesService.GenerateNotes(ctx, userId, snap.SelectedClass, snap.SelectedSubject, req.Topic)
	if err != nil {
		state.FailNotesFetch(token)
		return nil, err
	}

	state.CompleteNotesFetch(token, note.Topic, note)
	return snapshotToDTO(state.Snapshot()), nil
}

func (s *navigationService) OpenBookmark(ctx context.Context, userId string, req *dto.OpenBookmarkRequest) (*dto.ViewStateResponse, error) {
	id, err := uuid.Parse(req.BookmarkId)
	if err != nil {
		return nil, ErrBookmarkNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	bookmark, err := uow.BookmarkRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if bookmark == nil {
		return nil, ErrBookmarkNotFound
	}

	state := s.states.GetOrCreate(userId)
	note := bookmark.NoteData
	state.OpenBookmark(&note, bookmark.SectionIndex)
	return snapshotToDTO(state.Snapshot()), nil
}

func (s *navigationService) OpenBookmarks(userId string) *dto.ViewStateResponse {
	state := s.states.GetOrCreate(userId)
	state.OpenBookmarks()
	return snapshotToDTO(state.Snapshot())
}

func (s *navigationService) OpenSyllabusAnalysis(userId string) *dto.ViewStateResponse {
	state := s.states.GetOrCreate(userId)
	state.OpenSyllabusAnalysis()
	return snapshotToDTO(state.Snapshot())
}

func (s *navigationService) AskTutor(userId string, req *dto.AskTutorRequest) *dto.ViewStateResponse {
	state := s.states.GetOrCreate(userId)
	state.AskTutor(req.Query)
	return snapshotToDTO(state.Snapshot())
}

func (s *navigationService) ConsumeTutorQuery(userId string) *dto.ConsumedTutorQueryResponse {
	query, present := s.states.GetOrCreate(userId).ConsumeTutorQuery()
	return &dto.ConsumedTutorQueryResponse{Query: query, Present: present}
}

func (s *navigationService) ConsumeTargetSection(userId string) *dto.ConsumedTargetSectionResponse {
	idx, present := s.states.GetOrCreate(userId).ConsumeTargetSection()
	return &dto.ConsumedTargetSectionResponse{SectionIndex: idx, Present: present}
}

func (s *navigationService) Back(userId string) *dto.ViewStateResponse {
	state := s.states.GetOrCreate(userId)
	state.Back()
	return snapshotToDTO(state.Snapshot())
}

func (s *navigationService) ResetHome(userId string) *dto.ViewStateResponse {
	state := s.states.GetOrCreate(userId)
	state.ResetHome()
	return snapshotToDTO(state.Snapshot())
}

func snapshotToDTO(snap navigation.Snapshot) *dto.ViewStateResponse {
	return &dto.ViewStateResponse{
		CurrentView:       string(snap.CurrentView),
		PreviousView:      string(snap.PreviousView),
		SelectedClass:     string(snap.SelectedClass),
		SelectedSubject:   string(snap.SelectedSubject),
		SelectedTopic:     snap.SelectedTopic,
		NotesData:         snap.NotesData,
		AvailableChapters: snap.AvailableChapters,
		IsLoadingChapters: snap.IsLoadingChapters,
		ChapterError:      snap.ChapterError,
		NotesError:        snap.NotesError,
	}
}
