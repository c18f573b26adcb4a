package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/study-buddy/internal/domain"
	"github.com/phrazzld/study-buddy/internal/events"
	"github.com/phrazzld/study-buddy/internal/store"
	"github.com/phrazzld/study-buddy/internal/textsource"
	"github.com/phrazzld/study-buddy/internal/timer"
)

// User-facing notification texts.
const (
	MessageNotesLoaded     = "Notes loaded"
	MessagePDFLoaded       = "PDF loaded"
	MessageTextFileLoaded  = "Text file loaded"
	MessageBookmarkSaved   = "Saved!"
	MessageStudyCompleted  = "Excellent! You completed your study!"
	MessageTimerExpired    = "Time's up! Take a break"
	messageExtractionError = "Error reading file: %s"
	messageArtifactError   = "Error: %s"
)

// TextExtractor turns an input source into notes text.
type TextExtractor interface {
	Extract(ctx context.Context, src textsource.Source) (string, error)
}

// ArtifactProducer runs one artifact request to a result value.
type ArtifactProducer interface {
	Produce(ctx context.Context, req domain.ArtifactRequest) domain.ArtifactResult
}

// NotificationInbox holds notifications until a session collects them.
type NotificationInbox interface {
	Drain(sessionID uuid.UUID) []events.Notification
	Forget(sessionID uuid.UUID)
}

// StudyService provides the operations of a study session.
type StudyService interface {
	// CreateSession starts a new empty session.
	CreateSession(ctx context.Context) (*domain.Session, error)

	// GetSession retrieves a session by its ID.
	GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)

	// EndSession stops the session's timer and discards all of its state.
	EndSession(ctx context.Context, sessionID uuid.UUID) error

	// LoadPastedNotes replaces the session notes with pasted text.
	LoadPastedNotes(ctx context.Context, sessionID uuid.UUID, text string) (*domain.Session, error)

	// LoadDocument replaces the session notes with text extracted from an upload.
	// On extraction failure the notes are cleared and the error is returned.
	LoadDocument(
		ctx context.Context,
		sessionID uuid.UUID,
		data []byte,
		mediaType textsource.MediaType,
	) (*domain.Session, error)

	// GenerateArtifact produces an artifact from the session notes.
	// Generation failures are reported in the result, not as an error.
	GenerateArtifact(
		ctx context.Context,
		sessionID uuid.UUID,
		kind domain.ArtifactKind,
		params domain.Parameters,
	) (domain.ArtifactResult, error)

	// SaveBookmark stores text in the session's single bookmark slot.
	SaveBookmark(ctx context.Context, sessionID uuid.UUID, text string) (*domain.Session, error)

	// Bookmark returns the saved bookmark and whether one exists.
	Bookmark(ctx context.Context, sessionID uuid.UUID) (string, bool, error)

	// SetProgress records the completion percentage.
	SetProgress(ctx context.Context, sessionID uuid.UUID, percent int) (*domain.Session, error)

	// StartTimer starts or restarts the session's countdown.
	StartTimer(ctx context.Context, sessionID uuid.UUID, minutes int) (timer.Status, error)

	// CancelTimer stops the session's countdown and reports whether one was running.
	CancelTimer(ctx context.Context, sessionID uuid.UUID) (bool, error)

	// TimerStatus returns the session's countdown state.
	TimerStatus(ctx context.Context, sessionID uuid.UUID) (timer.Status, error)

	// Notifications returns and clears the session's pending notifications.
	Notifications(ctx context.Context, sessionID uuid.UUID) ([]events.Notification, error)

	// PruneExpired releases the timers, locks and notifications held for
	// sessions the store no longer has, and returns how many were released.
	PruneExpired(ctx context.Context) int
}

// studyServiceImpl implements the StudyService interface
type studyServiceImpl struct {
	sessions     store.SessionStore
	extractor    TextExtractor
	producer     ArtifactProducer
	eventEmitter events.EventEmitter
	inbox        NotificationInbox
	timerOpts    []timer.Option
	logger       *slog.Logger

	// locks serializes read-modify-write cycles per session.
	locks sync.Map

	timersMu sync.Mutex
	timers   map[uuid.UUID]*timer.Timer
}

// NewStudyService creates a new StudyService.
// It returns an error if any of the required dependencies are nil.
func NewStudyService(
	sessions store.SessionStore,
	extractor TextExtractor,
	producer ArtifactProducer,
	eventEmitter events.EventEmitter,
	inbox NotificationInbox,
	logger *slog.Logger,
	timerOpts ...timer.Option,
) (StudyService, error) {
	deps := []struct {
		name  string
		isNil bool
	}{
		{"sessions", sessions == nil},
		{"extractor", extractor == nil},
		{"producer", producer == nil},
		{"eventEmitter", eventEmitter == nil},
		{"inbox", inbox == nil},
	}
	for _, d := range deps {
		if d.isNil {
			return nil, &StudyServiceError{
				Operation: "create_service",
				Message:   d.name + " cannot be nil",
			}
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		sessions:     sessions,
		extractor:    extractor,
		producer:     producer,
		eventEmitter: eventEmitter,
		inbox:        inbox,
		timerOpts:    timerOpts,
		logger:       logger.With("component", "study_service"),
		timers:       make(map[uuid.UUID]*timer.Timer),
	}, nil
}

func (s *studyServiceImpl) lock(sessionID uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CreateSession implements StudyService.
func (s *studyServiceImpl) CreateSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession()
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "failed to create session", "error", err)
		return nil, NewStudyServiceError("create_session", "failed to save session", err)
	}

	s.logger.InfoContext(ctx, "session created", "session_id", session.ID)
	return session, nil
}

// GetSession implements StudyService.
func (s *studyServiceImpl) GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, NewStudyServiceError("get_session", "failed to load session", err)
	}
	return session, nil
}

// EndSession implements StudyService.
func (s *studyServiceImpl) EndSession(ctx context.Context, sessionID uuid.UUID) error {
	unlock := s.lock(sessionID)
	defer unlock()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return NewStudyServiceError("end_session", "failed to delete session", err)
	}
	s.release(sessionID)

	s.logger.InfoContext(ctx, "session ended", "session_id", sessionID)
	return nil
}

// LoadPastedNotes implements StudyService.
func (s *studyServiceImpl) LoadPastedNotes(
	ctx context.Context,
	sessionID uuid.UUID,
	text string,
) (*domain.Session, error) {
	return s.loadNotes(ctx, sessionID, textsource.PastedText(text), MessageNotesLoaded)
}

// LoadDocument implements StudyService.
func (s *studyServiceImpl) LoadDocument(
	ctx context.Context,
	sessionID uuid.UUID,
	data []byte,
	mediaType textsource.MediaType,
) (*domain.Session, error) {
	message := MessageTextFileLoaded
	if mediaType == textsource.MediaTypePDF {
		message = MessagePDFLoaded
	}
	return s.loadNotes(ctx, sessionID, textsource.Document(data, mediaType), message)
}

func (s *studyServiceImpl) loadNotes(
	ctx context.Context,
	sessionID uuid.UUID,
	src textsource.Source,
	successMessage string,
) (*domain.Session, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, NewStudyServiceError("load_notes", "failed to load session", err)
	}

	text, extractErr := s.extractor.Extract(ctx, src)
	if extractErr != nil {
		session.ClearNotes()
	} else {
		session.ReplaceNotes(domain.NewNotesPayload(text, src.Origin()))
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "failed to save notes", "error", err, "session_id", sessionID)
		return nil, NewStudyServiceError("load_notes", "failed to save session", err)
	}

	if extractErr != nil {
		s.logger.WarnContext(ctx, "failed to extract notes",
			"error", extractErr,
			"session_id", sessionID,
			"origin", src.Origin())
		s.notify(ctx, sessionID, events.KindError, fmt.Sprintf(messageExtractionError, extractErr))
		return session, &StudyServiceError{
			Operation: "load_notes",
			Message:   "failed to extract text",
			Err:       extractErr,
		}
	}

	s.logger.InfoContext(ctx, "notes loaded",
		"session_id", sessionID,
		"origin", src.Origin(),
		"text_length", len(text))

	// An upload that yields no text gets no success toast.
	if text != "" || src.Pasted() {
		s.notify(ctx, sessionID, events.KindSuccess, successMessage)
	}
	return session, nil
}

// GenerateArtifact implements StudyService.
func (s *studyServiceImpl) GenerateArtifact(
	ctx context.Context,
	sessionID uuid.UUID,
	kind domain.ArtifactKind,
	params domain.Parameters,
) (domain.ArtifactResult, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return domain.ArtifactResult{}, NewStudyServiceError("generate_artifact", "failed to load session", err)
	}

	if session.Notes.Empty() {
		return domain.ArtifactResult{}, ErrNotesEmpty
	}

	req, err := domain.NewArtifactRequest(kind, session.Notes.Text, params)
	if err != nil {
		return domain.ArtifactResult{}, NewStudyServiceError("generate_artifact", "invalid artifact request", err)
	}

	result := s.producer.Produce(ctx, req)
	if !result.Succeeded {
		s.notify(ctx, sessionID, events.KindError, fmt.Sprintf(messageArtifactError, result.ErrorMessage))
	}

	s.logger.InfoContext(ctx, "artifact requested",
		"session_id", sessionID,
		"artifact_kind", kind,
		"succeeded", result.Succeeded)
	return result, nil
}

// SaveBookmark implements StudyService.
func (s *studyServiceImpl) SaveBookmark(
	ctx context.Context,
	sessionID uuid.UUID,
	text string,
) (*domain.Session, error) {
	session, err := s.mutate(ctx, sessionID, "save_bookmark", func(session *domain.Session) error {
		session.SaveBookmark(text)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, sessionID, events.KindSuccess, MessageBookmarkSaved)
	return session, nil
}

// Bookmark implements StudyService.
func (s *studyServiceImpl) Bookmark(ctx context.Context, sessionID uuid.UUID) (string, bool, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return "", false, NewStudyServiceError("get_bookmark", "failed to load session", err)
	}
	return session.Bookmark, session.HasBookmark, nil
}

// SetProgress implements StudyService.
func (s *studyServiceImpl) SetProgress(
	ctx context.Context,
	sessionID uuid.UUID,
	percent int,
) (*domain.Session, error) {
	session, err := s.mutate(ctx, sessionID, "set_progress", func(session *domain.Session) error {
		return session.SetProgress(percent)
	})
	if err != nil {
		return nil, err
	}

	if session.Completed() {
		s.notify(ctx, sessionID, events.KindCelebration, MessageStudyCompleted)
	}
	return session, nil
}

// StartTimer implements StudyService.
func (s *studyServiceImpl) StartTimer(
	ctx context.Context,
	sessionID uuid.UUID,
	minutes int,
) (timer.Status, error) {
	if err := domain.ValidateTimerMinutes(minutes); err != nil {
		return timer.Status{}, NewStudyServiceError("start_timer", "invalid timer duration", err)
	}

	// Held until the timer is registered so EndSession cannot interleave.
	unlock := s.lock(sessionID)
	defer unlock()

	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return timer.Status{}, NewStudyServiceError("start_timer", "failed to load session", err)
	}

	t, err := s.startTimer(sessionID, minutes)
	if err != nil {
		return timer.Status{}, NewStudyServiceError("start_timer", "failed to start timer", err)
	}

	s.logger.InfoContext(ctx, "timer started", "session_id", sessionID, "minutes", minutes)
	return t.Status(), nil
}

// CancelTimer implements StudyService.
func (s *studyServiceImpl) CancelTimer(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return false, NewStudyServiceError("cancel_timer", "failed to load session", err)
	}

	t := s.timerFor(sessionID)
	if t == nil {
		return false, nil
	}

	cancelled := t.Cancel()
	if cancelled {
		s.logger.InfoContext(ctx, "timer cancelled", "session_id", sessionID)
	}
	return cancelled, nil
}

// TimerStatus implements StudyService.
func (s *studyServiceImpl) TimerStatus(ctx context.Context, sessionID uuid.UUID) (timer.Status, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return timer.Status{}, NewStudyServiceError("timer_status", "failed to load session", err)
	}

	t := s.timerFor(sessionID)
	if t == nil {
		return timer.Status{}, nil
	}
	return t.Status(), nil
}

// Notifications implements StudyService.
func (s *studyServiceImpl) Notifications(ctx context.Context, sessionID uuid.UUID) ([]events.Notification, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, NewStudyServiceError("notifications", "failed to load session", err)
	}
	return s.inbox.Drain(sessionID), nil
}

// PruneExpired implements StudyService.
func (s *studyServiceImpl) PruneExpired(ctx context.Context) int {
	ids := make(map[uuid.UUID]struct{})
	s.timersMu.Lock()
	for id := range s.timers {
		ids[id] = struct{}{}
	}
	s.timersMu.Unlock()
	s.locks.Range(func(key, _ any) bool {
		ids[key.(uuid.UUID)] = struct{}{}
		return true
	})

	pruned := 0
	for id := range ids {
		if ctx.Err() != nil {
			break
		}
		_, err := s.sessions.GetByID(ctx, id)
		if err == nil {
			continue
		}
		if !store.IsNotFoundError(err) {
			s.logger.WarnContext(ctx, "failed to check session during prune", "error", err, "session_id", id)
			continue
		}
		s.release(id)
		pruned++
	}

	if pruned > 0 {
		s.logger.InfoContext(ctx, "released expired sessions", "count", pruned)
	}
	return pruned
}

// mutate applies fn to the stored session under the session lock and saves it.
func (s *studyServiceImpl) mutate(
	ctx context.Context,
	sessionID uuid.UUID,
	operation string,
	fn func(*domain.Session) error,
) (*domain.Session, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, NewStudyServiceError(operation, "failed to load session", err)
	}

	if err := fn(session); err != nil {
		return nil, NewStudyServiceError(operation, "invalid update", err)
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "failed to save session",
			"error", err,
			"session_id", sessionID,
			"operation", operation)
		return nil, NewStudyServiceError(operation, "failed to save session", err)
	}
	return session, nil
}

func (s *studyServiceImpl) timerFor(sessionID uuid.UUID) *timer.Timer {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	return s.timers[sessionID]
}

// startTimer starts or restarts the session's timer. Registration and start
// happen under timersMu so an expiring run cannot unregister a fresh one.
func (s *studyServiceImpl) startTimer(sessionID uuid.UUID, minutes int) (*timer.Timer, error) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	t, ok := s.timers[sessionID]
	if !ok {
		var created *timer.Timer
		created = timer.New(s.logger.With("session_id", sessionID), func() {
			s.timerExpired(sessionID, created)
		}, s.timerOpts...)
		t = created
	}

	if err := t.Start(minutes); err != nil {
		return nil, err
	}
	s.timers[sessionID] = t
	return t, nil
}

// timerExpired unregisters a finished timer and notifies the session if it still exists.
func (s *studyServiceImpl) timerExpired(sessionID uuid.UUID, t *timer.Timer) {
	s.timersMu.Lock()
	if current, ok := s.timers[sessionID]; ok && current == t && !t.Status().Running {
		delete(s.timers, sessionID)
	}
	s.timersMu.Unlock()

	ctx := context.Background()
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		s.logger.DebugContext(ctx, "dropping timer expiry for missing session",
			"error", err,
			"session_id", sessionID)
		if store.IsNotFoundError(err) {
			s.release(sessionID)
		}
		return
	}

	s.notify(ctx, sessionID, events.KindTimerExpired, MessageTimerExpired)
}

// release drops the in-process state held for a session.
func (s *studyServiceImpl) release(sessionID uuid.UUID) {
	s.timersMu.Lock()
	if t, ok := s.timers[sessionID]; ok {
		t.Cancel()
		delete(s.timers, sessionID)
	}
	s.timersMu.Unlock()

	s.inbox.Forget(sessionID)
	s.locks.Delete(sessionID)
}

// notify emits a notification. Delivery failures are logged and otherwise ignored.
func (s *studyServiceImpl) notify(ctx context.Context, sessionID uuid.UUID, kind events.Kind, message string) {
	n := events.NewNotification(sessionID, kind, message)
	if err := s.eventEmitter.EmitEvent(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit notification",
			"error", err,
			"session_id", sessionID,
			"kind", kind,
			"notification_id", n.ID)
	}
}

// IsExtractionError reports whether err came from reading an uploaded document.
func IsExtractionError(err error) bool {
	return errors.Is(err, textsource.ErrDecode) ||
		errors.Is(err, textsource.ErrExtraction) ||
		errors.Is(err, textsource.ErrUnsupportedMediaType)
}
