package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/set-night/ptucalc/internal/config"
	"github.com/set-night/ptucalc/internal/domain"
)

// Selection is what a chat has chosen so far: the inputs of one evaluation.
type Selection struct {
	Model       string
	Term        domain.Term
	Workload    domain.WorkloadSpec
	HasWorkload bool
	ManualUnits *float64
}

// Session is the state of one chat: the current selection and the results
// it collected, in the order they were added.
type Session struct {
	ChatID int64

	mu       sync.Mutex
	sel      Selection
	results  []domain.ComparisonResult
	lastSeen time.Time
	now      func() time.Time
}

func newSession(chatID int64, term domain.Term, now func() time.Time) *Session {
	return &Session{
		ChatID:   chatID,
		sel:      Selection{Term: term},
		lastSeen: now(),
		now:      now,
	}
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.sel
	sel.Workload.Images = append([]domain.ImageInput(nil), s.sel.Workload.Images...)
	if s.sel.ManualUnits != nil {
		u := *s.sel.ManualUnits
		sel.ManualUnits = &u
	}
	return sel
}

func (s *Session) SelectModel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Model = name
}

func (s *Session) SetTerm(term domain.Term) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Term = term
}

// SetWorkload replaces the text workload and keeps the attached images.
func (s *Session) SetWorkload(w domain.WorkloadSpec) error {
	w.Images = nil
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Images = s.sel.Workload.Images
	s.sel.Workload = w
	s.sel.HasWorkload = true
	return nil
}

func (s *Session) AddImage(img domain.ImageInput) error {
	if err := img.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sel.Workload.Images) >= config.MaxImagesPerWorkload {
		return fmt.Errorf("%w: at most %d images per request", domain.ErrInvalidArgument, config.MaxImagesPerWorkload)
	}
	s.sel.Workload.Images = append(s.sel.Workload.Images, img)
	return nil
}

func (s *Session) ClearImages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Workload.Images = nil
}

// SetManualUnits sets the required unit count used instead of the family
// formula; nil goes back to the formula.
func (s *Session) SetManualUnits(units *float64) error {
	if units != nil && *units < 0 {
		return fmt.Errorf("%w: unit count must be >= 0", domain.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.ManualUnits = units
	return nil
}

// Add stamps r with an ID and creation time and appends it.
func (s *Session) Add(r domain.ComparisonResult) (domain.ComparisonResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.results) >= config.MaxResultsPerSession {
		return domain.ComparisonResult{}, fmt.Errorf("%w: at most %d results, /clear first", domain.ErrInvalidArgument, config.MaxResultsPerSession)
	}
	r.ID = uuid.New()
	r.CreatedAt = s.now()
	s.results = append(s.results, r)
	return r, nil
}

// Results returns a copy of the collected results, oldest first.
func (s *Session) Results() []domain.ComparisonResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ComparisonResult, len(s.results))
	copy(out, s.results)
	return out
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionService holds one Session per chat. Sessions live in memory only.
type SessionService struct {
	defaultTerm domain.Term
	now         func() time.Time

	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewSessionService(defaultTerm domain.Term) *SessionService {
	return &SessionService{
		defaultTerm: defaultTerm,
		now:         time.Now,
		sessions:    make(map[int64]*Session),
	}
}

// FindOrCreate returns the chat's session, creating it on first use.
func (s *SessionService) FindOrCreate(chatID int64) *Session {
	s.mu.Lock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = newSession(chatID, s.defaultTerm, s.now)
		s.sessions[chatID] = sess
	}
	s.mu.Unlock()

	sess.touch()
	return sess
}

// Reset drops the chat's session and starts a fresh one.
func (s *SessionService) Reset(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := newSession(chatID, s.defaultTerm, s.now)
	s.sessions[chatID] = sess
	return sess
}

// Prune drops sessions idle for longer than maxIdle and returns how many
// were dropped.
func (s *SessionService) Prune(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *SessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
