package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/liftlog/internal/profiles"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
)

// ErrHistoryForbidden marks a read of session history that exists but
// is private to its owner. It deliberately differs from
// ErrSessionNotFound, the existence of hidden history leaks only as
// "forbidden".
var ErrHistoryForbidden = errors.New("session history is private")

// AnonymousViewer is the viewer id used for unauthenticated reads of
// public history. No real user carries it.
const AnonymousViewer = 0

type sessionsRepo interface {
	StartOrResume(ctx context.Context, ownerID int, planID *int) (_ *Session, created bool, err error)
	GetActive(ctx context.Context, ownerID int) (*Session, error)
	Get(ctx context.Context, sessionID int) (*Session, error)
	UpdateProgress(ctx context.Context, sessionID, ownerID int, params ProgressParams) (*Session, error)
	Finish(ctx context.Context, sessionID, ownerID int) (*Session, error)
	Cancel(ctx context.Context, sessionID, ownerID int) (*Session, error)
	LogSet(ctx context.Context, ownerID int, params LogSetParams) (*LoggedSet, error)
	ListForOwner(ctx context.Context, ownerID int) ([]Session, error)
	GetLoggedSets(ctx context.Context, sessionID int) ([]LoggedSet, error)
}

type profileChecker interface {
	GetByUsername(ctx context.Context, username string) (*profiles.Profile, error)
	IsPublic(ctx context.Context, userID int) (bool, error)
}

// Service drives the workout session lifecycle and gates reads of
// other users' history behind the profile visibility flag.
type Service struct {
	repo           sessionsRepo
	profileChecker profileChecker
	metrics        *metrics.Manager
}

func NewService(repo sessionsRepo, profileChecker profileChecker, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		profileChecker: profileChecker,
		metrics:        metricsManager,
	}
}

// StartOrResume returns the owner's active session, creating a fresh
// one when none is in progress. Calling it twice without a finish or
// cancel in between yields the same session.
func (s *Service) StartOrResume(ctx context.Context, ownerID int, planID *int) (_ *Session, created bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.startOrResume")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, created, err := s.repo.StartOrResume(ctx, ownerID, planID)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.metrics.CounterSessionsStarted.Inc()
	} else {
		s.metrics.CounterSessionsResumed.Inc()
	}
	return session, created, nil
}

func (s *Service) GetActive(ctx context.Context, ownerID int) (*Session, error) {
	return s.repo.GetActive(ctx, ownerID)
}

func (s *Service) UpdateProgress(ctx context.Context, sessionID, ownerID int, params ProgressParams) (*Session, error) {
	return s.repo.UpdateProgress(ctx, sessionID, ownerID, params)
}

func (s *Service) Finish(ctx context.Context, sessionID, ownerID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.repo.Finish(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	s.metrics.CounterSessionsFinished.Inc()
	return session, nil
}

func (s *Service) Cancel(ctx context.Context, sessionID, ownerID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.cancel")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.repo.Cancel(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	s.metrics.CounterSessionsCancelled.Inc()
	return session, nil
}

func (s *Service) LogSet(ctx context.Context, ownerID int, params LogSetParams) (_ *LoggedSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.logSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	loggedSet, err := s.repo.LogSet(ctx, ownerID, params)
	if err != nil {
		return nil, err
	}
	s.metrics.CounterSetsLogged.Inc()
	return loggedSet, nil
}

func (s *Service) ListForOwner(ctx context.Context, ownerID int) ([]Session, error) {
	return s.repo.ListForOwner(ctx, ownerID)
}

func (s *Service) GetWithLoggedSets(ctx context.Context, sessionID, ownerID int) (_ *Session, _ []LoggedSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.getWithLoggedSets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !session.OwnedBy(ownerID) {
		return nil, nil, ErrSessionNotFound
	}

	loggedSets, err := s.repo.GetLoggedSets(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, loggedSets, nil
}

// CanViewHistory tells whether the viewer may read the owner's session
// history: owners always may, everyone else only when the owner's
// profile is public.
func (s *Service) CanViewHistory(ctx context.Context, viewerID, ownerID int) (bool, error) {
	if viewerID == ownerID {
		return true, nil
	}
	isPublic, err := s.profileChecker.IsPublic(ctx, ownerID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check profile visibility: %w", err)
	}
	return isPublic, nil
}

// ListForUser returns the named user's session history, gated by the
// visibility rules. ErrHistoryForbidden for private history,
// profiles.ErrProfileNotFound for unknown users.
func (s *Service) ListForUser(ctx context.Context, viewerID int, username string) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.listForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	profile, err := s.profileChecker.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	canView, err := s.CanViewHistory(ctx, viewerID, profile.UserID)
	if err != nil {
		return nil, err
	}
	if !canView {
		return nil, ErrHistoryForbidden
	}

	return s.repo.ListForOwner(ctx, profile.UserID)
}

// GetPublicSession returns one session through the visibility gate. The
// session's existence is allowed to leak only as ErrHistoryForbidden,
// never silently reported as absent.
func (s *Service) GetPublicSession(ctx context.Context, viewerID, sessionID int) (_ *Session, _ []LoggedSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.getPublicSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if !session.OwnedBy(viewerID) {
		canView, err := s.CanViewHistory(ctx, viewerID, session.OwnerID)
		if err != nil {
			return nil, nil, err
		}
		if !canView {
			return nil, nil, ErrHistoryForbidden
		}
	}

	loggedSets, err := s.repo.GetLoggedSets(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, loggedSets, nil
}
