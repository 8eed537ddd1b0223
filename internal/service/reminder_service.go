package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/domain"
	"github.com/spec-kit/ticket-reminder/internal/observability"
	"github.com/spec-kit/ticket-reminder/internal/repository"
	apperrors "github.com/spec-kit/ticket-reminder/pkg/util/errorutil"
)

// ErrRunInProgress rejects a run while another one is still dispatching.
var ErrRunInProgress = apperrors.NewConflict("a reminder run is already in progress", nil)

// ReminderOptions select which messages a run sends and where.
type ReminderOptions struct {
	AdminName                  string
	AdminEmail                 string
	RouteDelegatedThroughAdmin bool
	IncludePersonalDigest      bool
	PrintingKeywords           []string
}

// ReminderDependencies bundles collaborators for the reminder service.
type ReminderDependencies struct {
	Tickets    repository.TicketRepository
	Messenger  Messenger
	Identities *IdentityResolver
	// Runs is optional; without it runs are only logged.
	Runs    repository.ReminderRunRepository
	Metrics *observability.Metrics
	Logger  *zap.Logger
	Now     func() time.Time
}

// ReminderService turns a ticket snapshot into reminder messages.
type ReminderService struct {
	opts       ReminderOptions
	tickets    repository.TicketRepository
	messenger  Messenger
	identities *IdentityResolver
	runs       repository.ReminderRunRepository
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
	mu         sync.Mutex
}

// NewReminderService constructs the service.
func NewReminderService(opts ReminderOptions, deps ReminderDependencies) *ReminderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ReminderService{
		opts:       opts,
		tickets:    deps.Tickets,
		messenger:  deps.Messenger,
		identities: deps.Identities,
		runs:       deps.Runs,
		metrics:    deps.Metrics,
		logger:     logger.Named("reminder"),
		now:        now,
	}
}

// Run fetches a fresh snapshot, aggregates it and dispatches reminders.
// A store failure is logged and treated as an empty snapshot, so the closing
// reminder still goes out. Only overlapping runs return an error.
func (s *ReminderService) Run(ctx context.Context) (*domain.ReminderRun, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	tickets, err := s.tickets.List(ctx)
	if err != nil {
		s.logger.Error("failed to fetch tickets; continuing with none", zap.Error(err))
		tickets = nil
	}

	agg := Aggregate(tickets, AggregateOptions{PrintingKeywords: s.opts.PrintingKeywords})
	run := s.Dispatch(ctx, agg)
	run.TicketCount = len(tickets)

	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			s.logger.Warn("failed to record reminder run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}
	return run, nil
}

// Dispatch sends the reminders for one aggregation. Lookup and send failures
// are recorded on the returned run and never stop the loop.
func (s *ReminderService) Dispatch(ctx context.Context, agg *domain.Aggregation) *domain.ReminderRun {
	run := &domain.ReminderRun{ID: uuid.NewString(), StartedAt: s.now()}

	adminID, err := s.identities.ResolveEmail(ctx, s.opts.AdminEmail)
	if err != nil {
		s.logger.Error("failed to resolve administrator; admin messages will be skipped",
			zap.String("email", s.opts.AdminEmail), zap.Error(err))
		adminID = ""
	}
	adminMention := mention(adminID, s.opts.AdminName)

	if !agg.Empty() {
		run.PeopleCount = len(agg.People)
		for _, person := range agg.People {
			s.remindPerson(ctx, run, person, agg.Bucket(person), adminID, adminMention)
		}
	}

	if printing := agg.Bucket(s.opts.AdminName).Printing; !printing.Empty() {
		s.send(ctx, run, s.opts.AdminName, adminID, domain.MessagePrintingDigest, printingDigestText(adminMention, printing))
	}
	s.send(ctx, run, s.opts.AdminName, adminID, domain.MessageClosingReminder, closingReminderText)

	run.FinishedAt = s.now()
	s.logger.Info("reminder run finished",
		zap.String("run_id", run.ID),
		zap.Int("people", run.PeopleCount),
		zap.Int("sent", run.Sent),
		zap.Int("skipped", run.Skipped),
		zap.Int("failed", run.Failed),
		zap.Duration("duration", run.FinishedAt.Sub(run.StartedAt)))
	return run
}

func (s *ReminderService) remindPerson(ctx context.Context, run *domain.ReminderRun, person string, bucket *domain.PersonBucket, adminID, adminMention string) {
	delegated := bucket.Delegated
	// the administrator is reminded through the digests instead
	if person == s.opts.AdminName {
		delegated = domain.TicketList{}
	}
	wantPersonal := s.opts.IncludePersonalDigest && !bucket.Personal.Empty()
	if delegated.Empty() && !wantPersonal {
		return
	}

	personID, err := s.identities.Resolve(ctx, person)
	if err != nil {
		email, _ := s.identities.Roster().Email(person)
		s.logger.Warn("failed to resolve person; skipping",
			zap.String("person", person), zap.String("email", email), zap.Error(err))
		if !delegated.Empty() {
			s.skip(run, person, domain.MessageDelegatedReminder, err.Error())
		}
		if wantPersonal {
			s.skip(run, person, domain.MessagePersonalReminder, err.Error())
		}
		return
	}
	personMention := mention(personID, person)

	if !delegated.Empty() {
		channel := personID
		if s.opts.RouteDelegatedThroughAdmin {
			channel = adminID
		}
		s.send(ctx, run, person, channel, domain.MessageDelegatedReminder, delegatedReminderText(personMention, adminMention, delegated))
		s.send(ctx, run, person, adminID, domain.MessageAcknowledgement, acknowledgementText(personMention))
	}
	if wantPersonal {
		s.send(ctx, run, person, personID, domain.MessagePersonalReminder, personalReminderText(personMention, bucket.Personal))
	}
}

func (s *ReminderService) send(ctx context.Context, run *domain.ReminderRun, person, channel string, kind domain.MessageKind, text string) {
	if channel == "" {
		s.skip(run, person, kind, "recipient identity unresolved")
		return
	}
	d := domain.Delivery{Person: person, Channel: channel, Kind: kind, Status: domain.DeliverySent}
	if err := s.messenger.PostMessage(ctx, channel, text); err != nil {
		s.logger.Error("failed to send message",
			zap.String("person", person), zap.String("kind", string(kind)), zap.Error(err))
		d.Status = domain.DeliveryFailed
		d.Reason = err.Error()
	}
	d.At = s.now()
	run.Record(d)
	s.metrics.RecordDelivery(kind, d.Status)
}

func (s *ReminderService) skip(run *domain.ReminderRun, person string, kind domain.MessageKind, reason string) {
	run.Record(domain.Delivery{Person: person, Kind: kind, Status: domain.DeliverySkipped, Reason: reason, At: s.now()})
	s.metrics.RecordDelivery(kind, domain.DeliverySkipped)
}

// RecentRuns lists the latest recorded runs.
func (s *ReminderService) RecentRuns(ctx context.Context, limit int) ([]domain.ReminderRun, error) {
	if s.runs == nil {
		return nil, apperrors.NewUnavailable("reminder run log", errors.New("postgres not configured"))
	}
	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewUnavailable("reminder run log", err)
	}
	return runs, nil
}

// RunDeliveries lists the message attempts of one recorded run.
func (s *ReminderService) RunDeliveries(ctx context.Context, runID string) ([]domain.Delivery, error) {
	if s.runs == nil {
		return nil, apperrors.NewUnavailable("reminder run log", errors.New("postgres not configured"))
	}
	if _, err := uuid.Parse(runID); err != nil {
		return nil, apperrors.NewValidationError("invalid run id", map[string]any{"run_id": runID})
	}
	deliveries, err := s.runs.ListDeliveries(ctx, runID)
	if err != nil {
		return nil, apperrors.NewUnavailable("reminder run log", err)
	}
	return deliveries, nil
}
