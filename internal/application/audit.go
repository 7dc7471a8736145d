package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/example/rest-planning/internal/persistence"
)

// AuditEmitter persists audit trail events asynchronously. Emission never
// blocks the caller and a failed append never alters the outcome of the
// operation being audited; failures are logged and dropped.
type AuditEmitter struct {
	repo        persistence.AuditRepository
	logger      *slog.Logger
	idGenerator func() string
	now         func() time.Time

	events chan persistence.AuditEvent
	done   chan struct{}
	once   sync.Once
}

// NewAuditEmitter starts the background writer. buffer bounds the number of
// pending events; once full, further events are dropped with a log entry.
func NewAuditEmitter(repo persistence.AuditRepository, idGenerator func() string, now func() time.Time, buffer int, logger *slog.Logger) *AuditEmitter {
	if buffer <= 0 {
		buffer = 64
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}

	e := &AuditEmitter{
		repo:        repo,
		logger:      defaultLogger(logger),
		idGenerator: idGenerator,
		now:         now,
		events:      make(chan persistence.AuditEvent, buffer),
		done:        make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *AuditEmitter) run() {
	defer close(e.done)
	for event := range e.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := e.repo.AppendEvent(ctx, event)
		cancel()
		if err != nil {
			e.logger.Error("failed to append audit event",
				"action", event.Action,
				"entity_type", event.EntityType,
				"entity_id", event.EntityID,
				"error", err,
			)
		}
	}
}

// Emit enqueues one audit event. It never blocks: when the buffer is full the
// event is dropped and the drop is logged.
func (e *AuditEmitter) Emit(actor, action, entityType, entityID, detail string) {
	if e == nil || e.repo == nil {
		return
	}

	event := persistence.AuditEvent{
		ID:         e.idGenerator(),
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  e.now().UTC(),
	}

	select {
	case e.events <- event:
	default:
		e.logger.Warn("audit buffer full, dropping event", "action", action, "entity_id", entityID)
	}
}

// Close stops accepting events and waits for pending appends to finish.
func (e *AuditEmitter) Close() {
	if e == nil {
		return
	}
	e.once.Do(func() {
		close(e.events)
	})
	<-e.done
}
