package event

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ActivityLogHandler writes an audit entry for every CRM event it receives
type ActivityLogHandler struct {
	repo crm.ActivityLogRepository
}

// NewActivityLogHandler creates the audit trail handler
func NewActivityLogHandler(repo crm.ActivityLogRepository) *ActivityLogHandler {
	return &ActivityLogHandler{repo: repo}
}

// EventTypes lists every CRM event type
func (h *ActivityLogHandler) EventTypes() []string {
	return []string{
		crm.EventTypeLeadCreated,
		crm.EventTypeLeadUpdated,
		crm.EventTypeLeadDeleted,
		crm.EventTypeLeadConverted,
		crm.EventTypeAccountCreated,
		crm.EventTypeAccountUpdated,
		crm.EventTypeAccountDeleted,
		crm.EventTypeContactCreated,
		crm.EventTypeContactUpdated,
		crm.EventTypeContactDeleted,
		crm.EventTypeOpportunityCreated,
		crm.EventTypeOpportunityUpdated,
		crm.EventTypeOpportunityDeleted,
		crm.EventTypeNoteCreated,
		crm.EventTypeNoteDeleted,
	}
}

// Handle persists the audit entry. Events that carry no actor information
// are skipped with a warning.
func (h *ActivityLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	activity, ok := event.(crm.ActivityEvent)
	if !ok {
		logger.L(ctx).Warn("Event is not an activity event, skipping audit entry",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	entry := crm.NewActivityLog(activity)
	if err := h.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("write activity log for %s: %w", event.EventType(), err)
	}

	logger.L(ctx).Debug("Activity logged",
		zap.String("event_type", entry.EventName),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID.String()),
	)
	return nil
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
