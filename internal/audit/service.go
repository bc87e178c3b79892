package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
)

const (
	ActionResultSuccess = string(models.AuditResultSuccess)
	ActionResultFailure = string(models.AuditResultFailure)
)

// Service coordinates audit logging and retrieval
type Service struct {
	db  ydb.Database
	log *slog.Logger
}

// NewService builds an audit service instance
func NewService(db ydb.Database, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, log: log}
}

// Record captures runtime context of an admin action
type Record struct {
	ID           string
	Timestamp    time.Time
	UserID       string
	ActionType   models.AuditActionType
	ActionResult string
	TargetID     string
	IPAddress    string
	UserAgent    string
	Details      map[string]any
}

// Filter describes query options for reading audit events
type Filter struct {
	UserID     string
	ActionType string
	Result     string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// LogAction stores audit record synchronously. Ошибка записи логируется и возвращается,
// вызывающий код не прерывает основную операцию.
func (s *Service) LogAction(ctx context.Context, record Record) error {
	if record.ActionType == "" {
		return errors.New("action_type is required")
	}
	if record.ActionResult == "" {
		record.ActionResult = ActionResultSuccess
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	detailsJSON := "{}"
	if len(record.Details) > 0 {
		data, err := json.Marshal(record.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
		detailsJSON = string(data)
	}

	ydbRecord := &ydb.AuditLog{
		ID:           record.ID,
		Timestamp:    record.Timestamp,
		UserID:       optional(record.UserID),
		ActionType:   string(record.ActionType),
		ActionResult: record.ActionResult,
		TargetID:     optional(record.TargetID),
		IPAddress:    optional(record.IPAddress),
		UserAgent:    optional(record.UserAgent),
		DetailsJSON:  detailsJSON,
	}

	if err := s.db.CreateAuditLog(ctx, ydbRecord); err != nil {
		s.log.Error("failed to write audit log", "error", err, "action", record.ActionType)
		return err
	}
	return nil
}

// ListAuditLogs fetches stored events matching filter, newest first
func (s *Service) ListAuditLogs(ctx context.Context, filter Filter) ([]*models.AuditLog, error) {
	entries, err := s.db.ListAuditLogs(ctx, &ydb.AuditLogFilter{
		UserID:     filter.UserID,
		ActionType: filter.ActionType,
		Result:     filter.Result,
		From:       filter.From,
		To:         filter.To,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, err
	}

	result := make([]*models.AuditLog, 0, len(entries))
	for _, entry := range entries {
		modelEntry := &models.AuditLog{
			ID:           entry.ID,
			Timestamp:    entry.Timestamp,
			ActionType:   entry.ActionType,
			ActionResult: entry.ActionResult,
			UserID:       deref(entry.UserID),
			TargetID:     deref(entry.TargetID),
			IPAddress:    deref(entry.IPAddress),
			UserAgent:    deref(entry.UserAgent),
			Details:      json.RawMessage("{}"),
		}
		if entry.DetailsJSON != "" {
			if json.Valid([]byte(entry.DetailsJSON)) {
				modelEntry.Details = json.RawMessage(entry.DetailsJSON)
			} else {
				s.log.Warn("invalid audit details json", "entry_id", entry.ID)
			}
		}
		result = append(result, modelEntry)
	}

	return result, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
