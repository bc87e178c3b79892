package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
	ydbmocks "github.com/lumiforge/kinoteka-backend/internal/ydb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_LogAction_FillsDefaults(t *testing.T) {
	mockDB := ydbmocks.NewDatabase(t)
	service := NewService(mockDB, nil)
	ctx := context.Background()

	mockDB.On("CreateAuditLog", ctx, mock.MatchedBy(func(l *ydb.AuditLog) bool {
		return l.ID != "" &&
			!l.Timestamp.IsZero() &&
			l.ActionType == "role_changed" &&
			l.ActionResult == ActionResultSuccess &&
			l.UserID != nil && *l.UserID == "admin-1" &&
			l.TargetID != nil && *l.TargetID == "user-2" &&
			l.IPAddress == nil &&
			l.DetailsJSON == `{"role":"subscriber"}`
	})).Return(nil)

	err := service.LogAction(ctx, Record{
		UserID:     "admin-1",
		TargetID:   "user-2",
		ActionType: models.AuditRoleChanged,
		Details:    map[string]any{"role": "subscriber"},
	})
	assert.NoError(t, err)
}

func TestService_LogAction_RequiresActionType(t *testing.T) {
	service := NewService(ydbmocks.NewDatabase(t), nil)
	assert.Error(t, service.LogAction(context.Background(), Record{}))
}

func TestService_LogAction_DBError(t *testing.T) {
	mockDB := ydbmocks.NewDatabase(t)
	service := NewService(mockDB, nil)
	ctx := context.Background()

	mockDB.On("CreateAuditLog", ctx, mock.Anything).Return(errors.New("ydb down"))

	err := service.LogAction(ctx, Record{ActionType: models.AuditFilmCreated})
	assert.EqualError(t, err, "ydb down")
}

func TestService_ListAuditLogs(t *testing.T) {
	mockDB := ydbmocks.NewDatabase(t)
	service := NewService(mockDB, nil)
	ctx := context.Background()

	userID := "admin-1"
	now := time.Now()
	mockDB.On("ListAuditLogs", ctx, &ydb.AuditLogFilter{ActionType: "film_created", Limit: 10}).Return([]*ydb.AuditLog{
		{ID: "a1", Timestamp: now, UserID: &userID, ActionType: "film_created", ActionResult: "success", DetailsJSON: `{"film_id":"f1"}`},
		{ID: "a2", Timestamp: now, ActionType: "film_created", ActionResult: "failure", DetailsJSON: `not json`},
	}, nil)

	logs, err := service.ListAuditLogs(ctx, Filter{ActionType: "film_created", Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, "admin-1", logs[0].UserID)
	assert.JSONEq(t, `{"film_id":"f1"}`, string(logs[0].Details))
	assert.Equal(t, "", logs[1].UserID)
	assert.Equal(t, json.RawMessage("{}"), logs[1].Details)
}
