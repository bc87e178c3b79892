package ydb

import (
	"context"
	"fmt"
	"strings"

	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result/named"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"
)

// CreateAuditLog сохраняет запись аудита
func (c *YDBClient) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	query := `
		DECLARE $id AS Text;
		DECLARE $timestamp AS Timestamp;
		DECLARE $user_id AS Optional<Text>;
		DECLARE $action_type AS Text;
		DECLARE $action_result AS Text;
		DECLARE $target_id AS Optional<Text>;
		DECLARE $ip_address AS Optional<Text>;
		DECLARE $user_agent AS Optional<Text>;
		DECLARE $details AS Json;

		INSERT INTO audit_logs (id, timestamp, user_id, action_type, action_result, target_id, ip_address, user_agent, details)
		VALUES ($id, $timestamp, $user_id, $action_type, $action_result, $target_id, $ip_address, $user_agent, $details)
	`

	return c.execute(ctx, query,
		table.ValueParam("$id", types.TextValue(log.ID)),
		table.ValueParam("$timestamp", types.TimestampValueFromTime(log.Timestamp)),
		optionalText("$user_id", log.UserID),
		table.ValueParam("$action_type", types.TextValue(log.ActionType)),
		table.ValueParam("$action_result", types.TextValue(log.ActionResult)),
		optionalText("$target_id", log.TargetID),
		optionalText("$ip_address", log.IPAddress),
		optionalText("$user_agent", log.UserAgent),
		table.ValueParam("$details", jsonOrEmpty(log.DetailsJSON, "{}")),
	)
}

// ListAuditLogs выбирает записи аудита по фильтру, новые первыми
func (c *YDBClient) ListAuditLogs(ctx context.Context, filter *AuditLogFilter) ([]*AuditLog, error) {
	if filter == nil {
		filter = &AuditLogFilter{}
	}

	declares := []string{"DECLARE $limit AS Uint64;"}
	where := []string{}
	params := []table.ParameterOption{}

	if filter.UserID != "" {
		declares = append(declares, "DECLARE $user_id AS Text;")
		where = append(where, "user_id = $user_id")
		params = append(params, table.ValueParam("$user_id", types.TextValue(filter.UserID)))
	}
	if filter.ActionType != "" {
		declares = append(declares, "DECLARE $action_type AS Text;")
		where = append(where, "action_type = $action_type")
		params = append(params, table.ValueParam("$action_type", types.TextValue(filter.ActionType)))
	}
	if filter.Result != "" {
		declares = append(declares, "DECLARE $action_result AS Text;")
		where = append(where, "action_result = $action_result")
		params = append(params, table.ValueParam("$action_result", types.TextValue(filter.Result)))
	}
	if filter.From != nil {
		declares = append(declares, "DECLARE $from AS Timestamp;")
		where = append(where, "timestamp >= $from")
		params = append(params, table.ValueParam("$from", types.TimestampValueFromTime(*filter.From)))
	}
	if filter.To != nil {
		declares = append(declares, "DECLARE $to AS Timestamp;")
		where = append(where, "timestamp <= $to")
		params = append(params, table.ValueParam("$to", types.TimestampValueFromTime(*filter.To)))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	params = append(params, table.ValueParam("$limit", types.Uint64Value(uint64(limit))))

	query := strings.Join(declares, "\n") + `
		SELECT id, timestamp, user_id, action_type, action_result, target_id, ip_address, user_agent, details
		FROM audit_logs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY timestamp DESC LIMIT $limit`

	var logs []*AuditLog

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		logs = logs[:0]
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query, table.NewQueryParameters(params...))
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				var l AuditLog
				if err := res.ScanNamed(
					named.Required("id", &l.ID),
					named.Required("timestamp", &l.Timestamp),
					named.Optional("user_id", &l.UserID),
					named.OptionalWithDefault("action_type", &l.ActionType),
					named.OptionalWithDefault("action_result", &l.ActionResult),
					named.Optional("target_id", &l.TargetID),
					named.Optional("ip_address", &l.IPAddress),
					named.Optional("user_agent", &l.UserAgent),
					named.OptionalWithDefault("details", &l.DetailsJSON),
				); err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}
				logs = append(logs, &l)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	return logs, nil
}
