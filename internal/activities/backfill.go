package activities

import (
	"context"
	"encoding/json"
	"log/slog"

	"fabmon/model"
	"fabmon/params"
	"github.com/google/uuid"
)

// Alias orders here intentionally differ from ingest-time
// normalization: rows written by older versions predate some aliases,
// so the backfill re-reads the raw event with the full current list.
var (
	backfillResultStatus  = []string{"ResultStatus", "resultStatus"}
	backfillFailureReason = []string{"FailureReason", "ErrorMessage", "Error"}
	backfillRequestID     = []string{"RequestId", "requestId"}
	backfillDistribution  = []string{"DistributionMethod", "SharingAction"}
	backfillConsumedType  = []string{"ConsumedArtifactType", "ArtifactType"}
	backfillClientIP      = []string{"ClientIP", "ClientIp", "IpAddress"}
	backfillWorkspace     = []string{"WorkSpaceName", "WorkspaceName", "FolderDisplayName"}
	backfillItemName      = []string{"ArtifactName", "ReportName", "DashboardName", "DatasetName", "ItemName"}
	backfillItemType      = []string{"ItemType", "ArtifactType", "ObjectType"}
)

// BackfillColumns re-derives promoted columns from each row's stored
// raw event. Promoted columns are overwritten whenever the raw event
// carries a value; the older base columns are only filled when empty,
// except item_name which is also replaced when it holds a bare GUID
// instead of a display name. Returns the number of rows updated.
func (s *Store) BackfillColumns(ctx context.Context) (int64, error) {
	var updated int64
	var lastID uint

	for {
		var rows []model.Activity
		err := s.db.WithContext(ctx).
			Where("id > ? AND raw_json <> ''", lastID).
			Order("id ASC").
			Limit(params.BackfillScanBatch).
			Find(&rows).Error
		if err != nil {
			return updated, err
		}
		if len(rows) == 0 {
			return updated, nil
		}

		for i := range rows {
			if err := ctx.Err(); err != nil {
				return updated, err
			}
			row := &rows[i]
			lastID = row.ID

			var raw map[string]any
			if err := json.Unmarshal([]byte(row.RawJSON), &raw); err != nil {
				slog.Warn("skipping row with unparseable raw event", "id", row.ID)
				continue
			}

			changes := map[string]any{}
			setAlways(changes, "result_status", raw, backfillResultStatus)
			setAlways(changes, "failure_reason", raw, backfillFailureReason)
			setAlways(changes, "request_id", raw, backfillRequestID)
			setAlways(changes, "distribution_method", raw, backfillDistribution)
			setAlways(changes, "consumed_artifact_type", raw, backfillConsumedType)

			setIfEmpty(changes, "client_ip", row.ClientIP, raw, backfillClientIP)
			setIfEmpty(changes, "workspace_name", row.WorkspaceName, raw, backfillWorkspace)
			setIfEmpty(changes, "item_type", row.ItemType, raw, backfillItemType)
			setIfEmpty(changes, "capacity_name", row.CapacityName, raw, []string{"CapacityName"})

			if row.ItemName == nil || isGUID(*row.ItemName) {
				setAlways(changes, "item_name", raw, backfillItemName)
			}

			if len(changes) == 0 {
				continue
			}
			err := s.db.WithContext(ctx).Model(&model.Activity{}).
				Where("id = ?", row.ID).Updates(changes).Error
			if err != nil {
				return updated, err
			}
			updated++
		}
	}
}

func setAlways(changes map[string]any, column string, raw map[string]any, aliases []string) {
	if v := firstRawString(raw, aliases); v != "" {
		changes[column] = v
	}
}

func setIfEmpty(changes map[string]any, column string, current *string, raw map[string]any, aliases []string) {
	if current != nil && *current != "" {
		return
	}
	setAlways(changes, column, raw, aliases)
}

func firstRawString(raw map[string]any, aliases []string) string {
	for _, key := range aliases {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func isGUID(v string) bool {
	return uuid.Validate(v) == nil
}
