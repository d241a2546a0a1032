package model

import "time"

// Activity is one normalized audit record from the upstream activity
// log. (ActivityID, TenantID) is unique within the table; the upstream
// id alone repeats across tenants. Optional columns are pointers so a
// NULL means "known absent" rather than an empty value, which the
// column backfill job relies on.
type Activity struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	ActivityID string    `gorm:"size:255;not null;uniqueIndex:unique_activity,priority:1"`
	Timestamp  time.Time `gorm:"not null;index"`
	Date       string    `gorm:"size:10;not null;index"` // calendar day YYYY-MM-DD, derived from Timestamp
	Operation  string    `gorm:"size:255;not null;index"`
	UserID     string    `gorm:"size:255;index"` // email, system sentinel or application GUID
	UserKey    *string   `gorm:"size:255"`
	OrgID      *string   `gorm:"size:255;column:organization_id"`

	TenantID    string `gorm:"size:255;not null;uniqueIndex:unique_activity,priority:2;index"` // internal tenant label
	TenantLabel string `gorm:"size:255"`

	WorkspaceName *string `gorm:"size:255"`
	WorkspaceID   *string `gorm:"size:255"`
	ItemName      *string `gorm:"size:500"`
	ItemID        *string `gorm:"size:255"`
	ItemType      *string `gorm:"size:255"`
	CapacityID    *string `gorm:"size:255"`
	CapacityName  *string `gorm:"size:255"`
	ClientIP      *string `gorm:"size:45"`
	UserAgent     *string `gorm:"type:text"`

	// No column default here: gorm omits zero values from the INSERT
	// when a default tag is set, which would store false as true.
	IsSuccess bool
	Category  string `gorm:"size:100;index"`
	Severity  string `gorm:"size:20;default:info;index"`

	RawJSON string `gorm:"type:longtext"` // original event verbatim, for later re-derivation

	// Promoted from RawJSON by the column backfill job.
	ResultStatus         *string `gorm:"size:255"`
	FailureReason        *string `gorm:"type:text"`
	RequestID            *string `gorm:"size:255"`
	DistributionMethod   *string `gorm:"size:255"`
	ConsumedArtifactType *string `gorm:"size:255"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Activity) TableName() string {
	return "activities"
}
