package events

import "time"

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// UserScoped is implemented by event data that concerns a single user
type UserScoped interface {
	OwnerID() string
}

// SnapshotStoredData contains data for SnapshotStored events
type SnapshotStoredData struct {
	UserID     string    `json:"user_id"`
	SnapshotID string    `json:"snapshot_id"`
	AsOf       time.Time `json:"as_of"`
}

// EventType returns the event type for SnapshotStoredData
func (d *SnapshotStoredData) EventType() EventType {
	return SnapshotStored
}

// OwnerID returns the user the snapshot belongs to
func (d *SnapshotStoredData) OwnerID() string {
	return d.UserID
}

// BackupCompletedData contains data for BackupCompleted events
type BackupCompletedData struct {
	Archive string `json:"archive"`
	Rotated int    `json:"rotated"`
}

// EventType returns the event type for BackupCompletedData
func (d *BackupCompletedData) EventType() EventType {
	return BackupCompleted
}
