package activity

import "context"

// Repository is the write-only activity log
type Repository interface {
	// Append stores a new entry; ID and CreatedAt are assigned when empty
	Append(ctx context.Context, e *Entry) error
}

// Recorder appends entries on a best-effort basis. Failures are logged and
// never returned.
type Recorder interface {
	Record(ctx context.Context, actor Actor, activityType Type, details string)
}
