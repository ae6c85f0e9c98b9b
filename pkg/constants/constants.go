// Package constants provides shared constants used throughout antragsbuch.
// This includes timeouts, limits, file permissions, and the fixed values the
// wikiarguments front end expects in its question table.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// StoreOpenTimeout bounds opening and migrating the record store
	StoreOpenTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout is how long main waits for the app to release resources
	ShutdownTimeout = 5 * time.Second

	// SQLiteBusyTimeout is the busy timeout passed to SQLite in milliseconds
	SQLiteBusyTimeout = 5000
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Title constants
const (
	// MaxTitleLength is the longest display title the front end accepts
	MaxTitleLength = 100

	// TitleEllipsis is appended to shortened titles
	TitleEllipsis = "..."

	// TitleSeparator joins id and title in the display title
	TitleSeparator = ": "
)

// Question row defaults
const (
	// DefaultOwnerUserID is the wikiarguments user that owns imported questions
	DefaultOwnerUserID = 2

	// DefaultGroupID is the wikiarguments group of imported questions and tags
	DefaultGroupID = 0

	// DefaultFieldValue replaces missing optional source fields
	DefaultFieldValue = "-"
)

// Sentinels and formats
const (
	// NewRecordSentinel marks an inserted record in the update result
	NewRecordSentinel = "new record"

	// DefaultUnscheduledTag is the agenda tag of records missing from the agenda
	DefaultUnscheduledTag = "unscheduled"

	// AgendaTagPrefix is prepended to the 1-based agenda position
	AgendaTagPrefix = "TO"

	// DateFormat is the day format used for the "changed" field
	DateFormat = "02.01.2006"

	// TodayKeyword selects the run date as default "changed" value
	TodayKeyword = "today"

	// StdioPath selects stdin or stdout instead of a file
	StdioPath = "-"
)

// Store constants
const (
	// DefaultDatabaseFile is the SQLite file name under the config directory
	DefaultDatabaseFile = "wikiarguments.db"

	// ConfigDirName is the directory under $HOME used for local state
	ConfigDirName = ".antragsbuch"
)
