package model

// VersionControl identifies how an upstream repository is addressed
type VersionControl string

const (
	// VersionControlGitHub means scm_repo is an owner/name pair on github.com
	VersionControlGitHub VersionControl = "github"

	// VersionControlGit means scm_repo is a full git URL
	VersionControlGit VersionControl = "git"
)

// VersionControls lists the accepted version_control values in display order
var VersionControls = []VersionControl{VersionControlGitHub, VersionControlGit}

// EnabledValues is the literal acceptance set for the enabled field.
// Only these spellings are accepted even though the boolean conversion is case-insensitive.
var EnabledValues = []string{"True", "true", "False", "false"}

// Field names of a tracking record, as used on the command line and in tracking files
const (
	FieldRepo           = "repo"
	FieldBranch         = "branch"
	FieldSCMRepo        = "scm_repo"
	FieldSCMBranch      = "scm_branch"
	FieldVersionControl = "version_control"
	FieldEnabled        = "enabled"
	FieldServer         = "server"
	FieldUser           = "user"
	FieldPassword       = "password"
)

// RequiredTrackingFields are the fields every add request must carry, in report order
var RequiredTrackingFields = []string{
	FieldRepo,
	FieldBranch,
	FieldSCMRepo,
	FieldSCMBranch,
	FieldVersionControl,
	FieldEnabled,
}

// TrackingRequest associates a downstream repo/branch with an upstream repo/branch
type TrackingRequest struct {
	Repo           string
	Branch         string
	SCMRepo        string
	SCMBranch      string
	VersionControl string
	Enabled        string
}

// Field returns the value of the named field, or "" for unknown names
func (r TrackingRequest) Field(name string) string {
	switch name {
	case FieldRepo:
		return r.Repo
	case FieldBranch:
		return r.Branch
	case FieldSCMRepo:
		return r.SCMRepo
	case FieldSCMBranch:
		return r.SCMBranch
	case FieldVersionControl:
		return r.VersionControl
	case FieldEnabled:
		return r.Enabled
	default:
		return ""
	}
}

// TrackingPayload is the JSON body posted to the tracking endpoint
type TrackingPayload struct {
	VersionControl string `json:"version_control"`
	SCMRepo        string `json:"scm_repo"`
	SCMBranch      string `json:"scm_branch"`
	Repo           string `json:"repo"`
	Branch         string `json:"branch"`
	Enabled        bool   `json:"enabled"`
}

// DeleteRequest removes tracking for a repo, or for a single branch of it
type DeleteRequest struct {
	Repo string

	// Branch is optional; empty deletes every branch tracked for Repo
	Branch string
}

// Table names a queryable server resource
type Table string

const (
	TableTracking Table = "tracking"
	TableIssue    Table = "issue"
)

// Tables lists the queryable tables
var Tables = []Table{TableTracking, TableIssue}

// QueryRequest filters a table listing
type QueryRequest struct {
	Table  Table
	Repo   string
	Branch string
}

// Credentials authenticate mutating calls against the tracking server
type Credentials struct {
	User     string
	Password string
}

// Record is a row of a query result as decoded from the server
type Record map[string]any

// QueryResult is a decoded table listing. Columns holds every record key in the
// order it first appears in the server's answer.
type QueryResult struct {
	Columns []string
	Records []Record
}
