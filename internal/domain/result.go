package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorKind is the typed failure tag carried on results. The empty kind means no error
// and encodes as JSON null.
type ErrorKind string

const (
	ErrorNone                ErrorKind = ""
	ErrorMarkerDecodeFailure ErrorKind = "MarkerDecodeFailure"
	ErrorRecordHeuristicMiss ErrorKind = "RecordHeuristicMiss"
	ErrorPlatformNotFound    ErrorKind = "PlatformNotFound"
	ErrorPlatformFetchError  ErrorKind = "PlatformFetchError"
	ErrorTimedOut            ErrorKind = "TimedOut"
	ErrorFatalInit           ErrorKind = "FatalInitError"
)

func (k ErrorKind) Valid() bool {
	switch k {
	case ErrorNone, ErrorMarkerDecodeFailure, ErrorRecordHeuristicMiss, ErrorPlatformNotFound,
		ErrorPlatformFetchError, ErrorTimedOut, ErrorFatalInit:
		return true
	}
	return false
}

func (k ErrorKind) MarshalJSON() ([]byte, error) {
	if k == ErrorNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(k))
}

func (k *ErrorKind) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*k = ErrorNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind := ErrorKind(s)
	if !kind.Valid() {
		return fmt.Errorf("unknown error kind %q", s)
	}
	*k = kind
	return nil
}

// QueryKind says which subject identifier a platform check was run with.
type QueryKind string

const (
	QueryHandle   QueryKind = "handle"
	QueryName     QueryKind = "name"
	QueryEmail    QueryKind = "email"
	QueryPhone    QueryKind = "phone"
	QueryLocation QueryKind = "location"
)

// PlatformResult is the outcome of one platform check. It is not modified once built.
type PlatformResult struct {
	Platform    string            `json:"platform"`
	Found       bool              `json:"found"`
	Query       QueryKind         `json:"query"`
	Profile     *CanonicalProfile `json:"profile"`
	Posts       []CanonicalPost   `json:"posts"`
	Engagement  *Engagement       `json:"engagement,omitempty"`
	Error       ErrorKind         `json:"error"`
	ErrorDetail string            `json:"errorDetail,omitempty"`
}

// ByHandle reports whether the check was run with the subject's handle.
func (r PlatformResult) ByHandle() bool {
	return r.Query == "" || r.Query == QueryHandle
}

// FailedResult builds a not-found result carrying an error tag.
func FailedResult(platform string, query QueryKind, kind ErrorKind, detail string) PlatformResult {
	return PlatformResult{
		Platform:    platform,
		Found:       false,
		Query:       query,
		Posts:       []CanonicalPost{},
		Error:       kind,
		ErrorDetail: detail,
	}
}

// Engagement summarises the post counters of one platform.
type Engagement struct {
	TotalViews    int64   `json:"totalViews"`
	TotalLikes    int64   `json:"totalLikes"`
	TotalComments int64   `json:"totalComments"`
	TotalShares   int64   `json:"totalShares"`
	AverageLikes  int64   `json:"averageLikes"`
	TopPostID     *string `json:"topPostId"`
}
