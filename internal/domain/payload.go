package domain

import "fmt"

// PayloadSource says where a RawPayload came from.
type PayloadSource string

const (
	SourceCapture PayloadSource = "capture"
	SourceAPI     PayloadSource = "api"
)

// RawPayload is a decoded embedded-data block plus the marker that produced it.
// It lives only for the duration of one extraction.
type RawPayload struct {
	Marker string
	Source PayloadSource
	Raw    []byte
	Root   Value
}

// NewRawPayload decodes raw JSON into a payload tagged with its marker.
func NewRawPayload(marker string, source PayloadSource, raw []byte) (RawPayload, error) {
	root, err := ParseJSON(raw)
	if err != nil {
		return RawPayload{}, fmt.Errorf("marker %s: %w", marker, err)
	}
	return RawPayload{
		Marker: marker,
		Source: source,
		Raw:    raw,
		Root:   root,
	}, nil
}

// RecordKind classifies a candidate node.
type RecordKind int

const (
	RecordNone RecordKind = iota
	RecordPost
	RecordProfile
)

func (k RecordKind) String() string {
	switch k {
	case RecordPost:
		return "post"
	case RecordProfile:
		return "profile"
	default:
		return "none"
	}
}

// CandidateNode is a map subtree that passed the record heuristic.
type CandidateNode struct {
	Kind   RecordKind
	Node   Value
	Marker string
	Path   string
	Depth  int
}
