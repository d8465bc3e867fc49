package extract

import (
	"strconv"

	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/service/normalize"
	"github.com/kapu/osint-footprint-go/internal/util"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// maxScanNodes bounds the generic scan of very wide payloads.
const maxScanNodes = 250_000

// Finder locates record-shaped nodes inside decoded payloads.
type Finder struct {
	maxDepth    int
	wrapperKeys []string
	markers     map[string]Marker
	logger      *zap.Logger
}

// NewFinder creates a Finder. maxDepth <= 0 uses the table's depth cap.
func NewFinder(table *MarkerTable, maxDepth int, logger *zap.Logger) *Finder {
	if maxDepth <= 0 {
		maxDepth = table.MaxDepth
	}
	markers := make(map[string]Marker, len(table.Markers))
	for _, m := range table.Markers {
		markers[m.Name] = m
	}
	return &Finder{
		maxDepth:    maxDepth,
		wrapperKeys: append([]string(nil), table.WrapperKeys...),
		markers:     markers,
		logger:      util.OrNop(logger),
	}
}

func (f *Finder) MaxDepth() int { return f.maxDepth }

// Find returns the payload's candidate records. The marker's well-known paths are tried
// first for each record kind; a kind they do not produce falls back to the generic scan.
// Profiles are returned before posts.
func (f *Finder) Find(payload domain.RawPayload) []domain.CandidateNode {
	marker := f.markers[payload.Marker]

	profiles := f.known(payload, marker.ProfilePaths, domain.RecordProfile)
	posts := f.known(payload, marker.PostPaths, domain.RecordPost)
	if len(profiles) > 0 && len(posts) > 0 {
		return append(profiles, posts...)
	}

	scanned := f.Scan(payload.Root, payload.Marker)
	if len(profiles) == 0 && len(posts) == 0 {
		return scanned
	}

	f.logger.Debug("Known paths incomplete, using generic scan for the rest",
		zap.String("marker", payload.Marker),
		zap.Int("profiles", len(profiles)),
		zap.Int("posts", len(posts)))

	if len(profiles) == 0 {
		profiles = filterKind(scanned, domain.RecordProfile)
	}
	if len(posts) == 0 {
		posts = filterKind(scanned, domain.RecordPost)
	}
	return append(profiles, posts...)
}

// known resolves paths with gjson and yields the records found at or directly below
// each path: the node itself, its list elements, or its map values, unwrapping the
// configured wrapper keys.
func (f *Finder) known(payload domain.RawPayload, paths []string, kind domain.RecordKind) []domain.CandidateNode {
	var out []domain.CandidateNode
	for _, path := range paths {
		result := gjson.GetBytes(payload.Raw, path)
		if !result.Exists() {
			continue
		}
		node := domain.FromResult(result)

		if rec, ok := f.unwrap(node, kind); ok {
			out = append(out, candidate(kind, rec, payload.Marker, path, 0))
			continue
		}
		switch node.Kind() {
		case domain.KindList:
			for i, item := range node.Items() {
				if rec, ok := f.unwrap(item, kind); ok {
					out = append(out, candidate(kind, rec, payload.Marker, path+"."+strconv.Itoa(i), 1))
				}
			}
		case domain.KindMap:
			for _, key := range node.Keys() {
				item, _ := node.Get(key)
				if rec, ok := f.unwrap(item, kind); ok {
					out = append(out, candidate(kind, rec, payload.Marker, path+"."+key, 1))
				}
			}
		}
	}
	return out
}

func (f *Finder) unwrap(node domain.Value, kind domain.RecordKind) (domain.Value, bool) {
	if normalize.Classify(node) == kind {
		return node, true
	}
	for _, key := range f.wrapperKeys {
		inner, ok := node.Get(key)
		if ok && normalize.Classify(inner) == kind {
			return inner, true
		}
	}
	return domain.Null(), false
}

// Scan walks root in pre-order and yields every map node that passes the record
// heuristic. The root is at depth 0 and nodes deeper than the depth cap are not
// visited. Descent continues below a match.
func (f *Finder) Scan(root domain.Value, marker string) []domain.CandidateNode {
	s := scan{maxDepth: f.maxDepth, marker: marker}
	s.walk(root, "$", 0)
	if s.truncated {
		f.logger.Warn("Generic scan stopped at node budget",
			zap.String("marker", marker),
			zap.Int("visited", s.visited))
	}
	return s.out
}

type scan struct {
	maxDepth  int
	marker    string
	visited   int
	truncated bool
	out       []domain.CandidateNode
}

func (s *scan) walk(node domain.Value, path string, depth int) {
	if depth > s.maxDepth || s.truncated {
		return
	}
	s.visited++
	if s.visited > maxScanNodes {
		s.truncated = true
		return
	}

	switch node.Kind() {
	case domain.KindMap:
		if kind := normalize.Classify(node); kind != domain.RecordNone {
			s.out = append(s.out, candidate(kind, node, s.marker, path, depth))
		}
		for _, key := range node.Keys() {
			child, _ := node.Get(key)
			if child.IsMap() || child.IsList() {
				s.walk(child, path+"."+key, depth+1)
			}
		}
	case domain.KindList:
		for i, item := range node.Items() {
			if item.IsMap() || item.IsList() {
				s.walk(item, path+"["+strconv.Itoa(i)+"]", depth+1)
			}
		}
	}
}

func candidate(kind domain.RecordKind, node domain.Value, marker, path string, depth int) domain.CandidateNode {
	return domain.CandidateNode{
		Kind:   kind,
		Node:   node,
		Marker: marker,
		Path:   path,
		Depth:  depth,
	}
}

func filterKind(nodes []domain.CandidateNode, kind domain.RecordKind) []domain.CandidateNode {
	var out []domain.CandidateNode
	for _, n := range nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
