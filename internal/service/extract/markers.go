package extract

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/kapu/osint-footprint-go/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed markers.yaml
var defaultMarkersYAML []byte

const defaultMaxDepth = 5

// Rule selects how a marker isolates its payload inside captured text.
type Rule string

const (
	RuleScriptID   Rule = "script_id"   // <script id="token">
	RuleScriptType Rule = "script_type" // <script type="token">, every block
	RuleAssignment Rule = "assignment"  // token = {...}; inside any script
	RuleMeta       Rule = "meta"        // <meta property|name="token...">
	RuleRawJSON    Rule = "raw_json"    // the whole capture is a JSON document
	RuleAPI        Rule = "api"         // decoded API payloads handed over directly
)

type Marker struct {
	Name         string   `yaml:"name"`
	Token        string   `yaml:"token"`
	Rule         Rule     `yaml:"rule"`
	PostPaths    []string `yaml:"post_paths"`
	ProfilePaths []string `yaml:"profile_paths"`
}

type PlatformSpec struct {
	PostURL       string   `yaml:"post_url"`
	PostURLIDOnly string   `yaml:"post_url_id_only"`
	NotFound      []string `yaml:"not_found"`
	// IDFields overrides the post id aliases when permalinks use another key.
	IDFields []string `yaml:"id_fields"`
}

// MarkerTable is the declarative description of every known embedded-data marker and
// platform.
type MarkerTable struct {
	MaxDepth    int                     `yaml:"max_depth"`
	WrapperKeys []string                `yaml:"wrapper_keys"`
	Markers     []Marker                `yaml:"markers"`
	Platforms   map[string]PlatformSpec `yaml:"platforms"`
}

// DefaultMarkerTable returns the embedded table.
func DefaultMarkerTable() (*MarkerTable, error) {
	return ParseMarkerTable(defaultMarkersYAML)
}

// LoadMarkerTable reads a table from path, or the embedded one when path is empty.
func LoadMarkerTable(path string) (*MarkerTable, error) {
	if path == "" {
		return DefaultMarkerTable()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read marker table: %w", err)
	}
	return ParseMarkerTable(data)
}

func ParseMarkerTable(data []byte) (*MarkerTable, error) {
	var table MarkerTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse marker table: %w", err)
	}
	if err := table.validate(); err != nil {
		return nil, err
	}
	if table.MaxDepth == 0 {
		table.MaxDepth = defaultMaxDepth
	}
	if table.Platforms == nil {
		table.Platforms = map[string]PlatformSpec{}
	}
	return &table, nil
}

func (t *MarkerTable) validate() error {
	if t.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	if len(t.Markers) == 0 {
		return fmt.Errorf("marker table has no markers")
	}
	seen := make(map[string]struct{}, len(t.Markers))
	for i, m := range t.Markers {
		if m.Name == "" {
			return fmt.Errorf("marker #%d has no name", i)
		}
		if _, dup := seen[m.Name]; dup {
			return fmt.Errorf("marker %s defined twice", m.Name)
		}
		seen[m.Name] = struct{}{}

		switch m.Rule {
		case RuleScriptID, RuleScriptType, RuleAssignment, RuleMeta:
			if m.Token == "" {
				return fmt.Errorf("marker %s: rule %s needs a token", m.Name, m.Rule)
			}
		case RuleRawJSON, RuleAPI:
		default:
			return fmt.Errorf("marker %s: unknown rule %q", m.Name, m.Rule)
		}
	}
	return nil
}

// Marker looks a marker up by name.
func (t *MarkerTable) Marker(name string) (Marker, bool) {
	for _, m := range t.Markers {
		if m.Name == name {
			return m, true
		}
	}
	return Marker{}, false
}

// CaptureMarkers returns the markers applied to raw captured text, in table order.
func (t *MarkerTable) CaptureMarkers() []Marker {
	out := make([]Marker, 0, len(t.Markers))
	for _, m := range t.Markers {
		if m.Rule != RuleAPI {
			out = append(out, m)
		}
	}
	return out
}

// APIMarker returns the marker used to tag decoded API payloads.
func (t *MarkerTable) APIMarker() Marker {
	for _, m := range t.Markers {
		if m.Rule == RuleAPI {
			return m
		}
	}
	return Marker{Name: "API", Rule: RuleAPI}
}

// URLTemplate returns the permalink template for a platform.
func (t *MarkerTable) URLTemplate(platform string) domain.PostURLTemplate {
	spec, ok := t.Platforms[strings.ToLower(platform)]
	if !ok || (spec.PostURL == "" && spec.PostURLIDOnly == "") {
		return domain.GenericPostURLTemplate(platform)
	}
	tmpl := domain.PostURLTemplate{WithHandle: spec.PostURL, IDOnly: spec.PostURLIDOnly}
	if tmpl.IDOnly == "" {
		tmpl.IDOnly = domain.GenericPostURLTemplate(platform).IDOnly
	}
	return tmpl
}

// IDFields returns the platform's post id override, or nil.
func (t *MarkerTable) IDFields(platform string) []string {
	return t.Platforms[strings.ToLower(platform)].IDFields
}

// DetectNotFound reports whether captured text carries one of the platform's
// "account does not exist" phrases.
func (t *MarkerTable) DetectNotFound(platform, text string) bool {
	spec, ok := t.Platforms[strings.ToLower(platform)]
	if !ok || len(spec.NotFound) == 0 || text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, phrase := range spec.NotFound {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
