package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/util"
	apperrors "github.com/kapu/osint-footprint-go/pkg/errors"
	"go.uber.org/zap"
)

// Locator isolates and decodes embedded-data blocks in captured page text.
type Locator struct {
	markers []Marker
	logger  *zap.Logger
}

// LocateResult holds the payloads that decoded, in marker order, plus the markers whose
// block was present but malformed.
type LocateResult struct {
	Payloads []domain.RawPayload
	Failures []*apperrors.MarkerDecodeError
}

// Get returns the payload produced by the named marker.
func (r LocateResult) Get(marker string) (domain.RawPayload, bool) {
	for _, p := range r.Payloads {
		if p.Marker == marker {
			return p, true
		}
	}
	return domain.RawPayload{}, false
}

func (r LocateResult) Names() []string {
	names := make([]string, 0, len(r.Payloads))
	for _, p := range r.Payloads {
		names = append(names, p.Marker)
	}
	return names
}

func NewLocator(table *MarkerTable, logger *zap.Logger) *Locator {
	return &Locator{
		markers: table.CaptureMarkers(),
		logger:  util.OrNop(logger),
	}
}

// Locate runs every marker over text. A marker that is absent or fails to decode is
// skipped; the scan always covers all markers. An empty result is not an error.
func (l *Locator) Locate(text string) LocateResult {
	var result LocateResult
	if strings.TrimSpace(text) == "" {
		return result
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		l.logger.Debug("Capture is not parseable as HTML", zap.Error(err))
		doc = nil
	}

	for _, marker := range l.markers {
		raw, present := l.isolate(doc, text, marker)
		if !present {
			continue
		}

		payload, err := domain.NewRawPayload(marker.Name, domain.SourceCapture, raw)
		if err != nil {
			failure := apperrors.NewMarkerDecodeError(marker.Name, err)
			result.Failures = append(result.Failures, failure)
			l.logger.Debug("Marker decode failed",
				zap.String("marker", marker.Name),
				zap.Int("bytes", len(raw)),
				zap.Error(err))
			continue
		}
		result.Payloads = append(result.Payloads, payload)
	}

	return result
}

func (l *Locator) isolate(doc *goquery.Document, text string, marker Marker) ([]byte, bool) {
	switch marker.Rule {
	case RuleRawJSON:
		trimmed := strings.TrimSpace(text)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return []byte(trimmed), true
		}
		return nil, false
	case RuleAssignment:
		return isolateAssignment(doc, text, marker.Token)
	}

	if doc == nil {
		return nil, false
	}

	switch marker.Rule {
	case RuleScriptID:
		script := doc.Find("script").FilterFunction(func(_ int, s *goquery.Selection) bool {
			id, ok := s.Attr("id")
			return ok && id == marker.Token
		}).First()
		if script.Length() == 0 {
			return nil, false
		}
		return []byte(strings.TrimSpace(script.Text())), true
	case RuleScriptType:
		return isolateScriptType(doc, marker.Token)
	case RuleMeta:
		return isolateMeta(doc, marker.Token)
	}
	return nil, false
}

// isolateScriptType joins every block of the given type into one JSON list. Blocks that
// do not decode are dropped; if none decode the first block is returned so the caller
// records the failure.
func isolateScriptType(doc *goquery.Document, scriptType string) ([]byte, bool) {
	var blocks []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if t, ok := s.Attr("type"); ok && strings.EqualFold(t, scriptType) {
			if body := strings.TrimSpace(s.Text()); body != "" {
				blocks = append(blocks, body)
			}
		}
	})
	if len(blocks) == 0 {
		return nil, false
	}

	valid := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if _, err := domain.ParseJSON([]byte(b)); err == nil {
			valid = append(valid, b)
		}
	}
	if len(valid) == 0 {
		return []byte(blocks[0]), true
	}
	return []byte("[" + strings.Join(valid, ",") + "]"), true
}

func isolateMeta(doc *goquery.Document, prefix string) ([]byte, bool) {
	var pairs []domain.Pair
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, ok := s.Attr("property")
		if !ok {
			key, ok = s.Attr("name")
		}
		if !ok || !strings.HasPrefix(key, prefix) {
			return
		}
		content, _ := s.Attr("content")
		pairs = append(pairs, domain.Pair{Key: key, Value: domain.NewString(content)})
	})
	if len(pairs) == 0 {
		return nil, false
	}
	raw, err := domain.NewMap(pairs...).MarshalJSON()
	if err != nil {
		return nil, false
	}
	return raw, true
}

// isolateAssignment finds `token = {...}` in script bodies, falling back to the raw text
// when the capture is not HTML.
func isolateAssignment(doc *goquery.Document, text, token string) ([]byte, bool) {
	var bodies []string
	if doc != nil {
		doc.Find("script").Each(func(_ int, s *goquery.Selection) {
			if body := s.Text(); strings.Contains(body, token) {
				bodies = append(bodies, body)
			}
		})
	}
	if len(bodies) == 0 && strings.Contains(text, token) {
		bodies = append(bodies, text)
	}

	for _, body := range bodies {
		if raw, ok := assignedLiteral(body, token); ok {
			return raw, true
		}
	}
	return nil, false
}

func assignedLiteral(body, token string) ([]byte, bool) {
	offset := 0
	for {
		idx := strings.Index(body[offset:], token)
		if idx == -1 {
			return nil, false
		}
		pos := offset + idx + len(token)
		offset = pos

		rest := strings.TrimLeft(body[pos:], " \t\r\n")
		if !strings.HasPrefix(rest, "=") {
			continue
		}
		rest = strings.TrimLeft(rest[1:], " \t\r\n")
		if literal, ok := balancedLiteral(rest); ok {
			return literal, true
		}
		// A present but unterminated literal is handed back so the decoder reports it.
		if rest != "" && (rest[0] == '{' || rest[0] == '[') {
			return []byte(rest), true
		}
	}
}

// balancedLiteral returns the JSON object or array at the start of s, honouring string
// escapes.
func balancedLiteral(s string) ([]byte, bool) {
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return nil, false
	}
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return nil, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return bytes.Clone([]byte(s[:i+1])), true
			}
		}
	}
	return nil, false
}

// String describes a result for logs.
func (r LocateResult) String() string {
	return fmt.Sprintf("payloads=%v failures=%d", r.Names(), len(r.Failures))
}
