package extract

import (
	"strings"
	"testing"
)

func TestDefaultMarkerTable(t *testing.T) {
	table := mustTable(t)

	if table.MaxDepth != 5 {
		t.Fatalf("MaxDepth = %d, want 5", table.MaxDepth)
	}
	if table.APIMarker().Name != "API" {
		t.Fatalf("APIMarker() = %+v", table.APIMarker())
	}
	for _, m := range table.CaptureMarkers() {
		if m.Rule == RuleAPI {
			t.Fatalf("CaptureMarkers() includes api marker %s", m.Name)
		}
	}
}

func TestParseMarkerTableRejectsBadTables(t *testing.T) {
	tests := map[string]string{
		"no markers":    "max_depth: 3\n",
		"unknown rule":  "markers:\n  - name: A\n    rule: telepathy\n",
		"missing token": "markers:\n  - name: A\n    rule: script_id\n",
		"duplicate":     "markers:\n  - name: A\n    rule: raw_json\n  - name: A\n    rule: raw_json\n",
		"negative":      "max_depth: -1\nmarkers:\n  - name: A\n    rule: raw_json\n",
		"not yaml":      "markers: [",
	}
	for name, doc := range tests {
		if _, err := ParseMarkerTable([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestURLTemplate(t *testing.T) {
	table := mustTable(t)

	tiktok := table.URLTemplate("TikTok")
	if got := tiktok.Render("123", "jane"); got != "https://www.tiktok.com/@jane/video/123" {
		t.Errorf("tiktok with handle = %q", got)
	}
	if got := tiktok.Render("123", ""); got != "https://www.tiktok.com/video/123" {
		t.Errorf("tiktok id only = %q", got)
	}
	if got := table.URLTemplate("mastodon").Render("9", ""); got != "mastodon://post/9" {
		t.Errorf("generic id only = %q", got)
	}
	if got := table.IDFields("instagram"); strings.Join(got, ",") != "shortcode,code,id" {
		t.Errorf("instagram id fields = %v", got)
	}
}

func TestDetectNotFound(t *testing.T) {
	table := mustTable(t)

	if !table.DetectNotFound("tiktok", "<h1>Couldn't find this account</h1>") {
		t.Errorf("tiktok not-found phrase missed")
	}
	if table.DetectNotFound("tiktok", "<h1>jane</h1>") {
		t.Errorf("regular page flagged as not found")
	}
	if table.DetectNotFound("unknown", "page not found") {
		t.Errorf("platform without phrases flagged as not found")
	}
}
