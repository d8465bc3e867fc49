package database

import (
	"testing"
	"time"

	"github.com/kapu/osint-footprint-go/internal/domain"
)

func TestPostgresConfigDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5433, User: "osint", Password: "pw", Database: "footprint"}
	want := "host=db port=5433 user=osint password=pw dbname=footprint sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}

func TestDecodeReport(t *testing.T) {
	data := []byte(`{
		"investigationId":"run-1",
		"subject":{"handle":"jane"},
		"investigationTime":"2024-05-01T03:00:00Z",
		"platformsChecked":["tiktok"],
		"findings":{"tiktok":{"platform":"tiktok","found":false,"query":"handle","profile":null,"posts":[],"error":"TimedOut"}}
	}`)

	report, err := decodeReport(data)
	if err != nil {
		t.Fatalf("decodeReport() error = %v", err)
	}
	if report.InvestigationID != "run-1" || report.Subject.Handle != "jane" {
		t.Fatalf("report = %+v", report)
	}
	if !report.InvestigationTime.Equal(time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)) {
		t.Fatalf("time = %v", report.InvestigationTime)
	}
	if got := report.Findings["tiktok"].Error; got != domain.ErrorTimedOut {
		t.Fatalf("finding error = %q, want TimedOut", got)
	}
}

func TestDecodeReportRejectsUnknownErrorKind(t *testing.T) {
	_, err := decodeReport([]byte(`{"findings":{"x":{"error":"Exploded"}}}`))
	if err == nil {
		t.Fatal("decodeReport() should reject an unknown error tag")
	}
}
