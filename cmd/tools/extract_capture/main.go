package main

import (
	"encoding/json"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/service/extract"
	"github.com/kapu/osint-footprint-go/internal/service/pipeline"
)

// extract_capture runs the extraction engine over one saved page and prints the
// platform result.
func main() {
	platform := flag.String("platform", "", "platform name, e.g. tiktok")
	file := flag.String("file", "", "captured page (HTML or JSON)")
	apiFile := flag.String("api", "", "optional file with a JSON array of decoded API payloads")
	handle := flag.String("handle", "", "subject handle used to pick the profile")
	markers := flag.String("markers", "", "marker table YAML (embedded table when empty)")
	maxDepth := flag.Int("depth", 0, "generic scan depth cap (table default when 0)")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if *platform == "" || *file == "" {
		logger.Fatal("-platform and -file are required")
	}

	table, err := extract.LoadMarkerTable(*markers)
	if err != nil {
		logger.Fatal("failed to load marker table", zap.Error(err))
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Fatal("failed to read capture", zap.String("file", *file), zap.Error(err))
	}
	text := string(data)

	input := domain.CaptureInput{Platform: *platform, RawCapturedText: &text}
	if *apiFile != "" {
		apiData, err := os.ReadFile(*apiFile)
		if err != nil {
			logger.Fatal("failed to read API payloads", zap.String("file", *apiFile), zap.Error(err))
		}
		if err := json.Unmarshal(apiData, &input.DecodedAPIPayloads); err != nil {
			logger.Fatal("API payload file must hold a JSON array", zap.Error(err))
		}
	}

	engine := pipeline.NewEngine(table, *maxDepth, logger)
	result := engine.Process(input, domain.Subject{Handle: *handle})

	logger.Info("Capture extracted",
		zap.String("platform", result.Platform),
		zap.Bool("found", result.Found),
		zap.Bool("profile", result.Profile != nil),
		zap.Int("posts", len(result.Posts)))

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		logger.Fatal("failed to write result", zap.Error(err))
	}
}
