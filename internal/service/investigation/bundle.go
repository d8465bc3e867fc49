package investigation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/pkg/errors"
)

// Bundle is a saved acquisition run: the subject and one capture per platform.
type Bundle struct {
	Subject  domain.Subject         `json:"subject"`
	Captures []domain.CaptureInput `json:"captures"`
}

// Platforms lists the captured platforms in bundle order.
func (b *Bundle) Platforms() []string {
	out := make([]string, 0, len(b.Captures))
	for _, c := range b.Captures {
		out = append(out, c.Platform)
	}
	return out
}

func LoadBundle(r io.Reader) (*Bundle, error) {
	var bundle Bundle
	if err := json.NewDecoder(r).Decode(&bundle); err != nil {
		return nil, errors.NewFatalInitError("failed to decode capture bundle", "bundle", err)
	}
	return &bundle, nil
}

// BundleCollector replays the captures of a Bundle.
type BundleCollector struct {
	captures map[string]domain.CaptureInput
}

func NewBundleCollector(bundle *Bundle) *BundleCollector {
	captures := make(map[string]domain.CaptureInput, len(bundle.Captures))
	for _, c := range bundle.Captures {
		if _, ok := captures[c.Platform]; !ok {
			captures[c.Platform] = c
		}
	}
	return &BundleCollector{captures: captures}
}

func (c *BundleCollector) Collect(ctx context.Context, platform string, _ domain.Subject) (domain.CaptureInput, error) {
	if err := ctx.Err(); err != nil {
		return domain.CaptureInput{}, err
	}
	input, ok := c.captures[platform]
	if !ok {
		return domain.CaptureInput{}, errors.NewPlatformError(platform, domain.ErrorPlatformFetchError,
			fmt.Errorf("no capture in bundle"))
	}
	return input, nil
}
