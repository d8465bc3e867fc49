package pipeline

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kapu/osint-footprint-go/internal/constants"
	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/service/dedup"
	"github.com/kapu/osint-footprint-go/internal/service/extract"
	"github.com/kapu/osint-footprint-go/internal/service/normalize"
	"github.com/kapu/osint-footprint-go/internal/util"
	apperrors "github.com/kapu/osint-footprint-go/pkg/errors"
	"go.uber.org/zap"
)

// Engine turns one platform's capture into a PlatformResult:
// locate -> find -> normalize -> deduplicate.
// It keeps no per-call state and is safe for concurrent use.
type Engine struct {
	table       *extract.MarkerTable
	locator     *extract.Locator
	finder      *extract.Finder
	validate    *validator.Validate
	logger      *zap.Logger
	metaMarkers map[string]bool // payloads that are flat meta-tag maps
}

// NewEngine creates an Engine. maxDepth <= 0 uses the marker table's cap.
func NewEngine(table *extract.MarkerTable, maxDepth int, logger *zap.Logger) *Engine {
	logger = util.OrNop(logger)
	metaMarkers := make(map[string]bool)
	for _, m := range table.Markers {
		if m.Rule == extract.RuleMeta {
			metaMarkers[m.Name] = true
		}
	}
	return &Engine{
		table:       table,
		locator:     extract.NewLocator(table, logger),
		finder:      extract.NewFinder(table, maxDepth, logger),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
		metaMarkers: metaMarkers,
	}
}

// MaxDepth is the generic scan's depth cap.
func (e *Engine) MaxDepth() int {
	return e.finder.MaxDepth()
}

// Process never fails: malformed input and collaborator errors become a result with an
// error tag.
func (e *Engine) Process(input domain.CaptureInput, subject domain.Subject) domain.PlatformResult {
	query := input.Query
	if query == "" {
		query = domain.QueryHandle
	}

	if err := e.validate.Struct(input); err != nil {
		e.logger.Warn("Invalid capture input",
			zap.String("platform", input.Platform),
			zap.Error(err))
		return domain.FailedResult(input.Platform, query, domain.ErrorPlatformFetchError,
			detail(fmt.Sprintf("invalid capture input: %v", err)))
	}
	if input.Error != domain.ErrorNone {
		return domain.FailedResult(input.Platform, query, input.Error, detail(input.ErrorDetail))
	}

	var text string
	if input.RawCapturedText != nil {
		text = *input.RawCapturedText
	}

	payloads := e.payloads(input, text)
	profile, posts := e.extract(input.Platform, payloads, subject)

	if profile == nil && len(posts) == 0 && e.table.DetectNotFound(input.Platform, text) {
		e.logger.Info("Platform reports subject absent", zap.String("platform", input.Platform))
		return domain.FailedResult(input.Platform, query, domain.ErrorPlatformNotFound, "")
	}

	e.logger.Debug("Capture processed",
		zap.String("platform", input.Platform),
		zap.Int("payloads", len(payloads)),
		zap.Bool("profile", profile != nil),
		zap.Int("posts", len(posts)))

	return domain.PlatformResult{
		Platform:   input.Platform,
		Found:      true,
		Query:      query,
		Profile:    profile,
		Posts:      posts,
		Engagement: Engagement(posts),
	}
}

// payloads returns the capture's payloads in marker order followed by the API payloads,
// so API detail views overwrite list views during deduplication.
func (e *Engine) payloads(input domain.CaptureInput, text string) []domain.RawPayload {
	located := e.locator.Locate(text)
	for _, failure := range located.Failures {
		e.logger.Debug("Skipping undecodable marker",
			zap.String("platform", input.Platform),
			zap.String("marker", failure.Marker),
			zap.Error(failure.Cause))
	}

	out := located.Payloads
	apiMarker := e.table.APIMarker().Name
	for i, raw := range input.DecodedAPIPayloads {
		payload, err := domain.NewRawPayload(apiMarker, domain.SourceAPI, raw)
		if err != nil {
			failure := apperrors.NewMarkerDecodeError(apiMarker, err)
			e.logger.Debug("Skipping undecodable API payload",
				zap.String("platform", input.Platform),
				zap.Int("index", i),
				zap.Error(failure))
			continue
		}
		out = append(out, payload)
	}
	return out
}

func (e *Engine) extract(platform string, payloads []domain.RawPayload, subject domain.Subject) (*domain.CanonicalProfile, []domain.CanonicalPost) {
	normalizer := normalize.New(platform, e.table.URLTemplate(platform), e.table.IDFields(platform))
	posts := dedup.New[domain.CanonicalPost]()
	profiles := dedup.New[domain.CanonicalProfile]()

	var openGraph *domain.RawPayload
	for i := range payloads {
		payload := payloads[i]
		if e.metaMarkers[payload.Marker] {
			openGraph = &payloads[i]
			continue
		}
		for _, candidate := range e.finder.Find(payload) {
			record := normalizer.Normalize(candidate)
			switch record.Kind {
			case domain.RecordPost:
				if record.Post.ID == "" {
					continue
				}
				posts.Push(*record.Post)
			case domain.RecordProfile:
				if record.Profile.Handle == "" {
					continue
				}
				profiles.Push(*record.Profile)
			}
		}
	}

	if profiles.Len() == 0 && openGraph != nil {
		if node, ok := extract.ProfileFromOpenGraph(openGraph.Root); ok {
			profiles.Push(normalizer.Profile(node))
		}
	}

	return pickProfile(profiles.Items(), subject.Handle), posts.Items()
}

// pickProfile prefers the profile whose handle is the subject's, else the first one.
func pickProfile(profiles []domain.CanonicalProfile, handle string) *domain.CanonicalProfile {
	if len(profiles) == 0 {
		return nil
	}
	for i := range profiles {
		if util.SameHandle(profiles[i].Handle, handle) {
			return &profiles[i]
		}
	}
	return &profiles[0]
}

// Engagement totals the post counters of one platform; nil without posts. Totals
// saturate at math.MaxInt64.
func Engagement(posts []domain.CanonicalPost) *domain.Engagement {
	if len(posts) == 0 {
		return nil
	}
	var e domain.Engagement
	var top *domain.CanonicalPost
	for i := range posts {
		p := &posts[i]
		e.TotalViews = util.AddCount(e.TotalViews, p.Stats.Views)
		e.TotalLikes = util.AddCount(e.TotalLikes, p.Stats.Likes)
		e.TotalComments = util.AddCount(e.TotalComments, p.Stats.Comments)
		e.TotalShares = util.AddCount(e.TotalShares, p.Stats.Shares)
		if top == nil || p.Stats.Likes > top.Stats.Likes {
			top = p
		}
	}
	e.AverageLikes = e.TotalLikes / int64(len(posts))
	id := top.ID
	e.TopPostID = &id
	return &e
}

func detail(s string) string {
	return util.TruncateString(s, constants.StringLimits.ErrorDetail)
}
