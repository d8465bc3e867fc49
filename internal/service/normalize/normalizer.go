package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/util"
)

// Record is the outcome of normalizing one node: a post, a profile, or nothing.
type Record struct {
	Kind    domain.RecordKind
	Post    *domain.CanonicalPost
	Profile *domain.CanonicalProfile
}

// Normalizer maps vendor-specific nodes of one platform to canonical records. It holds
// no mutable state and may be shared between goroutines.
type Normalizer struct {
	platform string
	template domain.PostURLTemplate
	idField  aliases
}

// New creates a Normalizer. idFields, when non-empty, replaces the default post id
// aliases (e.g. platforms whose permalinks use a shortcode).
func New(platform string, template domain.PostURLTemplate, idFields []string) *Normalizer {
	idField := postID
	if len(idFields) > 0 {
		idField = spellings(idFields...)
	}
	return &Normalizer{
		platform: platform,
		template: template,
		idField:  idField,
	}
}

func (n *Normalizer) Platform() string { return n.platform }

// Normalize converts a candidate according to its kind. A candidate without a kind is
// classified first; nodes that are neither posts nor profiles yield an empty Record.
func (n *Normalizer) Normalize(c domain.CandidateNode) Record {
	kind := c.Kind
	if kind == domain.RecordNone {
		kind = Classify(c.Node)
	}
	switch kind {
	case domain.RecordPost:
		post := n.Post(c.Node)
		return Record{Kind: kind, Post: &post}
	case domain.RecordProfile:
		profile := n.Profile(c.Node)
		return Record{Kind: kind, Profile: &profile}
	}
	return Record{Kind: domain.RecordNone}
}

// Post builds a CanonicalPost from any node. Missing scalars stay nil and missing counters
// stay 0.
func (n *Normalizer) Post(node domain.Value) domain.CanonicalPost {
	post := domain.CanonicalPost{
		Platform:    n.platform,
		ID:          firstString(node, n.idField),
		Description: optString(node, postDescription),
		CreatedAt:   firstTime(node, postCreatedAt),
		Author:      postAuthor(node),
		Stats: domain.PostStats{
			Views:    firstCount(node, statViews, nil),
			Likes:    firstCount(node, statLikes, nil),
			Comments: firstCount(node, statComments, nil),
			Shares:   firstCount(node, statShares, nil),
		},
		Media:      postMedia(node),
		Soundtrack: postSoundtrack(node),
	}
	post.Hashtags = postHashtags(node, post.Description)
	post.URL = n.template.Render(post.ID, post.AuthorHandle())
	return post
}

// Profile builds a CanonicalProfile from any node. Numeric entries of a nested "stats"
// map that no canonical counter consumed are kept in Raw.
func (n *Normalizer) Profile(node domain.Value) domain.CanonicalProfile {
	consumed := make(map[string]bool)
	profile := domain.CanonicalProfile{
		Platform:       n.platform,
		Handle:         strings.TrimLeft(firstString(node, profileHandle), "@"),
		DisplayName:    optString(node, profileDisplayName),
		Bio:            optString(node, profileBio),
		Verified:       firstBool(node, profileVerified),
		FollowerCount:  firstCount(node, profileFollowers, consumed),
		FollowingCount: firstCount(node, profileFollowing, consumed),
		PostCount:      firstCount(node, profilePosts, consumed),
		LikeCount:      firstCount(node, profileLikes, consumed),
		Private:        firstBool(node, profilePrivate),
		Raw:            make(map[string]int64),
	}

	if raw, ok := node.Get("raw"); ok && raw.IsMap() {
		for _, key := range raw.Keys() {
			v, _ := raw.Get(key)
			if count, ok := ParseCount(v); ok {
				profile.Raw[key] = count
			}
		}
	}
	if stats, ok := node.Get("stats"); ok && stats.IsMap() {
		for _, key := range stats.Keys() {
			if consumed["stats."+key] {
				continue
			}
			v, _ := stats.Get(key)
			if v.Kind() != domain.KindNumber {
				continue
			}
			if _, exists := profile.Raw[key]; exists {
				continue
			}
			if count, ok := ParseCount(v); ok {
				profile.Raw[key] = count
			}
		}
	}
	return profile
}

func postAuthor(node domain.Value) *domain.Author {
	handle := strings.TrimLeft(firstString(node, authorHandle), "@")
	author := domain.Author{
		ID:          optString(node, authorID),
		Handle:      util.StrPtr(handle),
		DisplayName: optString(node, authorDisplayName),
		AvatarURL:   optString(node, authorAvatarURL),
	}
	if author.ID == nil && author.Handle == nil && author.DisplayName == nil && author.AvatarURL == nil {
		return nil
	}
	return &author
}

func postMedia(node domain.Value) *domain.Media {
	media := domain.Media{
		DurationSeconds: optCount(node, mediaDuration),
		CoverURL:        optString(node, mediaCover),
		PlayURL:         optString(node, mediaPlay),
		Width:           optCount(node, mediaWidth),
		Height:          optCount(node, mediaHeight),
	}
	if media.DurationSeconds == nil && media.CoverURL == nil && media.PlayURL == nil &&
		media.Width == nil && media.Height == nil {
		return nil
	}
	return &media
}

func postSoundtrack(node domain.Value) *domain.Soundtrack {
	sound := domain.Soundtrack{
		ID:         optString(node, soundID),
		Title:      optString(node, soundTitle),
		AuthorName: optString(node, soundAuthorName),
	}
	if sound.ID == nil && sound.Title == nil && sound.AuthorName == nil {
		return nil
	}
	return &sound
}

// postHashtags collects tags from the structured sources, then from the description.
// The result is an ordered set and never nil.
func postHashtags(node domain.Value, description *string) []string {
	tags := make([]string, 0)
	seen := make(map[string]struct{})
	add := func(raw string) {
		tag := util.TrimTag(raw)
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, a := range hashtagLists {
		list, ok := a.lookup(node)
		if !ok {
			continue
		}
		for _, item := range list.Items() {
			if s, ok := item.Str(); ok && item.Kind() == domain.KindString {
				add(s)
			}
		}
	}
	for _, src := range hashtagObjectLists {
		list, ok := src.list.lookup(node)
		if !ok || !list.IsList() {
			continue
		}
		for _, item := range list.Items() {
			if v, ok := item.Get(src.key); ok && v.Kind() == domain.KindString {
				s, _ := v.Str()
				add(s)
			}
		}
	}
	if description != nil {
		for _, tag := range util.Hashtags(*description) {
			add(tag)
		}
	}
	return tags
}

// firstString returns the first alias that holds a non-blank string or number.
func firstString(node domain.Value, field aliases) string {
	for _, a := range field {
		v, ok := a.lookup(node)
		if !ok {
			continue
		}
		if s, ok := v.Str(); ok {
			if s = util.CleanText(s); s != "" {
				return s
			}
		}
	}
	return ""
}

func optString(node domain.Value, field aliases) *string {
	return util.StrPtr(firstString(node, field))
}

func firstBool(node domain.Value, field aliases) bool {
	for _, a := range field {
		v, ok := a.lookup(node)
		if !ok {
			continue
		}
		if b, ok := v.Bool(); ok {
			return b
		}
	}
	return false
}

// firstCount returns the first alias that parses as a count, or 0. The matched alias is
// recorded in consumed when it is non-nil.
func firstCount(node domain.Value, field aliases, consumed map[string]bool) int64 {
	for _, a := range field {
		v, ok := a.lookup(node)
		if !ok {
			continue
		}
		if n, ok := ParseCount(v); ok {
			if consumed != nil {
				consumed[a.String()] = true
			}
			return n
		}
	}
	return 0
}

func optCount(node domain.Value, field aliases) *int64 {
	for _, a := range field {
		v, ok := a.lookup(node)
		if !ok {
			continue
		}
		if n, ok := ParseCount(v); ok {
			return &n
		}
	}
	return nil
}

func firstTime(node domain.Value, field aliases) *time.Time {
	for _, a := range field {
		v, ok := a.lookup(node)
		if !ok {
			continue
		}
		switch v.Kind() {
		case domain.KindNumber:
			if n, ok := v.Int(); ok && n > 0 {
				t := util.FromUnix(n)
				return &t
			}
		case domain.KindString:
			s, _ := v.Str()
			if t, ok := util.ParseTimestamp(s); ok {
				return &t
			}
		}
	}
	return nil
}

// ParseCount reads a counter from a number or from text such as "1,234", "12.5K" or
// "3M". Negative values clamp to 0.
func ParseCount(v domain.Value) (int64, bool) {
	switch v.Kind() {
	case domain.KindNumber:
		n, ok := v.Int()
		if !ok {
			return 0, false
		}
		return util.NonNegative(n), true
	case domain.KindString:
		s, _ := v.Str()
		return parseCountText(s)
	}
	return 0, false
}

func parseCountText(s string) (int64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		multiplier = 1e3
	case 'm', 'M':
		multiplier = 1e6
	case 'b', 'B':
		multiplier = 1e9
	}
	if multiplier > 1 {
		s = strings.TrimSpace(s[:len(s)-1])
	}

	if multiplier == 1 {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return util.NonNegative(n), true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f *= multiplier
	if f <= 0 {
		return 0, true
	}
	if f >= math.MaxInt64 {
		return 0, false
	}
	if multiplier > 1 {
		return int64(math.Round(f)), true
	}
	return int64(math.Floor(f)), true
}
