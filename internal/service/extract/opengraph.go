package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/util"
)

var (
	ogFollowers = regexp.MustCompile(`(?i)([\d.,]+\s*[KMB]?)\s+Followers`)
	ogFollowing = regexp.MustCompile(`(?i)([\d.,]+\s*[KMB]?)\s+Following`)
	ogPosts     = regexp.MustCompile(`(?i)([\d.,]+\s*[KMB]?)\s+(?:Posts|Videos|Tweets)`)
	ogLikes     = regexp.MustCompile(`(?i)([\d.,]+\s*[KMB]?)\s+Likes`)
	ogTitle     = regexp.MustCompile(`^(.*?)\s*\(@([\w.\-]+)\)`)
)

// ProfileFromOpenGraph turns Open Graph meta tags such as
// og:description="1,234 Followers, 56 Following, 78 Posts - See photos from Jane (@jane)"
// into a profile node. It reports false when no follower count can be read.
func ProfileFromOpenGraph(meta domain.Value) (domain.Value, bool) {
	description := metaString(meta, "og:description")
	followers := firstGroup(ogFollowers, description)
	if followers == "" {
		return domain.Null(), false
	}

	title := metaString(meta, "og:title")
	var displayName, handle string
	if m := ogTitle.FindStringSubmatch(title); m != nil {
		displayName, handle = util.CleanText(m[1]), m[2]
	}
	if handle == "" {
		if m := ogTitle.FindStringSubmatch(afterDash(description)); m != nil {
			handle = m[2]
		}
	}
	if handle == "" {
		handle = handleFromURL(metaString(meta, "og:url"))
	}
	if handle == "" {
		return domain.Null(), false
	}

	pairs := []domain.Pair{
		{Key: "username", Value: domain.NewString(handle)},
		{Key: "followers", Value: domain.NewString(followers)},
	}
	if displayName != "" {
		pairs = append(pairs, domain.Pair{Key: "full_name", Value: domain.NewString(displayName)})
	}
	for _, field := range []struct {
		key     string
		pattern *regexp.Regexp
	}{
		{"following", ogFollowing},
		{"posts", ogPosts},
		{"likeCount", ogLikes},
	} {
		if v := firstGroup(field.pattern, description); v != "" {
			pairs = append(pairs, domain.Pair{Key: field.key, Value: domain.NewString(v)})
		}
	}
	return domain.NewMap(pairs...), true
}

func metaString(meta domain.Value, key string) string {
	v, ok := meta.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.Str()
	return util.CleanText(s)
}

func firstGroup(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(strings.TrimSpace(m[1]), " ", "")
}

func afterDash(description string) string {
	if i := strings.Index(description, " - "); i >= 0 {
		return strings.TrimPrefix(description[i+3:], "See Instagram photos and videos from ")
	}
	return ""
}

func handleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 {
		return ""
	}
	return strings.TrimPrefix(segments[0], "@")
}
