package normalize

import (
	"strings"

	"github.com/kapu/osint-footprint-go/internal/domain"
)

// alias is one dotted path into a node; numeric segments index lists.
type alias []string

// aliases lists the spellings of one canonical field. The canonical spelling comes first
// so already-normalized records resolve to themselves; the first alias that resolves to a
// usable value wins.
type aliases []alias

func spellings(paths ...string) aliases {
	out := make(aliases, 0, len(paths))
	for _, p := range paths {
		out = append(out, alias(strings.Split(p, ".")))
	}
	return out
}

func (a alias) String() string { return strings.Join(a, ".") }

func (a alias) lookup(node domain.Value) (domain.Value, bool) {
	v, ok := node.Path(a...)
	if !ok || v.IsNull() {
		return domain.Null(), false
	}
	return v, true
}

// Post fields.
var (
	postID = spellings("id", "id_str", "aweme_id", "video_id", "rest_id", "pk", "shortcode")

	postDescription = spellings(
		"description", "desc", "caption", "caption.text", "full_text", "text",
		"legacy.full_text", "edge_media_to_caption.edges.0.node.text", "title", "articleBody",
	)

	postCreatedAt = spellings(
		"createdAt", "createTime", "create_time", "created_at", "taken_at_timestamp",
		"taken_at", "timestamp", "datePublished", "uploadDate",
	)

	authorID = spellings(
		"author.id", "author.id_str", "authorId", "author_id", "user.id", "user.id_str",
		"owner.id", "user_id",
	)
	authorHandle = spellings(
		"author.handle", "author.uniqueId", "author.unique_id", "author.username",
		"author.screen_name", "user.screen_name", "user.username", "user.unique_id",
		"owner.username", "author.alternateName", "authorUniqueId", "author",
	)
	authorDisplayName = spellings(
		"author.displayName", "author.nickname", "author.name", "user.name",
		"user.nickname", "owner.full_name", "nickname",
	)
	authorAvatarURL = spellings(
		"author.avatarUrl", "author.avatarThumb", "author.avatarMedium", "author.avatarLarger",
		"author.avatar_thumb.url_list.0", "user.profile_image_url_https",
		"user.profile_image_url", "owner.profile_pic_url", "avatarThumb",
	)

	statViews = spellings(
		"stats.views", "stats.playCount", "statistics.play_count", "statistics.viewCount",
		"public_metrics.impression_count", "video_view_count", "play_count", "playCount",
		"view_count", "viewCount", "views",
	)
	statLikes = spellings(
		"stats.likes", "stats.diggCount", "statistics.digg_count", "statistics.likeCount",
		"public_metrics.like_count", "edge_liked_by.count", "edge_media_preview_like.count",
		"favorite_count", "like_count", "diggCount", "likeCount", "likes",
	)
	statComments = spellings(
		"stats.comments", "stats.commentCount", "statistics.comment_count",
		"statistics.commentCount", "public_metrics.reply_count", "edge_media_to_comment.count",
		"comment_count", "reply_count", "commentCount", "comments",
	)
	statShares = spellings(
		"stats.shares", "stats.shareCount", "statistics.share_count",
		"public_metrics.retweet_count", "retweet_count", "share_count", "shareCount", "shares",
	)

	mediaDuration = spellings(
		"media.durationSeconds", "video.duration", "video_duration", "duration",
	)
	mediaCover = spellings(
		"media.coverUrl", "video.cover", "video.originCover", "video.cover.url_list.0",
		"display_url", "thumbnail_src", "thumbnailUrl", "thumbnail_url",
	)
	mediaPlay = spellings(
		"media.playUrl", "video.playAddr", "video.downloadAddr", "video.play_addr.url_list.0",
		"video_url", "contentUrl",
	)
	mediaWidth = spellings(
		"media.width", "video.width", "dimensions.width", "original_width", "width",
	)
	mediaHeight = spellings(
		"media.height", "video.height", "dimensions.height", "original_height", "height",
	)

	soundID         = spellings("soundtrack.id", "music.id", "music.id_str", "music.mid")
	soundTitle      = spellings("soundtrack.title", "music.title")
	soundAuthorName = spellings("soundtrack.authorName", "music.authorName", "music.author")
)

// Hashtag sources, read in this order before tags found in the description.
var (
	hashtagLists = spellings("hashtags")
	// list of objects, and the key holding the tag inside each object
	hashtagObjectLists = []struct {
		list alias
		key  string
	}{
		{alias{"challenges"}, "title"},
		{alias{"textExtra"}, "hashtagName"},
		{alias{"entities", "hashtags"}, "text"},
	}
)

// Profile fields.
var (
	profileHandle = spellings(
		"handle", "uniqueId", "unique_id", "username", "screen_name", "login",
		"user.uniqueId", "user.unique_id", "user.username", "user.screen_name",
	)
	profileDisplayName = spellings(
		"displayName", "nickname", "full_name", "name", "user.nickname", "user.name",
		"user.full_name",
	)
	profileBio = spellings(
		"bio", "signature", "biography", "description", "user.signature", "user.biography",
		"user.description",
	)
	profileVerified = spellings("verified", "is_verified", "user.verified", "user.is_verified")
	profilePrivate  = spellings(
		"private", "is_private", "privateAccount", "protected", "user.privateAccount",
		"user.is_private", "user.protected",
	)

	profileFollowers = spellings(
		"followerCount", "follower_count", "followers_count", "followers",
		"edge_followed_by.count", "stats.followerCount", "public_metrics.followers_count",
	)
	profileFollowing = spellings(
		"followingCount", "following_count", "friends_count", "following",
		"edge_follow.count", "stats.followingCount", "public_metrics.following_count",
	)
	profilePosts = spellings(
		"postCount", "videoCount", "media_count", "statuses_count", "posts",
		"edge_owner_to_timeline_media.count", "stats.videoCount",
		"public_metrics.tweet_count", "public_repos",
	)
	profileLikes = spellings(
		"likeCount", "heartCount", "heart", "total_favorited", "favourites_count",
		"stats.heartCount", "stats.heart", "public_metrics.like_count",
	)
)

// Keys of nested maps that make a node look like a post.
var (
	postStatsMaps = []string{"stats", "statistics", "public_metrics", "edge_liked_by", "edge_media_preview_like"}
	postMediaMaps = []string{"media", "video", "dimensions", "video_versions", "image_versions2"}
)

// Heuristic descriptions: "title" is left out so sound and challenge objects that carry
// an id and a title are not mistaken for posts.
var descriptionHints = spellings(
	"description", "desc", "caption", "caption.text", "full_text", "text",
	"legacy.full_text", "edge_media_to_caption.edges.0.node.text",
)

// Classify applies the record heuristic to a node.
//
// A post has an id, no follower counter, and at least one of a non-blank description,
// a nested stats map or a nested media map. A profile has a handle and a follower
// counter. Anything else is RecordNone.
func Classify(node domain.Value) domain.RecordKind {
	if !node.IsMap() {
		return domain.RecordNone
	}
	hasFollowers := resolves(node, profileFollowers)

	if !hasFollowers && hasString(node, postID) {
		if hasString(node, descriptionHints) || hasNestedMap(node, postStatsMaps) || hasNestedMap(node, postMediaMaps) {
			return domain.RecordPost
		}
	}

	if hasFollowers && hasString(node, profileHandle) {
		return domain.RecordProfile
	}
	return domain.RecordNone
}

func resolves(node domain.Value, field aliases) bool {
	for _, a := range field {
		if v, ok := a.lookup(node); ok && !v.IsMap() && !v.IsList() {
			return true
		}
	}
	return false
}

func hasString(node domain.Value, field aliases) bool {
	for _, a := range field {
		if v, ok := a.lookup(node); ok {
			if s, ok := v.Str(); ok && strings.TrimSpace(s) != "" {
				return true
			}
		}
	}
	return false
}

func hasNestedMap(node domain.Value, keys []string) bool {
	for _, k := range keys {
		if v, ok := node.Get(k); ok && (v.IsMap() || (v.IsList() && v.Len() > 0)) {
			return true
		}
	}
	return false
}
