package domain

import (
	"strings"
	"time"
)

// CanonicalPost is the schema-stable form of a post, video or tweet.
type CanonicalPost struct {
	Platform    string      `json:"platform"`
	ID          string      `json:"id"`
	Description *string     `json:"description"`
	CreatedAt   *time.Time  `json:"createdAt"`
	Author      *Author     `json:"author"`
	Stats       PostStats   `json:"stats"`
	Media       *Media      `json:"media"`
	Hashtags    []string    `json:"hashtags"`
	Soundtrack  *Soundtrack `json:"soundtrack"`
	URL         string      `json:"url"`
}

type Author struct {
	ID          *string `json:"id"`
	Handle      *string `json:"handle"`
	DisplayName *string `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}

type PostStats struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
}

type Media struct {
	DurationSeconds *int64  `json:"durationSeconds"`
	CoverURL        *string `json:"coverUrl"`
	PlayURL         *string `json:"playUrl"`
	Width           *int64  `json:"width"`
	Height          *int64  `json:"height"`
}

type Soundtrack struct {
	ID         *string `json:"id"`
	Title      *string `json:"title"`
	AuthorName *string `json:"authorName"`
}

// DedupKey identifies a post within one investigation.
func (p CanonicalPost) DedupKey() string {
	return p.Platform + "\x00" + p.ID
}

// AuthorHandle returns the author's handle or "".
func (p CanonicalPost) AuthorHandle() string {
	if p.Author == nil || p.Author.Handle == nil {
		return ""
	}
	return *p.Author.Handle
}

// CanonicalProfile is the schema-stable form of an account page.
type CanonicalProfile struct {
	Platform       string           `json:"platform"`
	Handle         string           `json:"handle"`
	DisplayName    *string          `json:"displayName"`
	Bio            *string          `json:"bio"`
	Verified       bool             `json:"verified"`
	FollowerCount  int64            `json:"followerCount"`
	FollowingCount int64            `json:"followingCount"`
	PostCount      int64            `json:"postCount"`
	LikeCount      int64            `json:"likeCount"`
	Private        bool             `json:"private"`
	Raw            map[string]int64 `json:"raw"`
}

// DedupKey identifies a profile within one investigation; handles compare
// case-insensitively.
func (p CanonicalProfile) DedupKey() string {
	return p.Platform + "\x00" + strings.ToLower(p.Handle)
}
