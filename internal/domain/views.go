package domain

// Page is the 1-based paging request shared by list operations. Zero values
// mean "no paging" and are only legal for small reference sets.
type Page struct {
	PageNum  int `json:"pageNum"`
	PageSize int `json:"pageSize"`
}

func (p Page) Bounded() bool { return p.PageNum > 0 && p.PageSize > 0 }

// StreamUser is the owner slice of a stream row.
type StreamUser struct {
	UserID     string `json:"userId"`
	Photo      string `json:"photo"`
	Name       string `json:"name"`
	IntranetID string `json:"intranetID"`
}

// StreamBadge is the badge slice of a stream row, including the viewer-scoped
// aggregates.
type StreamBadge struct {
	AssertionID string `json:"assertionId"`
	BadgeID     string `json:"badgeId"`
	IssuedOn    int64  `json:"issuedOn"`
	LikeNum     int64  `json:"likeNum"`
	CommentNum  int64  `json:"commentNum"`
	Favorite    bool   `json:"favorite"`
	Liked       bool   `json:"liked"`
	Published   bool   `json:"published"`
	Name        string `json:"name"`
	Origin      string `json:"origin"`
	Image       string `json:"image"`
}

type StreamItem struct {
	User  StreamUser  `json:"user"`
	Badge StreamBadge `json:"badge"`
}

type StreamPage struct {
	PageNum  int          `json:"pageNum"`
	PageSize int          `json:"pageSize"`
	Badges   []StreamItem `json:"badges"`
}

// AssertionDetail is the full single-assertion view.
type AssertionDetail struct {
	AssertionID string `json:"assertionId"`
	BadgeID     string `json:"id"`
	UserID      string `json:"userId"`
	IssuedOn    int64  `json:"issuedOn"`
	Expires     int64  `json:"expires"`
	LikeNum     int64  `json:"likeNum"`
	CommentNum  int64  `json:"commentNum"`
	EarnerNum   int64  `json:"earnerNum"`
	Liked       bool   `json:"liked"`
	Favorite    bool   `json:"favorite"`
	Published   bool   `json:"published"`

	Name            string `json:"name"`
	Origin          string `json:"origin"`
	Image           string `json:"image"`
	Criteria        string `json:"criteria,omitempty"`
	ContentCriteria string `json:"contentCriteria,omitempty"`
}

// Earner is one distinct holder of a badge.
type Earner struct {
	Name       string `json:"name"`
	Photo      string `json:"photo"`
	IntranetID string `json:"intranetID"`
	BadgeNum   int64  `json:"badgeNum"`
}

// CommentView is a comment joined with its author's identity.
type CommentView struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Photo   string `json:"photo"`
	Content string `json:"content"`
	Time    int64  `json:"time"`
}

type CommentPage struct {
	PageNum  int           `json:"pageNum"`
	PageSize int           `json:"pageSize"`
	Comments []CommentView `json:"comments"`
}

// Testimonial is a comment by someone else on one of the profile user's
// assertions.
type Testimonial struct {
	AssertionID string             `json:"assertionId"`
	Image       string             `json:"image"`
	Comment     TestimonialComment `json:"comment"`
}

type TestimonialComment struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	IntranetID string `json:"intranetID"`
	Name       string `json:"name"`
	Photo      string `json:"photo"`
	Content    string `json:"content"`
	Time       int64  `json:"time"`
}

type TestimonialPage struct {
	PageNum  int           `json:"pageNum"`
	PageSize int           `json:"pageSize"`
	Comments []Testimonial `json:"comments"`
}

// ProfileComment is a comment the profile user wrote on someone else's
// assertion, joined with the badge it refers to.
type ProfileComment struct {
	AssertionID string             `json:"assertionId"`
	BadgeID     string             `json:"badgeId"`
	IssuedOn    int64              `json:"issuedOn"`
	Name        string             `json:"name"`
	Origin      string             `json:"origin"`
	Image       string             `json:"image"`
	Comment     TestimonialComment `json:"comment"`
}

type ProfileCommentPage struct {
	PageNum  int              `json:"pageNum"`
	PageSize int              `json:"pageSize"`
	Comments []ProfileComment `json:"comments"`
}

// UserBadge is one badge on a profile page.
type UserBadge struct {
	AssertionID string `json:"assertionId"`
	BadgeID     string `json:"badgeId"`
	IssuedOn    int64  `json:"issuedOn"`
	Expires     int64  `json:"expires"`
	LikeNum     int64  `json:"likeNum"`
	CommentNum  int64  `json:"commentNum"`
	Name        string `json:"name"`
	Origin      string `json:"origin"`
	Image       string `json:"image"`
}

type UserBadgePage struct {
	PageNum  int         `json:"pageNum"`
	PageSize int         `json:"pageSize"`
	Badges   []UserBadge `json:"badges"`
}

// FavoriteBadge is one bookmarked badge with live counts.
type FavoriteBadge struct {
	BadgeID     string `json:"badgeId"`
	Time        int64  `json:"time"`
	FavoriteNum int64  `json:"favoriteNum"`
	EarnerNum   int64  `json:"earnerNum"`
	Name        string `json:"name"`
	Origin      string `json:"origin"`
	Image       string `json:"image"`
}

type FavoriteBadgePage struct {
	PageNum  int             `json:"pageNum"`
	PageSize int             `json:"pageSize"`
	Badges   []FavoriteBadge `json:"badges"`
}

// Notification row kinds.
const (
	NotificationAssertion = "assertion"
	NotificationComment   = "comment"
)

// Notification is one row of the merged feed. Type discriminates between an
// own-assertion fact and a comment-by-other fact; comment rows additionally
// carry the commenter identity and comment time.
type Notification struct {
	Type        string `json:"type"`
	BadgeID     string `json:"badgeId"`
	AssertionID string `json:"assertionId"`
	IssuedOn    int64  `json:"issuedOn"`
	Name        string `json:"name"`
	Origin      string `json:"origin"`
	Image       string `json:"image"`

	IntranetID string `json:"intranetID,omitempty"`
	Username   string `json:"username,omitempty"`
	Time       int64  `json:"time,omitempty"`
}

type NotificationPage struct {
	PageNum       int            `json:"pageNum"`
	PageSize      int            `json:"pageSize"`
	Notifications []Notification `json:"notifications"`
}

// SearchUser and SearchBadge are the two result shapes of one search call.
type SearchUser struct {
	IntranetID string `json:"intranetID"`
	Name       string `json:"name"`
	Photo      string `json:"photo"`
	BadgeNum   int64  `json:"badgeNum"`
}

type SearchBadge struct {
	BadgeID      string `json:"badgeId"`
	Name         string `json:"name"`
	Origin       string `json:"origin"`
	Image        string `json:"image"`
	EarnerNum    int64  `json:"earnerNum"`
	FavoriteTime int64  `json:"favoriteTime,omitempty"`
}

type SearchPage struct {
	PageNum  int           `json:"pageNum"`
	PageSize int           `json:"pageSize"`
	Users    []SearchUser  `json:"users"`
	Badges   []SearchBadge `json:"badges"`
}

// SearchFilters narrows a search call; Criteria is the substring matched
// against user and badge names.
type SearchFilters struct {
	SearchUsers           bool     `json:"searchUsers"`
	ExcludeFavoriteBadges bool     `json:"excludeFavoriteBadges"`
	ExcludeEarnedBadges   bool     `json:"excludeEarnedBadges"`
	Skills                []string `json:"skills,omitempty"`
}

// ProfileDetail is the directory profile joined with the badge count.
type ProfileDetail struct {
	Name     string `json:"name"`
	Photo    string `json:"photo"`
	BadgeNum int64  `json:"badgeNum"`
	JobName  string `json:"jobName"`
	LocName  string `json:"locName"`
}

// UserBadgeDetail is the cross-profile single badge lookup.
type UserBadgeDetail struct {
	IssuedOn    int64    `json:"issuedOn"`
	Expires     int64    `json:"expires"`
	Origin      string   `json:"origin"`
	UID         string   `json:"uid"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image"`
	Criteria    string   `json:"criteria,omitempty"`
	Issuer      string   `json:"issuer,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
