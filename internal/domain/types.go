package domain

// Document type tags. Every document in the store carries one of these as its
// discriminator; there is no other schema enforcement.
const (
	TypeUser           = "user"
	TypeBadge          = "badge"
	TypeBadgeAssertion = "badgeAssertion"
	TypeBadgeComment   = "badgeComment"
	TypeBadgeLike      = "badgeLike"
	TypeBadgeFavor     = "badgeFavor"
	TypeFeedback       = "feedback"
)

// Order is the sort direction accepted by list operations.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

func (o Order) Valid() bool { return o == OrderAsc || o == OrderDesc }

// User is an account document. One document per intranet id; Token is absent
// after logout.
type User struct {
	ID             string `json:"id,omitempty"`
	Rev            int64  `json:"-"`
	IntranetID     string `json:"intranetID"`
	Name           string `json:"name"`
	Photo          string `json:"photo,omitempty"`
	Token          string `json:"token,omitempty"`
	TokenExpiresAt int64  `json:"tokenExpiresAt,omitempty"`
}

// Badge is a badge definition, read-mostly after provisioning.
type Badge struct {
	ID              string   `json:"id,omitempty"`
	Rev             int64    `json:"-"`
	UID             string   `json:"uid"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Origin          string   `json:"origin"`
	Image           string   `json:"image,omitempty"`
	Criteria        string   `json:"criteria,omitempty"`
	ContentCriteria string   `json:"contentCriteria,omitempty"`
	Issuer          string   `json:"issuer,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Skills          []string `json:"skills,omitempty"`
}

// BadgeAssertion records that a user earned a badge. Like is a denormalized
// counter maintained by increment/decrement on like/unlike, never recomputed
// on read.
type BadgeAssertion struct {
	ID        string `json:"id,omitempty"`
	Rev       int64  `json:"-"`
	UserID    string `json:"userId"`
	BadgeID   string `json:"badgeId"`
	IssuedOn  int64  `json:"issuedOn"`
	Expires   int64  `json:"expires"`
	Published bool   `json:"published"`
	Like      int64  `json:"like"`
}

type BadgeComment struct {
	ID          string `json:"id,omitempty"`
	Rev         int64  `json:"-"`
	AssertionID string `json:"assertionId"`
	UserID      string `json:"userId"`
	Time        int64  `json:"time"`
	Comment     string `json:"comment"`
}

// BadgeLike is unique per (userId, assertionId); liking is idempotent via
// find-before-insert.
type BadgeLike struct {
	ID          string `json:"id,omitempty"`
	Rev         int64  `json:"-"`
	UserID      string `json:"userId"`
	AssertionID string `json:"assertionId"`
	Time        int64  `json:"time"`
}

// BadgeFavor is unique per (userId, badgeId).
type BadgeFavor struct {
	ID      string `json:"id,omitempty"`
	Rev     int64  `json:"-"`
	UserID  string `json:"userId"`
	BadgeID string `json:"badgeId"`
	Time    int64  `json:"time"`
}

// Feedback is write-only; it is never queried back by this backend.
type Feedback struct {
	ID          string       `json:"id,omitempty"`
	Rev         int64        `json:"-"`
	Message     string       `json:"message"`
	AppInfo     string       `json:"appinfo,omitempty"`
	Screenshots []Screenshot `json:"screenshots,omitempty"`
}

// Screenshot keeps upload metadata only; file handling itself is external.
type Screenshot struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
}
