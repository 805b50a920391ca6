package domain

import "time"

// Post is a feed entry owned by its author.
type Post struct {
	ID        string
	AuthorID  string
	Content   string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment belongs to a post and is owned by the commenting user.
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// LikeView is a like hydrated with the liking user.
type LikeView struct {
	User      UserSummary
	CreatedAt time.Time
}

// CommentView is a comment hydrated with its author.
type CommentView struct {
	ID        string
	User      UserSummary
	Content   string
	CreatedAt time.Time
}

// PostView is the fully hydrated aggregate returned to clients.
type PostView struct {
	ID            string
	Content       string
	Image         string
	Author        UserSummary
	Likes         []LikeView
	Comments      []CommentView
	LikesCount    int
	CommentsCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PostFilter narrows a post listing. Zero fields are ignored.
type PostFilter struct {
	AuthorID     string
	LikedBy      string
	BookmarkedBy string
	Query        string
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// Page describes an offset window over a listing.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps a requested page to number >= 1 and 1 <= limit <= MaxPageLimit.
// Non-positive values fall back to the defaults.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// TotalPages returns the number of pages needed for total items.
func (p Page) TotalPages(total int) int {
	if p.Limit < 1 || total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}
