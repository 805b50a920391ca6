package repository

import (
	"context"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/domain"
)

// PostRepository manages posts and the likes, comments and bookmarks attached to them.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) error
	Get(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error

	// View returns the hydrated aggregate for a single post.
	View(ctx context.Context, id string) (*domain.PostView, error)
	// List returns hydrated posts matching filter, newest first, and the total match count.
	List(ctx context.Context, filter domain.PostFilter, page domain.Page) ([]domain.PostView, int, error)

	// ToggleLike flips the (post, user) like and reports the new state and like count.
	ToggleLike(ctx context.Context, postID, userID string) (bool, int, error)
	// ToggleBookmark flips the (user, post) bookmark and reports the new state.
	ToggleBookmark(ctx context.Context, postID, userID string) (bool, error)

	AddComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
	CommentView(ctx context.Context, commentID string) (*domain.CommentView, error)
	CountComments(ctx context.Context, postID string) (int, error)
}
