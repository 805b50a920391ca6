package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/apperr"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/auth"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/domain"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/repository"
)

// PostUpdate carries the optional fields of a post edit. Nil means unchanged.
type PostUpdate struct {
	Content *string
	Image   *string
}

// PostService coordinates posts and their likes, comments and bookmarks.
// Mutations on owned resources check ownership before touching storage.
type PostService interface {
	Create(ctx context.Context, authorID, content, image string) (*domain.PostView, error)
	Get(ctx context.Context, id string) (*domain.PostView, error)
	Feed(ctx context.Context, page domain.Page) ([]domain.PostView, int, error)
	Search(ctx context.Context, query string, page domain.Page) ([]domain.PostView, int, error)
	ListByUser(ctx context.Context, userID string, page domain.Page) (*domain.User, []domain.PostView, int, error)
	ListLiked(ctx context.Context, userID string, page domain.Page) ([]domain.PostView, int, error)
	ListBookmarked(ctx context.Context, userID string, page domain.Page) ([]domain.PostView, int, error)
	Update(ctx context.Context, requesterID, postID string, update PostUpdate) (*domain.PostView, error)
	Delete(ctx context.Context, requesterID, postID string) error
	ToggleLike(ctx context.Context, requesterID, postID string) (liked bool, likesCount int, err error)
	ToggleBookmark(ctx context.Context, requesterID, postID string) (bookmarked bool, err error)
	AddComment(ctx context.Context, requesterID, postID, content string) (*domain.CommentView, int, error)
	DeleteComment(ctx context.Context, requesterID, postID, commentID string) (int, error)
}

type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository) PostService {
	return &postService{
		posts: posts,
		users: users,
	}
}

func (s *postService) Create(ctx context.Context, authorID, content, image string) (*domain.PostView, error) {
	post := &domain.Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Content:  strings.TrimSpace(content),
		Image:    image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperr.Internal(err)
	}
	return s.view(ctx, post.ID)
}

func (s *postService) Get(ctx context.Context, id string) (*domain.PostView, error) {
	return s.view(ctx, id)
}

func (s *postService) Feed(ctx context.Context, page domain.Page) ([]domain.PostView, int, error) {
	return s.list(ctx, domain.PostFilter{}, page)
}

func (s *postService) Search(ctx context.Context, query string, page domain.Page) ([]domain.PostView, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, apperr.Validation("Search query is required")
	}
	return s.list(ctx, domain.PostFilter{Query: query}, page)
}

func (s *postService) ListByUser(ctx context.Context, userID string, page domain.Page) (*domain.User, []domain.PostView, int, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, 0, notFoundOrInternal(err, "User not found")
	}
	views, total, err := s.list(ctx, domain.PostFilter{AuthorID: userID}, page)
	if err != nil {
		return nil, nil, 0, err
	}
	return sanitizeUser(user), views, total, nil
}

func (s *postService) ListLiked(ctx context.Context, userID string, page domain.Page) ([]domain.PostView, int, error) {
	return s.list(ctx, domain.PostFilter{LikedBy: userID}, page)
}

func (s *postService) ListBookmarked(ctx context.Context, userID string, page domain.Page) ([]domain.PostView, int, error) {
	return s.list(ctx, domain.PostFilter{BookmarkedBy: userID}, page)
}

func (s *postService) Update(ctx context.Context, requesterID, postID string, update PostUpdate) (*domain.PostView, error) {
	post, err := s.owned(ctx, requesterID, postID, "Not authorized to update this post")
	if err != nil {
		return nil, err
	}

	if update.Content != nil {
		post.Content = strings.TrimSpace(*update.Content)
	}
	if update.Image != nil {
		post.Image = *update.Image
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, notFoundOrInternal(err, "Post not found")
	}
	return s.view(ctx, post.ID)
}

func (s *postService) Delete(ctx context.Context, requesterID, postID string) error {
	if _, err := s.owned(ctx, requesterID, postID, "Not authorized to delete this post"); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return notFoundOrInternal(err, "Post not found")
	}
	return nil
}

func (s *postService) ToggleLike(ctx context.Context, requesterID, postID string) (bool, int, error) {
	if _, err := s.post(ctx, postID); err != nil {
		return false, 0, err
	}
	liked, count, err := s.posts.ToggleLike(ctx, postID, requesterID)
	if err != nil {
		return false, 0, apperr.Internal(err)
	}
	return liked, count, nil
}

func (s *postService) ToggleBookmark(ctx context.Context, requesterID, postID string) (bool, error) {
	if _, err := s.post(ctx, postID); err != nil {
		return false, err
	}
	bookmarked, err := s.posts.ToggleBookmark(ctx, postID, requesterID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return bookmarked, nil
}

func (s *postService) AddComment(ctx context.Context, requesterID, postID, content string) (*domain.CommentView, int, error) {
	if _, err := s.post(ctx, postID); err != nil {
		return nil, 0, err
	}

	comment := &domain.Comment{
		ID:      uuid.NewString(),
		PostID:  postID,
		UserID:  requesterID,
		Content: strings.TrimSpace(content),
	}
	if err := s.posts.AddComment(ctx, comment); err != nil {
		return nil, 0, apperr.Internal(err)
	}

	view, err := s.posts.CommentView(ctx, comment.ID)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	count, err := s.posts.CountComments(ctx, postID)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return view, count, nil
}

func (s *postService) DeleteComment(ctx context.Context, requesterID, postID, commentID string) (int, error) {
	if _, err := s.post(ctx, postID); err != nil {
		return 0, err
	}
	comment, err := s.posts.GetComment(ctx, postID, commentID)
	if err != nil {
		return 0, notFoundOrInternal(err, "Comment not found")
	}
	if err := auth.CheckOwner(comment.UserID, requesterID, "Not authorized to delete this comment"); err != nil {
		return 0, err
	}

	if err := s.posts.DeleteComment(ctx, commentID); err != nil {
		return 0, notFoundOrInternal(err, "Comment not found")
	}
	count, err := s.posts.CountComments(ctx, postID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

func (s *postService) post(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "Post not found")
	}
	return post, nil
}

// owned loads a post and rejects requesters other than its author.
func (s *postService) owned(ctx context.Context, requesterID, postID, deniedMessage string) (*domain.Post, error) {
	post, err := s.post(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckOwner(post.AuthorID, requesterID, deniedMessage); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) view(ctx context.Context, id string) (*domain.PostView, error) {
	view, err := s.posts.View(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "Post not found")
	}
	return view, nil
}

func (s *postService) list(ctx context.Context, filter domain.PostFilter, page domain.Page) ([]domain.PostView, int, error) {
	views, total, err := s.posts.List(ctx, filter, page)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return views, total, nil
}
