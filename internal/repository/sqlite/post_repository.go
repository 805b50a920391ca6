package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/domain"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/repository"
)

const createPostTables = `
CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	author_id TEXT NOT NULL,
	content TEXT NOT NULL,
	image TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(author_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_posts_author_created ON posts(author_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC);

CREATE TABLE IF NOT EXISTS post_likes (
	post_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY(post_id, user_id),
	FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE,
	FOREIGN KEY(user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_post_likes_user ON post_likes(user_id);

CREATE TABLE IF NOT EXISTS comments (
	id TEXT PRIMARY KEY,
	post_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE,
	FOREIGN KEY(user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id, created_at);

CREATE TABLE IF NOT EXISTS bookmarks (
	user_id TEXT NOT NULL,
	post_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY(user_id, post_id),
	FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE,
	FOREIGN KEY(user_id) REFERENCES users(id)
);
`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPostTables); err != nil {
		return fmt.Errorf("create post tables: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	post.UpdatedAt = post.CreatedAt

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO posts (id, author_id, content, image, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.AuthorID,
		post.Content,
		post.Image,
		post.CreatedAt,
		post.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) Get(ctx context.Context, id string) (*domain.Post, error) {
	var post domain.Post
	err := r.db.QueryRowContext(ctx, `
SELECT id, author_id, content, image, created_at, updated_at
FROM posts
WHERE id = ?`, id).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Content,
		&post.Image,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE posts SET content = ?, image = ?, updated_at = ?
WHERE id = ?`,
		post.Content,
		post.Image,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update post %s: %w", post.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete post %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) View(ctx context.Context, id string) (*domain.PostView, error) {
	rows, err := r.db.QueryContext(ctx, selectPostViews+` WHERE p.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query post view: %w", err)
	}
	views, err := scanPostViews(rows)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("post %s: %w", id, repository.ErrNotFound)
	}
	if err := r.hydrate(ctx, views); err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (r *PostRepository) List(ctx context.Context, filter domain.PostFilter, page domain.Page) ([]domain.PostView, int, error) {
	where, args := postWhere(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	listArgs := append(append([]any{}, args...), page.Limit, page.Offset())
	rows, err := r.db.QueryContext(ctx, selectPostViews+where+`
ORDER BY p.created_at DESC, p.rowid DESC
LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	views, err := scanPostViews(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.hydrate(ctx, views); err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	liked, err := toggle(ctx, tx,
		`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`,
		`INSERT INTO post_likes (post_id, user_id, created_at) VALUES (?, ?, ?)`,
		postID, userID,
	)
	if err != nil {
		return false, 0, fmt.Errorf("toggle like: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = ?`, postID).Scan(&count); err != nil {
		return false, 0, fmt.Errorf("count likes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("commit tx: %w", err)
	}
	return liked, count, nil
}

func (r *PostRepository) ToggleBookmark(ctx context.Context, postID, userID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	bookmarked, err := toggle(ctx, tx,
		`DELETE FROM bookmarks WHERE post_id = ? AND user_id = ?`,
		`INSERT INTO bookmarks (post_id, user_id, created_at) VALUES (?, ?, ?)`,
		postID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return bookmarked, nil
}

// toggle removes the (post, user) row if present, otherwise inserts it. It reports whether the row now exists.
func toggle(ctx context.Context, tx *sql.Tx, deleteStmt, insertStmt, postID, userID string) (bool, error) {
	res, err := tx.ExecContext(ctx, deleteStmt, postID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx, insertStmt, postID, userID, time.Now().UTC()); err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostRepository) AddComment(ctx context.Context, comment *domain.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO comments (id, post_id, user_id, content, created_at)
VALUES (?, ?, ?, ?, ?)`,
		comment.ID,
		comment.PostID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *PostRepository) GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.QueryRowContext(ctx, `
SELECT id, post_id, user_id, content, created_at
FROM comments
WHERE id = ? AND post_id = ?`, commentID, postID).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment %s: %w", commentID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &comment, nil
}

func (r *PostRepository) DeleteComment(ctx context.Context, commentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete comment %s: %w", commentID, repository.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) CommentView(ctx context.Context, commentID string) (*domain.CommentView, error) {
	var view domain.CommentView
	err := r.db.QueryRowContext(ctx, `
SELECT c.id, c.content, c.created_at, u.id, u.name, u.email, u.profile_picture
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.id = ?`, commentID).Scan(
		&view.ID,
		&view.Content,
		&view.CreatedAt,
		&view.User.ID,
		&view.User.Name,
		&view.User.Email,
		&view.User.ProfilePicture,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment %s: %w", commentID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan comment view: %w", err)
	}
	return &view, nil
}

func (r *PostRepository) CountComments(ctx context.Context, postID string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

const selectPostViews = `
SELECT p.id, p.content, p.image, p.created_at, p.updated_at,
	u.id, u.name, u.email, u.profile_picture
FROM posts p
JOIN users u ON u.id = p.author_id`

func postWhere(filter domain.PostFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.AuthorID != "" {
		clauses = append(clauses, `p.author_id = ?`)
		args = append(args, filter.AuthorID)
	}
	if filter.LikedBy != "" {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = ?)`)
		args = append(args, filter.LikedBy)
	}
	if filter.BookmarkedBy != "" {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM bookmarks b WHERE b.post_id = p.id AND b.user_id = ?)`)
		args = append(args, filter.BookmarkedBy)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		clauses = append(clauses, `p.content LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(q))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(clauses, " AND "), args
}

func scanPostViews(rows *sql.Rows) ([]domain.PostView, error) {
	defer rows.Close()

	var views []domain.PostView
	for rows.Next() {
		var view domain.PostView
		if err := rows.Scan(
			&view.ID,
			&view.Content,
			&view.Image,
			&view.CreatedAt,
			&view.UpdatedAt,
			&view.Author.ID,
			&view.Author.Name,
			&view.Author.Email,
			&view.Author.ProfilePicture,
		); err != nil {
			return nil, fmt.Errorf("scan post view: %w", err)
		}
		view.Likes = []domain.LikeView{}
		view.Comments = []domain.CommentView{}
		views = append(views, view)
	}
	return views, rows.Err()
}

// hydrate attaches likes and comments to views with one query each.
func (r *PostRepository) hydrate(ctx context.Context, views []domain.PostView) error {
	if len(views) == 0 {
		return nil
	}

	index := make(map[string]int, len(views))
	ids := make([]any, len(views))
	for i := range views {
		index[views[i].ID] = i
		ids[i] = views[i].ID
	}

	if err := r.attachLikes(ctx, views, index, ids); err != nil {
		return err
	}
	if err := r.attachComments(ctx, views, index, ids); err != nil {
		return err
	}

	for i := range views {
		views[i].LikesCount = len(views[i].Likes)
		views[i].CommentsCount = len(views[i].Comments)
	}
	return nil
}

func (r *PostRepository) attachLikes(ctx context.Context, views []domain.PostView, index map[string]int, ids []any) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT l.post_id, l.created_at, u.id, u.name, u.email, u.profile_picture
FROM post_likes l
JOIN users u ON u.id = l.user_id
WHERE l.post_id IN (`+placeholders(len(ids))+`)
ORDER BY l.created_at ASC`, ids...)
	if err != nil {
		return fmt.Errorf("query likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID string
			like   domain.LikeView
		)
		if err := rows.Scan(&postID, &like.CreatedAt, &like.User.ID, &like.User.Name, &like.User.Email, &like.User.ProfilePicture); err != nil {
			return fmt.Errorf("scan like: %w", err)
		}
		v := &views[index[postID]]
		v.Likes = append(v.Likes, like)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate likes: %w", err)
	}
	return nil
}

func (r *PostRepository) attachComments(ctx context.Context, views []domain.PostView, index map[string]int, ids []any) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT c.post_id, c.id, c.content, c.created_at, u.id, u.name, u.email, u.profile_picture
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.post_id IN (`+placeholders(len(ids))+`)
ORDER BY c.created_at ASC, c.rowid ASC`, ids...)
	if err != nil {
		return fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID  string
			comment domain.CommentView
		)
		if err := rows.Scan(&postID, &comment.ID, &comment.Content, &comment.CreatedAt, &comment.User.ID, &comment.User.Name, &comment.User.Email, &comment.User.ProfilePicture); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		v := &views[index[postID]]
		v.Comments = append(v.Comments, comment)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate comments: %w", err)
	}
	return nil
}
