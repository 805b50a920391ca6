package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/domain"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/service"
)

type postLister func(ctx context.Context, page domain.Page) ([]domain.PostView, int, error)

// respondPosts renders one page of posts from list.
func (h *Handler) respondPosts(c *gin.Context, list postLister) {
	page := pageFromQuery(c)
	posts, total, err := list(c.Request.Context(), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"posts":      postsToResponse(posts),
		"pagination": paginationToResponse(page, total),
	})
}

func (h *Handler) listPosts(c *gin.Context) {
	h.respondPosts(c, h.posts.Feed)
}

func (h *Handler) searchPosts(c *gin.Context) {
	query := c.Query("query")
	h.respondPosts(c, func(ctx context.Context, page domain.Page) ([]domain.PostView, int, error) {
		return h.posts.Search(ctx, query, page)
	})
}

func (h *Handler) likedPosts(c *gin.Context) {
	userID := currentUser(c).ID
	h.respondPosts(c, func(ctx context.Context, page domain.Page) ([]domain.PostView, int, error) {
		return h.posts.ListLiked(ctx, userID, page)
	})
}

func (h *Handler) bookmarkedPosts(c *gin.Context) {
	userID := currentUser(c).ID
	h.respondPosts(c, func(ctx context.Context, page domain.Page) ([]domain.PostView, int, error) {
		return h.posts.ListBookmarked(ctx, userID, page)
	})
}

func (h *Handler) userPosts(c *gin.Context) {
	page := pageFromQuery(c)
	user, posts, total, err := h.posts.ListByUser(c.Request.Context(), c.Param("userId"), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"posts":      postsToResponse(posts),
		"user":       userToResponse(*user),
		"pagination": paginationToResponse(page, total),
	})
}

func (h *Handler) createPost(c *gin.Context) {
	var req postRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	image := ""
	if req.Image != nil {
		image = *req.Image
	}
	post, err := h.posts.Create(c.Request.Context(), currentUser(c).ID, req.Content, image)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Post created successfully",
		"post":    postToResponse(*post),
	})
}

func (h *Handler) getPost(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "post": postToResponse(*post)})
}

func (h *Handler) updatePost(c *gin.Context) {
	var req postRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	post, err := h.posts.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), service.PostUpdate{
		Content: &req.Content,
		Image:   req.Image,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post updated successfully",
		"post":    postToResponse(*post),
	})
}

func (h *Handler) deletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted successfully"})
}

func (h *Handler) toggleLike(c *gin.Context) {
	liked, count, err := h.posts.ToggleLike(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    message,
		"isLiked":    liked,
		"likesCount": count,
	})
}

func (h *Handler) toggleBookmark(c *gin.Context) {
	bookmarked, err := h.posts.ToggleBookmark(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	message := "Bookmark removed"
	if bookmarked {
		message = "Post bookmarked"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      message,
		"isBookmarked": bookmarked,
	})
}

func (h *Handler) addComment(c *gin.Context) {
	var req commentRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	comment, count, err := h.posts.AddComment(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"message":       "Comment added successfully",
		"comment":       commentToResponse(*comment),
		"commentsCount": count,
	})
}

func (h *Handler) deleteComment(c *gin.Context) {
	count, err := h.posts.DeleteComment(c.Request.Context(), currentUser(c).ID, c.Param("id"), c.Param("commentId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Comment deleted successfully",
		"commentsCount": count,
	})
}
