package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/domain"
)

type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	Website        string    `json:"website"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type AuthorResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

type LikeResponse struct {
	User      AuthorResponse `json:"user"`
	CreatedAt time.Time      `json:"createdAt"`
}

type CommentResponse struct {
	ID        string         `json:"id"`
	User      AuthorResponse `json:"user"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
}

type PostResponse struct {
	ID            string            `json:"id"`
	Content       string            `json:"content"`
	Image         string            `json:"image"`
	Author        AuthorResponse    `json:"author"`
	Likes         []LikeResponse    `json:"likes"`
	Comments      []CommentResponse `json:"comments"`
	LikesCount    int               `json:"likesCount"`
	CommentsCount int               `json:"commentsCount"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

type PaginationResponse struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		Bio:            user.Bio,
		Location:       user.Location,
		Website:        user.Website,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func authorToResponse(s domain.UserSummary) AuthorResponse {
	return AuthorResponse{
		ID:             s.ID,
		Name:           s.Name,
		Email:          s.Email,
		ProfilePicture: s.ProfilePicture,
	}
}

func commentToResponse(comment domain.CommentView) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		User:      authorToResponse(comment.User),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

func postToResponse(post domain.PostView) PostResponse {
	resp := PostResponse{
		ID:            post.ID,
		Content:       post.Content,
		Image:         post.Image,
		Author:        authorToResponse(post.Author),
		Likes:         make([]LikeResponse, len(post.Likes)),
		Comments:      make([]CommentResponse, len(post.Comments)),
		LikesCount:    post.LikesCount,
		CommentsCount: post.CommentsCount,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
	for i, like := range post.Likes {
		resp.Likes[i] = LikeResponse{User: authorToResponse(like.User), CreatedAt: like.CreatedAt}
	}
	for i, comment := range post.Comments {
		resp.Comments[i] = commentToResponse(comment)
	}
	return resp
}

func postsToResponse(posts []domain.PostView) []PostResponse {
	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	return resp
}

func usersToResponse(users []domain.User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	return resp
}

func paginationToResponse(page domain.Page, total int) PaginationResponse {
	totalPages := page.TotalPages(total)
	return PaginationResponse{
		CurrentPage: page.Number,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: page.Number < totalPages,
		HasPrevPage: page.Number > 1,
	}
}

// pageFromQuery reads ?page and ?limit, falling back to defaults on bad input.
func pageFromQuery(c *gin.Context) domain.Page {
	number, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return domain.NewPage(number, limit)
}
