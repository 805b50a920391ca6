package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/apperr"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/domain"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/service"
)

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	user, err := h.users.Signup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, "User registered successfully", user)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, "Login successful", user)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, message string, user *domain.User) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, apperr.Internal(err))
		return
	}
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"token":   token,
		"user":    userToResponse(*user),
	})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "user": userToResponse(*currentUser(c))})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), currentUser(c).ID, req.update())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    userToResponse(*user),
	})
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": userToResponse(*user)})
}

func (h *Handler) searchUsers(c *gin.Context) {
	page := pageFromQuery(c)
	users, total, err := h.users.Search(c.Request.Context(), c.Query("query"), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"users":      usersToResponse(users),
		"pagination": paginationToResponse(page, total),
	})
}
