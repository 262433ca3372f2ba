package handlers

import (
	"context"
	"errors"
	"net/http"

	"memeboard/internal/apperror"
	"memeboard/internal/middleware"
	"memeboard/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

type voteRequest struct {
	PostID uint `json:"postId" binding:"required"`
	Value  int  `json:"value" binding:"required"`
}

// Vote applies an up (+1) or down (-1) vote.
func (h *VoteHandler) Vote(c *gin.Context) {
	h.handle(c, h.votes.ApplyVote)
}

// Cancel retracts the caller's vote if it still matches value.
func (h *VoteHandler) Cancel(c *gin.Context) {
	h.handle(c, h.votes.CancelVote)
}

func (h *VoteHandler) handle(c *gin.Context, op func(ctx context.Context, userID, postID uint, direction int) error) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := op(c.Request.Context(), middleware.CurrentUserID(c), req.PostID, req.Value)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusOK, gin.H{"ok": false})
	default:
		RenderError(c, err)
	}
}
