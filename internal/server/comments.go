package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Angelito-Alit/comments-api/internal/validation"
)

type createCommentRequest struct {
	Author  *string `json:"author"`
	Comment *string `json:"comment"`
}

func (s *Server) ListComments(c *gin.Context) {
	items := s.comments.List()
	c.JSON(http.StatusOK, gin.H{
		"comments": items,
		"total":    len(items),
	})
}

func (s *Server) CreateComment(c *gin.Context) {
	if c.ContentType() != "application/json" {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var missing []string
	if req.Author == nil || strings.TrimSpace(*req.Author) == "" {
		missing = append(missing, "author")
	}
	if req.Comment == nil || strings.TrimSpace(*req.Comment) == "" {
		missing = append(missing, "comment")
	}
	if len(missing) > 0 {
		AbortWithError(c, missingFieldsError(missing))
		return
	}

	author, err := validation.Author(*req.Author)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	body, err := validation.Comment(*req.Comment)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	created := s.comments.Create(author, body)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": created,
	})
}

func (s *Server) GetComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}
	item, err := s.comments.Get(id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}
	if err := s.comments.Delete(id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}
