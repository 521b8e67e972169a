package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/itssafa/immoplatform/internal/models"
)

type CommentCreateRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

type ReplyCreateRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type CommentResponse struct {
	ID              uuid.UUID         `json:"id"`
	Content         string            `json:"content"`
	Rating          int               `json:"rating"`
	AnnonceID       uuid.UUID         `json:"annonceId"`
	AnnonceTitre    string            `json:"annonceTitre,omitempty"`
	UserID          uuid.UUID         `json:"userId"`
	UserNom         string            `json:"userNom"`
	UserPrenom      string            `json:"userPrenom"`
	ParentCommentID *uuid.UUID        `json:"parentCommentId"`
	Replies         []CommentResponse `json:"replies,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// NewCommentResponse flattens a comment and its preloaded associations.
func NewCommentResponse(c *models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:              c.ID,
		Content:         c.Content,
		Rating:          c.Rating,
		AnnonceID:       c.AnnonceID,
		UserID:          c.UserID,
		ParentCommentID: c.ParentCommentID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if c.User != nil {
		resp.UserNom = c.User.Nom
		resp.UserPrenom = c.User.Prenom
	}
	if c.Annonce != nil {
		resp.AnnonceTitre = c.Annonce.Titre
	}
	for i := range c.Replies {
		resp.Replies = append(resp.Replies, NewCommentResponse(&c.Replies[i]))
	}
	return resp
}

type CommentStats struct {
	AverageRating float64 `json:"averageRating"`
	TotalComments int64   `json:"totalComments"`
}
