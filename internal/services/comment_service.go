package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/mailer"
	"github.com/itssafa/immoplatform/internal/models"
	"gorm.io/gorm"
)

type CommentService struct {
	db     *gorm.DB
	outbox *mailer.Outbox
}

func NewCommentService(db *gorm.DB, outbox *mailer.Outbox) *CommentService {
	return &CommentService{db: db, outbox: outbox}
}

// Create posts a rated top-level comment on an annonce. Only enabled accounts
// may comment; the listing owner is notified by email unless they commented on
// their own listing.
func (s *CommentService) Create(annonceID uuid.UUID, author *models.User, req *dto.CommentCreateRequest) (*dto.CommentResponse, error) {
	if !author.IsEnabled() {
		return nil, ErrAccountDisabled
	}

	var annonce models.Annonce
	err := s.db.Preload("Createur").First(&annonce, "id = ?", annonceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		Content:   req.Content,
		Rating:    req.Rating,
		AnnonceID: annonceID,
		UserID:    author.ID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if s.outbox != nil && annonce.Createur != nil && annonce.CreateurID != author.ID {
		s.outbox.Enqueue(commentNotificationEmail(annonce.Createur, &annonce, &comment))
	}

	comment.User = author
	comment.Annonce = &annonce
	resp := dto.NewCommentResponse(&comment)
	return &resp, nil
}

// CreateReply answers an existing top-level comment. Only the listing owner
// or an administrator may reply, and replies carry no rating.
func (s *CommentService) CreateReply(parentID uuid.UUID, author *models.User, req *dto.ReplyCreateRequest) (*dto.CommentResponse, error) {
	if !author.IsEnabled() {
		return nil, ErrAccountDisabled
	}

	var parent models.Comment
	err := s.db.Preload("Annonce").First(&parent, "id = ?", parentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if parent.IsReply() {
		return nil, ErrForbidden
	}

	isOwner := parent.Annonce != nil && parent.Annonce.CreateurID == author.ID
	if !isOwner && author.Role != models.RoleAdministrateur {
		return nil, ErrForbidden
	}

	reply := models.Comment{
		Content:         req.Content,
		Rating:          0,
		AnnonceID:       parent.AnnonceID,
		UserID:          author.ID,
		ParentCommentID: &parent.ID,
	}
	if err := s.db.Create(&reply).Error; err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	reply.User = author
	reply.Annonce = parent.Annonce
	resp := dto.NewCommentResponse(&reply)
	return &resp, nil
}

// ListByAnnonce returns the top-level comments of a listing, newest first,
// with their replies and authors attached.
func (s *CommentService) ListByAnnonce(annonceID uuid.UUID) ([]dto.CommentResponse, error) {
	var comments []models.Comment
	err := s.db.
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Replies.User").
		Where("annonce_id = ? AND parent_comment_id IS NULL", annonceID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, dto.NewCommentResponse(&comments[i]))
	}
	return out, nil
}

// Stats returns the average rating and comment count of a listing. Replies
// never count toward the average. A listing without ratings reports 0.
func (s *CommentService) Stats(annonceID uuid.UUID) (*dto.CommentStats, error) {
	row := struct {
		Average float64
		Total   int64
	}{}
	err := s.db.Model(&models.Comment{}).
		Where("annonce_id = ? AND parent_comment_id IS NULL", annonceID).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &dto.CommentStats{AverageRating: row.Average, TotalComments: row.Total}, nil
}

// ForUserListings pages through the comments received across every listing
// the user owns, newest first. Used by the owner dashboard.
func (s *CommentService) ForUserListings(userID uuid.UUID, page, size int) (dto.Page[dto.CommentResponse], error) {
	page, size = normalizePage(page, size)

	base := s.db.Model(&models.Comment{}).
		Joins("JOIN annonces ON annonces.id = comments.annonce_id").
		Where("annonces.createur_id = ? AND comments.parent_comment_id IS NULL", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return dto.Page[dto.CommentResponse]{}, err
	}

	var comments []models.Comment
	err := s.db.
		Preload("User").
		Preload("Annonce").
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Replies.User").
		Joins("JOIN annonces ON annonces.id = comments.annonce_id").
		Where("annonces.createur_id = ? AND comments.parent_comment_id IS NULL", userID).
		Order("comments.created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&comments).Error
	if err != nil {
		return dto.Page[dto.CommentResponse]{}, err
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, dto.NewCommentResponse(&comments[i]))
	}
	return dto.NewPage(out, total, page, size), nil
}

// Delete removes a comment and its replies. The author or an administrator
// may delete.
func (s *CommentService) Delete(id uuid.UUID, user *models.User) error {
	var comment models.Comment
	err := s.db.First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if comment.UserID != user.ID && user.Role != models.RoleAdministrateur {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_comment_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete replies: %w", err)
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		slog.Info("comment deleted", "commentId", id, "by", user.ID)
		return nil
	})
}
