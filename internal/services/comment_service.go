package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AnshRaj112/campsite/internal/models"
	"github.com/AnshRaj112/campsite/pkg/utils"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentService struct {
	campgrounds CampgroundStore
	comments    CommentStore
	now         func() time.Time
	logger      zerolog.Logger
}

func NewCommentService(campgrounds CampgroundStore, comments CommentStore, logger zerolog.Logger) *CommentService {
	return &CommentService{
		campgrounds: campgrounds,
		comments:    comments,
		now:         time.Now,
		logger:      logger.With().Str("service", "comment").Logger(),
	}
}

var errEmptyComment = &utils.ValidationError{Field: "text", Message: "Comment cannot be empty"}

// Campground loads the parent campground for the new-comment form.
func (s *CommentService) Campground(ctx context.Context, campgroundID string) (*models.Campground, error) {
	oid, err := ParseID(campgroundID)
	if err != nil {
		return nil, err
	}
	return s.campgrounds.Get(ctx, oid)
}

// Create stores a comment and appends its reference to the campground.
func (s *CommentService) Create(ctx context.Context, author *models.User, campgroundID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyComment
	}

	campground, err := s.Campground(ctx, campgroundID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	comment := &models.Comment{
		ID:           primitive.NewObjectID(),
		CreatedAt:    now,
		UpdatedAt:    now,
		CampgroundID: campground.ID,
		Author:       author.AuthorRef(),
		Text:         text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error().Err(err).Str("campground_id", campground.ID.Hex()).Msg("failed to create comment")
		return nil, err
	}

	if err := s.campgrounds.AddComment(ctx, campground.ID, comment.ID); err != nil {
		// Roll back so no comment exists without a parent reference
		if derr := s.comments.Delete(ctx, comment.ID); derr != nil {
			s.logger.Warn().Err(derr).Str("comment_id", comment.ID.Hex()).Msg("failed to roll back comment")
		}
		return nil, err
	}

	s.logger.Info().
		Str("comment_id", comment.ID.Hex()).
		Str("campground_id", campground.ID.Hex()).
		Str("author", comment.Author.Username).
		Msg("comment created")

	return comment, nil
}

// GetForEdit loads a comment of the given campground the actor may modify.
func (s *CommentService) GetForEdit(ctx context.Context, actor *models.User, campgroundID, commentID string) (*models.Comment, error) {
	cgID, err := ParseID(campgroundID)
	if err != nil {
		return nil, err
	}
	oid, err := ParseID(commentID)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.Get(ctx, oid)
	if err != nil {
		return nil, err
	}
	if comment.CampgroundID != cgID {
		return nil, ErrNotFound
	}
	if !IsOwnerOrAdmin(actor, comment.Author.ID) {
		return nil, ErrForbidden
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, actor *models.User, campgroundID, commentID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyComment
	}

	comment, err := s.GetForEdit(ctx, actor, campgroundID, commentID)
	if err != nil {
		return nil, err
	}

	comment.Text = text
	comment.UpdatedAt = s.now()
	if err := s.comments.Update(ctx, comment); err != nil {
		s.logger.Error().Err(err).Str("comment_id", comment.ID.Hex()).Msg("failed to update comment")
		return nil, err
	}
	return comment, nil
}

// Delete removes the comment and its reference on the campground.
func (s *CommentService) Delete(ctx context.Context, actor *models.User, campgroundID, commentID string) error {
	comment, err := s.GetForEdit(ctx, actor, campgroundID, commentID)
	if err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		s.logger.Error().Err(err).Str("comment_id", comment.ID.Hex()).Msg("failed to delete comment")
		return err
	}

	err = s.campgrounds.RemoveComment(ctx, comment.CampgroundID, comment.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Warn().Err(err).Str("comment_id", comment.ID.Hex()).Msg("failed to remove comment reference")
	}

	s.logger.Info().Str("comment_id", comment.ID.Hex()).Msg("comment deleted")
	return nil
}
