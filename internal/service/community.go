package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
	"github.com/Vidhi35/Kisan-Mitra/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var postCategories = map[string]bool{
	models.PostQuestion:     true,
	models.PostTip:          true,
	models.PostDiscussion:   true,
	models.PostSuccessStory: true,
}

type CommunityService struct {
	repo   repository.CommunityRepository
	logger *zap.Logger
}

func NewCommunityService(repo repository.CommunityRepository, logger *zap.Logger) *CommunityService {
	return &CommunityService{repo: repo, logger: logger}
}

func (s *CommunityService) CreatePost(ctx context.Context, authorID string, req models.CreatePostRequest) (*models.CommunityPost, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperr.Invalid("title", "Title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperr.Invalid("content", "Content is required")
	}
	if req.Category != nil && !postCategories[*req.Category] {
		return nil, apperr.Invalid("category", "Invalid category")
	}

	post := &models.CommunityPost{
		AuthorID: authorID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Category: req.Category,
		Tags:     models.StringList(req.Tags),
		ImageURL: req.ImageURL,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	s.logger.Info("Post created", zap.String("id", post.ID), zap.String("author", authorID))
	return post, nil
}

// ListPosts returns newest posts first. Read failures are logged and yield an
// empty page.
func (s *CommunityService) ListPosts(ctx context.Context, limit, offset int) []models.CommunityPost {
	posts, err := s.repo.GetPosts(ctx, limit, offset)
	if err != nil {
		s.logger.Warn("Community posts fetch error", zap.Error(err))
		return []models.CommunityPost{}
	}
	return posts
}

// GetPost returns a post and counts the view.
func (s *CommunityService) GetPost(ctx context.Context, id string) (*models.CommunityPost, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("Failed to increment views", zap.String("id", id), zap.Error(err))
	} else {
		post.ViewsCount++
	}
	return post, nil
}

func (s *CommunityService) LikePost(ctx context.Context, postID, userID string) error {
	if err := checkID(postID); err != nil {
		return err
	}
	return s.repo.LikePost(ctx, postID, userID)
}

func (s *CommunityService) UnlikePost(ctx context.Context, postID, userID string) error {
	if err := checkID(postID); err != nil {
		return err
	}
	return s.repo.UnlikePost(ctx, postID, userID)
}

func (s *CommunityService) AddComment(ctx context.Context, postID, authorID, content string) (*models.PostComment, error) {
	if err := checkID(postID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Invalid("content", "Content is required")
	}
	c := &models.PostComment{PostID: postID, AuthorID: authorID, Content: content}
	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommunityService) GetComments(ctx context.Context, postID string) ([]models.PostComment, error) {
	if err := checkID(postID); err != nil {
		return nil, err
	}
	return s.repo.GetComments(ctx, postID)
}

// checkID rejects ids that cannot name a stored row. Postgres keys are
// UUID columns and fail with a type error on anything else.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.ErrNotFound
	}
	return nil
}
