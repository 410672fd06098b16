package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type CommunityRepository interface {
	CreatePost(ctx context.Context, post *models.CommunityPost) error
	GetPosts(ctx context.Context, limit, offset int) ([]models.CommunityPost, error)
	GetPostByID(ctx context.Context, id string) (*models.CommunityPost, error)
	IncrementViews(ctx context.Context, id string) error
	LikePost(ctx context.Context, postID, userID string) error
	UnlikePost(ctx context.Context, postID, userID string) error
	AddComment(ctx context.Context, comment *models.PostComment) error
	GetComments(ctx context.Context, postID string) ([]models.PostComment, error)
}

type communityRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewCommunityRepository(db *sqlx.DB, logger *zap.Logger) CommunityRepository {
	return &communityRepository{db: db, logger: logger}
}

const postSelect = `
	SELECT
		p.id, p.author_id, p.title, p.content, p.category, p.tags, p.image_url,
		p.likes_count, p.comments_count, p.views_count, p.is_pinned,
		p.created_at, p.updated_at,
		a.full_name AS author_name,
		a.role AS author_role
	FROM community_posts p
	LEFT JOIN profiles a ON a.id = p.author_id`

func (r *communityRepository) CreatePost(ctx context.Context, post *models.CommunityPost) error {
	now := time.Now().UTC()
	post.ID = uuid.NewString()
	post.CreatedAt, post.UpdatedAt = now, now
	if post.Tags == nil {
		post.Tags = models.StringList{}
	}

	query := r.db.Rebind(`INSERT INTO community_posts
		(id, author_id, title, content, category, tags, image_url, likes_count, comments_count, views_count, is_pinned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, post.ID, post.AuthorID, post.Title, post.Content, post.Category,
		post.Tags, post.ImageURL, false, post.CreatedAt, post.UpdatedAt)
	return err
}

func (r *communityRepository) GetPosts(ctx context.Context, limit, offset int) ([]models.CommunityPost, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	posts := []models.CommunityPost{}
	query := r.db.Rebind(postSelect + ` ORDER BY p.created_at DESC LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &posts, query, limit, offset); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *communityRepository) GetPostByID(ctx context.Context, id string) (*models.CommunityPost, error) {
	var post models.CommunityPost
	query := r.db.Rebind(postSelect + ` WHERE p.id = ?`)
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func (r *communityRepository) IncrementViews(ctx context.Context, id string) error {
	query := r.db.Rebind(`UPDATE community_posts SET views_count = views_count + 1 WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// LikePost records a like and bumps the counter in one transaction. A second
// like by the same user returns apperr.ErrConflict.
func (r *communityRepository) LikePost(ctx context.Context, postID, userID string) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := postExists(ctx, tx, postID); err != nil {
			return err
		}

		// UNIQUE(post_id, user_id) settles concurrent likes by the same user.
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO post_likes (id, post_id, user_id, created_at) VALUES (?, ?, ?, ?)`),
			uuid.NewString(), postID, userID, time.Now().UTC()); err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("Already liked")
			}
			return err
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE community_posts SET likes_count = likes_count + 1 WHERE id = ?`), postID)
		return err
	})
}

// UnlikePost removes a like. The counter only moves when a like was removed
// and never drops below zero.
func (r *communityRepository) UnlikePost(ctx context.Context, postID, userID string) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`), postID, userID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE community_posts SET likes_count = likes_count - 1 WHERE id = ? AND likes_count > 0`), postID)
		return err
	})
}

func (r *communityRepository) AddComment(ctx context.Context, c *models.PostComment) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := postExists(ctx, tx, c.PostID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO post_comments (id, post_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)`),
			c.ID, c.PostID, c.AuthorID, c.Content, c.CreatedAt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE community_posts SET comments_count = comments_count + 1 WHERE id = ?`), c.PostID)
		return err
	})
}

func (r *communityRepository) GetComments(ctx context.Context, postID string) ([]models.PostComment, error) {
	comments := []models.PostComment{}
	query := r.db.Rebind(`
		SELECT c.id, c.post_id, c.author_id, c.content, c.created_at,
			a.full_name AS author_name, a.role AS author_role
		FROM post_comments c
		LEFT JOIN profiles a ON a.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC`)
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *communityRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}

func postExists(ctx context.Context, tx *sqlx.Tx, postID string) error {
	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM community_posts WHERE id = ?`), postID); err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
