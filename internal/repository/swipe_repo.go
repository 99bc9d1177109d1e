package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Tysek64/DrugiTinder/internal/db"
	"github.com/Tysek64/DrugiTinder/internal/utils/pagination"
)

// SwipeRepository reads the populated swipe relation.
// It encapsulates all queries related to likes/passes between profiles.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// passedBack excludes actors the recipient swiped left on.
const passedBack = `NOT EXISTS (
	SELECT 1 FROM swipe s2
	WHERE s2.fk_swiping_user_details_id = ?
	  AND s2.fk_swiped_user_details_id = s.fk_swiping_user_details_id
	  AND s2.result = ?
)`

// likedBack keeps only actors the recipient swiped right on.
const likedBack = `EXISTS (
	SELECT 1 FROM swipe s3
	WHERE s3.fk_swiping_user_details_id = s.fk_swiped_user_details_id
	  AND s3.fk_swiped_user_details_id = s.fk_swiping_user_details_id
	  AND s3.result = ?
)`

func (r *SwipeRepository) likers(ctx context.Context, recipientID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("swipe s").
		Where("s.fk_swiped_user_details_id = ? AND s.result = ?", recipientID, true).
		Where(passedBack, recipientID, false)
}

// GetLikers returns the right swipes the given profile received.
//
// Behavior:
//   - Only swipes where swiped = X and result = true are returned.
//   - Excludes profiles that the recipient explicitly passed.
//   - Ordered by swipe_time DESC, swiping id DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.GetLikers(ctx, 42, nil, 20) // first 20 profiles who liked profile 42
func (r *SwipeRepository) GetLikers(
	ctx context.Context,
	recipientID int64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	return r.page(r.likers(ctx, recipientID), recipientID, paginationToken, limit)
}

// GetNewLikers returns profiles who liked the recipient but have not been liked back.
//
// Behavior:
//   - Same filter as GetLikers.
//   - Excludes mutual likes, i.e. pairs that formed a match.
//
// Example:
//
//	repo.GetNewLikers(ctx, 42, nil, 20) // first 20 one-way likes for profile 42
func (r *SwipeRepository) GetNewLikers(
	ctx context.Context,
	recipientID int64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	query := r.likers(ctx, recipientID).Where("NOT "+likedBack, true)
	return r.page(query, recipientID, paginationToken, limit)
}

func (r *SwipeRepository) page(
	query *gorm.DB,
	recipientID int64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	var swipes []db.Swipe

	// decode cursor if provided
	cursor, err := pagination.Decode(getString(paginationToken), recipientID)
	if err != nil {
		return nil, nil, err
	}

	query = query.Select("s.*").
		Order("s.swipe_time DESC, s.fk_swiping_user_details_id DESC").
		Limit(limit + 1)

	// apply cursor
	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.SwipeUnix).UTC()
		query = query.Where(
			"(s.swipe_time < ? OR (s.swipe_time = ? AND s.fk_swiping_user_details_id < ?))",
			ts, ts, cursor.ActorID,
		)
	}

	if err := query.Find(&swipes).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(swipes) > limit {
		last := swipes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			Recipient: recipientID,
			ActorID:   last.FkSwipingUserDetailsID,
			SwipeUnix: last.SwipeTime.UnixMilli(),
		})
		nextToken = &token
		swipes = swipes[:limit]
	}

	return swipes, nextToken, nil
}

// CountLikers returns how many profiles liked the given recipient,
// with the same exclusions as GetLikers.
func (r *SwipeRepository) CountLikers(ctx context.Context, recipientID int64) (int64, error) {
	var count int64
	if err := r.likers(ctx, recipientID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasLiked checks whether an actor swiped right on a recipient.
func (r *SwipeRepository) HasLiked(ctx context.Context, actorID, recipientID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("swipe s").
		Where("s.fk_swiping_user_details_id = ? AND s.fk_swiped_user_details_id = ? AND s.result = ?",
			actorID, recipientID, true).
		Count(&count).Error
	return count > 0, err
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
