package explore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Tysek64/DrugiTinder/internal/app"
	"github.com/Tysek64/DrugiTinder/internal/repository"
)

// countTTL is how long a cached like count lives without being read.
const countTTL = time.Hour

// Liker is one profile that swiped right on the recipient.
type Liker struct {
	ActorID int64
	SwipeAt time.Time
}

// LikersPage is one page of likers plus the token of the next page.
type LikersPage struct {
	Likers    []Liker
	NextToken *string
}

// Service answers "who liked whom" questions over a populated store.
// It contains the lookup logic on top of repository and cache layers.
type Service struct {
	appCtx    *app.AppContext
	swipeRepo *repository.SwipeRepository
}

// NewExploreService creates a new Explore service with dependencies from AppContext.
// Dependencies include:
//   - DB connection (via SwipeRepository)
//   - RedisCache for counters from AppContext, optional
func NewExploreService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		swipeRepo: repository.NewSwipeRepository(appCtx.DB),
	}
}

// ListLikedYou returns the profiles who liked the given recipient.
//
// Behavior:
//   - Fetches likes via repository.GetLikers.
//   - Excludes profiles that the recipient explicitly passed.
//   - Supports cursor-based pagination with paginationToken.
func (s *Service) ListLikedYou(ctx context.Context, recipientID int64, paginationToken *string, limit int) (*LikersPage, error) {
	s.appCtx.Logger.Debug("ListLikedYou called", "recipient", recipientID, "token", paginationToken)

	swipes, nextToken, err := s.swipeRepo.GetLikers(ctx, recipientID, paginationToken, limit)
	if err != nil {
		s.appCtx.Logger.Error("GetLikers failed", "err", err)
		return nil, err
	}

	page := &LikersPage{NextToken: nextToken}
	for _, sw := range swipes {
		page.Likers = append(page.Likers, Liker{ActorID: sw.FkSwipingUserDetailsID, SwipeAt: sw.SwipeTime})
	}

	s.appCtx.Logger.Debug("ListLikedYou result", "liker_count", len(page.Likers))
	return page, nil
}

// ListNewLikedYou returns the profiles who liked the recipient but have not
// been liked back.
func (s *Service) ListNewLikedYou(ctx context.Context, recipientID int64, paginationToken *string, limit int) (*LikersPage, error) {
	s.appCtx.Logger.Debug("ListNewLikedYou called", "recipient", recipientID)

	swipes, nextToken, err := s.swipeRepo.GetNewLikers(ctx, recipientID, paginationToken, limit)
	if err != nil {
		return nil, err
	}

	page := &LikersPage{NextToken: nextToken}
	for _, sw := range swipes {
		page.Likers = append(page.Likers, Liker{ActorID: sw.FkSwipingUserDetailsID, SwipeAt: sw.SwipeTime})
	}
	return page, nil
}

// CountLikedYou returns how many profiles liked the recipient.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:id) when redis is configured.
//  2. On a miss or parse error, falls back to DB via repository.CountLikers.
//  3. On DB fetch, stores the count with a 1h TTL.
func (s *Service) CountLikedYou(ctx context.Context, recipientID int64) (int64, error) {
	s.appCtx.Logger.Debug("CountLikedYou called", "recipient", recipientID)

	rc := s.appCtx.RedisCache
	if rc != nil {
		key := rc.KeyForLikeCount(recipientID)
		cached, err := rc.Get(ctx, key)
		if err != nil && !errors.Is(err, redis.Nil) {
			s.appCtx.Logger.Warn("like count cache read failed", "err", err)
		}
		if n, err := strconv.ParseInt(cached, 10, 64); cached != "" && err == nil {
			// refresh TTL since this profile is being looked at
			_ = rc.Client.Expire(ctx, key, countTTL).Err()
			return n, nil
		}
	}

	// fallback: DB
	count, err := s.swipeRepo.CountLikers(ctx, recipientID)
	if err != nil {
		return 0, err
	}

	if rc != nil {
		_ = rc.Set(ctx, rc.KeyForLikeCount(recipientID), strconv.FormatInt(count, 10), countTTL)
	}
	return count, nil
}

// IsMatch reports whether two profiles liked each other.
func (s *Service) IsMatch(ctx context.Context, a, b int64) (bool, error) {
	ab, err := s.swipeRepo.HasLiked(ctx, a, b)
	if err != nil || !ab {
		return false, err
	}
	return s.swipeRepo.HasLiked(ctx, b, a)
}
