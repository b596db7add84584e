package services

import (
	"context"
	"fmt"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/utils"
	"carpool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileService joins user ids with display data mirrored from the
// external profile store. Joins are best-effort: a missing profile is
// simply absent from the result and callers substitute a placeholder.
type ProfileService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.UserProfile, error)
	DisplayData(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]*models.UserProfile, error)
	Upsert(ctx context.Context, profile *models.UserProfile) error
}

type profileService struct {
	profiles interfaces.ProfileRepository
	cache    CacheService
	log      *logger.Logger
}

func NewProfileService(profiles interfaces.ProfileRepository, cache CacheService, log *logger.Logger) ProfileService {
	return &profileService{
		profiles: profiles,
		cache:    cache,
		log:      log,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.UserProfile, error) {
	if s.cache != nil {
		var cached models.UserProfile
		if err := s.cache.Get(ctx, profileCacheKey(userID), &cached); err == nil {
			return &cached, nil
		}
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, profileCacheKey(userID), profile, utils.ProfileCacheTTL); err != nil {
			s.log.WithError(err).Debug("profile cache write failed")
		}
	}
	return profile, nil
}

// DisplayData resolves all requested profiles in one batch: cached
// entries are served from Redis, the remainder fetched in a single
// repository round trip and cached on the way out.
func (s *profileService) DisplayData(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]*models.UserProfile, error) {
	result := make(map[primitive.ObjectID]*models.UserProfile, len(userIDs))
	missing := make([]primitive.ObjectID, 0, len(userIDs))

	seen := make(map[primitive.ObjectID]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		if s.cache != nil {
			var cached models.UserProfile
			if err := s.cache.Get(ctx, profileCacheKey(id), &cached); err == nil {
				result[id] = &cached
				continue
			}
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return result, nil
	}

	fetched, err := s.profiles.GetByUserIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}

	for id, profile := range fetched {
		result[id] = profile
		if s.cache != nil {
			if err := s.cache.Set(ctx, profileCacheKey(id), profile, utils.ProfileCacheTTL); err != nil {
				s.log.WithError(err).Debug("profile cache write failed")
			}
		}
	}

	return result, nil
}

func (s *profileService) Upsert(ctx context.Context, profile *models.UserProfile) error {
	if profile == nil || profile.UserID.IsZero() {
		return fmt.Errorf("%w: profile user id is required", ErrValidation)
	}

	profile.UpdatedAt = time.Now()
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, profileCacheKey(profile.UserID)); err != nil {
			s.log.WithError(err).Debug("profile cache invalidation failed")
		}
	}
	return nil
}

func profileCacheKey(userID primitive.ObjectID) string {
	return fmt.Sprintf("profile_%s", userID.Hex())
}
