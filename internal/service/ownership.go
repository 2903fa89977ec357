package service

import (
	"context"

	"go.uber.org/zap"

	"storyforge/internal/interfaces"
	"storyforge/internal/models"
)

// OwnershipService is the single authority for "is this mine" checks. Every
// mutating operation on a story or anything inside it (chapters, characters,
// actions) goes through here, so ownership is enforced uniformly instead of
// being re-derived per entity type.
type OwnershipService struct {
	storyRepo   interfaces.StoryRepository
	chapterRepo interfaces.ChapterRepository
	logger      *zap.Logger
}

// NewOwnershipService creates a new OwnershipService.
func NewOwnershipService(storyRepo interfaces.StoryRepository, chapterRepo interfaces.ChapterRepository, logger *zap.Logger) *OwnershipService {
	return &OwnershipService{
		storyRepo:   storyRepo,
		chapterRepo: chapterRepo,
		logger:      logger.Named("OwnershipService"),
	}
}

// AuthorizeStory returns the story when accountID owns it, ErrForbidden when
// it belongs to someone else and ErrStoryNotFound when it does not exist.
func (s *OwnershipService) AuthorizeStory(ctx context.Context, accountID, storyID int64) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != accountID {
		s.logger.Warn("Ownership check failed for story",
			zap.Int64("accountID", accountID),
			zap.Int64("storyID", storyID),
			zap.Int64("ownerID", story.AuthorID),
		)
		return nil, models.ErrForbidden
	}
	return story, nil
}

// AuthorizeChapter authorizes a mutation on a chapter by checking ownership
// of its parent story.
func (s *OwnershipService) AuthorizeChapter(ctx context.Context, accountID, chapterID int64) (*models.Chapter, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.AuthorizeStory(ctx, accountID, chapter.StoryID); err != nil {
		return nil, err
	}
	return chapter, nil
}
