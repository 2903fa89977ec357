package handler

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storyforge/internal/interfaces"
	"storyforge/internal/models"
	"storyforge/internal/service"
)

// stubAuthService resolves tokens of the form "token-for-<accountID>" without
// any cryptography. Everything else is rejected.
type stubAuthService struct{}

var _ service.AuthService = (*stubAuthService)(nil)

func (s *stubAuthService) Register(context.Context, string, string, string) (*models.Account, error) {
	panic("not used in these tests")
}

func (s *stubAuthService) Login(context.Context, string, string) (*models.TokenDetails, error) {
	panic("not used in these tests")
}

func (s *stubAuthService) Logout(context.Context, string, string) error { return nil }

func (s *stubAuthService) Refresh(context.Context, string) (*models.TokenDetails, error) {
	panic("not used in these tests")
}

func (s *stubAuthService) VerifyAccessToken(_ context.Context, tokenString string) (*models.Claims, error) {
	return s.ParseToken(tokenString)
}

func (s *stubAuthService) ParseToken(tokenString string) (*models.Claims, error) {
	raw, ok := strings.CutPrefix(tokenString, "token-for-")
	if !ok {
		return nil, models.ErrTokenInvalid
	}
	accountID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, models.ErrTokenInvalid
	}
	return &models.Claims{
		AccountID:        accountID,
		RegisteredClaims: jwt.RegisteredClaims{ID: "uuid-for-" + raw},
	}, nil
}

func tokenFor(accountID int64) string {
	return "Bearer token-for-" + strconv.FormatInt(accountID, 10)
}

type fakeAccountRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Account
}

var _ interfaces.AccountRepository = (*fakeAccountRepo)(nil)

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: make(map[int64]*models.Account)}
}

func (f *fakeAccountRepo) Create(_ context.Context, account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == account.Email {
			return models.ErrEmailTaken
		}
		if a.Nickname == account.Nickname {
			return models.ErrNicknameTaken
		}
	}
	f.nextID++
	account.ID = f.nextID
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	cp := *account
	f.byID[account.ID] = &cp
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id int64) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, models.ErrAccountNotFound
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, models.ErrAccountNotFound
}

func (f *fakeAccountRepo) GetByNickname(_ context.Context, nickname string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Nickname == nickname {
			cp := *a
			return &cp, nil
		}
	}
	return nil, models.ErrAccountNotFound
}

type fakeTokenRepo struct {
	mu   sync.Mutex
	byID map[string]int64
}

var _ interfaces.TokenRepository = (*fakeTokenRepo)(nil)

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byID: make(map[string]int64)}
}

func (f *fakeTokenRepo) SetToken(_ context.Context, accountID int64, td *models.TokenDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[td.AccessUUID] = accountID
	f.byID[td.RefreshUUID] = accountID
	return nil
}

func (f *fakeTokenRepo) GetAccountIDByAccessUUID(_ context.Context, accessUUID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byID[accessUUID]; ok {
		return id, nil
	}
	return 0, models.ErrTokenNotFound
}

func (f *fakeTokenRepo) GetAccountIDByRefreshUUID(_ context.Context, refreshUUID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byID[refreshUUID]; ok {
		return id, nil
	}
	return 0, models.ErrTokenNotFound
}

func (f *fakeTokenRepo) DeleteTokens(_ context.Context, uuids ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for _, u := range uuids {
		if _, ok := f.byID[u]; ok {
			delete(f.byID, u)
			deleted++
		}
	}
	return deleted, nil
}

type fakeStoryRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Story
}

var _ interfaces.StoryRepository = (*fakeStoryRepo)(nil)

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{byID: make(map[int64]*models.Story)}
}

func (f *fakeStoryRepo) Create(_ context.Context, story *models.Story) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	story.ID = f.nextID
	story.CreatedAt = time.Now()
	story.UpdatedAt = story.CreatedAt
	cp := *story
	f.byID[story.ID] = &cp
	return nil
}

func (f *fakeStoryRepo) GetByID(_ context.Context, id int64) (*models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, models.ErrStoryNotFound
}

func (f *fakeStoryRepo) Update(_ context.Context, story *models.Story) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[story.ID]; !ok {
		return models.ErrStoryNotFound
	}
	story.UpdatedAt = time.Now()
	cp := *story
	f.byID[story.ID] = &cp
	return nil
}

func (f *fakeStoryRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return models.ErrStoryNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeStoryRepo) ListByAuthor(_ context.Context, authorID int64) ([]models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Story{}
	for _, s := range f.byID {
		if s.AuthorID == authorID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStoryRepo) ListPublic(_ context.Context, _ interfaces.StoryFilter) ([]models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Story{}
	for _, s := range f.byID {
		out = append(out, *s)
	}
	return out, nil
}

type fakeChapterRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Chapter
}

var _ interfaces.ChapterRepository = (*fakeChapterRepo)(nil)

func newFakeChapterRepo() *fakeChapterRepo {
	return &fakeChapterRepo{byID: make(map[int64]*models.Chapter)}
}

func (f *fakeChapterRepo) Create(_ context.Context, chapter *models.Chapter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	chapter.ID = f.nextID
	cp := *chapter
	f.byID[chapter.ID] = &cp
	return nil
}

func (f *fakeChapterRepo) GetByID(_ context.Context, id int64) (*models.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.byID[id]; ok {
		cp := *ch
		return &cp, nil
	}
	return nil, models.ErrChapterNotFound
}

func (f *fakeChapterRepo) Update(_ context.Context, chapter *models.Chapter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[chapter.ID]; !ok {
		return models.ErrChapterNotFound
	}
	cp := *chapter
	f.byID[chapter.ID] = &cp
	return nil
}

func (f *fakeChapterRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return models.ErrChapterNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeChapterRepo) List(_ context.Context, storyID *int64) ([]models.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Chapter{}
	for _, ch := range f.byID {
		if storyID == nil || ch.StoryID == *storyID {
			out = append(out, *ch)
		}
	}
	return out, nil
}

type fakeCharacterRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Character
}

var _ interfaces.CharacterRepository = (*fakeCharacterRepo)(nil)

func newFakeCharacterRepo() *fakeCharacterRepo {
	return &fakeCharacterRepo{byID: make(map[int64]*models.Character)}
}

func (f *fakeCharacterRepo) Create(_ context.Context, character *models.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	character.ID = f.nextID
	cp := *character
	f.byID[character.ID] = &cp
	return nil
}

func (f *fakeCharacterRepo) GetByID(_ context.Context, id int64) (*models.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.byID[id]; ok {
		cp := *ch
		return &cp, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeCharacterRepo) Update(_ context.Context, character *models.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[character.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *character
	f.byID[character.ID] = &cp
	return nil
}

func (f *fakeCharacterRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCharacterRepo) List(_ context.Context, storyID *int64) ([]models.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Character{}
	for _, ch := range f.byID {
		if storyID == nil || ch.StoryID == *storyID {
			out = append(out, *ch)
		}
	}
	return out, nil
}

type fakeActionRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Action
}

var _ interfaces.ActionRepository = (*fakeActionRepo)(nil)

func newFakeActionRepo() *fakeActionRepo {
	return &fakeActionRepo{byID: make(map[int64]*models.Action)}
}

func (f *fakeActionRepo) Create(_ context.Context, action *models.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	action.ID = f.nextID
	cp := *action
	f.byID[action.ID] = &cp
	return nil
}

func (f *fakeActionRepo) GetByID(_ context.Context, id int64) (*models.Action, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeActionRepo) Update(_ context.Context, action *models.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[action.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *action
	f.byID[action.ID] = &cp
	return nil
}

func (f *fakeActionRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeActionRepo) List(_ context.Context, sourceChapterID *int64) ([]models.Action, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Action{}
	for _, a := range f.byID {
		if sourceChapterID == nil || a.SourceChapterID == *sourceChapterID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakePassageRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Passage
}

var _ interfaces.PassageRepository = (*fakePassageRepo)(nil)

func newFakePassageRepo() *fakePassageRepo {
	return &fakePassageRepo{byID: make(map[int64]*models.Passage)}
}

func (f *fakePassageRepo) Create(_ context.Context, passage *models.Passage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	passage.ID = f.nextID
	passage.CreatedAt = time.Now()
	cp := *passage
	f.byID[passage.ID] = &cp
	return nil
}

func (f *fakePassageRepo) GetByID(_ context.Context, id int64) (*models.Passage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, models.ErrNotFound
}
