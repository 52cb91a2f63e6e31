package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"gopherblog/internal/model"
	"gopherblog/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// MaxTitleLength matches the posts.title column size, counted in characters.
const MaxTitleLength = 255

// PostCache stores per-author post listings. Failures never fail a request.
type PostCache interface {
	GetPosts(ctx context.Context, authorID uint) ([]model.Post, bool, error)
	SetPosts(ctx context.Context, authorID uint, posts []model.Post) error
	DeletePosts(ctx context.Context, authorID uint) error
}

type PostService struct {
	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
	cache    PostCache

	mu sync.Mutex
	// generations counts writes per author; a listing read before a write is not cached after it.
	generations map[uint]uint64
	// stale marks authors whose cached listing could not be deleted.
	stale map[uint]bool
}

type CreatePostInput struct {
	SubjectID uint
	OwnerID   uint
	Title     string
	Content   string
}

func NewPostService(userRepo *repository.UserRepository, postRepo *repository.PostRepository, cache PostCache) *PostService {
	return &PostService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		cache:       cache,
		generations: make(map[uint]uint64),
		stale:       make(map[uint]bool),
	}
}

func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*model.Post, error) {
	owner, err := s.authorizedOwner(ctx, input.SubjectID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrInvalidInput
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, ErrInvalidInput
	}

	post := &model.Post{
		Title:    title,
		Content:  input.Content,
		AuthorID: owner.ID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.invalidate(ctx, owner.ID)
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, subjectID, ownerID uint) ([]model.Post, error) {
	owner, err := s.authorizedOwner(ctx, subjectID, ownerID)
	if err != nil {
		return nil, err
	}

	if s.cache == nil || !s.cacheUsable(ctx, owner.ID) {
		return s.postRepo.ListByAuthorID(ctx, owner.ID)
	}

	if cached, hit, cacheErr := s.cache.GetPosts(ctx, owner.ID); cacheErr == nil && hit {
		return cached, nil
	}

	generation := s.generation(owner.ID)
	posts, err := s.postRepo.ListByAuthorID(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetPosts(ctx, owner.ID, posts); err != nil {
		log.Printf("cache posts for author %d failed: %v", owner.ID, err)
	}
	if s.generation(owner.ID) != generation {
		s.invalidate(ctx, owner.ID)
	}
	return posts, nil
}

// invalidate drops the cached listing after a write. When the delete fails the
// author is marked stale and listings bypass the cache until a delete succeeds.
func (s *PostService) invalidate(ctx context.Context, authorID uint) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	s.generations[authorID]++
	s.mu.Unlock()

	if err := s.cache.DeletePosts(ctx, authorID); err != nil {
		log.Printf("invalidate posts cache for author %d failed: %v", authorID, err)
		s.mu.Lock()
		s.stale[authorID] = true
		s.mu.Unlock()
	}
}

// cacheUsable retries a failed invalidation and reports whether the cache may be read.
func (s *PostService) cacheUsable(ctx context.Context, authorID uint) bool {
	s.mu.Lock()
	stale := s.stale[authorID]
	s.mu.Unlock()
	if !stale {
		return true
	}

	if err := s.cache.DeletePosts(ctx, authorID); err != nil {
		log.Printf("invalidate posts cache for author %d failed: %v", authorID, err)
		return false
	}
	s.mu.Lock()
	delete(s.stale, authorID)
	s.mu.Unlock()
	return true
}

func (s *PostService) generation(authorID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[authorID]
}

// authorizedOwner resolves the target user first so a missing user reports
// ErrUserNotFound before ownership is compared.
func (s *PostService) authorizedOwner(ctx context.Context, subjectID, ownerID uint) (*model.User, error) {
	if ownerID == 0 {
		return nil, ErrUserNotFound
	}
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}
	if err := authorizeOwner(subjectID, owner.ID); err != nil {
		return nil, err
	}
	return owner, nil
}
