// Package servicestest provides in-memory implementations of the services
// store and collaborator interfaces for tests.
package servicestest

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/AnshRaj112/campsite/internal/models"
	"github.com/AnshRaj112/campsite/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrStoreDown = errors.New("store unavailable")

type UserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return services.ErrUserAlreadyExists
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.ID == id })
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *UserStore) GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	return s.find(func(u models.User) bool {
		return u.ResetPasswordToken == token && u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now)
	})
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return services.ErrNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) find(match func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, services.ErrNotFound
}

type CampgroundStore struct {
	mu          sync.Mutex
	order       []primitive.ObjectID
	campgrounds map[primitive.ObjectID]models.Campground

	// Err, when set, is returned by every method.
	Err error
}

func NewCampgroundStore() *CampgroundStore {
	return &CampgroundStore{campgrounds: make(map[primitive.ObjectID]models.Campground)}
}

func (s *CampgroundStore) List(ctx context.Context) ([]models.Campground, error) {
	return s.filter(func(models.Campground) bool { return true })
}

func (s *CampgroundStore) Search(ctx context.Context, term string) ([]models.Campground, error) {
	re, err := regexp.Compile("(?i)" + services.SearchPattern(term))
	if err != nil {
		return nil, err
	}
	return s.filter(func(c models.Campground) bool { return re.MatchString(c.Name) })
}

func (s *CampgroundStore) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Campground, error) {
	return s.filter(func(c models.Campground) bool { return c.Author.ID == authorID })
}

func (s *CampgroundStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Campground, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.campgrounds[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	c.Comments = append([]primitive.ObjectID(nil), c.Comments...)
	return &c, nil
}

func (s *CampgroundStore) Create(ctx context.Context, c *models.Campground) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.campgrounds[c.ID] = *c
	s.order = append(s.order, c.ID)
	return nil
}

func (s *CampgroundStore) Update(ctx context.Context, c *models.Campground) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.campgrounds[c.ID]
	if !ok {
		return services.ErrNotFound
	}
	updated := *c
	updated.Comments = existing.Comments
	updated.Author = existing.Author
	s.campgrounds[c.ID] = updated
	return nil
}

func (s *CampgroundStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.campgrounds[id]; !ok {
		return services.ErrNotFound
	}
	delete(s.campgrounds, id)
	return nil
}

func (s *CampgroundStore) AddComment(ctx context.Context, id, commentID primitive.ObjectID) error {
	return s.mutate(id, func(c *models.Campground) {
		c.Comments = append(c.Comments, commentID)
	})
}

func (s *CampgroundStore) RemoveComment(ctx context.Context, id, commentID primitive.ObjectID) error {
	return s.mutate(id, func(c *models.Campground) {
		kept := c.Comments[:0]
		for _, cid := range c.Comments {
			if cid != commentID {
				kept = append(kept, cid)
			}
		}
		c.Comments = kept
	})
}

func (s *CampgroundStore) mutate(id primitive.ObjectID, fn func(*models.Campground)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	c, ok := s.campgrounds[id]
	if !ok {
		return services.ErrNotFound
	}
	c.Comments = append([]primitive.ObjectID(nil), c.Comments...)
	fn(&c)
	s.campgrounds[id] = c
	return nil
}

func (s *CampgroundStore) filter(match func(models.Campground) bool) ([]models.Campground, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Campground{}
	for _, id := range s.order {
		c, ok := s.campgrounds[id]
		if ok && match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

type CommentStore struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]models.Comment
}

func NewCommentStore() *CommentStore {
	return &CommentStore{comments: make(map[primitive.ObjectID]models.Comment)}
}

func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.comments[c.ID] = *c
	return nil
}

func (s *CommentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &c, nil
}

func (s *CommentStore) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Comment{}
	for _, id := range ids {
		if c, ok := s.comments[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CommentStore) Update(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[c.ID]; !ok {
		return services.ErrNotFound
	}
	s.comments[c.ID] = *c
	return nil
}

func (s *CommentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return services.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *CommentStore) DeleteByCampground(ctx context.Context, campgroundID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.comments {
		if c.CampgroundID == campgroundID {
			delete(s.comments, id)
			n++
		}
	}
	return n, nil
}

// Len reports how many comments are stored.
func (s *CommentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}
