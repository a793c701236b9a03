package servicestest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/AnshRaj112/campsite/internal/services"
)

// Geocoder answers from a fixed address table. Unknown addresses have no
// results.
type Geocoder struct {
	mu      sync.Mutex
	Results map[string]services.GeocodeResult
	Err     error
	Calls   int
}

func NewGeocoder() *Geocoder {
	return &Geocoder{Results: map[string]services.GeocodeResult{
		"Boulder, CO": {Lat: 40.01499, Lng: -105.27055, FormattedAddress: "Boulder, CO, USA"},
		"Moab, UT":    {Lat: 38.57332, Lng: -109.54984, FormattedAddress: "Moab, UT 84532, USA"},
	}}
}

func (g *Geocoder) Geocode(ctx context.Context, address string) (*services.GeocodeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls++
	if g.Err != nil {
		return nil, &services.GeocodeError{Address: address, Err: g.Err}
	}
	r, ok := g.Results[address]
	if !ok {
		return nil, services.ErrInvalidAddress
	}
	return &r, nil
}

// ImageHost keeps uploaded images in memory, keyed by handle.
type ImageHost struct {
	mu         sync.Mutex
	Images     map[string][]byte
	UploadErr  error
	DestroyErr error
	Uploads    int
	Destroyed  []string
	seq        int
}

func NewImageHost() *ImageHost {
	return &ImageHost{Images: make(map[string][]byte)}
}

func (h *ImageHost) Upload(ctx context.Context, file io.Reader, filename string) (*services.HostedImage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Uploads++
	if h.UploadErr != nil {
		return nil, &services.ImageHostError{Op: "upload", Err: h.UploadErr}
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	h.seq++
	handle := fmt.Sprintf("campsite/%d-%s", h.seq, filename)
	h.Images[handle] = data
	return &services.HostedImage{URL: "https://img.test/" + handle, Handle: handle}, nil
}

func (h *ImageHost) Destroy(ctx context.Context, handle string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.DestroyErr != nil {
		return &services.ImageHostError{Op: "destroy", Err: h.DestroyErr}
	}
	delete(h.Images, handle)
	h.Destroyed = append(h.Destroyed, handle)
	return nil
}

// Has reports whether an image with handle is stored.
func (h *ImageHost) Has(handle string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.Images[handle]
	return ok
}

// SessionStore keeps sessions in a map.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]services.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]services.Session)}
}

func (s *SessionStore) Load(ctx context.Context, id string) (*services.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	sess.Flashes = copyFlashes(sess.Flashes)
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *services.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *sess
	stored.IsNew = false
	stored.Flashes = copyFlashes(sess.Flashes)
	s.sessions[sess.ID] = stored
	sess.IsNew = false
	return nil
}

func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports how many sessions are stored.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func copyFlashes(f map[string][]string) map[string][]string {
	if f == nil {
		return nil
	}
	out := make(map[string][]string, len(f))
	for k, v := range f {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// ResetNotifier records the last link sent.
type ResetNotifier struct {
	mu    sync.Mutex
	Email string
	Link  string
	Sent  int
}

func (n *ResetNotifier) SendPasswordReset(ctx context.Context, email, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Email = email
	n.Link = link
	n.Sent++
	return nil
}

var ErrHostDown = errors.New("image host unavailable")

// Cache keeps JSON values in a map and ignores expiry.
type Cache struct {
	mu     sync.Mutex
	values map[string][]byte
	Err    error
	Hits   int
	Misses int
}

func NewCache() *Cache {
	return &Cache{values: make(map[string][]byte)}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	raw, ok := c.values[key]
	if !ok {
		c.Misses++
		return false, nil
	}
	c.Hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}
