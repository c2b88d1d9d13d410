// Package assets reads model documents and textures from local files,
// http(s) URLs and data URIs.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vincent-petithory/dataurl"
	"go.uber.org/zap"

	"github.com/Faultbox/boxedit/internal/logger"
)

// ErrFetch classifies every failure to read a resource.
var ErrFetch = errors.New("fetch failed")

// FetchError reports a failed read. StatusCode is the HTTP status for
// remote resources that answered with something other than 200, and zero
// otherwise.
type FetchError struct {
	Ref        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: status %d", e.Ref, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v", e.Ref, e.Err)
	default:
		return "fetch " + e.Ref + ": failed"
	}
}

func (e *FetchError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFetch, e.Err}
	}
	return []error{ErrFetch}
}

// Kind is the source type of a reference.
type Kind int

const (
	KindFile Kind = iota
	KindHTTP
	KindData
)

// KindOf classifies a reference string.
func KindOf(ref string) Kind {
	lower := strings.ToLower(ref)
	switch {
	case strings.HasPrefix(lower, "data:"):
		return KindData
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindHTTP
	default:
		return KindFile
	}
}

// Loader reads resources by reference. Remote responses are cached; local
// files are always read fresh so edits on disk are picked up.
type Loader struct {
	client  *http.Client
	baseDir string
	cache   *Cache
	log     *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) references.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithBaseDir resolves relative file references against dir.
func WithBaseDir(dir string) Option {
	return func(l *Loader) { l.baseDir = dir }
}

// NewLoader creates a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client: http.DefaultClient,
		cache:  NewCache(),
		log:    logger.Named("assets"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve returns the path a file reference reads from. Other references
// are returned unchanged.
func (l *Loader) Resolve(ref string) string {
	if KindOf(ref) != KindFile {
		return ref
	}
	if l.baseDir != "" && !filepath.IsAbs(ref) {
		return filepath.Join(l.baseDir, ref)
	}
	return ref
}

// ReadText reads a resource as text.
func (l *Loader) ReadText(ctx context.Context, ref string) (string, error) {
	data, err := l.ReadBytes(ctx, ref)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadBytes reads a resource.
func (l *Loader) ReadBytes(ctx context.Context, ref string) ([]byte, error) {
	switch KindOf(ref) {
	case KindData:
		data, err := decodeDataURI(ref)
		if err != nil {
			return nil, &FetchError{Ref: shorten(ref), Err: err}
		}
		return data, nil
	case KindHTTP:
		return l.fetch(ctx, ref)
	default:
		path := l.Resolve(ref)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &FetchError{Ref: ref, Err: err}
		}
		l.log.Debug("read file", zap.String("path", path), zap.Int("bytes", len(data)))
		return data, nil
	}
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	if data, ok := l.cache.Get(ref); ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Ref: ref, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}

	l.cache.Set(ref, data)
	l.log.Debug("fetched", zap.String("url", ref), zap.Int("bytes", len(data)))
	return data, nil
}

// Invalidate drops a cached remote response.
func (l *Loader) Invalidate(ref string) {
	l.cache.Delete(ref)
}

// CacheStats returns the remote cache hit and miss counts.
func (l *Loader) CacheStats() (hits, misses int) {
	return l.cache.Stats()
}

// decodeDataURI parses "data:[<mediatype>][;base64],<data>". Payloads
// without base64 are percent-decoded.
func decodeDataURI(ref string) ([]byte, error) {
	du, err := dataurl.DecodeString(ref)
	if err != nil {
		return nil, fmt.Errorf("data URI: %w", err)
	}
	return du.Data, nil
}

func shorten(ref string) string {
	if len(ref) > 48 {
		return ref[:48] + "..."
	}
	return ref
}

// Cache is an in-memory store of fetched resources.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes one item.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
