// Package editor holds the state of one editing session: the current model
// document, the scene subtree built from it and the texture it is drawn
// with.
package editor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/boxedit/internal/assets"
	"github.com/Faultbox/boxedit/internal/config"
	"github.com/Faultbox/boxedit/internal/engine/scene"
	"github.com/Faultbox/boxedit/internal/engine/texture"
	"github.com/Faultbox/boxedit/internal/logger"
	"github.com/Faultbox/boxedit/pkg/formats"
)

// Session errors.
var (
	ErrLoadInFlight = errors.New("a model load is in progress")
	ErrNoModel      = errors.New("no model loaded")
)

// Options configures a Session.
type Options struct {
	Loader *assets.Loader
	Scene  *scene.Scene

	PrettyExport   bool
	StrictFlatten  bool
	AtlasFromImage bool
	EmbedTexture   bool
	FetchTimeout   time.Duration
	Material       scene.MaterialKind
}

// OptionsFromConfig maps the editor section of the configuration.
func OptionsFromConfig(cfg config.EditorConfig) Options {
	return Options{
		PrettyExport:   cfg.PrettyExport,
		StrictFlatten:  cfg.StrictFlatten,
		AtlasFromImage: cfg.AtlasFromImage,
		EmbedTexture:   cfg.EmbedTexture,
		FetchTimeout:   cfg.FetchTimeout,
	}
}

// Session replaces its model, subtree and texture together. A failed load
// leaves the previous state untouched.
type Session struct {
	id     string
	opts   Options
	loader *assets.Loader
	scene  *scene.Scene
	log    *zap.Logger

	loading atomic.Bool

	mu         sync.Mutex
	model      *formats.Model
	root       *scene.Node
	texture    *texture.Texture
	modelRef   string
	textureRef string
}

// NewSession starts a session. Missing Loader and Scene options are
// created.
func NewSession(opts Options) *Session {
	id := uuid.NewString()
	s := &Session{
		id:     id,
		opts:   opts,
		loader: opts.Loader,
		scene:  opts.Scene,
		log:    logger.Named("editor").With(zap.String("session", id)),
	}
	if s.loader == nil {
		s.loader = assets.NewLoader()
	}
	if s.scene == nil {
		s.scene = scene.New()
	}
	s.log.Debug("session started")
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Scene returns the scene the session attaches its subtree to.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Loader returns the resource loader.
func (s *Session) Loader() *assets.Loader { return s.loader }

// Load fetches a model document and a texture and replaces the current
// model with them. When textureRef is empty the document's own texture
// reference is used, resolved relative to modelRef. The document and an
// explicit texture are fetched concurrently; if either fails nothing
// changes.
func (s *Session) Load(ctx context.Context, modelRef, textureRef string) error {
	if !s.loading.CompareAndSwap(false, true) {
		return ErrLoadInFlight
	}
	defer s.loading.Store(false)

	if s.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()
	}

	var (
		m   *formats.Model
		tex *texture.Texture
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := s.loader.ReadBytes(gctx, modelRef)
		if err != nil {
			return err
		}
		m, err = formats.ParseModel(data)
		if err != nil {
			return fmt.Errorf("%s: %w", modelRef, err)
		}
		return nil
	})
	if textureRef != "" {
		g.Go(func() error {
			var err error
			tex, err = s.readTexture(gctx, textureRef)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("load failed, keeping previous model", zap.String("model", modelRef), zap.Error(err))
		return err
	}

	if textureRef == "" && m.TextureRef() != "" {
		textureRef = resolveRelative(modelRef, m.TextureRef())
		var err error
		if tex, err = s.readTexture(ctx, textureRef); err != nil {
			s.log.Warn("texture load failed, keeping previous model", zap.String("texture", textureRef), zap.Error(err))
			return err
		}
	}

	s.install(m, tex)

	s.mu.Lock()
	s.modelRef, s.textureRef = modelRef, textureRef
	s.mu.Unlock()

	s.log.Info("model loaded",
		zap.String("model", modelRef),
		zap.String("name", m.Name),
		zap.Bool("textured", tex != nil))
	return nil
}

// Reload repeats the last successful Load.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	modelRef, textureRef := s.modelRef, s.textureRef
	s.mu.Unlock()

	if modelRef == "" {
		return ErrNoModel
	}
	s.loader.Invalidate(modelRef)
	if textureRef != "" {
		s.loader.Invalidate(textureRef)
	}
	return s.Load(ctx, modelRef, textureRef)
}

// Refs returns the references of the last successful Load.
func (s *Session) Refs() (modelRef, textureRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelRef, s.textureRef
}

// LoadModel installs a model built in code. tex may be nil.
func (s *Session) LoadModel(m *formats.Model, tex *texture.Texture) error {
	if m == nil {
		return ErrNoModel
	}
	if !s.loading.CompareAndSwap(false, true) {
		return ErrLoadInFlight
	}
	defer s.loading.Store(false)

	s.install(m, tex)

	s.mu.Lock()
	s.modelRef, s.textureRef = "", ""
	s.mu.Unlock()
	return nil
}

func (s *Session) readTexture(ctx context.Context, ref string) (*texture.Texture, error) {
	data, err := s.loader.ReadBytes(ctx, ref)
	if err != nil {
		return nil, err
	}
	return texture.Decode(ref, data)
}

// install builds the subtree for m and swaps it in for the previous one.
func (s *Session) install(m *formats.Model, tex *texture.Texture) {
	s.mu.Lock()
	opts := scene.BuildOptions{Material: s.opts.Material}
	s.mu.Unlock()
	if tex != nil {
		opts.TextureRef = tex.Ref
		if s.opts.AtlasFromImage {
			opts.AtlasWidth, opts.AtlasHeight = tex.Width(), tex.Height()
		}
	}
	root := scene.Build(m, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene.Replace(s.root, root)
	s.model, s.root, s.texture = m, root, tex
}

// Reconstruct flattens the current subtree into a new document and makes
// it the session's model. It fails with ErrLoadInFlight while a load runs.
func (s *Session) Reconstruct() (*formats.Model, error) {
	if s.loading.Load() {
		return nil, ErrLoadInFlight
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil || s.root == nil {
		return nil, ErrNoModel
	}

	f := scene.Flattener{Strict: s.opts.StrictFlatten, Log: s.log}
	var (
		m   *formats.Model
		err error
	)
	s.scene.View(func(*scene.Node) {
		m, err = f.Flatten(s.root, s.model.InitialTranslation)
	})
	if err != nil {
		s.log.Error("reconstruction failed", zap.Error(err))
		return nil, err
	}
	if len(f.Dropped) > 0 {
		s.log.Warn("pivots without a name were left out", zap.Strings("paths", f.Dropped))
	}

	m.Name = s.model.Name
	switch {
	case s.texture == nil:
		m.Texture = nil
	case s.opts.EmbedTexture:
		uri, err := s.texture.DataURI()
		if err != nil {
			return nil, err
		}
		m.SetTexture(uri)
	default:
		m.Texture = s.model.Texture
	}

	s.model = m
	return m, nil
}

// Export reconstructs the model and serialises it. Nothing is returned when
// reconstruction fails.
func (s *Session) Export() ([]byte, error) {
	m, err := s.Reconstruct()
	if err != nil {
		return nil, err
	}
	return formats.MarshalModel(m, s.opts.PrettyExport)
}

// Model returns the current document.
func (s *Session) Model() *formats.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// Root returns the subtree built from the current document.
func (s *Session) Root() *scene.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Texture returns the current texture, or nil.
func (s *Session) Texture() *texture.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.texture
}

// Close detaches the subtree and forgets the model.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root != nil {
		s.scene.Detach(s.root)
	}
	s.model, s.root, s.texture = nil, nil, nil
	s.modelRef, s.textureRef = "", ""
	s.log.Debug("session closed")
}

// resolveRelative resolves a texture reference found inside a document
// against the location of the document.
func resolveRelative(modelRef, ref string) string {
	if assets.KindOf(ref) != assets.KindFile || filepath.IsAbs(ref) {
		return ref
	}
	switch assets.KindOf(modelRef) {
	case assets.KindFile:
		return filepath.Join(filepath.Dir(modelRef), ref)
	case assets.KindHTTP:
		base, err := url.Parse(modelRef)
		if err != nil {
			return ref
		}
		rel, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return base.ResolveReference(rel).String()
	default:
		return ref
	}
}
