// Package loader assembles a workspace: a metadata universe read from a
// descriptor file plus the documentation stores that describe it.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Andrei15193/CodeMap-sub002/internal/docs"
	"github.com/Andrei15193/CodeMap-sub002/internal/metadata"
)

type Option func(*options)

type options struct {
	logger   *zap.Logger
	useCache bool
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), useCache: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStoreCache controls whether parsed documentation files are read from
// and written to the on-disk store cache. Enabled by default.
func WithStoreCache(enabled bool) Option {
	return func(o *options) { o.useCache = enabled }
}

// Workspace is everything a reference graph build needs.
type Workspace struct {
	Universe *metadata.Universe
	Docs     docs.Store
	// Roots are the top-level types of every assembly except the core
	// library, in universe order.
	Roots []*metadata.Type
}

// Loader loads documentation sources, sharing in-flight loads of the same
// source between callers.
type Loader struct {
	opts  options
	group singleflight.Group
}

func New(opts ...Option) *Loader {
	return &Loader{opts: newOptions(opts)}
}

// LoadWorkspace builds a workspace with a fresh Loader.
func LoadWorkspace(ctx context.Context, universePath string, docSources []string, opts ...Option) (*Workspace, error) {
	return New(opts...).LoadWorkspace(ctx, universePath, docSources)
}

// LoadWorkspace reads the universe and every documentation source
// concurrently. Stores are combined in argument order, so the first source
// documenting an identifier wins.
func (l *Loader) LoadWorkspace(ctx context.Context, universePath string, docSources []string) (*Workspace, error) {
	var universe *metadata.Universe
	stores := make([]docs.Store, len(docSources))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := LoadUniverse(universePath, WithLogger(l.opts.logger))
		if err != nil {
			return err
		}
		universe = u
		return nil
	})
	for i, source := range docSources {
		g.Go(func() error {
			s, err := l.LoadDocs(ctx, source)
			if err != nil {
				return err
			}
			stores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ws := &Workspace{Universe: universe, Docs: docs.Combine(stores...)}
	for _, asm := range universe.Assemblies {
		if asm.Name == metadata.CoreLibraryName {
			continue
		}
		ws.Roots = append(ws.Roots, asm.Types...)
	}
	l.opts.logger.Info("loaded workspace",
		zap.String("universe", universePath),
		zap.Int("doc_sources", len(docSources)),
		zap.Int("roots", len(ws.Roots)))
	return ws, nil
}

// LoadDocs loads one documentation source: an http(s) URL or a local XML
// file, optionally zstd-compressed. Local files are served from the store
// cache while it is fresh.
func (l *Loader) LoadDocs(ctx context.Context, source string) (*docs.MemoryStore, error) {
	v, err, shared := l.group.Do(source, func() (interface{}, error) {
		return l.loadDocs(ctx, source)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		l.opts.logger.Debug("shared documentation load", zap.String("source", source))
	}
	return v.(*docs.MemoryStore), nil
}

func (l *Loader) loadDocs(ctx context.Context, source string) (*docs.MemoryStore, error) {
	logger := l.opts.logger.With(zap.String("source", source))

	if docs.IsURL(source) {
		data, err := docs.Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetching documentation: %w", err)
		}
		return parseDocs(data, source)
	}

	if l.opts.useCache && docs.HasFreshStoreCache(source) {
		store, err := docs.LoadStoreCache(source)
		if err == nil {
			logger.Debug("documentation cache hit", zap.Int("members", store.Len()))
			return store, nil
		}
		logger.Warn("ignoring unreadable documentation cache", zap.Error(err))
	}

	data, _, err := ReadFile(source)
	if err != nil {
		return nil, err
	}
	store, err := parseDocs(data, source)
	if err != nil {
		return nil, err
	}
	if l.opts.useCache {
		if err := docs.SaveStoreCache(store, source); err != nil {
			logger.Warn("failed to cache documentation", zap.Error(err))
		}
	}
	logger.Debug("parsed documentation", zap.Int("members", store.Len()))
	return store, nil
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// parseDocs parses XML documentation, decompressing zstd frames that were
// not announced by a .zst name or a Content-Encoding header.
func parseDocs(data []byte, source string) (*docs.MemoryStore, error) {
	var r io.Reader = bytes.NewReader(data)
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	store, err := docs.ParseXML(r)
	if err != nil {
		return nil, fmt.Errorf("parsing documentation %s: %w", strings.TrimSuffix(source, ".zst"), err)
	}
	return store, nil
}
