package modules

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/probexq/ASharpLang/internal/lexer"
	"github.com/probexq/ASharpLang/internal/parser"
	"github.com/probexq/ASharpLang/internal/pipeline"
)

// Cache holds parsed modules by resolved path. Each path is parsed at most
// once however often (or concurrently) it is imported; failed parses are
// not cached.
type Cache struct {
	mu      sync.Mutex
	modules map[string]*Module
	parses  map[string]int
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{
		modules: make(map[string]*Module),
		parses:  make(map[string]int),
	}
}

// Load returns the module at loc, reading and parsing it on first use.
func (c *Cache) Load(loc Location) (*Module, error) {
	if mod, ok := c.lookup(loc.Path); ok {
		return mod, nil
	}

	v, err, _ := c.group.Do(loc.Path, func() (any, error) {
		if mod, ok := c.lookup(loc.Path); ok {
			return mod, nil
		}
		mod, err := c.parse(loc)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.modules[loc.Path] = mod
		c.mu.Unlock()
		return mod, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Module), nil
}

func (c *Cache) lookup(path string) (*Module, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mod, ok := c.modules[path]
	return mod, ok
}

func (c *Cache) parse(loc Location) (*Module, error) {
	c.mu.Lock()
	c.parses[loc.Path]++
	c.mu.Unlock()

	src, err := loc.Read()
	if err != nil {
		return nil, err
	}

	ctx := pipeline.NewPipelineContext(src)
	ctx.FilePath = loc.Path
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return newModule(loc, ctx.AstRoot), nil
}

// ParseCount reports how many times the module at path was parsed.
func (c *Cache) ParseCount(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parses[path]
}

// Len returns the number of cached modules.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.modules)
}
