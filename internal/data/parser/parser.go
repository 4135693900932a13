package parser

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/penwyp/go-health-extractor/internal/core/model"
	"github.com/penwyp/go-health-extractor/internal/util"
)

// Parser loads Apple Health export documents. The whole document is parsed
// into memory before any record is dispatched.
type Parser struct {
	mu    sync.Mutex
	cache map[string]*model.ExportDocument
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{
		cache: make(map[string]*model.ExportDocument),
	}
}

// ParseFile parses the export document at the specified path. Repeated
// parses of the same path (watch mode re-runs aside) hit an in-memory
// cache.
func (p *Parser) ParseFile(filepath string) (*model.ExportDocument, error) {
	p.mu.Lock()
	if cached, ok := p.cache[filepath]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Start parsing export file: %s", filepath))
	start := time.Now()

	file, err := os.Open(filepath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to open file: %s - %v", filepath, err))
		return nil, err
	}
	defer file.Close()

	doc, err := model.DecodeExport(file)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to decode export: %s - %v", filepath, err))
		return nil, fmt.Errorf("decode export %s: %w", filepath, err)
	}

	util.LogDebug(fmt.Sprintf("Export parsing finished: %s, %d nodes, duration %v",
		filepath, len(doc.Nodes), time.Since(start)))

	p.mu.Lock()
	p.cache[filepath] = doc
	p.mu.Unlock()

	return doc, nil
}

// Invalidate drops the cached document for path, forcing the next ParseFile
// to re-read it. Watch mode calls this when the file changes on disk.
func (p *Parser) Invalidate(path string) {
	p.mu.Lock()
	delete(p.cache, path)
	p.mu.Unlock()
}
