// Package sqltemplate renders the SQL of data views against the filters a
// board's controllers currently apply.
package sqltemplate

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

var (
	// ErrNotSelect is returned when a rendered view query is anything but one SELECT.
	ErrNotSelect = errors.New("sqltemplate: only a single SELECT statement is allowed")
)

// Options configures a Processor.
type Options struct {
	Logger *slog.Logger
}

// Processor renders view SQL templates. Compiled templates are cached by the
// md5 of their source, so the cache is safe to share between views.
type Processor struct {
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]*pongo2.Template

	parseMu sync.Mutex
	parser  *parser.Parser
}

// NewProcessor creates a processor.
func NewProcessor(opts Options) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger: logger,
		cache:  make(map[string]*pongo2.Template),
		parser: parser.New(),
	}
}

// Process renders content with model. A template that fails to compile or
// execute is logged and the content is returned unchanged.
func (p *Processor) Process(content string, model map[string]any) string {
	if content == "" {
		return content
	}
	tpl, err := p.template(content)
	if err != nil {
		p.logger.Warn("sql template compile failed", "error", err)
		return content
	}
	if model == nil {
		model = map[string]any{}
	}
	out, err := tpl.Execute(pongo2.Context(model))
	if err != nil {
		p.logger.Warn("sql template execute failed", "error", err)
		return content
	}
	return out
}

// ProcessSelect renders content and checks the result parses as exactly one
// SELECT statement.
func (p *Processor) ProcessSelect(content string, model map[string]any) (string, error) {
	sql := p.Process(content, model)
	if err := p.CheckSelect(sql); err != nil {
		return "", err
	}
	return sql, nil
}

// CheckSelect parses sql and rejects anything but a single SELECT.
func (p *Processor) CheckSelect(sql string) error {
	p.parseMu.Lock()
	stmts, _, err := p.parser.Parse(sql, "", "")
	p.parseMu.Unlock()
	if err != nil {
		return fmt.Errorf("sqltemplate: parse: %w", err)
	}
	if len(stmts) != 1 {
		return ErrNotSelect
	}
	switch stmts[0].(type) {
	case *ast.SelectStmt, *ast.SetOprStmt:
		return nil
	}
	return ErrNotSelect
}

// CacheSize reports how many compiled templates are cached.
func (p *Processor) CacheSize() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.cache)
}

func (p *Processor) template(content string) (*pongo2.Template, error) {
	key := contentKey(content)
	p.mu.RLock()
	tpl, ok := p.cache[key]
	p.mu.RUnlock()
	if ok {
		return tpl, nil
	}
	tpl, err := pongo2.FromString(content)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.cache[key] = tpl
	p.mu.Unlock()
	return tpl, nil
}

func contentKey(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}
