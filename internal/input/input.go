// Package input reads batch documents (JSON or YAML) from disk and serves
// their extraction blocks to the engine.
package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/campusgrade/scorecore/internal/models"
	"github.com/campusgrade/scorecore/internal/validation"
)

var (
	// ErrBatchNotFound is returned by Provider for an id it was never given.
	ErrBatchNotFound = errors.New("batch not found")
	// ErrDuplicateBatch is returned when two requests share a batch id.
	ErrDuplicateBatch = errors.New("duplicate batch id")
)

// SchemaError lists the schema violations of one document.
type SchemaError struct {
	Path     string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %d schema violation(s): %s", e.Path, len(e.Problems), strings.Join(e.Problems, "; "))
}

// LoadFile reads, schema-checks and decodes the batch document at path.
func LoadFile(path string) (*models.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes data, which may be JSON or YAML. name is used in errors.
func Parse(name string, data []byte) (*models.Request, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	doc = validation.ToJSONCompatible(doc)
	if problems := validation.ValidateDocument(doc); len(problems) > 0 {
		return nil, &SchemaError{Path: name, Problems: problems}
	}

	req, err := Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Decode maps a generic document onto a Request. Framework names and tags
// are both accepted.
func Decode(doc any) (*models.Request, error) {
	var req models.Request
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.TextUnmarshallerHookFunc(),
		Result:     &req,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(doc); err != nil {
		return nil, err
	}
	return &req, nil
}

// Provider holds the blocks of loaded requests keyed by batch id.
// It is safe for concurrent use.
type Provider struct {
	mu     sync.RWMutex
	blocks map[string][]models.Block
}

func NewProvider() *Provider {
	return &Provider{blocks: map[string][]models.Block{}}
}

// Add registers r's blocks. A batch id may be added once.
func (p *Provider) Add(r *models.Request) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.blocks[r.BatchID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateBatch, r.BatchID)
	}
	p.blocks[r.BatchID] = r.ExtractionBlocks
	return nil
}

func (p *Provider) Blocks(ctx context.Context, batchID string) ([]models.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	blocks, ok := p.blocks[batchID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBatchNotFound, batchID)
	}
	return blocks, nil
}
