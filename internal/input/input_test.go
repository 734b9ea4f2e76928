package input

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrade/scorecore/internal/models"
)

const batchYAML = `batch_id: inst-9
framework: nirf
academic_year: "2024-25"
upstream_flags:
  perception_survey_provided: true
extraction_blocks:
  - id: b1
    block_type: research
    source_document_id: dcs.xlsx
    confidence: 0.9
    facts:
      publications: 120
      citations: "2,400"
    evidence:
      publications:
        snippet: "120 indexed publications"
        page: 4
    block_evidence:
      snippet: "Research sheet"
    flags:
      is_low_quality: true
`

func TestParseYAML(t *testing.T) {
	req, err := Parse("batch.yaml", []byte(batchYAML))
	require.NoError(t, err)

	assert.Equal(t, "inst-9", req.BatchID)
	assert.Equal(t, models.FrameworkNIRF, req.Framework)
	assert.Equal(t, "2024-25", req.AcademicYear)
	assert.True(t, req.UpstreamFlags[models.FlagPerceptionSurvey])

	require.Len(t, req.ExtractionBlocks, 1)
	blk := req.ExtractionBlocks[0]
	assert.Equal(t, "research", blk.Type)
	assert.InDelta(t, 0.9, blk.Confidence, 1e-9)
	assert.Equal(t, 120, blk.Facts["publications"])
	assert.Equal(t, "2,400", blk.Facts["citations"])
	assert.Equal(t, 4, blk.Evidence["publications"].Page)
	require.NotNil(t, blk.BlockEvidence)
	assert.Equal(t, "Research sheet", blk.BlockEvidence.Snippet)
	assert.True(t, blk.Flags.IsLowQuality)
}

func TestParseJSON(t *testing.T) {
	req, err := Parse("batch.json", []byte(`{"batch_id": "p1", "framework": "b", "extraction_blocks": []}`))
	require.NoError(t, err)
	assert.Equal(t, models.FrameworkNBA, req.Framework)
	assert.Empty(t, req.ExtractionBlocks)
}

func TestParseSchemaError(t *testing.T) {
	_, err := Parse("bad.json", []byte(`{"batch_id": "p1", "framework": "QS", "extraction_blocks": []}`))
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "bad.json", se.Path)
	assert.NotEmpty(t, se.Problems)
	assert.Contains(t, err.Error(), "schema violation")
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("bad.yaml", []byte("batch_id: [oops"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(batchYAML), 0o644))

	req, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "inst-9", req.BatchID)

	_, err = LoadFile(filepath.Join(dir, "none.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestProvider(t *testing.T) {
	req := &models.Request{BatchID: "a", ExtractionBlocks: []models.Block{{Type: "x"}}}
	p := NewProvider()
	require.NoError(t, p.Add(req))
	require.ErrorIs(t, p.Add(req), ErrDuplicateBatch)

	blocks, err := p.Blocks(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, blocks, 1)

	_, err = p.Blocks(context.Background(), "b")
	require.ErrorIs(t, err, ErrBatchNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Blocks(ctx, "a")
	require.ErrorIs(t, err, context.Canceled)
}
