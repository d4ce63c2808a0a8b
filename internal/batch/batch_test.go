// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pdiddy/oracle-engine/internal/pipeline"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleDoc = `# ORACLE 3.1

#### SAÚDE FÍSICA (SF)
- **SF1**: Beber água
- **SF2**: Caminhar [0:0:4:0:1]

#### SAÚDE MENTAL (SM)
- **SM1**: Meditar

- **OPP1**: Perder peso → Trilha CX1
- **CX1B** (Básico): Caminhar 10 minutos
`

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newRunner(cfg types.BatchConfig) *Runner {
	return New(pipeline.New(), cfg)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "oracle_prompt_2.1.md", sampleDoc)
	writeDoc(t, dir, "oracle_prompt_4.2.md", sampleDoc)
	writeDoc(t, dir, "notes.md", "nothing")
	writeDoc(t, dir, "archive/oracle_prompt_1.0.md", sampleDoc)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "oracle_prompt_dir.md"), 0o755))

	docs, err := Discover(dir, DefaultPattern)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "oracle_prompt_2.1.md"),
		filepath.Join(dir, "oracle_prompt_4.2.md"),
	}, docs)

	docs, err = Discover(dir, "**/oracle_prompt_*.md")
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestDiscoverErrors(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), DefaultPattern)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Discover(t.TempDir(), "[")
	assert.Error(t, err)

	docs, err := Discover(t.TempDir(), DefaultPattern)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestOutputPaths(t *testing.T) {
	r := newRunner(types.BatchConfig{})
	assert.Equal(t, filepath.Join("a", "oracle_prompt_4.2.json"), r.OutputPath(filepath.Join("a", "oracle_prompt_4.2.md")))
	assert.Equal(t, filepath.Join("a", "oracle_prompt_4.2_goal_mapping.json"), r.MappingPath(filepath.Join("a", "oracle_prompt_4.2.md")))

	r = newRunner(types.BatchConfig{OutputDir: "out"})
	assert.Equal(t, filepath.Join("out", "oracle_prompt_4.2.json"), r.OutputPath(filepath.Join("a", "oracle_prompt_4.2.md")))
}

func TestNewDefaults(t *testing.T) {
	cfg := newRunner(types.BatchConfig{}).Config()
	assert.Equal(t, DefaultOracleDir, cfg.OracleDir)
	assert.Equal(t, DefaultPattern, cfg.Pattern)
	assert.Equal(t, 1, cfg.Parallel)
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	var docs []string
	for _, name := range []string{"oracle_prompt_1.0.md", "oracle_prompt_2.0.md", "oracle_prompt_3.0.md", "oracle_prompt_4.0.md"} {
		docs = append(docs, writeDoc(t, dir, name, sampleDoc))
	}

	r := newRunner(types.BatchConfig{OracleDir: dir, Parallel: 3, WithMapping: true})
	var buf bytes.Buffer
	summary, err := r.RunAll(context.Background(), docs, &buf)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Processed)
	assert.Equal(t, 4, summary.Total())
	assert.False(t, summary.HasFailures())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "processed oracle_prompt_1.0.md (2 dimensions, 5 activities, 0 warnings)", lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "processed oracle_prompt_4.0.md"))

	res, err := ValidateOutput(filepath.Join(dir, "oracle_prompt_2.0.json"))
	require.NoError(t, err)
	assert.Equal(t, "2.0", res.Version)
	assert.Equal(t, 4, res.Activities["SF2"].ScoreVector["SF"])
	assert.FileExists(t, filepath.Join(dir, "oracle_prompt_2.0_goal_mapping.json"))

	// Second run skips unchanged documents.
	buf.Reset()
	summary, err = r.RunAll(context.Background(), docs, &buf)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Skipped)
	assert.Contains(t, buf.String(), "skipped oracle_prompt_3.0.md")
}

func TestRunAllForce(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "oracle_prompt_1.0.md", sampleDoc)

	r := newRunner(types.BatchConfig{OracleDir: dir, Force: true})
	for i := 0; i < 2; i++ {
		summary, err := r.RunAll(context.Background(), []string{doc}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Processed)
	}
}

func TestProcessChangedDocument(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "oracle_prompt_1.0.md", sampleDoc)
	r := newRunner(types.BatchConfig{OracleDir: dir})
	out := r.OutputPath(doc)

	require.Equal(t, StatusProcessed, r.Process(context.Background(), doc, out).Status)
	require.Equal(t, StatusSkipped, r.Process(context.Background(), doc, out).Status)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(doc, future, future))
	assert.Equal(t, StatusProcessed, r.Process(context.Background(), doc, out).Status)
}

func TestProcessUnreadable(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "oracle_prompt_9.9.md")
	r := newRunner(types.BatchConfig{OracleDir: dir, WithMapping: true})

	o := r.Process(context.Background(), doc, r.OutputPath(doc))
	assert.Equal(t, StatusFailed, o.Status)
	require.Error(t, o.Err)
	assert.Contains(t, o.Err.Error(), "Failed to read file")
	assert.Nil(t, o.Mapping)

	res, err := ValidateOutput(r.OutputPath(doc))
	assert.ErrorIs(t, err, ErrInvalidOutput)
	require.NotNil(t, res)
	assert.Equal(t, types.StatusError, res.Metadata.ParsingStatus)
	assert.NoFileExists(t, r.MappingPath(doc))
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRunner(types.BatchConfig{})
	o := r.Process(ctx, "oracle_prompt_1.0.md", "out.json")
	assert.Equal(t, StatusFailed, o.Status)
	assert.True(t, errors.Is(o.Err, context.Canceled))
}

func TestValidateOutput(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", `{"version":"1.0","source_file":"a.md","dimensions":{},"activities":{},"metadata":{"parsing_status":"success"}}`, false},
		{"missing keys", `{"version":"1.0","dimensions":{}}`, true},
		{"error status", `{"version":"1.0","source_file":"a.md","dimensions":{},"activities":{},"metadata":{"parsing_status":"error","errors":1}}`, true},
		{"not json", `version: 1.0`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDoc(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".json", tt.content)
			_, err := ValidateOutput(path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOutput)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err := ValidateOutput(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidOutput)
}

func TestLoadResult(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "oracle_prompt_1.0.md", sampleDoc)
	r := newRunner(types.BatchConfig{OracleDir: dir})
	o := r.Process(context.Background(), doc, r.OutputPath(doc))
	require.Equal(t, StatusProcessed, o.Status)

	res, err := LoadResult(o.Output)
	require.NoError(t, err)
	assert.Equal(t, o.Result.Activities, res.Activities)
	assert.Equal(t, o.Result.Metadata, res.Metadata)
}

// syncBuffer guards a bytes.Buffer shared with the watch goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	r := newRunner(types.BatchConfig{OracleDir: dir})

	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx, 20*time.Millisecond, &out) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeDoc(t, dir, "notes.md", "ignored")
	writeDoc(t, dir, "oracle_prompt_5.0.md", sampleDoc)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "oracle_prompt_5.0.json"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, out.String(), "processed oracle_prompt_5.0.md")
	assert.NotContains(t, out.String(), "notes.md")
	assert.NoFileExists(t, filepath.Join(dir, "notes.json"))
}

func TestMatches(t *testing.T) {
	r := newRunner(types.BatchConfig{OracleDir: "docs"})
	assert.True(t, r.matches(filepath.Join("docs", "oracle_prompt_1.0.md")))
	assert.False(t, r.matches(filepath.Join("docs", "oracle_prompt_1.0.json")))
	assert.False(t, r.matches(filepath.Join("other", "oracle_prompt_1.0.md")))
}
