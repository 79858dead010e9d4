package translation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-doc-translator/pkg/document"
)

func testPipeline(tr Translator, opts PipelineOptions) *Pipeline {
	if opts.Worker.MaxAttempts == 0 {
		opts.Worker = testWorkerOptions()
	}
	opts.Filter = document.DefaultFilterOptions()
	return NewPipeline(tr, NewRateLimiter(0), NewDiagnostics(), zap.NewNop(), opts)
}

func sampleDoc() *document.Value {
	return document.NewObject(
		document.Field{Key: "title", Value: document.NewString("Hello world")},
		document.Field{Key: "version", Value: document.NewString("1.0.0")},
		document.Field{Key: "steps", Value: document.NewSequence(
			document.NewString("Open the door"),
			document.NewString("Close the window"),
		)},
		document.Field{Key: "count", Value: document.NewScalar(3)},
	)
}

func TestPipelineTranslatesDocument(t *testing.T) {
	p := testPipeline(upperTranslator{}, PipelineOptions{Workers: 2})

	got, skipped := p.TranslateDocument(context.Background(), sampleDoc())
	require.False(t, skipped)

	want := document.NewObject(
		document.Field{Key: "title", Value: document.NewString("HELLO WORLD")},
		document.Field{Key: "version", Value: document.NewString("1.0.0")},
		document.Field{Key: "steps", Value: document.NewSequence(
			document.NewString("OPEN THE DOOR"),
			document.NewString("CLOSE THE WINDOW"),
		)},
		document.Field{Key: "count", Value: document.NewScalar(3)},
	)
	assert.True(t, want.Equal(got), "translated tree mismatch")
}

func TestPipelineSkipsDocumentWithoutText(t *testing.T) {
	doc := document.NewObject(
		document.Field{Key: "id", Value: document.NewString("id_123")},
		document.Field{Key: "version", Value: document.NewString("1.0.0")},
	)
	p := testPipeline(upperTranslator{}, PipelineOptions{Workers: 2})

	got, skipped := p.TranslateDocument(context.Background(), doc)

	assert.True(t, skipped)
	assert.True(t, doc.Equal(got))
	// 返回的是副本，不是同一棵树
	assert.NotSame(t, doc, got)
}

func TestPipelineOnBatchesHook(t *testing.T) {
	var seen []document.Batch
	p := testPipeline(upperTranslator{}, PipelineOptions{
		Workers:   1,
		MaxChars:  12,
		OnBatches: func(batches []document.Batch) { seen = append(seen, batches...) },
	})

	_, skipped := p.TranslateDocument(context.Background(), sampleDoc())
	require.False(t, skipped)

	// 小字符预算下文本被拆成多个批次，全部经过回调
	require.NotEmpty(t, seen)
	total := 0
	for _, b := range seen {
		total += len(b.Entries)
	}
	assert.Equal(t, 3, total)
}

func TestPipelineProgressAdvancesPerBatch(t *testing.T) {
	progress := &countingProgress{}
	p := testPipeline(upperTranslator{}, PipelineOptions{
		Workers:  2,
		MaxChars: 12,
		Progress: progress,
	})

	doc := sampleDoc()
	want := p.BatchCount(doc)
	require.Positive(t, want)

	_, skipped := p.TranslateDocument(context.Background(), doc)
	require.False(t, skipped)
	assert.Equal(t, want, progress.count())
}

func TestPipelineDoesNotMutateInput(t *testing.T) {
	doc := sampleDoc()
	snapshot := doc.Clone()
	p := testPipeline(upperTranslator{}, PipelineOptions{Workers: 2})

	_, _ = p.TranslateDocument(context.Background(), doc)

	assert.True(t, snapshot.Equal(doc), "input document was mutated")
}
