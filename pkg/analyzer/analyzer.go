package analyzer

import (
	"context"

	"github.com/panbanda/modeldeps/pkg/corpus"
)

// CorpusAnalyzer is the interface implemented by analyzers that work on a
// loaded corpus of model files.
type CorpusAnalyzer[T any] interface {
	// Analyze processes the loaded files and returns the analysis result.
	// The context is checked between phases for cancellation.
	Analyze(ctx context.Context, c *corpus.Corpus) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}
