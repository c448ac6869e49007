package rag

import (
	"strings"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"
)

// ProseSentenceSplitter segments text with the prose NLP library, which
// handles abbreviations and quoted speech far better than the boundary
// splitter. It costs a tokenizer pass per fragment, so deployments opt in
// via the splitter config.
type ProseSentenceSplitter struct {
	fallback RegexSentenceSplitter
	logger   *zap.Logger
}

func NewProseSentenceSplitter(logger *zap.Logger) *ProseSentenceSplitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProseSentenceSplitter{
		fallback: NewRegexSentenceSplitter(),
		logger:   logger,
	}
}

func (s *ProseSentenceSplitter) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	doc, err := prose.NewDocument(trimmed,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		s.logger.Warn("Prose segmentation failed, using boundary splitter", zap.Error(err))
		return s.fallback.Split(trimmed)
	}

	proseSentences := doc.Sentences()
	if len(proseSentences) == 0 {
		return s.fallback.Split(trimmed)
	}

	sentences := make([]string, 0, len(proseSentences))
	for _, sent := range proseSentences {
		cleaned := strings.TrimSpace(sent.Text)
		if cleaned != "" {
			sentences = append(sentences, cleaned)
		}
	}
	if len(sentences) == 0 {
		return []string{trimmed}
	}
	return sentences
}
