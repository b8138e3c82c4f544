package assemble

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
	"github.com/johanvictor/FinDocAPI/internal/metrics"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

const TruncationMarker = "\n\n[TEXTO TRUNCADO DEVIDO AO TAMANHO]"

// Tokenizer abstracts the model's BPE so tests do not need the real encoding
// files.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenTokenizer struct {
	encoding *tiktoken.Tiktoken
}

func (t *tiktokenTokenizer) Encode(text string) []int {
	return t.encoding.Encode(text, nil, nil)
}

func (t *tiktokenTokenizer) Decode(tokens []int) string {
	return t.encoding.Decode(tokens)
}

// NewModelTokenizer loads the tokenizer of the configured analysis model.
func NewModelTokenizer() (Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(config.TokenizerModel)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer for %s: %w", config.TokenizerModel, err)
	}
	return &tiktokenTokenizer{encoding: enc}, nil
}

type Assembler struct {
	tokenizer    Tokenizer
	promptBudget int
	logger       *logger_i.Logger
}

// NewAssembler constructor. The budget is the prompt side of the context
// window, the completion budget is already reserved by the caller's config.
func NewAssembler(tokenizer Tokenizer, promptBudget int) *Assembler {
	return &Assembler{
		tokenizer:    tokenizer,
		promptBudget: promptBudget,
		logger:       logger_i.NewLogger("Token Budget "),
	}
}

// DocumentBlock is one labeled per-document text block, in upload order.
type DocumentBlock struct {
	Filename string
	Category docModel.Category
	Text     string
}

func formatBlock(block DocumentBlock) string {
	return fmt.Sprintf("\n=== DOCUMENTO: %s (%s) ===\n%s\n\n", block.Filename, block.Category, block.Text)
}

// Assemble concatenates the planning preamble and every document block, then
// enforces the token ceiling: tokens(fixed prefix + corpus + fixed suffix)
// must fit the prompt budget. Over-budget corpora are cut at the token level
// from the end and get an explicit truncation marker; this is a successful,
// degraded outcome, never an error.
func (a *Assembler) Assemble(promptPrefix string, promptSuffix string, planningPreamble string, blocks []DocumentBlock) string {
	var b strings.Builder
	if planningPreamble != "" {
		b.WriteString("=== DADOS DE PLANEJAMENTO ===\n")
		b.WriteString(planningPreamble)
		b.WriteString("\n")
	}
	for _, block := range blocks {
		b.WriteString(formatBlock(block))
	}
	corpus := b.String()

	fixedCost := len(a.tokenizer.Encode(promptPrefix)) + len(a.tokenizer.Encode(promptSuffix))
	allowance := a.promptBudget - fixedCost
	if allowance < 0 {
		allowance = 0
	}

	corpusTokens := a.tokenizer.Encode(corpus)
	if len(corpusTokens) <= allowance {
		return corpus
	}

	a.logger.Warn("corpus exceeds token allowance, truncating",
		"corpus_tokens", len(corpusTokens), "allowance", allowance)
	metrics.IncrementCorpusTruncations()

	markerCost := len(a.tokenizer.Encode(TruncationMarker))
	keep := allowance - markerCost
	if keep < 0 {
		keep = 0
	}
	return a.tokenizer.Decode(corpusTokens[:keep]) + TruncationMarker
}
