package llm

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

const defaultSystemPrompt = `Você é um analista financeiro especializado em análise de documentos empresariais.

Analise os documentos fornecidos e forneça um relatório detalhado que inclua:

1. **Resumo Executivo**: Principais pontos identificados nos documentos
2. **Análise Financeira**: Situação financeira da empresa baseada nos documentos
3. **Situação Fiscal**: Status fiscal e tributário
4. **Recomendações**: Sugestões e pontos de atenção
5. **Observações**: Qualquer irregularidade ou ponto importante identificado

Seja objetivo, profissional e destaque os pontos mais importantes.`

// UserPromptPrefix and UserPromptSuffix wrap the combined corpus in the
// analysis call. They participate in the token budget as fixed costs.
const (
	UserPromptPrefix = "Analise o seguinte conteúdo dos documentos empresariais:\n\n"
	UserPromptSuffix = "\n\nForneça uma análise completa seguindo a estrutura solicitada."
)

// LoadSystemPrompt reads prompt.txt from a small set of candidate locations
// and falls back to the built-in prompt when none exists.
func LoadSystemPrompt() string {
	logger := logger_i.NewLogger("Prompt Loader ")

	candidates := []string{
		config.PromptFileName,
		filepath.Join("prompts", config.PromptFileName),
	}
	for _, path := range candidates {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		prompt := strings.TrimSpace(string(raw))
		if prompt != "" {
			logger.Info("system prompt loaded", "path", path)
			return prompt
		}
	}

	logger.Warn("prompt file not found, using built-in default", "candidates", strings.Join(candidates, ", "))
	return defaultSystemPrompt
}
