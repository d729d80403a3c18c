package ollama

import (
	"fmt"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

const maxPromptSnippet = 4000

func buildReplyPrompt(text string, category domain.Category) string {
	snippet := text
	if runes := []rune(snippet); len(runes) > maxPromptSnippet {
		snippet = string(runes[:maxPromptSnippet])
	}

	tone := "objetiva e profissional, confirmando o recebimento e informando os próximos passos"
	if category == domain.CategoryUnproductive {
		tone = "cordial e breve, agradecendo a mensagem"
	}

	return fmt.Sprintf(`Você é um assistente que redige respostas de email corporativo em português.
O email abaixo foi classificado como %s.
Escreva uma resposta %s.
Responda apenas com o corpo do email, sem assunto e sem comentários adicionais.

Email:
%s`, category.Label(), tone, snippet)
}
