package application

import (
	"fmt"
	"strings"

	"github.com/AzielCF/az-study/studyengine/domain"
	"github.com/AzielCF/az-study/studyengine/textkit"
)

// Notas de truncado que se anexan cuando la entrada del usuario excede el
// presupuesto reservado para el prompt de cada operación.
const (
	contentTruncatedNote  = "\n\n[Note: Content was truncated due to length]"
	topicTruncatedNote    = "\n\n[Note: Topic was truncated due to length]"
	questionTruncatedNote = "\n\n[Note: Question was truncated due to length]"
)

// boundInput recorta text al primer chunk dentro de maxTokens y anexa note.
// Texto dentro del presupuesto pasa intacto.
func boundInput(text string, maxTokens int, note string) string {
	if textkit.EstimateTokens(text) <= maxTokens {
		return text
	}
	chunks := textkit.Chunk(text, textkit.TokensToChars(maxTokens))
	if len(chunks) == 0 {
		return note
	}
	return chunks[0] + note
}

func flashcardDifficulty(complexity string) string {
	switch strings.ToLower(complexity) {
	case "easy", "simple":
		return "Create simple, basic flashcards suitable for beginners. Use clear, straightforward language."
	case "hard", "advanced":
		return "Create advanced, challenging flashcards that test deep understanding and complex concepts."
	default:
		return "Create intermediate-level flashcards that balance clarity with depth."
	}
}

func flashcardPrompt(material string, count int, complexity string) string {
	processed := boundInput(material, materialTokenBudget, contentTruncatedNote)
	return fmt.Sprintf(`%s

Generate exactly %d flashcards about: %s

Requirements:
- Each flashcard should have a clear, concise question on the front
- The back should contain a comprehensive but focused answer
- Questions should test understanding, not just memorization
- Vary the types of questions (definitions, explanations, applications, comparisons)
- Make sure answers are accurate and educational

Return the response as a JSON array with this exact format:
[
  {
    "front": "Question text here",
    "back": "Answer text here"
  }
]

Only return the JSON array, no additional text.`, flashcardDifficulty(complexity), count, processed)
}

func quizDifficulty(difficulty string) string {
	switch strings.ToLower(difficulty) {
	case "easy":
		return "Create easy questions suitable for beginners. Focus on basic concepts and definitions."
	case "hard":
		return "Create challenging questions that test deep understanding and critical thinking."
	default:
		return "Create intermediate-level questions that test good understanding of the material."
	}
}

func quizPrompt(material string, questionCount int, difficulty, topic string, includeExplanations bool) string {
	processed := boundInput(material, materialTokenBudget, contentTruncatedNote)

	topicText := "about: " + processed
	if topic != "" {
		topicText = "about " + topic
	}

	explanationLine := "No explanations needed."
	if includeExplanations {
		explanationLine = "Include detailed explanations for each correct answer."
	}

	return fmt.Sprintf(`%s

Generate exactly %d quiz questions %s.
Material: %s

Requirements:
- All questions should be multiple choice with 4 options each.
- %s
- Questions should be clear and unambiguous
- Ensure only one correct answer per question
- Make incorrect options plausible but clearly wrong
- Test understanding, not just memorization

Return the response as a JSON object with this exact format:
{
  "title": "Quiz Title Here",
  "questions": [
    {
      "text": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Explanation of why this answer is correct"
    }
  ]
}

Only return the JSON object, no additional text.`, quizDifficulty(difficulty), questionCount, topicText, processed, explanationLine)
}

func materialFormat(format domain.StudyFormat) string {
	switch format {
	case domain.FormatOutline:
		return "Create a detailed outline with main points and sub-points."
	case domain.FormatSummary:
		return "Create a comprehensive summary that covers all key points."
	default:
		return "Create detailed study notes with explanations and examples."
	}
}

func materialComplexity(complexity string) string {
	switch strings.ToLower(complexity) {
	case "simple":
		return "Use simple language suitable for beginners."
	case "advanced":
		return "Include advanced concepts and detailed analysis."
	default:
		return "Use intermediate-level language with good detail."
	}
}

func studyMaterialPrompt(topic string, format domain.StudyFormat, complexity string) string {
	processed := boundInput(topic, topicTokenBudget, topicTruncatedNote)
	return fmt.Sprintf(`%s %s

Create study material about: %s

Requirements:
- Be comprehensive and educational
- Include key concepts and important details
- Use clear, organized structure
- Make it suitable for studying and review
- Include examples where helpful

Provide the study material in a well-formatted, readable format.`, materialFormat(format), materialComplexity(complexity), processed)
}

func longAnswerComplexity(complexity string) string {
	switch strings.ToLower(complexity) {
	case "simple":
		return "Provide a clear, simple explanation suitable for beginners."
	case "advanced":
		return "Provide a detailed, comprehensive analysis with advanced insights."
	default:
		return "Provide a thorough explanation with good detail and examples."
	}
}

func longAnswerPrompt(question, complexity string) string {
	processed := boundInput(question, topicTokenBudget, questionTruncatedNote)
	return fmt.Sprintf(`%s

Question: %s

Requirements:
- Provide a comprehensive, well-structured answer
- Include relevant examples and explanations
- Use clear, educational language
- Address all aspects of the question
- Make the response helpful for learning

Please provide a detailed response:`, longAnswerComplexity(complexity), processed)
}

func ingestPrompt(name, content string) string {
	bounded := content
	if len(content) > ingestCharBudget {
		chunks := textkit.Chunk(content, ingestCharBudget)
		bounded = chunks[0] + "..."
	}
	return fmt.Sprintf(`Please provide a concise summary and extract up to 5 main topics from the following document content.

Document: %s
Content: %s

Return the response as a JSON object with this exact format:
{
  "summary": "A concise summary of the document.",
  "topics": ["Topic 1", "Topic 2", "Topic 3"]
}

Only return the JSON object, no additional text.`, name, bounded)
}

// chatInstruction se anexa al mensaje del usuario para que el modelo cierre
// con la sección de profundización que luego se separa en ChatReply.
const chatInstruction = `

After providing a comprehensive answer, add a "DEEP DIVE" section with 3 thought-provoking follow-up questions formatted as a markdown list.`
