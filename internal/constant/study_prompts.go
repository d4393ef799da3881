package constant

import "fmt"

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	// Shown as the first transcript entry of every tutor session. Never
	// sent to the remote context as a user turn.
	TutorGreeting = "Hi! I'm your AI study tutor. Ask me anything about your subjects and I'll explain it step by step."

	TutorSystemPromptV1 = `You are a friendly, patient AI tutor for school students of classes 6 to 12.

RULES:
1. Explain concepts in simple language appropriate for the student's class level.
2. Break complicated ideas into small numbered steps.
3. Use short worked examples whenever the topic allows one.
4. If the student asks something outside the school curriculum, gently steer back to study topics.
5. Keep answers focused. Prefer 4-8 sentences unless the student asks for more depth.
6. Never invent facts. If unsure, say so and suggest how the student can verify.`

	NotesPromptTemplateV1 = `Generate comprehensive study notes for a Class %s student.

Subject: %s
Topic: %s

Requirements:
- Write for the given class level: vocabulary and depth must match the curriculum.
- Cover the topic fully: definitions, explanations, formulas where relevant.
- Include worked solved questions of the kind asked in school exams.
- List common mistakes students make on this topic.
- List real-world applications that make the topic relatable.
- Use plain text inside all fields. Mathematical exponents may use the caret form (x^2).

Respond strictly in the JSON shape requested.`

	ChapterListPromptTemplateV1 = `List the official textbook chapters for a Class %s student studying %s.

Group the chapters into exactly these categories, in this order: %s.
Every chapter belongs to exactly one category. Use the standard curriculum chapter names.

Respond strictly in the JSON shape requested.`

	SyllabusAnalysisPromptV1 = `You are an academic planner. The attached document is a school syllabus.

Analyze it and produce a markdown report with these sections:
## Overview
One paragraph summarizing the syllabus scope.
## Subject Breakdown
For each subject found, list its units or chapters.
## Suggested Study Plan
A week-by-week plan covering the whole syllabus.
## Focus Areas
Topics that typically carry the most exam weight.

Use only information present in the document. If the document is not a syllabus, say so plainly.`
)

// NotesResponseSchema is the response-shape contract for note generation.
// Field names must match the entity json tags exactly; the two optional
// NoteSection fields are the only non-required properties.
func NotesResponseSchema() map[string]interface{} {
	section := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"heading":          map[string]interface{}{"type": "string"},
			"contentPoints":    map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"bulletPoints":     map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"importantTerms":   map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"imageDescription": map[string]interface{}{"type": "string"},
		},
		"required": []string{"heading", "contentPoints"},
	}
	solved := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"question": map[string]interface{}{"type": "string"},
			"solution": map[string]interface{}{"type": "string"},
		},
		"required": []string{"question", "solution"},
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"topic":                 map[string]interface{}{"type": "string"},
			"subject":               map[string]interface{}{"type": "string"},
			"classLevel":            map[string]interface{}{"type": "string"},
			"introduction":          map[string]interface{}{"type": "string"},
			"sections":              map[string]interface{}{"type": "array", "items": section},
			"summary":               map[string]interface{}{"type": "string"},
			"examTips":              map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"solvedQuestions":       map[string]interface{}{"type": "array", "items": solved},
			"commonMistakes":        map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"realWorldApplications": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		},
		"required": []string{
			"topic", "subject", "classLevel", "introduction", "sections",
			"summary", "examTips", "solvedQuestions", "commonMistakes", "realWorldApplications",
		},
	}
}

// ChapterListResponseSchema is the response-shape contract for the
// chapter catalogue: an array of {category, chapters[]}.
func ChapterListResponseSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"category": map[string]interface{}{"type": "string"},
				"chapters": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			},
			"required": []string{"category", "chapters"},
		},
	}
}

func NotesPrompt(classLevel, subject, topic string) string {
	return fmt.Sprintf(NotesPromptTemplateV1, classLevel, subject, topic)
}

func ChapterListPrompt(classLevel, subject, categoriesCSV string) string {
	return fmt.Sprintf(ChapterListPromptTemplateV1, classLevel, subject, categoriesCSV)
}
