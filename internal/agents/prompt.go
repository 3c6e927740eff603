package agents

import (
	"fmt"
	"strings"
)

const refineSystemPrompt = `You are a learning assistant. A user typed what they want to learn in free-form text. Extract the underlying topic and restate it as a concise, well-formed topic name.`

func buildRefineUserMessage(raw string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("User input: %s\n", raw))

	b.WriteString(`
Instructions:
Extract the learning topic from the input above.
1. Strip filler ("teach me", "I want to learn", "pls").
2. Fix obvious typos and expand common abbreviations.
3. Keep it specific: "Binary Search Trees", not "Trees".
4. The result must work as a video search query (2-6 words).`)

	return b.String()
}

const docsSystemPrompt = `You are an expert technical writer producing self-contained study material. Write clear, well-structured Markdown a motivated beginner can follow without other references.`

func buildDocsUserMessage(topic string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %s\n", topic))

	b.WriteString(`
Instructions:
Write a study document for this topic:
1. Start with a # heading naming the topic, then a short overview paragraph.
2. Cover the core concepts in ## sections, building from basics to the harder parts.
3. Include at least one concrete worked example per major concept.
4. End with a ## Key Takeaways section of 3-5 bullet points.
5. Keep it focused — this is one study session's worth of material, not a textbook.`)

	return b.String()
}

const quizSystemPrompt = `You are a quiz author for a learning app. You write multiple-choice questions that test real understanding of study material, not trivia recall.`

func buildQuizUserMessage(input QuizInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %s\n", input.Topic))
	b.WriteString(fmt.Sprintf("Attempt: %d\n", input.Attempt))

	b.WriteString("\nStudy Material:\n")
	b.WriteString(input.Documentation)
	b.WriteString("\n")

	if len(input.WeakAreas) > 0 {
		b.WriteString("\nThe learner previously missed questions on:\n")
		for _, w := range input.WeakAreas {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
		b.WriteString("Focus the new quiz on these areas, approached from different angles.\n")
	}

	b.WriteString(`
Instructions:
Write exactly 5 multiple-choice questions about the study material:
1. Each question has exactly 4 options with exactly one correct answer.
2. Distractors must be plausible — common misconceptions, not filler.
3. Mix difficulty: start accessible, end challenging.
4. Every question includes a one-sentence explanation of the correct answer.
5. Questions must be answerable from the study material alone.`)

	return b.String()
}

const chatSystemPrompt = `You are a patient tutor answering questions while a learner studies. Answer from the study material when it covers the question, and say so when it doesn't. Keep answers short and concrete.`

func buildChatContextMessage(input AnswerInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %s\n", input.Topic))
	b.WriteString("\nStudy Material:\n")
	b.WriteString(input.Documentation)

	return b.String()
}

const feedbackSystemPrompt = `You are an encouraging tutor summarizing a quiz result. Be honest about gaps but keep the learner motivated.`

func buildFeedbackUserMessage(input FeedbackInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %s\n", input.Topic))
	b.WriteString(fmt.Sprintf("Score: %d/%d (%.0f%%)\n", input.Result.Score, input.Result.Total, input.Result.Percentage))
	b.WriteString(fmt.Sprintf("Mastery threshold reached: %t\n", input.Result.Mastery))

	if len(input.Result.WeakAreas) > 0 {
		b.WriteString("\nMissed questions:\n")
		for _, w := range input.Result.WeakAreas {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}

	if input.Documentation != "" {
		b.WriteString("\nStudy Material:\n")
		b.WriteString(input.Documentation)
		b.WriteString("\n")
	}

	b.WriteString(`
Instructions:
Write 2-4 sentences of feedback:
1. Acknowledge the result.
2. If questions were missed, name the concepts to revisit, grounded in the study material.
3. If the threshold was reached, congratulate briefly without gushing.`)

	return b.String()
}

const relatedSystemPrompt = `You are a learning-path advisor. Given a topic a learner just mastered, suggest adjacent topics that build on it.`

func buildRelatedUserMessage(input RelatedInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Mastered topic: %s\n", input.Topic))

	if input.Documentation != "" {
		b.WriteString("\nStudy Material the learner worked through:\n")
		b.WriteString(input.Documentation)
		b.WriteString("\n")
	}

	b.WriteString(`
Instructions:
Suggest up to 5 related topics to study next:
1. Each must build on or deepen the mastered topic — use the study material to judge what was actually covered.
2. Name them the way the mastered topic is named (2-6 words, searchable).
3. Order from most natural next step to most ambitious.`)

	return b.String()
}
