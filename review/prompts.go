package review

import "fmt"

const contentTemplate = `Evaluate the content quality of the following %s.
Judge relevance, depth of argument, and factual soundness.
Respond in exactly this format:
Score: [0-100]
Strengths:
[one per line]
Weaknesses:
[one per line]
Suggestions:
[one per line]

Content:
%s`

const structureTemplate = `Evaluate the structure and organization of the following paper.
Respond in exactly this format:
Score: [0-100]
Feedback:
[one per line]
Organization:
[one per line]
Flow:
[one per line]

Content:
%s`

const grammarTemplate = `Identify grammatical errors in the following text.
List each error and its correction on its own line in the form:
[error] → [correction]

Content:
%s`

const examTemplate = `Grade the student's answer against the model answer.
The question is worth %g marks.
Respond in exactly this format:
Score: [0-100]
Strengths:
[one per line]
Weaknesses:
[one per line]
Suggestions:
[one per line]

Question: %s
Model answer: %s
Student answer: %s`

func contentPrompt(paperType, text string) string {
	return fmt.Sprintf(contentTemplate, paperType, text)
}

func structurePrompt(text string) string {
	return fmt.Sprintf(structureTemplate, text)
}

func grammarPrompt(text string) string {
	return fmt.Sprintf(grammarTemplate, text)
}

func examPrompt(q ExamQuestion) string {
	return fmt.Sprintf(examTemplate, q.MaxMarks, q.Question, q.ModelAnswer, q.StudentAnswer)
}
