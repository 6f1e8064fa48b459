// Package quiz models the self-check block at the end of every lesson and
// renders it in the markup the client script grades.
package quiz

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	pyerrors "github.com/zellyn/pylearn/internal/errors"
)

// Option is one answer choice.
type Option struct {
	Text        string `yaml:"text"`
	Correct     bool   `yaml:"correct,omitempty"`
	Explanation string `yaml:"explanation,omitempty"`
}

// Question is a single-choice question.
type Question struct {
	Prompt  string   `yaml:"prompt"`
	Options []Option `yaml:"options"`
}

// Quiz is the ordered question list of one lesson.
type Quiz struct {
	Title     string     `yaml:"title,omitempty"`
	Questions []Question `yaml:"questions"`
}

// DefaultTitle heads a quiz that has no title of its own.
const DefaultTitle = "Тест к уроку"

// Validate checks that the quiz has questions, every question has at least two
// options, and exactly one option is correct and explains itself.
func (q Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return pyerrors.NewValidationError("questions", "", "quiz has no questions")
	}
	for i, question := range q.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(question.Prompt) == "" {
			return pyerrors.NewValidationError(field+".prompt", "", "empty prompt")
		}
		if len(question.Options) < 2 {
			return pyerrors.NewValidationError(field+".options", "", "need at least two options")
		}
		correct := 0
		for j, opt := range question.Options {
			if !opt.Correct {
				continue
			}
			correct++
			if strings.TrimSpace(opt.Explanation) == "" {
				return pyerrors.NewValidationError(fmt.Sprintf("%s.options[%d].explanation", field, j), "", "correct option needs an explanation")
			}
		}
		if correct != 1 {
			return pyerrors.NewValidationError(field+".options", fmt.Sprint(correct), "exactly one option must be correct")
		}
	}
	return nil
}

// Render writes the quiz container. Question inputs are grouped as q1, q2, ...
// and carry data-correct; only the correct option has data-explanation.
func (q Quiz) Render() string {
	var b strings.Builder
	title := q.Title
	if title == "" {
		title = DefaultTitle
	}

	b.WriteString("<div class=\"quiz-container\">\n")
	fmt.Fprintf(&b, "    <h3>%s</h3>\n", html.EscapeString(title))
	for i, question := range q.Questions {
		name := fmt.Sprintf("q%d", i+1)
		b.WriteString("\n    <div class=\"question\">\n")
		fmt.Fprintf(&b, "        <h4>Вопрос %d: %s</h4>\n", i+1, html.EscapeString(question.Prompt))
		b.WriteString("        <ul class=\"options\">\n")
		for _, opt := range question.Options {
			b.WriteString("            <li>\n                <label>\n")
			if opt.Correct {
				fmt.Fprintf(&b, "                    <input type=\"radio\" name=\"%s\" data-correct=\"true\" data-explanation=\"%s\">\n",
					name, html.EscapeString(opt.Explanation))
			} else {
				fmt.Fprintf(&b, "                    <input type=\"radio\" name=\"%s\" data-correct=\"false\">\n", name)
			}
			fmt.Fprintf(&b, "                    %s\n", html.EscapeString(opt.Text))
			b.WriteString("                </label>\n            </li>\n")
		}
		b.WriteString("        </ul>\n")
		b.WriteString("        <button class=\"check-answer-btn\">Проверить</button>\n")
		b.WriteString("        <div class=\"feedback\"></div>\n")
		b.WriteString("    </div>\n")
	}
	b.WriteString("\n    <button class=\"btn-secondary\" id=\"show-results\">Показать результаты</button>\n")
	b.WriteString("    <div class=\"quiz-results\"></div>\n")
	b.WriteString("</div>\n")
	return b.String()
}

// Stats summarises the quiz markup found in a rendered body.
type Stats struct {
	Containers int
	Questions  int
	// CorrectPerQuestion holds the number of data-correct="true" inputs of
	// each question, in document order.
	CorrectPerQuestion []int
}

var (
	containerRe = regexp.MustCompile(`class="quiz-container"`)
	questionRe  = regexp.MustCompile(`<div class="question">`)
	correctRe   = regexp.MustCompile(`data-correct="true"`)
)

// Scan inspects rendered HTML for quiz markup.
func Scan(body string) Stats {
	s := Stats{
		Containers: len(containerRe.FindAllStringIndex(body, -1)),
	}
	starts := questionRe.FindAllStringIndex(body, -1)
	s.Questions = len(starts)
	for i, loc := range starts {
		end := len(body)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		s.CorrectPerQuestion = append(s.CorrectPerQuestion, len(correctRe.FindAllStringIndex(body[loc[0]:end], -1)))
	}
	return s
}

// WellFormed reports whether the body holds at least one question and every
// question has exactly one correct option.
func (s Stats) WellFormed() bool {
	if s.Questions == 0 {
		return false
	}
	for _, n := range s.CorrectPerQuestion {
		if n != 1 {
			return false
		}
	}
	return true
}
