package content

import (
	"fmt"
	"html"
	"strings"

	"github.com/zellyn/pylearn/internal/curriculum"
	"github.com/zellyn/pylearn/internal/docgen"
	"github.com/zellyn/pylearn/internal/quiz"
)

// Generator renders the body of a lesson from its entry and topic.
type Generator func(e curriculum.Entry, t Topic) string

// Generators returns the per-type generator table. Types without a generator
// (generic and unknown types) are served by Fallback.
func Generators() map[curriculum.LessonType]Generator {
	return map[curriculum.LessonType]Generator{
		curriculum.TypeAlgorithm:    Algorithm,
		curriculum.TypeLanguage:     Language,
		curriculum.TypeExamBasic:    ExamBasic,
		curriculum.TypeExamAdvanced: ExamAdvanced,
	}
}

// section accumulates body HTML.
type section struct {
	strings.Builder
}

func (s *section) h2(title string) {
	fmt.Fprintf(s, "<h2>%s</h2>\n", html.EscapeString(title))
}

// p writes a paragraph of trusted markup.
func (s *section) p(markup string) {
	fmt.Fprintf(s, "<p>%s</p>\n", markup)
}

func (s *section) list(items ...string) {
	s.WriteString("<ul>\n")
	for _, item := range items {
		fmt.Fprintf(s, "    <li>%s</li>\n", item)
	}
	s.WriteString("</ul>\n")
}

// box writes a note or warning callout; body is trusted markup.
func (s *section) box(class, heading, body string) {
	fmt.Fprintf(s, "<div class=\"%s\">\n    <h4>%s</h4>\n    %s\n</div>\n", class, html.EscapeString(heading), body)
}

func (s *section) raw(markup string) {
	s.WriteString(markup)
}

const flowDiagram = `<div class="diagram">
    <svg class="diagram-svg" width="100%" height="400" viewBox="0 0 600 400" style="max-width: 500px;">
        <defs>
            <marker id="arrowhead" markerWidth="10" markerHeight="10" refX="9" refY="3" orient="auto">
                <polygon points="0,0 0,6 9,3" fill="#1e293b"/>
            </marker>
        </defs>
        <ellipse cx="300" cy="50" rx="80" ry="30" fill="#dbeafe" stroke="#6366f1" stroke-width="3"/>
        <text x="300" y="58" text-anchor="middle" font-size="15" font-weight="bold" fill="#1e293b">НАЧАЛО</text>
        <path d="M 300 80 L 300 120" stroke="#1e293b" stroke-width="3" marker-end="url(#arrowhead)"/>
        <rect x="200" y="120" width="200" height="60" fill="#d1fae5" stroke="#10b981" stroke-width="3" rx="8"/>
        <text x="300" y="155" text-anchor="middle" font-size="14" font-weight="600" fill="#1e293b">Обработка данных</text>
        <path d="M 300 180 L 300 220" stroke="#1e293b" stroke-width="3" marker-end="url(#arrowhead)"/>
        <path d="M 220 220 L 380 220 L 360 280 L 200 280 Z" fill="#fef3c7" stroke="#f59e0b" stroke-width="3"/>
        <text x="290" y="255" text-anchor="middle" font-size="14" font-weight="600" fill="#1e293b">Вывод результата</text>
        <path d="M 300 280 L 300 320" stroke="#1e293b" stroke-width="3" marker-end="url(#arrowhead)"/>
        <ellipse cx="300" cy="360" rx="80" ry="30" fill="#dbeafe" stroke="#6366f1" stroke-width="3"/>
        <text x="300" y="368" text-anchor="middle" font-size="15" font-weight="bold" fill="#1e293b">КОНЕЦ</text>
    </svg>
</div>
`

// correct and wrong build quiz options.
func correct(text, explanation string) quiz.Option {
	return quiz.Option{Text: text, Correct: true, Explanation: explanation}
}

func wrong(text string) quiz.Option {
	return quiz.Option{Text: text}
}

// Algorithm renders a conceptual lesson: prose, a flow diagram and a read-only
// example. It never contains an editor.
func Algorithm(_ curriculum.Entry, t Topic) string {
	name := html.EscapeString(t.Name)
	var s section

	s.h2("Введение")
	s.p(fmt.Sprintf("В этом уроке мы изучим <strong>%s</strong>. Это важная тема для понимания того, как работают программы и решаются сложные задачи.", html.EscapeString(t.Description)))

	s.h2("Что такое " + t.Name + "?")
	s.p(fmt.Sprintf("<strong>%s</strong> - это один из фундаментальных подходов в программировании, который помогает эффективно решать задачи.", name))
	s.raw(flowDiagram)

	s.h2("Основные понятия")
	s.list(
		"Понимание принципов "+html.EscapeString(t.Genitive),
		"Применение на практике",
		"Оценка эффективности",
		"Типовые задачи ОГЭ/ЕГЭ",
	)
	s.box("note", "Важно знать!", "<p>Эта тема часто встречается на экзаменах ОГЭ и ЕГЭ. Важно понимать не только как применять алгоритм, но и почему он работает.</p>")

	s.h2("Практический пример")
	s.p("Рассмотрим типовую задачу и решим её пошагово.")
	s.raw(docgen.CodeBlock(t.Snippet))

	s.h2("Проверь себя!")
	s.raw(quiz.Quiz{Questions: []quiz.Question{
		{
			Prompt:  fmt.Sprintf("Для чего используются %s?", strings.ToLower(t.Name)),
			Options: []quiz.Option{wrong("Для украшения кода"), correct("Для эффективного решения задач", fmt.Sprintf("Верно! %s помогают эффективно решать задачи.", t.Name)), wrong("Только для экзаменов")},
		},
		{
			Prompt:  "Какое свойство важно для алгоритма?",
			Options: []quiz.Option{correct("Эффективность", "Правильно! Алгоритм должен быть эффективным."), wrong("Красота"), wrong("Сложность")},
		},
		{
			Prompt:  "Встречается ли эта тема на ОГЭ/ЕГЭ?",
			Options: []quiz.Option{correct("Да, очень часто", "Да! Эта тема часто встречается на экзаменах."), wrong("Нет, никогда"), wrong("Только на олимпиадах")},
		},
	}}.Render())

	s.h2("Задание для практики")
	s.box("note", "Практическое задание", "<p>Попробуй решить следующие задачи:</p>\n    <ul>\n        <li>Разберись с примерами из урока</li>\n        <li>Реши 2-3 задачи самостоятельно</li>\n        <li>Нарисуй блок-схему своего решения</li>\n    </ul>")
	return s.String()
}

// Language renders a Python lesson with an editor seeded with the topic
// snippet.
func Language(_ curriculum.Entry, t Topic) string {
	name := html.EscapeString(t.Name)
	var s section

	s.h2("Введение")
	s.p(fmt.Sprintf("В этом уроке мы изучим <strong>%s</strong> в Python. Это важная тема, которая поможет тебе писать более эффективные программы.", name))

	s.h2("Что такое " + t.Name + "?")
	s.p(fmt.Sprintf("<strong>%s</strong> - это %s. Давай разберёмся, как это работает!", name, html.EscapeString(t.Description)))

	s.h2("Основные концепции")
	s.p(fmt.Sprintf("Ключевые слова и операторы: <code>%s</code>", html.EscapeString(t.Description)))
	s.box("note", "Важно!", "<p>Эта тема широко используется в программировании и часто встречается на экзаменах.</p>")

	s.h2("Примеры кода")
	s.p("Вот базовый пример использования:")
	s.raw(docgen.CodeBlock(t.Snippet))

	s.h2("Попробуй сам!")
	s.p("Запусти код и посмотри, что получится:")
	s.raw(docgen.Editor("", t.Snippet))

	s.h2("Практические задания")
	s.box("warning", "Задание 1", "<p>Попробуй изменить код выше и поэкспериментируй с разными значениями.</p>")
	s.box("warning", "Задание 2", "<p>Напиши свою программу, используя изученные концепции.</p>")

	s.h2("Проверь себя!")
	s.raw(quiz.Quiz{Questions: []quiz.Question{
		{
			Prompt:  fmt.Sprintf("Для чего используется %s?", t.Name),
			Options: []quiz.Option{wrong("Только для красоты кода"), correct("Для решения практических задач", "Верно! Это важная функциональность Python."), wrong("Не используется")},
		},
		{
			Prompt:  fmt.Sprintf("Как правильно использовать %s?", t.Name),
			Options: []quiz.Option{correct("Следуя синтаксису Python", "Правильно! Важно следовать синтаксису Python."), wrong("Как угодно"), wrong("Только в специальных случаях")},
		},
		{
			Prompt:  "Встречается ли эта тема на экзаменах?",
			Options: []quiz.Option{correct("Да, регулярно", "Да! Очень часто встречается."), wrong("Нет"), wrong("Только в университете")},
		},
	}}.Render())

	s.h2("Итоги урока")
	s.p("Теперь ты знаешь:")
	s.list(
		"Что такое "+name,
		"Как использовать это в коде",
		"Где это применяется",
	)
	return s.String()
}

// ExamBasic renders an ОГЭ preparation lesson.
func ExamBasic(_ curriculum.Entry, t Topic) string {
	var s section

	s.h2("Подготовка к ОГЭ")
	s.p(fmt.Sprintf("В этом уроке мы разберём <strong>%s</strong>. Научимся решать такие задачи быстро и правильно.", html.EscapeString(t.Description)))

	s.h2("Типовые задачи")
	s.p("Рассмотрим основные типы заданий, которые встречаются на экзамене:")
	s.list(
		"Анализ алгоритмов",
		"Программирование",
		"Работа с данными",
		"Тема урока: "+html.EscapeString(t.Name),
	)
	s.box("note", "Стратегия решения", "<p>Всегда читай задание внимательно, проверяй граничные случаи, тестируй решение на примерах.</p>")

	s.h2("Пример задачи")
	s.p("Типовая задача ОГЭ:")
	s.raw(docgen.CodeBlock(t.Snippet))

	s.h2("Практика")
	s.raw(docgen.Editor("Решение задачи", t.Snippet))

	s.h2("Проверь себя!")
	s.raw(quiz.Quiz{Questions: []quiz.Question{
		{
			Prompt:  "Сколько баллов можно получить за ОГЭ по информатике?",
			Options: []quiz.Option{wrong("10"), correct("19", "Правильно! Максимум 19 баллов."), wrong("100")},
		},
		{
			Prompt:  "Какой язык программирования можно использовать на ОГЭ?",
			Options: []quiz.Option{correct("Python", "Да! Python разрешён на ОГЭ."), wrong("HTML"), wrong("SQL")},
		},
		{
			Prompt:  "Нужно ли знать алгоритмы для ОГЭ?",
			Options: []quiz.Option{correct("Да, обязательно", "Абсолютно! Алгоритмы - основа экзамена."), wrong("Нет"), wrong("Только базовые")},
		},
	}}.Render())

	s.h2("Рекомендации")
	s.box("warning", "Как готовиться к ОГЭ", "<ul>\n        <li>Решай задачи каждый день</li>\n        <li>Разбирай свои ошибки</li>\n        <li>Пиши пробные варианты на время</li>\n    </ul>")
	return s.String()
}

// ExamAdvanced renders an ЕГЭ preparation lesson.
func ExamAdvanced(_ curriculum.Entry, t Topic) string {
	var s section

	s.h2("Подготовка к ЕГЭ")
	s.p(fmt.Sprintf("В этом уроке мы разберём <strong>%s</strong>. Это задачи высокого уровня, требующие глубокого понимания программирования.", html.EscapeString(t.Description)))

	s.h2("Типы заданий ЕГЭ")
	s.p("ЕГЭ включает 27 заданий разного уровня сложности:")
	s.list(
		"Базовые (1-12)",
		"Средние (13-21)",
		"Высокие (22-27)",
	)
	s.box("note", "Важно для ЕГЭ!", "<p>Задачи 25-27 дают максимум баллов, но требуют отличного знания программирования и алгоритмов.</p>")

	s.h2("Разбор типовой задачи")
	s.p(fmt.Sprintf("Рассмотрим задачу по теме <strong>%s</strong>:", html.EscapeString(t.Name)))
	s.raw(docgen.CodeBlock(t.Snippet))

	s.h2("Решение с объяснением")
	s.raw(docgen.Editor("Код решения", t.Snippet))

	s.h2("Проверь себя!")
	s.raw(quiz.Quiz{Questions: []quiz.Question{
		{
			Prompt:  "Сколько заданий в ЕГЭ по информатике?",
			Options: []quiz.Option{wrong("20"), correct("27", "Верно! В ЕГЭ 27 заданий."), wrong("30")},
		},
		{
			Prompt:  "Какие задачи дают больше всего баллов?",
			Options: []quiz.Option{wrong("Первые 10"), correct("Последние (25-27)", "Правильно! Задачи 25-27 самые сложные и дают больше баллов."), wrong("Все одинаково")},
		},
		{
			Prompt:  "Нужно ли знать программирование для высоких баллов?",
			Options: []quiz.Option{correct("Да, обязательно", "Да! Без программирования не получить 80+ баллов."), wrong("Нет, достаточно теории"), wrong("Только базовые знания")},
		},
	}}.Render())

	s.h2("Стратегия подготовки")
	s.box("warning", "План подготовки к ЕГЭ", "<ul>\n        <li>Повтори теорию по всем темам</li>\n        <li>Реши задачи 1-21 до автоматизма</li>\n        <li>Каждый день тренируй задачи 22-27</li>\n    </ul>")
	s.box("note", "Совет", "<p>Для получения 90+ баллов нужно уверенно решать задачи 25-27. Практикуйся в программировании каждый день!</p>")
	return s.String()
}

// Fallback is the minimal template for generic lessons and unrecognised
// types.
func Fallback(_ curriculum.Entry, t Topic) string {
	var s section

	s.h2("Введение")
	s.p("Добро пожаловать на урок! Здесь мы изучим " + html.EscapeString(t.Description) + ".")

	s.h2("Основные понятия")
	s.p("В этом уроке рассмотрим ключевые концепции и их применение на практике.")
	s.box("note", "Запомни!", "<p>Эта тема важна для понимания более сложных концепций программирования.</p>")

	s.h2("Проверь себя!")
	s.raw(quiz.Quiz{Questions: []quiz.Question{{
		Prompt:  "Вопрос по теме урока",
		Options: []quiz.Option{correct("Правильный ответ", "Правильно!"), wrong("Неправильный ответ")},
	}}}.Render())
	return s.String()
}
