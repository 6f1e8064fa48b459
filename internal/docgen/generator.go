// Package docgen converts hand-authored markdown lessons into lesson body HTML.
//
// Besides regular markdown (raw HTML allowed), two fenced block kinds are
// understood:
//
//	```python-editor [title]   an editable, runnable Python block
//	```quiz                    a YAML quiz, rendered as the lesson self-check
package docgen

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v3"

	pyerrors "github.com/zellyn/pylearn/internal/errors"
	"github.com/zellyn/pylearn/internal/quiz"
)

// Fence languages with special rendering.
const (
	EditorFence = "python-editor"
	QuizFence   = "quiz"
)

// KindEditorBlock and KindQuizBlock identify the custom nodes.
var (
	KindEditorBlock = ast.NewNodeKind("EditorBlock")
	KindQuizBlock   = ast.NewNodeKind("QuizBlock")
)

// quizErrKey carries the first quiz decoding error out of the transformer.
var quizErrKey = parser.NewContextKey()

// EditorBlock represents a Python code block the reader can edit and run
type EditorBlock struct {
	ast.BaseBlock
	Title string
	Code  string
}

// Dump implements ast.Node
func (n *EditorBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Title": n.Title}, nil)
}

// Kind implements ast.Node
func (n *EditorBlock) Kind() ast.NodeKind {
	return KindEditorBlock
}

// QuizBlock holds a decoded quiz
type QuizBlock struct {
	ast.BaseBlock
	Quiz quiz.Quiz
}

// Dump implements ast.Node
func (n *QuizBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// Kind implements ast.Node
func (n *QuizBlock) Kind() ast.NodeKind {
	return KindQuizBlock
}

// ASTTransformer replaces python-editor and quiz fences with custom nodes
type ASTTransformer struct{}

func (t *ASTTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	// We can't modify the tree while walking it, so we collect first
	type replacement struct {
		parent  ast.Node
		oldNode ast.Node
		newNode ast.Node
	}
	var replacements []replacement

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fencedBlock, ok := n.(*ast.FencedCodeBlock)
		if !ok || fencedBlock.Info == nil {
			return ast.WalkContinue, nil
		}

		info := strings.TrimSpace(string(fencedBlock.Info.Text(reader.Source())))
		lang, rest, _ := strings.Cut(info, " ")

		var customNode ast.Node
		switch lang {
		case EditorFence:
			customNode = &EditorBlock{
				Title: strings.TrimSpace(rest),
				Code:  fenceText(fencedBlock, reader.Source()),
			}
		case QuizFence:
			var q quiz.Quiz
			if err := yaml.Unmarshal([]byte(fenceText(fencedBlock, reader.Source())), &q); err != nil {
				if pc.Get(quizErrKey) == nil {
					pc.Set(quizErrKey, err)
				}
				return ast.WalkContinue, nil
			}
			customNode = &QuizBlock{Quiz: q}
		default:
			return ast.WalkContinue, nil
		}

		if parent := fencedBlock.Parent(); parent != nil {
			replacements = append(replacements, replacement{
				parent:  parent,
				oldNode: fencedBlock,
				newNode: customNode,
			})
		}
		return ast.WalkContinue, nil
	})

	for _, r := range replacements {
		r.parent.ReplaceChild(r.parent, r.oldNode, r.newNode)
	}
}

func fenceText(block *ast.FencedCodeBlock, source []byte) string {
	var code strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}
	return code.String()
}

// BlockRenderer renders the custom nodes and plain fenced code in the course's
// widget markup
type BlockRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer
func (r *BlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindEditorBlock, r.renderEditor)
	reg.Register(KindQuizBlock, r.renderQuiz)
	reg.Register(ast.KindFencedCodeBlock, r.renderCode)
}

func (r *BlockRenderer) renderEditor(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*EditorBlock)
	w.WriteString(Editor(n.Title, n.Code))
	return ast.WalkContinue, nil
}

func (r *BlockRenderer) renderQuiz(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	w.WriteString(node.(*QuizBlock).Quiz.Render())
	return ast.WalkContinue, nil
}

func (r *BlockRenderer) renderCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	cb := node.(*ast.FencedCodeBlock)
	w.WriteString(CodeBlock(fenceText(cb, source)))
	return ast.WalkContinue, nil
}

// DefaultEditorTitle heads an editor block without a title of its own.
const DefaultEditorTitle = "Python редактор"

// Editor renders the editable Python widget seeded with code.
func Editor(title, code string) string {
	if title == "" {
		title = DefaultEditorTitle
	}
	var b strings.Builder
	b.WriteString("<div class=\"python-editor\">\n")
	b.WriteString("    <div class=\"editor-header\">\n")
	fmt.Fprintf(&b, "        <h3>%s</h3>\n", html.EscapeString(title))
	b.WriteString("        <div class=\"editor-controls\">\n")
	b.WriteString("            <button class=\"run-btn\">▶ Запустить</button>\n")
	b.WriteString("            <button class=\"clear-btn\">✕ Очистить</button>\n")
	b.WriteString("        </div>\n")
	b.WriteString("    </div>\n")
	fmt.Fprintf(&b, "    <textarea id=\"code-editor\" spellcheck=\"false\">%s</textarea>\n", html.EscapeString(code))
	b.WriteString("    <div class=\"output-container\">\n")
	b.WriteString("        <h4>Результат:</h4>\n")
	b.WriteString("        <div id=\"output\"></div>\n")
	b.WriteString("    </div>\n")
	b.WriteString("</div>\n")
	return b.String()
}

// CodeBlock renders a read-only code listing.
func CodeBlock(code string) string {
	return fmt.Sprintf("<div class=\"code-block\">\n    <pre>%s</pre>\n</div>\n", html.EscapeString(strings.TrimRight(code, "\n")))
}

// DocMetadata contains metadata from markdown frontmatter
type DocMetadata struct {
	ID          string
	Title       string
	Description string
}

// Doc is a converted lesson.
type Doc struct {
	Meta    DocMetadata
	HTML    string
	Quizzes []quiz.Quiz
}

var md = goldmark.New(
	goldmark.WithExtensions(
		meta.Meta,
	),
	goldmark.WithParserOptions(
		parser.WithASTTransformers(
			util.Prioritized(&ASTTransformer{}, 100),
		),
	),
	goldmark.WithRendererOptions(
		goldmarkhtml.WithUnsafe(), // lessons embed note/warning/diagram markup
		renderer.WithNodeRenderers(
			util.Prioritized(&BlockRenderer{}, 100),
		),
	),
)

// Convert turns a markdown lesson into body HTML. Every quiz fence must decode
// and validate.
func Convert(source []byte) (*Doc, error) {
	ctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))
	if v := ctx.Get(quizErrKey); v != nil {
		return nil, pyerrors.NewParseError("quiz", "", v.(error))
	}

	var quizzes []quiz.Quiz
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if qb, ok := n.(*QuizBlock); ok && entering {
			if err := qb.Quiz.Validate(); err != nil {
				return ast.WalkStop, err
			}
			quizzes = append(quizzes, qb.Quiz)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid quiz: %w", err)
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	metadata := meta.Get(ctx)
	return &Doc{
		Meta: DocMetadata{
			ID:          metaString(metadata, "id"),
			Title:       metaString(metadata, "title"),
			Description: metaString(metadata, "description"),
		},
		HTML:    buf.String(),
		Quizzes: quizzes,
	}, nil
}

func metaString(metadata map[string]interface{}, key string) string {
	if v, ok := metadata[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
