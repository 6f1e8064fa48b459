// Package curriculum holds the course manifest: the ordered modules, their
// lessons, and the prev/next chain that links every lesson page.
package curriculum

// RootID is the prev/next marker for the course boundaries. It points outside
// the lesson set, to the course landing page.
const RootID = "root"

// LessonType selects the content generator for a lesson.
type LessonType string

const (
	TypeAlgorithm    LessonType = "algorithm"
	TypeLanguage     LessonType = "language"
	TypeExamBasic    LessonType = "exam-basic"
	TypeExamAdvanced LessonType = "exam-advanced"
	TypeGeneric      LessonType = "generic"
)

// Types lists the known lesson types in a stable order.
func Types() []LessonType {
	return []LessonType{TypeAlgorithm, TypeLanguage, TypeExamBasic, TypeExamAdvanced, TypeGeneric}
}

// Known reports whether t is one of the declared lesson types.
func (t LessonType) Known() bool {
	switch t {
	case TypeAlgorithm, TypeLanguage, TypeExamBasic, TypeExamAdvanced, TypeGeneric:
		return true
	}
	return false
}

// NeedsRuntime reports whether pages of this type carry an editable code block
// and so need the in-browser Python runtime.
func (t LessonType) NeedsRuntime() bool {
	switch t {
	case TypeLanguage, TypeExamBasic, TypeExamAdvanced:
		return true
	}
	return false
}

// Entry is a single lesson. The ID doubles as the output file name and as the
// key other entries use in PrevID/NextID.
type Entry struct {
	ID       string     `yaml:"id" json:"id"`
	Title    string     `yaml:"title" json:"title"`
	NavTitle string     `yaml:"nav_title,omitempty" json:"nav_title,omitempty"`
	Module   string     `yaml:"-" json:"-"`
	Duration string     `yaml:"duration" json:"duration"`
	Type     LessonType `yaml:"type" json:"type"`
	PrevID   string     `yaml:"prev" json:"prev"`
	NextID   string     `yaml:"next" json:"next"`
}

// Label is the text used for the entry in the sidebar.
func (e Entry) Label() string {
	if e.NavTitle != "" {
		return e.NavTitle
	}
	return e.Title
}

// Filename is the output file name for the entry.
func (e Entry) Filename() string {
	return e.ID + ".html"
}

// Module is a display group of lessons.
type Module struct {
	Name    string  `yaml:"name" json:"name"`
	Lessons []Entry `yaml:"lessons" json:"lessons"`
}
