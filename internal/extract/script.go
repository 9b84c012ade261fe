package extract

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultDOMMarker starts the browser-only tail of a fixture script.
const DefaultDOMMarker = "document."

const (
	questionsBinding = "baseQuestions"
	imagesBinding    = "signImages"
)

// ErrNoScript is returned when the page has no script block.
var ErrNoScript = errors.New("no script block found")

var (
	scriptBlock = regexp.MustCompile(`(?is)<script\b[^>]*>(.*?)</script>`)

	questionsDecl = bindingDecl(questionsBinding)
	imagesDecl    = bindingDecl(imagesBinding)
)

func bindingDecl(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:const|let|var)\s+` + name + `\s*=`)
}

// ScriptQuestion is one entry of the embedded question array.
type ScriptQuestion struct {
	Text    string
	Options []string
	// Answer is zero-based. Letter answers ("a".."d") are converted on read.
	Answer int
	Code   string
}

// ScriptData holds the two bindings read from the script. Both are empty when absent.
type ScriptData struct {
	Questions []ScriptQuestion
	ImagesMap map[string]string
}

// FirstScript returns the body of the first script block.
func FirstScript(page string) (string, bool) {
	m := scriptBlock.FindStringSubmatch(page)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// HasEmbeddedQuestions reports whether the first script block declares the question array.
func HasEmbeddedQuestions(page string) bool {
	body, ok := FirstScript(page)
	return ok && questionsDecl.MatchString(body)
}

// EvaluateScript reads the question array and image map from the first script block.
// Everything from domMarker onward is discarded first. Nothing in the script runs.
func EvaluateScript(page, domMarker string) (*ScriptData, error) {
	body, ok := FirstScript(page)
	if !ok {
		return nil, ErrNoScript
	}
	if domMarker != "" {
		if idx := strings.Index(body, domMarker); idx >= 0 {
			body = body[:idx]
		}
	}

	data := &ScriptData{
		Questions: []ScriptQuestion{},
		ImagesMap: map[string]string{},
	}

	rawQuestions, found, err := readBinding(body, questionsDecl, questionsBinding)
	if err != nil {
		return nil, err
	}
	if found {
		list, ok := rawQuestions.([]any)
		if !ok {
			return nil, fmt.Errorf("%s is not an array", questionsBinding)
		}
		for i, item := range list {
			q, err := toScriptQuestion(item)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", questionsBinding, i, err)
			}
			data.Questions = append(data.Questions, q)
		}
	}

	rawImages, found, err := readBinding(body, imagesDecl, imagesBinding)
	if err != nil {
		return nil, err
	}
	if found {
		images, ok := rawImages.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s is not an object", imagesBinding)
		}
		for code, v := range images {
			if url, ok := v.(string); ok {
				data.ImagesMap[code] = url
			}
		}
	}

	return data, nil
}

func readBinding(body string, decl *regexp.Regexp, name string) (any, bool, error) {
	loc := decl.FindStringIndex(body)
	if loc == nil {
		return nil, false, nil
	}
	v, _, err := ParseLiteral(body[loc[1]:])
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			se.Pos += loc[1]
		}
		return nil, true, fmt.Errorf("%s: %w", name, err)
	}
	return v, true, nil
}

func toScriptQuestion(item any) (ScriptQuestion, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return ScriptQuestion{}, errors.New("entry is not an object")
	}

	q := ScriptQuestion{
		Text: stringify(obj["text"]),
		Code: stringify(obj["code"]),
	}
	if raw, ok := obj["options"].([]any); ok {
		for _, o := range raw {
			q.Options = append(q.Options, stringify(o))
		}
	}

	answer, err := answerIndex(obj["answer"])
	if err != nil {
		return ScriptQuestion{}, err
	}
	q.Answer = answer
	return q, nil
}

// answerIndex accepts a zero-based number, a numeric string, or an option letter.
func answerIndex(v any) (int, error) {
	switch a := v.(type) {
	case nil:
		return 0, nil
	case float64:
		if a != math.Trunc(a) {
			return 0, fmt.Errorf("answer %v is not an index", a)
		}
		return int(a), nil
	case string:
		s := strings.TrimSpace(strings.ToLower(a))
		if len(s) == 1 && s[0] >= 'a' && s[0] <= 'd' {
			return int(s[0] - 'a'), nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("answer %q is not an index or option letter", a)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("answer has unsupported type %T", v)
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// Drafts converts script questions to drafts in source order, unfiltered.
func (d *ScriptData) Drafts() []Draft {
	drafts := make([]Draft, len(d.Questions))
	for i, q := range d.Questions {
		drafts[i] = Draft{
			Number:       strconv.Itoa(i + 1),
			Text:         q.Text,
			Options:      append([]string{}, q.Options...),
			CorrectIndex: q.Answer,
			Code:         q.Code,
		}
	}
	return drafts
}

// ResolveImage returns the URL of the first comma-separated code present in ImagesMap.
func (d *ScriptData) ResolveImage(code string) *string {
	for _, c := range strings.Split(code, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if url, ok := d.ImagesMap[c]; ok {
			return &url
		}
	}
	return nil
}
