package forms

import (
	"fmt"
	"strings"
)

// ArticleSource is the article-domain store the editor talks to. Subscribe
// delivers the current article (and later replacements) until the returned
// teardown runs; Publish asks the store to publish whatever the form holds.
type ArticleSource interface {
	Subscribe(fn func(article map[string]interface{})) (cancel func())
	Publish()
}

// EditorController wires the article editor together: it pushes the schema
// for its mode into the form store, mirrors the current article into the
// form data, and normalizes list-ish fields on every edit.
type EditorController struct {
	mode        Mode
	form        *Store
	articles    ArticleSource
	unsubscribe func()
}

// NewEditorController initializes the editor. The mode is decided once,
// here, by the caller.
func NewEditorController(mode Mode, form *Store, articles ArticleSource) *EditorController {
	c := &EditorController{
		mode:     mode,
		form:     form,
		articles: articles,
	}

	c.form.SetStructure(BuildSchema(mode))
	c.unsubscribe = c.articles.Subscribe(func(article map[string]interface{}) {
		c.form.SetData(article)
	})

	return c
}

// UpdateForm normalizes the tag list (always) and the co-author list (edit
// mode only) before merging the changes into the form store. In create mode
// a co-author value passes through untouched.
func (c *EditorController) UpdateForm(changes map[string]interface{}) {
	changes["tagList"] = SplitTagList(changes["tagList"])

	if c.mode == ModeEdit {
		if raw, ok := changes["coAuthors"]; ok && raw != nil && raw != "" {
			changes["coAuthors"] = SeparateEmails(raw)
		}
	}

	c.form.UpdateData(changes)
}

// Submit dispatches the publish intent. It carries no payload; the article
// store reads the current form data itself.
func (c *EditorController) Submit() {
	c.articles.Publish()
}

// Destroy tears down the article subscription and resets the form store.
// No form dispatch happens after Destroy returns.
func (c *EditorController) Destroy() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.form.Reset()
}

// SplitTagList turns a comma-separated string into trimmed tags. A slice
// passes through element by element, which covers the []interface{} shape a
// JSON-decoded list arrives in; anything else becomes the empty list.
func SplitTagList(value interface{}) []string {
	switch v := value.(type) {
	case string:
		return splitAndTrim(v)
	case []string:
		return v
	case []interface{}:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = fmt.Sprint(item)
		}
		return out
	default:
		return []string{}
	}
}

// SeparateEmails splits a comma-separated email string into trimmed
// addresses. Non-string input becomes the empty list.
func SeparateEmails(value interface{}) []string {
	if s, ok := value.(string); ok {
		return splitAndTrim(s)
	}
	return []string{}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
