package forms_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"conduit/pkg/forms"
)

// fakeArticles records publish intents and lets tests push article data.
type fakeArticles struct {
	subscriber func(map[string]interface{})
	published  int
}

func (f *fakeArticles) Subscribe(fn func(map[string]interface{})) func() {
	f.subscriber = fn
	return func() { f.subscriber = nil }
}

func (f *fakeArticles) Publish() { f.published++ }

func (f *fakeArticles) emit(article map[string]interface{}) {
	if f.subscriber != nil {
		f.subscriber(article)
	}
}

func TestBuildSchema(t *testing.T) {
	createSchema := forms.BuildSchema(forms.ModeCreate)
	require.Len(t, createSchema, 4)
	require.Equal(t, "title", createSchema[0].Name)
	require.Equal(t, "tagList", createSchema[3].Name)

	editSchema := forms.BuildSchema(forms.ModeEdit)
	require.Len(t, editSchema, 5)
	require.Equal(t, "coAuthors", editSchema[4].Name)

	// The builder never mutates the base schema.
	require.Len(t, forms.BuildSchema(forms.ModeCreate), 4)
}

func TestSplitTagList(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want []string
	}{
		{"comma string with spaces", "a, b,c", []string{"a", "b", "c"}},
		{"slice passthrough", []string{"x", "y"}, []string{"x", "y"}},
		{"decoded json list", []interface{}{"x", "y"}, []string{"x", "y"}},
		{"empty slice", []string{}, []string{}},
		{"nil", nil, []string{}},
		{"number", 42, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, forms.SplitTagList(tt.in))
		})
	}
}

func TestSeparateEmails(t *testing.T) {
	require.Equal(t, []string{"a@x.com", "b@x.com"}, forms.SeparateEmails("a@x.com, b@x.com"))
	require.Equal(t, []string{}, forms.SeparateEmails(nil))
	require.Equal(t, []string{}, forms.SeparateEmails([]string{"a@x.com"}))
}

func TestControllerInitPushesSchemaAndData(t *testing.T) {
	store := forms.NewStore()
	articles := &fakeArticles{}

	forms.NewEditorController(forms.ModeEdit, store, articles)

	require.Len(t, store.Structure(), 5)

	articles.emit(map[string]interface{}{"title": "Hello"})
	require.Equal(t, "Hello", store.Data()["title"])
}

func TestUpdateFormNormalizesTagList(t *testing.T) {
	store := forms.NewStore()
	c := forms.NewEditorController(forms.ModeCreate, store, &fakeArticles{})

	c.UpdateForm(map[string]interface{}{"title": "Go", "tagList": "go, web,api"})

	data := store.Data()
	require.Equal(t, "Go", data["title"])
	require.Equal(t, []string{"go", "web", "api"}, data["tagList"])
}

func TestCoAuthorsOnlyNormalizedInEditMode(t *testing.T) {
	editStore := forms.NewStore()
	edit := forms.NewEditorController(forms.ModeEdit, editStore, &fakeArticles{})
	edit.UpdateForm(map[string]interface{}{"coAuthors": "a@x.com, b@x.com"})
	require.Equal(t, []string{"a@x.com", "b@x.com"}, editStore.Data()["coAuthors"])

	// Create mode passes the raw value through untouched.
	createStore := forms.NewStore()
	create := forms.NewEditorController(forms.ModeCreate, createStore, &fakeArticles{})
	create.UpdateForm(map[string]interface{}{"coAuthors": "a@x.com, b@x.com"})
	require.Equal(t, "a@x.com, b@x.com", createStore.Data()["coAuthors"])
}

func TestSubmitDispatchesPublishIntent(t *testing.T) {
	articles := &fakeArticles{}
	c := forms.NewEditorController(forms.ModeCreate, forms.NewStore(), articles)

	c.Submit()
	c.Submit()
	require.Equal(t, 2, articles.published)
}

func TestDestroyStopsForwardingAndResets(t *testing.T) {
	store := forms.NewStore()
	articles := &fakeArticles{}
	c := forms.NewEditorController(forms.ModeCreate, store, articles)

	articles.emit(map[string]interface{}{"title": "before"})
	require.Equal(t, "before", store.Data()["title"])

	c.Destroy()

	require.Empty(t, store.Structure())
	require.Empty(t, store.Data())

	// No dispatch reaches the form store after teardown.
	articles.emit(map[string]interface{}{"title": "after"})
	require.Empty(t, store.Data())
}
