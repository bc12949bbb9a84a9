package doctree

import (
	"encoding/json"
	"testing"
)

func TestDocumentMarshal_NoHTMLEscaping(t *testing.T) {
	doc := Document{
		Title:   "Q&A <draft>",
		Outline: []OutlineEntry{{Level: 2, Text: "a > b", Page: 1}},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"title":"Q&A <draft>","outline":[{"level":"H2","text":"a > b","page":1}]}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestDocumentMarshal_NilOutline(t *testing.T) {
	data, err := json.Marshal(Document{Title: "t"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"title":"t","outline":[]}` {
		t.Errorf("expected empty outline array, got %s", data)
	}
}

func TestLevelUnmarshal_Rejects(t *testing.T) {
	for _, in := range []string{`"H0"`, `"H01"`, `"h1"`, `1`} {
		var l Level
		if err := json.Unmarshal([]byte(in), &l); err == nil {
			t.Errorf("expected error for %s, got level %d", in, l)
		}
	}
}
