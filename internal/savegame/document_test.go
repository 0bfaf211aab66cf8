package savegame

import (
	"errors"
	"testing"
)

func TestNewDocumentRequiresObjectRoot(t *testing.T) {
	for _, text := range []string{`[1,2,3]`, `"str"`, `42`, `null`} {
		if _, err := NewDocument([]byte(text)); !errors.Is(err, ErrNotObject) {
			t.Errorf("NewDocument(%s) error = %v, want ErrNotObject", text, err)
		}
	}
	if _, err := NewDocument([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("NewDocument object error: %v", err)
	}
}

func TestSectionGuards(t *testing.T) {
	doc, err := NewDocument([]byte(`{"PlayerInfo":{"m_Gold":7},"NotAMap":[1]}`))
	if err != nil {
		t.Fatalf("NewDocument error: %v", err)
	}

	if _, ok := doc.Section("PlayerInfo"); !ok {
		t.Error("PlayerInfo should be a well-formed section")
	}
	if _, ok := doc.Section("NotAMap"); ok {
		t.Error("array section should not pass the object guard")
	}
	if _, ok := doc.Section("Missing"); ok {
		t.Error("missing section should not pass the guard")
	}
}

func TestCompactPreservesMemberOrder(t *testing.T) {
	in := "{\n  \"b\": 1,\n  \"a\": 2\n}"
	doc, err := NewDocument([]byte(in))
	if err != nil {
		t.Fatalf("NewDocument error: %v", err)
	}
	if got := string(doc.Compact()); got != `{"b":1,"a":2}` {
		t.Errorf("Compact = %s", got)
	}
}

func TestSetLeavesUnrelatedFieldsUntouched(t *testing.T) {
	doc, err := NewDocument([]byte(`{"PlayerInfo":{"m_Gold":1,"m_Bei":2},"Extra":{"x":true}}`))
	if err != nil {
		t.Fatalf("NewDocument error: %v", err)
	}
	if err := doc.Set("PlayerInfo.m_Gold", 5); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if got := doc.Get("PlayerInfo.m_Bei").Int(); got != 2 {
		t.Errorf("m_Bei = %d, want 2", got)
	}
	if !doc.Get("Extra.x").Bool() {
		t.Error("unknown field should survive a write")
	}
}
