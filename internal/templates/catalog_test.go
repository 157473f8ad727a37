package templates

import (
	"strings"
	"testing"
)

func TestListOrderAndContent(t *testing.T) {
	list := List()
	if len(list) != 5 {
		t.Fatalf("List() returned %d templates, want 5", len(list))
	}
	if list[0].ID != "welcome" || list[len(list)-1].ID != "custom" {
		t.Fatalf("unexpected ordering: first=%s last=%s", list[0].ID, list[len(list)-1].ID)
	}
}

func TestGet(t *testing.T) {
	tmpl, ok := Get("welcome")
	if !ok {
		t.Fatal("welcome template missing")
	}
	if !strings.Contains(tmpl.HTML, "{{name}}") {
		t.Error("welcome template lacks {{name}} placeholder")
	}

	if _, ok := Get("no-such-template"); ok {
		t.Error("Get returned ok for unknown id")
	}
}

func TestPersonalize(t *testing.T) {
	body := "Hello {{name}} <{{email}}>"

	got := Personalize(body, "Amy", "a@x.com")
	if got != "Hello Amy <a@x.com>" {
		t.Fatalf("Personalize = %q", got)
	}

	got = Personalize(body, "", "b@x.com")
	if got != "Hello 朋友 <b@x.com>" {
		t.Fatalf("Personalize fallback = %q", got)
	}
}

func TestPersonalizeLeavesMarkupAlone(t *testing.T) {
	body := `<a href="#">{{name}}</a>`
	got := Personalize(body, "<Amy>", "a@x.com")
	if got != `<a href="#"><Amy></a>` {
		t.Fatalf("markup was altered: %q", got)
	}
}
