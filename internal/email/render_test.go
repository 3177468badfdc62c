package email

import "testing"

func TestRender_SubstitutesKnownVariables(t *testing.T) {
	out := Render("Hi {{lead_name}}, your {{ service_type }} request was received.", map[string]string{
		"lead_name":    "Jane",
		"service_type": "plumbing",
	})

	want := "Hi Jane, your plumbing request was received."
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestRender_LeavesUnknownPlaceholdersVerbatim(t *testing.T) {
	out := Render("Hi {{lead_name}}, re {{missing_var}}", map[string]string{
		"lead_name": "Jane",
	})

	want := "Hi Jane, re {{missing_var}}"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestRender_NoVariables(t *testing.T) {
	in := "Plain subject without placeholders"
	if out := Render(in, nil); out != in {
		t.Fatalf("expected input unchanged, got %q", out)
	}
}
