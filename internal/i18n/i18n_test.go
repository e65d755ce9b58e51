package i18n

import "testing"

func TestParseSupportedCodes(t *testing.T) {
	for _, code := range []string{"en", "ar", "ku", " EN ", "Ar"} {
		if _, ok := Parse(code); !ok {
			t.Fatalf("code %q should parse", code)
		}
	}
	for _, code := range []string{"fr", "", "en-US", "arab"} {
		if _, ok := Parse(code); ok {
			t.Fatalf("code %q should not parse", code)
		}
	}
}

func TestDirectionDerivedFromLanguage(t *testing.T) {
	if DirectionOf(English) != LTR {
		t.Fatal("en should be ltr")
	}
	if DirectionOf(Arabic) != RTL {
		t.Fatal("ar should be rtl")
	}
	if DirectionOf(Kurdish) != RTL {
		t.Fatal("ku should be rtl")
	}
}

func TestTranslateActiveLanguage(t *testing.T) {
	r, errNew := NewResolver()
	if errNew != nil {
		t.Fatalf("new resolver: %v", errNew)
	}

	if got := r.Translate(English, "home"); got != "Home" {
		t.Fatalf("en home = %q", got)
	}
	if got := r.Translate(Arabic, "home"); got != "الصفحة الرئيسية" {
		t.Fatalf("ar home = %q", got)
	}
	if got := r.Translate(Kurdish, "home"); got != "پەڕەی سەرەکی" {
		t.Fatalf("ku home = %q", got)
	}
}

func TestTranslateMissingKeyReturnsKey(t *testing.T) {
	r, errNew := NewResolver()
	if errNew != nil {
		t.Fatalf("new resolver: %v", errNew)
	}
	if got := r.Translate(English, "no.such.key"); got != "no.such.key" {
		t.Fatalf("missing key should echo: got %q", got)
	}
}

func TestTranslateUnsupportedLanguageFallsBackToDefault(t *testing.T) {
	r, errNew := NewResolver()
	if errNew != nil {
		t.Fatalf("new resolver: %v", errNew)
	}
	if got := r.Translate(Language("fr"), "home"); got != "Home" {
		t.Fatalf("unsupported language should use the default table: got %q", got)
	}
}

func TestProjectTablePerLanguage(t *testing.T) {
	cases := map[Language]string{
		English:        "projects",
		Arabic:         "projects_ar",
		Kurdish:        "projects_ku",
		Language("fr"): "projects",
	}
	for lang, want := range cases {
		if got := ProjectTable(lang); got != want {
			t.Fatalf("ProjectTable(%s) = %q, want %q", lang, got, want)
		}
	}
}
