package darksky

import (
	"testing"
)

func TestOptionsAreValues(t *testing.T) {
	base := Options{}.ExtendHourly()
	withLang := base.Language(LanguageFr)

	if base.Len() != 1 {
		t.Errorf("base modified: %s", base)
	}
	if withLang.Len() != 2 {
		t.Errorf("withLang = %s, want two parameters", withLang)
	}
	if v, ok := withLang.Get("lang"); !ok || v != "fr" {
		t.Errorf("lang = %q, %v", v, ok)
	}
}

func TestOptionsSetOverrides(t *testing.T) {
	opts := Options{}.Unit(UnitSi).Set("units", "ca").Set("foo", "bar")
	if v, _ := opts.Get("units"); v != "ca" {
		t.Errorf("units = %q, want ca", v)
	}
	if got := opts.String(); got != "foo=bar units=ca" {
		t.Errorf("String = %q", got)
	}
	if got := opts.Values().Get("foo"); got != "bar" {
		t.Errorf("Values foo = %q", got)
	}
}

func TestParse(t *testing.T) {
	if b, err := ParseBlock("Minutely"); err != nil || b != BlockMinutely {
		t.Errorf("ParseBlock = %q, %v", b, err)
	}
	if _, err := ParseBlock("weekly"); err == nil {
		t.Error("expected error for unknown block")
	}
	if u, err := ParseUnit("UK2"); err != nil || u != UnitUk2 {
		t.Errorf("ParseUnit = %q, %v", u, err)
	}
	if _, err := ParseUnit("kelvin"); err == nil {
		t.Error("expected error for unknown unit")
	}
	if l, err := ParseLanguage("zh-TW"); err != nil || l != LanguageZhTw {
		t.Errorf("ParseLanguage = %q, %v", l, err)
	}
	if _, err := ParseLanguage("ja"); err == nil {
		t.Error("expected error for unsupported language")
	}
}

func TestExcludeNothing(t *testing.T) {
	base := Options{}.Unit(UnitSi)
	if got := base.Exclude(); got.Len() != 1 {
		t.Errorf("Exclude() = %s, want options unchanged", got)
	}
	if _, ok := (Options{}).Exclude().Get("exclude"); ok {
		t.Error("Exclude() with no blocks should not set exclude")
	}
	if got := URIWithOptions("tok", 1, 2, Options{}.Exclude()); got != APIURL+"/forecast/tok/1,2" {
		t.Errorf("URI = %q", got)
	}
}
