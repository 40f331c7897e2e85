package main

import (
	"testing"
)

func TestBuildOptions(t *testing.T) {
	opts, err := buildOptions("si", "de", "minutely, alerts", true)
	if err != nil {
		t.Fatalf("buildOptions failed: %v", err)
	}
	want := "exclude=minutely,alerts extend=hourly lang=de units=si"
	if got := opts.String(); got != want {
		t.Errorf("options = %q, want %q", got, want)
	}

	if _, err := buildOptions("kelvin", "", "", false); err == nil {
		t.Error("expected error for unknown unit")
	}
	if _, err := buildOptions("auto", "", "weekly", false); err == nil {
		t.Error("expected error for unknown block")
	}
}

func TestLocaleTag(t *testing.T) {
	tests := map[string]string{
		"de_DE.UTF-8": "de-DE",
		"pt_BR":       "pt-BR",
		"sr_RS@latin": "sr-RS",
		"":            "",
	}
	for in, want := range tests {
		if got := localeTag(in); got != want {
			t.Errorf("localeTag(%q) = %q, want %q", in, got, want)
		}
	}
}
