package logger

import "testing"

func TestSanitizer_Sanitize(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		input string
		want  string
	}{
		{"/home/alice/docs/a.txt", "/home/***/docs/a.txt"},
		{"/Users/bob/x", "/Users/***/x"},
		{`C:\Users\carol\x`, `***:\Users\***\x`},
		{"token=abc123 ok", "token=*** ok"},
		{"/srv/data/a.txt", "/srv/data/a.txt"},
	}

	for _, tt := range tests {
		if got := s.Sanitize(tt.input); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizer_SanitizeArgs(t *testing.T) {
	s := NewSanitizer()
	args := []any{"password", "supersecret", "cwd", "/home/dave/x", "count", 3}

	got := s.SanitizeArgs(args)

	if got[1] != "s***t" {
		t.Errorf("password not masked: %v", got[1])
	}
	if got[3] != "/home/***/x" {
		t.Errorf("path not sanitized: %v", got[3])
	}
	if got[5] != 3 {
		t.Errorf("non-string value changed: %v", got[5])
	}
	if args[1] != "supersecret" {
		t.Error("input slice was modified")
	}
}

func TestSanitizer_AddRule(t *testing.T) {
	s := NewSanitizer()
	if err := s.AddRule(`secret-\d+`, "secret-***"); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	if got := s.Sanitize("id secret-42"); got != "id secret-***" {
		t.Errorf("custom rule not applied: %s", got)
	}
	if err := s.AddRule("(", "x"); err == nil {
		t.Error("expected error for invalid regexp")
	}
}

func TestMaskValue(t *testing.T) {
	tests := map[string]string{
		"ab":         "***",
		"abcdef":     "a***",
		"abcdefghij": "a***j",
	}
	for in, want := range tests {
		if got := maskValue(in); got != want {
			t.Errorf("maskValue(%s) = %s, want %s", in, got, want)
		}
	}
}
