package msisdn

import "testing"

func TestNormalizeShapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"08123456789", "628123456789"},
		{"8123456789", "628123456789"},
		{"628123456789", "628123456789"},
		{"+628123456789", "628123456789"},
		{"0812-3456-789", "628123456789"},
		{"(0812) 3456.789", "628123456789"},
		{" 08123456789 ", "628123456789"},
		{"0812\n3456789", "628123456789"},
		{"0812\r\n3456 789", "628123456789"},
		{"0812 3456\t789", "628123456789"},
	}
	for _, tc := range cases {
		got, ok := Normalize(tc.in)
		if !ok {
			t.Fatalf("Normalize(%q) rejected, want %q", tc.in, tc.want)
		}
		if got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"halo",
		"0812x3456789",
		"081234",       // too short after prefixing
		"0812345678901234567", // too long
		"+",
		"--..",
	}
	for _, in := range cases {
		if got, ok := Normalize(in); ok {
			t.Fatalf("Normalize(%q) = %q, want reject", in, got)
		}
	}
}

func TestNormalizeLengthBounds(t *testing.T) {
	if _, ok := Normalize("62123456789012345"); ok {
		t.Fatal("17 digits should be rejected")
	}
	if got, ok := Normalize("621234567890123"); !ok || got != "621234567890123" {
		t.Fatalf("15 digits should pass, got %q ok=%v", got, ok)
	}
	if got, ok := Normalize("6212345678"); !ok || got != "6212345678" {
		t.Fatalf("10 digits should pass, got %q ok=%v", got, ok)
	}
	if _, ok := Normalize("621234567"); ok {
		t.Fatal("9 digits should be rejected")
	}
}
