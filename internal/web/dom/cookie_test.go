package dom

import "testing"

func TestCookieValue(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		found  bool
	}{
		{"only cookie", "lastQuery=Trier", "Trier", true},
		{"among others", "a=1; lastQuery=Saarbr%C3%BCcken; b=2", "Saarbrücken", true},
		{"encoded space", "lastQuery=Trier%20Nord", "Trier Nord", true},
		{"empty value", "lastQuery=", "", true},
		{"missing", "a=1; b=2", "", false},
		{"prefix is not a match", "lastQueryX=1", "", false},
		{"bad escape kept raw", "lastQuery=100%", "100%", true},
		{"empty header", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cookieValue(tt.header, "lastQuery")
			if ok != tt.found || got != tt.want {
				t.Errorf("cookieValue(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestFormatCookie(t *testing.T) {
	got := formatCookie("lastQuery", "Trier Nord;x")
	want := "lastQuery=Trier%20Nord%3Bx; path=/; SameSite=Lax"
	if got != want {
		t.Errorf("formatCookie = %q, want %q", got, want)
	}

	value, ok := cookieValue(got[:len(got)-len("; path=/; SameSite=Lax")], "lastQuery")
	if !ok || value != "Trier Nord;x" {
		t.Errorf("round trip = %q, %v", value, ok)
	}
}
