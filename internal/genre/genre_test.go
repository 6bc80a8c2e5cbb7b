package genre

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Real-Time Strategy", "real-time-strategy"},
		{"Hack and Slash", "hack-and-slash"},
		{"Quiz/Trivia", "quiz-trivia"},
		{"Pokémon-like", "pokemon-like"},
		{"  RPG  ", "rpg"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	if got := Canonical("Role-playing (RPG)"); got != "RPG" {
		t.Errorf("Canonical = %q, want RPG", got)
	}
	if got := Canonical("Platformer"); got != "Platformer" {
		t.Errorf("unknown genre should pass through, got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]string{"Role-playing (RPG)", "rpg", "", "Adventure"})
	want := []string{"RPG", "Adventure"}
	if len(got) != len(want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Normalize[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
