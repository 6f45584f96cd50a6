package panel

import "testing"

func TestNeutralizeDirectionStripsModifiers(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"rising", "Violent crime is rising sharply across the country", "Violent crime sharply across the country"},
		{"falling", "Unemployment is falling across most provinces this year", "Unemployment across most provinces this year"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NeutralizeDirection(tc.in)
			if got != tc.want {
				t.Fatalf("NeutralizeDirection(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNeutralizeDirectionKeepsOriginalWhenTooAggressive(t *testing.T) {
	// A short claim dominated by directional words would shrink below the
	// minimum-retained-length floor, so the original text must come back.
	in := "Crime rising"
	got := NeutralizeDirection(in)
	if got != in {
		t.Fatalf("NeutralizeDirection(%q) = %q, want unchanged original", in, got)
	}
}

func TestNeutralizeDirectionNoModifiersUnchanged(t *testing.T) {
	in := "The national budget deficit exceeds last year's total by a wide margin"
	got := NeutralizeDirection(in)
	if got != in {
		t.Fatalf("NeutralizeDirection(%q) = %q, want unchanged", in, got)
	}
}
