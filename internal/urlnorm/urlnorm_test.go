package urlnorm

import "testing"

func TestNormalizeLowercasesSchemeAndHost(t *testing.T) {
	got, err := Normalize("HTTPS://Example.COM/Path")
	if err != nil {
		t.Fatal(err)
	}
	want := "https://example.com/Path"
	if got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeSortsQueryParams(t *testing.T) {
	got, err := Normalize("https://example.com/x?b=2&a=1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://example.com/x?a=1&b=2" {
		t.Fatalf("Normalize = %q", got)
	}
}

func TestNormalizeStripsFragmentAndTrailingSlash(t *testing.T) {
	got, err := Normalize("https://example.com/path/#section")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://example.com/path" {
		t.Fatalf("Normalize = %q", got)
	}
}

func TestNormalizeBareHostMatchesRootPath(t *testing.T) {
	bare, err := Normalize("https://Example.com")
	if err != nil {
		t.Fatal(err)
	}
	root, err := Normalize("https://Example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if bare != root {
		t.Fatalf("Normalize(bare host) = %q, Normalize(root path) = %q, want equal", bare, root)
	}
	if bare != "https://example.com/" {
		t.Fatalf("Normalize(bare host) = %q, want trailing root slash", bare)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	once, err := Normalize("https://Example.com/a/?z=9&y=8#frag")
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Normalize(once)
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Fatalf("Normalize not idempotent: %q != %q", once, twice)
	}
}

func TestDomainExtractsLowercasedHost(t *testing.T) {
	if got := Domain("https://Sub.Example.COM/x"); got != "sub.example.com" {
		t.Fatalf("Domain = %q", got)
	}
	if got := Domain("://not a url"); got != "" {
		t.Fatalf("Domain on unparsable input = %q, want empty", got)
	}
}

func TestContentHashStableAndDistinguishing(t *testing.T) {
	h1 := ContentHash("Title", "Snippet text")
	h2 := ContentHash("title", "snippet text")
	if h1 != h2 {
		t.Fatal("ContentHash should be case-insensitive")
	}
	h3 := ContentHash("Different", "Snippet text")
	if h1 == h3 {
		t.Fatal("ContentHash should differ when title differs")
	}
}

func TestContentHashHasNoSeparator(t *testing.T) {
	// Computed independently as sha256(lower(title).strip() + lower(snippet).strip())
	// with no separator between the two fields.
	got := ContentHash("Statistics Canada Crime Report", "Violent crime rates increased in 2023.")
	want := "fb98495ba3658e8d6b87f463e491b945ff9b82169bd151d64fc3757537dd3b61"
	if got != want {
		t.Fatalf("ContentHash = %q, want %q", got, want)
	}
}
