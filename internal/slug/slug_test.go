package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World! 2026", "hello-world-2026"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple---symbols!!!here", "multiple-symbols-here"},
		{"ALL CAPS TITLE", "all-caps-title"},
		{"already-a-slug", "already-a-slug"},
		{"", ""},
		{"!!!", ""},
		{"Drafts & Publishing", "drafts-publishing"},
	}

	for _, c := range cases {
		if got := Make(c.in); got != c.want {
			t.Errorf("Make(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
