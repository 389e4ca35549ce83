package guard

import "testing"

func TestDecide(t *testing.T) {
	cases := []struct {
		name          string
		req           Requirement
		authenticated bool
		want          Outcome
	}{
		{"protected page, anonymous", RequireAuth, false, RedirectLogin},
		{"protected page, authenticated", RequireAuth, true, Proceed},
		{"login page, anonymous", RequireAnonymous, false, Proceed},
		{"login page, authenticated", RequireAnonymous, true, RedirectHome},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Decide(c.req, c.authenticated); got != c.want {
				t.Errorf("Decide(%v, %v) = %v, want %v", c.req, c.authenticated, got, c.want)
			}
		})
	}
}
