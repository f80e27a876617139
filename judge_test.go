package main

import "testing"

func TestNormalizedJudge(t *testing.T) {
	judge := newNormalizedJudge()

	cases := []struct {
		submitted string
		reference string
		want      bool
	}{
		{"Paris", "Paris", true},
		{"paris", "PARIS", true},
		{"What is Paris", "Paris", true},
		{"what's paris?", "Paris", true},
		{"Who are The Beatles", "Beatles", true},
		{"the amazon", "Amazon", true},
		{"An Apple", "apple", true},
		{"MOBY-DICK", "Moby Dick", true},
		{"  what  is   moby   dick ", "Moby-Dick", true},
		{"route 66", "Route 66", true},

		{"London", "Paris", false},
		{"", "Paris", false},
		{"   ", "Paris", false},
		{"what is", "Paris", false},
		{"pari", "Paris", false},
	}

	for _, tc := range cases {
		if got := judge.Judge(tc.submitted, tc.reference); got != tc.want {
			t.Fatalf("Judge(%q, %q) = %v, want %v", tc.submitted, tc.reference, got, tc.want)
		}
	}
}

func TestNormalizeAnswer(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"What is Paris?", "paris"},
		{"the_big-lebowski", "big lebowski"},
		{"Who's  On   First", "on first"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range cases {
		if got := normalizeAnswer(tc.in); got != tc.want {
			t.Fatalf("normalizeAnswer(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
