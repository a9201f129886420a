package service

import "testing"

func TestCleanSolutionText(t *testing.T) {
	cases := map[string]string{
		"":                            "",
		"  x = 2  ":                   "x = 2",
		"\uFEFFx = 2":                 "x = 2",
		"```latex\nx = 2\n```":        "x = 2",
		"```\n\\frac{1}{2}\n```\n":    "\\frac{1}{2}",
		"Paso 1: ```x``` luego x = 2": "Paso 1: ```x``` luego x = 2",
		"```markdown\n**x = 2**\n```": "**x = 2**",
	}
	for in, want := range cases {
		if got := cleanSolutionText(in); got != want {
			t.Fatalf("cleanSolutionText(%q) = %q, want %q", in, got, want)
		}
	}
}
