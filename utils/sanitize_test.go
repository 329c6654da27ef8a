package utils

import "testing"

func TestSanitizeHeaderFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":          "report.pdf",
		"  padded.txt  ":      "padded.txt",
		"":                    "download",
		"   ":                 "download",
		"evil\r\nname.txt":    "evilname.txt",
		`quo"ted.txt`:         "quoted.txt",
		"normal name with spaces.txt": "normal name with spaces.txt",
	}
	for in, want := range cases {
		if got := SanitizeHeaderFilename(in); got != want {
			t.Errorf("SanitizeHeaderFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
