package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripLogTag(t *testing.T) {
	assert.Equal(t, "Temko, Stanley L ", StripLogTag("Temko, Stanley L [Privlog:] TEMKO,SL"))
	assert.Equal(t, "[Privlog:] TEMKO,SL", StripLogTag("[Privlog:] TEMKO,SL"))
	assert.Equal(t, "DUNN WL", StripLogTag("DUNN WL"))
}

func TestRemoveSuffixToken(t *testing.T) {
	assert.Equal(t, "Chumney-RD, oeuo", RemoveSuffixToken("Chumney-RD-Jr, oeuo"))
	assert.Equal(t, "Chumney-R, oeuo", RemoveSuffixToken("Chumney-R-III, oeuo"))
	assert.Equal(t, "Chumney-r-III, oeuo", RemoveSuffixToken("Chumney-r-III, oeuo"))
	assert.Equal(t, "Chumney-RD, Ward-AB", RemoveSuffixToken("Chumney-RD-Sr, Ward-AB-Sr"))
}

func TestFixDashedInitials(t *testing.T) {
	cases := map[string]string{
		"DUNN-W":   "DUNN W",
		"DUNN-WL":  "DUNN WL",
		"BAKER-cj": "BAKER cj",
		"DUNN WL":  "DUNN WL",
		"A":        "A",
		"":         "",
		"-":        "-",
	}
	for in, want := range cases {
		assert.Equal(t, want, FixDashedInitials(in), in)
	}
}

func TestNormalizeIsIdempotentOnCleanNames(t *testing.T) {
	for _, raw := range []string{"Dunn, William Lee", "TEMKO SL", "Holtz, Jacob", "A B Cantrell"} {
		once := Normalize(raw)
		assert.Equal(t, raw, once)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestNormalizeComposesPasses(t *testing.T) {
	assert.Equal(t, "Chumney RD", Normalize("Chumney-RD-Jr"))
	assert.Equal(t, "DUNN WL ", Normalize("DUNN WL [Privlog:] DUNN-WL"))
}

func TestLooksValid(t *testing.T) {
	cases := []struct {
		last, first, middle string
		want                bool
	}{
		{"PEPPLES", "E", "", true},
		{"Dunn", "William", "Lee", true},
		{"PEPPLES", "Erest, B&W", "", false},
		{"PEPPLES B&W", "E", "", false},
		{"PEPPLES", "", "", false},
		{"", "E", "", false},
		{"Dunn", "W", "L.", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LooksValid(tc.last, tc.first, tc.middle), "%q %q %q", tc.last, tc.first, tc.middle)
	}
}
