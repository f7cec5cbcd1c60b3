package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitterLayouts(t *testing.T) {
	s := NewSplitter(DefaultSplitterOptions())

	cases := []struct {
		in   string
		want Name
	}{
		{"John Smith", Name{First: "John", Last: "Smith"}},
		{"John E Smith", Name{First: "John", Middle: "E", Last: "Smith"}},
		{"john e smith", Name{First: "john", Middle: "e", Last: "smith"}},
		{"Johnson, Bart", Name{First: "Bart", Last: "Johnson"}},
		{"Dunn, W. L.", Name{First: "W.", Middle: "L.", Last: "Dunn"}},
		{"John Smith, Jr.", Name{First: "John", Last: "Smith", Suffix: "Jr."}},
		{"John Smith III", Name{First: "John", Last: "Smith", Suffix: "III"}},
		{"TEAGUE CE JR", Name{First: "TEAGUE", Last: "CE", Suffix: "JR"}},
		{"Baker, JR", Name{First: "JR", Last: "Baker"}},
		{"Smith, John Ph.D.", Name{First: "John", Last: "Smith", Suffix: "Ph.D."}},
		{"Smith, Andy B, J.R.", Name{First: "Andy", Middle: "B", Last: "Smith", Suffix: "J.R."}},
		{"Juan de la Vega", Name{First: "Juan", Last: "de la Vega"}},
		{"A B Cantrell, ", Name{First: "A", Middle: "B", Last: "Cantrell"}},
		{"  DUNN   WL ", Name{First: "DUNN", Last: "WL"}},
		{"TEMKO", Name{First: "TEMKO"}},
		{"", Name{}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, s.Split(tc.in), "%q", tc.in)
	}
}

func TestSplitterJoinsConjunctions(t *testing.T) {
	s := NewSplitter(DefaultSplitterOptions())

	got := s.Split("US HOUSE COMM ON INTERSTATE AND FOREIGN COMMERCE")
	assert.Equal(t, "US", got.First)
	assert.Equal(t, "HOUSE COMM ON INTERSTATE AND FOREIGN", got.Middle)
	assert.Equal(t, "COMMERCE", got.Last)
}

func TestSplitterExtractsNicknames(t *testing.T) {
	s := NewSplitter(DefaultSplitterOptions())

	got := s.Split(`John "Jack" Kennedy`)
	assert.Equal(t, Name{First: "John", Last: "Kennedy", Nickname: "Jack"}, got)
}

func TestSplitterExtractsSpacedPhD(t *testing.T) {
	s := NewSplitter(DefaultSplitterOptions())

	got := s.Split("John Smith Ph. D.")
	assert.Equal(t, "John", got.First)
	assert.Equal(t, "Smith", got.Last)
	assert.Equal(t, "Ph. D.", got.Suffix)
}

func TestSplitterTitlesAreOptIn(t *testing.T) {
	plain := NewSplitter(DefaultSplitterOptions())
	assert.Equal(t, Name{First: "Dr.", Middle: "John", Last: "Smith"}, plain.Split("Dr. John Smith"))

	opts := DefaultSplitterOptions()
	opts.Titles = []string{"dr", "mr"}
	titled := NewSplitter(opts)
	assert.Equal(t, Name{Title: "Dr.", First: "John", Last: "Smith"}, titled.Split("Dr. John Smith"))
	assert.Equal(t, Name{Title: "Mr", Last: "Johnson"}, titled.Split("Mr Johnson"))

	opts.Titles = append(opts.Titles, "sir")
	assert.Equal(t, Name{Title: "Sir", First: "Walter"}, NewSplitter(opts).Split("Sir Walter"))
}
