package person_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namedisambig/internal/counter"
	"namedisambig/internal/names"
	"namedisambig/internal/orgtable"
	"namedisambig/internal/person"
)

func defaultTable(t *testing.T) *orgtable.Table {
	t.Helper()
	table, err := orgtable.Default()
	require.NoError(t, err)
	return table
}

func fromRaw(t *testing.T, raw string) *person.Person {
	t.Helper()
	p, err := person.FromRaw(names.NewParser(defaultTable(t)), raw, person.Fields{})
	require.NoError(t, err)
	return p
}

func mustNew(t *testing.T, f person.Fields) *person.Person {
	t.Helper()
	p, err := person.New(f)
	require.NoError(t, err)
	return p
}

func TestFromRawMatchesExplicitRecords(t *testing.T) {
	cases := []struct {
		raw  string
		want person.Fields
	}{
		{"TEAGUE CE JR", person.Fields{Last: "Teague", First: "C", Middle: "E",
			Positions: counter.FromMap(map[string]int{"JR": 1}), AliasList: []string{"TEAGUE CE JR"}}},
		{"teague ce jr", person.Fields{Last: "Teague", First: "C", Middle: "E",
			Positions: counter.New("JR"), AliasList: []string{"TEAGUE CE JR"}}},
		{"BAKER, T E - NATIONAL ASSOCIATION OF ATTORNEYS GENERAL", person.Fields{Last: "Baker", First: "T", Middle: "E",
			PositionList: []string{"NATIONAL ASSOCIATION OF ATTORNEYS GENERAL"},
			AliasList:    []string{"BAKER, T E - NATIONAL ASSOCIATION OF ATTORNEYS GENERAL"}}},
		{"BAKER-cj", person.Fields{Last: "Baker", First: "C", Middle: "J", AliasList: []string{"BAKER-CJ"}}},
		{"Baker, JR", person.Fields{Last: "Baker", First: "J", Middle: "R", AliasList: []string{"BAKER, JR"}}},
		{"DUNN WL #", person.Fields{Last: "Dunn", First: "W", Middle: "L", AliasList: []string{"DUNN WL #"}}},
		{"Dunn, W. L.", person.Fields{Last: "Dunn", First: "W", Middle: "L", AliasList: []string{"DUNN, W. L."}}},
		{"TEMKO SL, COVINGTON AND BURLING", person.Fields{Last: "Temko", First: "S", Middle: "L",
			PositionList: []string{"COVINGTON & BURLING"}, AliasList: []string{"TEMKO SL, COVINGTON AND BURLING"}}},
		{"Temko, Stanley L [Privlog:] TEMKO,SL", person.Fields{Last: "Temko", First: "Stanley", Middle: "L",
			AliasList: []string{"TEMKO, STANLEY L [PRIVLOG:] TEMKO,SL"}}},
		{"Temko-SL, Covington & Burling", person.Fields{Last: "Temko", First: "S", Middle: "L",
			PositionList: []string{"Covington & Burling"}, AliasList: []string{"TEMKO-SL, COVINGTON & BURLING"}}},
		{"HENSON, A. (CHADBOURNE, PARKE, WHITESIDE & WOLFF, AMERICAN OUTSIDE COUNSEL) (HANDWRITTEN NOTES)",
			person.Fields{Last: "Henson", First: "A",
				PositionList: []string{"CHADBOURNE, PARK, WHITESIDE & WOLFF"},
				AliasList:    []string{"HENSON, A. (CHADBOURNE, PARKE, WHITESIDE & WOLFF, AMERICAN OUTSIDE COUNSEL) (HANDWRITTEN NOTES)"}}},
		{"Holtz, Jacob, Jacob & Medinger", person.Fields{Last: "Holtz", First: "Jacob",
			PositionList: []string{"Jacob & Medinger"}, AliasList: []string{"HOLTZ, JACOB, JACOB & MEDINGER"}}},
		{"PROCTOR DF, JOHNS HOPKINS SCHOOL OF HYGIENE", person.Fields{Last: "Proctor", First: "D", Middle: "F",
			PositionList: []string{"Johns Hopkins University"}, AliasList: []string{"PROCTOR DF, JOHNS HOPKINS SCHOOL OF HYGIENE"}}},
		{"Smith, Andy B, J.R.", person.Fields{Last: "Smith", First: "Andy", Middle: "B",
			PositionList: []string{"JR"}, AliasList: []string{"SMITH, ANDY B, J.R."}}},
		{"D Cantrell, B&W", person.Fields{Last: "Cantrell", First: "D",
			PositionList: []string{"BROWN & WILLIAMSON"}, AliasList: []string{"D CANTRELL, B&W"}}},
		{"A B Cantrell, BW", person.Fields{Last: "Cantrell", First: "A", Middle: "B",
			PositionList: []string{"BROWN & WILLIAMSON"}, AliasList: []string{"A B CANTRELL, BW"}}},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got := fromRaw(t, tc.raw)
			want := mustNew(t, tc.want)
			assert.True(t, want.Equal(got), "want %s\n got %s", want, got)
			assert.Equal(t, want.Hash(), got.Hash())
			assert.Equal(t, 1, got.Count)
		})
	}
}

func TestFromRawWeightsByCount(t *testing.T) {
	p, err := person.FromRaw(names.NewParser(defaultTable(t)), "TEMKO SL, PM", person.Fields{
		Count:        4,
		PositionList: []string{"Philip Morris"},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, p.Count)
	assert.Equal(t, 4, p.Aliases.Get("TEMKO SL, PM"))
	assert.Equal(t, 8, p.Positions.Get("PHILIP MORRIS"))
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "W. L. Dunn", fromRaw(t, "DUNN,WL").FullName())
	assert.Equal(t, "William Lee Dunn", fromRaw(t, "Dunn, William Lee").FullName())
	assert.Equal(t, "Dunn", mustNew(t, person.Fields{Last: "DUNN"}).FullName())
	assert.Equal(t, "Stanley L. Temko", mustNew(t, person.Fields{Last: "temko", First: "stanley", Middle: "l"}).FullName())
}

func TestMostLikelyPosition(t *testing.T) {
	table := defaultTable(t)

	cases := []struct {
		name      string
		positions map[string]int
		want      string
	}{
		{"empty", nil, person.NoPosition},
		{"single mention is not enough", map[string]int{"PHILIP MORRIS": 1}, person.NoPosition},
		{"listed org wins", map[string]int{"PHILIP MORRIS": 3, "JR": 1}, "Philip Morris"},
		{"listed org behind unlisted", map[string]int{"JR": 5, "PM": 2}, "Philip Morris"},
		{"ties break by key", map[string]int{"PHILIP MORRIS": 2, "BROWN & WILLIAMSON": 2}, "Brown & Williamson"},
		{"weight one stops search", map[string]int{"JR": 4, "PHILIP MORRIS": 1}, person.NoPosition},
		{"unlisted fallback", map[string]int{"UNK": 3, "ACME WIDGETS": 2, "XY": 2}, "ACME WIDGETS"},
		{"fallback needs length", map[string]int{"XY": 2}, person.NoPosition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustNew(t, person.Fields{Last: "Dunn", First: "W", Positions: counter.FromMap(tc.positions)})
			assert.Equal(t, tc.want, p.MostLikelyPosition(table))
		})
	}
}

func TestMergeOnlyGrowsMultisets(t *testing.T) {
	target := fromRaw(t, "DUNN WL, PM")
	source := fromRaw(t, "Dunn, William Lee, Philip Morris")

	person.MergeInto(target, source)

	assert.Equal(t, "DUNN", target.Last)
	assert.Equal(t, "W", target.First)
	assert.Equal(t, "L", target.Middle)
	assert.Equal(t, 2, target.Count)
	assert.Equal(t, 2, target.Positions.Get("PHILIP MORRIS"))
	assert.Equal(t, 1, target.Aliases.Get("DUNN WL, PM"))
	assert.Equal(t, 1, target.Aliases.Get("DUNN, WILLIAM LEE, PHILIP MORRIS"))
	assert.Equal(t, 1, source.Count, "source must not change")
}

func TestEqualityIgnoresAccumulationOrder(t *testing.T) {
	a := fromRaw(t, "DUNN WL")
	a.Merge(fromRaw(t, "DUNN-WL, PM"))
	a.Merge(fromRaw(t, "DUNN WL, B&W"))

	b := fromRaw(t, "DUNN WL")
	b.Merge(fromRaw(t, "DUNN WL, B&W"))
	b.Merge(fromRaw(t, "DUNN-WL, PM"))

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	b.Count = 99
	assert.True(t, a.Equal(b), "count is not part of identity")
}

func TestNewRejectsContractViolations(t *testing.T) {
	cases := map[string]person.Fields{
		"negative count":     {Last: "Dunn", Count: -1},
		"positions twice":    {Last: "Dunn", Positions: counter.New("PM"), PositionList: []string{"PM"}},
		"aliases twice":      {Last: "Dunn", Aliases: counter.New("DUNN"), AliasList: []string{"DUNN"}},
		"negative weight":    {Last: "Dunn", Positions: counter.FromMap(map[string]int{"PM": -2})},
		"duplicate authored": {Last: "Dunn", DocsAuthored: []string{"abc", "abc"}},
		"empty received id":  {Last: "Dunn", DocsReceived: []string{" "}},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := person.New(f)
			require.Error(t, err)
			assert.True(t, errors.Is(err, person.ErrInvalidArgument))
		})
	}

	_, err := person.FromRaw(nil, "DUNN WL", person.Fields{})
	assert.True(t, errors.Is(err, person.ErrInvalidArgument))
}

func TestDocSets(t *testing.T) {
	p := mustNew(t, person.Fields{Last: "Dunn", DocsAuthored: []string{"b2", "a1"}})
	assert.Equal(t, []string{"a1", "b2"}, p.DocsAuthored.Sorted())
	assert.Empty(t, p.DocsReceived.Sorted())
	assert.True(t, p.DocsAuthored.Has("a1"))
}

func TestCopyIsDeep(t *testing.T) {
	orig := mustNew(t, person.Fields{Last: "Dunn", First: "W", PositionList: []string{"PM"}, DocsAuthored: []string{"a1"}})
	cp := orig.Copy()
	cp.Positions.Add("PM", 5)
	cp.Aliases.Add("DUNN", 1)
	cp.DocsAuthored.Add("z9")

	assert.Equal(t, 1, orig.Positions.Get("PM"))
	assert.Equal(t, 0, orig.Aliases.Len())
	assert.False(t, orig.DocsAuthored.Has("z9"))
	assert.True(t, orig.Equal(orig.Copy()))
}

func TestSortByStemmedKey(t *testing.T) {
	people := []*person.Person{
		mustNew(t, person.Fields{Last: "Temko", First: "S"}),
		mustNew(t, person.Fields{Last: "Dunn", First: "W", Middle: "L"}),
		mustNew(t, person.Fields{Last: "Dunn", First: "A"}),
	}
	person.Sort(people)

	assert.Equal(t, "DUNN A ", people[0].Stemmed())
	assert.Equal(t, "DUNN W L", people[1].Stemmed())
	assert.Equal(t, "TEMKO S ", people[2].Stemmed())
	assert.True(t, people[0].Less(people[1]))
}

func TestStringShowsAliasesMostCommonFirst(t *testing.T) {
	p := mustNew(t, person.Fields{Last: "Dunn", First: "W", Middle: "L",
		Aliases: counter.FromMap(map[string]int{"DUNN WL": 1, "DUNN, W. L.": 3}), Count: 4})

	assert.Equal(t,
		`W. L. Dunn   F:W M:L L:DUNN, Position: Counter({}), Aliases: [("DUNN, W. L.", 3), ("DUNN WL", 1)], count: 4`,
		p.String())
}
