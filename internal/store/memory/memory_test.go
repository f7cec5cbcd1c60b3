package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namedisambig/internal/person"
	"namedisambig/internal/store"
	"namedisambig/internal/store/memory"
	"namedisambig/internal/testsupport"
)

func insert(t *testing.T, st *memory.Store, raw string) *person.Person {
	t.Helper()
	p, err := person.FromRaw(testsupport.DefaultParser(t), raw, person.Fields{})
	require.NoError(t, err)
	stored, err := st.Insert(context.Background(), p)
	require.NoError(t, err)
	return stored
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	st := memory.New()
	a := insert(t, st, "DUNN WL")
	b := insert(t, st, "TEAGUE CE JR")

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFindByAliasPrefixAnchorsOnAliasStart(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	insert(t, st, "DUNN WL")
	insert(t, st, "MACDUNN WL")

	found, err := st.FindByAliasPrefix(ctx, `"DUNN WL`)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].ID)

	found[0].Aliases.Add("MUTATED", 1)
	again, err := st.FindByAliasPrefix(ctx, `"DUNN WL`)
	require.NoError(t, err)
	assert.False(t, again[0].Aliases.Has("MUTATED"))
}

func TestListPaging(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	for _, raw := range []string{"DUNN WL", "TEAGUE CE JR", "HOLTZMAN A"} {
		insert(t, st, raw)
	}

	page, err := st.List(ctx, store.ListOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].ID)
	assert.Equal(t, int64(3), page[1].ID)

	all, err := st.List(ctx, store.ListOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLinksAndDocuments(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	p := insert(t, st, "DUNN WL")

	require.NoError(t, st.SaveDocument(ctx, store.Document{TID: "b2", Title: "Reply"}))
	require.NoError(t, st.SaveDocument(ctx, store.Document{TID: "a1", Title: "Memo"}))
	require.NoError(t, st.LinkAuthor(ctx, p.ID, "b2"))
	require.NoError(t, st.LinkAuthor(ctx, p.ID, "a1"))
	require.NoError(t, st.LinkRecipient(ctx, p.ID, "a1"))

	got, err := st.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2"}, got.DocsAuthored.Sorted())
	assert.Equal(t, []string{"a1"}, got.DocsReceived.Sorted())

	docs, err := st.DocumentsFor(ctx, p.ID, store.RoleAuthor)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a1", docs[0].TID)
	assert.Equal(t, "Memo", docs[0].Title)

	assert.ErrorIs(t, st.LinkAuthor(ctx, 99, "a1"), store.ErrNotFound)
	assert.ErrorIs(t, st.LinkRecipient(ctx, p.ID, "zz"), store.ErrNotFound)
	assert.ErrorIs(t, st.SaveDocument(ctx, store.Document{TID: " "}), person.ErrInvalidArgument)

	_, err = st.Get(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
