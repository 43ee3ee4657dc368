package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNames(t *testing.T, store *MemoryStore, names ...string) map[string]string {
	t.Helper()
	ids := make(map[string]string, len(names))
	for _, n := range names {
		id, err := store.Insert(context.Background(), "members", Document{"Nombre": n})
		require.NoError(t, err)
		ids[n] = id
	}
	return ids
}

func namesOf(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d["Nombre"].(string))
	}
	return out
}

func TestMemoryStore_InsertGet_RoundTrip(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, "members", Document{"Nombre": "Ana", "id": "ignored"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NotEqual(t, "ignored", id)

	doc, err := store.Get(ctx, "members", id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID())
	assert.Equal(t, "Ana", doc["Nombre"])
}

func TestMemoryStore_Get_Missing_ReturnsErrNotFound(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "members", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Merge_OnlyWritesSuppliedFields(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()
	id, err := store.Insert(ctx, "members", Document{"Nombre": "Ana", "Apellido": "Lopez"})
	require.NoError(t, err)

	require.NoError(t, store.Merge(ctx, "members", id, Document{"Apellido": "Diaz"}))

	doc, err := store.Get(ctx, "members", id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", doc["Nombre"])
	assert.Equal(t, "Diaz", doc["Apellido"])
}

func TestMemoryStore_Merge_Missing_ReturnsErrNotFound(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()

	err := store.Merge(context.Background(), "members", "nope", Document{"Nombre": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len("members"))
}

func TestMemoryStore_Set_Overwrites(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "member_groups", "m1:g1", Document{"role": "Lider", "extra": true}))
	require.NoError(t, store.Set(ctx, "member_groups", "m1:g1", Document{"role": "Miembro"}))

	doc, err := store.Get(ctx, "member_groups", "m1:g1")
	require.NoError(t, err)
	assert.Equal(t, "Miembro", doc["role"])
	assert.NotContains(t, doc, "extra")
	assert.Equal(t, 1, store.Len("member_groups"))
}

func TestMemoryStore_Delete_IsIdempotent(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()
	ids := seedNames(t, store, "Ana")

	require.NoError(t, store.Delete(ctx, "members", ids["Ana"]))
	require.NoError(t, store.Delete(ctx, "members", ids["Ana"]))
	require.NoError(t, store.Delete(ctx, "never_created", "x"))
	assert.Equal(t, 0, store.Len("members"))
}

func TestMemoryStore_Find_OrdersByFieldAndExcludesMissing(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()
	seedNames(t, store, "Carlos", "Ana", "Beatriz")
	_, err := store.Insert(ctx, "members", Document{"Apellido": "SinNombre"})
	require.NoError(t, err)

	docs, err := store.Find(ctx, "members", Query{OrderBy: "Nombre"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Beatriz", "Carlos"}, namesOf(docs))
}

func TestMemoryStore_Find_CursorPagesAreDisjointAndComplete(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()
	seedNames(t, store, "Eva", "Ana", "Dario", "Ana", "Carlos")

	var all []string
	var cursor Document
	for i := 0; i < 10; i++ {
		docs, err := store.Find(ctx, "members", Query{OrderBy: "Nombre", StartAfter: cursor, Limit: 2})
		require.NoError(t, err)
		if len(docs) == 0 {
			break
		}
		all = append(all, namesOf(docs)...)
		cursor = docs[len(docs)-1]
	}

	assert.Equal(t, []string{"Ana", "Ana", "Carlos", "Dario", "Eva"}, all)
}

func TestMemoryStore_Find_PrefixRange(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()
	seedNames(t, store, "Jo", "Joke", "Jose", "Jack", "Juan", "Kim")

	q := Query{OrderBy: "Nombre"}.
		Where("Nombre", OpGte, "Jo").
		Where("Nombre", OpLt, "Jo\uffff")
	docs, err := store.Find(ctx, "members", q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jo", "Joke", "Jose"}, namesOf(docs))
}

func TestMemoryStore_Find_EqualityFilter(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "member_groups", "m1:g1", Document{"memberId": "m1", "groupId": "g1"}))
	require.NoError(t, store.Set(ctx, "member_groups", "m2:g1", Document{"memberId": "m2", "groupId": "g1"}))
	require.NoError(t, store.Set(ctx, "member_groups", "m1:g2", Document{"memberId": "m1", "groupId": "g2"}))

	docs, err := store.Find(ctx, "member_groups", Query{}.Where("groupId", OpEq, "g1"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "m1:g1", docs[0].ID())
	assert.Equal(t, "m2:g1", docs[1].ID())
}

func TestMemoryStore_Find_RejectsInvalidIdentifiers(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Find(ctx, "members; DROP", Query{})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = store.Find(ctx, "members", Query{OrderBy: "Nombre DESC"})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = store.Find(ctx, "members", Query{}.Where("a.b", OpEq, 1))
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = store.Find(ctx, "members", Query{}.Where("Nombre", "LIKE", "x"))
	assert.ErrorIs(t, err, ErrQuery)
}

func TestMemoryStore_Commit_AppliesDeletesTogether(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()
	ids := seedNames(t, store, "Ana", "Beto")
	require.NoError(t, store.Set(ctx, "member_groups", ids["Ana"]+":g1", Document{"memberId": ids["Ana"]}))
	require.NoError(t, store.Set(ctx, "member_groups", ids["Ana"]+":g2", Document{"memberId": ids["Ana"]}))
	require.NoError(t, store.Set(ctx, "member_groups", ids["Beto"]+":g1", Document{"memberId": ids["Beto"]}))

	batch := NewBatch().
		Delete("members", ids["Ana"]).
		DeleteWhere("member_groups", "memberId", ids["Ana"])
	require.NoError(t, store.Commit(ctx, batch))

	assert.Equal(t, 1, store.Len("members"))
	assert.Equal(t, 1, store.Len("member_groups"))
}

func TestMemoryStore_Commit_InvalidBatch_AppliesNothing(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()
	ids := seedNames(t, store, "Ana")

	batch := NewBatch().
		Delete("members", ids["Ana"]).
		DeleteWhere("member_groups", "bad field", "x")
	err := store.Commit(ctx, batch)

	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Equal(t, 1, store.Len("members"))
}

func TestCompareValues_MixedNumericKinds(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, compareValues(int64(3), float64(3)))
	assert.Equal(t, -1, compareValues(uint64(2), 3))
	assert.Equal(t, 1, compareValues("b", "a"))
	assert.Equal(t, -1, compareValues(false, true))
}
