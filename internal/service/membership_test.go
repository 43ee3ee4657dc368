package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/iglesia/api/internal/database"
	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/internal/repository"
)

type membershipFixture struct {
	store       *database.MemoryStore
	members     *CollectionService[*model.Member]
	groups      *CollectionService[*model.Group]
	memberships *MembershipService
}

func newMembershipFixture(t *testing.T) *membershipFixture {
	t.Helper()
	store := database.NewMemoryStore()
	members := newMemberService(t, store)

	groupRepo, err := repository.NewCollection(store, "groups", func() *model.Group { return &model.Group{} })
	require.NoError(t, err)
	groups, err := NewCollectionService(groupRepo, CollectionConfig{EntityName: "Group"})
	require.NoError(t, err)

	kind := model.MemberGroups
	relRepo, err := repository.NewRelationRepository(store, kind.Collection, kind.FromField, kind.ToField)
	require.NoError(t, err)
	relations, err := NewRelationService(relRepo)
	require.NoError(t, err)

	memberships, err := NewMembershipService(MembershipServiceConfig{
		Kind:      kind,
		Relations: relations,
		Members:   members,
		Entities:  groups,
		Now:       func() time.Time { return testNow },
	})
	require.NoError(t, err)

	return &membershipFixture{store: store, members: members, groups: groups, memberships: memberships}
}

func (f *membershipFixture) seed(t *testing.T) (*model.Member, *model.Group) {
	t.Helper()
	ctx := context.Background()
	member, err := f.members.Create(ctx, &model.Member{Nombre: "Ana", Apellido: "Ruiz", TipoMiembro: model.TipoServidor})
	require.NoError(t, err)
	group, err := f.groups.Create(ctx, &model.Group{Nombre: "Jovenes", Descripcion: "Grupo de jovenes"})
	require.NoError(t, err)
	return member, group
}

func TestNewMembershipService_RequiresDependencies(t *testing.T) {
	t.Parallel()
	_, err := NewMembershipService(MembershipServiceConfig{Kind: model.MemberGroups})
	assert.Error(t, err)
}

func TestMembershipService_AddMember_DefaultRoleAndSnapshot(t *testing.T) {
	t.Parallel()
	f := newMembershipFixture(t)
	member, group := f.seed(t)

	result, err := f.memberships.AddMember(context.Background(), group.ID, member.ID, "")
	require.NoError(t, err)

	rel, ok := result.(*model.MemberGroup)
	require.True(t, ok)
	assert.Equal(t, member.ID+":"+group.ID, rel.ID)
	assert.Equal(t, "Miembro", rel.Role)
	assert.Equal(t, "Ana Ruiz", rel.MemberName)
	assert.True(t, testNow.Equal(rel.CreatedAt))
}

func TestMembershipService_AddMember_MissingSides_Return404(t *testing.T) {
	t.Parallel()
	f := newMembershipFixture(t)
	member, group := f.seed(t)
	ctx := context.Background()

	_, err := f.memberships.AddMember(ctx, "nope", member.ID, "")
	requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Group not found", err.Error())

	_, err = f.memberships.AddMember(ctx, group.ID, "nope", "")
	requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Member not found", err.Error())
}

func TestMembershipService_EntityMembers_EnrichesAndRemoves(t *testing.T) {
	t.Parallel()
	f := newMembershipFixture(t)
	member, group := f.seed(t)
	ctx := context.Background()

	_, err := f.memberships.AddMember(ctx, group.ID, member.ID, "Lider")
	require.NoError(t, err)

	list, err := f.memberships.EntityMembers(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, member.ID, list[0].MemberID)
	assert.Equal(t, "Ana", list[0].Nombre)
	assert.Equal(t, "Ruiz", list[0].Apellido)
	assert.Equal(t, model.TipoServidor, list[0].TipoMiembro)
	assert.Equal(t, "Lider", list[0].Role)

	require.NoError(t, f.memberships.RemoveMember(ctx, group.ID, member.ID))

	list, err = f.memberships.EntityMembers(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = f.memberships.RemoveMember(ctx, group.ID, member.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestMembershipService_EntityMembers_UnknownEntity_Returns404(t *testing.T) {
	t.Parallel()
	f := newMembershipFixture(t)

	_, err := f.memberships.EntityMembers(context.Background(), "nope")

	requireStatus(t, err, http.StatusNotFound)
}

func TestMembershipService_EntityMembers_SkipsMissingMembers(t *testing.T) {
	t.Parallel()
	f := newMembershipFixture(t)
	_, group := f.seed(t)
	ctx := context.Background()

	// A relation written without going through AddMember, pointing nowhere
	_, err := f.memberships.relations.AddRelation(ctx, "ghost", group.ID, database.Document{"role": "Miembro"})
	require.NoError(t, err)

	list, err := f.memberships.EntityMembers(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMembershipService_MemberEntities(t *testing.T) {
	t.Parallel()
	f := newMembershipFixture(t)
	member, group := f.seed(t)
	ctx := context.Background()
	_, err := f.memberships.AddMember(ctx, group.ID, member.ID, "")
	require.NoError(t, err)

	list, err := f.memberships.MemberEntities(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, group.ID, list[0].EntityID)
	assert.Equal(t, "Jovenes", list[0].Nombre)
	assert.Equal(t, "Miembro", list[0].Role)
	assert.True(t, testNow.Equal(list[0].JoinedAt))

	_, err = f.memberships.MemberEntities(ctx, "nope")
	requireStatus(t, err, http.StatusNotFound)
}

func TestMembershipService_DeleteCascades(t *testing.T) {
	t.Parallel()
	f := newMembershipFixture(t)
	ctx := context.Background()
	member, group := f.seed(t)
	other, err := f.groups.Create(ctx, &model.Group{Nombre: "Alabanza"})
	require.NoError(t, err)
	_, err = f.memberships.AddMember(ctx, group.ID, member.ID, "")
	require.NoError(t, err)
	_, err = f.memberships.AddMember(ctx, other.ID, member.ID, "")
	require.NoError(t, err)
	require.Equal(t, 2, f.store.Len(model.MemberGroups.Collection))

	require.NoError(t, f.groups.Delete(ctx, group.ID))
	assert.Equal(t, 1, f.store.Len(model.MemberGroups.Collection))

	require.NoError(t, f.members.Delete(ctx, member.ID))
	assert.Equal(t, 0, f.store.Len(model.MemberGroups.Collection))
}
