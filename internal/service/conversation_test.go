package service_test

import (
	"context"
	"testing"

	"converso-api/internal/apperr"
	"converso-api/internal/domain"
	"converso-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conversationFixture(t *testing.T) (*service.ConversationService, *fakeUserStore, *fakeConversationStore, int64, int64) {
	t.Helper()

	users := newFakeUserStore()
	conversations := newFakeConversationStore(users)
	svc := service.NewConversationService(conversations, users, nopLogger())

	creator, err := users.Create(context.Background(), "Criadora", "criadora@example.com", "x")
	require.NoError(t, err)
	other, err := users.Create(context.Background(), "Outro", "outro@example.com", "x")
	require.NoError(t, err)
	return svc, users, conversations, creator.ID, other.ID
}

func TestConversationService_ShowIsCreatorOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _, creatorID, otherID := conversationFixture(t)

	conv, err := svc.Create(ctx, creatorID, &domain.CreateConversationRequest{Title: "Conversa de teste"})
	require.NoError(t, err)
	assert.Equal(t, "Conversa de teste", conv.Title)
	assert.Equal(t, creatorID, conv.CreatedBy.ID)

	got, err := svc.Show(ctx, creatorID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)

	// A non-creator gets 404, indistinguishable from a missing conversation
	_, err = svc.Show(ctx, otherID, conv.ID)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	assert.Equal(t, "Conversa não encontrada", appErr.Message)
}

func TestConversationService_UpdateDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _, _, creatorID, otherID := conversationFixture(t)

	conv, err := svc.Create(ctx, creatorID, &domain.CreateConversationRequest{Title: "Original"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, otherID, conv.ID, &domain.UpdateConversationRequest{Title: "Invadida"})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	updated, err := svc.Update(ctx, creatorID, conv.ID, &domain.UpdateConversationRequest{Title: "Renomeada"})
	require.NoError(t, err)
	assert.Equal(t, "Renomeada", updated.Title)

	assert.True(t, apperr.IsKind(svc.Delete(ctx, otherID, conv.ID), apperr.KindNotFound))
	require.NoError(t, svc.Delete(ctx, creatorID, conv.ID))
	assert.True(t, apperr.IsKind(svc.Delete(ctx, creatorID, conv.ID), apperr.KindNotFound))
}

func TestConversationService_AddParticipantsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc, users, conversations, creatorID, otherID := conversationFixture(t)

	conv, err := svc.Create(ctx, creatorID, &domain.CreateConversationRequest{Title: "Grupo"})
	require.NoError(t, err)

	third, err := users.Create(ctx, "Terceira", "terceira@example.com", "x")
	require.NoError(t, err)

	// Unknown user id rejects the whole batch
	_, err = svc.AddParticipants(ctx, creatorID, conv.ID, &domain.AddParticipantsRequest{UserIDs: []int64{otherID, 999}})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindBadRequest, appErr.Kind)
	assert.Contains(t, appErr.Message, "999")

	added, err := svc.AddParticipants(ctx, creatorID, conv.ID, &domain.AddParticipantsRequest{UserIDs: []int64{otherID}})
	require.NoError(t, err)
	require.Len(t, added, 1)

	// Any overlap rejects the whole batch, the new id included
	_, err = svc.AddParticipants(ctx, creatorID, conv.ID, &domain.AddParticipantsRequest{UserIDs: []int64{otherID, third.ID}})
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindBadRequest, appErr.Kind)
	assert.Contains(t, appErr.Message, "já são participantes")

	isPart, err := conversations.IsParticipant(ctx, conv.ID, third.ID)
	require.NoError(t, err)
	assert.False(t, isPart, "rejected batch must not be partially applied")

	// Participant management stays creator-only
	_, err = svc.AddParticipants(ctx, otherID, conv.ID, &domain.AddParticipantsRequest{UserIDs: []int64{third.ID}})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestConversationService_RemoveAndListParticipants(t *testing.T) {
	ctx := context.Background()
	svc, _, _, creatorID, otherID := conversationFixture(t)

	conv, err := svc.Create(ctx, creatorID, &domain.CreateConversationRequest{Title: "Grupo"})
	require.NoError(t, err)

	_, err = svc.AddParticipants(ctx, creatorID, conv.ID, &domain.AddParticipantsRequest{UserIDs: []int64{otherID}})
	require.NoError(t, err)

	participants, err := svc.GetParticipants(ctx, creatorID, conv.ID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, otherID, participants[0].UserID)

	_, err = svc.GetParticipants(ctx, otherID, conv.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	require.NoError(t, svc.RemoveParticipant(ctx, creatorID, conv.ID, otherID))
	assert.True(t, apperr.IsKind(svc.RemoveParticipant(ctx, creatorID, conv.ID, otherID), apperr.KindNotFound))
}

func TestConversationService_IndexListsOnlyCreated(t *testing.T) {
	ctx := context.Background()
	svc, _, _, creatorID, otherID := conversationFixture(t)

	for _, title := range []string{"Um", "Dois", "Três"} {
		_, err := svc.Create(ctx, creatorID, &domain.CreateConversationRequest{Title: title})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, otherID, &domain.CreateConversationRequest{Title: "Do outro"})
	require.NoError(t, err)

	list, pagination, err := svc.Index(ctx, creatorID, &domain.PaginationParams{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int64(3), pagination.Total)
	assert.Equal(t, 2, pagination.TotalPages)
	assert.True(t, pagination.HasNextPage)
	assert.False(t, pagination.HasPreviousPage)

	// Last page carries the remainder and no next page
	list, pagination, err = svc.Index(ctx, creatorID, &domain.PaginationParams{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.False(t, pagination.HasNextPage)
	assert.True(t, pagination.HasPreviousPage)
}
