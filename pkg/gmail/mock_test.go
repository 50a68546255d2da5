package gmail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	emaildomain "triage-backend/internal/email/domain"
)

func TestMockProviderFetchMessages(t *testing.T) {
	provider := NewMockProvider()
	ctx := context.Background()

	t.Run("fetches the requested count with fresh ids", func(t *testing.T) {
		messages, err := provider.FetchMessages(ctx, 3)
		require.NoError(t, err)
		require.Len(t, messages, 3)
		assert.Equal(t, "mock-msg-0001", messages[0].ProviderID)
		assert.Equal(t, "mock-msg-0003", messages[2].ProviderID)
		for _, msg := range messages {
			assert.NotEmpty(t, msg.Sender)
			assert.NotEmpty(t, msg.Subject)
			assert.NotEmpty(t, msg.Body)
		}
	})

	t.Run("subsequent fetches continue the sequence", func(t *testing.T) {
		messages, err := provider.FetchMessages(ctx, 2)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "mock-msg-0004", messages[0].ProviderID)
		assert.Equal(t, "mock-msg-0005", messages[1].ProviderID)
	})

	t.Run("reset restarts the sequence", func(t *testing.T) {
		provider.ResetCounter()
		messages, err := provider.FetchMessages(ctx, 1)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "mock-msg-0001", messages[0].ProviderID)
	})
}

func TestMockProviderTemplateRotation(t *testing.T) {
	provider := NewMockProvider()

	// Fetching more than the template count cycles through all of them.
	messages, err := provider.FetchMessages(context.Background(), len(mockTemplates)+2)
	require.NoError(t, err)
	require.Len(t, messages, len(mockTemplates)+2)
	assert.Equal(t, messages[0].Sender, messages[len(mockTemplates)].Sender)
	assert.NotEqual(t, messages[0].ProviderID, messages[len(mockTemplates)].ProviderID)
}

func TestMockProviderSimulateError(t *testing.T) {
	provider := NewMockProvider()
	provider.SetSimulateError(true)

	_, err := provider.FetchMessages(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, emaildomain.ErrSimulatedFailure)

	var providerErr *emaildomain.ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, "gmail-mock", providerErr.Provider)

	provider.SetSimulateError(false)
	messages, err := provider.FetchMessages(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestMockProviderSendReply(t *testing.T) {
	provider := NewMockProvider()
	reply := &emaildomain.OutgoingReply{
		To:      "prospect@example.com",
		Subject: "Re: Demo inquiry",
		Body:    "Happy to set up a demo.",
	}
	require.NoError(t, provider.SendReply(context.Background(), reply))

	provider.SetSimulateError(true)
	err := provider.SendReply(context.Background(), reply)
	assert.ErrorIs(t, err, emaildomain.ErrSimulatedFailure)
}
