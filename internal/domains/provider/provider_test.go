package provider_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
	"tripbook/config"
	"tripbook/internal/domains/booking/model"
	"tripbook/internal/domains/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "retryable", err: provider.Retryable(provider.CodeUnavailable, "503"), want: true},
		{name: "wrapped retryable", err: fmt.Errorf("call: %w", provider.Retryable(provider.CodeRateLimited, "slow down")), want: true},
		{name: "terminal", err: provider.Terminal(provider.CodeSoldOut, "no rooms"), want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "caller cancelled", err: context.Canceled, want: false},
		{name: "unclassified transport error", err: errors.New("connection reset"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, provider.IsRetryable(tt.err))
		})
	}
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "sold_out: no rooms", provider.Terminal(provider.CodeSoldOut, "no rooms").Error())
	assert.Equal(t, "boom", (&provider.Error{Kind: provider.KindTerminal, Message: "boom"}).Error())
}

func TestParseCatalog(t *testing.T) {
	entries, err := provider.ParseCatalog([]string{"skyjet:flight", " globetix:ticket|hotel ", ""})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "globetix", entries[1].ID)
	assert.Equal(t, []model.ComponentType{model.ComponentTicket, model.ComponentHotel}, entries[1].Types)

	_, err = provider.ParseCatalog([]string{"skyjet"})
	assert.Error(t, err)

	_, err = provider.ParseCatalog([]string{"skyjet:boat"})
	assert.Error(t, err)
}

func TestNewStubRegistry(t *testing.T) {
	cfg := &config.Config{}
	cfg.Providers.Catalog = []string{"skyjet:flight", "staywell:hotel"}

	registry, err := provider.NewStubRegistry(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"skyjet", "staywell"}, registry.IDs())
	assert.True(t, registry.Supports("skyjet", model.ComponentFlight))
	assert.False(t, registry.Supports("skyjet", model.ComponentHotel))
	assert.False(t, registry.Supports("unknown", model.ComponentFlight))

	gw, ok := registry.Get("staywell")
	require.True(t, ok)
	assert.Equal(t, "staywell", gw.ID())
}

func TestStub_Book(t *testing.T) {
	ctx := context.Background()
	declined := provider.Terminal(provider.CodeDeclined, "card declined")

	stub := provider.NewStub("skyjet", 0, model.ComponentFlight).
		Script(provider.Outcome{Err: declined}, provider.Outcome{PriceDelta: 150})

	_, err := stub.Book(ctx, provider.BookRequest{AttemptKey: "c-1", Price: 1000})
	assert.ErrorIs(t, err, declined)

	first, err := stub.Book(ctx, provider.BookRequest{AttemptKey: "c-1", Price: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(1150), first.PriceConfirmed)
	assert.NotEmpty(t, first.Reference)

	replay, err := stub.Book(ctx, provider.BookRequest{AttemptKey: "c-1", Price: 1000})
	require.NoError(t, err)
	assert.Equal(t, first, replay)
	assert.Equal(t, 3, stub.BookCalls())

	require.NoError(t, stub.Cancel(ctx, first.Reference))
	assert.Equal(t, []string{first.Reference}, stub.CancelledReferences())
}

func TestStub_BookHonoursDeadline(t *testing.T) {
	stub := provider.NewStub("roadrun", time.Second, model.ComponentCar)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := stub.Book(ctx, provider.BookRequest{AttemptKey: "c-2", Price: 8000})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, provider.IsRetryable(err))
}
