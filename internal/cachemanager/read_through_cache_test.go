package cachemanager

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glance/internal/mocks"
)

type buildInput struct {
	Style string
	Width int
}

func inputKey(in buildInput) string {
	return fmt.Sprintf("%s:%d", in.Style, in.Width)
}

func buildRenderer(calls *int) func(ctx context.Context, in buildInput) (*cachedRenderer, error) {
	return func(ctx context.Context, in buildInput) (*cachedRenderer, error) {
		*calls++
		return &cachedRenderer{Style: in.Style, Width: in.Width}, nil
	}
}

func TestReadThroughCache_Get_WithValueInCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, *cachedRenderer](t)
	cached := &cachedRenderer{Style: "light", Width: 80}
	managerMock.EXPECT().GetWithRefresh(mock.Anything, "light:80", time.Minute).Return(cached, true)
	calls := 0

	cache := NewReadThroughCache[string, *cachedRenderer, buildInput](managerMock, inputKey, buildRenderer(&calls), time.Minute)

	got, err := cache.Get(context.Background(), buildInput{Style: "light", Width: 80})
	require.NoError(t, err)
	require.Same(t, cached, got)
	require.Zero(t, calls)
}

func TestReadThroughCache_Get_EmptyCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, *cachedRenderer](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, "dark:40", time.Minute).Return(nil, false)
	managerMock.EXPECT().Set(mock.Anything, "dark:40", &cachedRenderer{Style: "dark", Width: 40}, time.Minute).Return()
	calls := 0

	cache := NewReadThroughCache[string, *cachedRenderer, buildInput](managerMock, inputKey, buildRenderer(&calls), time.Minute)

	got, err := cache.Get(context.Background(), buildInput{Style: "dark", Width: 40})
	require.NoError(t, err)
	require.Equal(t, 40, got.Width)
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_Get_BuildErrorIsNotStored(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, *cachedRenderer](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, "bad:1", time.Minute).Return(nil, false)
	boom := errors.New("unknown style")

	cache := NewReadThroughCache[string, *cachedRenderer, buildInput](
		managerMock,
		inputKey,
		func(ctx context.Context, in buildInput) (*cachedRenderer, error) {
			return &cachedRenderer{}, boom
		},
		time.Minute,
	)

	got, err := cache.Get(context.Background(), buildInput{Style: "bad", Width: 1})
	require.ErrorIs(t, err, boom)
	require.Nil(t, got)
	managerMock.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_WithInMemoryCache(t *testing.T) {
	calls := 0
	cache := NewReadThroughCache[string, *cachedRenderer, buildInput](
		NewInMemoryCacheManager[string, *cachedRenderer]("renderers", DefaultExpiration, DefaultCleanupInterval),
		inputKey,
		buildRenderer(&calls),
		time.Minute,
	)

	first, err := cache.Get(context.Background(), buildInput{Style: "dark", Width: 40})
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), buildInput{Style: "dark", Width: 40})
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, calls)

	third, err := cache.Get(context.Background(), buildInput{Style: "dark", Width: 39})
	require.NoError(t, err)
	require.NotSame(t, first, third)
	require.Equal(t, 2, calls)
}
