package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns families", func(t *testing.T) {
		mockSearch := &mockSearchService{results: []domain.FamilyMetadata{sampleFamily()}}

		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "door", Limit: 5})

		require.NoError(t, err)
		assert.Equal(t, "door", mockSearch.lastQuery)
		assert.Equal(t, 5, mockSearch.lastLimit)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Families, 1)

		f := output.Families[0]
		assert.Equal(t, "door-1", f.ID)
		assert.Equal(t, []string{"interior", "wood"}, f.Tags)
		require.Len(t, f.Parameters, 2)
		assert.Equal(t, "Finish", f.Parameters[0].Name)
		assert.Equal(t, "Oak", f.Parameters[0].Default)
		assert.Equal(t, "900", f.Parameters[1].Default)
		assert.True(t, f.Parameters[1].Required)
		assert.Empty(t, f.LastModified)
	})

	t.Run("zero limit is passed through", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "x"})

		require.NoError(t, err)
		assert.Zero(t, mockSearch.lastLimit)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Families)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleSearchByTags(t *testing.T) {
	mockSearch := &mockSearchService{results: []domain.FamilyMetadata{sampleFamily()}}
	server, err := NewServer(&Ports{Search: mockSearch})
	require.NoError(t, err)

	_, output, err := server.handleSearchByTags(context.Background(), nil, TagSearchInput{Tags: []string{"wood"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"wood"}, mockSearch.lastTags)
	assert.Equal(t, 1, output.Count)
}

func TestServer_handleSearchByCriteria(t *testing.T) {
	mockSearch := &mockSearchService{}
	server, err := NewServer(&Ports{Search: mockSearch})
	require.NoError(t, err)

	input := CriteriaSearchInput{
		Name:           "door",
		Category:       "Doors",
		Tags:           []string{"wood"},
		ParameterName:  "Width",
		ParameterValue: "900",
		Limit:          3,
	}
	_, _, err = server.handleSearchByCriteria(context.Background(), nil, input)

	require.NoError(t, err)
	assert.Equal(t, domain.SearchCriteria{
		NameKeyword:    "door",
		Category:       "Doors",
		Tags:           []string{"wood"},
		ParameterName:  "Width",
		ParameterValue: "900",
	}, mockSearch.lastCriteria)
	assert.Equal(t, 3, mockSearch.lastLimit)
}

func TestServer_handleGetFamily(t *testing.T) {
	ctx := context.Background()

	t.Run("returns family", func(t *testing.T) {
		family := sampleFamily()
		family.LastModified = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		server, err := NewServer(&Ports{
			Search:  &mockSearchService{},
			Library: &mockFamilyReader{family: &family},
		})
		require.NoError(t, err)

		_, output, err := server.handleGetFamily(ctx, nil, GetFamilyInput{ID: "door-1"})

		require.NoError(t, err)
		assert.Equal(t, "Single Flush Door", output.Name)
		assert.Equal(t, "alice", output.CreatedBy)
		assert.Equal(t, "2026-01-02T03:04:05Z", output.LastModified)
	})

	t.Run("empty id is invalid", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Library: &mockFamilyReader{}})
		require.NoError(t, err)

		_, _, err = server.handleGetFamily(ctx, nil, GetFamilyInput{ID: " "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("nil library reports not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleGetFamily(ctx, nil, GetFamilyInput{ID: "door-1"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("propagates lookup error", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Search:  &mockSearchService{},
			Library: &mockFamilyReader{err: domain.ErrNotFound},
		})
		require.NoError(t, err)

		_, _, err = server.handleGetFamily(ctx, nil, GetFamilyInput{ID: "nope"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
