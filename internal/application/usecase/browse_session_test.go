package usecase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/cardex/internal/application/usecase"
	"github.com/bnema/cardex/internal/domain/entity"
)

func newTestSession(totals map[string]int) (*usecase.BrowseSession, *fakeSource, *usecase.PageCache) {
	source := newFakeSource(totals)
	pc := usecase.NewPageCache(source, newStore())
	return usecase.NewBrowseSession(pc), source, pc
}

func TestBrowseSession_StartsIdle(t *testing.T) {
	session, _, _ := newTestSession(nil)

	view := session.Snapshot()
	assert.Equal(t, usecase.SessionIdle, view.State)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 1, view.TotalPages)
	assert.NotNil(t, view.Results)
	assert.False(t, view.CanPrev())
	assert.False(t, view.CanNext())
}

func TestBrowseSession_MountLoadsFirstUnfilteredPage(t *testing.T) {
	ctx := testContext()
	session, _, pc := newTestSession(map[string]int{"": 42})

	req := session.Mount()
	assert.Equal(t, usecase.SessionLoading, session.Snapshot().State)

	applied, err := session.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, applied)
	pc.Wait()

	view := session.Snapshot()
	assert.Equal(t, usecase.SessionLoaded, view.State)
	assert.Equal(t, "", view.Term)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 42, view.TotalPages)
	assert.Len(t, view.Results, 20)
	assert.False(t, view.NotFound)
	assert.True(t, view.CanNext())
	assert.False(t, view.CanPrev())
}

func TestBrowseSession_FailureSetsStickyNotFound(t *testing.T) {
	ctx := testContext()
	session, _, pc := newTestSession(map[string]int{"": 3})

	view, err := session.Load(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, view.Results, 20)
	pc.Wait()

	view, err = session.Load(ctx, "nobody", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	assert.Equal(t, usecase.SessionNotFound, view.State)
	assert.True(t, view.NotFound)
	assert.NotNil(t, view.Results)
	assert.Empty(t, view.Results)
	assert.False(t, view.CanNext())
	assert.False(t, view.CanPrev())

	_, ok := session.NextPage()
	assert.False(t, ok, "next is disabled while not found")

	// Any successful load clears the flag.
	view, err = session.Load(ctx, "", 2)
	require.NoError(t, err)
	assert.False(t, view.NotFound)
	assert.Equal(t, usecase.SessionLoaded, view.State)
}

func TestBrowseSession_EmptyPageIsNotNotFound(t *testing.T) {
	session := usecase.NewBrowseSession(stubRequester{page: &entity.Page{TotalPages: 1}})

	view, err := session.Load(testContext(), "zzz", 1)
	require.NoError(t, err)
	assert.Equal(t, usecase.SessionLoaded, view.State)
	assert.False(t, view.NotFound)
	assert.NotNil(t, view.Results)
	assert.Empty(t, view.Results)
}

func TestBrowseSession_Navigation(t *testing.T) {
	ctx := testContext()
	session, _, pc := newTestSession(map[string]int{"rick": 3})

	_, err := session.Execute(ctx, session.Search("  rick  "))
	require.NoError(t, err)
	pc.Wait()
	assert.Equal(t, "rick", session.Snapshot().Term)

	_, ok := session.PrevPage()
	assert.False(t, ok, "prev is disabled on page 1")

	req, ok := session.NextPage()
	require.True(t, ok)
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, "rick", req.Term)
	_, err = session.Execute(ctx, req)
	require.NoError(t, err)
	pc.Wait()

	req, ok = session.NextPage()
	require.True(t, ok)
	_, err = session.Execute(ctx, req)
	require.NoError(t, err)

	view := session.Snapshot()
	assert.Equal(t, 3, view.Page)
	assert.False(t, view.CanNext(), "next is disabled on the last page")
	_, ok = session.NextPage()
	assert.False(t, ok)

	req, ok = session.PrevPage()
	require.True(t, ok)
	assert.Equal(t, 2, req.Page)
}

func TestBrowseSession_GoToPageClamps(t *testing.T) {
	ctx := testContext()
	session, _, pc := newTestSession(map[string]int{"": 5})

	_, err := session.Execute(ctx, session.Mount())
	require.NoError(t, err)
	pc.Wait()

	req, ok := session.GoToPage(99)
	require.True(t, ok)
	assert.Equal(t, 5, req.Page)

	_, ok = session.GoToPage(0)
	assert.False(t, ok)
}

func TestBrowseSession_SetTermKeepsCurrentPage(t *testing.T) {
	ctx := testContext()
	session, _, pc := newTestSession(map[string]int{"": 5, "rick": 1})

	_, err := session.Load(ctx, "", 3)
	require.NoError(t, err)
	pc.Wait()

	req := session.SetTerm("rick ")
	assert.Equal(t, "rick", req.Term)
	assert.Equal(t, 3, req.Page)

	_, err = session.Execute(ctx, req)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	assert.True(t, session.Snapshot().NotFound)
}

func TestBrowseSession_ResetReusesCache(t *testing.T) {
	ctx := testContext()
	session, source, pc := newTestSession(map[string]int{"": 5, "rick": 2})

	_, err := session.Execute(ctx, session.Mount())
	require.NoError(t, err)
	pc.Wait()
	_, err = session.Execute(ctx, session.Search("rick"))
	require.NoError(t, err)
	pc.Wait()

	_, err = session.Execute(ctx, session.Reset())
	require.NoError(t, err)
	pc.Wait()

	view := session.Snapshot()
	assert.Equal(t, "", view.Term)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 1, source.callsFor("", 1), "reset must be served from the cache")
	assert.True(t, pc.Contains("rick", 1), "reset must not purge the cache")
}

func TestBrowseSession_DiscardsStaleResponses(t *testing.T) {
	session := usecase.NewBrowseSession(stubRequester{})

	stale := session.Search("rick")
	current := session.Search("morty")

	applied := session.Resolve(current, &entity.Page{
		Results:    []entity.Character{{ID: 2, Name: "Morty Smith"}},
		TotalPages: 2,
	}, nil)
	require.True(t, applied)

	applied = session.Resolve(stale, nil, errors.New("late failure"))
	assert.False(t, applied)

	view := session.Snapshot()
	assert.Equal(t, "morty", view.Term)
	assert.False(t, view.NotFound)
	require.Len(t, view.Results, 1)
	assert.Equal(t, "Morty Smith", view.Results[0].Name)
	assert.Greater(t, current.Generation, stale.Generation)
}

func TestSessionState_String(t *testing.T) {
	assert.Equal(t, "idle", usecase.SessionIdle.String())
	assert.Equal(t, "loading", usecase.SessionLoading.String())
	assert.Equal(t, "loaded", usecase.SessionLoaded.String())
	assert.Equal(t, "not_found", usecase.SessionNotFound.String())
	assert.Equal(t, "unknown", usecase.SessionState(42).String())
}
