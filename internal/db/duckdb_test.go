package db

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := New(filepath.Join(t.TempDir(), "nested", "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestBuilds(t *testing.T) {
	d := openTestDB(t)

	latest, err := d.GetLatestBuild()
	require.NoError(t, err)
	assert.Nil(t, latest)

	first, second, pending := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, d.InsertBuild(first, "acme.yaml"))
	require.NoError(t, d.FinishBuild(first, 3))
	require.NoError(t, d.InsertBuild(second, "acme.json"))
	require.NoError(t, d.FinishBuild(second, 5))
	require.NoError(t, d.InsertBuild(pending, "acme.json.zst"))

	latest, err = d.GetLatestBuild()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second, latest.ID)
	assert.Equal(t, "acme.json", latest.Universe)
	assert.Equal(t, 5, latest.EntityCount)
	assert.NotNil(t, latest.FinishedAt)

	builds, err := d.ListBuilds()
	require.NoError(t, err)
	require.Len(t, builds, 3)
	assert.Equal(t, pending, builds[0].ID)
	assert.Nil(t, builds[0].FinishedAt)

	got, err := d.GetBuild(first)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.EntityCount)

	missing, err := d.GetBuild(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEntities(t *testing.T) {
	d := openTestDB(t)
	build := uuid.New()
	require.NoError(t, d.InsertBuild(build, "acme.yaml"))

	entities := []Entity{
		{BuildID: build, Identifier: "T:Acme.Gadget", Kind: "T", Name: "Gadget", ContentHash: "aa11"},
		{BuildID: build, Identifier: "T:Acme.gadget", Kind: "T", Name: "gadget"},
		{BuildID: build, Identifier: "M:Acme.Widget.DoWork(System.Int32)", Kind: "M", Name: "DoWork", DeclaringType: "T:Acme.Widget"},
	}
	for i := range entities {
		require.NoError(t, d.InsertEntity(&entities[i]))
	}

	t.Run("exact", func(t *testing.T) {
		e, err := d.GetEntity(build, "T:Acme.gadget")
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "gadget", e.Name)
		assert.Empty(t, e.ContentHash)
	})

	t.Run("case-insensitive fallback takes the first", func(t *testing.T) {
		e, err := d.GetEntity(build, "t:ACME.GADGET")
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "T:Acme.Gadget", e.Identifier)
		assert.Equal(t, "aa11", e.ContentHash)
	})

	t.Run("missing", func(t *testing.T) {
		e, err := d.GetEntity(build, "T:Acme.Nope")
		require.NoError(t, err)
		assert.Nil(t, e)
	})

	t.Run("list", func(t *testing.T) {
		all, err := d.ListEntities(build, "")
		require.NoError(t, err)
		assert.Equal(t, entities, all)

		methods, err := d.ListEntities(build, "M")
		require.NoError(t, err)
		require.Len(t, methods, 1)
		assert.Equal(t, "T:Acme.Widget", methods[0].DeclaringType)

		n, err := d.CountEntities(build)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("duplicate", func(t *testing.T) {
		dup := entities[0]
		assert.Error(t, d.InsertEntity(&dup))
	})
}

func TestLinks(t *testing.T) {
	d := openTestDB(t)
	build := uuid.New()
	require.NoError(t, d.InsertBuild(build, "acme.yaml"))

	links := []Link{
		{Source: "T:Acme.Widget", Cref: "T:Acme.Gadget", Target: "T:Acme.Gadget"},
		{Source: "T:Acme.Widget", Cref: "T:ACME.BOX`1", Target: "T:Acme.Box`1"},
		{Source: "T:Acme.Box`1", Cref: "T:Acme.Gadget", Target: "T:Acme.Gadget"},
	}
	for _, l := range links {
		require.NoError(t, d.InsertLink(build, l))
	}

	got, err := d.GetLinks(build, "T:Acme.Widget")
	require.NoError(t, err)
	assert.Equal(t, links[:2], got)

	back, err := d.GetBacklinks(build, "T:Acme.Gadget")
	require.NoError(t, err)
	assert.Equal(t, []Link{links[0], links[2]}, back)

	require.NoError(t, d.DeleteBuild(build))
	got, err = d.GetLinks(build, "T:Acme.Widget")
	require.NoError(t, err)
	assert.Empty(t, got)
	b, err := d.GetBuild(build)
	require.NoError(t, err)
	assert.Nil(t, b)
}
