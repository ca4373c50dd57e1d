package services

import (
	"testing"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffected(t *testing.T) {
	f := newFixture()

	assert.Equal(t, []*models.Credential{f.forum}, Affected(f.snap, FeatureTrash))
	assert.Equal(t, []*models.Credential{f.bank}, Affected(f.snap, FeatureArchive))
	assert.Nil(t, Affected(f.snap, Feature("other")))
}

func TestApplyResolution_MigrateToOtherGroup(t *testing.T) {
	f := newFixture()

	require.NoError(t, ApplyResolution(f.snap, FeatureArchive, MigrateTo(f.home.ID), t0))

	assert.Equal(t, models.StateActive, f.bank.State())
	assert.Nil(t, f.bank.ArchivedDate)
	assert.Nil(t, f.bank.PreviousGroupID)
	assert.Same(t, f.home, f.snap.Owner(f.bank))
	assert.False(t, f.work.Contains(f.bank))
	assert.Equal(t, models.StateTrashed, f.forum.State(), "other feature untouched")
}

func TestApplyResolution_MigrateIntoCurrentOwnerNoDuplicate(t *testing.T) {
	f := newFixture()

	require.NoError(t, ApplyResolution(f.snap, FeatureTrash, MigrateTo(f.work.ID), t0))

	assert.Equal(t, models.StateActive, f.forum.State())
	assert.Nil(t, f.forum.TrashedDate)
	assert.Equal(t, 1, owners(f.snap, f.forum.ID))
}

func TestApplyResolution_Delete(t *testing.T) {
	f := newFixture()

	require.NoError(t, ApplyResolution(f.snap, FeatureTrash, DeleteAll(), t0))

	assert.Empty(t, f.snap.Trashed())
	assert.Equal(t, 0, owners(f.snap, f.forum.ID))
	assert.Len(t, f.snap.All(), 2)
}

func TestApplyResolution_UnknownTargetChangesNothing(t *testing.T) {
	f := newFixture()

	err := ApplyResolution(f.snap, FeatureArchive, MigrateTo("missing"), t0)
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, models.StateArchived, f.bank.State())

	err = ApplyResolution(f.snap, FeatureArchive, Resolution{Action: Action(9)}, t0)
	require.ErrorIs(t, err, common.ErrMigrationAborted)
}
