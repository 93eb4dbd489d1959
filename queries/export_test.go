package queries

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice-console/models"
)

func pagedIDs(lastPage int, calls *[]int) func(context.Context, models.ListParams) (models.Page[int], error) {
	return func(_ context.Context, p models.ListParams) (models.Page[int], error) {
		*calls = append(*calls, p.Page)
		return models.Page[int]{CurrentPage: p.Page, LastPage: lastPage, PerPage: p.PerPage, Total: lastPage * 2, Data: []int{p.Page*2 - 1, p.Page * 2}}, nil
	}
}

func TestCollectWalksEveryPage(t *testing.T) {
	var calls []int
	log, hook := logtest.NewNullLogger()

	out, err := collect(context.Background(), log, models.ListParams{Status: "ACTIVE"}, pagedIDs(3, &calls), func(id int) int { return id })
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, calls)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, out.Rows)
	assert.Equal(t, 6, out.Total)
	assert.False(t, out.Truncated)
	assert.Empty(t, hook.AllEntries())
}

func TestCollectReportsTruncation(t *testing.T) {
	var calls []int
	log, hook := logtest.NewNullLogger()

	out, err := collect(context.Background(), log, models.ListParams{}, pagedIDs(MaxExportPages+10, &calls), func(id int) int { return id })
	require.NoError(t, err)
	assert.Len(t, calls, MaxExportPages)
	assert.Len(t, out.Rows, MaxExportPages*2)
	assert.Equal(t, (MaxExportPages+10)*2, out.Total)
	assert.True(t, out.Truncated)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "export truncated", entry.Message)
}
