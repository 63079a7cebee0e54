package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/project"
)

func sampleParts() []model.Part {
	return []model.Part{
		{ItemCode: "A1", Name: "Bracket", Thickness: 2, UnrolledLength: 300.5, RawWidth: 1220, CurrentStock: 1, MaxStock: 10, Demand: 4},
		{ItemCode: "A2", Name: "Cover", Thickness: 2, UnrolledLength: 450, RawWidth: 1220, MaxStock: 6},
		{ItemCode: "B1", Name: "Rail", Thickness: 1.5, UnrolledLength: 210, RawWidth: 1000, Demand: 8},
	}
}

func openTestSQLite(t *testing.T) *SQLRepository {
	t.Helper()
	repo, err := OpenSQL(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	parts := sampleParts()
	repo := NewMemoryRepository(parts)
	parts[0].Demand = 99

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 4, all[0].Demand, "repository must not share the caller's slice")

	p, err := repo.ByCode(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Rail", p.Name)

	_, err = repo.ByCode(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	group, err := repo.ByGroup(ctx, model.GroupKey{Thickness: 2, RawWidth: 1220})
	require.NoError(t, err)
	assert.Len(t, group, 2)
}

func TestSQLRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestSQLite(t)

	require.NoError(t, repo.Upsert(ctx, sampleParts()))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleParts(), all)

	p, err := repo.ByCode(ctx, " A2 ")
	require.NoError(t, err)
	assert.Equal(t, 450.0, p.UnrolledLength)

	_, err = repo.ByCode(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	group, err := repo.ByGroup(ctx, model.GroupKey{Thickness: 1.5, RawWidth: 1000})
	require.NoError(t, err)
	require.Len(t, group, 1)
	assert.Equal(t, "B1", group[0].ItemCode)
}

func TestSQLRepository_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	repo := openTestSQLite(t)
	require.NoError(t, repo.Upsert(ctx, sampleParts()))

	updated := sampleParts()[0]
	updated.CurrentStock = 7
	require.NoError(t, repo.Upsert(ctx, []model.Part{updated}))

	p, err := repo.ByCode(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, 7, p.CurrentStock)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLRepository_NullsAndRealCounts(t *testing.T) {
	ctx := context.Background()
	repo := openTestSQLite(t)

	_, err := repo.DB.ExecContext(ctx,
		`INSERT INTO tbl_demanda (ItemCode, ItemName, espessura, desenvolvimento, largura, estoque_atual, estoque_maximo, demanda)
		 VALUES ('L1', NULL, 3, 120, 1220, 2.0, NULL, 5.0)`)
	require.NoError(t, err)

	p, err := repo.ByCode(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, "", p.Name)
	assert.Equal(t, 2, p.CurrentStock)
	assert.Equal(t, 0, p.MaxStock)
	assert.Equal(t, 5, p.Demand)
}

func TestOpenSQL_UnsupportedDriver(t *testing.T) {
	_, err := OpenSQL(context.Background(), "oracle", "x")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := NewSQLRepository(nil, DriverPostgres)
	assert.Equal(t, "a = $1 AND b = $2", pg.rebind("a = ? AND b = ?"))

	lite := NewSQLRepository(nil, DriverSQLite)
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestOpen_FromFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, project.SaveCatalog(jsonPath, sampleParts()))

	repo, closeFn, err := Open(ctx, Source{Path: jsonPath}, nil)
	require.NoError(t, err)
	defer closeFn()
	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	csvPath := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("ItemCode,Thickness,Length,Width\nC1,2,100,1220\n"), 0644))
	repo, _, err = Open(ctx, Source{Path: csvPath}, nil)
	require.NoError(t, err)
	p, err := repo.ByCode(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.UnrolledLength)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, _, err := Open(ctx, Source{}, nil)
	assert.Error(t, err, "nothing configured")

	bad := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(bad, []byte("ItemCode,Thickness,Length,Width\nC1,2,abc,1220\n"), 0644))
	_, _, err = Open(ctx, Source{Path: bad}, nil)
	assert.Error(t, err, "row errors")

	_, _, err = Open(ctx, Source{Path: filepath.Join(dir, "catalog.pdf")}, nil)
	assert.Error(t, err, "unsupported extension")
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "catalog.db")
	seed, err := OpenSQL(ctx, DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, seed.EnsureSchema(ctx))
	require.NoError(t, seed.Upsert(ctx, sampleParts()))
	require.NoError(t, seed.Close())

	repo, closeFn, err := Open(ctx, Source{Database: model.DatabaseConfig{Driver: DriverSQLite, DSN: dsn}}, nil)
	require.NoError(t, err)
	defer closeFn()

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
