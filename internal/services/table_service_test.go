package services_test

import (
	"testing"

	"cafepos/internal/models"
	"cafepos/internal/repositories"
	"cafepos/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableService(t *testing.T) {
	svc := services.NewTableService(repositories.NewMemoryTableRepository())

	table := &models.Table{Name: " Bàn 1 ", Area: "Tầng 1", Capacity: 4, IsActive: true}
	require.NoError(t, svc.CreateTable(table))
	assert.Equal(t, "Bàn 1", table.Name)
	assert.Equal(t, models.TableStatusAvailable, table.Status)

	assert.ErrorIs(t, svc.CreateTable(&models.Table{Name: "", Capacity: 2}), services.ErrInvalidTable)
	assert.ErrorIs(t, svc.CreateTable(&models.Table{Name: "Bàn 2", Capacity: 0}), services.ErrInvalidTable)
	assert.ErrorIs(t, svc.CreateTable(&models.Table{Name: "Bàn 3", Capacity: 2, Status: "broken"}), services.ErrInvalidTable)

	updated, err := svc.UpdateStatus(table.ID, models.TableStatusReserved)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusReserved, updated.Status)

	_, err = svc.UpdateStatus(table.ID, "flooded")
	assert.ErrorIs(t, err, services.ErrInvalidTable)

	_, err = svc.UpdateStatus("missing", models.TableStatusCleaning)
	assert.ErrorIs(t, err, services.ErrTableNotFound)

	all, err := svc.GetAllTables()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
