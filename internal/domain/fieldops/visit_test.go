package fieldops

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVisit(t *testing.T) {
	customerID := uuid.New()
	occurredAt := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	t.Run("creates scheduled visit", func(t *testing.T) {
		visit, err := NewVisit(customerID, nil, occurredAt)

		require.NoError(t, err)
		assert.Equal(t, customerID, visit.CustomerID)
		assert.Nil(t, visit.BranchID)
		assert.Equal(t, VisitStatusScheduled, visit.Status)
		assert.False(t, visit.IsCompleted())
	})

	t.Run("creates branch visit", func(t *testing.T) {
		branchID := uuid.New()
		visit, err := NewVisit(customerID, &branchID, occurredAt)

		require.NoError(t, err)
		require.NotNil(t, visit.BranchID)
		assert.Equal(t, branchID, *visit.BranchID)
	})

	t.Run("rejects missing customer", func(t *testing.T) {
		_, err := NewVisit(uuid.Nil, nil, occurredAt)
		assert.Error(t, err)
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := NewVisit(customerID, nil, time.Time{})
		assert.Error(t, err)
	})
}

func TestVisitLifecycle(t *testing.T) {
	customerID := uuid.New()
	occurredAt := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	t.Run("complete records report number", func(t *testing.T) {
		visit, err := NewVisit(customerID, nil, occurredAt)
		require.NoError(t, err)

		require.NoError(t, visit.Complete("RPT-001"))
		assert.Equal(t, VisitStatusCompleted, visit.Status)
		assert.Equal(t, "RPT-001", visit.ReportNumber)
		assert.True(t, visit.IsCompleted())
	})

	t.Run("complete twice fails", func(t *testing.T) {
		visit, err := NewVisit(customerID, nil, occurredAt)
		require.NoError(t, err)

		require.NoError(t, visit.Complete("RPT-001"))
		assert.Error(t, visit.Complete("RPT-002"))
		assert.Equal(t, "RPT-001", visit.ReportNumber)
	})

	t.Run("cancelled visit cannot be completed", func(t *testing.T) {
		visit, err := NewVisit(customerID, nil, occurredAt)
		require.NoError(t, err)

		require.NoError(t, visit.Cancel())
		assert.Error(t, visit.Complete("RPT-001"))
		assert.Equal(t, VisitStatusCancelled, visit.Status)
	})

	t.Run("completed visit cannot be cancelled", func(t *testing.T) {
		visit, err := NewVisit(customerID, nil, occurredAt)
		require.NoError(t, err)

		require.NoError(t, visit.Complete("RPT-001"))
		assert.Error(t, visit.Cancel())
	})
}
