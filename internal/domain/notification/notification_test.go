package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	n, err := New(TypeNewOrder, SeverityInfo, "New order", "#1001")
	require.NoError(t, err)
	assert.Equal(t, TypeNewOrder, n.Type)
	assert.NotNil(t, n.AcknowledgedBy)
	assert.Empty(t, n.AcknowledgedBy)

	_, err = New("", SeverityInfo, "x", "y")
	assert.Error(t, err)

	_, err = New(TypeNewOrder, Severity("critical"), "x", "y")
	assert.Error(t, err)
}

func TestNotification_AcknowledgeIsIdempotent(t *testing.T) {
	n, err := New(TypeSyncOrders, SeverityWarning, "Sync", "1 error")
	require.NoError(t, err)

	u1, u2 := uuid.New(), uuid.New()
	assert.True(t, n.Acknowledge(u1))
	assert.False(t, n.Acknowledge(u1))
	assert.True(t, n.Acknowledge(u2))

	assert.Equal(t, []uuid.UUID{u1, u2}, n.AcknowledgedBy)
	assert.True(t, n.IsAcknowledgedBy(u2))
	assert.False(t, n.IsAcknowledgedBy(uuid.New()))
}
