package integration

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSyncReport_CapsErrorsButKeepsCounts(t *testing.T) {
	r := NewSyncReport(SyncJobOrders, 3, time.Now())

	for i := 0; i < 5; i++ {
		r.RecordFailure(fmt.Sprintf("order %d", i), errors.New("boom"))
	}
	r.RecordSuccess()
	r.RecordSuccess()

	assert.Equal(t, 5, r.ErrorCount)
	assert.Equal(t, 2, r.SyncedCount)
	assert.Len(t, r.Errors, 3)
	assert.Equal(t, "order 0: boom", r.Errors[0])
	assert.True(t, r.HasErrors())
}

func TestSyncReport_DefaultCap(t *testing.T) {
	r := NewSyncReport(SyncJobInventory, 0, time.Now())
	for i := 0; i < DefaultMaxReportedErrors+4; i++ {
		r.RecordFailure("sku", errors.New("x"))
	}
	assert.Len(t, r.Errors, DefaultMaxReportedErrors)
	assert.Equal(t, DefaultMaxReportedErrors+4, r.ErrorCount)
}

func TestSyncReport_EmptyErrorsIsNotNil(t *testing.T) {
	r := NewSyncReport(SyncJobOrders, 10, time.Now())
	assert.NotNil(t, r.Errors)
	assert.False(t, r.HasErrors())
}

func TestSyncJob_IsValid(t *testing.T) {
	assert.True(t, SyncJobOrders.IsValid())
	assert.True(t, SyncJobInventory.IsValid())
	assert.False(t, SyncJob("all").IsValid())
}

func TestTokenLifetime(t *testing.T) {
	d, upstream := TokenLifetime(30*time.Minute, time.Hour)
	assert.Equal(t, 30*time.Minute, d)
	assert.True(t, upstream)

	d, upstream = TokenLifetime(0, 2*time.Hour)
	assert.Equal(t, 2*time.Hour, d)
	assert.False(t, upstream)

	d, _ = TokenLifetime(-time.Second, 0)
	assert.Equal(t, time.Hour, d)
}
