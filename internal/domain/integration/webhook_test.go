package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhookTopic(t *testing.T) {
	tests := []struct {
		topic   WebhookTopic
		isOrder bool
		create  bool
	}{
		{TopicOrderCreate, true, true},
		{TopicOrderUpdated, true, false},
		{TopicOrderPaid, true, false},
		{TopicOrderCancelled, true, false},
		{TopicOrderFulfilled, true, false},
		{"products/update", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.topic), func(t *testing.T) {
			assert.Equal(t, tt.isOrder, tt.topic.IsOrderEvent())
			assert.Equal(t, tt.create, tt.topic.IsCreate())
		})
	}
}
