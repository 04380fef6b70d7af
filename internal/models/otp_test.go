package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPExpiry(t *testing.T) {
	created := time.Now()
	otp := OTP{Phone: "+998901234567"}
	otp.CreatedAt = created

	assert.False(t, otp.Expired(created))
	assert.False(t, otp.Expired(created.Add(4*time.Minute+59*time.Second)))
	assert.False(t, otp.Expired(created.Add(OTPValidity)))
	assert.True(t, otp.Expired(created.Add(OTPValidity+time.Second)))
	assert.True(t, otp.Expired(created.Add(time.Hour)))
}

func TestOrderResolve(t *testing.T) {
	now := time.Now()

	order := Order{Status: OrderStatusReserved}
	assert.NoError(t, order.Resolve(OrderStatusCollected, now))
	assert.Equal(t, OrderStatusCollected, order.Status)
	if assert.NotNil(t, order.CollectedAt) {
		assert.Equal(t, now, *order.CollectedAt)
	}

	// Resolution is one-shot.
	assert.ErrorIs(t, order.Resolve(OrderStatusMissed, now), ErrOrderNotReserved)

	missed := Order{Status: OrderStatusReserved}
	assert.NoError(t, missed.Resolve(OrderStatusMissed, now))
	assert.Equal(t, OrderStatusMissed, missed.Status)
	assert.Nil(t, missed.CollectedAt)

	invalid := Order{Status: OrderStatusReserved}
	assert.Error(t, invalid.Resolve("cancelled", now))
	assert.Equal(t, OrderStatusReserved, invalid.Status)
}
