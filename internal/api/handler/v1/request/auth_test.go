package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{
		Name:            "Rakesh Sharma",
		Email:           "owner@rsconstruction.shop",
		Password:        "passw0rd123",
		ConfirmPassword: "passw0rd123",
		Role:            "admin",
	}

	t.Run("valid request", func(t *testing.T) {
		req := valid
		assert.NoError(t, req.Validate())
	})

	t.Run("bad email", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"
		assert.Error(t, req.Validate())
	})

	t.Run("password too short", func(t *testing.T) {
		req := valid
		req.Password = "abc1"
		req.ConfirmPassword = "abc1"
		assert.ErrorIs(t, req.Validate(), errInvalidPassword)
	})

	t.Run("password without a digit", func(t *testing.T) {
		req := valid
		req.Password = "passwordonly"
		req.ConfirmPassword = "passwordonly"
		assert.ErrorIs(t, req.Validate(), errInvalidPassword)
	})

	t.Run("confirm mismatch", func(t *testing.T) {
		req := valid
		req.ConfirmPassword = "different1"
		assert.ErrorIs(t, req.Validate(), errConfirmPasswordMismatch)
	})

	t.Run("unknown role", func(t *testing.T) {
		req := valid
		req.Role = "supplier"
		assert.Error(t, req.Validate())
	})
}

func TestBulkUpdateRequest_Validate(t *testing.T) {
	valid := BulkUpdateRequest{
		RateIDs:   []uint{1, 2},
		Percent:   5,
		Direction: "increase",
	}

	t.Run("valid request", func(t *testing.T) {
		req := valid
		assert.NoError(t, req.Validate())
	})

	t.Run("empty selection", func(t *testing.T) {
		req := valid
		req.RateIDs = nil
		assert.Error(t, req.Validate())
	})

	t.Run("percent above 100", func(t *testing.T) {
		req := valid
		req.Percent = 150
		assert.Error(t, req.Validate())
	})

	t.Run("unknown direction", func(t *testing.T) {
		req := valid
		req.Direction = "sideways"
		assert.Error(t, req.Validate())
	})
}
