package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	validator := New()

	require.NotNil(t, validator)
	require.NotNil(t, validator.Errors)
	require.Equal(t, 0, len(validator.Errors))
}

func TestValidator_AddError(t *testing.T) {
	validator := New()
	validator.AddError("name", "Name is required")
	if len(validator.Errors) != 1 {
		t.Error("validator.Errors should contain one entry")
	}
	if validator.Errors["name"] != "Name is required" {
		t.Error("validator.Errors[name] should contain the correct error message")
	}
}

func TestValidator_Check(t *testing.T) {
	validator := New()
	validator.Check(false, "name", "Name is required")
	if len(validator.Errors) != 1 {
		t.Error("validator.Errors should contain one entry")
	}
	if validator.Errors["name"] != "Name is required" {
		t.Error("validator.Errors[name] should contain the correct error message")
	}
}

func TestValidator_Valid(t *testing.T) {
	validator := New()
	if !validator.Valid() {
		t.Error("validator.Valid() should return true")
	}
	validator.Errors["name"] = "Name is required"
	if validator.Valid() {
		t.Error("validator.Valid() should return false")
	}
}

type structRequest struct {
	AccountID string `json:"account_id" validate:"required,account_id"`
	Amount    uint64 `json:"amount" validate:"gt=0"`
	Outcome   string `json:"outcome" validate:"oneof=A B"`
}

func TestValidator_Struct(t *testing.T) {
	validator := New()
	validator.Struct(&structRequest{AccountID: "alice", Amount: 10, Outcome: "A"})
	require.True(t, validator.Valid())

	validator = New()
	validator.Struct(&structRequest{AccountID: "vault:x", Amount: 0, Outcome: "C"})
	require.False(t, validator.Valid())
	require.Equal(t, "must be a valid account id", validator.Errors["account_id"])
	require.Equal(t, "must be greater than 0", validator.Errors["amount"])
	require.Equal(t, "must be one of A B", validator.Errors["outcome"])
}
