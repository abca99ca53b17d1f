package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNetworkName(t *testing.T) {
	for _, name := range []string{"holesky", "mainnet", "base-sepolia", "local_1"} {
		assert.NoError(t, ValidateNetworkName(name), name)
	}

	for _, name := range []string{"", " ", ".", "..", "../../x", "a/b", `a\b`, "/etc", "x\x00"} {
		err := ValidateNetworkName(name)
		assert.ErrorIs(t, err, ErrValidation, "%q", name)
	}
}
