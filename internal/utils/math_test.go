package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureRandomFloat_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		f, err := SecureRandomFloat()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}

func TestRandomInt(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
	}{
		{"range", 1, 6},
		{"single value", 3, 3},
		{"inverted returns min", 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				got := RandomInt(tt.min, tt.max)
				if tt.min > tt.max {
					assert.Equal(t, tt.min, got)
					continue
				}
				assert.GreaterOrEqual(t, got, tt.min)
				assert.LessOrEqual(t, got, tt.max)
			}
		})
	}
}
