package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderID(t *testing.T) {
	assert.Equal(t, "ORD_00001", FormatOrderID(1))
	assert.Equal(t, "ORD_00042", FormatOrderID(42))
	assert.Equal(t, "ORD_99999", FormatOrderID(99999))
	assert.Equal(t, "ORD_100000", FormatOrderID(100000))
}
