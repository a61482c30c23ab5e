package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachImageURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8000/uploads/products/a.png",
		AttachImageURL("http://localhost:8000", "/uploads/products/a.png"))
	assert.Equal(t, "", AttachImageURL("http://localhost:8000", ""))
	assert.Equal(t, "/uploads/products/a.png", AttachImageURL("", "/uploads/products/a.png"))
}
