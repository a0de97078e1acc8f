package testasset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		fileName  string
		supported bool
		image     bool
	}{
		{fileName: "/tmp/run/CanLogin.PNG", supported: true, image: true},
		{fileName: "console.log", supported: true},
		{fileName: "recording.webm", supported: true},
		{fileName: "trace.zip"},
	}
	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			assert.Equal(t, tt.supported, IsSupportedAssetType(tt.fileName))
			assert.Equal(t, tt.image, IsImage(tt.fileName))
		})
	}
}

func TestBelongsTo(t *testing.T) {
	assert.True(t, BelongsTo("/results/CanLogin_failure.png", "CanLogin"))
	assert.True(t, BelongsTo("/results/testCheckout_1.png", "testCheckout()"))
	assert.False(t, BelongsTo("/results/CanLogout.png", "CanLogin"))
	assert.False(t, BelongsTo("/results/any.png", " "))
}
