package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidIMO(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9074729", true},
		{"IMO 9074729", true},
		{"imo9074729", true},
		{"9074728", false},
		{"907472", false},
		{"90747290", false},
		{"90A4729", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidIMO(tt.in))
		})
	}
	assert.Equal(t, "9074729", NormalizeIMO(" imo 9074729 "))
}
