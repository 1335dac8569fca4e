package s3_test

import (
	"testing"
	"tripbook/infras/s3"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		want      string
	}{
		{name: "no public url", want: "s3://itineraries/u-1/b-1.json"},
		{name: "public url", publicURL: "https://cdn.example.com/itineraries", want: "https://cdn.example.com/itineraries/u-1/b-1.json"},
		{name: "trailing slash", publicURL: "https://cdn.example.com/itineraries/", want: "https://cdn.example.com/itineraries/u-1/b-1.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s3.ObjectURL(tt.publicURL, "itineraries", "u-1/b-1.json"))
		})
	}
}
