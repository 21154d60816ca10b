// Test Type: Unit Test
// Description: Tests for the svg package - vector document sniffing

package svg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphkit/glyphkit/pkg/svg"
)

const sample = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M3 6h18M3 12h18M3 18h18"/></svg>`

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid_icon", sample, false},
		{"with_xml_declaration", `<?xml version="1.0"?>` + sample, false},
		{"uppercase_root", `<SVG viewBox="0 0 1 1"></SVG>`, false},
		{"empty", "", true},
		{"not_xml", "PNG\x89 binary junk", true},
		{"wrong_root", `<html><body/></html>`, true},
		{"truncated", `<svg viewBox="0 0 24 24"><path`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svg.Validate([]byte(tt.content))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestViewBox(t *testing.T) {
	vb, err := svg.ViewBox([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "0 0 24 24", vb)

	vb, err = svg.ViewBox([]byte(`<svg width="16px" height="16px"></svg>`))
	require.NoError(t, err)
	assert.Equal(t, "0 0 16 16", vb)

	_, err = svg.ViewBox([]byte(`<svg></svg>`))
	assert.Error(t, err)
}

func TestInner(t *testing.T) {
	inner, err := svg.Inner([]byte(sample))
	require.NoError(t, err)
	assert.Contains(t, inner, "<path")
	assert.NotContains(t, inner, "<svg")
}
