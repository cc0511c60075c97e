package gis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaiaresources/biosys/pkg/gis"
)

func TestWKTRoundTrip(t *testing.T) {
	p := gis.NewPoint(115.76, -32.0, gis.ModelSRID)
	s, err := gis.EncodeWKT(p)
	require.NoError(t, err)
	assert.Contains(t, s, "POINT")

	back, err := gis.DecodeWKT(s)
	require.NoError(t, err)
	assert.InDelta(t, 115.76, back.X(), 1e-9)
	assert.InDelta(t, -32.0, back.Y(), 1e-9)
	assert.Equal(t, gis.ModelSRID, back.SRID())
}

func TestDecodeWKTErrors(t *testing.T) {
	_, err := gis.DecodeWKT("not wkt")
	assert.Error(t, err)

	_, err = gis.DecodeWKT("LINESTRING (0 0, 1 1)")
	assert.Error(t, err)

	_, err = gis.EncodeWKT(nil)
	assert.Error(t, err)
}
