package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	// Transpose
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		mNr, mNc := M.Dims()
		A := M.Transpose()
		aNr, aNc := A.Dims()
		assert.Equal(t, aNc, mNr)
		assert.Equal(t, aNr, mNc)
		assert.Equal(t, 4., A.At(0, 1))
		assert.Equal(t, 3., A.At(2, 0))
	}
	// Chainable mutation vs copy
	{
		M := NewMatrix(2, 2, []float64{
			1, 2,
			3, 4,
		})
		C := M.Copy().Scale(2)
		assert.Equal(t, 1., M.At(0, 0)) // receiver untouched by Copy
		assert.Equal(t, 2., C.At(0, 0))
		M.AddScalar(1)
		assert.Equal(t, 2., M.At(0, 0)) // AddScalar changes receiver
	}
	// AddScaled and Apply2
	{
		A := NewMatrix(2, 2, []float64{1, 1, 1, 1})
		B := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		A.AddScaled(B, 0.5)
		assert.Equal(t, 1.5, A.At(0, 0))
		assert.Equal(t, 3., A.At(1, 1))
		A.Apply2(func(a, b float64) float64 { return a * b }, B)
		assert.Equal(t, 1.5, A.At(0, 0))
		assert.Equal(t, 12., A.At(1, 1))
	}
	// Min, Max, MaxAbs, RMS
	{
		M := NewMatrix(1, 4, []float64{-3, 0, 1, 2})
		assert.Equal(t, -3., M.Min())
		assert.Equal(t, 2., M.Max())
		assert.Equal(t, 3., M.MaxAbs())
		assert.InDelta(t, math.Sqrt(14./4.), M.RMS(), 1.e-12)
	}
	// Mul
	{
		A := NewMatrix(2, 2, []float64{
			1, 0,
			0, 2,
		})
		B := NewMatrix(2, 2, []float64{
			3, 4,
			5, 6,
		})
		C := A.Mul(B)
		assert.Equal(t, 3., C.At(0, 0))
		assert.Equal(t, 12., C.At(1, 1))
	}
	// Read-only protection
	{
		M := NewMatrix(1, 1)
		M.SetReadOnly("M")
		assert.Panics(t, func() { M.Set(0, 0, 1) })
		M.SetWritable()
		assert.NotPanics(t, func() { M.Set(0, 0, 1) })
	}
	// Row and Col extraction
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		assert.Equal(t, []float64{4, 5, 6}, M.Row(1).Data())
		assert.Equal(t, []float64{2, 5}, M.Col(1).Data())
	}
}

func TestVector(t *testing.T) {
	{
		V := NewRangeVector(0, 10, 11)
		assert.Equal(t, 11, V.Len())
		assert.Equal(t, 0., V.AtVec(0))
		assert.Equal(t, 10., V.AtVec(10))
		assert.InDelta(t, 5., V.AtVec(5), 1.e-12)
	}
	{
		V := NewVector(3, []float64{1, -2, 3})
		assert.Equal(t, -2., V.Min())
		assert.Equal(t, 3., V.Max())
		W := V.Copy().Scale(-1)
		assert.Equal(t, 2., W.AtVec(1))
		assert.Equal(t, -2., V.AtVec(1))
	}
}
