package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContinuousFeatureValid(t *testing.T) {
	f := NewContinuousFeature("height")
	assert.Equal(t, "height", f.Name())

	for _, v := range []interface{}{1.5, float32(2.5), 3, int64(4), int32(5)} {
		ok, err := f.Valid(v)
		assert.True(t, ok)
		assert.NoError(t, err)
	}

	ok, err := f.Valid("tall")
	assert.False(t, ok)
	assert.Error(t, err)

	ok, err = f.Valid(nil)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestDiscreteFeatureValid(t *testing.T) {
	f := NewDiscreteFeature("color", []string{"red", "green", "blue"})
	assert.Equal(t, "color", f.Name())
	assert.Equal(t, []string{"red", "green", "blue"}, f.AvailableValues())

	ok, err := f.Valid("green")
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = f.Valid("yellow")
	assert.False(t, ok)
	assert.Error(t, err)

	ok, err = f.Valid(3)
	assert.False(t, ok)
	assert.Error(t, err)

	ok, err = f.Valid(nil)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestDiscreteFeatureValueIndex(t *testing.T) {
	f := NewDiscreteFeature("color", []string{"red", "green", "blue"})

	i, ok := f.ValueIndex("red")
	require.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = f.ValueIndex("blue")
	require.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = f.ValueIndex("yellow")
	assert.False(t, ok)
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  float64
		fails bool
	}{
		{name: "float64", value: 1.25, want: 1.25},
		{name: "float32", value: float32(0.5), want: 0.5},
		{name: "int", value: 7, want: 7},
		{name: "int64", value: int64(-3), want: -3},
		{name: "int32", value: int32(9), want: 9},
		{name: "string", value: "1.25", fails: true},
		{name: "nil", value: nil, fails: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Number(tt.value)
			if tt.fails {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
