package inputsample

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/alexwalshml/dendro/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRequester struct {
	requested []string
	rejected  []string
}

func (rr *recordingRequester) RequestValueFor(f feature.Feature) error {
	rr.requested = append(rr.requested, f.Name())
	return nil
}

func (rr *recordingRequester) RejectValueFor(f feature.Feature, v interface{}) error {
	rr.rejected = append(rr.rejected, fmt.Sprintf("%s=%v", f.Name(), v))
	return nil
}

func TestValueForReadsValuesInRequestOrder(t *testing.T) {
	age := feature.NewContinuousFeature("age")
	color := feature.NewDiscreteFeature("color", []string{"red", "blue"})
	rr := &recordingRequester{}
	s := New(strings.NewReader("42.5\nblue\n"), []feature.Feature{age, color}, rr, "?")

	ctx := context.Background()
	v, err := s.ValueFor(ctx, age)
	require.NoError(t, err)
	assert.Equal(t, 42.5, v)

	v, err = s.ValueFor(ctx, color)
	require.NoError(t, err)
	assert.Equal(t, "blue", v)

	assert.Equal(t, []string{"age", "color"}, rr.requested)
	assert.Empty(t, rr.rejected)
}

func TestValueForCachesObtainedValues(t *testing.T) {
	age := feature.NewContinuousFeature("age")
	rr := &recordingRequester{}
	s := New(strings.NewReader("7\n"), []feature.Feature{age}, rr, "?")

	ctx := context.Background()
	v, err := s.ValueFor(ctx, age)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	v, err = s.ValueFor(ctx, age)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
	assert.Len(t, rr.requested, 1, "a value already read must not be requested again")
}

func TestValueForRejectsInvalidLines(t *testing.T) {
	color := feature.NewDiscreteFeature("color", []string{"red", "blue"})
	rr := &recordingRequester{}
	s := New(strings.NewReader("green\nnope\nred\n"), []feature.Feature{color}, rr, "?")

	v, err := s.ValueFor(context.Background(), color)
	require.NoError(t, err)
	assert.Equal(t, "red", v)
	assert.Equal(t, []string{"color=green", "color=nope"}, rr.rejected)
}

func TestValueForUndefinedValue(t *testing.T) {
	age := feature.NewContinuousFeature("age")
	rr := &recordingRequester{}
	s := New(strings.NewReader("?\n"), []feature.Feature{age}, rr, "?")

	v, err := s.ValueFor(context.Background(), age)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestValueForUnknownFeature(t *testing.T) {
	age := feature.NewContinuousFeature("age")
	rr := &recordingRequester{}
	s := New(strings.NewReader(""), []feature.Feature{age}, rr, "?")

	_, err := s.ValueFor(context.Background(), feature.NewContinuousFeature("height"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no information about feature height")
}

func TestValueForEOF(t *testing.T) {
	age := feature.NewContinuousFeature("age")
	rr := &recordingRequester{}
	s := New(strings.NewReader("not a number\n"), []feature.Feature{age}, rr, "?")

	_, err := s.ValueFor(context.Background(), age)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EOF")
}
