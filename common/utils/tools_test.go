package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToIntArrayFromBsonArray(t *testing.T) {
	got := ToIntArray(primitive.A{int32(3), int64(-2), 1.0, "x"})
	assert.Equal(t, [4]int{3, -2, 1, 0}, got)
}

func TestToIntMatrix(t *testing.T) {
	raw := primitive.A{
		primitive.A{int32(1), int32(2), int32(3), int32(4)},
		primitive.A{int32(5)},
	}
	got := ToIntMatrix(raw)
	assert.Equal(t, [4]int{1, 2, 3, 4}, got[0])
	assert.Equal(t, [4]int{5, 0, 0, 0}, got[1])
	assert.Equal(t, [4]int{}, got[3])
}

func TestToTimeAndStrings(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, ToTime(primitive.NewDateTimeFromTime(ts)).Equal(ts))
	assert.True(t, ToTime(nil).IsZero())
	assert.Equal(t, []string{"a", "b"}, ToStringArray(primitive.A{"a", "b"}))
	assert.Empty(t, ToStringArray(nil))
	assert.Equal(t, "", ToString(42))
}
