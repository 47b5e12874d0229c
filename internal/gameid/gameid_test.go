package gameid

import (
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/liarsdice/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	id := Generate()
	require.Len(t, id, Length)
	assert.NoError(t, Validate(id))
}

func TestGenerateUnique(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := Generate()
		assert.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestGenerateTimeSorted(t *testing.T) {
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	g := NewGenerator(clock, randutil.New(1))

	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, g.Generate())
		clock.Advance(time.Millisecond)
	}

	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "IDs not sorted: %s >= %s", ids[i-1], ids[i])
	}
}

func TestGenerateDeterministic(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	a := quartz.NewMock(t)
	a.Set(at)
	b := quartz.NewMock(t)
	b.Set(at)

	idA := NewGenerator(a, randutil.New(7)).Generate()
	idB := NewGenerator(b, randutil.New(7)).Generate()
	assert.Equal(t, idA, idB)
}

func TestEncodeBase32(t *testing.T) {
	var zero [16]byte
	assert.Equal(t, strings.Repeat("0", Length), encodeBase32(zero))

	var ones [16]byte
	for i := range ones {
		ones[i] = 0xff
	}
	assert.Equal(t, "7"+strings.Repeat("z", Length-1), encodeBase32(ones))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid ID", "01h5n0et5q6mt3v7ms1234abcd", false},
		{"too short", "01h5n0et5q6mt3v7ms123", true},
		{"too long", "01h5n0et5q6mt3v7ms1234abcdef", true},
		{"first char too high", "81h5n0et5q6mt3v7ms1234abcd", true},
		{"invalid character", "01h5n0et5q6mt3v7ms1234abcu", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
