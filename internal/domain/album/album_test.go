package album

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuteki/tunebox/internal/domain/track"
)

func TestAlbum_AppendRejectsDuplicates(t *testing.T) {
	a := New("Mezzanine")

	require.True(t, a.Append(track.New("Angel", []string{"Massive Attack"}, "Mezzanine", "06:18")))
	assert.False(t, a.Append(track.New("angel", []string{"massive attack"}, "MEZZANINE", "06:18")))
	assert.True(t, a.Append(track.New("Teardrop", []string{"Massive Attack"}, "Mezzanine", "05:29")))
	assert.Equal(t, 2, a.TrackCount())
}

func TestAlbum_TotalDuration(t *testing.T) {
	a := New("Short EP")
	a.Append(track.New("One", []string{"X"}, "Short EP", "03:30"))
	a.Append(track.New("Two", []string{"X"}, "Short EP", "02:45"))
	assert.Equal(t, "6 min 15 sec", a.TotalDuration())

	long := New("Anthology")
	long.Append(track.New("Suite", []string{"X"}, "Anthology", "65:10"))
	assert.Equal(t, "1 hr 5 min 10 sec", long.TotalDuration())

	assert.Equal(t, "0 min 0 sec", New("Empty").TotalDuration())
}
