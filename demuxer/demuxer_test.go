package demuxer

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeFrame synthesizes one MPEG-1 Layer III frame: 44.1 kHz, 128 kbps,
// no padding. Frame length is 144*128000/44100 = 417 bytes, carrying 1152
// PCM samples. The payload marker makes frames distinguishable in tests.
func makeFrame(marker byte) []byte {
	frame := make([]byte, 417)
	frame[0] = 0xFF
	frame[1] = 0xFB
	frame[2] = 0x90
	frame[3] = 0x00
	frame[4] = marker
	return frame
}

// writeTestMP3 writes an MP3 file of n synthesized frames, optionally
// preceded by a minimal ID3v2.3 tag.
func writeTestMP3(t *testing.T, dir string, n int, withID3 bool) string {
	t.Helper()

	path := filepath.Join(dir, "test.mp3")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	if withID3 {
		// "ID3", v2.3, no flags, synchsafe payload size 10.
		header := []byte{'I', 'D', '3', 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0A}
		_, err = f.Write(header)
		require.NoError(t, err)
		_, err = f.Write(make([]byte, 10))
		require.NoError(t, err)
	}

	for i := 0; i < n; i++ {
		_, err = f.Write(makeFrame(byte(i)))
		require.NoError(t, err)
	}

	return path
}

func TestOpenProbesTrack(t *testing.T) {
	path := writeTestMP3(t, t.TempDir(), 3, false)

	r, err := Open(path, nil)
	require.NoError(t, err)
	defer r.Close()

	track := r.Track()
	assert.Equal(t, 44100, track.SampleRate)
	assert.Equal(t, 128, track.Bitrate)
	assert.Equal(t, int64(1), track.TimeBase.Numer)
	assert.Equal(t, int64(44100), track.TimeBase.Denom)
}

func TestNextPacket(t *testing.T) {
	path := writeTestMP3(t, t.TempDir(), 4, false)

	r, err := Open(path, nil)
	require.NoError(t, err)
	defer r.Close()

	for i := 0; i < 4; i++ {
		pkt, err := r.NextPacket()
		require.NoError(t, err, "packet %d", i)
		assert.Len(t, pkt.Data, 417)
		assert.Equal(t, int64(1152), pkt.Dur)
		// Frames come back in original order with payload intact.
		assert.Equal(t, byte(i), pkt.Data[4])
	}

	_, err = r.NextPacket()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadAll(t *testing.T) {
	path := writeTestMP3(t, t.TempDir(), 10, false)

	r, err := Open(path, nil)
	require.NoError(t, err)
	defer r.Close()

	packets, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, packets, 10)
}

func TestOpenSkipsLeadingID3Tag(t *testing.T) {
	path := writeTestMP3(t, t.TempDir(), 5, true)

	r, err := Open(path, nil)
	require.NoError(t, err)
	defer r.Close()

	packets, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, packets, 5)
	// First packet is the first audio frame, not tag bytes.
	assert.Equal(t, byte(0xFF), packets[0].Data[0])
}

func TestOpenUnrecognizedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o644))

	_, err := Open(path, nil)
	assert.ErrorIs(t, err, ErrProbe)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mp3"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("", nil)
	assert.Error(t, err)
}
