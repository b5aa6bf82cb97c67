package tagger

import (
	"os"
	"path/filepath"
	"testing"

	id3v2 "github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTaggedFile creates a file carrying an ID3v2 tag with the given title
// and artist. The tag library does not care about the audio payload.
func newTaggedFile(t *testing.T, title, artist string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "source.mp3")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o644))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: false})
	require.NoError(t, err)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if title != "" {
		tag.SetTitle(title)
	}
	if artist != "" {
		tag.SetArtist(artist)
	}
	require.NoError(t, tag.Save())
	require.NoError(t, tag.Close())

	return path
}

// newChunkFile creates a bare file standing in for a written chunk.
func newChunkFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chunk_001.mp3")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o644))
	return path
}

func TestReadSource(t *testing.T) {
	t.Run("tagged file", func(t *testing.T) {
		path := newTaggedFile(t, "My Audiobook", "Some Narrator")

		src, err := ReadSource(path)
		require.NoError(t, err)
		require.NotNil(t, src)
		assert.Equal(t, "My Audiobook", src.Title())
	})

	t.Run("untagged file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plain.mp3")
		require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o644))

		src, err := ReadSource(path)
		require.NoError(t, err)
		assert.Nil(t, src)
	})
}

func TestDerive(t *testing.T) {
	t.Run("title gets part suffix", func(t *testing.T) {
		path := newTaggedFile(t, "My Audiobook", "")
		src, err := ReadSource(path)
		require.NoError(t, err)
		require.NotNil(t, src)

		ct := src.Derive(3, 12)
		assert.Equal(t, "My Audiobook (Part 3/12)", ct.Title())
		assert.Equal(t, 3, ct.Track())
	})

	t.Run("missing title stays missing", func(t *testing.T) {
		path := newTaggedFile(t, "", "Some Narrator")
		src, err := ReadSource(path)
		require.NoError(t, err)
		require.NotNil(t, src)

		ct := src.Derive(1, 2)
		assert.Equal(t, "", ct.Title())
		assert.Equal(t, 1, ct.Track())
	})

	t.Run("chunks derive independently", func(t *testing.T) {
		path := newTaggedFile(t, "Book", "")
		src, err := ReadSource(path)
		require.NoError(t, err)

		first := src.Derive(1, 3)
		second := src.Derive(2, 3)

		assert.Equal(t, "Book (Part 1/3)", first.Title())
		assert.Equal(t, "Book (Part 2/3)", second.Title())
		// Source is untouched by deriving.
		assert.Equal(t, "Book", src.Title())
	})
}

func TestWriteTo(t *testing.T) {
	srcPath := newTaggedFile(t, "My Audiobook", "Some Narrator")
	src, err := ReadSource(srcPath)
	require.NoError(t, err)
	require.NotNil(t, src)

	chunkPath := newChunkFile(t)
	require.NoError(t, src.Derive(2, 5).WriteTo(chunkPath))

	tag, err := id3v2.Open(chunkPath, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "My Audiobook (Part 2/5)", tag.Title())
	assert.Equal(t, "Some Narrator", tag.Artist())

	track := tag.GetTextFrame(tag.CommonID("Track number/Position in set"))
	assert.Equal(t, "2", track.Text)
}

func TestWriteToMissingChunk(t *testing.T) {
	srcPath := newTaggedFile(t, "Book", "")
	src, err := ReadSource(srcPath)
	require.NoError(t, err)

	ct := src.Derive(1, 1)
	err = ct.WriteTo(filepath.Join(t.TempDir(), "nope", "chunk.mp3"))
	assert.Error(t, err)
}
