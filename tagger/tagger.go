// Package tagger reads the source file's ID3 tag set and derives per-chunk
// tags with a part-numbered title and track number.
package tagger

import (
	"fmt"
	"strconv"

	id3v2 "github.com/bogem/id3v2/v2"
)

// trackNumberDescription is the frame description bogem/id3v2 maps to TRCK.
const trackNumberDescription = "Track number/Position in set"

// SourceTag is an immutable snapshot of the source file's ID3 tag set.
//
// It is read once per split operation; Derive then produces an independent
// per-chunk tag from it, so no two chunks ever share tag state.
type SourceTag struct {
	title  string
	frames map[string][]id3v2.Framer
}

// ReadSource reads the ID3v2 tag set from the given file.
//
// Returns (nil, nil) if the file carries no tag: absence is not an error.
// A parse failure is returned to the caller, which treats it as a non-fatal
// warning and proceeds untagged.
func ReadSource(path string) (*SourceTag, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("failed to parse ID3 tag: %w", err)
	}
	defer tag.Close()

	if !tag.HasFrames() {
		return nil, nil
	}

	frames := make(map[string][]id3v2.Framer, tag.Count())
	for id, fs := range tag.AllFrames() {
		frames[id] = append([]id3v2.Framer(nil), fs...)
	}

	return &SourceTag{
		title:  tag.Title(),
		frames: frames,
	}, nil
}

// Title returns the source title, or "" if the source tag has none.
func (s *SourceTag) Title() string {
	return s.title
}

// ChunkTag is the tag set derived for one output chunk.
//
// It is a value produced by Derive and persisted by WriteTo; deriving never
// mutates the SourceTag, and each chunk gets its own ChunkTag instance.
type ChunkTag struct {
	title    string
	hasTitle bool
	track    int
	frames   map[string][]id3v2.Framer
}

// Derive produces the tag set for chunk index (1-based) of total chunks.
//
// All source frames are carried over. The title is rewritten to
// "{title} (Part {index}/{total})" only when the source had a title, and the
// track number is set to index.
func (s *SourceTag) Derive(index, total int) *ChunkTag {
	ct := &ChunkTag{
		track:  index,
		frames: s.frames,
	}
	if s.title != "" {
		ct.title = fmt.Sprintf("%s (Part %d/%d)", s.title, index, total)
		ct.hasTitle = true
	}
	return ct
}

// Title returns the derived chunk title, or "" if the source had none.
func (c *ChunkTag) Title() string {
	return c.title
}

// Track returns the derived track number.
func (c *ChunkTag) Track() int {
	return c.track
}

// WriteTo persists the derived tag set onto the given chunk file as ID3v2.4.
//
// The chunk file must already exist; its audio payload is left untouched.
func (c *ChunkTag) WriteTo(path string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: false})
	if err != nil {
		return fmt.Errorf("failed to open chunk for tagging: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	for id, fs := range c.frames {
		for _, f := range fs {
			tag.AddFrame(id, f)
		}
	}

	// Title and track overrides replace any copied source frames.
	if c.hasTitle {
		tag.SetTitle(c.title)
	}
	tag.AddTextFrame(tag.CommonID(trackNumberDescription), tag.DefaultEncoding(), strconv.Itoa(c.track))

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to write ID3 tag: %w", err)
	}
	return nil
}
