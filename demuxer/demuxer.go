// Package demuxer provides frame-level access to MP3 streams: probing a
// source file for its codec parameters and pulling raw packets until the
// stream is exhausted.
package demuxer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmulholl/mp3lib"
	"github.com/hashicorp/go-hclog"

	"mp3splitter/models"
)

var (
	// ErrProbe is returned when no parsable MPEG audio frame can be found
	// in the source.
	ErrProbe = errors.New("unrecognized audio format")

	// ErrEmptyStream is returned by ReadAll when the source yields zero
	// audio packets.
	ErrEmptyStream = errors.New("no audio packets found")
)

// Track holds the codec parameters of a probed MP3 stream.
//
// TimeBase converts packet durations (PCM sample counts) to seconds and
// stays constant for the whole stream.
type Track struct {
	SampleRate int
	Bitrate    int // kbps of the first frame; VBR streams vary per frame
	TimeBase   models.TimeBase
}

// Reader pulls packets from an MP3 file one frame at a time.
//
// Open probes the stream; NextPacket then yields frames in order until
// io.EOF. End-of-stream is reported distinctly from hard errors.
type Reader struct {
	f       *os.File
	br      *bufio.Reader
	track   *Track
	pending *mp3lib.MP3Frame // first frame, consumed by the probe
	log     hclog.Logger
}

// Open opens an MP3 file and probes it for a default audio track.
//
// Any leading ID3v2 tag is skipped; the first MPEG audio frame supplies the
// sample rate, which fixes the stream time base at 1/sampleRate. Xing and
// VBRI info frames carry no audio and are not reported as packets.
//
// Returns the wrapped os error if the file cannot be opened, and ErrProbe if
// no MPEG audio frame can be parsed from the leading data.
func Open(path string, log hclog.Logger) (*Reader, error) {
	if path == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}

	r := &Reader{
		f:   f,
		br:  bufio.NewReaderSize(f, 64*1024),
		log: log,
	}

	if err := r.probe(); err != nil {
		f.Close()
		return nil, err
	}

	return r, nil
}

// probe skips the leading ID3v2 tag, reads the first audio frame, and
// records the track parameters.
func (r *Reader) probe() error {
	if lead, err := r.br.Peek(3); err == nil && string(lead) == "ID3" {
		tag := mp3lib.NextID3v2Tag(r.br)
		if tag == nil {
			return fmt.Errorf("%w: malformed ID3v2 header", ErrProbe)
		}
		r.log.Debug("skipped leading ID3v2 tag", "bytes", len(tag.RawBytes))
	}

	frame := r.nextAudioFrame()
	if frame == nil {
		return fmt.Errorf("%w: no MPEG audio frame found", ErrProbe)
	}

	r.pending = frame
	r.track = &Track{
		SampleRate: frame.SamplingRate,
		Bitrate:    frame.BitRate / 1000,
		TimeBase:   models.TimeBase{Numer: 1, Denom: int64(frame.SamplingRate)},
	}

	r.log.Debug("probed track",
		"sample_rate", r.track.SampleRate,
		"bitrate_kbps", r.track.Bitrate,
		"samples_per_frame", frame.SampleCount,
	)
	return nil
}

// nextAudioFrame returns the next frame that carries audio, skipping Xing
// and VBRI info frames. Returns nil when the stream is exhausted.
func (r *Reader) nextAudioFrame() *mp3lib.MP3Frame {
	for {
		frame := mp3lib.NextFrame(r.br)
		if frame == nil {
			return nil
		}
		if mp3lib.IsXingHeader(frame) || mp3lib.IsVbriHeader(frame) {
			r.log.Debug("skipped VBR info frame", "bytes", frame.FrameLength)
			continue
		}
		return frame
	}
}

// Track returns the codec parameters of the probed stream.
func (r *Reader) Track() *Track {
	return r.track
}

// NextPacket returns the next audio packet: the frame's raw bytes and its
// duration in time-base ticks (PCM samples).
//
// Returns io.EOF when the stream is exhausted.
func (r *Reader) NextPacket() (*models.Packet, error) {
	frame := r.pending
	r.pending = nil
	if frame == nil {
		frame = r.nextAudioFrame()
	}
	if frame == nil {
		return nil, io.EOF
	}

	return &models.Packet{
		Data: frame.RawBytes,
		Dur:  int64(frame.SampleCount),
	}, nil
}

// ReadAll drains the stream into a packet collection.
//
// Returns ErrEmptyStream if the source yields zero packets.
func (r *Reader) ReadAll() ([]*models.Packet, error) {
	var packets []*models.Packet
	for {
		pkt, err := r.NextPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		packets = append(packets, pkt)
	}

	if len(packets) == 0 {
		return nil, ErrEmptyStream
	}

	r.log.Debug("ingested packets", "count", len(packets))
	return packets, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
