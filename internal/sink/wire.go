package sink

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/roach88/emit/internal/capture"
	"github.com/roach88/emit/internal/ir"
)

// Codec identifies the payload encoding of a frame. Codec values are
// written into frame headers; changing them breaks existing streams.
type Codec uint8

const (
	// CodecCBOR encodes with CBOR Core Deterministic Encoding.
	CodecCBOR Codec = 1
	// CodecMsgpack encodes with MessagePack.
	CodecMsgpack Codec = 2
)

// String returns the codec name.
func (c Codec) String() string {
	switch c {
	case CodecCBOR:
		return "cbor"
	case CodecMsgpack:
		return "msgpack"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCodec converts a codec name. An empty name selects CBOR.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "", "cbor":
		return CodecCBOR, nil
	case "msgpack":
		return CodecMsgpack, nil
	default:
		return 0, fmt.Errorf("unknown codec: %q", name)
	}
}

// Compression identifies the payload compression of a frame.
type Compression uint8

const (
	// CompressionNone stores the payload as encoded.
	CompressionNone Compression = 0
	// CompressionZstd compresses the payload with zstd.
	CompressionZstd Compression = 1
)

// String returns the compression name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCompression converts a compression name. An empty name selects none.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// Frame layout: 4-byte big-endian payload length, 1-byte codec, 1-byte
// compression, payload.
const frameHeaderSize = 6

// maxFrameSize bounds a single frame payload when reading.
const maxFrameSize = 64 << 20

// wireRecord is the encoded form of one emission.
type wireRecord struct {
	Target   *string    `cbor:"target" msgpack:"target"`
	Template string     `cbor:"template" msgpack:"template"`
	Parts    []wirePart `cbor:"parts" msgpack:"parts"`
	KVs      []wireKV   `cbor:"kvs" msgpack:"kvs"`
	Index    []int      `cbor:"index" msgpack:"index"`
}

type wirePart struct {
	Hole bool   `cbor:"hole,omitempty" msgpack:"hole,omitempty"`
	Text string `cbor:"text,omitempty" msgpack:"text,omitempty"`
	Name string `cbor:"name,omitempty" msgpack:"name,omitempty"`
}

type wireKV struct {
	Name  string   `cbor:"name" msgpack:"name"`
	Value any      `cbor:"value" msgpack:"value"`
	Attrs []string `cbor:"attrs,omitempty" msgpack:"attrs,omitempty"`
}

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode

	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error

	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("sink: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("sink: CBOR decoder initialization failed: " + err.Error())
	}

	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("sink: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("sink: zstd decoder initialization failed: " + err.Error())
	}
}

// WireOptions configure a Wire sink.
type WireOptions struct {
	Codec       Codec
	Compression Compression
}

// Wire writes each record as one length-prefixed binary frame.
//
// Write failures are logged and remembered; Err returns the first one.
// Records after a failure are still attempted.
//
// Thread-safety: Emit is safe for concurrent use; frames never interleave.
type Wire struct {
	mu     sync.Mutex
	w      io.Writer
	opts   WireOptions
	err    error
	frames int64
}

// NewWire creates a Wire sink writing to w.
func NewWire(w io.Writer, opts WireOptions) *Wire {
	if opts.Codec == 0 {
		opts.Codec = CodecCBOR
	}
	return &Wire{w: w, opts: opts}
}

// Emit implements engine.Sink.
func (s *Wire) Emit(target *string, _ []string, _ []ir.Value, rec *ir.Record) {
	frame, err := EncodeFrame(target, rec, s.opts)
	if err == nil {
		s.mu.Lock()
		_, err = s.w.Write(frame)
		if err == nil {
			s.frames++
		}
		s.mu.Unlock()
	}
	if err != nil {
		slog.Error("wire sink write failed", "template", rec.Template, "error", err)
		s.mu.Lock()
		if s.err == nil {
			s.err = err
		}
		s.mu.Unlock()
	}
}

// Err returns the first write failure, if any.
func (s *Wire) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Frames returns the number of frames written.
func (s *Wire) Frames() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Close closes the underlying writer if it is an io.Closer.
func (s *Wire) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// EncodeFrame encodes one record as a complete frame. A zero Codec
// means CBOR.
func EncodeFrame(target *string, rec *ir.Record, opts WireOptions) ([]byte, error) {
	if opts.Codec == 0 {
		opts.Codec = CodecCBOR
	}
	wr := toWire(target, rec)

	var payload []byte
	var err error
	switch opts.Codec {
	case CodecCBOR:
		payload, err = cborEnc.Marshal(wr)
	case CodecMsgpack:
		payload, err = msgpack.Marshal(wr)
	default:
		return nil, fmt.Errorf("encode frame: unknown codec %d", opts.Codec)
	}
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	switch opts.Compression {
	case CompressionNone:
	case CompressionZstd:
		payload = zstdEncoder.EncodeAll(payload, nil)
	default:
		return nil, fmt.Errorf("encode frame: unknown compression %d", opts.Compression)
	}

	frame := make([]byte, frameHeaderSize, frameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	frame[4] = byte(opts.Codec)
	frame[5] = byte(opts.Compression)
	return append(frame, payload...), nil
}

// Received is one decoded frame.
type Received struct {
	Target *string
	Record *ir.Record
}

// ReadFrames decodes every frame from r until EOF.
func ReadFrames(r io.Reader) ([]Received, error) {
	br := bufio.NewReader(r)
	var out []Received
	for {
		rcv, err := ReadFrame(br)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("frame %d: %w", len(out), err)
		}
		out = append(out, rcv)
	}
}

// ReadFrame decodes the next frame from r. It returns io.EOF when r is
// exhausted at a frame boundary.
func ReadFrame(r io.Reader) (Received, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Received{}, fmt.Errorf("truncated frame header: %w", err)
		}
		return Received{}, err
	}

	size := binary.BigEndian.Uint32(header[:4])
	if size > maxFrameSize {
		return Received{}, fmt.Errorf("frame of %d bytes exceeds limit", size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Received{}, fmt.Errorf("truncated frame payload: %w", err)
	}

	switch Compression(header[5]) {
	case CompressionNone:
	case CompressionZstd:
		var err error
		payload, err = zstdDecoder.DecodeAll(payload, nil)
		if err != nil {
			return Received{}, fmt.Errorf("zstd decompress: %w", err)
		}
	default:
		return Received{}, fmt.Errorf("unknown compression %d", header[5])
	}

	var wr wireRecord
	switch Codec(header[4]) {
	case CodecCBOR:
		if err := cborDec.Unmarshal(payload, &wr); err != nil {
			return Received{}, fmt.Errorf("cbor decode: %w", err)
		}
	case CodecMsgpack:
		if err := msgpack.Unmarshal(payload, &wr); err != nil {
			return Received{}, fmt.Errorf("msgpack decode: %w", err)
		}
	default:
		return Received{}, fmt.Errorf("unknown codec %d", header[4])
	}

	rec, err := fromWire(wr)
	if err != nil {
		return Received{}, err
	}
	return Received{Target: wr.Target, Record: rec}, nil
}

func toWire(target *string, rec *ir.Record) wireRecord {
	parts := make([]wirePart, len(rec.Parts))
	for i, p := range rec.Parts {
		if p.IsHole() {
			parts[i] = wirePart{Hole: true, Name: p.Name}
		} else {
			parts[i] = wirePart{Text: p.Text}
		}
	}
	kvs := make([]wireKV, len(rec.KVs))
	for i, kv := range rec.KVs {
		kvs[i] = wireKV{Name: kv.Name, Value: capture.ToGo(kv.Value), Attrs: kv.Attrs}
	}
	return wireRecord{
		Target:   target,
		Template: rec.Template,
		Parts:    parts,
		KVs:      kvs,
		Index:    rec.Index,
	}
}

func fromWire(wr wireRecord) (*ir.Record, error) {
	parts := make([]ir.Part, len(wr.Parts))
	for i, p := range wr.Parts {
		if p.Hole {
			parts[i] = ir.Hole(p.Name)
		} else {
			parts[i] = ir.Text(p.Text)
		}
	}
	kvs := make(ir.KeyValues, len(wr.KVs))
	for i, kv := range wr.KVs {
		v, err := capture.FromGo(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", kv.Name, err)
		}
		kvs[i] = ir.KeyValue{Name: kv.Name, Value: v, Attrs: kv.Attrs}
	}
	if len(kvs) != len(wr.Index) {
		return nil, fmt.Errorf("frame has %d key-values but %d index entries", len(kvs), len(wr.Index))
	}
	index := wr.Index
	if index == nil {
		index = []int{}
	}
	return &ir.Record{Template: wr.Template, Parts: parts, KVs: kvs, Index: index}, nil
}
