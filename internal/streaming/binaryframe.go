package streaming

import (
	"encoding/binary"
	"io"

	"github.com/gemc-project/gemc-core/internal/eventdata"
)

// binaryFrameMagic identifies a frame header, spec.md §4.5.
const binaryFrameMagic = 0xC0DA2019

// binarySuperMagicWord is the second word of the two-word super-magic
// prefix ({0xC0DA2019, 0xC0DA0001}) the first frame in a stream emits.
const binarySuperMagicWord = 0xC0DA0001

// binaryFormatVersion is this encoder's format_version header field.
const binaryFormatVersion = 1

// BinaryFrame is the "binary frame" format of spec.md §4.5: a fixed
// 52-byte packed frame header followed by uint32 payload words. The
// first frame additionally emits a two-word super-magic prefix.
//
// BinaryFrame only implements the per-frame fan-out; per-event hooks
// are no-ops so a BinaryFrame streamer configured with type=event would
// simply emit nothing, matching "extension is format-owned" rather than
// rejecting the configuration outright.
type BinaryFrame struct {
	recordCounter uint32
	emittedSuper  bool
	pending       *pendingFrame
}

func (b *BinaryFrame) Extension() string { return "bin" }

func (b *BinaryFrame) StartEvent(io.Writer, int) error                             { return nil }
func (b *BinaryFrame) PublishEventHeader(io.Writer, eventdata.EventHeader) error    { return nil }
func (b *BinaryFrame) PublishTruth(io.Writer, string, eventdata.TrueInfo) error     { return nil }
func (b *BinaryFrame) PublishDigitized(io.Writer, string, eventdata.Digitized) error { return nil }
func (b *BinaryFrame) EndEvent(io.Writer) error                                    { return nil }

// pendingFrame buffers one frame's payload words between StartStream and
// EndStream so the header's payload_length/total_length can be computed
// before anything is written.
type pendingFrame struct {
	words []uint32
}

func (b *BinaryFrame) StartStream(io.Writer) error {
	b.pending = &pendingFrame{}
	return nil
}

func (b *BinaryFrame) PublishFrameHeader(io.Writer, eventdata.FrameData) error {
	return nil
}

func (b *BinaryFrame) PublishPayload(_ io.Writer, p eventdata.Payload) error {
	b.pending.words = append(b.pending.words,
		uint32(p.Crate), uint32(p.Slot), uint32(p.Channel),
		uint32(p.Charge), uint32(p.Time))
	return nil
}

// EndStream writes the super-magic prefix (first frame only), the
// 52-byte header, then the accumulated payload words.
func (b *BinaryFrame) EndStream(w io.Writer) error {
	pf := b.pending
	b.pending = nil

	if !b.emittedSuper {
		if err := binary.Write(w, binary.LittleEndian, uint32(binaryFrameMagic)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(binarySuperMagicWord)); err != nil {
			return err
		}
		b.emittedSuper = true
	}

	payloadLength := uint32(len(pf.words) * 4)
	header := frameHeader{
		SourceID:         0,
		TotalLength:      frameHeaderSize + payloadLength,
		PayloadLength:    payloadLength,
		CompressedLength: payloadLength,
		Magic:            binaryFrameMagic,
		FormatVersion:    binaryFormatVersion,
		Flags:            0,
		RecordCounter:    b.recordCounter,
		TsSec:            0,
		TsNsec:           0,
	}
	b.recordCounter++
	if err := writeFrameHeader(w, header); err != nil {
		return err
	}
	for _, word := range pf.words {
		if err := binary.Write(w, binary.LittleEndian, word); err != nil {
			return err
		}
	}
	return nil
}

func (b *BinaryFrame) Close(io.Writer) error { return nil }

// frameHeaderSize is the fixed packed size of frameHeader in bytes,
// spec.md §4.5.
const frameHeaderSize = 52

// frameHeader is the fixed 52-byte packed frame header: four uint32
// fields, the magic, format_version/flags as uint16, the record
// counter, then a byte-swapped-half uint64 timestamp pair. Multi-byte
// integers are little-endian for 32-bit fields and byte-swapped halves
// for 64-bit fields, as the magic format defines.
type frameHeader struct {
	SourceID         uint32
	TotalLength      uint32
	PayloadLength    uint32
	CompressedLength uint32
	Magic            uint32
	FormatVersion    uint16
	Flags            uint16
	RecordCounter    uint32
	TsSec            uint64
	TsNsec           uint64
}

// writeFrameHeader packs h into its 52-byte wire form. TsSec/TsNsec are
// stored as two little-endian uint32 halves with the word order
// swapped, per the format's "byte-swapped halves for 64-bit fields"
// rule.
func writeFrameHeader(w io.Writer, h frameHeader) error {
	buf := make([]byte, frameHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.SourceID)
	binary.LittleEndian.PutUint32(buf[4:8], h.TotalLength)
	binary.LittleEndian.PutUint32(buf[8:12], h.PayloadLength)
	binary.LittleEndian.PutUint32(buf[12:16], h.CompressedLength)
	binary.LittleEndian.PutUint32(buf[16:20], h.Magic)
	binary.LittleEndian.PutUint16(buf[20:22], h.FormatVersion)
	binary.LittleEndian.PutUint16(buf[22:24], h.Flags)
	binary.LittleEndian.PutUint32(buf[24:28], h.RecordCounter)

	lo := uint32(h.TsSec)
	hi := uint32(h.TsSec >> 32)
	binary.LittleEndian.PutUint32(buf[28:32], hi)
	binary.LittleEndian.PutUint32(buf[32:36], lo)

	lo = uint32(h.TsNsec)
	hi = uint32(h.TsNsec >> 32)
	binary.LittleEndian.PutUint32(buf[36:40], hi)
	binary.LittleEndian.PutUint32(buf[40:44], lo)

	// Remaining 8 bytes reserved/padding to round out the fixed 52-byte
	// header; always zero.
	_, err := w.Write(buf)
	return err
}
