package relay

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/poseworks/go-posekit"
)

// Compact binary wire format for bandwidth constrained transports.  A full
// 33-point pose is 264 bytes of half precision coordinates per person
// against roughly 4KB of JSON.

const (
	binaryMagic0  = 'P'
	binaryMagic1  = 'K'
	binaryVersion = 1

	// header: magic(2) version(1) reserved(1) timestamp(8) frameCount(4)
	// width(2) height(2) personCount(1)
	binaryHeaderSize = 21

	// per landmark: x, y, z, visibility as float16
	binaryLandmarkSize = 8

	// per person flag bit marking a world landmark set following the
	// normalized one
	flagWorldLandmarks = 0x01
)

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// EncodeBinary packs the message into the compact binary format.  Every
// landmark set must be a complete 33-point set since the layout is fixed
// size.
func EncodeBinary(msg PoseMessage) ([]byte, error) {

	if len(msg.Poses) > 255 {
		return nil, fmt.Errorf("too many poses to encode: %d", len(msg.Poses))
	}

	size := binaryHeaderSize

	for _, p := range msg.Poses {
		if len(p.Landmarks) != posekit.LandmarkCount {
			return nil, fmt.Errorf("pose for person %d has %d landmarks, want %d",
				p.PersonID, len(p.Landmarks), posekit.LandmarkCount)
		}

		if len(p.WorldLandmarks) != 0 && len(p.WorldLandmarks) != posekit.LandmarkCount {
			return nil, fmt.Errorf("pose for person %d has %d world landmarks, want %d",
				p.PersonID, len(p.WorldLandmarks), posekit.LandmarkCount)
		}

		size += 5 + posekit.LandmarkCount*binaryLandmarkSize

		if len(p.WorldLandmarks) == posekit.LandmarkCount {
			size += posekit.LandmarkCount * binaryLandmarkSize
		}
	}

	buf := make([]byte, 0, size)

	buf = append(buf, binaryMagic0, binaryMagic1, binaryVersion, 0)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(msg.Timestamp))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(msg.FrameCount))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(msg.VideoInfo.Width))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(msg.VideoInfo.Height))
	buf = append(buf, byte(len(msg.Poses)))

	for _, p := range msg.Poses {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(p.PersonID)))

		flags := byte(0)

		if len(p.WorldLandmarks) == posekit.LandmarkCount {
			flags |= flagWorldLandmarks
		}

		buf = append(buf, flags)
		buf = appendLandmarks(buf, p.Landmarks)

		if flags&flagWorldLandmarks != 0 {
			buf = appendLandmarks(buf, p.WorldLandmarks)
		}
	}

	return buf, nil
}

// appendLandmarks packs one landmark set as half precision floats in
// landmark index order
func appendLandmarks(buf []byte, wls []WireLandmark) []byte {

	for _, wl := range wls {
		buf = binary.LittleEndian.AppendUint16(buf, float16.Fromfloat32(float32(wl.X)).Bits())
		buf = binary.LittleEndian.AppendUint16(buf, float16.Fromfloat32(float32(wl.Y)).Bits())
		buf = binary.LittleEndian.AppendUint16(buf, float16.Fromfloat32(float32(wl.Z)).Bits())
		buf = binary.LittleEndian.AppendUint16(buf, float16.Fromfloat32(float32(wl.Visibility)).Bits())
	}

	return buf
}

// DecodeBinary unpacks a compact binary message.  Landmark names are
// re-synthesized from the landmark index.
func DecodeBinary(data []byte) (PoseMessage, error) {

	if len(data) < binaryHeaderSize {
		return PoseMessage{}, fmt.Errorf("binary message too short: %d bytes", len(data))
	}

	if data[0] != binaryMagic0 || data[1] != binaryMagic1 {
		return PoseMessage{}, fmt.Errorf("bad binary message magic")
	}

	if data[2] != binaryVersion {
		return PoseMessage{}, fmt.Errorf("unsupported binary message version %d", data[2])
	}

	msg := PoseMessage{
		Timestamp:  math.Float64frombits(binary.LittleEndian.Uint64(data[4:12])),
		FrameCount: int(binary.LittleEndian.Uint32(data[12:16])),
		VideoInfo: VideoInfo{
			Width:  int(binary.LittleEndian.Uint16(data[16:18])),
			Height: int(binary.LittleEndian.Uint16(data[18:20])),
		},
	}

	personCount := int(data[20])
	off := binaryHeaderSize

	for i := 0; i < personCount; i++ {
		if len(data) < off+5 {
			return PoseMessage{}, fmt.Errorf("binary message truncated at person %d", i)
		}

		p := PersonPose{
			PersonID: int(int32(binary.LittleEndian.Uint32(data[off : off+4]))),
		}
		flags := data[off+4]
		off += 5

		var err error

		p.Landmarks, off, err = readLandmarks(data, off)

		if err != nil {
			return PoseMessage{}, fmt.Errorf("person %d: %w", i, err)
		}

		if flags&flagWorldLandmarks != 0 {
			p.WorldLandmarks, off, err = readLandmarks(data, off)

			if err != nil {
				return PoseMessage{}, fmt.Errorf("person %d world: %w", i, err)
			}
		}

		msg.Poses = append(msg.Poses, p)
	}

	return msg, nil
}

// readLandmarks unpacks one fixed size landmark set starting at off
func readLandmarks(data []byte, off int) ([]WireLandmark, int, error) {

	need := posekit.LandmarkCount * binaryLandmarkSize

	if len(data) < off+need {
		return nil, off, fmt.Errorf("landmark set truncated")
	}

	out := make([]WireLandmark, posekit.LandmarkCount)

	for j := 0; j < posekit.LandmarkCount; j++ {
		base := off + j*binaryLandmarkSize

		out[j] = WireLandmark{
			ID:         j,
			Name:       posekit.LandmarkName(j),
			X:          float64(f16LookupTable[binary.LittleEndian.Uint16(data[base:base+2])]),
			Y:          float64(f16LookupTable[binary.LittleEndian.Uint16(data[base+2:base+4])]),
			Z:          float64(f16LookupTable[binary.LittleEndian.Uint16(data[base+4:base+6])]),
			Visibility: float64(f16LookupTable[binary.LittleEndian.Uint16(data[base+6:base+8])]),
		}
	}

	return out, off + need, nil
}
