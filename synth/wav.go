// wav.go - Mono 16-bit PCM WAV encoding

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package synth

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	WAV_HEADER_SIZE     = 44
	WAV_FORMAT_PCM      = 1
	WAV_CHANNELS        = 1
	WAV_BITS_PER_SAMPLE = 16
	WAV_BLOCK_ALIGN     = WAV_CHANNELS * WAV_BITS_PER_SAMPLE / 8
)

var ErrMalformedWAV = errors.New("malformed wav")

// WAVHeader is the decoded canonical 44-byte RIFF/WAVE header.
type WAVHeader struct {
	RIFFSize      uint32
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32 // Excludes the pad byte
}

// EncodeWAV serializes mono 16-bit samples as a complete WAV file. An odd
// sample count gets one trailing zero pad byte which DataSize does not count.
func EncodeWAV(samples []int16, sampleRate uint32) []byte {
	dataSize := len(samples) * 2
	pad := len(samples) % 2
	b := make([]byte, WAV_HEADER_SIZE+dataSize+pad)

	le := binary.LittleEndian
	copy(b[0:4], "RIFF")
	le.PutUint32(b[4:8], uint32(len(b)-8))
	copy(b[8:12], "WAVE")

	copy(b[12:16], "fmt ")
	le.PutUint32(b[16:20], 16)
	le.PutUint16(b[20:22], WAV_FORMAT_PCM)
	le.PutUint16(b[22:24], WAV_CHANNELS)
	le.PutUint32(b[24:28], sampleRate)
	le.PutUint32(b[28:32], sampleRate*WAV_BLOCK_ALIGN)
	le.PutUint16(b[32:34], WAV_BLOCK_ALIGN)
	le.PutUint16(b[34:36], WAV_BITS_PER_SAMPLE)

	copy(b[36:40], "data")
	le.PutUint32(b[40:44], uint32(dataSize))

	off := WAV_HEADER_SIZE
	for _, s := range samples {
		le.PutUint16(b[off:], uint16(s))
		off += 2
	}
	return b
}

// ParseWAVHeader decodes the fixed header written by EncodeWAV.
func ParseWAVHeader(b []byte) (WAVHeader, error) {
	var h WAVHeader
	if len(b) < WAV_HEADER_SIZE {
		return h, fmt.Errorf("%w: %d bytes is shorter than the header", ErrMalformedWAV, len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return h, fmt.Errorf("%w: missing RIFF/WAVE tags", ErrMalformedWAV)
	}
	if string(b[12:16]) != "fmt " || string(b[36:40]) != "data" {
		return h, fmt.Errorf("%w: unexpected chunk layout", ErrMalformedWAV)
	}
	le := binary.LittleEndian
	h = WAVHeader{
		RIFFSize:      le.Uint32(b[4:8]),
		Format:        le.Uint16(b[20:22]),
		Channels:      le.Uint16(b[22:24]),
		SampleRate:    le.Uint32(b[24:28]),
		ByteRate:      le.Uint32(b[28:32]),
		BlockAlign:    le.Uint16(b[32:34]),
		BitsPerSample: le.Uint16(b[34:36]),
		DataSize:      le.Uint32(b[40:44]),
	}
	if uint64(WAV_HEADER_SIZE)+uint64(h.DataSize) > uint64(len(b)) {
		return h, fmt.Errorf("%w: data chunk claims %d bytes, file has %d", ErrMalformedWAV, h.DataSize, len(b)-WAV_HEADER_SIZE)
	}
	return h, nil
}

// DecodeWAV returns the header and the 16-bit samples of a mono PCM file.
func DecodeWAV(b []byte) (WAVHeader, []int16, error) {
	h, err := ParseWAVHeader(b)
	if err != nil {
		return h, nil, err
	}
	if h.Format != WAV_FORMAT_PCM || h.BitsPerSample != WAV_BITS_PER_SAMPLE || h.Channels != WAV_CHANNELS {
		return h, nil, fmt.Errorf("%w: only mono 16-bit PCM is supported", ErrMalformedWAV)
	}
	data := b[WAV_HEADER_SIZE : WAV_HEADER_SIZE+int(h.DataSize)]
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return h, out, nil
}
