package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
)

// Playback format of every audio payload. It is fixed and never signaled in-band.
const (
	SampleRate    = 24000
	Channels      = 1
	BitsPerSample = 16
)

// EncodePCM returns base64 of the samples as 16-bit signed little-endian bytes.
func EncodePCM(samples []int16) string {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodePCM is the inverse of EncodePCM.
func DecodePCM(payload string) ([]int16, error) {
	raw, err := DecodeBase64(payload)
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("pcm payload has odd length %d", len(raw))
	}
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return samples, nil
}

// DecodeBase64 decodes a stored audio payload to raw bytes.
func DecodeBase64(payload string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 audio payload: %w", err)
	}
	return raw, nil
}

// PCMToWAV wraps raw PCM in a RIFF/WAVE header for the fixed playback format.
func PCMToWAV(pcm []byte) []byte {
	blockAlign := Channels * BitsPerSample / 8
	byteRate := SampleRate * blockAlign
	dataSize := uint32(len(pcm))

	header := new(bytes.Buffer)
	header.Grow(44 + len(pcm))
	header.WriteString("RIFF")
	binary.Write(header, binary.LittleEndian, 36+dataSize)
	header.WriteString("WAVE")
	header.WriteString("fmt ")
	binary.Write(header, binary.LittleEndian, uint32(16))
	binary.Write(header, binary.LittleEndian, uint16(1))
	binary.Write(header, binary.LittleEndian, uint16(Channels))
	binary.Write(header, binary.LittleEndian, uint32(SampleRate))
	binary.Write(header, binary.LittleEndian, uint32(byteRate))
	binary.Write(header, binary.LittleEndian, uint16(blockAlign))
	binary.Write(header, binary.LittleEndian, uint16(BitsPerSample))
	header.WriteString("data")
	binary.Write(header, binary.LittleEndian, dataSize)
	header.Write(pcm)

	return header.Bytes()
}

// AsWAV returns data unchanged when it is already a RIFF/WAVE file (Kokoro output),
// otherwise it treats data as raw PCM and wraps it.
func AsWAV(data []byte) []byte {
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE" {
		return data
	}
	return PCMToWAV(data)
}

// DecodeDataURI splits a base64 data URI (data:image/png;base64,...) into its MIME type and bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid data URI payload: %w", err)
	}
	return mimeType, data, nil
}
