package infomerge

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

func (dt DataType) String() string {
	switch dt {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	}
	return "invalid"
}

// Byte code signatures from https://stackoverflow.com/a/19127748/199475
var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

const sniffLength = 6

// DetectDataType peeks at the start of r, without consuming it, and reports
// which known compression format (if any) the stream uses.
func DetectDataType(r *bufio.Reader) (DataType, error) {
	head, err := r.Peek(sniffLength)
	if err != nil && err != io.EOF {
		return DataTypeInvalid, err
	}

	for dt, sig := range byteCodeSigs {
		if len(head) >= len(sig) && bytes.Equal(head[:len(sig)], sig) {
			return dt, nil
		}
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompress wraps r in the decompressor matching its leading bytes.
// Streams that match no known signature are treated as plain text.
func MaybeDecompress(r io.Reader) (io.Reader, DataType, error) {
	br := bufio.NewReaderSize(r, BufferSize)

	dt, err := DetectDataType(br)
	if err != nil {
		return nil, dt, pfx.Err(err)
	}

	var out io.Reader
	switch dt {
	case DataTypeGzip:
		out, err = gzip.NewReader(br)
	case DataTypeZip:
		out = zipstream.NewReader(br)
	case DataTypeBZip2:
		out = bzip2.NewReader(br)
	case DataTypeXZ:
		out, err = xz.NewReader(br, 0)
	case DataTypeZ:
		out, err = zlib.NewReader(br)
	default:
		out = br
	}
	if err != nil {
		return nil, dt, pfx.Err(err)
	}

	return out, dt, nil
}
