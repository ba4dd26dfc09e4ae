package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/klauspost/compress/gzip"
	"github.com/prequel-dev/proio"
	"google.golang.org/protobuf/encoding/protowire"
)

// Demonstrate writing a gzip compressed bucket by hand.
func writeBucket(out io.Writer, records ...string) error {

	// Payload is the concatenation of length prefixed records.
	var payload []byte
	for _, r := range records {
		payload = binary.LittleEndian.AppendUint32(payload, uint32(len(r)))
		payload = append(payload, r...)
	}

	var zbuf bytes.Buffer
	zw := gzip.NewWriter(&zbuf)
	if _, err := zw.Write(payload); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	// Header fields: 1 nEvents, 2 bucketSize, 3 compression.
	var hdr []byte
	hdr = protowire.AppendTag(hdr, 1, protowire.VarintType)
	hdr = protowire.AppendVarint(hdr, uint64(len(records)))
	hdr = protowire.AppendTag(hdr, 2, protowire.VarintType)
	hdr = protowire.AppendVarint(hdr, uint64(zbuf.Len()))
	hdr = protowire.AppendTag(hdr, 3, protowire.VarintType)
	hdr = protowire.AppendVarint(hdr, uint64(proio.CompressionGzip))

	var bucket []byte
	bucket = append(bucket, proio.Magic[:]...)
	bucket = binary.LittleEndian.AppendUint32(bucket, uint32(len(hdr)))
	bucket = append(bucket, hdr...)
	bucket = append(bucket, zbuf.Bytes()...)

	_, err := out.Write(bucket)
	return err
}

// Demonstrate skipping and reading records.
func read(src io.Reader, dst io.Writer) error {

	rd := proio.NewRawReader(
		src,
		proio.WithLogger(log.NewLogfmtLogger(os.Stderr)),
	)

	// Always close to release resources; defer is added here in case of error.
	// A double close is noop and will cause no issues.
	defer rd.Close()

	// The first bucket holds two records and is skipped without decompression.
	if _, err := rd.Skip(2); err != nil {
		return err
	}

	for rec, err := range rd.All() {
		if err != nil {
			return err
		}
		fmt.Fprintln(dst, string(rec))
	}

	return rd.Close()
}

func main() {

	var (
		stream bytes.Buffer
		output bytes.Buffer
	)

	if err := writeBucket(&stream, "How", "now"); err != nil {
		panic(err)
	}

	// Garbage between buckets is tolerated.
	stream.WriteString("garbage")

	if err := writeBucket(&stream, "brown", "cow"); err != nil {
		panic(err)
	}

	if err := read(&stream, &output); err != nil {
		panic(err)
	}

	fmt.Print(output.String())
}
