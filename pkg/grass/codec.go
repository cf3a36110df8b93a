package grass

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

const dumpVersion = 1

// DumpHeader is the first line of an instance dump, readable with zstdcat
type DumpHeader struct {
	Version   int     `json:"version"`
	Count     int     `json:"count"`
	PlaneSize float64 `json:"plane_size"`
	Seed      uint64  `json:"seed"`
}

type dump struct {
	Header    DumpHeader
	Instances []Instance
}

// WriteInstances writes a zstd stream: a JSON header line followed by the
// gob-encoded blades.
func WriteInstances(w io.Writer, p Params, instances []Instance) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %v", err)
	}

	bw := bufio.NewWriterSize(enc, 256*1024)
	d := dump{
		Header: DumpHeader{
			Version:   dumpVersion,
			Count:     len(instances),
			PlaneSize: p.PlaneSize,
			Seed:      p.Seed,
		},
		Instances: instances,
	}

	hb, err := json.Marshal(d.Header)
	if err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode dump header: %v", err)
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write dump header: %v", err)
	}
	if err := gob.NewEncoder(bw).Encode(&d); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode instances: %v", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("failed to flush instances: %v", err)
	}
	return enc.Close()
}

// ReadInstances reads a stream written by WriteInstances
func ReadInstances(r io.Reader) (DumpHeader, []Instance, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return DumpHeader{}, nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return DumpHeader{}, nil, fmt.Errorf("failed to read dump header: %v", err)
	}

	var header DumpHeader
	if err := json.Unmarshal(line, &header); err != nil {
		return DumpHeader{}, nil, fmt.Errorf("failed to parse dump header: %v", err)
	}
	if header.Version != dumpVersion {
		return header, nil, fmt.Errorf("unsupported dump version %d", header.Version)
	}

	var d dump
	if err := gob.NewDecoder(br).Decode(&d); err != nil {
		return header, nil, fmt.Errorf("failed to decode instances: %v", err)
	}
	if len(d.Instances) != header.Count {
		return header, nil, fmt.Errorf("dump header says %d blades, found %d", header.Count, len(d.Instances))
	}
	return header, d.Instances, nil
}
