package listing

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"load-manager/core/fault"
)

// Listing file format: one entry per line, tab separated, sorted by path:
//
//	<path>\t<size>\t<checksum>
//
// The checksum column is "-" when unavailable. The format is line oriented
// and sorted so listing files diff cleanly across runs.
const noChecksum = "-"

// Write encodes the set to w, sorted by path.
func Write(w io.Writer, set Set) error {
	bw := bufio.NewWriter(w)
	for _, p := range set.Paths() {
		e := set[p]
		sum := e.Checksum
		if sum == "" {
			sum = noChecksum
		}
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%s\n", p, e.Size, sum); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read decodes a listing from r. Malformed lines fail with a validation
// fault naming the line number.
func Read(r io.Reader) (Set, error) {
	set := Set{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, fault.New(fault.KindValidation, "listing.read", "",
				"line %d: expected 3 tab-separated fields, got %d", lineNo, len(fields))
		}

		p := NormalizePath(fields[0])
		if p == "" {
			return nil, fault.New(fault.KindValidation, "listing.read", "",
				"line %d: empty path", lineNo)
		}

		size, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || size < 0 {
			return nil, fault.New(fault.KindValidation, "listing.read", "",
				"line %d: invalid size %q", lineNo, fields[1])
		}

		sum := fields[2]
		if sum == noChecksum {
			sum = ""
		}

		set[p] = Entry{Size: size, Checksum: sum}
	}
	if err := scanner.Err(); err != nil {
		return nil, fault.Wrap(fault.KindInternal, "listing.read", "", err)
	}

	return set, nil
}

// WriteFile persists the set to path atomically: the listing is written to a
// temporary file in the same directory and renamed into place only when
// complete, so an interrupted collection never leaves a truncated listing
// that could pass for a short but complete one.
func WriteFile(path string, set Set) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".partial-*")
	if err != nil {
		return fault.Wrap(fault.KindInternal, "listing.write", "", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, set); err != nil {
		tmp.Close()
		return fault.Wrap(fault.KindInternal, "listing.write", "", err)
	}
	if err := tmp.Close(); err != nil {
		return fault.Wrap(fault.KindInternal, "listing.write", "", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fault.Wrap(fault.KindInternal, "listing.write", "", err)
	}
	return nil
}

// ReadFile loads a listing file produced by WriteFile.
func ReadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.Wrap(fault.KindNotFound, "listing.read", "", err)
		}
		return nil, fault.Wrap(fault.KindInternal, "listing.read", "", err)
	}
	defer f.Close()
	return Read(f)
}
