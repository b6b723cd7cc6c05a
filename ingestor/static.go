package ingestor

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadKeys reads all keys from r. Text formats take one key per line and skip
// blank lines and lines starting with '#'. Binary reads packed little-endian
// 32-bit words.
func ReadKeys(r io.Reader, f Format) ([]uint32, error) {
	if f == Binary {
		return readBinary(r)
	}

	var keys []uint32
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		k, err := ParseKey(line, f)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		keys = append(keys, k)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func readBinary(r io.Reader) ([]uint32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("binary input has %d trailing bytes", len(data)%4)
	}

	keys := make([]uint32, len(data)/4)
	for i := range keys {
		keys[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return keys, nil
}

// ReadKeysFile reads keys from the file at path, or stdin when path is "-".
func ReadKeysFile(path string, f Format) ([]uint32, error) {
	if path == "-" {
		return ReadKeys(os.Stdin, f)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	keys, err := ReadKeys(file, f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return keys, nil
}

// WriteKeys writes keys to w in format f.
func WriteKeys(w io.Writer, keys []uint32, f Format) error {
	bw := bufio.NewWriterSize(w, 64*1024)

	if f == Binary {
		var buf [4]byte
		for _, k := range keys {
			binary.LittleEndian.PutUint32(buf[:], k)
			if _, err := bw.Write(buf[:]); err != nil {
				return err
			}
		}
		return bw.Flush()
	}

	for _, k := range keys {
		if _, err := bw.WriteString(FormatKey(k, f)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteKeysFile writes keys to path, or stdout when path is "" or "-".
func WriteKeysFile(path string, keys []uint32, f Format) error {
	if path == "" || path == "-" {
		return WriteKeys(os.Stdout, keys, f)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteKeys(file, keys, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}
