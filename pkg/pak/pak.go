// Package pak provides reading functionality for Quake PAK archives.
package pak

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	pakMagic = "PACK"

	headerSize = 12
	entrySize  = 64
	nameSize   = 56
)

// PAK format errors.
var (
	ErrInvalidMagic       = errors.New("invalid PAK magic: expected 'PACK'")
	ErrTruncatedDirectory = errors.New("truncated PAK directory")
	ErrEntryOutOfRange    = errors.New("PAK entry outside file bounds")
	ErrNotFound           = errors.New("file not found in archive")
)

// Archive represents an opened PAK archive.
//
// The backing file has a single read cursor, so Read serializes callers
// behind a mutex: seek and read form one critical section.
type Archive struct {
	mu        sync.Mutex
	file      *os.File
	size      int64
	directory map[string]Entry
}

// Entry describes a named byte range inside the archive.
type Entry struct {
	Name   string
	Offset int32
	Size   int32
}

// Open opens a PAK archive and builds its directory.
// Duplicate names overwrite earlier entries (last-write-wins).
func Open(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	archive := &Archive{
		file:      file,
		size:      info.Size(),
		directory: make(map[string]Entry),
	}

	if err := archive.readDirectory(); err != nil {
		file.Close()
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	return archive, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}

func (a *Archive) readDirectory() error {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(a.file, header); err != nil {
		return fmt.Errorf("%w: reading header", ErrTruncatedDirectory)
	}

	if string(header[0:4]) != pakMagic {
		return ErrInvalidMagic
	}

	dirOffset := int32(binary.LittleEndian.Uint32(header[4:8]))
	dirSize := int32(binary.LittleEndian.Uint32(header[8:12]))
	numFiles := dirSize / entrySize

	if dirOffset < 0 || dirSize < 0 || int64(dirOffset)+int64(dirSize) > a.size {
		return fmt.Errorf("%w: directory at %d+%d", ErrEntryOutOfRange, dirOffset, dirSize)
	}

	if _, err := a.file.Seek(int64(dirOffset), io.SeekStart); err != nil {
		return fmt.Errorf("seeking to directory: %w", err)
	}

	record := make([]byte, entrySize)
	for i := int32(0); i < numFiles; i++ {
		if _, err := io.ReadFull(a.file, record); err != nil {
			return fmt.Errorf("%w: entry %d", ErrTruncatedDirectory, i)
		}

		name := record[:nameSize]
		if end := bytes.IndexByte(name, 0); end >= 0 {
			name = name[:end]
		}

		entry := Entry{
			Name:   string(name),
			Offset: int32(binary.LittleEndian.Uint32(record[56:60])),
			Size:   int32(binary.LittleEndian.Uint32(record[60:64])),
		}

		if entry.Offset < 0 || entry.Size < 0 || int64(entry.Offset)+int64(entry.Size) > a.size {
			return fmt.Errorf("%w: %s at %d+%d", ErrEntryOutOfRange, entry.Name, entry.Offset, entry.Size)
		}

		a.directory[entry.Name] = entry
	}

	return nil
}

// List returns all file names in the archive.
func (a *Archive) List() []string {
	result := make([]string, 0, len(a.directory))
	for name := range a.directory {
		result = append(result, name)
	}
	return result
}

// Contains checks if a file exists.
func (a *Archive) Contains(name string) bool {
	_, ok := a.directory[name]
	return ok
}

// Stat returns the directory entry for a file.
func (a *Archive) Stat(name string) (Entry, bool) {
	entry, ok := a.directory[name]
	return entry, ok
}

// Read reads a file from the archive into an owned buffer.
func (a *Archive) Read(name string) ([]byte, error) {
	entry, ok := a.directory[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.file.Seek(int64(entry.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to %s: %w", name, err)
	}

	data := make([]byte, entry.Size)
	if _, err := io.ReadFull(a.file, data); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	return data, nil
}
