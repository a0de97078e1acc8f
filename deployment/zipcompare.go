package deployment

import (
	"archive/zip"
	"fmt"
	"sort"
	"strings"
)

// ReadZipFunction ...
type ReadZipFunction func(pth string) ([]*zip.File, error)

// DefaultReadZipFunction ...
func DefaultReadZipFunction(pth string) ([]*zip.File, error) {
	reader, err := zip.OpenReader(pth)
	if err != nil {
		return nil, err
	}
	files := reader.File
	if err := reader.Close(); err != nil {
		return nil, err
	}
	return files, nil
}

// ZipComparator compares archives by the name, size and checksum of their entries.
type ZipComparator struct {
	readZipFunction ReadZipFunction
}

// NewZipComparator ...
func NewZipComparator(readZipFunction ReadZipFunction) ZipComparator {
	return ZipComparator{
		readZipFunction: readZipFunction,
	}
}

// ArchiveDiff lists the entries that differ between two archives.
type ArchiveDiff struct {
	Removed []string
	Changed []string
	Added   []string
}

// Empty ...
func (d ArchiveDiff) Empty() bool {
	return len(d.Removed) == 0 && len(d.Changed) == 0 && len(d.Added) == 0
}

func (d ArchiveDiff) String() string {
	if d.Empty() {
		return "No removed, changed or added files found"
	}

	var builder strings.Builder
	writeSection := func(title string, pths []string) {
		if len(pths) == 0 {
			return
		}
		builder.WriteString(title + " files:\n")
		for _, pth := range pths {
			builder.WriteString(fmt.Sprintf("- %s\n", pth))
		}
	}
	writeSection("removed", d.Removed)
	writeSection("changed", d.Changed)
	writeSection("added", d.Added)

	return builder.String()
}

// Diff compares the entries of the old and the new archive.
func (c ZipComparator) Diff(oldZip, newZip string) (ArchiveDiff, error) {
	oldEntries, err := c.entries(oldZip)
	if err != nil {
		return ArchiveDiff{}, fmt.Errorf("failed to read archive (%s): %w", oldZip, err)
	}

	newEntries, err := c.entries(newZip)
	if err != nil {
		return ArchiveDiff{}, fmt.Errorf("failed to read archive (%s): %w", newZip, err)
	}

	var diff ArchiveDiff
	for name, oldEntry := range oldEntries {
		newEntry, ok := newEntries[name]
		switch {
		case !ok:
			diff.Removed = append(diff.Removed, name)
		case oldEntry != newEntry:
			diff.Changed = append(diff.Changed, name)
		}
	}
	for name := range newEntries {
		if _, ok := oldEntries[name]; !ok {
			diff.Added = append(diff.Added, name)
		}
	}

	sort.Strings(diff.Removed)
	sort.Strings(diff.Changed)
	sort.Strings(diff.Added)

	return diff, nil
}

// Equals ...
func (c ZipComparator) Equals(aZip, bZip string) (bool, error) {
	diff, err := c.Diff(aZip, bZip)
	if err != nil {
		return false, err
	}
	return diff.Empty(), nil
}

type zipEntry struct {
	size  uint64
	crc32 uint32
}

func (c ZipComparator) entries(pth string) (map[string]zipEntry, error) {
	files, err := c.readZipFunction(pth)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]zipEntry, len(files))
	for _, f := range files {
		entries[f.FileHeader.Name] = zipEntry{
			size:  f.FileHeader.UncompressedSize64,
			crc32: f.FileHeader.CRC32,
		}
	}

	return entries, nil
}
