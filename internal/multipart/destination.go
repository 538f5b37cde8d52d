package multipart

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// resolveDestination decides where a part's body should be written: the
// caller's OnHeader callback wins if it supplies a non-empty path,
// otherwise a collision-free path is generated under OutputDirectory.
func resolveDestination(fs FileSystem, settings Settings, filename string) (string, error) {
	if settings.OnHeader != nil {
		path, err := settings.OnHeader(filename)
		if err != nil {
			return "", ErrOperationAborted
		}
		if path != "" {
			return path, nil
		}
	}

	return generateFilePath(fs, settings.OutputDirectory, filename)
}

// generateFilePath joins filename under dir, appending "(N)" before the
// extension with the smallest N that makes the result not-yet-existing.
// This mirrors the original downloader's generate_file_path: no locking,
// no atomic create — just a deterministic probe-and-pick loop, since the
// caller owns serializing concurrent uploads to the same directory.
func generateFilePath(fs FileSystem, dir, filename string) (string, error) {
	candidate := filepath.Join(dir, filename)

	exists, err := fs.Exists(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
	}
	if !exists {
		return candidate, nil
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for n := 1; ; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s(%d)%s", stem, n, ext))

		exists, err = fs.Exists(candidate)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

// parseFilename extracts the value of the filename="..." attribute from a
// part header. It searches for the closing quote from the end of the
// remaining header rather than the first quote after the opening one,
// because the filename itself may legally contain double quotes.
func parseFilename(header []byte) (string, error) {
	const prefix = `filename="`

	idx := bytes.Index(header, []byte(prefix))
	if idx < 0 {
		return "", ErrInvalidStructure
	}

	rest := header[idx+len(prefix):]

	end := bytes.LastIndexByte(rest, '"')
	if end < 0 {
		return "", ErrInvalidStructure
	}

	return string(rest[:end]), nil
}
