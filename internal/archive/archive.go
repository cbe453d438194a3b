package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsafePath is returned when an archive entry would escape the
	// extraction root.
	ErrUnsafePath = errors.New("archive entry escapes extraction root")
)

// Extract unpacks a zip archive into destDir, creating it if needed.
// Entry paths are validated so a crafted archive cannot write outside
// destDir. Returns the number of extracted files.
func Extract(zipPath, destDir string) (int, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, err
	}

	extracted := 0
	for _, file := range reader.File {
		target, err := safePath(destDir, file.Name)
		if err != nil {
			return extracted, err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return extracted, err
			}
			continue
		}

		if err := extractFile(file, target); err != nil {
			return extracted, fmt.Errorf("extracting %s: %w", file.Name, err)
		}
		extracted++
	}
	return extracted, nil
}

func extractFile(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// safePath joins an archive entry name onto the extraction root and
// rejects names that resolve outside it.
func safePath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

// Pack zips the contents of srcDir into w. Entry names are relative to
// srcDir with forward slashes, so the archive round-trips through
// Extract.
func Pack(srcDir string, w io.Writer) error {
	zw := zip.NewWriter(w)

	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		entry, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		_, err = io.Copy(entry, f)
		return err
	})
	if err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// PackToFile zips srcDir into a new file at zipPath.
func PackToFile(srcDir, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	if err := Pack(srcDir, out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
