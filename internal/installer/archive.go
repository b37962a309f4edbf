// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	// maxExecutableBytes is the upper bound on an extracted executable
	// (500 MB). Prevents decompression bombs.
	maxExecutableBytes = 500 << 20

	// maxArchiveBytes is the upper bound on a .conda archive, which must
	// be buffered in full for random zip access.
	maxArchiveBytes = 1 << 30
)

// extractArchiveMember reads the archive from body and returns the
// contents of the single named member. The archive format is inferred
// from the URL: micromamba releases are bzip2 tarballs (also behind the
// extensionless "/latest" endpoint), conda-standalone ships either as a
// .tar.bz2 or as a .conda (a zip wrapping a zstd-compressed tarball).
func extractArchiveMember(url string, body io.Reader, member string) ([]byte, error) {
	switch {
	case strings.HasSuffix(url, "/latest") || strings.HasSuffix(url, ".tar.bz2"):
		return extractTarMember(tar.NewReader(bzip2.NewReader(body)), member)
	case strings.HasSuffix(url, ".conda"):
		return extractCondaMember(body, member)
	default:
		return nil, fmt.Errorf("unrecognized archive type for %s", url)
	}
}

// extractTarMember walks the tar stream until it finds the named regular
// file and returns its contents. Returns ErrMemberNotFound when the
// stream ends without a match.
func extractTarMember(tr *tar.Reader, member string) ([]byte, error) {
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive entry: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || hdr.Name != member {
			continue
		}
		data, err := io.ReadAll(io.LimitReader(tr, maxExecutableBytes))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", member, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%q: %w", member, ErrMemberNotFound)
}

// extractCondaMember opens a .conda archive (zip) and extracts member
// from the pkg-conda-standalone tarball inside it.
func extractCondaMember(body io.Reader, member string) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(body, maxArchiveBytes))
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "pkg-"+condaStandalonePackage) || !strings.HasSuffix(f.Name, ".tar.zst") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		defer rc.Close()

		zr, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", f.Name, err)
		}
		defer zr.Close()

		return extractTarMember(tar.NewReader(zr), member)
	}
	return nil, fmt.Errorf("no pkg-%s tarball in archive: %w", condaStandalonePackage, ErrMemberNotFound)
}
