package pacman

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicXz    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
	magicBzip2 = []byte("BZh")
)

// ParseDatabase parses a pacman sync database (<repo>.db). The archive is a
// tar file, optionally compressed with gzip, zstd, xz or bzip2.
func ParseDatabase(r io.Reader, repoName string) ([]*Package, error) {
	decompressed, closeFn, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	tarReader := tar.NewReader(decompressed)
	var packages []*Package

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}

		// Format: package-version/desc
		if !strings.HasSuffix(header.Name, "/desc") {
			continue
		}

		pkg, err := ParseDesc(tarReader)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", header.Name, err)
		}
		pkg.Repository = repoName
		packages = append(packages, pkg)
	}

	return packages, nil
}

// decompress sniffs the stream's magic bytes and wraps it in the matching decoder
func decompress(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(magicXz))
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("reading database header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, magicGzip):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gz, func() { gz.Close() }, nil

	case bytes.HasPrefix(head, magicZstd):
		zs, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return zs, zs.Close, nil

	case bytes.HasPrefix(head, magicXz):
		x, err := xz.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return x, func() {}, nil

	case bytes.HasPrefix(head, magicBzip2):
		return bzip2.NewReader(br), func() {}, nil
	}

	return br, func() {}, nil
}

// ParseDesc parses the text content of a 'desc' file
func ParseDesc(r io.Reader) (*Package, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	pkg := &Package{}
	var currentHeader string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Check for %HEADER%
		if len(line) > 1 && strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") {
			currentHeader = line
			continue
		}

		switch currentHeader {
		case "%NAME%":
			pkg.Name = line
		case "%VERSION%":
			pkg.Version = line
		case "%BASE%":
			pkg.Base = line
		case "%DESC%":
			pkg.Description = line
		case "%URL%":
			pkg.URL = line
		case "%ARCH%":
			pkg.Architecture = line
		case "%BUILDDATE%":
			pkg.BuildDate = parseInt(line)
		case "%INSTALLDATE%":
			pkg.InstallDate = parseInt(line)
		case "%PACKAGER%":
			pkg.Packager = line
		case "%SIZE%", "%ISIZE%":
			pkg.InstalledSize = parseInt(line)
		case "%CSIZE%":
			pkg.Size = parseInt(line)
		case "%FILENAME%":
			pkg.Filename = line
		case "%LICENSE%":
			pkg.License = append(pkg.License, line)
		case "%GROUPS%":
			pkg.Groups = append(pkg.Groups, line)
		case "%DEPENDS%":
			pkg.Depends = append(pkg.Depends, line)
		case "%OPTDEPENDS%":
			pkg.OptDepends = append(pkg.OptDepends, line)
		case "%MAKEDEPENDS%":
			pkg.MakeDepends = append(pkg.MakeDepends, line)
		case "%CHECKDEPENDS%":
			pkg.CheckDepends = append(pkg.CheckDepends, line)
		case "%CONFLICTS%":
			pkg.Conflicts = append(pkg.Conflicts, line)
		case "%PROVIDES%":
			pkg.Provides = append(pkg.Provides, line)
		case "%REPLACES%":
			pkg.Replaces = append(pkg.Replaces, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if pkg.Name == "" {
		return nil, fmt.Errorf("missing %%NAME%% section")
	}
	return pkg, nil
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
