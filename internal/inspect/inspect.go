package inspect

import (
	"archive/tar"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

var (
	ErrArchive      = errors.New("invalid image archive")
	ErrMissingIndex = errors.New("archive has no index.json")
	ErrMissingBlob  = errors.New("referenced blob not found in archive")
)

// Metadata blobs (indexes, manifests, configs) are small; anything larger
// is a layer and is skipped while scanning the archive.
const maxMetadataBlob = 4 << 20

// Docker's legacy media type for manifest lists, still produced by some
// tooling in place of the OCI index type.
const dockerManifestListType = "application/vnd.docker.distribution.manifest.list.v2+json"

// The launch metadata configured on an image.
type Report struct {
	Entrypoint   []string // Fixed entrypoint executable and arguments.
	Cmd          []string // Default arguments, overridable at run time.
	ExposedPorts []string // Declared ports, sorted (e.g. ["8000/tcp"]).
	Volumes      []string // Declared volume paths, sorted.
	WorkingDir   string   // Working directory for the launched process.
	Platform     string   // OS/architecture of the inspected manifest.
}

// Reads the launch metadata from the OCI archive at the given path.
func Archive(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	defer f.Close()

	return Read(f)
}

// Reads the launch metadata from an OCI archive stream.
//
// The stream is scanned once; metadata blobs are retained in memory and
// layer-sized entries are skipped.
func Read(r io.Reader) (*Report, error) {
	blobs, index, err := scanArchive(r)
	if err != nil {
		return nil, err
	}
	if index == nil {
		return nil, ErrMissingIndex
	}

	config, err := resolveConfig(blobs, *index)
	if err != nil {
		return nil, err
	}

	return report(config), nil
}

// Scans a tar stream, collecting metadata blobs and the top-level index.
func scanArchive(r io.Reader) (map[digest.Digest][]byte, *ocispec.Index, error) {
	blobs := make(map[digest.Digest][]byte)
	var index *ocispec.Index

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrArchive, err)
		}

		name := strings.TrimPrefix(hdr.Name, "./")

		switch {
		case name == ocispec.ImageIndexFile:
			var idx ocispec.Index
			if err := json.NewDecoder(tr).Decode(&idx); err != nil {
				return nil, nil, fmt.Errorf("%w: decoding index: %w", ErrArchive, err)
			}
			index = &idx

		case strings.HasPrefix(name, ocispec.ImageBlobsDir+"/") && hdr.Size <= maxMetadataBlob:
			d, ok := blobDigest(name)
			if !ok {
				continue
			}
			b, err := io.ReadAll(tr)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: reading blob %s: %w", ErrArchive, name, err)
			}
			blobs[d] = b
		}
	}

	return blobs, index, nil
}

// Recovers a digest from a blob path of the form "blobs/<alg>/<encoded>".
func blobDigest(name string) (digest.Digest, bool) {
	parts := strings.Split(name, "/")
	if len(parts) != 3 {
		return "", false
	}
	d := digest.NewDigestFromEncoded(digest.Algorithm(parts[1]), parts[2])
	if err := d.Validate(); err != nil {
		return "", false
	}
	return d, true
}

// Follows the index to the image config.
//
// Nested indexes (an index entry that is itself an index) are descended
// into; the first manifest found wins, since builder output is always
// single-platform per archive.
func resolveConfig(blobs map[digest.Digest][]byte, index ocispec.Index) (*ocispec.Image, error) {
	desc, err := firstManifest(blobs, index, 0)
	if err != nil {
		return nil, err
	}

	var manifest ocispec.Manifest
	if err := readBlob(blobs, *desc, &manifest); err != nil {
		return nil, err
	}

	var config ocispec.Image
	if err := readBlob(blobs, manifest.Config, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Returns the first non-index manifest descriptor reachable from an index.
func firstManifest(blobs map[digest.Digest][]byte, index ocispec.Index, depth int) (*ocispec.Descriptor, error) {
	if depth > 3 {
		return nil, fmt.Errorf("%w: index nesting too deep", ErrArchive)
	}
	if len(index.Manifests) == 0 {
		return nil, fmt.Errorf("%w: index has no manifests", ErrArchive)
	}

	desc := index.Manifests[0]
	if desc.MediaType != ocispec.MediaTypeImageIndex && desc.MediaType != dockerManifestListType {
		return &desc, nil
	}

	var nested ocispec.Index
	if err := readBlob(blobs, desc, &nested); err != nil {
		return nil, err
	}
	return firstManifest(blobs, nested, depth+1)
}

// Decodes a collected blob into v.
func readBlob(blobs map[digest.Digest][]byte, desc ocispec.Descriptor, v any) error {
	b, ok := blobs[desc.Digest]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingBlob, desc.Digest)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrArchive, desc.Digest, err)
	}
	return nil
}

// Builds the report from an image config.
func report(config *ocispec.Image) *Report {
	r := &Report{
		Entrypoint: config.Config.Entrypoint,
		Cmd:        config.Config.Cmd,
		WorkingDir: config.Config.WorkingDir,
	}

	for p := range config.Config.ExposedPorts {
		r.ExposedPorts = append(r.ExposedPorts, p)
	}
	sort.Strings(r.ExposedPorts)

	for v := range config.Config.Volumes {
		r.Volumes = append(r.Volumes, v)
	}
	sort.Strings(r.Volumes)

	if config.OS != "" || config.Architecture != "" {
		r.Platform = config.OS + "/" + config.Architecture
	}

	return r
}
