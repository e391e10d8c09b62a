package resources

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Source opens resource files by slash-separated name, e.g. "el/noun_index.txt".
// A missing file is reported with an error wrapping fs.ErrNotExist.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

type DirSource struct {
	Root string
}

func (src DirSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(src.Root, filepath.FromSlash(name)))
}

func (src DirSource) String() string {
	return src.Root
}

type Downloader interface {
	Download(key string) ([]byte, error)
}

// S3Source reads resources stored under Prefix in the service bucket.
type S3Source struct {
	Client Downloader
	Prefix string
}

func (src S3Source) Open(name string) (io.ReadCloser, error) {
	key := path.Join(src.Prefix, name)
	data, err := src.Client.Download(key)
	if err != nil {
		return nil, fmt.Errorf("resource %s: %w", key, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (src S3Source) String() string {
	return "s3://" + src.Prefix
}

func isNotExist(err error) bool {
	return err != nil && errors.Is(err, fs.ErrNotExist)
}
