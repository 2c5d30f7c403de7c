package attachment

import (
	"context"
	"mime"
	"os"
	"path/filepath"
)

// LocalFile is a Source backed by a file on disk. Its declared media type
// comes from the file extension.
type LocalFile struct {
	Path     string
	Declared string
}

func NewLocalFile(path string) LocalFile {
	return LocalFile{
		Path:     path,
		Declared: mime.TypeByExtension(filepath.Ext(path)),
	}
}

func (f LocalFile) Name() string {
	return filepath.Base(f.Path)
}

func (f LocalFile) MediaType() string {
	return f.Declared
}

func (f LocalFile) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.Path)
}
