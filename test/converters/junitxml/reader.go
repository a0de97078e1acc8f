package junitxml

import (
	"github.com/bitrise-io/go-utils/fileutil"
)

type resultReader interface {
	ReadAll() ([]byte, error)
	String() string
}

type fileReader struct {
	Filename string
}

func (r *fileReader) ReadAll() ([]byte, error) {
	return fileutil.ReadBytesFromFile(r.Filename)
}

func (r *fileReader) String() string {
	return r.Filename
}
