// Package vfs abstracts the directories the browser reads: the tag
// directory and the converted texture tree. Read-only, the browser never
// mutates game data.
package vfs

import (
	"io"
)

type Element interface {
	Init(parent Directory)
	Name() string
	IsDirectory() bool
}

type File interface {
	Element
	Size() int64
	Open() error
	Close() error
	Reader() (*io.SectionReader, error)
	ReadAt(b []byte, off int64) (n int, err error)
}

type Directory interface {
	Element
	List() ([]string, error)
	GetElement(name string) (Element, error)
}
