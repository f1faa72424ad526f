package shader

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// blockSize is the read granularity of LoadSource.
const blockSize = 512

// Source is the text of one shader file. The backing buffer always ends with
// a NUL byte following the file contents.
type Source struct {
	Path string
	data []byte
}

// Len returns the number of bytes read from the file.
func (s *Source) Len() int {
	if len(s.data) == 0 {
		return 0
	}
	return len(s.data) - 1
}

// Bytes returns the file contents without the terminating NUL.
func (s *Source) Bytes() []byte {
	if len(s.data) == 0 {
		return nil
	}
	return s.data[:len(s.data)-1]
}

// CString returns the file contents including the terminating NUL.
func (s *Source) CString() []byte { return s.data }

func (s *Source) String() string { return string(s.Bytes()) }

// Release drops the buffer. The Source is empty afterwards.
func (s *Source) Release() { s.data = nil }

func readSource(path string, limit int64) (src *Source, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileOpenError{Path: path, Err: err}
	}
	defer f.Close()

	var buf bytes.Buffer
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); !ok || !errors.Is(e, bytes.ErrTooLarge) {
			panic(r)
		}
		src, err = nil, &AllocationError{Path: path, Size: int64(buf.Len())}
	}()

	block := make([]byte, blockSize)
	for {
		n, rerr := f.Read(block)
		if n > 0 {
			if limit > 0 && int64(buf.Len()+n) > limit {
				return nil, &AllocationError{Path: path, Size: int64(buf.Len())}
			}
			buf.Write(block[:n])
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, &FileOpenError{Path: path, Err: rerr}
		}
	}
	buf.WriteByte(0)
	return &Source{Path: path, data: buf.Bytes()}, nil
}
