package shader

import "fmt"

// FileOpenError reports a shader file that could not be opened or read.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("unable to open %s for reading: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error { return e.Err }

// AllocationError reports that the buffer holding a shader source could not
// grow to fit the file.
type AllocationError struct {
	Path string
	Size int64 // bytes accumulated when growth failed
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("unable to grow source buffer for %s past %d bytes", e.Path, e.Size)
}

// TranslateError reports a source that the configured Translator rejected.
type TranslateError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *TranslateError) Error() string {
	return fmt.Sprintf("unable to translate %s shader %s: %v", e.Stage, e.Path, e.Err)
}

func (e *TranslateError) Unwrap() error { return e.Err }

// CompileError carries the compiler's info log for a stage that failed to
// compile.
type CompileError struct {
	Stage Stage
	Path  string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("unable to compile %s shader %s: %s", e.Stage, e.Path, e.Log)
}

// LinkError carries the linker's info log for a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program linking failed: %s", e.Log)
}
