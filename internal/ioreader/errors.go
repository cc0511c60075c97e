package ioreader

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"

	"github.com/gaiaresources/biosys/pkg/errcode"
)

func OpenError(path string, err error) error {
	msg := "Cannot open <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReaderOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open %s: %w",
			fn, path, err),
	}
}

func FormatError(path string, err error) error {
	msg := "Cannot read <em>%s</em>: only CSV and XLSX files are supported"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReaderFormatError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: unsupported file format: %w",
			fn, err),
	}
}

func HeaderError(path string, err error) error {
	msg := "Cannot read the column headers of <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReaderHeaderError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read headers: %w",
			fn, err),
	}
}
