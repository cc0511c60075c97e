package iospecies

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"

	"github.com/gaiaresources/biosys/pkg/errcode"
)

func FetchError(url string, err error) error {
	msg := "Cannot fetch species from <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SpeciesFetchError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot fetch species: %w",
			fn, err),
	}
}

func DecodeError(url string, err error) error {
	msg := "Cannot decode species response from <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SpeciesDecodeError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot decode species response: %w",
			fn, err),
	}
}

func CacheOpenError(path string, err error) error {
	msg := "Cannot open species cache <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SpeciesCacheOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open species cache: %w",
			fn, err),
	}
}

func CacheReadError(path string, err error) error {
	msg := "Cannot read species cache <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SpeciesCacheReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read species cache: %w",
			fn, err),
	}
}

func CacheWriteError(path string, err error) error {
	msg := "Cannot write species cache <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SpeciesCacheWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write species cache: %w",
			fn, err),
	}
}
