package ioingest

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"

	"github.com/gaiaresources/biosys/pkg/errcode"
)

func SchemaError(dataset string, err error) error {
	msg := "The schema of dataset <em>%s</em> is not usable"
	vars := []any{dataset}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestSchemaError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: unusable dataset schema: %w",
			fn, err),
	}
}

func InferenceError(path string, err error) error {
	msg := "Cannot infer a schema from <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestInferenceError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot infer schema: %w",
			fn, err),
	}
}

func RecordsError(dataset string, err error) error {
	msg := "Cannot write records of dataset <em>%s</em>"
	vars := []any{dataset}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestRecordsError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write records: %w",
			fn, err),
	}
}

func SitesError(project string, err error) error {
	msg := "Cannot upload sites of project <em>%s</em>"
	vars := []any{project}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestSitesError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot upload sites: %w",
			fn, err),
	}
}
