package domain

import "errors"

var (
	ErrUnknownModel     = errors.New("unknown model")
	ErrUnsupportedModel = errors.New("unsupported model")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrConfigParse      = errors.New("catalog parse error")
	ErrNoModelSelected  = errors.New("no model selected")
	ErrNoWorkload       = errors.New("no workload set")
)
