package server

import (
	"fmt"
	"strings"
)

type errCode struct {
	code uint16
	msg  string
}

var (
	BadRequest          = errCode{code: 1, msg: "Bad Request."}
	InternalServerError = errCode{code: 2, msg: "Internal Server Error."}
	Required            = errCode{code: 3, msg: "This field is required."}
	Gte                 = errCode{code: 4, msg: "This field must be greater than or equal to %s."}
	Lte                 = errCode{code: 5, msg: "This field must be less than or equal to %s."}
	Min                 = errCode{code: 6, msg: "This field must contain at least %s items."}
	Max                 = errCode{code: 7, msg: "This field must contain %s items or less."}
	RatioStep           = errCode{code: 8, msg: "This field must be a multiple of 0.1."}
	EmptyText           = errCode{code: 9, msg: "The poem text must not be blank."}
	InvalidRatio        = errCode{code: 10, msg: "The ratio must be within [0, 1]."}
	ConversionFailed    = errCode{code: 11, msg: "Failed to resolve the reading of the poem."}
)

// Err is one entry of the errors array in every response envelope.
type Err struct {
	Field   string `json:"field"`
	Code    uint16 `json:"code"`
	Message string `json:"message"`
}

func (e errCode) Code() uint16 { return e.code }

func (e errCode) Err(field string, params ...any) Err {
	msg := e.msg
	if len(params) > 0 && strings.Contains(e.msg, "%") {
		msg = fmt.Sprintf(e.msg, params...)
	}
	return Err{Field: field, Code: e.code, Message: msg}
}

func tagCode(tag string) errCode {
	switch tag {
	case "required":
		return Required
	case "gte":
		return Gte
	case "lte":
		return Lte
	case "min":
		return Min
	case "max":
		return Max
	case "ratio_step":
		return RatioStep
	}
	return BadRequest
}
