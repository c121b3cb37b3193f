package adapter

import (
	"github.com/YuminosukeSato/featurizer/pkg/errors"
)

// ErrorInfoHandle refers to a failure recorded by a boundary call. The null
// handle means the call succeeded.
type ErrorInfoHandle Handle

// ErrorInfo is the recorded form of a failed boundary call.
type ErrorInfo struct {
	Kind    errors.Kind
	Message string
	Err     error
}

var errorInfos = NewHandleTable[*ErrorInfo]("error info")

func newErrorInfo(err error) ErrorInfoHandle {
	return ErrorInfoHandle(errorInfos.Insert(&ErrorInfo{
		Kind:    errors.KindOf(err),
		Message: err.Error(),
		Err:     err,
	}))
}

// GetErrorInfoString returns the UTF-8 message recorded for h.
func GetErrorInfoString(h ErrorInfoHandle) (string, error) {
	info, err := errorInfos.Get("GetErrorInfoString", Handle(h))
	if err != nil {
		return "", err
	}
	return info.Message, nil
}

// GetErrorInfo returns the full record for h.
func GetErrorInfo(h ErrorInfoHandle) (*ErrorInfo, error) {
	return errorInfos.Get("GetErrorInfo", Handle(h))
}

// DestroyErrorInfo releases h.
func DestroyErrorInfo(h ErrorInfoHandle) error {
	_, err := errorInfos.Remove("DestroyErrorInfo", Handle(h))
	return err
}

// OutstandingErrorInfos returns the number of error records not yet destroyed.
func OutstandingErrorInfos() int {
	return errorInfos.Len()
}
