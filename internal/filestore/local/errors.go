package local

import (
	"context"
	"errors"
	"io/fs"

	"github.com/openmedex/ftsmeta/internal/errs"
)

// mapError translates OS-level errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}
	if errors.Is(err, fs.ErrPermission) {
		return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
	}
	if errors.Is(err, fs.ErrInvalid) {
		return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
