/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"errors"
	"io/fs"

	"github.com/fulmenhq/rsaforge/internal/campaign"
	"github.com/fulmenhq/rsaforge/internal/iterate"
	"github.com/fulmenhq/rsaforge/internal/policy"
	"github.com/fulmenhq/rsaforge/internal/report"
	"github.com/fulmenhq/rsaforge/internal/request"
	"github.com/fulmenhq/rsaforge/pkg/exitcode"
	"github.com/fulmenhq/rsaforge/pkg/safeio"
)

var (
	errConfig     = errors.New("configuration error")
	errGateFailed = errors.New("quality gate failed")
	errUsage      = errors.New("invalid usage")
)

// exitCodeFor maps a command error onto a process exit code.
func exitCodeFor(err error) int {
	var verr *request.ValidationError
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, errGateFailed):
		return exitcode.GateFailed
	case errors.Is(err, errConfig), errors.Is(err, policy.ErrInvalidPolicy):
		return exitcode.ConfigError
	case errors.Is(err, request.ErrUnsupportedFormat), errors.Is(err, report.ErrUnknownFormat):
		return exitcode.UnsupportedFormat
	case errors.As(err, &verr),
		errors.Is(err, request.ErrMissingLocation),
		errors.Is(err, iterate.ErrInvalidIterations),
		errors.Is(err, errUsage),
		errors.Is(err, campaign.ErrInvalidURL):
		return exitcode.ValidationError
	case errors.Is(err, campaign.ErrURLNotAccessible):
		return exitcode.NetworkError
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, safeio.ErrPathTraversal),
		errors.Is(err, safeio.ErrOutsideBase),
		errors.Is(err, safeio.ErrTooLarge):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}
