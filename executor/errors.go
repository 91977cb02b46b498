/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package executor

import (
	"github.com/botobag/placeholder-gateway/apierror"

	"github.com/graphql-go/graphql/gqlerrors"
)

// maxOriginDepth bounds the walk in originOf.
const maxOriginDepth = 16

// originOf finds the *apierror.Error that err was created from. The engine wraps resolver errors in
// its own error types (sometimes more than once), which hide the extensions of the original error.
func originOf(err error) (*apierror.Error, bool) {
	for i := 0; i < maxOriginDepth && err != nil; i++ {
		switch e := err.(type) {
		case *apierror.Error:
			return e, true
		case gqlerrors.FormattedError:
			err = e.OriginalError()
		case *gqlerrors.FormattedError:
			err = e.OriginalError()
		case *gqlerrors.Error:
			err = e.OriginalError
		default:
			return apierror.As(err)
		}
	}
	return nil, false
}

// withCode sets the "code" of kind to the extensions of each error that does not have one.
func withCode(errs []gqlerrors.FormattedError, kind apierror.Kind) []gqlerrors.FormattedError {
	for i := range errs {
		if _, ok := errs[i].Extensions["code"]; ok {
			continue
		}
		if errs[i].Extensions == nil {
			errs[i].Extensions = map[string]interface{}{}
		}
		errs[i].Extensions["code"] = kind.Code()
	}
	return errs
}

// withOriginExtensions restores the extensions of the errors returned from resolvers.
func withOriginExtensions(errs []gqlerrors.FormattedError) []gqlerrors.FormattedError {
	for i := range errs {
		if len(errs[i].Extensions) > 0 {
			continue
		}
		if origin, ok := originOf(errs[i].OriginalError()); ok {
			if extensions := origin.Extensions(); extensions != nil {
				errs[i].Extensions = extensions
				continue
			}
		}
		errs[i].Extensions = map[string]interface{}{
			"code": apierror.KindInternal.Code(),
		}
	}
	return errs
}

// FormatError formats err as a response error carrying the extensions of the *apierror.Error it was
// created from, or "INTERNAL_ERROR" when there is none.
func FormatError(err error) gqlerrors.FormattedError {
	return withOriginExtensions(gqlerrors.FormatErrors(err))[0]
}
