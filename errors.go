package svg

import "errors"

// ErrParse indicates a malformed or empty document. Parse entry points
// return it wrapped with detail; the returned image is always nil in
// that case, never partially populated.
var ErrParse = errors.New("svg: parse failed")

// ErrInvalidArgument indicates rasterizer misuse: nil image, bad
// dimensions or an undersized destination buffer. It is reported before
// any buffer writes occur.
var ErrInvalidArgument = errors.New("svg: invalid argument")
