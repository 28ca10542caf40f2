/*Package numeric provides deterministic, bit-reproducible fixed-point
arithmetic for the hot paths of the position-conversion and compensation
pipelines.

Floating point is avoided here on purpose: the conversion pipeline and the
DSC loop must produce the same position for the same raw samples on every
platform this ever runs on, and must saturate predictably on overflow rather
than raise an exception or silently wrap. The routines in this package are a
direct descendant of the "poor man's floating point" idiom: every value is
carried as an unsigned mantissa together with a power-of-two shift, and the
shift is only resolved back to a plain integer (Denormalise) once a whole
expression has been evaluated, so that intermediate roundoff is minimised.

Reciprocal, Log2 and Exp2 are table-seeded, Newton-refined or
linearly-interpolated; the lookup tables in tables.go are produced by
cmd/gentables and committed rather than computed at init time, matching the
"generate once, run fast" approach used throughout the DSC hot path.
*/
package numeric
