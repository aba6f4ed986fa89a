// Package diag defines the diagnostic model shared by the input loader and
// the semantic pass.
//
// A Diagnostic carries a Severity, a numeric Code with a stable ID
// ("SEM3002"), a short message, the primary span and optional notes. Phases
// emit through a Reporter, usually via ReportError/ReportWarning and the
// ReportBuilder returned by them; BagReporter collects into a Bag, which
// can be sorted and deduplicated before rendering.
//
// Package diag does no formatting or IO; see internal/diagfmt.
package diag
