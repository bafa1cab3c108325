// Package target normalizes the site URLs that fact files and target
// lists refer to, so that evaluations of the same site share one history.
//
// Normalization keeps only the scheme, the host and the path of a URL:
// credentials, ports, query strings and fragments are dropped, and
// internationalized host names are converted to their ASCII form.
package target
