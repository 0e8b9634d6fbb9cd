package scraper

// scraping methods here are read-only and mostly stateless, the output
// is dependent solely on the input. the one piece of implied state is
// the http session (cookies, the opportunistic nonce).

// each scraping method generally has this structure:
// 1. transform input into an HTTP request (method, form fields, url)
// 2. make the request
// 3. make assertions on response validity (status, body shape)
// 4. transform the response body into output records

// the upstream offers no schema guarantee whatsoever, so step 4 never
// trusts a field to exist: anything missing becomes the sentinel and
// anything unrecognized rides along as an extra field.

import "fmt"

// Sentinel is stored in any canonical field that could not be
// extracted from the source markup. Fields are always present on a
// record, never omitted.
const Sentinel = "N/A"

// ErrUnreachable covers network failures, timeouts and non-2xx
// responses. The smallest iteration unit (one day, one batch) is
// skipped and marked failed; surrounding units proceed.
var ErrUnreachable = fmt.Errorf("upstream unreachable")

// ErrUnparseable covers decode and shape mismatches. A unit hitting it
// counts as zero fixtures unless every extraction strategy was
// exhausted.
var ErrUnparseable = fmt.Errorf("unparseable upstream response")
