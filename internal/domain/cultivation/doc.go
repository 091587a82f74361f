// Package cultivation holds the crop and batch aggregates of the traceability
// domain: plantings, the harvest lots derived from them and the tracking codes
// printed on each lot.
package cultivation
