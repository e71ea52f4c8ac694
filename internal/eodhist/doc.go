// Package eodhist is the cache-aware front door to the EOD Historical Data
// API. It presents one unified Helper over the upstream endpoints and keeps
// every downloaded dataset in a local snapshot cache, refetching only when
// the cached copy is older than the caller's staleness threshold.
//
// Each operation follows the same synchronous sequence: derive the cache
// location from the request parameters, look for a snapshot inside the
// staleness window, and either decode the cached file or fetch from the
// upstream API and persist the result. Upstream and filesystem errors
// surface to the caller unchanged; there are no retries or fallbacks.
package eodhist
