// Package eodapi provides a client for the EOD Historical Data web API
// (eodhistoricaldata.com). It centralizes all upstream API interactions:
// exchange lists, per-exchange symbol lists, historical price series
// (end-of-day and intraday), market capitalization series, and fundamental
// data for single symbols or in bulk.
//
// The client is deliberately thin: it forms URLs, authenticates with the
// caller's API token, applies a client-side rate limit, and decodes JSON
// responses into typed records. Caching and request mediation live in the
// eodhist package.
package eodapi
