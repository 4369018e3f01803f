// Package connectors provides the sources Vedika reads ISRO records from.
//
//   - filesystem: a directory of JSON batch files, one per category
//   - isro: a fetcher that downloads the batches from the public ISRO API
package connectors
