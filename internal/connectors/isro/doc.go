// Package isro downloads the public ISRO record API into a corpus
// directory.
//
// Each endpoint (spacecrafts, launchers, customer_satellites, centres) is
// saved as <name>.json, which is the layout the filesystem connector reads.
// Requests are paced by a token bucket and a 429 response pushes the next
// request back by the server's Retry-After.
package isro
