// Package services implements the driving port interfaces.
// Services contain the Vedika pipeline logic: normalising records,
// assigning identifiers, ingesting batches, retrieving documents and
// synthesising answers. They orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO.
package services
