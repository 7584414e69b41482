// Package regtest runs a simulation regression case and compares its
// output against a stored gold file.
package regtest

// Version is the regtest release version.
const Version = "0.1.0"
