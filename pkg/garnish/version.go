// Package garnish carries module-level metadata shared by the library and
// the prep CLI.
package garnish

// Version is the released module version.
const Version = "v0.1.0"
