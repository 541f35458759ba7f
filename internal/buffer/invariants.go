//go:build !tidedebug

package buffer

// debugInvariants enables the full content scan after every edit.
// Build with -tags tidedebug to turn it on.
const debugInvariants = false
