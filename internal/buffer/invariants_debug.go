//go:build tidedebug

package buffer

const debugInvariants = true
