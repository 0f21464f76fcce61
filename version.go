package terse

// Version is the release of the module.
const Version = "0.1.0"
