package cozmo

// Version is the current release of cozmo-tools.
const Version = "0.3.0"
