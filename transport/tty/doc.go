// Package tty drives a raw POSIX terminal device, such as the USB serial
// adapter of a development board. It registers nothing on Windows.
package tty
