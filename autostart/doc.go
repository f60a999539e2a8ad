// Package autostart registers the overlay to start with Windows through
// the per-user Run key. It is empty on other platforms.
package autostart
