// Package platform provides cross-platform file permission handling for
// generated output. On Unix systems modes are applied with chmod; on Windows,
// which has no Unix permission bits, they are ignored.
package platform
